package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	// Разбор инвентаря
	InvalidInventory  failure.ErrorCode = "InvalidInventory"  // base64/сжатие/корень не читаются
	InvalidSlot       failure.ErrorCode = "InvalidSlot"       // один слот не превращается в предмет
	InvalidAccountID  failure.ErrorCode = "InvalidAccountID"  // пустой или мусорный id аккаунта
	InvalidSettings   failure.ErrorCode = "InvalidSettings"   // неизвестное поле в настройках
	SettingsNotFound  failure.ErrorCode = "SettingsNotFound"  // для аккаунта ещё ничего не сохранено
	UpstreamFailed    failure.ErrorCode = "UpstreamFailed"    // внешний сервис ответил ошибкой
	UpstreamMalformed failure.ErrorCode = "UpstreamMalformed" // ответ не совпал по длине или формату
	ListingNotFound   failure.ErrorCode = "ListingNotFound"
)
