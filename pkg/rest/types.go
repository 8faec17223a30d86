// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import jsoniter "github.com/json-iterator/go"

// DescriptionRequest Снимок инвентаря. Заполняется ровно одно из полей
// FullInventoryNbt и JSONNbt.
type DescriptionRequest struct {
	// Title Заголовок инвентаря с кодами форматирования
	Title string `json:"title" validate:"max=256"`

	// FullInventoryNbt base64 от сжатого или несжатого NBT
	FullInventoryNbt string `json:"fullInventoryNbt,omitempty"`

	// JSONNbt Уже разобранный список слотов
	JSONNbt jsoniter.RawMessage `json:"jsonNbt,omitempty"`

	// AccountID uuid игрового аккаунта, с дефисами или без
	AccountID string `json:"accountId,omitempty"`

	// SessionID Сессия клиента, в логах маскируется
	SessionID string `json:"sessionId,omitempty"`

	// Settings Настройки описания; если не переданы, берутся сохранённые
	Settings *Settings `json:"settings,omitempty"`
}

// Edit Операция над описанием слота. Line — индекс в исходном описании.
type Edit struct {
	Type  string `json:"type"`
	Line  int    `json:"line"`
	Value string `json:"value"`
}

type Panel struct {
	Name  string `json:"name"`
	Edits []Edit `json:"edits"`
}

type DescriptionResponse struct {
	Slots           [][]Edit `json:"slots"`
	Virtual         []Panel  `json:"virtual"`
	PricesAvailable bool     `json:"pricesAvailable"`
}

type RenderedSlot struct {
	Lines     []string `json:"lines"`
	Highlight string   `json:"highlight,omitempty"`
	Suggest   string   `json:"suggest,omitempty"`
}

type RenderedPanel struct {
	Name string `json:"name"`
	RenderedSlot
}

type RenderedResponse struct {
	Slots           []RenderedSlot  `json:"slots"`
	Virtual         []RenderedPanel `json:"virtual"`
	PricesAvailable bool            `json:"pricesAvailable"`
}

type Settings struct {
	Fields   []string `json:"fields" validate:"max=32,dive,required"`
	Disabled []string `json:"disabled,omitempty" validate:"max=32"`
	NoTips   bool     `json:"noTips,omitempty"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор запроса для поддержки
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
