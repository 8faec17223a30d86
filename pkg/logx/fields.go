package logx

const (
	FieldAccountID       = "account-id"
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldInventoryKind   = "inventory-kind"
	FieldInventoryTitle  = "inventory-title"
	FieldModifier        = "modifier"
	FieldRawNode         = "raw-node"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldSlot            = "slot"
	FieldStack           = "stack"
	FieldTask            = "task"
	FieldTraceID         = "trace-id"
	FieldUpstream        = "upstream"
	FieldURL             = "url"
)
