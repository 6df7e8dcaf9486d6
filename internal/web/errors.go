package web

import "net/http"

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError формирует стандартный JSON с кодом и сообщением об ошибке.
func writeError(w http.ResponseWriter, status int, code ErrorResponseErrorCode, message string) {
	resp := errorResponse{
		Error: errorBody{
			Code:    string(code),
			Message: message,
		},
	}
	writeJSON(w, status, resp)
}

// writeDomainError отвечает ошибкой, переведённой в HTTP-статус и код.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code, msg := mapDomainError(err)
	writeError(w, status, code, msg)
}

// Возможные значения кода ошибки.
const (
	NOTFOUND       ErrorResponseErrorCode = "NOT_FOUND"
	CYCLEDETECTED  ErrorResponseErrorCode = "CYCLE_DETECTED"
	INVALIDTEAM    ErrorResponseErrorCode = "INVALID_TEAM"
	LOADFAILED     ErrorResponseErrorCode = "LOAD_FAILED"
	PERSISTFAILED  ErrorResponseErrorCode = "PERSIST_FAILED"
	INVALIDPAYLOAD ErrorResponseErrorCode = "INVALID_PAYLOAD"
	INVALIDPARAM   ErrorResponseErrorCode = "INVALID_PARAM"
	INTERNALERROR  ErrorResponseErrorCode = "INTERNAL_ERROR"
)

// ErrorResponseErrorCode описывает код ошибки в ответе.
type ErrorResponseErrorCode string
