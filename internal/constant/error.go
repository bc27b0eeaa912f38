package constant

import (
	"errors"
	"net/http"
)

var (
	ErrInternalError    = errors.New("internal error")
	ErrInvalidParams    = errors.New("invalid parameters")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrDatabaseError    = errors.New("database error")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrRecordDuplicate  = errors.New("record already exists")
	ErrRecordNotFound   = errors.New("record not found")
	ErrRecordIDEmpty    = errors.New("id is required")
	ErrSerializeError   = errors.New("serialize error")
	ErrDeserializeError = errors.New("deserialize error")
	ErrCacheError       = errors.New("cache error")
	ErrTooManyRequests  = errors.New("too many requests")

	// export
	ErrEntityNotFound           = errors.New("event not found")
	ErrScriptNotFound           = errors.New("script not found for this event")
	ErrFieldDefinitionsNotFound = errors.New("field definitions not found for this event type")
	ErrUnsupportedFormat        = errors.New("unsupported export format")
	ErrRenderFailed             = errors.New("failed to render document")

	// field definitions
	ErrInvalidPropertyName = errors.New("property name may only contain a-z, 0-9 and _")
	ErrInvalidFieldType    = errors.New("unknown field type")
)

var errorCodes = []struct {
	err  error
	code int
}{
	{ErrInvalidParams, http.StatusBadRequest},
	{ErrRecordIDEmpty, http.StatusBadRequest},
	{ErrRecordDuplicate, http.StatusBadRequest},
	{ErrUnsupportedFormat, http.StatusBadRequest},
	{ErrInvalidPropertyName, http.StatusBadRequest},
	{ErrInvalidFieldType, http.StatusBadRequest},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrInvalidToken, http.StatusUnauthorized},
	{ErrTokenExpired, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrRecordNotFound, http.StatusNotFound},
	{ErrEntityNotFound, http.StatusNotFound},
	{ErrScriptNotFound, http.StatusNotFound},
	{ErrFieldDefinitionsNotFound, http.StatusNotFound},
	{ErrTooManyRequests, http.StatusTooManyRequests},
}

// GetErrorCode maps an error, possibly wrapped, to its HTTP status.
func GetErrorCode(err error) int {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return http.StatusInternalServerError
}

// PublicError returns the sentinel a client may see for err. Anything not
// listed is reported as an internal error so details stay in the logs.
func PublicError(err error) error {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.err
		}
	}
	if errors.Is(err, ErrRenderFailed) {
		return ErrRenderFailed
	}
	return ErrInternalError
}
