package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON    = "INVALID_JSON"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeCheckNotFound  = "CHECK_NOT_FOUND"
	ErrCodeUnknownBrand   = "UNKNOWN_BRAND"
	ErrCodeUnauthorised   = "UNAUTHORIZED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// DomainError is an error with a stable code that the HTTP layer can map to
// a status.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrCheckNotFound = NewDomainError(ErrCodeCheckNotFound, "Check not found or auditing is disabled")
	ErrUnknownBrand  = NewDomainError(ErrCodeUnknownBrand, "Brand is not registered")
)
