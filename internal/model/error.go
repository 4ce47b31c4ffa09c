package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeInvalidParameter   = "INVALID_PARAMETER"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeUpstreamTimeout    = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamMalformed  = "UPSTREAM_MALFORMED"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
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
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInvalidParameter   = NewDomainError(ErrCodeInvalidParameter, "Invalid request parameter")
	ErrCatalogUnavailable = NewDomainError(ErrCodeCatalogUnavailable, "Product catalogue is unavailable")
	ErrUpstreamTimeout    = NewDomainError(ErrCodeUpstreamTimeout, "Product catalogue request timed out")
	ErrUpstreamMalformed  = NewDomainError(ErrCodeUpstreamMalformed, "Product catalogue returned a malformed payload")
)

// ErrorCode returns the domain error code carried by err, or ErrCodeInternalError.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}
