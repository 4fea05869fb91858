package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeLinkExpired  = "ERR_LINK_EXPIRED"
	ErrCodeLinkUsed     = "ERR_LINK_USED"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState          = "ERR_INVALID_STATE"
	ErrCodeBusinessRule          = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientAllowance = "ERR_INSUFFICIENT_ALLOWANCE"
	ErrCodeSelfThanks            = "ERR_SELF_THANKS"
)

// Input error codes
const (
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeFileTooLarge    = "ERR_FILE_TOO_LARGE"
	ErrCodeInvalidFileType = "ERR_INVALID_FILE_TYPE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// Delivery error codes
const (
	ErrCodeMailDelivery = "ERR_MAIL_DELIVERY"
	ErrCodeUploadFailed = "ERR_UPLOAD_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeLinkExpired:  http.StatusUnauthorized,
	ErrCodeLinkUsed:     http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:          http.StatusUnprocessableEntity,
	ErrCodeInsufficientAllowance: http.StatusUnprocessableEntity,
	ErrCodeSelfThanks:            http.StatusUnprocessableEntity,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeFileTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeInvalidFileType: http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	ErrCodeMailDelivery: http.StatusBadGateway,
	ErrCodeUploadFailed: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to wire-format codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
	"INTERNAL_ERROR":         ErrCodeInternal,
	"MISSING_FIELD":          ErrCodeValidationRequired,
	"POINTS_OUT_OF_RANGE":    ErrCodeValidationRange,
	"SELF_THANKS":            ErrCodeSelfThanks,
	"INSUFFICIENT_ALLOWANCE": ErrCodeInsufficientAllowance,
	"RECIPIENT_NOT_FOUND":    ErrCodeNotFound,
	"INVALID_LINK":           ErrCodeTokenInvalid,
	"LINK_EXPIRED":           ErrCodeLinkExpired,
	"LINK_ALREADY_USED":      ErrCodeLinkUsed,
	"INVALID_TOKEN":          ErrCodeTokenInvalid,
	"ALREADY_REGISTERED":     ErrCodeAlreadyExists,
	"REQUEST_PENDING":        ErrCodeConflict,
	"FILE_TOO_LARGE":         ErrCodeFileTooLarge,
	"INVALID_FILE_TYPE":      ErrCodeInvalidFileType,
	"UPLOAD_FAILED":          ErrCodeUploadFailed,
	"MAIL_DELIVERY_FAILED":   ErrCodeMailDelivery,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Codes already in the wire format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
