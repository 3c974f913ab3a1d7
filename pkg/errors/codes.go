package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeMessageQueue       ErrorCode = "COMMON_017"
)

// Aliases used at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Sakura Detection Module Error Codes
const (
	ErrCodeProductInvalid         ErrorCode = "SAK_001"
	ErrCodeReviewInvalid          ErrorCode = "SAK_002"
	ErrCodeAnalysisFailed         ErrorCode = "SAK_003"
	ErrCodeInsufficientData       ErrorCode = "SAK_004"
	ErrCodeCheckerResponseInvalid ErrorCode = "SAK_005"
	ErrCodeSearchProviderFailed   ErrorCode = "SAK_006"
	ErrCodeNoPeerProducts         ErrorCode = "SAK_007"
)

// External Source Module Error Codes
const (
	ErrCodeSourcePayloadInvalid ErrorCode = "SRC_001"
	ErrCodeSourceUnavailable    ErrorCode = "SRC_002"
	ErrCodeSourceItemIncomplete ErrorCode = "SRC_003"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeMessageQueue:       http.StatusInternalServerError,

	ErrCodeProductInvalid:         http.StatusBadRequest,
	ErrCodeReviewInvalid:          http.StatusBadRequest,
	ErrCodeAnalysisFailed:         http.StatusInternalServerError,
	ErrCodeInsufficientData:       http.StatusUnprocessableEntity,
	ErrCodeCheckerResponseInvalid: http.StatusBadGateway,
	ErrCodeSearchProviderFailed:   http.StatusBadGateway,
	ErrCodeNoPeerProducts:         http.StatusUnprocessableEntity,

	ErrCodeSourcePayloadInvalid: http.StatusBadGateway,
	ErrCodeSourceUnavailable:    http.StatusServiceUnavailable,
	ErrCodeSourceItemIncomplete: http.StatusUnprocessableEntity,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeMessageQueue:       "message queue error",

	ErrCodeProductInvalid:         "invalid product",
	ErrCodeReviewInvalid:          "invalid review",
	ErrCodeAnalysisFailed:         "sakura analysis failed",
	ErrCodeInsufficientData:       "insufficient data for analysis",
	ErrCodeCheckerResponseInvalid: "invalid external checker response",
	ErrCodeSearchProviderFailed:   "product search provider failed",
	ErrCodeNoPeerProducts:         "no peer products for comparison",

	ErrCodeSourcePayloadInvalid: "invalid source payload",
	ErrCodeSourceUnavailable:    "source unavailable",
	ErrCodeSourceItemIncomplete: "source item incomplete",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
