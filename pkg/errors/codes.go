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
	ErrCodeRateLimited        ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
)

// Targeting Module Error Codes (entity building, canvassing, reporting)
const (
	ErrCodePrecinctNotFound        ErrorCode = "TGT_001"
	ErrCodeJurisdictionNotFound    ErrorCode = "TGT_002"
	ErrCodeEmptyJurisdiction       ErrorCode = "TGT_003"
	ErrCodeEmptySegment            ErrorCode = "TGT_004"
	ErrCodeNoMatchingPrecincts     ErrorCode = "TGT_005"
	ErrCodeUnsupportedBoundaryType ErrorCode = "TGT_006"
)

// Lookalike Module Error Codes
const (
	ErrCodeSimilarityAlgorithmInvalid ErrorCode = "LKA_001"
	ErrCodeLookalikeReferenceInvalid  ErrorCode = "LKA_002"
)

// Canvassing / Segment persistence Error Codes
const (
	ErrCodeUniverseNotFound ErrorCode = "CNV_001"
	ErrCodeSegmentNotFound  ErrorCode = "SEG_001"
)

// Data Source Error Codes
const (
	ErrCodeDataSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeDataSourceParseError  ErrorCode = "SRC_004"
)

// Short aliases used at call sites.
const (
	CodeOK                      = ErrorCode("OK")
	CodeUnknown                 = ErrorCode("UNKNOWN")
	CodeInternal                = ErrCodeInternal
	CodeInvalidParam            = ErrCodeBadRequest
	CodeNotFound                = ErrCodeNotFound
	CodeConflict                = ErrCodeConflict
	CodeValidation              = ErrCodeValidation
	CodePrecinctNotFound        = ErrCodePrecinctNotFound
	CodeJurisdictionNotFound    = ErrCodeJurisdictionNotFound
	CodeEmptyJurisdiction       = ErrCodeEmptyJurisdiction
	CodeEmptySegment            = ErrCodeEmptySegment
	CodeNoMatchingPrecincts     = ErrCodeNoMatchingPrecincts
	CodeUnsupportedBoundaryType = ErrCodeUnsupportedBoundaryType
	CodeUniverseNotFound        = ErrCodeUniverseNotFound
	CodeSegmentNotFound         = ErrCodeSegmentNotFound
	CodeDataSourceUnavailable   = ErrCodeDataSourceUnavailable
	CodeCacheError              = ErrCodeCacheError
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,

	ErrCodePrecinctNotFound:        http.StatusNotFound,
	ErrCodeJurisdictionNotFound:    http.StatusNotFound,
	ErrCodeEmptyJurisdiction:       http.StatusUnprocessableEntity,
	ErrCodeEmptySegment:            http.StatusUnprocessableEntity,
	ErrCodeNoMatchingPrecincts:     http.StatusUnprocessableEntity,
	ErrCodeUnsupportedBoundaryType: http.StatusBadRequest,

	ErrCodeSimilarityAlgorithmInvalid: http.StatusBadRequest,
	ErrCodeLookalikeReferenceInvalid:  http.StatusBadRequest,

	ErrCodeUniverseNotFound: http.StatusNotFound,
	ErrCodeSegmentNotFound:  http.StatusNotFound,

	ErrCodeDataSourceUnavailable: http.StatusServiceUnavailable,
	ErrCodeDataSourceParseError:  http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeRateLimited:        "rate limit exceeded",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",

	ErrCodePrecinctNotFound:        "precinct not found",
	ErrCodeJurisdictionNotFound:    "jurisdiction not found",
	ErrCodeEmptyJurisdiction:       "No precincts found",
	ErrCodeEmptySegment:            "No precincts in segment results",
	ErrCodeNoMatchingPrecincts:     "No matching precincts found",
	ErrCodeUnsupportedBoundaryType: "unsupported boundary type",

	ErrCodeSimilarityAlgorithmInvalid: "unsupported similarity algorithm",
	ErrCodeLookalikeReferenceInvalid:  "invalid lookalike reference",

	ErrCodeUniverseNotFound: "canvassing universe not found",
	ErrCodeSegmentNotFound:  "segment not found",

	ErrCodeDataSourceUnavailable: "data source unavailable",
	ErrCodeDataSourceParseError:  "failed to parse data source",
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

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
