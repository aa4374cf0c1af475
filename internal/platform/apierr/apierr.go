package apierr

import "fmt"

// Stable error codes surfaced to API callers.
const (
	CodeValidation     = "validation_error"
	CodeStoreFailure   = "store_failure"
	CodeClassification = "classification_error"
	CodeUpstreamConfig = "upstream_config_error"
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeSignupFailed   = "signup_failed"
	CodeRateLimited    = "rate_limited"
	CodeInternal       = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}
