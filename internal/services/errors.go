package services

import "fmt"

// UpstreamConfigError means a required external dependency is not configured. It is
// raised before any external call is attempted.
type UpstreamConfigError struct {
	Dependency string
	Detail     string
}

func (e *UpstreamConfigError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s not configured", e.Dependency)
}

// ValidationError is caller input rejected before any side effect.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ClassificationError wraps a failure of the external text classifier. Error()
// is the underlying message.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	if e.Err == nil {
		return "classification failed"
	}
	return e.Err.Error()
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// AuthError is a rejected credential or failed login.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

// SignupError is a rejected registration.
type SignupError struct {
	Reason string
}

func (e *SignupError) Error() string { return e.Reason }
