package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every typed error below matches the sentinel of its Kind.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrNetworkFailure     = errors.New("network failure")

	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileUnreachable = errors.New("profile check unreachable")

	ErrValidationFailed = errors.New("validation failed")
	ErrSuperseded       = errors.New("request superseded")
	ErrRequestFailed    = errors.New("request failed")

	ErrProfileCreateFailed = errors.New("profile creation failed")

	// ErrNotLoggedIn is returned when an operation needs an identity and there is none.
	ErrNotLoggedIn = errors.New("not logged in")
)

// AuthErrorKind classifies authentication failures.
type AuthErrorKind int

const (
	AuthInvalidCredentials AuthErrorKind = iota
	AuthRegistrationFailed
	AuthNetworkFailure
)

func (k AuthErrorKind) sentinel() error {
	switch k {
	case AuthRegistrationFailed:
		return ErrRegistrationFailed
	case AuthNetworkFailure:
		return ErrNetworkFailure
	default:
		return ErrInvalidCredentials
	}
}

// AuthError is returned by login and register.
type AuthError struct {
	Kind   AuthErrorKind
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	return describe(e.Kind.sentinel(), e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool { return target == e.Kind.sentinel() }

// ProfileCheckErrorKind classifies profile-check outcomes that are not a plain "found".
type ProfileCheckErrorKind int

const (
	// ProfileCheckNotFound is a valid negative answer, not a failure.
	ProfileCheckNotFound ProfileCheckErrorKind = iota
	ProfileCheckUnreachable
)

func (k ProfileCheckErrorKind) sentinel() error {
	if k == ProfileCheckUnreachable {
		return ErrProfileUnreachable
	}
	return ErrProfileNotFound
}

// ProfileCheckError tells a caller why a profile check came back negative.
type ProfileCheckError struct {
	Kind ProfileCheckErrorKind
	Err  error
}

func (e *ProfileCheckError) Error() string {
	return describe(e.Kind.sentinel(), "", e.Err)
}

func (e *ProfileCheckError) Unwrap() error { return e.Err }

func (e *ProfileCheckError) Is(target error) bool { return target == e.Kind.sentinel() }

// Retryable reports whether asking again may give a different answer.
func (e *ProfileCheckError) Retryable() bool { return e.Kind == ProfileCheckUnreachable }

// RequestErrorKind classifies package request failures.
type RequestErrorKind int

const (
	RequestValidationFailed RequestErrorKind = iota
	RequestSuperseded
	RequestFailed
)

func (k RequestErrorKind) sentinel() error {
	switch k {
	case RequestValidationFailed:
		return ErrValidationFailed
	case RequestSuperseded:
		return ErrSuperseded
	default:
		return ErrRequestFailed
	}
}

// RequestError is returned by the package orchestrator.
// Fields names the offending inputs of a validation failure.
type RequestError struct {
	Kind   RequestErrorKind
	Reason string
	Fields []string
	Err    error
}

// NewValidationError builds a RequestError of kind RequestValidationFailed.
func NewValidationError(reason string, fields ...string) *RequestError {
	return &RequestError{Kind: RequestValidationFailed, Reason: reason, Fields: fields}
}

func (e *RequestError) Error() string {
	return describe(e.Kind.sentinel(), e.Reason, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == e.Kind.sentinel() }

// ProfileErrorKind classifies profile creation failures.
type ProfileErrorKind int

const (
	ProfileValidationFailed ProfileErrorKind = iota
	ProfileCreateFailed
)

// ProfileError is returned by profile creation.
type ProfileError struct {
	Kind   ProfileErrorKind
	Reason string
	Fields []string
	Err    error
}

func (e *ProfileError) sentinel() error {
	if e.Kind == ProfileValidationFailed {
		return ErrValidationFailed
	}
	return ErrProfileCreateFailed
}

func (e *ProfileError) Error() string {
	return describe(e.sentinel(), e.Reason, e.Err)
}

func (e *ProfileError) Unwrap() error { return e.Err }

func (e *ProfileError) Is(target error) bool { return target == e.sentinel() }

func describe(kind error, reason string, cause error) string {
	msg := kind.Error()
	if reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, reason)
	}
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return msg
}
