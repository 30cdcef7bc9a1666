// Package apperrors defines the error categories every domain operation reports.
package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindAlreadyExists      Kind = "already_exists"
	KindNotFound           Kind = "not_found"
	KindAlreadyApplied     Kind = "already_applied"
	KindValidation         Kind = "validation_error"
	KindInternal           Kind = "internal"
)

// Reason refines KindForbidden.
type Reason string

const (
	ReasonInsufficientRole   Reason = "insufficient_role"
	ReasonAccountNotApproved Reason = "account_not_approved"
	ReasonEmailNotVerified   Reason = "email_not_verified"
)

type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Code is the machine-checkable category, e.g. "forbidden.email_not_verified".
func (e *Error) Code() string {
	if e.Reason != "" {
		return string(e.Kind) + "." + string(e.Reason)
	}
	return string(e.Kind)
}

// With attaches a detail surfaced to the caller alongside the message.
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, msg) }

func Forbidden(reason Reason, msg string) *Error {
	return &Error{Kind: KindForbidden, Reason: reason, Message: msg}
}

func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "Invalid email or password.")
}

func AlreadyExists(msg string) *Error { return New(KindAlreadyExists, msg) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func AlreadyApplied() *Error { return New(KindAlreadyApplied, "Already applied") }

func Validation(msg string) *Error { return New(KindValidation, msg) }

// Internal wraps an unexpected failure. The cause is logged, never shown.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// From returns err as an *Error, treating anything unrecognised as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal server error", err)
}

func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsForbidden(err error, reason Reason) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindForbidden && e.Reason == reason
}

// FromValidation converts validator output into a ValidationError naming the failing fields.
func FromValidation(err error) *Error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Validation(err.Error())
	}
	fields := make([]string, 0, len(ve))
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of: "+fe.Param())
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return Validation(strings.Join(msgs, "; ")).With("fields", fields)
}
