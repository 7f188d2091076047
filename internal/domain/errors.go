package domain

import (
	"errors"
	"fmt"
	"time"
)

// NoticeTTL is how long a validation message stays on screen before it is dismissed.
const NoticeTTL = 2200 * time.Millisecond

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Error codes.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNoEntries       = "NO_ENTRIES"
	CodeNothingToSubmit = "NOTHING_TO_SUBMIT"
	CodeMarketClosed    = "MARKET_CLOSED"
	CodeNotFound        = "NOT_FOUND"
	CodePlacement       = "PLACEMENT_FAILED"
	CodeSubmitInFlight  = "SUBMIT_IN_FLIGHT"
	CodeUpstream        = "UPSTREAM_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// Standard domain error constructors.

func ErrValidation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Status: 400}
}

func ErrNoEntries() *AppError {
	return &AppError{Code: CodeNoEntries, Message: "no entries with points to add", Status: 400}
}

func ErrNothingToSubmit() *AppError {
	return &AppError{Code: CodeNothingToSubmit, Message: "nothing to submit", Status: 400}
}

func ErrMarketClosed(msg string) *AppError {
	return &AppError{Code: CodeMarketClosed, Message: msg, Status: 409}
}

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrPlacement(msg string, cause error) *AppError {
	return &AppError{Code: CodePlacement, Message: msg, Status: 502, Cause: cause}
}

func ErrSubmitInFlight() *AppError {
	return &AppError{Code: CodeSubmitInFlight, Message: "a submission for this slip is already in progress", Status: 409}
}

func ErrUpstream(msg string, cause error) *AppError {
	return &AppError{Code: CodeUpstream, Message: msg, Status: 502, Cause: cause}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: msg, Status: 500, Cause: cause}
}

// IsValidation reports whether err is a user-input problem that should be shown as a
// transient notice rather than treated as a failure.
func IsValidation(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case CodeValidation, CodeNoEntries, CodeNothingToSubmit:
		return true
	}
	return false
}

// RejectionError is a refusal reported by the remote API, either success:false in
// a 2xx envelope or a non-2xx status. Message is the server's text, possibly empty.
type RejectionError struct {
	Status  int
	Message string
}

func (e *RejectionError) Error() string {
	switch {
	case e.Status >= 200 && e.Status <= 299:
		return "api error: " + e.Message
	case e.Message != "":
		return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api returned %d", e.Status)
}

// RejectionMessage returns the server's text from a RejectionError anywhere in
// err's chain, or "" when there is none.
func RejectionMessage(err error) string {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Message
	}
	return ""
}
