package appErrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindEmptyDocument       Kind = "EMPTY_DOCUMENT"
	KindUnsupportedDocument Kind = "UNSUPPORTED_DOCUMENT"
	KindLedgerUnavailable   Kind = "LEDGER_UNAVAILABLE"
	KindNoContext           Kind = "NO_CONTEXT"
	KindNoNotesForTopic     Kind = "NO_NOTES_FOR_TOPIC"
	KindRateLimited         Kind = "RATE_LIMITED"
	KindMalformedGeneration Kind = "MALFORMED_GENERATION"
	KindGeneration          Kind = "GENERATION_FAILURE"
	KindIndex               Kind = "INDEX_FAILURE"
	KindBadRequest          Kind = "BAD_REQUEST"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindInternal            Kind = "INTERNAL_ERROR"
)

// AppError is the only error shape allowed to leave the pipeline coordinator.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Kind so wrapped copies of a sentinel still compare equal.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

var (
	ErrEmptyDocument       = New(KindEmptyDocument, "empty document after splitting")
	ErrUnsupportedDocument = New(KindUnsupportedDocument, "unsupported file type")
	ErrLedgerUnavailable   = New(KindLedgerUnavailable, "dedup ledger unavailable")
	ErrNoContext           = New(KindNoContext, "no content found to generate quiz")
	ErrNoNotesForTopic     = New(KindNoNotesForTopic, "No notes found related to this keyword. Please upload your notes first.")
	ErrRateLimited         = New(KindRateLimited, "Too many requests. Please wait and try again.")
	ErrMalformedGeneration = New(KindMalformedGeneration, "generated quiz could not be parsed")
	ErrGenerationFailed    = New(KindGeneration, "generative service failed")
	ErrIndexFailed         = New(KindIndex, "index store failed")
)

func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindEmptyDocument, KindUnsupportedDocument, KindNoContext, KindNoNotesForTopic, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindMalformedGeneration, KindGeneration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is safe to show to a client.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal Server Error"
}
