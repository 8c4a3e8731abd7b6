package api

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the submitted text is blank. Callers treat
// it as a silent no-op rather than a failure.
var ErrEmptyInput = errors.New("empty input")

// Kind identifies which backend operation failed.
type Kind string

const (
	KindAnalysis  Kind = "analysis"
	KindScrape    Kind = "scrape"
	KindHeadlines Kind = "headlines"
)

// APIError is a failed backend call. Message is the backend's response body
// when it sent one, otherwise a generic status or transport message.
type APIError struct {
	Kind    Kind
	Status  int // zero for transport and decode failures
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newStatusError(kind Kind, r response, fallback string) *APIError {
	return &APIError{Kind: kind, Status: r.status, Message: r.errorText(fallback)}
}

func newTransportError(kind Kind, err error) *APIError {
	return &APIError{
		Kind:    kind,
		Message: fmt.Sprintf("unable to reach %s service: %v", kind, err),
		Err:     err,
	}
}

func newDecodeError(kind Kind, err error) *APIError {
	return &APIError{
		Kind:    kind,
		Message: fmt.Sprintf("invalid %s response: %v", kind, err),
		Err:     err,
	}
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
