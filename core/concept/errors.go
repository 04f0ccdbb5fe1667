package concept

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound              = errors.New("concept not found")
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrExtractionUnavailable = errors.New("concept extraction is not configured")
)

// InvalidInputError is returned when a required input of an ingestion run is missing.
// No work is performed.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// UpstreamFetchError wraps a failure to read the existing concepts of a domain.
// The run is aborted before any candidate is processed.
type UpstreamFetchError struct {
	DomainID string
	Err      error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetching concepts of domain %s: %v", e.DomainID, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }
func (e *UpstreamFetchError) Cause() error  { return e.Err }

// UpstreamWriteError wraps a failed insert. Concepts inserted earlier in the same run are kept.
type UpstreamWriteError struct {
	Name string
	Err  error
}

func (e *UpstreamWriteError) Error() string {
	return fmt.Sprintf("inserting concept %q: %v", e.Name, e.Err)
}

func (e *UpstreamWriteError) Unwrap() error { return e.Err }
func (e *UpstreamWriteError) Cause() error  { return e.Err }

// ExtractionError wraps a failure of the external model used to generate outlines.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting concepts: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
func (e *ExtractionError) Cause() error  { return e.Err }
