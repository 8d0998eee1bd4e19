package models

import (
	"fmt"
)

// ErrorCode is the transport-level code the calling layer maps to a response.
type ErrorCode string

const (
	CodeProcessingError     ErrorCode = "PROCESSING_ERROR"
	CodeURLProcessingError  ErrorCode = "URL_PROCESSING_ERROR"
	CodeTextProcessingError ErrorCode = "TEXT_PROCESSING_ERROR"
)

// PipelineError tags a pipeline failure with a transport code for the
// calling layer. It is the only error type that escapes the entry points.
type PipelineError struct {
	Code ErrorCode
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError wraps err with a transport code
func NewPipelineError(code ErrorCode, err error) *PipelineError {
	return &PipelineError{Code: code, Err: err}
}

// ExtractionError means the document could not be read. Fatal, no fallback.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// GenerationError means an LLM call exhausted retries or returned a
// non-retryable failure. Recoverable at structure stage via fallback,
// fatal only for the affected module at module stage.
type GenerationError struct {
	StatusCode int // HTTP status of the last attempt, 0 for transport errors
	Attempts   int
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("generation failed after %d attempt(s) (status %d): %v", e.Attempts, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("generation failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ParseError means model output contained no valid or repairable JSON.
// The original parse failure is attached even when repair was attempted.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("response parse failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("response parse failed: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError means well-formed JSON failed structural invariants.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CacheError means a cache lookup or write failed. Always non-fatal: the
// orchestrator logs it and continues.
type CacheError struct {
	Op  string // "lookup" or "store"
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s failed: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
