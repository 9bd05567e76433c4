package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmbeddingFailure signals an unreachable provider, a non-success status or an unusable payload.
	ErrEmbeddingFailure = errors.New("embedding failure")
	// ErrStoreUnavailable signals a connection or transport failure to the document store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrIndexProvisioning signals that creating the search index failed.
	ErrIndexProvisioning = errors.New("index provisioning failed")
	// ErrMalformedReply signals a store reply that cannot be parsed even partially.
	ErrMalformedReply = errors.New("malformed reply")
	// ErrInvalidRequest signals a caller-side contract violation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrGenerationFailure signals a failed text-generation call.
	ErrGenerationFailure = errors.New("generation failure")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
)

// EmbeddingError carries the provider response that caused ErrEmbeddingFailure.
type EmbeddingError struct {
	Provider   string
	Model      string
	StatusCode int    // 0 when no HTTP response was received
	Body       string // raw response body, if any
	Err        error
}

func (e *EmbeddingError) Error() string {
	msg := ErrEmbeddingFailure.Error()
	if e.Provider != "" {
		msg += " (" + e.Provider + ")"
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EmbeddingError) Unwrap() []error { return unwrapPair(ErrEmbeddingFailure, e.Err) }

// StoreError wraps a transport failure of a store command.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable.Error(), e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error { return unwrapPair(ErrStoreUnavailable, e.Err) }

// IndexProvisioningError names the index whose creation failed.
type IndexProvisioningError struct {
	Index string
	Err   error
}

func (e *IndexProvisioningError) Error() string {
	return fmt.Sprintf("%s: index %q: %v", ErrIndexProvisioning.Error(), e.Index, e.Err)
}

func (e *IndexProvisioningError) Unwrap() []error { return unwrapPair(ErrIndexProvisioning, e.Err) }

// MalformedReplyError describes why a store reply was rejected.
type MalformedReplyError struct {
	Reason string
	Err    error
}

func (e *MalformedReplyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedReply.Error(), e.Reason, e.Err)
	}
	return ErrMalformedReply.Error() + ": " + e.Reason
}

func (e *MalformedReplyError) Unwrap() []error { return unwrapPair(ErrMalformedReply, e.Err) }

// InvalidRequestError names the offending argument.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRequest.Error(), e.Field, e.Reason)
}

func (e *InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

// NewInvalidRequest creates an InvalidRequestError.
func NewInvalidRequest(field, reason string) error {
	return &InvalidRequestError{Field: field, Reason: reason}
}

// GenerationError carries the provider response that caused ErrGenerationFailure.
type GenerationError struct {
	Model      string
	StatusCode int
	Body       string
	Err        error
}

func (e *GenerationError) Error() string {
	msg := ErrGenerationFailure.Error()
	if e.Model != "" {
		msg += " (" + e.Model + ")"
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() []error { return unwrapPair(ErrGenerationFailure, e.Err) }

func unwrapPair(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}
