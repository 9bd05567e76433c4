// Package storeerr translates db-layer failures into the domain error taxonomy.
package storeerr

import (
	"errors"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/domain"
)

// Map wraps err for op. Malformed replies become MalformedReplyError,
// every other failure is a StoreError. nil stays nil.
func Map(op string, err error) error {
	if err == nil {
		return nil
	}
	var reply *db.ReplyError
	if errors.As(err, &reply) {
		return &domain.MalformedReplyError{Reason: reply.Reason, Err: err}
	}
	if errors.Is(err, db.ErrMalformedReply) {
		return &domain.MalformedReplyError{Reason: op, Err: err}
	}
	return &domain.StoreError{Op: op, Err: err}
}
