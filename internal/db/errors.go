package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound    = errors.New("db: key not found")
	ErrIndexNotFound  = errors.New("db: index not found")
	ErrIndexExists    = errors.New("db: index already exists")
	ErrMalformedReply = errors.New("db: malformed reply")
	ErrInvalidQuery   = errors.New("db: invalid query")
)

// Op constants map to Redis command names for error context.
const (
	OpPing        = "PING"
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpDel         = "DEL"
	OpHGetAll     = "HGETALL"
	OpHSet        = "HSET"
	OpGet         = "GET"
	OpSet         = "SET"
)

// Error wraps an underlying transport or server error with the command name.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// ReplyError describes why a reply could not be decoded.
type ReplyError struct {
	Op     string
	Reason string
}

func (e *ReplyError) Error() string { return e.Op + ": malformed reply: " + e.Reason }
func (e *ReplyError) Unwrap() error { return ErrMalformedReply }
