package search

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnresolvableEntityType = errors.New("entity type could not be resolved")
	ErrAlreadyExists          = errors.New("index already exists")
	ErrNotFound               = errors.New("not found")
	ErrEngineUnavailable      = errors.New("search engine unavailable")
	ErrEngineRejected         = errors.New("search engine rejected request")
	ErrUnsupported            = errors.New("operation not supported by search engine")
	ErrInvalidPagination      = errors.New("invalid pagination")
	ErrInvalidDefinition      = errors.New("invalid index definition")
	ErrNoTransport            = errors.New("search transport is nil")
)

// Op names the transport operation an Error came from.
const (
	OpIndexDocument  = "index-document"
	OpDeleteDocument = "delete-document"
	OpSearch         = "search"
	OpScroll         = "scroll"
	OpClearScroll    = "clear-scroll"
	OpCreateIndex    = "create-index"
	OpDeleteIndex    = "delete-index"
	OpIndexExists    = "index-exists"
	OpBulk           = "bulk"
	OpHealth         = "health"
)

// Engine error types reported in response bodies.
const (
	errTypeIndexExists   = "resource_already_exists_exception"
	errTypeIndexNotFound = "index_not_found_exception"
)

// Error wraps a transport failure with the operation and index it concerns.
// Err always wraps one of the package sentinels.
type Error struct {
	Op     string
	Index  string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Index == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Index + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Unavailable wraps a failure to reach the engine at all.
func Unavailable(op, index string, err error) error {
	return &Error{Op: op, Index: index, Err: fmt.Errorf("%w: %w", ErrEngineUnavailable, err)}
}

// FromResponse classifies an engine-reported failure by HTTP status and the
// error type found in the response body.
func FromResponse(op, index string, status int, errType, reason string) error {
	var kind error
	switch {
	case errType == errTypeIndexExists:
		kind = ErrAlreadyExists
	case errType == errTypeIndexNotFound, status == http.StatusNotFound:
		kind = ErrNotFound
	case status >= http.StatusInternalServerError:
		kind = ErrEngineUnavailable
	default:
		kind = ErrEngineRejected
	}

	detail := reason
	if detail == "" {
		detail = errType
	}
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &Error{Op: op, Index: index, Status: status, Err: fmt.Errorf("%w: %s", kind, detail)}
}
