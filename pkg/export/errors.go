package export

import (
	"context"
	"errors"
	"fmt"

	"retreehawaii/mailexport/pkg/source"
)

// Error kinds used in logs and metric labels.
const (
	KindConnection    = "connection"
	KindQuery         = "query"
	KindSerialization = "serialization"
	KindCanceled      = "canceled"
	KindUnknown       = "unknown"
)

// ConnectionError reports that the source database could not be opened or
// reached. It is produced by the source package.
type ConnectionError = source.ConnectionError

// QueryError represents a failed statement or a failure while reading its
// rows.
type QueryError struct {
	Job   string // Export job name ("templates", "maillog")
	Query string // SQL text of the statement
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query error [job=%s]: %v", e.Job, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// NewQueryError creates a new QueryError.
func NewQueryError(job, query string, cause error) *QueryError {
	return &QueryError{
		Job:   job,
		Query: query,
		Cause: cause,
	}
}

// SerializationError represents a failure to encode records or write the
// output file.
type SerializationError struct {
	Path        string // Output file
	RecordCount int    // Number of records being written
	Cause       error  // Underlying error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error [file=%s, records=%d]: %v", e.Path, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// NewSerializationError creates a new SerializationError.
func NewSerializationError(path string, recordCount int, cause error) *SerializationError {
	return &SerializationError{
		Path:        path,
		RecordCount: recordCount,
		Cause:       cause,
	}
}

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	var (
		connErr  *ConnectionError
		queryErr *QueryError
		serErr   *SerializationError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.As(err, &connErr):
		return KindConnection
	case errors.As(err, &queryErr):
		return KindQuery
	case errors.As(err, &serErr):
		return KindSerialization
	default:
		return KindUnknown
	}
}
