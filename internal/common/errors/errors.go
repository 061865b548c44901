// Package errors provides the non-fatal warning channel of the query
// engine. Nothing in the engine is fatal to the process: malformed
// input yields empty defaults, and a failing aggregation section is
// reported here while the rest of the response proceeds.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeTokenizeFailed      ErrorCode = "TOKENIZE_FAILED"
	ErrCodeDateParseFailed     ErrorCode = "DATE_PARSE_FAILED"
	ErrCodeRecordDateInvalid   ErrorCode = "RECORD_DATE_INVALID"
	ErrCodeAggregationFailed   ErrorCode = "AGGREGATION_SECTION_FAILED"
	ErrCodeComposeFailed       ErrorCode = "COMPOSE_FAILED"
	ErrCodeSnapshotUnavailable ErrorCode = "SNAPSHOT_UNAVAILABLE"
	ErrCodeMemoryWriteFailed   ErrorCode = "MEMORY_WRITE_FAILED"
	ErrCodeCatalogInvalid      ErrorCode = "CATALOG_INVALID"
)

// QueryError is a structured engine error. It satisfies the error
// interface but is normally carried inside a QueryWarning rather than
// returned up the stack.
type QueryError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Section   string    `json:"section,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("QueryError[%s]: %s", e.Code, e.Message)
}

// QueryWarning is one non-fatal issue encountered while answering a
// query. Warnings are aggregated and returned alongside the normal
// result, never instead of it.
type QueryWarning struct {
	Code    ErrorCode `json:"code"`
	Section string    `json:"section"`
	Message string    `json:"message"`
}

func (w QueryWarning) String() string {
	return fmt.Sprintf("%s/%s: %s", w.Code, w.Section, w.Message)
}

// NewAggregationWarning reports one zeroed aggregation section.
func NewAggregationWarning(section string, cause interface{}) QueryWarning {
	return QueryWarning{
		Code:    ErrCodeAggregationFailed,
		Section: section,
		Message: fmt.Sprintf("%v", cause),
	}
}

// NewRecordDateWarning reports a record whose business date could not
// be parsed as YYYY-MM-DD.
func NewRecordDateWarning(recordID, raw string) QueryWarning {
	return QueryWarning{
		Code:    ErrCodeRecordDateInvalid,
		Section: "records",
		Message: fmt.Sprintf("record %s: unparseable date %q", recordID, raw),
	}
}

// NewSnapshotWarning reports that the record snapshot could not be
// loaded; the engine answers over an empty collection instead.
func NewSnapshotWarning(err error) QueryWarning {
	return QueryWarning{
		Code:    ErrCodeSnapshotUnavailable,
		Section: "snapshot",
		Message: err.Error(),
	}
}

// NewMemoryWarning reports a failed conversation-log write.
func NewMemoryWarning(err error) QueryWarning {
	return QueryWarning{
		Code:    ErrCodeMemoryWriteFailed,
		Section: "memory",
		Message: err.Error(),
	}
}

// NewCatalogError creates a fatal-at-startup catalog validation error.
func NewCatalogError(details string) *QueryError {
	return &QueryError{
		Code:      ErrCodeCatalogInvalid,
		Message:   "catalog file failed schema validation",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// Strings flattens warnings for the response payload.
func Strings(warnings []QueryWarning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}
