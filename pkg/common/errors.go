package common

import "fmt"

// RecordError reports a validation failure for one award record. The record's
// subgraph is discarded; processing of the batch continues.
type RecordError struct {
	Award string
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %s: %v", e.Award, e.Err)
	}
	return fmt.Sprintf("record %s: field %s: %v", e.Award, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NewRecordError wraps err as a RecordError for the given award and field.
func NewRecordError(award, field string, err error) *RecordError {
	return &RecordError{Award: award, Field: field, Err: err}
}
