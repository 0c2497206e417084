package model

import (
	"errors"
	"fmt"
)

// DataError reports insufficient lookback history for an analysis step.
// The orchestration layer treats it as a skip; it becomes a hard error only
// when it originates at the provider boundary.
type DataError struct {
	Op  string
	Err error
}

func (e *DataError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *DataError) Unwrap() error { return e.Err }

// NewDataError wraps err as a DataError for the named operation.
func NewDataError(op string, err error) *DataError {
	return &DataError{Op: op, Err: err}
}

// ComputationError reports a numeric failure (e.g. a flat benchmark making a
// beta denominator zero). Callers substitute a neutral default and continue.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *ComputationError) Unwrap() error { return e.Err }

// NewComputationError wraps err as a ComputationError for the named operation.
func NewComputationError(op string, err error) *ComputationError {
	return &ComputationError{Op: op, Err: err}
}

// ConfigurationError reports an invalid threshold or parameter. Construction
// fails fast on it; it is never silently defaulted.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// NewConfigurationError reports an invalid value for the named field.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

// IsDataError reports whether err is (or wraps) a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// IsComputationError reports whether err is (or wraps) a ComputationError.
func IsComputationError(err error) bool {
	var ce *ComputationError
	return errors.As(err, &ce)
}
