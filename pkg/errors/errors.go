// Package errors provides the structured error types used across the
// carprice pipeline. Every failure in this program is fatal for the run,
// so the types here carry enough context (operation, column, shape) for a
// single diagnostic line to explain what went wrong.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// SchemaError reports a column that the pipeline requires but the loaded
// table does not contain. Filter steps fail on it; the column reducer
// tolerates absence and never raises it.
type SchemaError struct {
	Op     string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("carprice: %s: required column %q not present in table", e.Op, e.Column)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *SchemaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "SchemaError")
}

// NewSchemaError creates a SchemaError with a stack trace attached.
func NewSchemaError(op, column string) error {
	err := &SchemaError{Op: op, Column: column}
	return errors.WithStack(err)
}

// DegenerateStatisticError reports a summary statistic that is undefined
// for its input, e.g. the mode of a column with zero non-missing values.
type DegenerateStatisticError struct {
	Statistic string
	Column    string
	Reason    string
}

func (e *DegenerateStatisticError) Error() string {
	return fmt.Sprintf("carprice: %s of column %q is undefined: %s", e.Statistic, e.Column, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DegenerateStatisticError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("statistic", e.Statistic).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "DegenerateStatisticError")
}

// NewDegenerateStatisticError creates a DegenerateStatisticError with a
// stack trace attached.
func NewDegenerateStatisticError(statistic, column, reason string) error {
	err := &DegenerateStatisticError{Statistic: statistic, Column: column, Reason: reason}
	return errors.WithStack(err)
}

// NotFittedError is returned when Predict or Transform is called on an
// estimator before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("carprice: %s: this estimator is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports a shape mismatch between two inputs.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("carprice: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is invalid for the operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("carprice: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ErrEmptyData is returned when a stage receives a table or matrix with no
// rows.
var ErrEmptyData = New("empty data")
