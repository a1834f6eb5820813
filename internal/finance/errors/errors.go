package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrForbidden       = errors.New("expense belongs to another user")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := ve.Messages()
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

// Messages returns the individual messages in insertion order.
func (ve *ValidationErrors) Messages() []string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return errorMessages
}

// ErrOrNil returns ve only when at least one error was collected.
func (ve *ValidationErrors) ErrOrNil() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}

// GranularityError reports a period outside minute, hour, day, week, month, year.
type GranularityError struct {
	Value string
}

func (e *GranularityError) Error() string {
	return fmt.Sprintf("invalid period %q", e.Value)
}

func IsGranularityError(err error) bool {
	var granularityError *GranularityError
	return errors.As(err, &granularityError)
}

// StoreError wraps a failure of the record store. No partial result accompanies it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func IsStoreError(err error) bool {
	var storeError *StoreError
	return errors.As(err, &storeError)
}

// DataQualityError reports a stored record that cannot be aggregated.
type DataQualityError struct {
	RecordID string
	Reason   string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("malformed record %s: %s", e.RecordID, e.Reason)
}

func IsDataQualityError(err error) bool {
	var dataQualityError *DataQualityError
	return errors.As(err, &dataQualityError)
}
