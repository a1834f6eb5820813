package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("summary: %w", NewStoreError("fetch records", cause))

	assert.True(t, IsStoreError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "summary: record store fetch records: connection refused", err.Error())
}

func TestErrorCategoriesAreDistinct(t *testing.T) {
	granularity := &GranularityError{Value: "fortnight"}
	quality := &DataQualityError{RecordID: "42", Reason: "negative amount"}

	assert.True(t, IsGranularityError(granularity))
	assert.False(t, IsStoreError(granularity))
	assert.False(t, IsGranularityError(quality))
	assert.True(t, IsDataQualityError(quality))
	assert.Equal(t, `invalid period "fortnight"`, granularity.Error())
}

func TestValidationErrors(t *testing.T) {
	var ve ValidationErrors
	assert.NoError(t, ve.ErrOrNil())

	ve.Add(NewValidationError("Title is required"))
	ve.Add(NewValidationError("Amount must be greater than 0"))

	err := ve.ErrOrNil()
	assert.Error(t, err)
	assert.True(t, IsValidationErrors(err))
	assert.Equal(t, []string{"Title is required", "Amount must be greater than 0"}, ve.Messages())
}
