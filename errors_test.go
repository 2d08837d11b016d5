package gqlreq_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlreq"
)

func TestInvalidNameError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		assert.Equal(t, `gqlreq: invalid name "1Todo"`, gqlreq.NewInvalidNameError("1Todo", "").Error())
		assert.Equal(t, `gqlreq: invalid name "": empty`, gqlreq.NewInvalidNameError("", "empty").Error())
	})

	t.Run("IsInvalidName", func(t *testing.T) {
		err := gqlreq.NewInvalidNameError("a-b", "")
		assert.True(t, errors.Is(err, gqlreq.ErrInvalidName))
		assert.True(t, gqlreq.IsInvalidName(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, gqlreq.IsInvalidName(gqlreq.ErrInvalidName))
		assert.False(t, gqlreq.IsInvalidName(errors.New("other error")))
		assert.False(t, gqlreq.IsInvalidName(nil))
	})
}

func TestRequiredFieldMissingError(t *testing.T) {
	err := gqlreq.NewRequiredFieldMissingError("Todo", "name")
	assert.Equal(t, `gqlreq: required field "name" of Todo is missing`, err.Error())
	assert.True(t, errors.Is(err, gqlreq.ErrRequiredFieldMissing))
	assert.True(t, gqlreq.IsRequiredFieldMissing(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, gqlreq.IsRequiredFieldMissing(gqlreq.ErrUnknownField))
	assert.False(t, gqlreq.IsRequiredFieldMissing(nil))
}

func TestUnknownFieldError(t *testing.T) {
	err := gqlreq.NewUnknownFieldError("Todo", "title")
	assert.Equal(t, `gqlreq: Todo has no field "title"`, err.Error())
	assert.True(t, errors.Is(err, gqlreq.ErrUnknownField))
	assert.True(t, gqlreq.IsUnknownField(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, gqlreq.IsUnknownField(errors.New("other error")))
	assert.False(t, gqlreq.IsUnknownField(nil))
}

func TestUnsupportedOperationError(t *testing.T) {
	err := gqlreq.NewUnsupportedOperationError(gqlreq.OperationQuery, "sync")
	assert.Equal(t, `gqlreq: unsupported query "sync"`, err.Error())
	assert.True(t, errors.Is(err, gqlreq.ErrUnsupportedOperation))
	assert.True(t, gqlreq.IsUnsupportedOperation(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, gqlreq.IsUnsupportedOperation(nil))
}

func TestInvalidPredicateError(t *testing.T) {
	err := gqlreq.NewInvalidPredicateError("name has_suffix x", "no backend comparator")
	assert.Equal(t, "gqlreq: invalid predicate name has_suffix x: no backend comparator", err.Error())
	assert.True(t, errors.Is(err, gqlreq.ErrInvalidPredicate))
	assert.True(t, gqlreq.IsInvalidPredicate(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, gqlreq.IsInvalidPredicate(nil))
}

func TestValidationError(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, gqlreq.NewValidationError("GetTodo"))
		assert.NoError(t, gqlreq.NewValidationError("GetTodo", nil, nil))
	})

	t.Run("Single", func(t *testing.T) {
		err := gqlreq.NewValidationError("GetTodo", nil, errors.New("unknown field"))
		assert.Equal(t, "gqlreq: GetTodo rejected by schema: unknown field", err.Error())
		assert.True(t, gqlreq.IsValidationError(err))
		assert.True(t, errors.Is(err, gqlreq.ErrValidation))
	})

	t.Run("Multiple", func(t *testing.T) {
		cause := errors.New("second")
		err := gqlreq.NewValidationError("GetTodo", errors.New("first"), cause)
		assert.Equal(t, "gqlreq: GetTodo rejected by schema:\n  [1] first\n  [2] second", err.Error())
		assert.True(t, errors.Is(err, cause))
		var verr *gqlreq.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Errors, 2)
	})

	assert.False(t, gqlreq.IsValidationError(errors.New("other")))
	assert.False(t, gqlreq.IsValidationError(nil))
}

func TestOperationError(t *testing.T) {
	cause := gqlreq.NewUnknownFieldError("Todo", "title")
	err := gqlreq.NewOperationError(gqlreq.QueryList, "Todo", cause)
	assert.Equal(t, `gqlreq: building query list Todo: gqlreq: Todo has no field "title"`, err.Error())
	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, gqlreq.IsUnknownField(err))

	var uerr *gqlreq.UnknownFieldError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "title", uerr.Field)

	noModel := gqlreq.NewOperationError(gqlreq.SubscriptionOnDelete, "", cause)
	assert.Equal(t, `gqlreq: building subscription onDelete: gqlreq: Todo has no field "title"`, noModel.Error())
}
