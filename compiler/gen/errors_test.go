package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("CacheSize", -1, "must not be negative")

		assert.Contains(t, err.Error(), "gqlreq: config error")
		assert.Contains(t, err.Error(), "CacheSize")
		assert.Contains(t, err.Error(), "-1")
		assert.Contains(t, err.Error(), "must not be negative")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Logger", nil, "cannot be nil")

		assert.Contains(t, err.Error(), "Logger")
		assert.Contains(t, err.Error(), "cannot be nil")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Package", nil, "missing")
		assert.True(t, errors.Is(err, ErrMissingConfig))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := NewConfigError("Package", nil, "missing")
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("syntax error")
		err := NewGenerationError("format", "requests.go", "gofmt failed", cause)

		assert.Contains(t, err.Error(), "gqlreq: generation error")
		assert.Contains(t, err.Error(), "phase format")
		assert.Contains(t, err.Error(), "file: requests.go")
		assert.Contains(t, err.Error(), "gofmt failed")
		assert.Contains(t, err.Error(), "syntax error")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewGenerationError("write", "", "", cause)
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
	})

	t.Run("IsGenerationError helper", func(t *testing.T) {
		assert.True(t, IsGenerationError(NewGenerationError("compile", "", "", nil)))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}
