package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := New(KindDuplicate, "already exists")
	wrapped := fmt.Errorf("register: %w", base)

	assert.Equal(t, KindDuplicate, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
	assert.True(t, errors.Is(wrapped, base))
}

func TestMessage_HidesInternalDetails(t *testing.T) {
	assert.Equal(t, "internal server error", Message(errors.New("pq: connection refused")))
	assert.Equal(t, "internal server error", Message(Wrap(KindInternal, "db down", errors.New("x"))))
	assert.Equal(t, "item not found", Message(NotFound("item not found")))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(KindValidation, "bad input", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad input: cause", err.Error())
	assert.Equal(t, "validation_error", err.Kind.String())
}
