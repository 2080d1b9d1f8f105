package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCodeAndKind(t *testing.T) {
	errUserNotFound := NotFound("user_not_found", "user not found")
	errOther := NotFound("friend_not_found", "friend not found")

	wrapped := fmt.Errorf("lookup: %w", errUserNotFound)

	assert.True(t, errors.Is(wrapped, errUserNotFound))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, errOther))
	assert.False(t, errors.Is(wrapped, ErrConflict))
}

func TestWithfKeepsIdentity(t *testing.T) {
	errInvalidField := InvalidArgument("invalid_update_field", "invalid update field")

	err := errInvalidField.Withf("invalid update field: %s", "foo")

	assert.True(t, errors.Is(err, errInvalidField))
	assert.Equal(t, "invalid update field: foo", err.Error())
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestInternalWrapsUnclassified(t *testing.T) {
	cause := errors.New("connection reset")

	err := Internal(cause)

	assert.Equal(t, KindInternal, KindOf(err))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, "internal_error", CodeOf(err))
}

func TestInternalPassesClassifiedThrough(t *testing.T) {
	errConflict := Conflict("friendship_exists", "friendship already exists")

	assert.Same(t, errConflict, Internal(errConflict))
	assert.Nil(t, Internal(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
