package tracing

import (
	"errors"
	"testing"

	"github.com/smallbiznis/badgescan/internal/apperror"
	"github.com/stretchr/testify/assert"
)

func TestSafeErrorHidesCause(t *testing.T) {
	err := apperror.Internal(errors.New(`pq: duplicate key "alice@example.com"`))

	safe := SafeError(err)

	assert.EqualError(t, safe, "internal: internal_error")
	assert.Nil(t, SafeError(nil))
}

func TestSafeErrorKeepsDomainCode(t *testing.T) {
	err := apperror.NotFound("user_not_found", "user not found")

	assert.EqualError(t, SafeError(err), "not_found: user_not_found")
}
