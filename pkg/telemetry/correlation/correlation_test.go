package correlation

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureGeneratesULID(t *testing.T) {
	ctx, id := Ensure(context.Background(), "  ")

	_, err := ulid.ParseStrict(id)
	require.NoError(t, err)
	assert.Equal(t, id, ID(ctx))
}

func TestEnsureKeepsIncoming(t *testing.T) {
	ctx, id := Ensure(context.Background(), " abc ")

	assert.Equal(t, "abc", id)
	assert.Equal(t, "abc", ID(ctx))
	assert.Equal(t, "", ID(context.Background()))
}

func TestEnsureKeepsExistingContextValue(t *testing.T) {
	ctx := WithID(context.Background(), "from-upstream")

	_, id := Ensure(ctx, "")
	assert.Equal(t, "from-upstream", id)
}
