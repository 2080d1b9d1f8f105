// Package correlation carries a request-scoped correlation ID from the HTTP
// edge into logs and published events.
package correlation

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Header is the HTTP header and kafka message header name.
const Header = "X-Correlation-Id"

type key struct{}

func ID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key{}).(string)
	return id
}

// WithID stores id on ctx. Blank ids leave ctx unchanged.
func WithID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, key{}, id)
}

// Ensure returns ctx with a correlation ID, minting a ULID when the caller
// did not send one.
func Ensure(ctx context.Context, incoming string) (context.Context, string) {
	ctx = WithID(ctx, incoming)
	if id := ID(ctx); id != "" {
		return ctx, id
	}
	id := ulid.Make().String()
	return context.WithValue(ctx, key{}, id), id
}
