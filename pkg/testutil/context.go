package testutil

import (
	"context"
	"time"

	"campuscoffee/pkg/requestcontext"
)

// ContextAt returns a background context whose request-scoped clock reads now.
func ContextAt(now time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), now)
}
