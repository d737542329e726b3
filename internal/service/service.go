// Package service holds the account, list and item operations. Every method
// runs its storage calls under a bounded timeout and reports failures with
// the sentinel errors declared in errors.go.
package service

import (
	"context"
	"time"
)

// DefaultStorageTimeout bounds each storage call when none is configured.
const DefaultStorageTimeout = 5 * time.Second

type timeouts struct {
	storage time.Duration
}

func newTimeouts(d time.Duration) timeouts {
	if d <= 0 {
		d = DefaultStorageTimeout
	}
	return timeouts{storage: d}
}

func (t timeouts) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.storage)
}
