package app

import (
	"context"
	"time"
)

// Delay waits for d or until ctx is done, whichever comes first. It simulates
// a slow backend for endpoints that load incrementally.
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
