package utils

import (
	"context"
	"strings"
	"time"
)

// WaitWith blocks for d or until ctx is done. sleepFn performs the wait so
// callers can stub it in tests.
func WaitWith(ctx context.Context, d time.Duration, sleepFn func(time.Duration)) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleepFn(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// TruncateForLog shortens s to limit runes, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// FileSafeName replaces whitespace runs in name with underscores.
func FileSafeName(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
