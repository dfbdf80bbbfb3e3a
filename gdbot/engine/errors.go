package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdcards/bot/gdbot/database/repositories"
)

// ErrNotFound reports an unregistered user. Expected on the normal path;
// callers render it as guidance, not as a failure.
var ErrNotFound = errors.New("profile not found")

// CooldownError is the expected denial of a draw attempted before the
// cooldown interval has elapsed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active for another %s", e.Remaining)
}

// StorageError wraps a storage failure that survived the bounded retries.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

const (
	maxStorageAttempts = 3
	retryBaseDelay     = 250 * time.Millisecond
)

// withRetry runs a storage operation with bounded backoff. Domain outcomes
// (not found, lost race) and context cancellation pass through untouched;
// anything else after the last attempt surfaces as a StorageError.
func withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxStorageAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBaseDelay << (attempt - 1)):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, repositories.ErrUserNotFound) ||
			errors.Is(err, repositories.ErrDrawRaced) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}
	return &StorageError{Op: op, Err: err}
}
