package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrUnavailable marks failures to reach the Redis server: refused or
	// dropped connections, I/O timeouts and an exhausted connection pool.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrBusy marks Redis replies that clear once the server finishes
	// loading its dataset or a failover completes.
	ErrBusy = errors.New("cache backend busy")
)

// busyReplies are the error reply prefixes classified as ErrBusy.
var busyReplies = []string{"LOADING", "BUSY", "TRYAGAIN", "MASTERDOWN", "CLUSTERDOWN", "READONLY"}

// redisFailure is a Redis command error worth retrying. kind is ErrUnavailable
// or ErrBusy.
type redisFailure struct {
	op   string
	kind error
	err  error
}

func (f *redisFailure) Error() string {
	return fmt.Sprintf("redis %s: %v: %v", f.op, f.kind, f.err)
}

func (f *redisFailure) Unwrap() []error { return []error{f.kind, f.err} }

// classify wraps err from command op as a *redisFailure when a retry may
// succeed. Misses, a closed client, cancelled contexts and command errors
// such as WRONGTYPE come back unchanged.
func classify(op string, err error) error {
	switch {
	case err == nil,
		errors.Is(err, redis.Nil),
		errors.Is(err, redis.ErrClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, redis.ErrPoolTimeout),
		errors.Is(err, redis.ErrPoolExhausted),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return &redisFailure{op: op, kind: ErrUnavailable, err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &redisFailure{op: op, kind: ErrUnavailable, err: err}
	}
	for _, prefix := range busyReplies {
		if redis.HasErrorPrefix(err, prefix) {
			return &redisFailure{op: op, kind: ErrBusy, err: err}
		}
	}
	return err
}

func retryable(err error) bool {
	var f *redisFailure
	return errors.As(err, &f)
}

// retryDelay is the first backoff interval; it doubles per attempt.
var retryDelay = 200 * time.Millisecond

const retryAttempts = 3

// withRetry runs the Redis command cmd, retrying with exponential backoff
// while classify reports its error as retryable.
func withRetry(ctx context.Context, op string, cmd func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = classify(op, cmd()); !retryable(err) || attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
