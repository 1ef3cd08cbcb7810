package store

import (
	"math/rand"
	"strings"
	"time"
)

// retryConfig controls retries of writes that hit transient SQLite errors.
type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetryConfig = retryConfig{
	maxRetries: 3,
	baseDelay:  50 * time.Millisecond,
	maxDelay:   500 * time.Millisecond,
}

// transientPatterns are substrings modernc.org/sqlite puts in errors that
// clear up once the competing connection lets go.
var transientPatterns = []string{
	"SQLITE_BUSY",
	"SQLITE_LOCKED",
	"database is locked",
	"database table is locked",
	"(5)",
	"(6)",
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// retryOp runs fn until it succeeds, fails permanently, or runs out of attempts.
func retryOp(cfg retryConfig, fn func() error) error {
	var err error
	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		if err = fn(); err == nil || !isTransient(err) {
			return err
		}
		if attempt < cfg.maxRetries {
			time.Sleep(backoff(cfg, attempt))
		}
	}
	return err
}

// backoff is baseDelay*2^attempt capped at maxDelay, plus up to baseDelay of jitter.
func backoff(cfg retryConfig, attempt int) time.Duration {
	d := cfg.baseDelay << uint(attempt)
	if d > cfg.maxDelay {
		d = cfg.maxDelay
	}
	return d + time.Duration(rand.Int63n(int64(cfg.baseDelay)))
}
