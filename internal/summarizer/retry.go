package summarizer

import "time"

// RetryPolicy retries an operation a bounded number of times with a fixed
// delay between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	// Retryable classifies errors; nil retries every error.
	Retryable func(error) bool
	// Sleep is replaceable in tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// DefaultRetryPolicy matches the completion-call budget: 3 attempts with a
// 1 second pause between them.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{MaxAttempts: 3, Delay: time.Second}
}

// Execute runs fn until it succeeds, a non-retryable error occurs, or
// MaxAttempts is exhausted. Returns nil on success, otherwise the last
// error. No sleep follows the final attempt.
func (p *RetryPolicy) Execute(fn func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt < p.MaxAttempts {
			sleep(p.Delay)
		}
	}
	return lastErr
}
