package fetch

import (
	"context"
	"time"
)

// Pacer is the proactive throttle: a fixed delay between consecutive
// requests and a longer pause after every full batch. It is independent of
// the reactive backoff the retry policy applies on rate limit errors.
type Pacer struct {
	// Delay is the wait between consecutive transcript requests.
	Delay time.Duration
	// BatchSize is the number of items processed between batch pauses.
	// 0 disables batch pausing.
	BatchSize int
	// BatchPause is the wait after each full batch.
	BatchPause time.Duration

	processed int
	sleep     func(context.Context, time.Duration) error
}

// NewPacer creates a pacer with the given throttle settings.
func NewPacer(delay time.Duration, batchSize int, batchPause time.Duration) *Pacer {
	return &Pacer{
		Delay:      delay,
		BatchSize:  batchSize,
		BatchPause: batchPause,
		sleep:      sleepContext,
	}
}

// Completed records one finished item and takes the appropriate wait:
// the batch pause on a batch boundary, the inter-request delay otherwise.
// No wait is taken when remaining is zero since there is nothing to pace for.
// It reports whether a batch pause was taken.
func (p *Pacer) Completed(ctx context.Context, remaining int) (bool, error) {
	p.processed++
	if remaining <= 0 {
		return false, nil
	}
	if p.BatchSize > 0 && p.processed%p.BatchSize == 0 {
		return true, p.sleep(ctx, p.BatchPause)
	}
	return false, p.sleep(ctx, p.Delay)
}

// Batch returns the 1-based batch number of the next item.
func (p *Pacer) Batch() int {
	if p.BatchSize <= 0 {
		return 1
	}
	return p.processed/p.BatchSize + 1
}

// sleepContext blocks for d or until the context ends.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
