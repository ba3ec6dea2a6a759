package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/sitemapper"
)

// Ensure Fetcher implements sitemapper.Fetcher.
var _ sitemapper.Fetcher = (*Fetcher)(nil)

// Fetcher counts and times page fetches.
type Fetcher struct {
	next    sitemapper.Fetcher
	metrics *Metrics
}

// NewFetcher wraps next with fetch metrics.
func NewFetcher(next sitemapper.Fetcher, m *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: m}
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.metrics.FetchDuration.Observe(time.Since(begin).Seconds())
		result := ResultOK
		if err != nil {
			result = ResultError
		}
		f.metrics.FetchesTotal.WithLabelValues(result).Inc()
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}
