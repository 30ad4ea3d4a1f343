package analysis

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Options carries the verbosity settings for one scan. They are passed
// explicitly into every analyzer call instead of being read from globals.
type Options struct {
	Verbose bool
	Quiet   bool
}

// Analyzer is the interface every bundle check implements.
type Analyzer interface {
	// Analyze runs the check against one unpacked bundle, writing findings
	// into res. Recoverable per-candidate failures are joined into the
	// returned error; the caller decides whether to continue the scan.
	Analyze(ctx context.Context, bundle string, res *Results, opts Options) error

	// Name returns the name of this analyzer (e.g., "certificate").
	Name() string
}

// ReportFunc is a callback invoked once per analyzed bundle.
type ReportFunc func(bundle string, res *Results, duration float64, err error)

// Runner orchestrates analyzers over multiple bundles with concurrency and
// rate limiting. The rate limit throttles how fast bundle analyses start,
// which bounds the external decoder subprocess spawn rate.
type Runner struct {
	Concurrency int           // Maximum number of bundles analyzed at once
	RateLimit   int           // Bundle analyses per second (global)
	Timeout     time.Duration // Timeout for one bundle, 0 means none
}

// Run executes every analyzer against every bundle using a worker pool.
// Each bundle gets its own Results store, so analyzers never share mutable
// state across workers. Results are returned in bundle argument order.
func (r *Runner) Run(ctx context.Context, bundles []string, analyzers []Analyzer, opts Options, reportFn ReportFunc) []*Results {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	rateLimit := r.RateLimit
	if rateLimit <= 0 {
		rateLimit = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rateLimit), rateLimit)

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]*Results, len(bundles))

	for i, bundle := range bundles {
		wg.Add(1)
		go func(idx int, b string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			_ = limiter.Wait(ctx)

			start := time.Now()

			bundleCtx := ctx
			if r.Timeout > 0 {
				var cancel context.CancelFunc
				bundleCtx, cancel = context.WithTimeout(ctx, r.Timeout)
				defer cancel()
			}

			res := NewResults(b)
			var firstErr error
			for _, a := range analyzers {
				if bundleCtx.Err() != nil {
					break
				}
				if err := a.Analyze(bundleCtx, b, res, opts); err != nil {
					res.AddError(err)
					if firstErr == nil {
						firstErr = err
					}
				}
			}

			duration := time.Since(start).Seconds()

			if reportFn != nil {
				reportFn(b, res, duration, firstErr)
			}

			results[idx] = res
		}(i, bundle)
	}

	wg.Wait()
	return results
}
