package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// stubAnalyzer records the bundles it saw and optionally fails.
type stubAnalyzer struct {
	name string
	err  error

	mu      sync.Mutex
	bundles []string
}

func (a *stubAnalyzer) Name() string { return a.name }

func (a *stubAnalyzer) Analyze(_ context.Context, bundle string, res *Results, _ Options) error {
	a.mu.Lock()
	a.bundles = append(a.bundles, bundle)
	a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	res.AddVulnerability(Vulnerability{Severity: SeverityLow, Name: a.name})
	return nil
}

func TestRunner_RunAllBundles(t *testing.T) {
	runner := &Runner{Concurrency: 2, RateLimit: 100, Timeout: 5 * time.Second}
	analyzer := &stubAnalyzer{name: "stub"}
	bundles := []string{"/tmp/a", "/tmp/b", "/tmp/c"}

	results := runner.Run(context.Background(), bundles, []Analyzer{analyzer}, Options{Quiet: true}, nil)

	if len(results) != len(bundles) {
		t.Fatalf("Expected %d results, got %d", len(bundles), len(results))
	}
	for i, res := range results {
		if res == nil {
			t.Fatalf("Result %d is nil", i)
		}
		if res.Bundle != bundles[i] {
			t.Errorf("Result %d: expected bundle '%s', got '%s'", i, bundles[i], res.Bundle)
		}
		if len(res.Vulnerabilities) != 1 {
			t.Errorf("Result %d: expected 1 finding, got %d", i, len(res.Vulnerabilities))
		}
	}
	if len(analyzer.bundles) != len(bundles) {
		t.Errorf("Expected analyzer to see %d bundles, got %d", len(bundles), len(analyzer.bundles))
	}
}

func TestRunner_ReportFuncCalledPerBundle(t *testing.T) {
	runner := &Runner{Concurrency: 1, RateLimit: 100}
	analyzer := &stubAnalyzer{name: "stub"}

	var mu sync.Mutex
	reported := map[string]int{}
	reportFn := func(bundle string, res *Results, duration float64, err error) {
		mu.Lock()
		reported[bundle]++
		mu.Unlock()
		if err != nil {
			t.Errorf("Unexpected error for %s: %v", bundle, err)
		}
	}

	runner.Run(context.Background(), []string{"/tmp/a", "/tmp/b"}, []Analyzer{analyzer}, Options{Quiet: true}, reportFn)

	if reported["/tmp/a"] != 1 || reported["/tmp/b"] != 1 {
		t.Errorf("Expected one report per bundle, got %v", reported)
	}
}

func TestRunner_AnalyzerErrorIsRecorded(t *testing.T) {
	boom := errors.New("boom")
	runner := &Runner{Concurrency: 1, RateLimit: 100}
	failing := &stubAnalyzer{name: "failing", err: boom}
	working := &stubAnalyzer{name: "working"}

	var reportedErr error
	reportFn := func(bundle string, res *Results, duration float64, err error) {
		reportedErr = err
	}

	results := runner.Run(context.Background(), []string{"/tmp/a"}, []Analyzer{failing, working}, Options{Quiet: true}, reportFn)

	if !errors.Is(reportedErr, boom) {
		t.Errorf("Expected report callback to receive the analyzer error, got %v", reportedErr)
	}
	res := results[0]
	if len(res.Errors) != 1 {
		t.Fatalf("Expected 1 recorded error, got %d", len(res.Errors))
	}
	// A failing analyzer must not block the remaining analyzers.
	if len(res.Vulnerabilities) != 1 || res.Vulnerabilities[0].Name != "working" {
		t.Errorf("Expected the second analyzer to still run, got %+v", res.Vulnerabilities)
	}
}

func TestRunner_DefaultsAppliedForZeroValues(t *testing.T) {
	runner := &Runner{}
	analyzer := &stubAnalyzer{name: "stub"}

	results := runner.Run(context.Background(), []string{"/tmp/a"}, []Analyzer{analyzer}, Options{Quiet: true}, nil)

	if len(results) != 1 || results[0] == nil {
		t.Fatalf("Expected one result with zero-value runner config, got %v", results)
	}
}
