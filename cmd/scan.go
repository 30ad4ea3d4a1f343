package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmartin/apkscan/internal/analysis"
	consts "github.com/rmartin/apkscan/internal/shared/constants"
)

const (
	jsonPrefix = ""
	jsonIndent = "  "
)

// ScanMetadata describes one scan run in the persisted results file.
type ScanMetadata struct {
	Scanner      string    `json:"scanner"`
	Version      string    `json:"version"`
	Bundle       string    `json:"bundle"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
	FindingCount int       `json:"finding_count"`
}

// ScanOutput is the on-disk shape of a per-bundle results.json.
type ScanOutput struct {
	Metadata ScanMetadata      `json:"metadata"`
	Results  *analysis.Results `json:"results"`
}

var scanCmd = &cobra.Command{
	Use:   "scan <bundle-dir> [bundle-dir...]",
	Short: "Analyze the signing certificates of unpacked application bundles",
	Long: `Analyze one or more unpacked Android application bundles.

For each bundle the scanner:
- Enumerates the signing metadata in <bundle>/original/META-INF
- Decodes every RSA/DSA signature file with the openssl utility
- Checks for the Android Debug Certificate and for expired certificates
- Records the decoded certificate and all findings into results.json

Bundles are analyzed concurrently; decoder invocations are rate limited.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	runtimeCfg := cliConfig.Scan
	opts := analysis.Options{Verbose: verbose, Quiet: quiet}

	bundles := make([]string, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			return &BundleNotFoundError{Path: arg}
		}
		if err := validateBundleID(filepath.Base(filepath.Clean(arg))); err != nil {
			return err
		}
		bundles = append(bundles, filepath.Clean(arg))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			fmt.Printf("\n%s Received %s, finalizing partial results...\n", colorWarn("!"), sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	startAll := time.Now()

	decoder := &analysis.OpenSSLDecoder{
		Path:    runtimeCfg.OpenSSLPath,
		Timeout: time.Duration(runtimeCfg.DecoderTimeoutSecs) * time.Second,
	}
	analyzers := []analysis.Analyzer{
		&analysis.CertificateAnalyzer{Decoder: decoder},
	}

	var progress *progressPrinter
	if runtimeCfg.ProgressEnabled {
		progress = newProgressPrinter(len(bundles), "scan")
		progress.Start()
	}

	var mu sync.Mutex
	failed := 0
	reportFn := func(bundle string, res *analysis.Results, duration float64, err error) {
		if err != nil {
			mu.Lock()
			failed++
			mu.Unlock()
		}
		if progress != nil {
			progress.Increment(err == nil, duration)
		}
	}

	runner := &analysis.Runner{
		Concurrency: runtimeCfg.Concurrency,
		RateLimit:   runtimeCfg.RateLimit,
		Timeout:     time.Duration(runtimeCfg.TimeoutSecs) * time.Second,
	}
	results := runner.Run(ctx, bundles, analyzers, opts, reportFn)

	if progress != nil {
		progress.Stop()
	}

	if ctx.Err() != nil {
		fmt.Printf("\n%s Scan cancelled. Writing partial results...\n", colorWarn("!"))
	}

	totalFindings := 0
	counts := map[analysis.Severity]int{}
	for _, res := range results {
		if res == nil {
			continue
		}
		path, err := writeScanResults(res, startAll)
		if err != nil {
			return err
		}
		totalFindings += len(res.Vulnerabilities)
		for sev, n := range res.CountBySeverity() {
			counts[sev] += n
		}
		if !quiet {
			fmt.Printf("%s %s\n", colorInfo("Results:"), path)
		}
	}

	if !quiet {
		fmt.Println(colorSuccess("Scan complete."))
		fmt.Printf("Summary: %d bundle(s), %d finding(s)", len(results), totalFindings)
		for _, sev := range []analysis.Severity{analysis.SeverityCritical, analysis.SeverityHigh, analysis.SeverityMedium, analysis.SeverityLow, analysis.SeverityWarning} {
			if counts[sev] > 0 {
				fmt.Printf(" %s:%d", formatSeverityWithColor(sev), counts[sev])
			}
		}
		fmt.Println()
	}

	if failed > 0 {
		return fmt.Errorf("%d bundle(s) failed to analyze", failed)
	}
	return nil
}

// writeScanResults persists one bundle's results under the results directory
// and returns the written path.
func writeScanResults(res *analysis.Results, startedAt time.Time) (string, error) {
	bundleID := filepath.Base(res.Bundle)
	dir, err := ensureResultsDir(resultsDir, bundleID)
	if err != nil {
		return "", err
	}

	out := ScanOutput{
		Metadata: ScanMetadata{
			Scanner:      "apkscan",
			Version:      Version,
			Bundle:       res.Bundle,
			StartedAt:    startedAt.UTC(),
			CompletedAt:  time.Now().UTC(),
			FindingCount: len(res.Vulnerabilities),
		},
		Results: res,
	}

	b, err := json.MarshalIndent(out, jsonPrefix, jsonIndent)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	path := filepath.Join(dir, consts.ResultsFilename)
	if err := os.WriteFile(path, b, consts.DefaultFilePerm); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}
	return path, nil
}

func init() {
	scanCmd.Flags().IntVarP(&cliConfig.Scan.Concurrency, "concurrency", "c", cliConfig.Scan.Concurrency, "max bundles analyzed at once")
	scanCmd.Flags().IntVarP(&cliConfig.Scan.RateLimit, "rate", "r", cliConfig.Scan.RateLimit, "bundle analyses per second (bounds decoder subprocess spawns)")
	scanCmd.Flags().IntVarP(&cliConfig.Scan.TimeoutSecs, "timeout", "t", cliConfig.Scan.TimeoutSecs, "per-bundle timeout in seconds")
	scanCmd.Flags().IntVar(&cliConfig.Scan.DecoderTimeoutSecs, "decoder-timeout", cliConfig.Scan.DecoderTimeoutSecs, "timeout in seconds for one openssl invocation (0 waits forever)")
	scanCmd.Flags().StringVar(&cliConfig.Scan.OpenSSLPath, "openssl", cliConfig.Scan.OpenSSLPath, "path to the openssl binary")
	scanCmd.Flags().BoolVar(&cliConfig.Scan.ProgressEnabled, "progress", cliConfig.Scan.ProgressEnabled, "display live progress for the scan")
}
