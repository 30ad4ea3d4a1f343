package cmd

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestNewCLIConfigDefaults(t *testing.T) {
	cfg := newCLIConfig()

	if cfg.Scan.Concurrency != defaultScanConcurrency {
		t.Errorf("Expected concurrency %d, got %d", defaultScanConcurrency, cfg.Scan.Concurrency)
	}
	if cfg.Scan.TimeoutSecs != defaultScanTimeoutSecs {
		t.Errorf("Expected timeout %d, got %d", defaultScanTimeoutSecs, cfg.Scan.TimeoutSecs)
	}
	if cfg.Scan.OpenSSLPath != "openssl" {
		t.Errorf("Expected default openssl path, got '%s'", cfg.Scan.OpenSSLPath)
	}
	if cfg.Scan.DecoderTimeoutSecs != 0 {
		t.Errorf("Expected unbounded decoder timeout by default, got %d", cfg.Scan.DecoderTimeoutSecs)
	}
}

func TestApplyIntDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var timeout int
	flags.IntVar(&timeout, "timeout", 60, "")

	applied := 0
	applyIntDefault(flags, "timeout", 120, func(v int) { applied = v })
	if applied != 120 {
		t.Errorf("Expected config default to apply when flag unset, got %d", applied)
	}

	if err := flags.Set("timeout", "30"); err != nil {
		t.Fatalf("Failed to set flag: %v", err)
	}
	applied = 0
	applyIntDefault(flags, "timeout", 120, func(v int) { applied = v })
	if applied != 0 {
		t.Errorf("Expected explicit flag to win over config default, got %d", applied)
	}
}

func TestApplyStringDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var path string
	flags.StringVar(&path, "openssl", "openssl", "")

	applied := ""
	applyStringDefault(flags, "openssl", "/usr/local/bin/openssl", func(v string) { applied = v })
	if applied != "/usr/local/bin/openssl" {
		t.Errorf("Expected config default to apply when flag unset, got '%s'", applied)
	}

	if err := flags.Set("openssl", "/opt/openssl"); err != nil {
		t.Fatalf("Failed to set flag: %v", err)
	}
	applied = ""
	applyStringDefault(flags, "openssl", "/usr/local/bin/openssl", func(v string) { applied = v })
	if applied != "" {
		t.Errorf("Expected explicit flag to win over config default, got '%s'", applied)
	}
}
