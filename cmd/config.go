package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultScanTimeoutSecs = 60
	defaultScanConcurrency = 1
	defaultScanRateLimit   = 4
	// The decoder blocks until openssl exits unless a timeout is set.
	defaultDecoderTimeoutSecs = 0
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Defaults DefaultValues
	Scan     ScanRuntimeConfig
}

// DefaultValues represent user-level defaults, typically derived from the config file.
type DefaultValues struct {
	OpenSSLPath string
	TimeoutSecs int
}

// ScanRuntimeConfig consolidates flag-driven settings for the scan command.
type ScanRuntimeConfig struct {
	Concurrency        int
	RateLimit          int
	TimeoutSecs        int
	DecoderTimeoutSecs int
	OpenSSLPath        string
	ProgressEnabled    bool
}

type defaultOverrides struct {
	OpenSSLPath string
	TimeoutSecs *int
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Defaults: DefaultValues{
			OpenSSLPath: "openssl",
			TimeoutSecs: defaultScanTimeoutSecs,
		},
		Scan: ScanRuntimeConfig{
			Concurrency:        defaultScanConcurrency,
			RateLimit:          defaultScanRateLimit,
			TimeoutSecs:        defaultScanTimeoutSecs,
			DecoderTimeoutSecs: defaultDecoderTimeoutSecs,
			OpenSSLPath:        "openssl",
			ProgressEnabled:    false,
		},
	}
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("defaults.openssl_path") {
		overrides.OpenSSLPath = viper.GetString("defaults.openssl_path")
	}

	if viper.IsSet("defaults.timeout_secs") {
		val := viper.GetInt("defaults.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	return overrides
}

// applyConfigDefaults merges config file defaults into the runtime config when the user
// did not explicitly override the corresponding flag.
func applyConfigDefaults() {
	overrides := loadDefaultOverrides()

	if overrides.OpenSSLPath != "" {
		cliConfig.Defaults.OpenSSLPath = overrides.OpenSSLPath
		applyStringDefault(scanCmd.Flags(), "openssl", overrides.OpenSSLPath, func(v string) {
			cliConfig.Scan.OpenSSLPath = v
		})
	}

	if overrides.TimeoutSecs != nil {
		applyIntDefault(scanCmd.Flags(), "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Defaults.TimeoutSecs = v
			cliConfig.Scan.TimeoutSecs = v
		})
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyStringDefault(flags *pflag.FlagSet, name, value string, setter func(string)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}
