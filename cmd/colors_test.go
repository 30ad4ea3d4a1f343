package cmd

import (
	"strings"
	"testing"

	"github.com/rmartin/apkscan/internal/analysis"
)

func TestFormatSeverityWithColor(t *testing.T) {
	severities := []analysis.Severity{
		analysis.SeverityWarning,
		analysis.SeverityLow,
		analysis.SeverityMedium,
		analysis.SeverityHigh,
		analysis.SeverityCritical,
	}

	for _, sev := range severities {
		got := formatSeverityWithColor(sev)
		if !strings.Contains(got, string(sev)) {
			t.Errorf("Expected formatted severity to contain '%s', got '%s'", sev, got)
		}
	}

	if got := formatSeverityWithColor(analysis.Severity("bogus")); got != "bogus" {
		t.Errorf("Expected unknown severity to pass through, got '%s'", got)
	}
}
