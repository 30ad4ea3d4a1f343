package cmd

import (
	"github.com/fatih/color"

	"github.com/rmartin/apkscan/internal/analysis"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()

	colorCritical = color.New(color.FgRed, color.Bold).SprintFunc()
)

func formatSeverityWithColor(severity analysis.Severity) string {
	s := string(severity)
	switch severity {
	case analysis.SeverityCritical:
		return colorCritical(s)
	case analysis.SeverityHigh:
		return colorError(s)
	case analysis.SeverityMedium, analysis.SeverityWarning:
		return colorWarn(s)
	case analysis.SeverityLow:
		return colorInfo(s)
	default:
		return s
	}
}
