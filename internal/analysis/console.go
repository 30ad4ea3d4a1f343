package analysis

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	boldText     = color.New(color.Bold).SprintFunc()
	greenText    = color.New(color.FgGreen).SprintFunc()
	yellowText   = color.New(color.FgYellow).SprintFunc()
	redText      = color.New(color.FgRed).SprintFunc()
	severityTint = map[Severity]func(a ...interface{}) string{
		SeverityWarning:  color.New(color.FgYellow).SprintFunc(),
		SeverityLow:      color.New(color.FgCyan).SprintFunc(),
		SeverityMedium:   color.New(color.FgYellow).SprintFunc(),
		SeverityHigh:     color.New(color.FgRed).SprintFunc(),
		SeverityCritical: color.New(color.FgRed, color.Bold).SprintFunc(),
	}
)

func printWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", yellowText("Warning:"), message)
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", redText("Error:"), message)
}

func printVulnerability(v Vulnerability) {
	tint := severityTint[v.Severity]
	if tint == nil {
		tint = fmt.Sprint
	}
	fmt.Printf("%s (%s): %s\n", tint(v.Name), tint(string(v.Severity)), v.Description)
}
