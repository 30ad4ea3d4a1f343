package cmd

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cobra"

	"github.com/rmartin/apkscan/internal/analysis"
	consts "github.com/rmartin/apkscan/internal/shared/constants"
)

const markdownTemplatePath = "templates/report.md"

//go:embed templates/report.md
var reportTemplateFS embed.FS

var markdownTemplateFuncs = template.FuncMap{
	"upper":      strings.ToUpper,
	"formatTime": formatShortTimestamp,
}

var markdownReportTemplate = template.Must(
	template.New("report.md").Funcs(markdownTemplateFuncs).ParseFS(reportTemplateFS, markdownTemplatePath),
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a findings report (markdown or PDF)",
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a report for a scanned bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		bundleID, _ := cmd.Flags().GetString("bundle")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		if bundleID == "" {
			return fmt.Errorf("--bundle is required")
		}
		if format != "markdown" && format != "pdf" {
			return fmt.Errorf("unsupported format %q (expected markdown or pdf)", format)
		}

		out, err := loadScanOutput(bundleID)
		if err != nil {
			return err
		}

		if output == "" {
			ext := map[string]string{"markdown": "md", "pdf": "pdf"}[format]
			output, err = resolveResultsPath(resultsDir, bundleID, "report."+ext)
			if err != nil {
				return err
			}
		}

		switch format {
		case "markdown":
			err = writeMarkdownReport(out, output)
		case "pdf":
			err = writePDFReport(out, output)
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", colorSuccess("Report written:"), output)
		return nil
	},
}

func loadScanOutput(bundleID string) (*ScanOutput, error) {
	path, err := resolveResultsPath(resultsDir, bundleID, consts.ResultsFilename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is contained in the results dir by resolveResultsPath.
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ResultsNotFoundError{Bundle: bundleID}
		}
		return nil, fmt.Errorf("read results: %w", err)
	}

	var out ScanOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	if out.Results == nil {
		out.Results = analysis.NewResults(out.Metadata.Bundle)
	}
	return &out, nil
}

func renderMarkdownReport(out *ScanOutput) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdownReportTemplate.Execute(&buf, out); err != nil {
		return nil, fmt.Errorf("render markdown report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeMarkdownReport(out *ScanOutput, path string) error {
	b, err := renderMarkdownReport(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, consts.DefaultFilePerm)
}

func writePDFReport(out *ScanOutput, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Certificate Trust Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Bundle: %s", out.Metadata.Bundle))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Scanner: %s %s", out.Metadata.Scanner, out.Metadata.Version))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Scanned: %s", formatShortTimestamp(out.Metadata.CompletedAt)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Findings (%d)", len(out.Results.Vulnerabilities)))
	pdf.Ln(10)

	if len(out.Results.Vulnerabilities) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, "No findings. The signing certificate passed all trust checks.", "", "L", false)
	}

	for _, v := range out.Results.Vulnerabilities {
		pdf.SetFont("Helvetica", "B", 10)
		r, g, b := severityRGB(v.Severity)
		pdf.SetTextColor(r, g, b)
		pdf.Cell(0, 6, fmt.Sprintf("[%s] %s", strings.ToUpper(string(v.Severity)), v.Name))
		pdf.Ln(6)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, v.Description, "", "L", false)
		if v.File != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.Cell(0, 5, fmt.Sprintf("File: %s", v.File))
			pdf.Ln(5)
		}
		pdf.Ln(3)
	}

	if out.Results.Certificate != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Decoded certificate")
		pdf.Ln(8)
		pdf.SetFont("Courier", "", 7)
		pdf.MultiCell(0, 3.2, out.Results.Certificate, "", "L", false)
	}

	return pdf.OutputFileAndClose(path)
}

func severityRGB(severity analysis.Severity) (int, int, int) {
	switch severity {
	case analysis.SeverityCritical:
		return 128, 0, 0
	case analysis.SeverityHigh:
		return 200, 0, 0
	case analysis.SeverityMedium, analysis.SeverityWarning:
		return 190, 120, 0
	case analysis.SeverityLow:
		return 0, 90, 160
	default:
		return 0, 0, 0
	}
}

func formatShortTimestamp(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}

func init() {
	reportGenerateCmd.Flags().String("bundle", "", "Bundle id (directory name under the results dir)")
	reportGenerateCmd.Flags().String("format", "markdown", "Report format: markdown or pdf")
	reportGenerateCmd.Flags().String("output", "", "Output file (defaults to report.<ext> next to results.json)")

	reportCmd.AddCommand(reportGenerateCmd)
}
