package analysis

import "time"

// Severity ranks how serious a finding is. The ladder mirrors the console
// color mapping in cmd/.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Vulnerability is a single security observation recorded against a bundle.
// Findings are write-once: they are appended to a Results store and never
// mutated afterwards.
type Vulnerability struct {
	Severity    Severity `json:"severity"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	File        string   `json:"file,omitempty"`
	Line        int      `json:"line,omitempty"`
	Code        string   `json:"code,omitempty"`
}

// Results collects everything the analyzers produce for one bundle. A Results
// value belongs to exactly one bundle worker; it is not safe for concurrent
// writers.
type Results struct {
	Bundle          string          `json:"bundle"`
	ScannedAt       time.Time       `json:"scanned_at"`
	Certificate     string          `json:"certificate,omitempty"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Errors          []string        `json:"errors,omitempty"`
}

// NewResults creates an empty store for the given bundle path.
func NewResults(bundle string) *Results {
	return &Results{
		Bundle:          bundle,
		ScannedAt:       time.Now().UTC(),
		Vulnerabilities: []Vulnerability{},
	}
}

// SetCertificate stores the decoded certificate text. A later call replaces an
// earlier one: when a bundle carries several signature files the last decoded
// candidate wins.
func (r *Results) SetCertificate(text string) {
	r.Certificate = text
}

// AddVulnerability appends a finding to the store.
func (r *Results) AddVulnerability(v Vulnerability) {
	r.Vulnerabilities = append(r.Vulnerabilities, v)
}

// AddError records a non-fatal analysis error so it survives into the
// persisted results.
func (r *Results) AddError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err.Error())
}

// CountBySeverity tallies findings per severity for summaries and reports.
func (r *Results) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, v := range r.Vulnerabilities {
		counts[v.Severity]++
	}
	return counts
}
