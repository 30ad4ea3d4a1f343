package analysis

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestResults_SetCertificateLastWins(t *testing.T) {
	res := NewResults("/tmp/app")
	res.SetCertificate("first")
	res.SetCertificate("second")

	if res.Certificate != "second" {
		t.Errorf("Expected the last certificate text to win, got '%s'", res.Certificate)
	}
}

func TestResults_AddVulnerabilityPreservesOrder(t *testing.T) {
	res := NewResults("/tmp/app")
	res.AddVulnerability(Vulnerability{Severity: SeverityCritical, Name: "first"})
	res.AddVulnerability(Vulnerability{Severity: SeverityHigh, Name: "second"})

	if len(res.Vulnerabilities) != 2 {
		t.Fatalf("Expected 2 findings, got %d", len(res.Vulnerabilities))
	}
	if res.Vulnerabilities[0].Name != "first" || res.Vulnerabilities[1].Name != "second" {
		t.Errorf("Findings out of order: %+v", res.Vulnerabilities)
	}
}

func TestResults_CountBySeverity(t *testing.T) {
	res := NewResults("/tmp/app")
	res.AddVulnerability(Vulnerability{Severity: SeverityCritical, Name: "a"})
	res.AddVulnerability(Vulnerability{Severity: SeverityHigh, Name: "b"})
	res.AddVulnerability(Vulnerability{Severity: SeverityHigh, Name: "c"})

	counts := res.CountBySeverity()
	if counts[SeverityCritical] != 1 {
		t.Errorf("Expected 1 critical, got %d", counts[SeverityCritical])
	}
	if counts[SeverityHigh] != 2 {
		t.Errorf("Expected 2 high, got %d", counts[SeverityHigh])
	}
	if counts[SeverityLow] != 0 {
		t.Errorf("Expected 0 low, got %d", counts[SeverityLow])
	}
}

func TestResults_AddError(t *testing.T) {
	res := NewResults("/tmp/app")
	res.AddError(nil)
	res.AddError(errors.New("boom"))

	if len(res.Errors) != 1 {
		t.Fatalf("Expected 1 recorded error, got %d", len(res.Errors))
	}
	if res.Errors[0] != "boom" {
		t.Errorf("Expected 'boom', got '%s'", res.Errors[0])
	}
}

func TestResults_JSONShape(t *testing.T) {
	res := NewResults("/tmp/app")
	res.SetCertificate("decoded text")
	res.AddVulnerability(Vulnerability{
		Severity:    SeverityCritical,
		Name:        "Android Debug Certificate",
		Description: "desc",
		File:        "original/META-INF/CERT.RSA",
	})

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded Results
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded.Certificate != "decoded text" {
		t.Errorf("Certificate mismatch: got '%s'", decoded.Certificate)
	}
	if len(decoded.Vulnerabilities) != 1 || decoded.Vulnerabilities[0].Severity != SeverityCritical {
		t.Errorf("Findings mismatch: %+v", decoded.Vulnerabilities)
	}
}
