package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// signingMetadataDir is where APK packers leave the signature files inside an
// unpacked bundle.
var signingMetadataDir = filepath.Join("original", "META-INF")

const (
	debugCertificateName        = "Android Debug Certificate"
	debugCertificateDescription = "The application is signed with the Android Debug Certificate. " +
		"This certificate should never be used for publishing an app."

	expiredCertificateName        = "Expired certificate"
	expiredCertificateDescription = "The certificate of the application has expired. You should not " +
		"use applications with expired certificates since the app is not secure anymore."
)

// CertificateAnalyzer checks the trust properties of the certificates an
// application bundle is signed with: it decodes every RSA/DSA signature file
// under original/META-INF via the configured Decoder and evaluates the
// debug-signing and expiration policies against the decoded fields.
type CertificateAnalyzer struct {
	Decoder Decoder
	// Now supplies the current date for the expiration check. Nil means
	// time.Now.
	Now func() time.Time
}

// Name implements Analyzer.
func (a *CertificateAnalyzer) Name() string { return "certificate" }

func (a *CertificateAnalyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Analyze implements Analyzer. A failure to read the signing-metadata
// directory degrades to a warning (the rest of the scan is more valuable than
// aborting over one unreadable directory). Decoder and parse failures are
// recoverable: the failing candidate is skipped, its error is joined into the
// returned error, and remaining candidates are still analyzed.
func (a *CertificateAnalyzer) Analyze(ctx context.Context, bundle string, res *Results, opts Options) error {
	if opts.Verbose {
		fmt.Println("Reading and analyzing the certificates...")
	}

	dir := filepath.Join(bundle, signingMetadataDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		printWarning(fmt.Sprintf("an error occurred when reading the %s dir searching certificates. "+
			"Certificate analysis will be skipped. More info: %v", dir, err))
		return nil
	}

	var errs []error
	for _, entry := range entries {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if entry.IsDir() || !isCertificateCandidate(entry.Name()) {
			continue
		}
		if err := a.analyzeCandidate(ctx, filepath.Join(dir, entry.Name()), entry.Name(), res, opts); err != nil {
			printError(err.Error())
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		if opts.Verbose {
			fmt.Println()
			fmt.Println(greenText("The certificates were analyzed correctly!"))
			fmt.Println()
		} else if !opts.Quiet {
			fmt.Println("Certificates analyzed.")
		}
	}
	return errors.Join(errs...)
}

// isCertificateCandidate reports whether a signing-metadata entry looks like a
// certificate container. The extension match is case-sensitive: only the
// upper-case RSA and DSA suffixes the packer writes count.
func isCertificateCandidate(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return ext == "RSA" || ext == "DSA"
}

func (a *CertificateAnalyzer) analyzeCandidate(ctx context.Context, path, name string, res *Results, opts Options) error {
	decoded, err := a.Decoder.Decode(ctx, path)
	if err != nil {
		return err
	}

	if opts.Verbose {
		fmt.Printf("The application is signed with the following certificate: %s\n", boldText(name))
		fmt.Println(decoded)
	}
	res.SetCertificate(decoded)

	fields, err := extractFields(decoded)
	if err != nil {
		return err
	}

	if strings.Contains(fields.issuer, "Android Debug") {
		vuln := Vulnerability{
			Severity:    SeverityCritical,
			Name:        debugCertificateName,
			Description: debugCertificateDescription,
			File:        filepath.Join(signingMetadataDir, name),
		}
		res.AddVulnerability(vuln)
		if opts.Verbose {
			printVulnerability(vuln)
		}
	}

	if fields.issuer == fields.subject {
		// TODO: the certificate is self-signed; decide whether that
		// deserves its own finding.
	}

	cert, err := parseNotAfter(fields.notAfter)
	if err != nil {
		return err
	}

	if expired(a.now(), cert) {
		vuln := Vulnerability{
			Severity:    SeverityHigh,
			Name:        expiredCertificateName,
			Description: expiredCertificateDescription,
			File:        filepath.Join(signingMetadataDir, name),
		}
		res.AddVulnerability(vuln)
		if opts.Verbose {
			printVulnerability(vuln)
		}
	}

	return nil
}

// certificateFields holds the values extracted from the decoded text. Each is
// the second ": "-token of the matching labeled line, so a distinguished name
// is truncated at any further ": " occurrence, exactly the boundaries the
// openssl text layout produces.
type certificateFields struct {
	issuer   string
	subject  string
	notAfter string
}

// extractFields scans the decoded certificate text line by line for the
// Issuer, Subject and Not After labels. When a label appears more than once
// (openssl prints one block per certificate in the chain) the last match
// wins. A label that never appears is a *ParseError wrapping ErrMissingField.
func extractFields(decoded string) (certificateFields, error) {
	var issuerLine, subjectLine, afterLine string
	for _, line := range strings.Split(decoded, "\n") {
		if strings.Contains(line, "Issuer:") {
			issuerLine = line
		}
		if strings.Contains(line, "Subject:") {
			subjectLine = line
		}
		// Note the space before the colon: that is how openssl prints
		// the validity bounds.
		if strings.Contains(line, "Not After :") {
			afterLine = line
		}
	}

	var fields certificateFields
	var err error
	if fields.issuer, err = fieldValue(issuerLine, "issuer"); err != nil {
		return certificateFields{}, err
	}
	if fields.subject, err = fieldValue(subjectLine, "subject"); err != nil {
		return certificateFields{}, err
	}
	if fields.notAfter, err = fieldValue(afterLine, "not_after"); err != nil {
		return certificateFields{}, err
	}
	return fields, nil
}

func fieldValue(line, field string) (string, error) {
	parts := strings.Split(line, ": ")
	if len(parts) < 2 {
		return "", &ParseError{Field: field, Err: ErrMissingField}
	}
	return parts[1], nil
}

// certDate is the comparable (year, month, day) triple taken from the
// certificate's not-after value.
type certDate struct {
	year  int
	month int
	day   int
}

// parseMonth maps a three-letter month abbreviation to 1..12. Anything it
// does not recognize maps to 0, which parseNotAfter treats as a parse
// failure; a zero month is never compared against.
func parseMonth(s string) int {
	switch s {
	case "Jan":
		return 1
	case "Feb":
		return 2
	case "Mar":
		return 3
	case "Apr":
		return 4
	case "May":
		return 5
	case "Jun":
		return 6
	case "Jul":
		return 7
	case "Aug":
		return 8
	case "Sep":
		return 9
	case "Oct":
		return 10
	case "Nov":
		return 11
	case "Dec":
		return 12
	default:
		return 0
	}
}

// parseNotAfter tokenizes a value like "Jan  5 00:00:00 2000 GMT" into a
// certDate. Splitting on whitespace makes single-digit days (padded with an
// extra space by openssl) and double-digit days parse identically.
func parseNotAfter(value string) (certDate, error) {
	invalid := func() (certDate, error) {
		return certDate{}, &ParseError{Field: "not_after", Value: value, Err: ErrInvalidDate}
	}

	tokens := strings.Fields(value)
	if len(tokens) < 4 {
		return invalid()
	}

	month := parseMonth(tokens[0])
	if month == 0 {
		return invalid()
	}
	day, err := strconv.Atoi(tokens[1])
	if err != nil || day < 1 || day > 31 {
		return invalid()
	}
	year, err := strconv.Atoi(tokens[3])
	if err != nil {
		return invalid()
	}

	return certDate{year: year, month: month, day: day}, nil
}

// expired compares the current date against the certificate's not-after date
// as a lexicographic (year, month, day) comparison. The certificate counts as
// expired only once the current date is strictly past its last valid day.
func expired(now time.Time, cert certDate) bool {
	if now.Year() != cert.year {
		return now.Year() > cert.year
	}
	if int(now.Month()) != cert.month {
		return int(now.Month()) > cert.month
	}
	return now.Day() > cert.day
}
