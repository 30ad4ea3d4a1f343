// Package analysis defines the apkscan static-analysis framework.
//
// Architecture overview:
//
//   - Analyzers implement the Analyzer interface (Analyze + Name) for specific
//     checks against an unpacked application bundle. CertificateAnalyzer is the
//     signing-certificate trust check; further analyzers plug in the same way.
//   - Runner coordinates concurrent execution over multiple bundles with rate
//     limiting, invoking a shared ReportFunc per bundle so every scan produces
//     consistent evidence.
//   - Results is the per-bundle store the analyzers write into: the decoded
//     certificate text plus an append-only list of Vulnerability findings.
//   - The Decoder interface isolates the external openssl invocation so tests
//     and alternative decoders can be substituted.
//
// This layout keeps check logic internal while allowing cmd/ to treat every
// analyzer uniformly.
package analysis
