package cmd

import "fmt"

// BundleNotFoundError indicates a scan target is not an existing directory.
type BundleNotFoundError struct {
	Path string
}

func (e *BundleNotFoundError) Error() string {
	return fmt.Sprintf("bundle directory %s does not exist", e.Path)
}

// ResultsNotFoundError signals that no persisted scan results exist for a bundle ID.
type ResultsNotFoundError struct {
	Bundle string
}

func (e *ResultsNotFoundError) Error() string {
	return fmt.Sprintf("no scan results found for bundle %s (run 'apkscan scan' first)", e.Bundle)
}
