package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	consts "github.com/rmartin/apkscan/internal/shared/constants"
	"github.com/rmartin/apkscan/internal/shared/security"
)

// validateBundleID ensures bundle identifiers can't be used for path traversal.
// IDs become directory names under the results dir, so reject separators.
func validateBundleID(id string) error {
	switch id {
	case "":
		return errors.New("bundle ID is required")
	case ".", "..":
		return fmt.Errorf("bundle ID %q is reserved", id)
	}
	if strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("bundle ID %q must not contain path separators", id)
	}
	return nil
}

func resolveResultsPath(resultsDir, bundleID string, parts ...string) (string, error) {
	if err := validateBundleID(bundleID); err != nil {
		return "", err
	}
	pathParts := append([]string{bundleID}, parts...)
	return security.ResolveWithin(resultsDir, pathParts...)
}

func ensureResultsDir(resultsDir, bundleID string) (string, error) {
	path, err := resolveResultsPath(resultsDir, bundleID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(path, consts.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("create results directory: %w", err)
	}
	return path, nil
}
