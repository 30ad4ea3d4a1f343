package analysis

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Decoder turns a binary signature file into human-readable certificate text.
type Decoder interface {
	Decode(ctx context.Context, file string) (string, error)
}

// OpenSSLDecoder shells out to the openssl binary to dump the DER-encoded
// PKCS7 signed-data blob found in APK signature files.
type OpenSSLDecoder struct {
	// Path to the openssl binary. Empty means "openssl" from PATH.
	Path string
	// Timeout for one invocation. Zero means the call blocks until the
	// subprocess exits, however long that takes.
	Timeout time.Duration
}

func (d *OpenSSLDecoder) binary() string {
	if d.Path == "" {
		return "openssl"
	}
	return d.Path
}

// Args returns the argument vector used for one candidate file.
func (d *OpenSSLDecoder) Args(file string) []string {
	return []string{"pkcs7", "-inform", "DER", "-in", file, "-noout", "-print_certs", "-text"}
}

// Decode runs the openssl dump and returns its stdout. Failures are reported
// as *DecodeError, distinguishing a tool that could not be started
// (ErrToolSpawn) from one that ran and exited non-zero (ErrToolExit, with the
// tool's stderr attached).
func (d *OpenSSLDecoder) Decode(ctx context.Context, file string) (string, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, d.binary(), d.Args(file)...) // #nosec G204 -- fixed argument vector, file path passed as argv without shell expansion.
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &DecodeError{
				File:   file,
				Stderr: strings.TrimSpace(string(exitErr.Stderr)),
				Err:    ErrToolExit,
			}
		}
		return "", &DecodeError{
			File: file,
			Err:  fmt.Errorf("%w: %v", ErrToolSpawn, err),
		}
	}
	return string(output), nil
}
