package gpg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/CarloDePieri/pass2keepass2/internal/domain"
)

var defaultArgs = []string{
	"--quiet",
	"--yes",
	"--compress-algo=none",
	"--no-encrypt-to",
	"--batch",
	"--use-agent",
}

// Decryptor implements ports.Decryptor by running the gpg binary, the same
// way pass itself does
type Decryptor struct {
	root       string
	binary     string
	extraOpts  []string
	passphrase string
}

// Option configures the Decryptor
type Option func(*Decryptor)

// WithBinary sets the gpg executable to run
func WithBinary(binary string) Option {
	return func(d *Decryptor) {
		if binary != "" {
			d.binary = binary
		}
	}
}

// WithExtraOpts adds options in the PASSWORD_STORE_GPG_OPTS format
func WithExtraOpts(opts string) Option {
	return func(d *Decryptor) {
		d.extraOpts = append(d.extraOpts, strings.Fields(opts)...)
	}
}

// WithPassphrase unlocks the secret key through loopback pinentry instead of
// the agent
func WithPassphrase(passphrase string) Option {
	return func(d *Decryptor) {
		d.passphrase = passphrase
	}
}

// NewDecryptor creates a gpg decryptor for the store at root
func NewDecryptor(root string, opts ...Option) *Decryptor {
	d := &Decryptor{
		root:   root,
		binary: DefaultBinary(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DefaultBinary returns gpg2 when installed, gpg otherwise
func DefaultBinary() string {
	if _, err := exec.LookPath("gpg2"); err == nil {
		return "gpg2"
	}
	return "gpg"
}

// Decrypt returns the plaintext of the entry with the given identifier
func (d *Decryptor) Decrypt(ctx context.Context, identifier string) (string, error) {
	cmd := exec.CommandContext(ctx, d.binary, d.args(identifier)...)
	if d.passphrase != "" {
		cmd.Stdin = strings.NewReader(d.passphrase + "\n")
	}

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("gpg error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("gpg error: %w", err)
	}

	return string(output), nil
}

// IsAvailable checks if the configured binary is installed
func (d *Decryptor) IsAvailable() bool {
	_, err := exec.LookPath(d.binary)
	return err == nil
}

func (d *Decryptor) args(identifier string) []string {
	args := append([]string{}, defaultArgs...)
	args = append(args, d.extraOpts...)
	if d.passphrase != "" {
		args = append(args, "--pinentry-mode=loopback", "--passphrase-fd", "0")
	}
	return append(args, "--decrypt", d.entryPath(identifier))
}

func (d *Decryptor) entryPath(identifier string) string {
	return filepath.Join(d.root, filepath.FromSlash(identifier)+domain.EntryExtension)
}
