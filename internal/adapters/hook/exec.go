package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/CarloDePieri/pass2keepass2/internal/application"
	"github.com/CarloDePieri/pass2keepass2/internal/domain"
)

// ProtocolVersion is the describe handshake version this program speaks
const ProtocolVersion = 1

// DefaultTimeout bounds a single hook invocation
const DefaultTimeout = 30 * time.Second

// describeResponse is what "<hook> describe" must print
type describeResponse struct {
	Protocol   int      `json:"protocol"`
	Transforms []string `json:"transforms"`
}

// Exec implements ports.Transformer by running a user supplied executable.
// The record is written as JSON to "<hook> transform" and read back from its
// stdout.
type Exec struct {
	path    string
	timeout time.Duration
}

// Option configures an Exec hook
type Option func(*Exec)

// WithTimeout sets the per-record timeout
func WithTimeout(d time.Duration) Option {
	return func(e *Exec) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// Load resolves path and performs the describe handshake. It runs before any
// entry is decrypted.
func Load(ctx context.Context, path string, opts ...Option) (*Exec, error) {
	abs, err := application.ExpandPath(path)
	if err != nil {
		return nil, &application.HookLoadError{Path: path, Reason: "invalid path", Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &application.HookLoadError{Path: abs, Reason: "cannot stat", Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &application.HookLoadError{Path: abs, Reason: "not a regular file"}
	}
	if info.Mode().Perm()&0o111 == 0 {
		return nil, &application.HookLoadError{Path: abs, Reason: "not executable"}
	}

	e := &Exec{path: abs, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}

	output, err := e.run(ctx, "describe", nil)
	if err != nil {
		return nil, &application.HookLoadError{Path: abs, Reason: "describe failed", Err: err}
	}

	var desc describeResponse
	if err := json.Unmarshal(output, &desc); err != nil {
		return nil, &application.HookLoadError{Path: abs, Reason: "invalid describe output", Err: err}
	}
	if desc.Protocol != ProtocolVersion {
		return nil, &application.HookLoadError{
			Path:   abs,
			Reason: fmt.Sprintf("unsupported protocol %d", desc.Protocol),
		}
	}
	if !slices.Contains(desc.Transforms, "record") {
		return nil, &application.HookLoadError{Path: abs, Reason: "no record transform"}
	}

	return e, nil
}

// Path returns the resolved hook executable
func (e *Exec) Path() string {
	return e.path
}

// Transform sends r to the hook and returns the record it prints
func (e *Exec) Transform(ctx context.Context, r *domain.Record) (*domain.Record, error) {
	input, err := json.Marshal(toJSON(r))
	if err != nil {
		return nil, &application.HookExecutionError{Identifier: r.Path(), Err: err}
	}

	output, err := e.run(ctx, "transform", input)
	if err != nil {
		return nil, &application.HookExecutionError{Identifier: r.Path(), Err: err}
	}

	var out recordJSON
	if err := json.Unmarshal(output, &out); err != nil {
		return nil, &application.HookExecutionError{
			Identifier: r.Path(),
			Err:        fmt.Errorf("invalid output: %w", err),
		}
	}
	if out.Title == "" {
		return nil, &application.HookExecutionError{
			Identifier: r.Path(),
			Err:        errors.New("invalid output: empty title"),
		}
	}

	return fromJSON(out), nil
}

func (e *Exec) run(ctx context.Context, action string, input []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.path, action)
	cmd.Dir = filepath.Dir(e.path)
	cmd.WaitDelay = time.Second
	if input != nil {
		cmd.Stdin = bytes.NewReader(input)
	}

	output, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%s timed out after %s", action, e.timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(string(exitErr.Stderr))
			if msg == "" {
				msg = exitErr.Error()
			}
			return nil, fmt.Errorf("%s failed: %s", action, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", action, err)
	}

	return output, nil
}
