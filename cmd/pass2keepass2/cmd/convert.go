package cmd

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CarloDePieri/pass2keepass2/internal/adapters/filesystem"
	"github.com/CarloDePieri/pass2keepass2/internal/adapters/gpg"
	"github.com/CarloDePieri/pass2keepass2/internal/adapters/hook"
	"github.com/CarloDePieri/pass2keepass2/internal/adapters/keepass"
	"github.com/CarloDePieri/pass2keepass2/internal/adapters/pgp"
	"github.com/CarloDePieri/pass2keepass2/internal/adapters/tui"
	"github.com/CarloDePieri/pass2keepass2/internal/adapters/tui/views"
	"github.com/CarloDePieri/pass2keepass2/internal/application"
	"github.com/CarloDePieri/pass2keepass2/internal/application/commands"
	"github.com/CarloDePieri/pass2keepass2/internal/domain"
	"github.com/CarloDePieri/pass2keepass2/internal/ports"
)

// newDecryptor picks the native decryptor when a keyring is configured and
// the gpg binary otherwise. passphrase may be empty.
func newDecryptor(root, passphrase string) (ports.Decryptor, error) {
	if cfg.Keyring != "" {
		keyring, err := application.ExpandPath(cfg.Keyring)
		if err != nil {
			return nil, err
		}
		return pgp.NewDecryptor(root, keyring, passphrase)
	}

	opts := []gpg.Option{
		gpg.WithBinary(cfg.GPGBinary),
		gpg.WithExtraOpts(cfg.GPGOpts),
	}
	if passphrase != "" {
		opts = append(opts, gpg.WithPassphrase(passphrase))
	}
	return gpg.NewDecryptor(root, opts...), nil
}

func hookLoader(ctx context.Context) commands.HookLoader {
	if cfg.HookPath == "" {
		return nil
	}
	return func() (ports.Transformer, error) {
		h, err := hook.Load(ctx, cfg.HookPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("transform hook loaded", "path", h.Path())
		return h, nil
	}
}

func newConvertCommand(ctx context.Context, passphrase string, password *string) (*commands.ConvertCommand, *filesystem.Scanner, error) {
	scanner := filesystem.NewScanner(cfg.StorePath)
	decryptor, err := newDecryptor(scanner.Root(), passphrase)
	if err != nil {
		return nil, nil, &application.SourceReadError{Err: err}
	}

	createDest := func() (ports.Destination, error) {
		return keepass.Create(cfg.OutputPath, *password, cfg.Overwrite)
	}
	return commands.NewConvertCommand(scanner, decryptor, hookLoader(ctx), createDest, logger), scanner, nil
}

// runQuick converts with a single password and plain progress output
func runQuick(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Insert the password used both to decrypt the password-store and to protect the new database.")
	password, err := readPassword(in, out, "-> ")
	if err != nil {
		return err
	}
	if err := application.ValidateRequired("password", password); err != nil {
		return err
	}

	convert, _, err := newConvertCommand(ctx, password, &password)
	if err != nil {
		return err
	}
	convert.OnReadProgress = printProgress(out, "Reading password-store...")
	convert.OnWriteProgress = printProgress(out, "Writing keepass database...")

	result, err := convert.Execute(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s\n", result.Message)
	return nil
}

func printProgress(out io.Writer, label string) application.ProgressFunc {
	return func(p application.Progress) {
		fmt.Fprintf(out, " > %s %d%%\r", label, p.Percent())
		if p.Done == p.Total {
			fmt.Fprintln(out)
		}
	}
}

// runGuided drives the conversion through the interactive interface
func runGuided(ctx context.Context, in io.Reader, errOut io.Writer) error {
	var keyPassphrase string
	if cfg.Keyring != "" {
		p, err := readPassword(in, errOut, "Keyring passphrase (empty if none): ")
		if err != nil {
			return err
		}
		keyPassphrase = p
	}

	var password string
	convert, scanner, err := newConvertCommand(ctx, keyPassphrase, &password)
	if err != nil {
		return err
	}

	output, err := application.ExpandPath(cfg.OutputPath)
	if err != nil {
		return err
	}
	settings := views.Settings{
		StorePath:  scanner.Root(),
		OutputPath: output,
		HookPath:   cfg.HookPath,
		Overwrite:  cfg.Overwrite,
	}

	pipeline := tui.Pipeline{
		Read: func(ctx context.Context, onProgress application.ProgressFunc) ([]*domain.Record, error) {
			convert.OnReadProgress = onProgress
			return convert.Read(ctx)
		},
		Write: func(ctx context.Context, pw string, records []*domain.Record, onProgress application.ProgressFunc) (*commands.ConvertResult, error) {
			password = pw
			convert.OnWriteProgress = onProgress
			return convert.Write(ctx, records)
		},
		ReadNeedsTerminal: cfg.Keyring == "",
	}

	app := tui.NewApp(ctx, settings, pipeline)
	if _, err := tea.NewProgram(app).Run(); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}

	_, declined, err := app.Outcome()
	if declined {
		return errDeclined
	}
	return err
}
