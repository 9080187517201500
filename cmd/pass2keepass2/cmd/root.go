package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/CarloDePieri/pass2keepass2/internal/application"
	"github.com/CarloDePieri/pass2keepass2/internal/config"
)

// Version is overridden at build time with -ldflags "-X ...cmd.Version=..."
var Version = "0.3.0"

var (
	cfg         *config.Config
	configFile  string
	showVersion bool
	logger      = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// errDeclined stops the run without reporting a failure
var errDeclined = errors.New("declined")

var rootCmd = &cobra.Command{
	Use:   "pass2keepass2",
	Short: "Convert a pass password-store into a KeePass 2 database",
	Long: `pass2keepass2 reads every entry of a pass password-store, decrypting it
with gpg, and writes them into a new KeePass 2 (kdbx) database.

The first line of each entry becomes the password; "key: value" lines become
the url, username, notes and custom fields of the new entry. Directories
become groups.

By default a guided interface asks for confirmation and for the password of
the new database. With --quick a single password is asked and used both to
unlock the gpg key and to protect the new database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		loaded, err := config.Load(config.New(), cmd.Flags(), configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = newLogger(os.Stderr, cfg.Verbose)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion(cmd.OutOrStdout())
			return nil
		}
		if cfg.Quick {
			return runQuick(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr())
		}
		return runGuided(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr())
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil || errors.Is(err, errDeclined) {
		return
	}

	fmt.Fprintf(os.Stderr, ">> ERROR: %s\n", application.Category(err))
	fmt.Fprintf(os.Stderr, "   %v\n", err)
	os.Exit(1)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default "+config.DefaultConfigFile()+")")
	flags.Bool("verbose", false, "enable debug logging")

	local := rootCmd.Flags()
	local.StringP("input", "i", config.DefaultStorePath, "path to the password-store to convert ($PASSWORD_STORE_DIR)")
	local.StringP("output", "o", config.DefaultOutputPath, "path of the new keepass database")
	local.StringP("custom", "c", "", "executable used to transform each entry before it is written")
	local.BoolP("quick", "q", false, "ask a single password for both gpg and the new database")
	local.BoolP("force-overwrite", "f", false, "replace the output database if it exists")
	local.String("keyring", "", "decrypt natively with this exported secret keyring instead of gpg")
	local.String("gpg", "", "gpg binary to run (default gpg2 when installed, else gpg)")
	local.BoolVarP(&showVersion, "version", "v", false, "print the version and exit")
}

// newLogger writes text logs to w, at debug level when verbose
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
