package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarloDePieri/pass2keepass2/internal/adapters/keepass"
	"github.com/CarloDePieri/pass2keepass2/internal/application"
)

// resetRoot puts the shared command tree back to its defaults after a run
func resetRoot(t *testing.T) {
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
}

// writeFakeGPG installs a gpg stand-in that checks the loopback passphrase
// and prints the entry file as its plaintext
func writeFakeGPG(t *testing.T, passphrase string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-gpg")
	script := "#!/bin/sh\nread pass\n[ \"$pass\" = \"" + passphrase + "\" ] || { echo \"gpg: bad passphrase\" >&2; exit 2; }\n" +
		"for last; do :; done\ncat \"$last\"\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writePlainStore(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	entries := map[string]string{
		"test1":            "somepassword\nurl: someurl.com\nuser: myusername\n",
		"web/test2":        "pass2\nlogin: user2\n",
		"web/emails/test4": "pass4\n",
	}
	for id, text := range entries {
		path := filepath.Join(root, filepath.FromSlash(id)+".gpg")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	}
	return root
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	resetRoot(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "pass2keepass2 v"+Version+"\n", out.String())
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	quiet := newLogger(&buf, false)
	quiet.Info("hidden")
	assert.Empty(t, buf.String())

	verbose := newLogger(&buf, true)
	verbose.Debug("shown", "entries", 4)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "entries=4")
	assert.True(t, verbose.Enabled(context.Background(), slog.LevelDebug))
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := printProgress(&buf, "Reading password-store...")

	progress.Notify(1, 2)
	progress.Notify(2, 2)

	assert.Equal(t, " > Reading password-store... 50%\r > Reading password-store... 100%\r\n", buf.String())
}

func TestQuickMode_PipedPassword(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PASSWORD_STORE_GPG_OPTS", "")
	resetRoot(t)

	store := writePlainStore(t)
	output := filepath.Join(t.TempDir(), "pass.kdbx")

	var stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader("hunter2\n"))
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"-q", "-i", store, "-o", output, "--gpg", writeFakeGPG(t, "hunter2")})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stderr.String(), "Reading password-store... 100%")
	assert.Contains(t, stderr.String(), "Writing keepass database... 100%")

	db, err := keepass.Open(output, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, 3, db.Root().CountEntries())
	assert.Equal(t, 2, db.Root().CountGroups())

	test1 := db.Root().FindEntries("test1")
	require.Len(t, test1, 1)
	assert.Equal(t, "somepassword", test1[0].Password)
	assert.Equal(t, "myusername", test1[0].Username)
}

func TestQuickMode_WrongPassphraseWritesNothing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PASSWORD_STORE_GPG_OPTS", "")
	resetRoot(t)

	output := filepath.Join(t.TempDir(), "pass.kdbx")
	rootCmd.SetIn(strings.NewReader("wrong\n"))
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"-q", "-i", writePlainStore(t), "-o", output, "--gpg", writeFakeGPG(t, "hunter2")})

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, application.ErrSourceRead)
	assert.NoFileExists(t, output)
}

func TestQuickMode_EmptyPassword(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetRoot(t)

	rootCmd.SetIn(strings.NewReader("\n"))
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"-q", "-i", t.TempDir(), "-o", filepath.Join(t.TempDir(), "x.kdbx")})

	assert.Error(t, rootCmd.Execute())
}

func TestReadPassword_Piped(t *testing.T) {
	var prompt bytes.Buffer
	pw, err := readPassword(strings.NewReader("s3cret\r\nignored\n"), &prompt, "-> ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Equal(t, "-> ", prompt.String())
}
