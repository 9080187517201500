package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarloDePieri/pass2keepass2/internal/application"
)

func setupTestStore(t *testing.T, files ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("ciphertext"), 0o600))
	}
	return root
}

func TestScan_FindsEntries(t *testing.T) {
	root := setupTestStore(t,
		"test1.gpg",
		"web/test2.gpg",
		"docs/test3.gpg",
		"web/emails/test4.gpg",
	)

	ids, err := NewScanner(root).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"docs/test3", "test1", "web/emails/test4", "web/test2"}, ids)
}

func TestScan_IgnoresOtherFiles(t *testing.T) {
	root := setupTestStore(t,
		".gpg-id",
		"web/.gpg-id",
		"README.md",
		"web/site.gpg",
		"web/site.gpg.bak",
		"notes.txt",
	)

	ids, err := NewScanner(root).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"web/site"}, ids)
}

func TestScan_SkipsHiddenDirectories(t *testing.T) {
	root := setupTestStore(t,
		".git/objects/aa.gpg",
		".extensions/foo.gpg",
		"mail.gpg",
	)

	ids, err := NewScanner(root).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mail"}, ids)
}

func TestScan_EmptyStore(t *testing.T) {
	ids, err := NewScanner(t.TempDir()).Scan(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestScan_FollowsSymlinkedEntries(t *testing.T) {
	root := setupTestStore(t, "web/site.gpg")
	require.NoError(t, os.Symlink(filepath.Join(root, "web", "site.gpg"), filepath.Join(root, "alias.gpg")))
	require.NoError(t, os.Symlink("site.gpg", filepath.Join(root, "web", "relative.gpg")))

	ids, err := NewScanner(root).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alias", "web/relative", "web/site"}, ids)
}

func TestScan_DanglingSymlinkFails(t *testing.T) {
	root := setupTestStore(t, "web/site.gpg")
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.gpg"), filepath.Join(root, "broken.gpg")))

	_, err := NewScanner(root).Scan(context.Background())
	assert.ErrorIs(t, err, application.ErrSourceRead)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := NewScanner(filepath.Join(t.TempDir(), "nope")).Scan(context.Background())
	assert.ErrorIs(t, err, application.ErrSourceRead)
}

func TestScan_Deterministic(t *testing.T) {
	root := setupTestStore(t, "b.gpg", "a/c.gpg", "a/b.gpg", "z/y/x.gpg")
	scanner := NewScanner(root)

	first, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	second, err := scanner.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScan_Cancelled(t *testing.T) {
	root := setupTestStore(t, "a.gpg")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(root).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewScanner_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	s := NewScanner("~/.password-store")
	assert.Equal(t, filepath.Join(home, ".password-store"), s.Root())
}

func TestEntryPath(t *testing.T) {
	s := NewScanner("/store")
	assert.Equal(t, filepath.Join("/store", "web", "emails", "test4.gpg"), s.EntryPath("web/emails/test4"))
}
