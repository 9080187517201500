package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/CarloDePieri/pass2keepass2/internal/application"
	"github.com/CarloDePieri/pass2keepass2/internal/domain"
)

// Scanner implements ports.StoreScanner by walking a password store directory
type Scanner struct {
	root string
}

// NewScanner creates a scanner rooted at storePath. A leading ~ is expanded.
func NewScanner(storePath string) *Scanner {
	if expanded, err := application.ExpandPath(storePath); err == nil {
		storePath = expanded
	}
	return &Scanner{root: storePath}
}

// Root returns the absolute store directory
func (s *Scanner) Root() string {
	return s.root
}

// Scan returns the identifier of every entry in the store, in lexical order
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	ids := []string{}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), domain.EntryExtension) {
			return nil
		}
		mode := d.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			mode = info.Mode().Type()
		}
		if !mode.IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(strings.TrimSuffix(rel, domain.EntryExtension)))
		return nil
	})
	if err != nil {
		return nil, &application.SourceReadError{Err: err}
	}

	return ids, nil
}

// EntryPath returns the file holding the given identifier
func (s *Scanner) EntryPath(identifier string) string {
	return filepath.Join(s.root, filepath.FromSlash(identifier)+domain.EntryExtension)
}
