package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/CarloDePieri/pass2keepass2/internal/domain"
)

// storeFixture mirrors the sample password store used across the tests
var storeFixture = map[string]string{
	"test1": "somepassword\n---\nurl: someurl.com\nuser: myusername\n" +
		"notes: some notes something interesting\ncell_number: 00000000\n",
	"web/test2":        "pass2\nlogin: user2\n",
	"docs/test3":       "pass3\n",
	"web/emails/test4": "pass4\n---\nuser: user4\nurl: mail.example.com\nrecovery: codes\n",
}

var fixtureOrder = []string{"docs/test3", "test1", "web/emails/test4", "web/test2"}

type fakeScanner struct {
	ids []string
	err error
}

func (s *fakeScanner) Scan(context.Context) ([]string, error) {
	return s.ids, s.err
}

func (s *fakeScanner) Root() string {
	return "/store"
}

type fakeDecryptor struct {
	texts map[string]string
	fail  map[string]bool
	calls []string
}

func (d *fakeDecryptor) Decrypt(_ context.Context, id string) (string, error) {
	d.calls = append(d.calls, id)
	if d.fail[id] {
		return "", errors.New("gpg: decryption failed: No secret key")
	}
	text, ok := d.texts[id]
	if !ok {
		return "", fmt.Errorf("no such entry %s", id)
	}
	return text, nil
}

type memoryDestination struct {
	root       *domain.Group
	persisted  int
	persistErr error
}

func newMemoryDestination() *memoryDestination {
	return &memoryDestination{root: domain.NewRootGroup()}
}

func (d *memoryDestination) Root() *domain.Group {
	return d.root
}

func (d *memoryDestination) Persist() error {
	if d.persistErr != nil {
		return d.persistErr
	}
	d.persisted++
	return nil
}

func (d *memoryDestination) Path() string {
	return "memory.kdbx"
}

type transformFunc func(context.Context, *domain.Record) (*domain.Record, error)

func (f transformFunc) Transform(ctx context.Context, r *domain.Record) (*domain.Record, error) {
	return f(ctx, r)
}

func fixtureReader() (*fakeScanner, *fakeDecryptor) {
	return &fakeScanner{ids: fixtureOrder}, &fakeDecryptor{texts: storeFixture}
}

func titles(records []*domain.Record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.Title)
	}
	return out
}
