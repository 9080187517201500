package keepass

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tobischo/gokeepasslib/v3"
	"github.com/tobischo/gokeepasslib/v3/wrappers"

	"github.com/CarloDePieri/pass2keepass2/internal/application"
	"github.com/CarloDePieri/pass2keepass2/internal/domain"
)

// Standard KDBX string keys
const (
	KeyTitle    = "Title"
	KeyUserName = "UserName"
	KeyPassword = "Password"
	KeyURL      = "URL"
	KeyNotes    = "Notes"
)

// reservedSuffix is appended to custom attributes that would shadow a
// standard key
const reservedSuffix = " (pass)"

var reservedKeys = map[string]bool{
	KeyTitle:    true,
	KeyUserName: true,
	KeyPassword: true,
	KeyURL:      true,
	KeyNotes:    true,
}

// Database implements ports.Destination on top of a KDBX 4 file. The group
// tree lives in memory until Persist.
type Database struct {
	path     string
	password string
	name     string
	root     *domain.Group
}

// Create prepares a new empty database at path. Nothing is written until
// Persist is called.
func Create(path, password string, overwrite bool) (*Database, error) {
	abs, err := application.ExpandPath(path)
	if err != nil {
		return nil, &application.DestinationWriteError{Path: path, Err: err}
	}

	if _, err := os.Stat(abs); err == nil {
		if !overwrite {
			return nil, &application.DestinationAlreadyExistsError{Path: abs}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, &application.DestinationWriteError{Path: abs, Err: err}
	}

	dir := filepath.Dir(abs)
	if info, err := os.Stat(dir); err != nil {
		return nil, &application.DestinationWriteError{Path: abs, Err: err}
	} else if !info.IsDir() {
		return nil, &application.DestinationWriteError{Path: abs, Err: fmt.Errorf("%s is not a directory", dir)}
	}

	return &Database{
		path:     abs,
		password: password,
		name:     databaseName(abs),
		root:     domain.NewRootGroup(),
	}, nil
}

// Open decodes an existing database
func Open(path, password string) (*Database, error) {
	abs, err := application.ExpandPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer f.Close()

	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)
	if err := gokeepasslib.NewDecoder(f).Decode(db); err != nil {
		return nil, fmt.Errorf("failed to decode %s (wrong password?): %w", abs, err)
	}
	db.UnlockProtectedEntries()

	d := &Database{
		path:     abs,
		password: password,
		name:     db.Content.Meta.DatabaseName,
		root:     domain.NewRootGroup(),
	}
	if db.Content.Root != nil && len(db.Content.Root.Groups) > 0 {
		fromKeepass(&db.Content.Root.Groups[0], d.root)
	}
	return d, nil
}

// Root returns the in-memory root group
func (d *Database) Root() *domain.Group {
	return d.root
}

// Path returns the absolute destination path
func (d *Database) Path() string {
	return d.path
}

// Name returns the database name stored in the file metadata
func (d *Database) Name() string {
	return d.name
}

// Persist encodes the whole tree and atomically replaces the destination
// file. On failure the previous file, if any, is left untouched.
func (d *Database) Persist() error {
	db := gokeepasslib.NewDatabase(gokeepasslib.WithDatabaseKDBXVersion4())
	db.Credentials = gokeepasslib.NewPasswordCredentials(d.password)
	db.Content.Meta.DatabaseName = d.name

	root := toKeepass(d.root)
	root.Name = d.name
	db.Content.Root = &gokeepasslib.RootData{
		Groups: []gokeepasslib.Group{root},
	}
	db.LockProtectedEntries()

	var buf bytes.Buffer
	if err := gokeepasslib.NewEncoder(&buf).Encode(db); err != nil {
		return &application.DestinationWriteError{Path: d.path, Err: err}
	}

	if err := atomic.WriteFile(d.path, &buf); err != nil {
		return &application.DestinationWriteError{Path: d.path, Err: err}
	}
	return nil
}

func databaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func toKeepass(g *domain.Group) gokeepasslib.Group {
	kg := gokeepasslib.NewGroup()
	kg.Name = g.Name
	for _, e := range g.Entries {
		kg.Entries = append(kg.Entries, toEntry(e))
	}
	for _, child := range g.Groups {
		kg.Groups = append(kg.Groups, toKeepass(child))
	}
	return kg
}

func toEntry(e *domain.Entry) gokeepasslib.Entry {
	entry := gokeepasslib.NewEntry()
	entry.Values = append(entry.Values,
		value(KeyTitle, e.Title, false),
		value(KeyUserName, e.Username, false),
		value(KeyPassword, e.Password, true),
		value(KeyURL, e.URL, false),
		value(KeyNotes, e.Notes, false),
	)
	used := make(map[string]bool, len(reservedKeys)+len(e.Custom))
	for k := range reservedKeys {
		used[k] = true
	}
	for k := range e.Custom {
		used[k] = true
	}
	for _, k := range e.SortedCustomKeys() {
		key := k
		if reservedKeys[k] {
			key = renameReserved(k, used)
		}
		entry.Values = append(entry.Values, value(key, e.Custom[k], false))
	}
	return entry
}

// renameReserved finds a key for a custom attribute named like a standard
// key that no other attribute of the entry uses, and claims it
func renameReserved(k string, used map[string]bool) string {
	key := k + reservedSuffix
	for n := 2; used[key]; n++ {
		key = fmt.Sprintf("%s%s %d", k, reservedSuffix, n)
	}
	used[key] = true
	return key
}

func value(key, content string, protected bool) gokeepasslib.ValueData {
	v := gokeepasslib.ValueData{
		Key:   key,
		Value: gokeepasslib.V{Content: content},
	}
	if protected {
		v.Value.Protected = wrappers.NewBoolWrapper(true)
	}
	return v
}

func fromKeepass(kg *gokeepasslib.Group, g *domain.Group) {
	for i := range kg.Entries {
		ke := &kg.Entries[i]
		e := g.AddEntry(ke.GetTitle(), ke.GetContent(KeyUserName), ke.GetPassword())
		e.URL = ke.GetContent(KeyURL)
		e.Notes = ke.GetContent(KeyNotes)
		for _, v := range ke.Values {
			if !reservedKeys[v.Key] {
				e.SetCustom(v.Key, v.Value.Content)
			}
		}
	}
	for i := range kg.Groups {
		fromKeepass(&kg.Groups[i], g.EnsureChild(kg.Groups[i].Name))
	}
}
