package ports

import "github.com/CarloDePieri/pass2keepass2/internal/domain"

// Destination is an encrypted credential database being populated
type Destination interface {
	// Root returns the root of the destination group tree
	Root() *domain.Group

	// Persist writes the database to its path
	Persist() error

	// Path returns where the database is persisted
	Path() string
}
