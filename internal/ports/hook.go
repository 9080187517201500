package ports

import (
	"context"

	"github.com/CarloDePieri/pass2keepass2/internal/domain"
)

// Transformer is a user supplied per-record mapping applied after parsing.
// It may mutate and return the same record or return a new one.
type Transformer interface {
	Transform(ctx context.Context, record *domain.Record) (*domain.Record, error)
}
