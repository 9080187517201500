package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/CarloDePieri/pass2keepass2/internal/application"
	"github.com/CarloDePieri/pass2keepass2/internal/domain"
	"github.com/CarloDePieri/pass2keepass2/internal/ports"
)

// HookLoader loads the transform hook before any entry is read
type HookLoader func() (ports.Transformer, error)

// DestinationFactory creates the destination database once the store has
// been read completely
type DestinationFactory func() (ports.Destination, error)

// ConvertResult contains the result of a conversion
type ConvertResult struct {
	Path    string
	Entries int
	Groups  int
	Message string
}

// ConvertCommand reads a whole password store and writes it into a new
// database. Reading finishes before the destination is created, so a read
// failure never touches the destination.
type ConvertCommand struct {
	scanner    ports.StoreScanner
	decryptor  ports.Decryptor
	loadHook   HookLoader // Optional
	createDest DestinationFactory
	logger     *slog.Logger

	OnReadProgress  application.ProgressFunc
	OnWriteProgress application.ProgressFunc
	// OnRead is called between the read and write phases
	OnRead func(records []*domain.Record)
}

// NewConvertCommand creates a new ConvertCommand. loadHook may be nil.
func NewConvertCommand(
	scanner ports.StoreScanner,
	decryptor ports.Decryptor,
	loadHook HookLoader,
	createDest DestinationFactory,
	logger *slog.Logger,
) *ConvertCommand {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ConvertCommand{
		scanner:    scanner,
		decryptor:  decryptor,
		loadHook:   loadHook,
		createDest: createDest,
		logger:     logger,
	}
}

// Execute runs the conversion
func (c *ConvertCommand) Execute(ctx context.Context) (*ConvertResult, error) {
	records, err := c.Read(ctx)
	if err != nil {
		return nil, err
	}
	if c.OnRead != nil {
		c.OnRead(records)
	}
	return c.Write(ctx, records)
}

// Read loads the hook and reads the whole store
func (c *ConvertCommand) Read(ctx context.Context) ([]*domain.Record, error) {
	var hook ports.Transformer
	if c.loadHook != nil {
		h, err := c.loadHook()
		if err != nil {
			return nil, err
		}
		hook = h
	}

	reader := NewReadStoreCommand(c.scanner, c.decryptor, hook, c.logger)
	reader.OnProgress = c.OnReadProgress
	return reader.Execute(ctx)
}

// Write creates the destination and stores records in it
func (c *ConvertCommand) Write(ctx context.Context, records []*domain.Record) (*ConvertResult, error) {
	dest, err := c.createDest()
	if err != nil {
		return nil, err
	}

	populate := NewPopulateCommand(dest, records, c.logger)
	populate.OnProgress = c.OnWriteProgress
	n, err := populate.Execute(ctx)
	if err != nil {
		return nil, err
	}

	return &ConvertResult{
		Path:    dest.Path(),
		Entries: n,
		Groups:  dest.Root().CountGroups(),
		Message: fmt.Sprintf("%d entries have been added to %s", n, dest.Path()),
	}, nil
}
