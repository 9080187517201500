package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/CarloDePieri/pass2keepass2/internal/application"
	"github.com/CarloDePieri/pass2keepass2/internal/domain"
	"github.com/CarloDePieri/pass2keepass2/internal/ports"
)

// ReadStoreCommand scans a password store and turns every entry into a Record.
// Records are decrypted, parsed and transformed one at a time, in scan order.
type ReadStoreCommand struct {
	scanner   ports.StoreScanner
	decryptor ports.Decryptor
	hook      ports.Transformer // Optional
	logger    *slog.Logger

	OnProgress application.ProgressFunc
}

// NewReadStoreCommand creates a new ReadStoreCommand. hook may be nil.
func NewReadStoreCommand(scanner ports.StoreScanner, decryptor ports.Decryptor, hook ports.Transformer, logger *slog.Logger) *ReadStoreCommand {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ReadStoreCommand{
		scanner:   scanner,
		decryptor: decryptor,
		hook:      hook,
		logger:    logger,
	}
}

// Identifiers returns the identifiers the command will read
func (c *ReadStoreCommand) Identifiers(ctx context.Context) ([]string, error) {
	ids, err := c.scanner.Scan(ctx)
	if err != nil {
		var srcErr *application.SourceReadError
		if errors.As(err, &srcErr) {
			return nil, err
		}
		return nil, &application.SourceReadError{Err: err}
	}
	return ids, nil
}

// Execute reads the whole store. The first failure aborts the read and no
// partial result is returned.
func (c *ReadStoreCommand) Execute(ctx context.Context) ([]*domain.Record, error) {
	ids, err := c.Identifiers(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("store scanned", "root", c.scanner.Root(), "entries", len(ids))

	records := make([]*domain.Record, 0, len(ids))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := c.ReadRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
		c.OnProgress.Notify(i+1, len(ids))
	}

	c.logger.Info("password store read", "entries", len(records))
	return records, nil
}

// ReadRecord decrypts, parses and transforms a single entry
func (c *ReadStoreCommand) ReadRecord(ctx context.Context, identifier string) (*domain.Record, error) {
	plaintext, err := c.decryptor.Decrypt(ctx, identifier)
	if err != nil {
		return nil, &application.SourceReadError{Identifier: identifier, Err: err}
	}

	record := domain.ParseRecord(identifier, plaintext)
	c.logger.Debug("entry parsed", "entry", record.Path(), "custom_fields", len(record.CustomFields))

	if c.hook == nil {
		return record, nil
	}
	return c.transform(ctx, record)
}

func (c *ReadStoreCommand) transform(ctx context.Context, record *domain.Record) (*domain.Record, error) {
	id := record.Path()

	out, err := c.hook.Transform(ctx, record)
	if err != nil {
		var hookErr *application.HookExecutionError
		if errors.As(err, &hookErr) {
			return nil, err
		}
		return nil, &application.HookExecutionError{Identifier: id, Err: err}
	}
	if out == nil {
		return nil, &application.HookExecutionError{Identifier: id, Err: fmt.Errorf("hook returned no record")}
	}
	if out.CustomFields == nil {
		out.CustomFields = make(map[string]string)
	}
	return out, nil
}
