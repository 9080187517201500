package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/CarloDePieri/pass2keepass2/internal/application"
	"github.com/CarloDePieri/pass2keepass2/internal/domain"
	"github.com/CarloDePieri/pass2keepass2/internal/ports"
)

// PopulateCommand adds records to a destination database, rebuilding the
// store hierarchy as groups, then persists it once.
type PopulateCommand struct {
	dest    ports.Destination
	records []*domain.Record
	logger  *slog.Logger

	OnProgress application.ProgressFunc
}

// NewPopulateCommand creates a new PopulateCommand
func NewPopulateCommand(dest ports.Destination, records []*domain.Record, logger *slog.Logger) *PopulateCommand {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PopulateCommand{
		dest:    dest,
		records: records,
		logger:  logger,
	}
}

// AddRecord places one record under root. Groups along the record path are
// reused when a direct child with the same name exists and created otherwise.
func AddRecord(root *domain.Group, record *domain.Record) *domain.Entry {
	group := root.EnsurePath(record.Groups)

	entry := group.AddEntry(record.Title, record.Username, record.Secret)
	entry.URL = record.URL
	entry.Notes = record.Notes
	for key, value := range record.CustomFields {
		entry.SetCustom(key, value)
	}
	return entry
}

// Execute adds every record and persists the destination. It returns the
// number of entries added.
func (c *PopulateCommand) Execute(ctx context.Context) (int, error) {
	root := c.dest.Root()

	for i, record := range c.records {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		entry := AddRecord(root, record)
		c.logger.Debug("entry added", "group", entry.Group.Path(), "title", entry.Title)
		c.OnProgress.Notify(i+1, len(c.records))
	}

	if err := c.dest.Persist(); err != nil {
		return len(c.records), err
	}

	c.logger.Info("database written",
		"path", c.dest.Path(),
		"entries", len(c.records),
		"groups", root.CountGroups(),
	)
	return len(c.records), nil
}
