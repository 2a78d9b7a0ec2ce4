// Package importer loads the catalog hierarchy from a spreadsheet.
//
// A sheet is validated completely before any write. The writes then run
// in one transaction: themes, subthemes, categories, names, links. Each
// tier is upserted by natural key, so importing the same sheet twice
// leaves storage unchanged, and any failure leaves it as it was.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result summarizes a committed import. Counts are distinct rows touched.
type Result struct {
	RunID      uuid.UUID `json:"run_id"`
	Themes     int       `json:"themes"`
	Subthemes  int       `json:"subthemes"`
	Categories int       `json:"categories"`
	Names      int       `json:"names"`
	Links      int       `json:"links"`
}

type Importer struct {
	store  Store
	reader SheetReader
	logger *zap.Logger

	// mu serializes imports within the process; the store's catalog lock
	// covers other processes.
	mu sync.Mutex
}

type Option func(*Importer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

// WithSheetReader sets the reader used by Import. The default is XLSXReader.
func WithSheetReader(reader SheetReader) Option {
	return func(i *Importer) {
		i.reader = reader
	}
}

func New(store Store, opts ...Option) *Importer {
	i := &Importer{
		store:  store,
		reader: XLSXReader{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import reads a sheet with the configured reader and imports it.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	rows, err := i.reader.ReadRows(r)
	if err != nil {
		return nil, err
	}
	return i.ImportRows(ctx, rows)
}

// ImportFile imports r using the reader matching filename's extension.
func (i *Importer) ImportFile(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	rows, err := ReaderFor(filename).ReadRows(r)
	if err != nil {
		return nil, err
	}
	return i.ImportRows(ctx, rows)
}

// ImportRows validates rows and writes them in a single transaction.
func (i *Importer) ImportRows(ctx context.Context, rows [][]string) (*Result, error) {
	runID := uuid.New()
	logger := i.logger.With(zap.String("run_id", runID.String()))

	layout, err := Parse(rows)
	if err != nil {
		logger.Warn("Rejected spreadsheet", zap.Error(err))
		return nil, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	start := time.Now()
	result := &Result{RunID: runID}
	err = i.store.RunInTransaction(ctx, func(tx Tx) error {
		return write(tx, layout, result)
	})
	if err != nil {
		var importErr *Error
		if !errors.As(err, &importErr) {
			err = storageFailure("transaction aborted", err)
		}
		logger.Error("Import rolled back", zap.Error(err))
		return nil, err
	}

	logger.Info("Imported spreadsheet",
		zap.Int("themes", result.Themes),
		zap.Int("subthemes", result.Subthemes),
		zap.Int("categories", result.Categories),
		zap.Int("names", result.Names),
		zap.Int("links", result.Links),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

type link struct {
	nameID     uint
	categoryID uint
}

// write upserts the layout top-down; each tier needs the ids of the one
// above it.
func write(tx Tx, layout *Layout, result *Result) error {
	if err := tx.LockCatalog(); err != nil {
		return storageFailure("lock catalog", err)
	}

	themeIDs := make([]uint, len(layout.Themes))
	for k, theme := range layout.Themes {
		id, err := tx.UpsertTheme(theme.Label)
		if failure := checkID(id, err, themeRow, theme); failure != nil {
			return failure
		}
		themeIDs[k] = id
	}

	subthemeIDs := make([]uint, len(layout.Subthemes))
	for k, subtheme := range layout.Subthemes {
		id, err := tx.UpsertSubtheme(themeIDs[subtheme.Parent], subtheme.Label)
		if failure := checkID(id, err, subthemeRow, subtheme); failure != nil {
			return failure
		}
		subthemeIDs[k] = id
	}

	categoryIDs := make([]uint, len(layout.Categories))
	for k, category := range layout.Categories {
		id, err := tx.UpsertCategory(subthemeIDs[category.Parent], category.Label)
		if failure := checkID(id, err, categoryRow, category); failure != nil {
			return failure
		}
		categoryIDs[k] = id
	}

	nameIDs := make(map[string]uint, len(layout.Entries))
	links := make(map[link]struct{})
	for _, entry := range layout.Entries {
		nameID, ok := nameIDs[entry.Name]
		if !ok {
			id, err := tx.UpsertName(entry.Name)
			if failure := checkID(id, err, entry.Row-1, Node{Label: entry.Name}); failure != nil {
				return failure
			}
			nameID = id
			nameIDs[entry.Name] = id
		}

		for _, c := range entry.Categories {
			key := link{nameID: nameID, categoryID: categoryIDs[c]}
			if _, seen := links[key]; seen {
				continue
			}
			if err := tx.LinkNameCategory(key.nameID, key.categoryID); err != nil {
				failure := storageFailure(fmt.Sprintf("link %q to %q", entry.Name, layout.Categories[c].Label), err)
				failure.Row = entry.Row
				return failure
			}
			links[key] = struct{}{}
		}
	}

	result.Themes = countDistinct(themeIDs)
	result.Subthemes = countDistinct(subthemeIDs)
	result.Categories = countDistinct(categoryIDs)
	result.Names = len(nameIDs)
	result.Links = len(links)
	return nil
}

// checkID rejects upserts that failed or resolved no identity; writing
// children under a missing id would break referential integrity.
func checkID(id uint, err error, rowIndex int, node Node) error {
	if err == nil && id != 0 {
		return nil
	}
	if err == nil {
		err = errors.New("no id returned")
	}
	failure := storageFailure(fmt.Sprintf("upsert %q", node.Label), err)
	failure.Row = rowIndex + 1
	failure.Column = node.Column + 1
	return failure
}

func countDistinct(ids []uint) int {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
