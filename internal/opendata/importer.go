package opendata

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrTruncate = errors.New("truncate tables")

// Store is the relational side of an import.
type Store interface {
	Inserter
	Truncate(ctx context.Context, tables ...string) error
}

// DatasetReport summarises one dataset import. FieldErrors counts skipped
// values per source field.
type DatasetReport struct {
	Name        string
	Records     int
	Batch       BatchStats
	FieldErrors map[string]int
	Duration    time.Duration
}

type Report struct {
	Datasets []DatasetReport
}

// Importer runs fetch, populate and persist for each dataset in turn.
type Importer struct {
	fetcher   RecordFetcher
	store     Store
	console   *Console
	batchSize int
}

func NewImporter(fetcher RecordFetcher, store Store, console *Console, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{
		fetcher:   fetcher,
		store:     store,
		console:   console,
		batchSize: batchSize,
	}
}

// Run truncates every job's table, then imports the jobs in order. The first
// error stops the run; tables filled by earlier jobs are left as they are.
func (imp *Importer) Run(ctx context.Context, jobs ...Job) (Report, error) {
	var report Report

	tables := make([]string, 0, len(jobs))
	for _, j := range jobs {
		tables = append(tables, j.Table())
	}
	if len(tables) > 0 {
		if err := imp.store.Truncate(ctx, tables...); err != nil {
			return report, fmt.Errorf("%w: %w", ErrTruncate, err)
		}
	}

	for _, j := range jobs {
		rep, err := j.load(ctx, imp)
		report.Datasets = append(report.Datasets, rep)
		if err != nil {
			return report, fmt.Errorf("import %s: %w", j.Key(), err)
		}
	}
	return report, nil
}
