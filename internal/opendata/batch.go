package opendata

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultBatchSize is how many staged entities trigger a flush.
const DefaultBatchSize = 500

// MaxBatchSize keeps one batch of the widest entity (13 columns) under the
// Postgres limit of 65535 bind parameters.
const MaxBatchSize = 5000

var ErrFlush = errors.New("flush batch")

// Inserter commits a slice of entity pointers in one write.
type Inserter interface {
	Insert(ctx context.Context, rows any) error
}

// BatchStats counts what a Batcher did. Flushes includes empty flushes,
// Writes only those that reached the store.
type BatchStats struct {
	Staged  int
	Flushes int
	Writes  int
	Rows    int
}

// Batcher accumulates entities and writes them every size entities. After a
// write it drops its references so committed rows can be collected.
type Batcher[T Entity] struct {
	store   Inserter
	size    int
	pending []*T
	stats   BatchStats
}

func NewBatcher[T Entity](store Inserter, size int) *Batcher[T] {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &Batcher[T]{
		store:   store,
		size:    size,
		pending: make([]*T, 0, size),
	}
}

// Stage adds entity to the pending set.
func (b *Batcher[T]) Stage(entity *T) {
	b.pending = append(b.pending, entity)
	b.stats.Staged++
}

// Due reports whether the staged count sits on a batch boundary.
func (b *Batcher[T]) Due() bool {
	return b.stats.Staged > 0 && b.stats.Staged%b.size == 0 && len(b.pending) > 0
}

// Pending is the number of staged entities not yet written.
func (b *Batcher[T]) Pending() int { return len(b.pending) }

// MaybeFlush flushes when the staged count is a multiple of the batch size.
func (b *Batcher[T]) MaybeFlush(ctx context.Context) (bool, error) {
	if !b.Due() {
		return false, nil
	}
	return true, b.Flush(ctx)
}

// Flush writes every pending entity. An empty flush is counted but does not
// touch the store.
func (b *Batcher[T]) Flush(ctx context.Context) error {
	b.stats.Flushes++
	n := len(b.pending)
	if n == 0 {
		return nil
	}

	start := time.Now()
	if err := b.store.Insert(ctx, b.pending); err != nil {
		return fmt.Errorf("%w (%d rows): %w", ErrFlush, n, err)
	}
	var zero T
	LogFlush(zero.TableName(), n, time.Since(start))

	b.pending = make([]*T, 0, b.size)
	b.stats.Writes++
	b.stats.Rows += n
	return nil
}

// Close flushes the remainder of the last batch.
func (b *Batcher[T]) Close(ctx context.Context) error {
	return b.Flush(ctx)
}

func (b *Batcher[T]) Stats() BatchStats { return b.stats }
