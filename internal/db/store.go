package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Store writes import batches through gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(d *gorm.DB) *Store {
	return &Store{db: d}
}

// Truncate empties all tables in a single statement.
func (s *Store) Truncate(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	return annotate(s.db.WithContext(ctx).Exec(TruncateSQL(tables...)).Error)
}

// InsertChunk bounds the rows per INSERT statement so wide batches stay under
// the Postgres bind-parameter limit.
const InsertChunk = 1000

// Insert creates rows, a slice of model pointers, in one transaction split
// into statements of at most InsertChunk rows.
func (s *Store) Insert(ctx context.Context, rows any) error {
	return annotate(s.db.WithContext(ctx).CreateInBatches(rows, InsertChunk).Error)
}

// TruncateSQL builds a TRUNCATE for schema-qualified table names.
func TruncateSQL(tables ...string) string {
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = QuoteTable(t)
	}
	return "TRUNCATE TABLE " + strings.Join(quoted, ", ")
}

// QuoteTable quotes each dot-separated part of name.
func QuoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

func annotate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w (sqlstate %s)", err, pgErr.Code)
	}
	return err
}
