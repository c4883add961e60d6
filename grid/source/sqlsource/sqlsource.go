// Package sqlsource is a data source backed by a SQL query. The result is
// loaded once into memory; Reload runs the query again and reports a
// reset.
package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	_ "modernc.org/sqlite"

	"github.com/hnimtadd/gridvirt/grid/column"
	"github.com/hnimtadd/gridvirt/grid/source"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

var ErrQuery = fmt.Errorf("sqlsource: query failed")

// Record is one result row. Records are compared by identity.
type Record struct {
	columns []string
	Values  []any
}

// Get returns the value of the named column, or nil.
func (r *Record) Get(name string) any {
	if i := slices.Index(r.columns, name); i >= 0 {
		return r.Values[i]
	}
	return nil
}

type Source struct {
	query   string
	args    []any
	columns []string
	records []*Record
}

var _ source.DataSource = (*Source)(nil)

// Load runs query against db and keeps its result.
func Load(ctx context.Context, db *sql.DB, query string, args ...any) (*Source, error) {
	s := &Source{query: query, args: args}
	if err := s.load(ctx, db); err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens the SQLite database at dsn, loads query and closes it again.
func Open(ctx context.Context, dsn, query string, args ...any) (*Source, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlsource: open %s: %w", dsn, err)
	}
	defer db.Close()
	return Load(ctx, db, query, args...)
}

func (s *Source) load(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, s.query, s.args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("%w: columns: %w", ErrQuery, err)
	}
	var records []*Record
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("%w: scan row %d: %w", ErrQuery, len(records), err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		records = append(records, &Record{columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrQuery, err)
	}
	s.columns = columns
	s.records = records
	return nil
}

// Reload runs the query again. On error the previous result is kept.
func (s *Source) Reload(ctx context.Context, db *sql.DB) (source.Change, error) {
	if err := s.load(ctx, db); err != nil {
		return source.Change{}, err
	}
	return source.Change{Kind: source.ChangeReset}, nil
}

func (s *Source) Count() int { return len(s.records) }

func (s *Source) Item(index int) any { return s.records[index] }

func (s *Source) IndexOf(item any) int {
	r, ok := item.(*Record)
	if !ok {
		return -1
	}
	return slices.Index(s.records, r)
}

func (s *Source) Record(index int) *Record { return s.records[index] }

// ColumnNames returns the result columns in query order.
func (s *Source) ColumnNames() []string { return s.columns }

// Columns returns one grid column per result column, at least minWidth
// wide.
func (s *Source) Columns(minWidth int) []column.Column {
	out := make([]column.Column, len(s.columns))
	for i, name := range s.columns {
		out[i] = column.Column{
			Header: name,
			Width:  max(len(name)+1, minWidth),
			Value: func(item any) any {
				return item.(*Record).Values[i]
			},
		}
	}
	return out
}
