package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hnimtadd/gridvirt/grid/source"
)

func openDB(t *testing.T, rows int) *sql.DB {
	t.Helper()
	db, err := sql.Open(DriverName, ":memory:")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	// Every connection to :memory: is a different database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE tickets (id INTEGER PRIMARY KEY, title TEXT, body BLOB)`)
	assert.NoError(t, err)
	for i := range rows {
		_, err = db.Exec(`INSERT INTO tickets (id, title, body) VALUES (?, ?, ?)`,
			i, fmt.Sprintf("ticket %d", i), []byte("body"))
		assert.NoError(t, err)
	}
	return db
}

func TestLoad(t *testing.T) {
	db := openDB(t, 25)
	src, err := Load(context.Background(), db, `SELECT id, title, body FROM tickets WHERE id >= ? ORDER BY id`, 5)
	assert.NoError(t, err)
	assert.NoError(t, source.Validate(src))

	assert.Equal(t, 20, src.Count())
	assert.Equal(t, []string{"id", "title", "body"}, src.ColumnNames())
	r := src.Record(0)
	assert.Equal(t, int64(5), r.Get("id"))
	assert.Equal(t, "ticket 5", r.Get("title"))
	assert.Equal(t, "body", r.Get("body"), "blobs are shown as text")
	assert.Nil(t, r.Get("missing"))

	assert.Equal(t, 3, src.IndexOf(src.Item(3)))
	assert.Equal(t, -1, src.IndexOf("ticket 3"))
	assert.True(t, source.SameItem(src.Item(3), src.Item(3)))
	assert.False(t, source.SameItem(src.Item(3), src.Item(4)))

	cols := src.Columns(8)
	assert.Len(t, cols, 3)
	assert.Equal(t, "title", cols[1].Header)
	assert.Equal(t, 8, cols[1].Width)
	assert.Equal(t, "ticket 7", cols[1].ValueOf(src.Item(2)))
}

func TestLoad_QueryError(t *testing.T) {
	db := openDB(t, 0)
	_, err := Load(context.Background(), db, `SELECT nope FROM nowhere`)
	assert.ErrorIs(t, err, ErrQuery)
}

func TestLoad_Cancelled(t *testing.T) {
	db := openDB(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, db, `SELECT id FROM tickets`)
	assert.ErrorIs(t, err, ErrQuery)
}

func TestReload(t *testing.T) {
	db := openDB(t, 3)
	src, err := Load(context.Background(), db, `SELECT id, title FROM tickets ORDER BY id`)
	assert.NoError(t, err)
	assert.Equal(t, 3, src.Count())

	_, err = db.Exec(`INSERT INTO tickets (id, title) VALUES (100, 'late')`)
	assert.NoError(t, err)
	ch, err := src.Reload(context.Background(), db)
	assert.NoError(t, err)
	assert.Equal(t, source.ChangeReset, ch.Kind)
	assert.Equal(t, 4, src.Count())
	assert.Equal(t, "late", src.Record(3).Get("title"))
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.db")
	db, err := sql.Open(DriverName, path)
	assert.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE t (v TEXT)`)
	assert.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t VALUES ('a'), ('b')`)
	assert.NoError(t, err)
	assert.NoError(t, db.Close())

	src, err := Open(context.Background(), path, `SELECT v FROM t ORDER BY v`)
	assert.NoError(t, err)
	assert.Equal(t, 2, src.Count())
	assert.Equal(t, "b", src.Record(1).Get("v"))
}
