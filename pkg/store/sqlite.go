package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	gridio "github.com/matzehuels/gridslot/pkg/io"
)

// SQLiteStore keeps records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and runs migrations.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// An in-memory database lives as long as its connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS layouts (
			name       TEXT PRIMARY KEY,
			revision   TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			row_count  INTEGER NOT NULL,
			slot_count INTEGER NOT NULL,
			document   BLOB NOT NULL
		);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating layouts table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (*Record, error) {
	query := `SELECT name, revision, updated_at, document FROM layouts WHERE name = ?`

	var (
		rec       Record
		updatedAt string
		data      []byte
	)
	err := s.db.QueryRowContext(ctx, query, name).Scan(&rec.Name, &rec.Revision, &updatedAt, &data)
	if err == sql.ErrNoRows {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying layout: %w", err)
	}

	rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}
	rec.Document, err = gridio.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding layout %s: %w", name, err)
	}
	return &rec, nil
}

func (s *SQLiteStore) Put(ctx context.Context, name string, doc *gridio.Document) (*Record, error) {
	rec, err := newRecord(name, doc)
	if err != nil {
		return nil, err
	}
	data, err := gridio.Marshal(rec.Document)
	if err != nil {
		return nil, fmt.Errorf("encoding layout: %w", err)
	}
	sum := rec.Summary()

	query := `
		INSERT INTO layouts (name, revision, updated_at, row_count, slot_count, document)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			revision = excluded.revision,
			updated_at = excluded.updated_at,
			row_count = excluded.row_count,
			slot_count = excluded.slot_count,
			document = excluded.document
	`
	if _, err := s.db.ExecContext(ctx, query,
		rec.Name,
		rec.Revision,
		rec.UpdatedAt.Format(time.RFC3339Nano),
		sum.Rows,
		sum.Slots,
		data,
	); err != nil {
		return nil, fmt.Errorf("saving layout: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting layout: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	query := `SELECT name, revision, updated_at, row_count, slot_count FROM layouts ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying layouts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Summary
	for rows.Next() {
		var (
			sum       Summary
			updatedAt string
		)
		if err := rows.Scan(&sum.Name, &sum.Revision, &updatedAt, &sum.Rows, &sum.Slots); err != nil {
			return nil, fmt.Errorf("scanning layout: %w", err)
		}
		if sum.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return nil, fmt.Errorf("parsing updated at: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating layouts: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
