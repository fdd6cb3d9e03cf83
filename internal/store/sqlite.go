package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite is the durable Store backed by a single database file.
type SQLite struct {
	db *sql.DB
}

var (
	_ Store     = (*SQLite)(nil)
	_ BlobStore = (*SQLite)(nil)
)

// Open opens or creates the session database at the given path.
func Open(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads every present slot.
func (s *SQLite) Load(ctx context.Context) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, value FROM slots")
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	raw := make(map[Slot][]byte, len(Slots))
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Snapshot{}, fmt.Errorf("scanning slot: %w", err)
		}
		raw[Slot(name)] = []byte(value)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("loading slots: %w", err)
	}

	return decodeSnapshot(raw), nil
}

// Save overwrites one slot.
func (s *SQLite) Save(ctx context.Context, slot Slot, value any) error {
	data, err := encodeSlot(slot, value)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO slots (name, value, updated_at)
		VALUES (?, ?, ?)`, string(slot), string(data), now)
	if err != nil {
		return fmt.Errorf("saving %s: %w", slot, err)
	}
	return nil
}

// Clear removes every slot and blob in one transaction.
func (s *SQLite) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM slots"); err != nil {
		return fmt.Errorf("clearing slots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM blobs"); err != nil {
		return fmt.Errorf("clearing blobs: %w", err)
	}

	return tx.Commit()
}

// PutBlob stores data and returns its ref.
func (s *SQLite) PutBlob(ctx context.Context, data []byte) (string, error) {
	ref, err := newBlobRef()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `INSERT INTO blobs (ref, data, size_bytes, created_at)
		VALUES (?, ?, ?, ?)`, ref, data, len(data), now)
	if err != nil {
		return "", fmt.Errorf("storing blob: %w", err)
	}
	return ref, nil
}

// GetBlob returns the data stored under ref.
func (s *SQLite) GetBlob(ctx context.Context, ref string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM blobs WHERE ref = ?", ref).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}

// DeleteBlob removes the blob stored under ref.
func (s *SQLite) DeleteBlob(ctx context.Context, ref string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE ref = ?", ref); err != nil {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

// Stats summarises what the database holds.
type Stats struct {
	Slots     int
	Blobs     int
	BlobBytes int64
}

// Stats returns row counts for diagnostics.
func (s *SQLite) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM slots").Scan(&st.Slots); err != nil {
		return st, err
	}
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM blobs").
		Scan(&st.Blobs, &st.BlobBytes)
	return st, err
}
