package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// SQLiteSlots keeps slots in a key/value table.
// Each Write is a single upsert statement, so it is atomic on its own.
type SQLiteSlots struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteSlots, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite slot store: path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}

	writeDB.SetMaxOpenConns(1)

	s := &SQLiteSlots{writeDB: writeDB}
	if err := s.init(); err != nil {
		_ = s.Close()
		return nil, err
	}

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s.readDB = readDB

	return s, nil
}

func (s *SQLiteSlots) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			name       TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	return nil
}

// Read implements ports.SlotStore.
func (s *SQLiteSlots) Read(ctx context.Context, slot string) ([]byte, error) {
	var value []byte

	err := s.readDB.QueryRowContext(ctx, `SELECT value FROM slots WHERE name = ?`, slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("slot", slot)
	}

	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", slot, err)
	}

	return value, nil
}

// Write implements ports.SlotStore.
func (s *SQLiteSlots) Write(ctx context.Context, slot string, data []byte) error {
	_, err := s.writeDB.ExecContext(ctx, `
		INSERT INTO slots (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, slot, data)
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", slot, err)
	}

	return nil
}

// Close implements ports.SlotStore.
func (s *SQLiteSlots) Close() error {
	var errs []error

	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}

	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}

	return errors.Join(errs...)
}

// Name implements ports.HealthChecker.
func (s *SQLiteSlots) Name() string {
	return "storage"
}

// Check implements ports.HealthChecker.
func (s *SQLiteSlots) Check(ctx context.Context) error {
	return s.writeDB.PingContext(ctx)
}
