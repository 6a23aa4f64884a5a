package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"github.com/samdwyer/deepvein/internal/telemetry"
)

// SQLiteStore keeps saves as rows in a SQLite database.
type SQLiteStore struct {
	conn *sqlx.DB
	now  func() time.Time
}

// saveRow mirrors the saves table. Times are stored as Unix nanoseconds.
type saveRow struct {
	Slot    string `db:"slot"`
	SavedAt int64  `db:"saved_at"`
	Size    int    `db:"size"`
}

// OpenSQLite opens or creates a SQLite database at the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	store := &SQLiteStore{conn: conn, now: time.Now}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		saved_at INTEGER NOT NULL,
		size INTEGER NOT NULL,
		data BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_saved_at ON saves(saved_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Save writes the blob to the slot, replacing any earlier save.
func (s *SQLiteStore) Save(ctx context.Context, slot string, data []byte) error {
	ctx, span := telemetry.Tracer("persistence").Start(ctx, "store.save")
	defer span.End()
	span.SetAttributes(attribute.String("store", "sqlite"), attribute.String("slot", slot), attribute.Int("size", len(data)))

	if err := ValidateSlot(slot); err != nil {
		return err
	}

	_, err := s.conn.ExecContext(ctx, `INSERT INTO saves (slot, saved_at, size, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			saved_at = excluded.saved_at,
			size = excluded.size,
			data = excluded.data`,
		slot, s.now().UnixNano(), len(data), data)
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

// Load reads the slot's blob.
func (s *SQLiteStore) Load(ctx context.Context, slot string) ([]byte, error) {
	ctx, span := telemetry.Tracer("persistence").Start(ctx, "store.load")
	defer span.End()
	span.SetAttributes(attribute.String("store", "sqlite"), attribute.String("slot", slot))

	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}

	var data []byte
	err := s.conn.GetContext(ctx, &data, `SELECT data FROM saves WHERE slot = ?`, slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSaveNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", slot, err)
	}
	return data, nil
}

// List returns the stored saves, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]SaveInfo, error) {
	var rows []saveRow
	err := s.conn.SelectContext(ctx, &rows,
		`SELECT slot, saved_at, size FROM saves ORDER BY saved_at DESC, slot ASC`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}

	saves := make([]SaveInfo, 0, len(rows))
	for _, row := range rows {
		saves = append(saves, SaveInfo{
			Slot:    row.Slot,
			SavedAt: time.Unix(0, row.SavedAt),
			Size:    row.Size,
		})
	}
	return saves, nil
}

// Delete removes the slot.
func (s *SQLiteStore) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	res, err := s.conn.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete %s: %w", slot, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSaveNotFound, slot)
	}
	return nil
}
