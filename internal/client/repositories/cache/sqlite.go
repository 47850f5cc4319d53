package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/duabook/duabook/internal/client/models"
	"github.com/duabook/duabook/internal/dbx"
)

// Snapshot keys in the cache table.
const (
	keyDuas        = "duas"
	keyArchived    = "archived_duas"
	keyDeleted     = "deleted_duas"
	keyCollections = "collections"
	keyReadCounts  = "read_counts"
)

// SQLiteRepository implements Repository over *sql.DB. Each snapshot
// lives in one row of the cache table as a JSON blob; writes replace the
// row wholesale (last writer wins). The full handle (not just a DBTX) is
// kept so multi-snapshot writes can run in one transaction.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func put(ctx context.Context, db dbx.DBTX, key string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache[%s]: %w", key, err)
	}
	query := `
		INSERT INTO cache (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, key, blob, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to write cache[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) get(ctx context.Context, key string, v any) (bool, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM cache WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache[%s]: %w", key, err)
	}
	if err := json.Unmarshal(blob, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache[%s]: %w", key, err)
	}
	return true, nil
}

func (r *SQLiteRepository) PutDuas(ctx context.Context, duas []models.Dua) error {
	return put(ctx, r.db, keyDuas, duas)
}

func (r *SQLiteRepository) GetDuas(ctx context.Context) ([]models.Dua, error) {
	var duas []models.Dua
	if ok, err := r.get(ctx, keyDuas, &duas); !ok {
		return nil, err
	}
	return duas, nil
}

func (r *SQLiteRepository) PutArchived(ctx context.Context, duas []models.Dua) error {
	return put(ctx, r.db, keyArchived, duas)
}

func (r *SQLiteRepository) GetArchived(ctx context.Context) ([]models.Dua, error) {
	var duas []models.Dua
	if ok, err := r.get(ctx, keyArchived, &duas); !ok {
		return nil, err
	}
	return duas, nil
}

func (r *SQLiteRepository) PutDeleted(ctx context.Context, duas []models.Dua) error {
	return put(ctx, r.db, keyDeleted, duas)
}

func (r *SQLiteRepository) GetDeleted(ctx context.Context) ([]models.Dua, error) {
	var duas []models.Dua
	if ok, err := r.get(ctx, keyDeleted, &duas); !ok {
		return nil, err
	}
	return duas, nil
}

// PutDuaSets writes the three membership snapshots in one transaction, so
// a crash between writes cannot leave the sets disagreeing about where a
// dua lives.
func (r *SQLiteRepository) PutDuaSets(ctx context.Context, duas, archived, deleted []models.Dua) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := put(ctx, tx, keyDuas, duas); err != nil {
			return err
		}
		if err := put(ctx, tx, keyArchived, archived); err != nil {
			return err
		}
		return put(ctx, tx, keyDeleted, deleted)
	})
}

func (r *SQLiteRepository) PutCollections(ctx context.Context, cols []models.Collection) error {
	return put(ctx, r.db, keyCollections, cols)
}

func (r *SQLiteRepository) GetCollections(ctx context.Context) ([]models.Collection, error) {
	var cols []models.Collection
	if ok, err := r.get(ctx, keyCollections, &cols); !ok {
		return nil, err
	}
	return cols, nil
}

func (r *SQLiteRepository) PutReadCounts(ctx context.Context, counts models.ReadCounts) error {
	return put(ctx, r.db, keyReadCounts, counts)
}

func (r *SQLiteRepository) GetReadCounts(ctx context.Context) (models.ReadCounts, error) {
	var counts models.ReadCounts
	if ok, err := r.get(ctx, keyReadCounts, &counts); !ok {
		return nil, err
	}
	return counts, nil
}
