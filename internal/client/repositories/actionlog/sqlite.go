package actionlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/duabook/duabook/internal/client/models"
	"github.com/duabook/duabook/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). Every append is a single committed statement, so a record is
// durable before the call returns.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) AppendRead(ctx context.Context, duaID string) error {
	query := `INSERT INTO offline_reads (dua_id, count) VALUES (?, 1)
			ON CONFLICT(dua_id) DO UPDATE SET count = count + 1`
	if _, err := r.db.ExecContext(ctx, query, duaID); err != nil {
		return fmt.Errorf("failed to append read action: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ReadAllReads(ctx context.Context) ([]models.ReadAction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT dua_id, count FROM offline_reads ORDER BY dua_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select read actions: %w", err)
	}
	defer rows.Close()

	var result []models.ReadAction
	for rows.Next() {
		var a models.ReadAction
		if err := rows.Scan(&a.DuaID, &a.Count); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ClearReads(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM offline_reads`); err != nil {
		return fmt.Errorf("failed to clear read actions: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AppendArchive(ctx context.Context, a models.ArchiveAction) error {
	query := `INSERT INTO archive_actions (dua_id, kind, created_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, a.DuaID, string(a.Kind), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to append archive action: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ReadAllArchives(ctx context.Context) ([]models.ArchiveAction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT dua_id, kind FROM archive_actions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select archive actions: %w", err)
	}
	defer rows.Close()

	var result []models.ArchiveAction
	for rows.Next() {
		var a models.ArchiveAction
		var kind string
		if err := rows.Scan(&a.DuaID, &kind); err != nil {
			return nil, err
		}
		a.Kind = models.ArchiveKind(kind)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ClearArchives(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM archive_actions`); err != nil {
		return fmt.Errorf("failed to clear archive actions: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AppendDeletion(ctx context.Context, a models.DeletionAction) error {
	query := `INSERT INTO deletion_actions (dua_id, kind, created_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, a.DuaID, string(a.Kind), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to append deletion action: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ReadAllDeletions(ctx context.Context) ([]models.DeletionAction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT dua_id, kind FROM deletion_actions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select deletion actions: %w", err)
	}
	defer rows.Close()

	var result []models.DeletionAction
	for rows.Next() {
		var a models.DeletionAction
		var kind string
		if err := rows.Scan(&a.DuaID, &kind); err != nil {
			return nil, err
		}
		a.Kind = models.DeletionKind(kind)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ClearDeletions(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deletion_actions`); err != nil {
		return fmt.Errorf("failed to clear deletion actions: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AppendCollection(ctx context.Context, a models.CollectionAction) error {
	blob, err := json.Marshal(a.Collection)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}
	query := `INSERT INTO collection_actions (action_type, collection, ts) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, string(a.Type), blob, a.Timestamp.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to append collection action: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ReadAllCollections(ctx context.Context) ([]models.CollectionAction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT action_type, collection, ts FROM collection_actions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select collection actions: %w", err)
	}
	defer rows.Close()

	var result []models.CollectionAction
	for rows.Next() {
		var a models.CollectionAction
		var actionType, ts string
		var blob []byte
		if err := rows.Scan(&actionType, &blob, &ts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(blob, &a.Collection); err != nil {
			return nil, fmt.Errorf("failed to unmarshal collection: %w", err)
		}
		a.Type = models.CollectionActionType(actionType)
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse action timestamp: %w", err)
		}
		a.Timestamp = parsed
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ClearCollections(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM collection_actions`); err != nil {
		return fmt.Errorf("failed to clear collection actions: %w", err)
	}
	return nil
}
