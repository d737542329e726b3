package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/shoptrack-be/internal/models"
	"github.com/hongminglow/shoptrack-be/internal/storage"
)

const listColumns = `id, title, deadline, notes, pinned, user_id, created_at, updated_at`

// CreateList inserts a list owned by list.UserID.
func (s *Store) CreateList(ctx context.Context, list models.List) (models.List, error) {
	query := `
		INSERT INTO list (title, deadline, notes, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + listColumns
	row := s.pool.QueryRow(ctx, query, list.Title, list.Deadline.TimePtr(), list.Notes, list.UserID)
	created, err := scanList(row)
	if err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return models.List{}, storage.ErrNotFound
		}
		return models.List{}, err
	}
	return created, nil
}

// ListsByOwner returns every list owned by ownerID in insertion order.
func (s *Store) ListsByOwner(ctx context.Context, ownerID int64) ([]models.List, error) {
	query := `SELECT ` + listColumns + ` FROM list WHERE user_id = $1 ORDER BY id`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.List, 0)
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetOwnedList fetches a list only when it belongs to ownerID.
func (s *Store) GetOwnedList(ctx context.Context, ownerID, listID int64) (models.List, error) {
	query := `SELECT ` + listColumns + ` FROM list WHERE id = $1 AND user_id = $2`
	return scanList(s.pool.QueryRow(ctx, query, listID, ownerID))
}

// SetPinned updates the pinned flag of an owned list.
func (s *Store) SetPinned(ctx context.Context, ownerID, listID int64, pinned bool) error {
	const query = `UPDATE list SET pinned = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	tag, err := s.pool.Exec(ctx, query, listID, ownerID, pinned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteList removes the items of an owned list and then the list itself in
// one transaction.
func (s *Store) DeleteList(ctx context.Context, ownerID, listID int64) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `SELECT id FROM list WHERE id = $1 AND user_id = $2 FOR UPDATE`, listID, ownerID).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("lock list: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM item WHERE list_id = $1`, listID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM list WHERE id = $1`, listID); err != nil {
			return fmt.Errorf("delete list: %w", err)
		}
		return nil
	})
}

func scanList(row pgx.Row) (models.List, error) {
	var (
		l        models.List
		deadline *time.Time
	)
	if err := row.Scan(&l.ID, &l.Title, &deadline, &l.Notes, &l.Pinned, &l.UserID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.List{}, storage.ErrNotFound
		}
		return models.List{}, err
	}
	l.Deadline = models.DateFromTime(deadline)
	return l, nil
}
