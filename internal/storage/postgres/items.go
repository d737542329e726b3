package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/shoptrack-be/internal/models"
	"github.com/hongminglow/shoptrack-be/internal/storage"
)

const itemColumns = `id, list_id, name, quantity, is_purchased, created_at, updated_at`

// CreateItem inserts an item only if its parent list belongs to ownerID. A
// list deleted while the insert waits on its lock also reports ErrNotFound.
func (s *Store) CreateItem(ctx context.Context, ownerID int64, item models.Item) (models.Item, error) {
	query := `
		INSERT INTO item (list_id, name, quantity)
		SELECT l.id, $3, $4 FROM list l WHERE l.id = $1 AND l.user_id = $2
		RETURNING ` + itemColumns
	created, err := scanItem(s.pool.QueryRow(ctx, query, item.ListID, ownerID, item.Name, item.Quantity))
	if err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return models.Item{}, storage.ErrNotFound
		}
		return models.Item{}, err
	}
	return created, nil
}

// ItemsByList returns the items of a list in insertion order. Callers check
// ownership of the list first.
func (s *Store) ItemsByList(ctx context.Context, listID int64) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM item WHERE list_id = $1 ORDER BY id`
	rows, err := s.pool.Query(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// DeleteItem removes an item whose parent list belongs to ownerID.
func (s *Store) DeleteItem(ctx context.Context, ownerID, itemID int64) error {
	const query = `
		DELETE FROM item i USING list l
		WHERE i.id = $1 AND i.list_id = l.id AND l.user_id = $2`
	tag, err := s.pool.Exec(ctx, query, itemID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// MarkPurchased flags an owned item as purchased. Repeating it is harmless.
func (s *Store) MarkPurchased(ctx context.Context, ownerID, itemID int64) (models.Item, error) {
	const query = `
		UPDATE item i SET is_purchased = TRUE, updated_at = NOW()
		FROM list l
		WHERE i.id = $1 AND i.list_id = l.id AND l.user_id = $2
		RETURNING i.id, i.list_id, i.name, i.quantity, i.is_purchased, i.created_at, i.updated_at`
	return scanItem(s.pool.QueryRow(ctx, query, itemID, ownerID))
}

func scanItem(row pgx.Row) (models.Item, error) {
	var it models.Item
	if err := row.Scan(&it.ID, &it.ListID, &it.Name, &it.Quantity, &it.IsPurchased, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Item{}, storage.ErrNotFound
		}
		return models.Item{}, err
	}
	return it, nil
}
