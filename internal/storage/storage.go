package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/shoptrack-be/internal/models"
)

// ErrNotFound indicates a record does not exist, or is not visible to the
// requesting owner.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByName(ctx context.Context, name string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByNameOrEmail(ctx context.Context, identifier string) (models.User, error)
}

// ListStore persists shopping lists. Every method taking an ownerID only
// touches rows owned by that user and reports ErrNotFound otherwise.
type ListStore interface {
	CreateList(ctx context.Context, list models.List) (models.List, error)
	ListsByOwner(ctx context.Context, ownerID int64) ([]models.List, error)
	GetOwnedList(ctx context.Context, ownerID, listID int64) (models.List, error)
	SetPinned(ctx context.Context, ownerID, listID int64, pinned bool) error
	// DeleteList removes the list and all of its items atomically.
	DeleteList(ctx context.Context, ownerID, listID int64) error
}

// ItemStore persists items. Ownership is resolved through the parent list.
type ItemStore interface {
	CreateItem(ctx context.Context, ownerID int64, item models.Item) (models.Item, error)
	ItemsByList(ctx context.Context, listID int64) ([]models.Item, error)
	DeleteItem(ctx context.Context, ownerID, itemID int64) error
	MarkPurchased(ctx context.Context, ownerID, itemID int64) (models.Item, error)
}

// Store bundles every persistence concern behind one handle.
type Store interface {
	UserStore
	ListStore
	ItemStore
	Ping(ctx context.Context) error
	Close()
}
