package service

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hongminglow/shoptrack-be/internal/models"
	"github.com/hongminglow/shoptrack-be/internal/storage"
)

const (
	maxItemNameLen = 255
	// quantity is stored as a 32-bit integer.
	maxQuantity = math.MaxInt32
)

// Items exposes item operations. Every call requires the caller to own the
// parent list.
type Items struct {
	items    storage.ItemStore
	timeouts timeouts
}

// NewItems builds the item operations on top of an item store.
func NewItems(items storage.ItemStore, storageTimeout time.Duration) *Items {
	return &Items{items: items, timeouts: newTimeouts(storageTimeout)}
}

// Add creates an unpurchased item on an owned list.
func (i *Items) Add(ctx context.Context, userID, listID int64, name string, quantity int) (models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" || quantity == 0 {
		return models.Item{}, invalid("name and quantity are required")
	}
	if quantity < 0 {
		return models.Item{}, invalid("quantity must be a positive integer")
	}
	if quantity > maxQuantity {
		return models.Item{}, invalid("quantity must be at most %d", maxQuantity)
	}
	if utf8.RuneCountInString(name) > maxItemNameLen {
		return models.Item{}, invalid("name must be at most %d characters", maxItemNameLen)
	}

	ctx, cancel := i.timeouts.bound(ctx)
	defer cancel()

	item, err := i.items.CreateItem(ctx, userID, models.Item{ListID: listID, Name: name, Quantity: quantity})
	if err != nil {
		return models.Item{}, storageErr("create item", err)
	}
	return item, nil
}

// Delete removes a single item.
func (i *Items) Delete(ctx context.Context, userID, itemID int64) error {
	ctx, cancel := i.timeouts.bound(ctx)
	defer cancel()

	if err := i.items.DeleteItem(ctx, userID, itemID); err != nil {
		return storageErr("delete item", err)
	}
	return nil
}

// MarkPurchased flags an item as purchased. Marking twice is not an error.
func (i *Items) MarkPurchased(ctx context.Context, userID, itemID int64) (models.Item, error) {
	ctx, cancel := i.timeouts.bound(ctx)
	defer cancel()

	item, err := i.items.MarkPurchased(ctx, userID, itemID)
	if err != nil {
		return models.Item{}, storageErr("mark purchased", err)
	}
	return item, nil
}
