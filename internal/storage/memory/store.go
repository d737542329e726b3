// Package memory is a process-local storage.Store used by tests and by
// STORAGE_DRIVER=memory for local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hongminglow/shoptrack-be/internal/models"
	"github.com/hongminglow/shoptrack-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps users, lists and items in maps guarded by a single lock.
type Store struct {
	mu sync.RWMutex

	users map[int64]models.User
	lists map[int64]models.List
	items map[int64]models.Item

	nextUserID int64
	nextListID int64
	nextItemID int64

	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users: make(map[int64]models.User),
		lists: make(map[int64]models.List),
		items: make(map[int64]models.Item),
		now:   time.Now,
	}
}

// Ping reports only whether ctx is still live.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close() {}

// CreateUser assigns an id and rejects a name or email already in use,
// ignoring case.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Name, user.Name) || strings.EqualFold(u.Email, user.Email) {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = s.now().UTC()
	s.users[user.ID] = user
	return user, nil
}

// FindByName matches name case-insensitively.
func (s *Store) FindByName(ctx context.Context, name string) (models.User, error) {
	return s.findUser(ctx, func(u models.User) bool { return strings.EqualFold(u.Name, name) })
}

// FindByEmail matches email case-insensitively.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

// FindByNameOrEmail returns the lowest-id user whose name or email matches
// identifier, ignoring case.
func (s *Store) FindByNameOrEmail(ctx context.Context, identifier string) (models.User, error) {
	return s.findUser(ctx, func(u models.User) bool {
		return strings.EqualFold(u.Name, identifier) || strings.EqualFold(u.Email, identifier)
	})
}

func (s *Store) findUser(ctx context.Context, match func(models.User) bool) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	// lowest id first, like a primary-key scan
	var found *models.User
	for _, u := range s.users {
		if match(u) && (found == nil || u.ID < found.ID) {
			u := u
			found = &u
		}
	}
	if found == nil {
		return models.User{}, storage.ErrNotFound
	}
	return *found, nil
}

// CreateList stores a list for an existing owner.
func (s *Store) CreateList(ctx context.Context, list models.List) (models.List, error) {
	if err := ctx.Err(); err != nil {
		return models.List{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[list.UserID]; !ok {
		return models.List{}, storage.ErrNotFound
	}
	s.nextListID++
	now := s.now().UTC()
	list.ID = s.nextListID
	list.CreatedAt = now
	list.UpdatedAt = now
	s.lists[list.ID] = list
	return list, nil
}

// ListsByOwner returns the owner's lists ordered by id.
func (s *Store) ListsByOwner(ctx context.Context, ownerID int64) ([]models.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.List, 0)
	for _, l := range s.lists {
		if l.UserID == ownerID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetOwnedList returns ErrNotFound unless ownerID owns the list.
func (s *Store) GetOwnedList(ctx context.Context, ownerID, listID int64) (models.List, error) {
	if err := ctx.Err(); err != nil {
		return models.List{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[listID]
	if !ok || l.UserID != ownerID {
		return models.List{}, storage.ErrNotFound
	}
	return l, nil
}

// SetPinned updates the pinned flag of an owned list.
func (s *Store) SetPinned(ctx context.Context, ownerID, listID int64, pinned bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[listID]
	if !ok || l.UserID != ownerID {
		return storage.ErrNotFound
	}
	l.Pinned = pinned
	l.UpdatedAt = s.now().UTC()
	s.lists[listID] = l
	return nil
}

// DeleteList drops an owned list and its items under one lock.
func (s *Store) DeleteList(ctx context.Context, ownerID, listID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[listID]
	if !ok || l.UserID != ownerID {
		return storage.ErrNotFound
	}
	for id, it := range s.items {
		if it.ListID == listID {
			delete(s.items, id)
		}
	}
	delete(s.lists, listID)
	return nil
}

// CreateItem adds an unpurchased item to an owned list.
func (s *Store) CreateItem(ctx context.Context, ownerID int64, item models.Item) (models.Item, error) {
	if err := ctx.Err(); err != nil {
		return models.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[item.ListID]
	if !ok || l.UserID != ownerID {
		return models.Item{}, storage.ErrNotFound
	}
	s.nextItemID++
	now := s.now().UTC()
	item.ID = s.nextItemID
	item.IsPurchased = false
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items[item.ID] = item
	return item, nil
}

// ItemsByList returns a list's items ordered by id.
func (s *Store) ItemsByList(ctx context.Context, listID int64) ([]models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Item, 0)
	for _, it := range s.items {
		if it.ListID == listID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteItem removes an item whose parent list belongs to ownerID.
func (s *Store) DeleteItem(ctx context.Context, ownerID, itemID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ownsItemLocked(ownerID, itemID) {
		return storage.ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}

// MarkPurchased flags an owned item as purchased.
func (s *Store) MarkPurchased(ctx context.Context, ownerID, itemID int64) (models.Item, error) {
	if err := ctx.Err(); err != nil {
		return models.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ownsItemLocked(ownerID, itemID) {
		return models.Item{}, storage.ErrNotFound
	}
	it := s.items[itemID]
	it.IsPurchased = true
	it.UpdatedAt = s.now().UTC()
	s.items[itemID] = it
	return it, nil
}

func (s *Store) ownsItemLocked(ownerID, itemID int64) bool {
	it, ok := s.items[itemID]
	if !ok {
		return false
	}
	l, ok := s.lists[it.ListID]
	return ok && l.UserID == ownerID
}
