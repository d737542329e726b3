package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hongminglow/shoptrack-be/internal/models"
	"github.com/hongminglow/shoptrack-be/internal/storage"
)

const (
	maxTitleLen = 255
	maxNotesLen = 1000
)

// NewList carries the caller-supplied fields of a list.
type NewList struct {
	Title string
	// Deadline is YYYY-MM-DD or empty.
	Deadline string
	Notes    string
}

// Lists exposes the owner-scoped list operations.
type Lists struct {
	lists    storage.ListStore
	items    storage.ItemStore
	timeouts timeouts
}

// NewLists builds the list operations on top of the given stores.
func NewLists(lists storage.ListStore, items storage.ItemStore, storageTimeout time.Duration) *Lists {
	return &Lists{lists: lists, items: items, timeouts: newTimeouts(storageTimeout)}
}

// Create stores a new unpinned list owned by userID.
func (l *Lists) Create(ctx context.Context, userID int64, in NewList) (models.List, error) {
	list, err := buildList(userID, in)
	if err != nil {
		return models.List{}, err
	}

	ctx, cancel := l.timeouts.bound(ctx)
	defer cancel()

	created, err := l.lists.CreateList(ctx, list)
	if err != nil {
		return models.List{}, storageErr("create list", err)
	}
	return created, nil
}

// ListAll returns the caller's lists in storage order.
func (l *Lists) ListAll(ctx context.Context, userID int64) ([]models.List, error) {
	ctx, cancel := l.timeouts.bound(ctx)
	defer cancel()

	lists, err := l.lists.ListsByOwner(ctx, userID)
	if err != nil {
		return nil, storageErr("list lists", err)
	}
	if lists == nil {
		lists = []models.List{}
	}
	return lists, nil
}

// Get returns one list owned by the caller.
func (l *Lists) Get(ctx context.Context, userID, listID int64) (models.List, error) {
	ctx, cancel := l.timeouts.bound(ctx)
	defer cancel()

	list, err := l.lists.GetOwnedList(ctx, userID, listID)
	if err != nil {
		return models.List{}, storageErr("get list", err)
	}
	return list, nil
}

// Pin marks the list as pinned.
func (l *Lists) Pin(ctx context.Context, userID, listID int64) error {
	return l.setPinned(ctx, userID, listID, true)
}

// Unpin clears the pinned flag.
func (l *Lists) Unpin(ctx context.Context, userID, listID int64) error {
	return l.setPinned(ctx, userID, listID, false)
}

func (l *Lists) setPinned(ctx context.Context, userID, listID int64, pinned bool) error {
	ctx, cancel := l.timeouts.bound(ctx)
	defer cancel()

	if err := l.lists.SetPinned(ctx, userID, listID, pinned); err != nil {
		return storageErr("set pinned", err)
	}
	return nil
}

// Delete removes the list together with all of its items.
func (l *Lists) Delete(ctx context.Context, userID, listID int64) error {
	ctx, cancel := l.timeouts.bound(ctx)
	defer cancel()

	if err := l.lists.DeleteList(ctx, userID, listID); err != nil {
		return storageErr("delete list", err)
	}
	return nil
}

// ListItems returns the items of a list after confirming the caller owns it.
func (l *Lists) ListItems(ctx context.Context, userID, listID int64) ([]models.Item, error) {
	ctx, cancel := l.timeouts.bound(ctx)
	defer cancel()

	if _, err := l.lists.GetOwnedList(ctx, userID, listID); err != nil {
		return nil, storageErr("check list owner", err)
	}
	items, err := l.items.ItemsByList(ctx, listID)
	if err != nil {
		return nil, storageErr("list items", err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func buildList(userID int64, in NewList) (models.List, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.List{}, invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return models.List{}, invalid("title must be at most %d characters", maxTitleLen)
	}
	if utf8.RuneCountInString(in.Notes) > maxNotesLen {
		return models.List{}, invalid("notes must be at most %d characters", maxNotesLen)
	}

	list := models.List{Title: title, Notes: in.Notes, UserID: userID}
	if deadline := strings.TrimSpace(in.Deadline); deadline != "" {
		d, err := models.ParseDate(deadline)
		if err != nil {
			return models.List{}, invalid("deadline must be a YYYY-MM-DD date")
		}
		list.Deadline = &d
	}
	return list, nil
}
