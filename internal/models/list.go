package models

import "time"

// List is a shopping list owned by exactly one user.
type List struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Deadline  *Date     `json:"deadline"`
	Notes     string    `json:"notes"`
	Pinned    bool      `json:"pinned"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a purchasable entry belonging to a single list.
type Item struct {
	ID          int64     `json:"id"`
	ListID      int64     `json:"list_id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	IsPurchased bool      `json:"is_purchased"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
