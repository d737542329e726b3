package dto

// CreateListRequest is the body of POST /lists. Deadline is YYYY-MM-DD; an
// empty string means no deadline.
type CreateListRequest struct {
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
	Notes    string `json:"notes"`
}

// CreateItemRequest is the body of POST /lists/{id}/items. Quantity is a
// pointer so a missing field can be told apart from an explicit value.
type CreateItemRequest struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity"`
}

// ListAction acknowledges a mutation on a list.
type ListAction struct {
	ListID int64 `json:"list_id"`
}

// ItemAction acknowledges a mutation on an item.
type ItemAction struct {
	ItemID int64 `json:"item_id"`
}
