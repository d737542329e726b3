package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hongminglow/shoptrack-be/internal/http/respond"
	"github.com/hongminglow/shoptrack-be/internal/middleware"
	"github.com/hongminglow/shoptrack-be/internal/models/dto"
	"github.com/hongminglow/shoptrack-be/internal/service"
)

// ItemHandler serves /items/{itemID}.
type ItemHandler struct {
	items *service.Items
	log   zerolog.Logger
}

// NewItemHandler creates the item endpoint handler.
func NewItemHandler(items *service.Items, log zerolog.Logger) *ItemHandler {
	return &ItemHandler{items: items, log: log}
}

// Register attaches item routes. They must sit behind middleware.Authenticate.
func (h *ItemHandler) Register(r chi.Router) {
	r.Route("/items/{itemID}", func(r chi.Router) {
		r.Delete("/", h.handleDelete)
		r.Patch("/purchase", h.handlePurchase)
	})
}

func (h *ItemHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemID")
	if !ok {
		respond.Error(w, r, http.StatusBadRequest, "invalid item id")
		return
	}
	if err := h.items.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), itemID); err != nil {
		writeServiceError(w, r, h.log, err, "failed to delete item")
		return
	}
	respond.JSON(w, r, http.StatusOK, "item deleted", dto.ItemAction{ItemID: itemID})
}

func (h *ItemHandler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemID")
	if !ok {
		respond.Error(w, r, http.StatusBadRequest, "invalid item id")
		return
	}
	item, err := h.items.MarkPurchased(r.Context(), middleware.UserIDFromContext(r.Context()), itemID)
	if err != nil {
		writeServiceError(w, r, h.log, err, "failed to update item")
		return
	}
	respond.JSON(w, r, http.StatusOK, "item marked as purchased", item)
}
