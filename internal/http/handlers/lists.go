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

// ListHandler serves /lists and the item routes nested under a list.
type ListHandler struct {
	lists *service.Lists
	items *service.Items
	log   zerolog.Logger
}

// NewListHandler creates the list endpoint handler.
func NewListHandler(lists *service.Lists, items *service.Items, log zerolog.Logger) *ListHandler {
	return &ListHandler{lists: lists, items: items, log: log}
}

// Register attaches list routes. They must sit behind middleware.Authenticate.
func (h *ListHandler) Register(r chi.Router) {
	r.Route("/lists", func(r chi.Router) {
		r.Get("/", h.handleListAll)
		r.Post("/", h.handleCreate)
		r.Route("/{listID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Delete("/", h.handleDelete)
			r.Patch("/pin", h.handlePin)
			r.Patch("/unpin", h.handleUnpin)
			r.Get("/items", h.handleListItems)
			r.Post("/items", h.handleAddItem)
		})
	})
}

func (h *ListHandler) handleListAll(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.ListAll(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.log, err, "failed to fetch lists")
		return
	}
	respond.JSON(w, r, http.StatusOK, "ok", lists)
}

func (h *ListHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	list, err := h.lists.Create(r.Context(), middleware.UserIDFromContext(r.Context()), service.NewList{
		Title:    req.Title,
		Deadline: req.Deadline,
		Notes:    req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, h.log, err, "failed to create list")
		return
	}
	respond.JSON(w, r, http.StatusCreated, "list created", list)
}

func (h *ListHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(r, "listID")
	if !ok {
		respond.Error(w, r, http.StatusBadRequest, "invalid list id")
		return
	}
	list, err := h.lists.Get(r.Context(), middleware.UserIDFromContext(r.Context()), listID)
	if err != nil {
		writeServiceError(w, r, h.log, err, "failed to fetch list")
		return
	}
	respond.JSON(w, r, http.StatusOK, "ok", list)
}

func (h *ListHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(r, "listID")
	if !ok {
		respond.Error(w, r, http.StatusBadRequest, "invalid list id")
		return
	}
	if err := h.lists.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), listID); err != nil {
		writeServiceError(w, r, h.log, err, "failed to delete list")
		return
	}
	respond.JSON(w, r, http.StatusOK, "list and associated items deleted", dto.ListAction{ListID: listID})
}

func (h *ListHandler) handlePin(w http.ResponseWriter, r *http.Request) {
	h.setPinned(w, r, true)
}

func (h *ListHandler) handleUnpin(w http.ResponseWriter, r *http.Request) {
	h.setPinned(w, r, false)
}

func (h *ListHandler) setPinned(w http.ResponseWriter, r *http.Request, pinned bool) {
	listID, ok := pathID(r, "listID")
	if !ok {
		respond.Error(w, r, http.StatusBadRequest, "invalid list id")
		return
	}
	userID := middleware.UserIDFromContext(r.Context())
	var err error
	if pinned {
		err = h.lists.Pin(r.Context(), userID, listID)
	} else {
		err = h.lists.Unpin(r.Context(), userID, listID)
	}
	if err != nil {
		writeServiceError(w, r, h.log, err, "failed to update list")
		return
	}
	message := "list unpinned"
	if pinned {
		message = "list pinned"
	}
	respond.JSON(w, r, http.StatusOK, message, dto.ListAction{ListID: listID})
}

func (h *ListHandler) handleListItems(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(r, "listID")
	if !ok {
		respond.Error(w, r, http.StatusBadRequest, "invalid list id")
		return
	}
	items, err := h.lists.ListItems(r.Context(), middleware.UserIDFromContext(r.Context()), listID)
	if err != nil {
		writeServiceError(w, r, h.log, err, "failed to fetch list items")
		return
	}
	respond.JSON(w, r, http.StatusOK, "ok", items)
}

func (h *ListHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(r, "listID")
	if !ok {
		respond.Error(w, r, http.StatusBadRequest, "invalid list id")
		return
	}
	var req dto.CreateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	item, err := h.items.Add(r.Context(), middleware.UserIDFromContext(r.Context()), listID, req.Name, quantity)
	if err != nil {
		writeServiceError(w, r, h.log, err, "failed to add item")
		return
	}
	respond.JSON(w, r, http.StatusCreated, "item added", item)
}
