package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hongminglow/shoptrack-be/internal/auth"
	"github.com/hongminglow/shoptrack-be/internal/http/respond"
	"github.com/hongminglow/shoptrack-be/internal/middleware"
	"github.com/hongminglow/shoptrack-be/internal/models/dto"
	"github.com/hongminglow/shoptrack-be/internal/service"
)

// AuthHandler owns the register, login and logout endpoints.
type AuthHandler struct {
	accounts *service.Accounts
	denylist auth.Denylist
	log      zerolog.Logger
}

// NewAuthHandler constructs the handler. A nil denylist makes logout client-side only.
func NewAuthHandler(accounts *service.Accounts, denylist auth.Denylist, log zerolog.Logger) *AuthHandler {
	if denylist == nil {
		denylist = auth.NopDenylist{}
	}
	return &AuthHandler{accounts: accounts, denylist: denylist, log: log}
}

// Register attaches the public auth routes.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
}

// RegisterProtected attaches auth routes that need a verified caller.
func (h *AuthHandler) RegisterProtected(r chi.Router) {
	r.Post("/logout", h.handleLogout)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	id, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.log, err, "failed to create user")
		return
	}
	h.log.Info().Int64("user_id", id).Msg("user registered")
	respond.JSON(w, r, http.StatusCreated, "user created successfully", dto.RegisterResponse{ID: id})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	token, err := h.accounts.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respond.Error(w, r, http.StatusBadRequest, "user not found")
		case errors.Is(err, service.ErrInvalidCredential):
			respond.Error(w, r, http.StatusBadRequest, "incorrect password")
		default:
			writeServiceError(w, r, h.log, err, "failed to log in")
		}
		return
	}
	respond.JSON(w, r, http.StatusOK, "login successful", dto.LoginResponse{Token: token})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "authorization required")
		return
	}
	until := time.Now().Add(time.Minute)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := h.denylist.Revoke(r.Context(), claims.ID, until); err != nil {
		h.log.Error().Err(err).Msg("revoke token")
		respond.Error(w, r, http.StatusServiceUnavailable, "failed to log out")
		return
	}
	respond.JSON(w, r, http.StatusOK, "logged out", nil)
}
