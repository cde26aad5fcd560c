package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/counterpos/api/internal/auth"
	"github.com/counterpos/api/internal/database"
)

// AuthStore defines the database methods needed by auth handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AuthStore interface {
	GetTerminalByName(ctx context.Context, name string) (database.Terminal, error)
}

// AuthHandler handles terminal login.
type AuthHandler struct {
	store     AuthStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store AuthStore, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: orNop(logger)}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// --- Request / Response types ---

type loginRequest struct {
	Terminal string `json:"terminal"`
	Pin      string `json:"pin"`
}

type tokenResponse struct {
	AccessToken string           `json:"access_token"`
	Terminal    terminalResponse `json:"terminal"`
}

type terminalResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

// --- Handlers ---

// Login authenticates a terminal by name and PIN.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Terminal = strings.TrimSpace(req.Terminal)
	if req.Terminal == "" || req.Pin == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "terminal and pin are required"})
		return
	}

	terminal, err := h.store.GetTerminalByName(r.Context(), req.Terminal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeError(w, h.logger, "get terminal", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(terminal.PinHash), []byte(req.Pin)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, terminal.ID, terminal.Name, string(terminal.Role), h.tokenTTL)
	if err != nil {
		writeError(w, h.logger, "generate token", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		Terminal: terminalResponse{
			ID:   terminal.ID,
			Name: terminal.Name,
			Role: string(terminal.Role),
		},
	})
}
