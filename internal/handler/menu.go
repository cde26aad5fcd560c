package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/service"
)

// MenuServicer defines the service methods needed by menu handlers.
// Satisfied by *service.MenuService; narrow interface for testability.
type MenuServicer interface {
	ListItems(ctx context.Context) ([]database.ListMenuItemsRow, error)
	ListCategories(ctx context.Context) ([]database.MenuCategory, error)
	GetItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	AddItem(ctx context.Context, in service.MenuItemInput) (database.MenuItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, in service.MenuItemInput) (database.MenuItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	SetAvailability(ctx context.Context, id uuid.UUID, available *bool) (database.MenuItem, error)
}

// MenuHandler handles menu catalog endpoints.
type MenuHandler struct {
	svc    MenuServicer
	logger *zap.Logger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(svc MenuServicer, logger *zap.Logger) *MenuHandler {
	return &MenuHandler{svc: svc, logger: orNop(logger)}
}

// RegisterRoutes registers every menu endpoint. Expected to be mounted at /menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	h.ReadRoutes(r)
	h.WriteRoutes(r)
}

// ReadRoutes registers the catalog reads.
func (h *MenuHandler) ReadRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/categories", h.ListCategories)
	r.Get("/{id}", h.Get)
}

// WriteRoutes registers the catalog mutations.
func (h *MenuHandler) WriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/availability", h.SetAvailability)
}

// --- Request / Response types ---

type menuItemRequest struct {
	CategoryID      string  `json:"category_id"`
	Name            string  `json:"name"`
	RegularPrice    string  `json:"regular_price"`
	JainPrice       *string `json:"jain_price"`
	PrepTimeMinutes *int32  `json:"prep_time_minutes"`
	DisplayOrder    int32   `json:"display_order"`
	IsAvailable     *bool   `json:"is_available"`
}

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

type menuItemResponse struct {
	ID              uuid.UUID `json:"id"`
	CategoryID      uuid.UUID `json:"category_id"`
	CategoryName    string    `json:"category_name,omitempty"`
	Name            string    `json:"name"`
	RegularPrice    string    `json:"regular_price"`
	JainPrice       *string   `json:"jain_price"`
	PrepTimeMinutes int32     `json:"prep_time_minutes"`
	DisplayOrder    int32     `json:"display_order"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type categoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int32     `json:"display_order"`
}

func toMenuItemResponse(m database.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:              m.ID,
		CategoryID:      m.CategoryID,
		Name:            m.Name,
		RegularPrice:    numericToString(m.RegularPrice),
		JainPrice:       optionalNumericString(m.JainPrice),
		PrepTimeMinutes: m.PrepTimeMinutes,
		DisplayOrder:    m.DisplayOrder,
		IsAvailable:     m.IsAvailable,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// toMenuItemInput parses the string prices of a request.
func toMenuItemInput(req menuItemRequest) (service.MenuItemInput, string) {
	in := service.MenuItemInput{
		Name:            req.Name,
		PrepTimeMinutes: req.PrepTimeMinutes,
		DisplayOrder:    req.DisplayOrder,
		IsAvailable:     req.IsAvailable,
	}

	if req.CategoryID == "" {
		return in, "category_id is required"
	}
	catID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return in, "invalid category_id"
	}
	in.CategoryID = catID

	if req.RegularPrice == "" {
		return in, "regular_price is required"
	}
	price, err := decimal.NewFromString(req.RegularPrice)
	if err != nil {
		return in, "invalid regular_price"
	}
	in.RegularPrice = price

	if req.JainPrice != nil && *req.JainPrice != "" {
		jain, err := decimal.NewFromString(*req.JainPrice)
		if err != nil {
			return in, "invalid jain_price"
		}
		in.JainPrice = &jain
	}
	return in, ""
}

// --- Handlers ---

// List handles GET /menu.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListItems(r.Context())
	if err != nil {
		writeError(w, h.logger, "list menu items", err)
		return
	}

	resp := make([]menuItemResponse, len(rows))
	for i, row := range rows {
		resp[i] = menuItemResponse{
			ID:              row.ID,
			CategoryID:      row.CategoryID,
			CategoryName:    row.CategoryName,
			Name:            row.Name,
			RegularPrice:    numericToString(row.RegularPrice),
			JainPrice:       optionalNumericString(row.JainPrice),
			PrepTimeMinutes: row.PrepTimeMinutes,
			DisplayOrder:    row.DisplayOrder,
			IsAvailable:     row.IsAvailable,
			CreatedAt:       row.CreatedAt,
			UpdatedAt:       row.UpdatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCategories handles GET /menu/categories.
func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, h.logger, "list menu categories", err)
		return
	}

	resp := make([]categoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = categoryResponse{ID: c.ID, Name: c.Name, DisplayOrder: c.DisplayOrder}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /menu/{id}.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	itemID, ok := urlID(w, r, "id", "menu item")
	if !ok {
		return
	}

	item, err := h.svc.GetItem(r.Context(), itemID)
	if err != nil {
		writeError(w, h.logger, "get menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// Create handles POST /menu.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	in, msg := toMenuItemInput(req)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	item, err := h.svc.AddItem(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, "create menu item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

// Update handles PUT /menu/{id}.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, ok := urlID(w, r, "id", "menu item")
	if !ok {
		return
	}

	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	in, msg := toMenuItemInput(req)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	item, err := h.svc.UpdateItem(r.Context(), itemID, in)
	if err != nil {
		writeError(w, h.logger, "update menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// Delete handles DELETE /menu/{id}.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, ok := urlID(w, r, "id", "menu item")
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(r.Context(), itemID); err != nil {
		writeError(w, h.logger, "delete menu item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetAvailability handles PATCH /menu/{id}/availability.
func (h *MenuHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	itemID, ok := urlID(w, r, "id", "menu item")
	if !ok {
		return
	}

	var req availabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	item, err := h.svc.SetAvailability(r.Context(), itemID, req.IsAvailable)
	if err != nil {
		writeError(w, h.logger, "set menu item availability", err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}
