package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/service"
)

// TableServicer defines the service methods needed by table handlers.
// Satisfied by *service.TableService; narrow interface for testability.
type TableServicer interface {
	ListTables(ctx context.Context) ([]database.ListTablesRow, error)
	AddTable(ctx context.Context, in service.TableInput) (database.DiningTable, error)
	UpdateTable(ctx context.Context, id uuid.UUID, in service.TableInput) (database.DiningTable, error)
	DeleteTable(ctx context.Context, id uuid.UUID) error
}

// TableHandler handles dining table endpoints.
type TableHandler struct {
	svc    TableServicer
	logger *zap.Logger
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(svc TableServicer, logger *zap.Logger) *TableHandler {
	return &TableHandler{svc: svc, logger: orNop(logger)}
}

// RegisterRoutes registers table endpoints on the given Chi router.
// Expected to be mounted at /tables.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	h.ReadRoutes(r)
	h.WriteRoutes(r)
}

// ReadRoutes registers only the listing, for roles that may view but not
// edit the floor.
func (h *TableHandler) ReadRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// WriteRoutes registers the mutating table endpoints.
func (h *TableHandler) WriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type tableRequest struct {
	TableNumber int32  `json:"table_number"`
	Capacity    int32  `json:"capacity"`
	Status      string `json:"status"`
}

type tableResponse struct {
	ID             uuid.UUID  `json:"id"`
	TableNumber    int32      `json:"table_number"`
	Capacity       int32      `json:"capacity"`
	Status         string     `json:"status"`
	CurrentOrderID *uuid.UUID `json:"current_order_id"`
	OrderNumber    *string    `json:"order_number,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toTableResponse(t database.DiningTable) tableResponse {
	return tableResponse{
		ID:             t.ID,
		TableNumber:    t.TableNumber,
		Capacity:       t.Capacity,
		Status:         string(t.Status),
		CurrentOrderID: uuidPtr(t.CurrentOrderID),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// --- Handlers ---

// List handles GET /tables.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListTables(r.Context())
	if err != nil {
		writeError(w, h.logger, "list tables", err)
		return
	}

	resp := make([]tableResponse, len(rows))
	for i, row := range rows {
		resp[i] = tableResponse{
			ID:             row.ID,
			TableNumber:    row.TableNumber,
			Capacity:       row.Capacity,
			Status:         string(row.Status),
			CurrentOrderID: uuidPtr(row.CurrentOrderID),
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
		}
		if row.OrderNumber.Valid {
			n := row.OrderNumber.String
			resp[i].OrderNumber = &n
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /tables.
func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	table, err := h.svc.AddTable(r.Context(), service.TableInput{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, h.logger, "create table", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTableResponse(table))
}

// Update handles PUT /tables/{id}. Zero fields keep their stored values.
func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	tableID, ok := urlID(w, r, "id", "table")
	if !ok {
		return
	}

	var req tableRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	table, err := h.svc.UpdateTable(r.Context(), tableID, service.TableInput{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, h.logger, "update table", err)
		return
	}
	writeJSON(w, http.StatusOK, toTableResponse(table))
}

// Delete handles DELETE /tables/{id}.
func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tableID, ok := urlID(w, r, "id", "table")
	if !ok {
		return
	}

	if err := h.svc.DeleteTable(r.Context(), tableID); err != nil {
		writeError(w, h.logger, "delete table", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
