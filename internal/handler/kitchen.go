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

// KitchenServicer defines the service methods needed by kitchen handlers.
// Satisfied by *service.KitchenService.
type KitchenServicer interface {
	PendingItems(ctx context.Context) ([]database.ListPendingKitchenItemsRow, error)
	ServeItem(ctx context.Context, queueID, orderItemID uuid.UUID) (*service.ServeResult, error)
	ServeParcel(ctx context.Context, orderID uuid.UUID, pairs []service.ServePair) (database.Order, error)
}

// KitchenHandler handles the kitchen display endpoints.
type KitchenHandler struct {
	svc    KitchenServicer
	logger *zap.Logger
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(svc KitchenServicer, logger *zap.Logger) *KitchenHandler {
	return &KitchenHandler{svc: svc, logger: orNop(logger)}
}

// RegisterRoutes registers kitchen endpoints. Expected to be mounted at /kitchen.
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/queue", h.Queue)
	r.Patch("/serve-item", h.ServeItem)
	r.Post("/serve-parcel", h.ServeParcel)
}

// --- Request / Response types ---

type servePairRequest struct {
	QueueID     string `json:"queue_id"`
	OrderItemID string `json:"order_item_id"`
}

type serveParcelRequest struct {
	OrderID string             `json:"order_id"`
	Items   []servePairRequest `json:"items"`
}

type kitchenQueueResponse struct {
	QueueID     uuid.UUID `json:"queue_id"`
	OrderID     uuid.UUID `json:"order_id"`
	OrderItemID uuid.UUID `json:"order_item_id"`
	MenuItemID  uuid.UUID `json:"menu_item_id"`
	ItemName    string    `json:"item_name"`
	Quantity    int32     `json:"quantity"`
	Status      string    `json:"status"`
	OrderNumber string    `json:"order_number"`
	OrderType   string    `json:"order_type"`
	TableNumber *int32    `json:"table_number"`
	CreatedAt   time.Time `json:"created_at"`
}

type serveItemResponse struct {
	Outcome   string             `json:"outcome"`
	Remaining int32              `json:"remaining"`
	OrderID   *uuid.UUID         `json:"order_id,omitempty"`
	Item      *orderItemResponse `json:"item,omitempty"`
}

func parseServePair(p servePairRequest) (service.ServePair, string) {
	queueID, err := uuid.Parse(p.QueueID)
	if err != nil {
		return service.ServePair{}, "invalid queue_id"
	}
	itemID, err := uuid.Parse(p.OrderItemID)
	if err != nil {
		return service.ServePair{}, "invalid order_item_id"
	}
	return service.ServePair{QueueID: queueID, OrderItemID: itemID}, ""
}

// --- Handlers ---

// Queue handles GET /kitchen/queue.
func (h *KitchenHandler) Queue(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.PendingItems(r.Context())
	if err != nil {
		writeError(w, h.logger, "list kitchen queue", err)
		return
	}

	resp := make([]kitchenQueueResponse, len(rows))
	for i, row := range rows {
		resp[i] = kitchenQueueResponse{
			QueueID:     row.QueueID,
			OrderID:     row.OrderID,
			OrderItemID: row.OrderItemID,
			MenuItemID:  row.MenuItemID,
			ItemName:    row.ItemName,
			Quantity:    row.Quantity,
			Status:      string(row.Status),
			OrderNumber: row.OrderNumber,
			OrderType:   string(row.OrderType),
			TableNumber: int4Ptr(row.TableNumber),
			CreatedAt:   row.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ServeItem handles PATCH /kitchen/serve-item. Serving an entry that is
// already gone answers 200 with outcome "already_served".
func (h *KitchenHandler) ServeItem(w http.ResponseWriter, r *http.Request) {
	var req servePairRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	pair, msg := parseServePair(req)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	res, err := h.svc.ServeItem(r.Context(), pair.QueueID, pair.OrderItemID)
	if err != nil {
		writeError(w, h.logger, "serve item", err)
		return
	}

	resp := serveItemResponse{Outcome: res.Outcome, Remaining: res.Remaining}
	if res.Item != nil {
		item := toOrderItemResponse(*res.Item)
		resp.Item = &item
		resp.OrderID = &res.OrderID
	}
	writeJSON(w, http.StatusOK, resp)
}

// ServeParcel handles POST /kitchen/serve-parcel.
func (h *KitchenHandler) ServeParcel(w http.ResponseWriter, r *http.Request) {
	var req serveParcelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order_id"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}

	pairs := make([]service.ServePair, len(req.Items))
	for i, p := range req.Items {
		pair, msg := parseServePair(p)
		if msg != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": formatItemError(i, msg)})
			return
		}
		pairs[i] = pair
	}

	order, err := h.svc.ServeParcel(r.Context(), orderID, pairs)
	if err != nil {
		writeError(w, h.logger, "serve parcel", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
