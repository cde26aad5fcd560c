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

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderDetail, error)
	AddItemsToOrder(ctx context.Context, orderID uuid.UUID, items []service.OrderItemInput) (*service.OrderDetail, error)
	UpdateOrderItemStatus(ctx context.Context, orderItemID uuid.UUID, status string) (database.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (database.Order, error)
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*service.OrderDetail, error)
	ListOrders(ctx context.Context, status, orderType string) ([]service.OrderDetail, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc    OrderServicer
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, logger: orNop(logger)}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/items/{itemId}/status", h.UpdateItemStatus)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/items", h.AddItems)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type orderItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int32  `json:"quantity"`
}

type createOrderRequest struct {
	OrderType string             `json:"order_type"`
	TableID   *string            `json:"table_id"`
	Items     []orderItemRequest `json:"items"`
}

type addItemsRequest struct {
	Items []orderItemRequest `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	OrderType      string              `json:"order_type"`
	TableID        *uuid.UUID          `json:"table_id"`
	TableNumber    *int32              `json:"table_number"`
	Status         string              `json:"status"`
	Subtotal       string              `json:"subtotal"`
	TaxAmount      string              `json:"tax_amount"`
	DiscountAmount string              `json:"discount_amount"`
	FinalAmount    string              `json:"final_amount"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Items          []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"order_id"`
	MenuItemID     uuid.UUID `json:"menu_item_id"`
	ItemName       string    `json:"item_name"`
	UnitPrice      string    `json:"unit_price"`
	Quantity       int32     `json:"quantity"`
	TotalPrice     string    `json:"total_price"`
	ServedQuantity int32     `json:"served_quantity"`
	Status         string    `json:"status"`
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		OrderType:      string(o.OrderType),
		TableID:        uuidPtr(o.TableID),
		Status:         string(o.Status),
		Subtotal:       numericToString(o.Subtotal),
		TaxAmount:      numericToString(o.TaxAmount),
		DiscountAmount: numericToString(o.DiscountAmount),
		FinalAmount:    numericToString(o.FinalAmount),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func toOrderDetailResponse(d *service.OrderDetail) orderResponse {
	resp := toOrderResponse(d.Order)
	resp.TableNumber = int4Ptr(d.TableNumber)
	resp.Items = make([]orderItemResponse, len(d.Items))
	for i, item := range d.Items {
		resp.Items[i] = toOrderItemResponse(item)
	}
	return resp
}

func toOrderItemResponse(item database.OrderItem) orderItemResponse {
	return orderItemResponse{
		ID:             item.ID,
		OrderID:        item.OrderID,
		MenuItemID:     item.MenuItemID,
		ItemName:       item.ItemName,
		UnitPrice:      numericToString(item.UnitPrice),
		Quantity:       item.Quantity,
		TotalPrice:     numericToString(item.TotalPrice),
		ServedQuantity: item.ServedQuantity,
		Status:         string(item.Status),
	}
}

// parseItems converts request lines into service inputs. Quantities are
// checked by the service.
func parseItems(items []orderItemRequest) ([]service.OrderItemInput, string) {
	out := make([]service.OrderItemInput, len(items))
	for i, item := range items {
		if item.MenuItemID == "" {
			return nil, formatItemError(i, "menu_item_id is required")
		}
		id, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, formatItemError(i, "invalid menu_item_id")
		}
		out[i] = service.OrderItemInput{MenuItemID: id, Quantity: item.Quantity}
	}
	return out, ""
}

// --- Handlers ---

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.OrderType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_type is required"})
		return
	}

	svcReq := service.CreateOrderRequest{OrderType: req.OrderType}
	if req.TableID != nil && *req.TableID != "" {
		tableID, err := uuid.Parse(*req.TableID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table_id"})
			return
		}
		svcReq.TableID = &tableID
	}

	items, msg := parseItems(req.Items)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	svcReq.Items = items

	detail, err := h.svc.CreateOrder(r.Context(), svcReq)
	if err != nil {
		writeError(w, h.logger, "create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderDetailResponse(detail))
}

// List handles GET /orders?status=&type=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	details, err := h.svc.ListOrders(r.Context(), q.Get("status"), q.Get("type"))
	if err != nil {
		writeError(w, h.logger, "list orders", err)
		return
	}

	resp := make([]orderResponse, len(details))
	for i := range details {
		resp[i] = toOrderDetailResponse(&details[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, ok := urlID(w, r, "id", "order")
	if !ok {
		return
	}

	detail, err := h.svc.GetOrderByID(r.Context(), orderID)
	if err != nil {
		writeError(w, h.logger, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

// AddItems handles POST /orders/{id}/items.
func (h *OrderHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	orderID, ok := urlID(w, r, "id", "order")
	if !ok {
		return
	}

	var req addItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}

	items, msg := parseItems(req.Items)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	detail, err := h.svc.AddItemsToOrder(r.Context(), orderID, items)
	if err != nil {
		writeError(w, h.logger, "add order items", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := urlID(w, r, "id", "order")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	order, err := h.svc.UpdateOrderStatus(r.Context(), orderID, req.Status)
	if err != nil {
		writeError(w, h.logger, "update order status", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// UpdateItemStatus handles PATCH /orders/items/{itemId}/status.
func (h *OrderHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	itemID, ok := urlID(w, r, "itemId", "order item")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	item, err := h.svc.UpdateOrderItemStatus(r.Context(), itemID, req.Status)
	if err != nil {
		writeError(w, h.logger, "update order item status", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderItemResponse(item))
}
