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

// BillServicer defines the service methods needed by bill handlers.
// Satisfied by *service.BillService; narrow interface for testability.
type BillServicer interface {
	GenerateBill(ctx context.Context, orderID uuid.UUID) (database.Bill, error)
	UpdateBillStatus(ctx context.Context, billID uuid.UUID, status string) (database.Bill, error)
	ListBills(ctx context.Context) ([]database.ListBillsRow, error)
	BillsWithItems(ctx context.Context) ([]service.BillWithItems, error)
}

// BillHandler handles bill endpoints.
type BillHandler struct {
	svc    BillServicer
	logger *zap.Logger
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(svc BillServicer, logger *zap.Logger) *BillHandler {
	return &BillHandler{svc: svc, logger: orNop(logger)}
}

// RegisterRoutes registers bill endpoints. Expected to be mounted at /bills.
func (h *BillHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/with-items", h.ListWithItems)
	r.Post("/generate", h.Generate)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type generateBillRequest struct {
	OrderID string `json:"order_id"`
}

type updateBillStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

type billResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderID        uuid.UUID           `json:"order_id"`
	BillNumber     string              `json:"bill_number"`
	Subtotal       string              `json:"subtotal"`
	TaxRate        string              `json:"tax_rate"`
	TaxAmount      string              `json:"tax_amount"`
	DiscountAmount string              `json:"discount_amount"`
	TotalAmount    string              `json:"total_amount"`
	PaymentStatus  string              `json:"payment_status"`
	OrderNumber    string              `json:"order_number,omitempty"`
	OrderType      string              `json:"order_type,omitempty"`
	TableNumber    *int32              `json:"table_number,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Items          []orderItemResponse `json:"items,omitempty"`
}

func toBillResponse(b database.Bill) billResponse {
	return billResponse{
		ID:             b.ID,
		OrderID:        b.OrderID,
		BillNumber:     b.BillNumber,
		Subtotal:       numericToString(b.Subtotal),
		TaxRate:        numericToString(b.TaxRate),
		TaxAmount:      numericToString(b.TaxAmount),
		DiscountAmount: numericToString(b.DiscountAmount),
		TotalAmount:    numericToString(b.TotalAmount),
		PaymentStatus:  string(b.PaymentStatus),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toBillRowResponse(row database.ListBillsRow) billResponse {
	return billResponse{
		ID:             row.ID,
		OrderID:        row.OrderID,
		BillNumber:     row.BillNumber,
		Subtotal:       numericToString(row.Subtotal),
		TaxRate:        numericToString(row.TaxRate),
		TaxAmount:      numericToString(row.TaxAmount),
		DiscountAmount: numericToString(row.DiscountAmount),
		TotalAmount:    numericToString(row.TotalAmount),
		PaymentStatus:  string(row.PaymentStatus),
		OrderNumber:    row.OrderNumber,
		OrderType:      string(row.OrderType),
		TableNumber:    int4Ptr(row.TableNumber),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

// --- Handlers ---

// List handles GET /bills.
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListBills(r.Context())
	if err != nil {
		writeError(w, h.logger, "list bills", err)
		return
	}

	resp := make([]billResponse, len(rows))
	for i, row := range rows {
		resp[i] = toBillRowResponse(row)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListWithItems handles GET /bills/with-items.
func (h *BillHandler) ListWithItems(w http.ResponseWriter, r *http.Request) {
	bills, err := h.svc.BillsWithItems(r.Context())
	if err != nil {
		writeError(w, h.logger, "list bills with items", err)
		return
	}

	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toBillRowResponse(b.Bill)
		resp[i].Items = make([]orderItemResponse, len(b.Items))
		for j, item := range b.Items {
			resp[i].Items[j] = toOrderItemResponse(item)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Generate handles POST /bills/generate.
func (h *BillHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order_id"})
		return
	}

	bill, err := h.svc.GenerateBill(r.Context(), orderID)
	if err != nil {
		writeError(w, h.logger, "generate bill", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBillResponse(bill))
}

// UpdateStatus handles PATCH /bills/{id}/status.
func (h *BillHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	billID, ok := urlID(w, r, "id", "bill")
	if !ok {
		return
	}

	var req updateBillStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.PaymentStatus == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_status is required"})
		return
	}

	bill, err := h.svc.UpdateBillStatus(r.Context(), billID, req.PaymentStatus)
	if err != nil {
		writeError(w, h.logger, "update bill status", err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(bill))
}
