// Package notify defines the realtime events emitted after state changes
// commit, and the Notifier contract that transports implement.
//
// Events are hints: clients refresh the affected views rather than apply
// payloads as authoritative state.
package notify

import (
	"context"

	"github.com/google/uuid"
)

const (
	EventOrderCreated        = "order.created"
	EventOrderUpdated        = "order.updated"
	EventKitchenQueueUpdated = "kitchen.queue_updated"
	EventOrderItemStatus     = "order_item.status_updated"
	EventTableStatusUpdated  = "table.status_updated"
	EventBillCreated         = "bill.created"
	EventBillUpdated         = "bill.updated"
	EventTablesUpdated       = "tables.updated"
	EventMenuUpdated         = "menu.updated"
)

// Actions carried by tables.updated, menu.updated and kitchen.queue_updated.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionServe  = "serve"
)

// Notifier delivers an event to subscribers. Implementations must not block
// the caller for long and report their own delivery failures.
type Notifier interface {
	Notify(ctx context.Context, eventType string, payload any)
}

// Fanout delivers every event to each of its notifiers in order.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, eventType string, payload any) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, eventType, payload)
		}
	}
}

// Nop discards events.
type Nop struct{}

func (Nop) Notify(context.Context, string, any) {}

// OrderChanged is the payload of order.created and order.updated.
type OrderChanged struct {
	OrderID     uuid.UUID  `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	OrderType   string     `json:"order_type"`
	Status      string     `json:"status"`
	TableID     *uuid.UUID `json:"table_id,omitempty"`
	FinalAmount string     `json:"final_amount"`
}

// KitchenChanged is the payload of kitchen.queue_updated.
// Remaining is the unserved quantity left on QueueID after a serve.
type KitchenChanged struct {
	Action      string     `json:"action"`
	OrderID     uuid.UUID  `json:"order_id"`
	OrderNumber string     `json:"order_number,omitempty"`
	QueueID     *uuid.UUID `json:"queue_id,omitempty"`
	Remaining   int32      `json:"remaining"`
}

// OrderItemChanged is the payload of order_item.status_updated.
type OrderItemChanged struct {
	OrderItemID    uuid.UUID `json:"order_item_id"`
	OrderID        uuid.UUID `json:"order_id"`
	Status         string    `json:"status"`
	ServedQuantity int32     `json:"served_quantity"`
	Quantity       int32     `json:"quantity"`
}

// TableChanged is the payload of table.status_updated.
type TableChanged struct {
	TableID        uuid.UUID  `json:"table_id"`
	TableNumber    int32      `json:"table_number"`
	Status         string     `json:"status"`
	CurrentOrderID *uuid.UUID `json:"current_order_id,omitempty"`
}

// BillChanged is the payload of bill.created and bill.updated.
type BillChanged struct {
	BillID        uuid.UUID `json:"bill_id"`
	OrderID       uuid.UUID `json:"order_id"`
	BillNumber    string    `json:"bill_number"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   string    `json:"total_amount"`
}

// CatalogChanged is the payload of tables.updated and menu.updated.
type CatalogChanged struct {
	Action string    `json:"action"`
	ID     uuid.UUID `json:"id"`
	Item   any       `json:"item,omitempty"`
}
