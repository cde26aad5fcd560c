package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/metrics"
	"github.com/counterpos/api/internal/notify"
)

// Serve outcomes.
const (
	OutcomeServed        = "served"
	OutcomeAlreadyServed = "already_served"
)

// KitchenStore defines the DB methods needed by the kitchen queue.
type KitchenStore interface {
	ListPendingKitchenItems(ctx context.Context) ([]database.ListPendingKitchenItemsRow, error)
	GetKitchenQueueEntryForUpdate(ctx context.Context, id uuid.UUID) (database.KitchenQueue, error)
	DecrementKitchenQueueEntry(ctx context.Context, id uuid.UUID) (database.KitchenQueue, error)
	DeleteKitchenQueueEntry(ctx context.Context, id uuid.UUID) (int64, error)
	MarkOrderItemServed(ctx context.Context, id uuid.UUID) (database.OrderItem, error)
}

// NewKitchenStore creates a KitchenStore from a DBTX (pool or tx).
type NewKitchenStore func(db database.DBTX) KitchenStore

// OrderStatusUpdater moves an order to a new status. Satisfied by
// *OrderService.
type OrderStatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (database.Order, error)
}

// ServePair identifies one unit to serve: a queue entry and the order line
// it belongs to.
type ServePair struct {
	QueueID     uuid.UUID
	OrderItemID uuid.UUID
}

// ServeResult reports what a serve request did. Remaining is the quantity
// still queued on the entry; OrderID and Item are zero when the entry was
// already gone.
type ServeResult struct {
	Outcome   string
	Remaining int32
	OrderID   uuid.UUID
	Item      *database.OrderItem
}

// KitchenService manages the kitchen queue.
type KitchenService struct {
	db       DB
	newStore NewKitchenStore
	orders   OrderStatusUpdater
	notifier notify.Notifier
	metrics  *metrics.Metrics
}

// NewKitchenService creates a new KitchenService.
func NewKitchenService(db DB, newStore NewKitchenStore, orders OrderStatusUpdater, notifier notify.Notifier, m *metrics.Metrics) *KitchenService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &KitchenService{db: db, newStore: newStore, orders: orders, notifier: notifier, metrics: m}
}

// PendingItems lists queued entries oldest first.
func (s *KitchenService) PendingItems(ctx context.Context) ([]database.ListPendingKitchenItemsRow, error) {
	rows, err := s.newStore(s.db).ListPendingKitchenItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list kitchen queue: %w", err)
	}
	return rows, nil
}

// ServeItem serves one unit of a queue entry. Serving an entry that no
// longer exists succeeds with OutcomeAlreadyServed, so a double tap from two
// kitchen screens is harmless.
//
// The order line is marked SERVED on its first served unit; ServedQuantity
// tracks how many units actually left the kitchen.
func (s *KitchenService) ServeItem(ctx context.Context, queueID, orderItemID uuid.UUID) (*ServeResult, error) {
	return s.serve(ctx, queueID, orderItemID, uuid.Nil)
}

// serve is ServeItem restricted to entries of parentID, unless parentID is
// uuid.Nil.
func (s *KitchenService) serve(ctx context.Context, queueID, orderItemID, parentID uuid.UUID) (*ServeResult, error) {
	result := &ServeResult{Outcome: OutcomeServed}

	err := runInTx(ctx, s.db, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		entry, err := store.GetKitchenQueueEntryForUpdate(ctx, queueID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				result.Outcome = OutcomeAlreadyServed
				return nil
			}
			return fmt.Errorf("lock queue entry: %w", err)
		}
		if err := checkEntry(entry, orderItemID, parentID); err != nil {
			return err
		}
		result.OrderID = entry.OrderID

		if entry.Quantity > 1 {
			updated, err := store.DecrementKitchenQueueEntry(ctx, entry.ID)
			if err != nil {
				return fmt.Errorf("decrement queue entry: %w", err)
			}
			result.Remaining = updated.Quantity
		} else {
			if _, err := store.DeleteKitchenQueueEntry(ctx, entry.ID); err != nil {
				return fmt.Errorf("delete queue entry: %w", err)
			}
		}

		item, err := store.MarkOrderItemServed(ctx, orderItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderItemNotFound
			}
			return fmt.Errorf("mark item served: %w", err)
		}
		result.Item = &item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ItemServed(result.Outcome)
	if result.Outcome == OutcomeServed {
		s.notifier.Notify(ctx, notify.EventKitchenQueueUpdated, notify.KitchenChanged{
			Action:    notify.ActionServe,
			OrderID:   result.OrderID,
			QueueID:   &queueID,
			Remaining: result.Remaining,
		})
		s.notifier.Notify(ctx, notify.EventOrderItemStatus, orderItemChanged(*result.Item))
	}
	return result, nil
}

// ServeParcel serves each pair in its own transaction, in order, and then
// marks the order READY. Every pair is first checked against orderID, so a
// pair from another order fails the call before anything is served. After
// that it stops at the first failing pair; pairs served before it stay
// served.
func (s *KitchenService) ServeParcel(ctx context.Context, orderID uuid.UUID, pairs []ServePair) (database.Order, error) {
	if len(pairs) == 0 {
		return database.Order{}, ErrEmptyItems
	}

	err := runInTx(ctx, s.db, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		for i, p := range pairs {
			entry, err := store.GetKitchenQueueEntryForUpdate(ctx, p.QueueID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					// Already served; serve reports it as such.
					continue
				}
				return fmt.Errorf("items[%d]: lock queue entry: %w", i, err)
			}
			if err := checkEntry(entry, p.OrderItemID, orderID); err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return database.Order{}, err
	}

	for i, p := range pairs {
		if _, err := s.serve(ctx, p.QueueID, p.OrderItemID, orderID); err != nil {
			return database.Order{}, fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return s.orders.UpdateOrderStatus(ctx, orderID, string(database.OrderStatusREADY))
}

func checkEntry(entry database.KitchenQueue, orderItemID, parentID uuid.UUID) error {
	if entry.OrderItemID != orderItemID {
		return ErrQueueEntryItemMismatch
	}
	if parentID != uuid.Nil && entry.OrderID != parentID {
		return ErrQueueEntryOrderMismatch
	}
	return nil
}
