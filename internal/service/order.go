package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/enum"
	"github.com/counterpos/api/internal/metrics"
	"github.com/counterpos/api/internal/notify"
)

var orderNumberConstraints = []string{"orders_business_date_order_seq_key", "orders_order_number_key"}

// OrderStore defines the DB methods needed by the order lifecycle.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetNextOrderSeq(ctx context.Context, businessDate pgtype.Date) (int32, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.ListOrdersRow, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	SumOrderItemTotals(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
	UpdateOrderTotals(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error)
	GetMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]database.MenuItem, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	GetOrderItem(ctx context.Context, id uuid.UUID) (database.OrderItem, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error)
	CreateKitchenQueueEntry(ctx context.Context, arg database.CreateKitchenQueueEntryParams) (database.KitchenQueue, error)
	GetTable(ctx context.Context, id uuid.UUID) (database.DiningTable, error)
	GetTableForUpdate(ctx context.Context, id uuid.UUID) (database.DiningTable, error)
	OccupyTable(ctx context.Context, arg database.OccupyTableParams) (database.DiningTable, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// OrderItemInput is one line of an order: a menu item and how many.
type OrderItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int32
}

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	OrderType string
	TableID   *uuid.UUID
	Items     []OrderItemInput
}

// OrderDetail is an order with its table number and line items.
type OrderDetail struct {
	Order       database.Order
	TableNumber pgtype.Int4
	Items       []database.OrderItem
}

// OrderService handles the order lifecycle.
type OrderService struct {
	db       DB
	newStore NewOrderStore
	notifier notify.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(db DB, newStore NewOrderStore, notifier notify.Notifier, m *metrics.Metrics) *OrderService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &OrderService{db: db, newStore: newStore, notifier: notifier, metrics: m, now: time.Now}
}

// CreateOrder creates an order with its initial items, queues the items for
// the kitchen and occupies the table, all in one transaction.
// Retries up to maxNumberRetries times when a concurrent order took the same
// sequence number.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderDetail, error) {
	orderType, err := parseOrderType(req.OrderType)
	if err != nil {
		return nil, err
	}
	if orderType == database.OrderTypePARCEL && req.TableID != nil {
		return nil, ErrParcelWithTable
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	var (
		result *OrderDetail
		table  *database.DiningTable
	)
	err = retryOnNumberConflict(orderNumberConstraints, func() error {
		var err error
		result, table, err = s.createOrderTx(ctx, req, orderType)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCreated(string(orderType))
	s.notifier.Notify(ctx, notify.EventOrderCreated, orderChanged(result.Order))
	if table != nil {
		s.notifier.Notify(ctx, notify.EventTableStatusUpdated, tableChanged(*table))
	}
	return result, nil
}

func (s *OrderService) createOrderTx(ctx context.Context, req CreateOrderRequest, orderType database.OrderType) (*OrderDetail, *database.DiningTable, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Lock the table first so two orders cannot claim it ---
	var table database.DiningTable
	tableID := pgtype.UUID{}
	if req.TableID != nil {
		table, err = store.GetTableForUpdate(ctx, *req.TableID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, ErrTableNotFound
			}
			return nil, nil, fmt.Errorf("lock table: %w", err)
		}
		if table.CurrentOrderID.Valid {
			return nil, nil, ErrTableOccupied
		}
		tableID = pgUUID(table.ID)
	}

	// --- Generate order number ---
	day := businessDate(s.now())
	seq, err := store.GetNextOrderSeq(ctx, day)
	if err != nil {
		return nil, nil, fmt.Errorf("get next order seq: %w", err)
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OrderNumber:  formatNumber(enum.OrderNumberPrefix, day, seq),
		BusinessDate: day,
		OrderSeq:     seq,
		OrderType:    orderType,
		TableID:      tableID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create order: %w", err)
	}

	items, err := addItems(ctx, store, order.ID, req.Items)
	if err != nil {
		return nil, nil, err
	}

	order, err = recalculateTotals(ctx, store, order.ID)
	if err != nil {
		return nil, nil, err
	}

	var occupied *database.DiningTable
	if req.TableID != nil {
		t, err := store.OccupyTable(ctx, database.OccupyTableParams{
			ID:             table.ID,
			CurrentOrderID: pgUUID(order.ID),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("occupy table: %w", err)
		}
		occupied = &t
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	detail := &OrderDetail{Order: order, Items: items}
	if occupied != nil {
		detail.TableNumber = pgtype.Int4{Int32: occupied.TableNumber, Valid: true}
	}
	return detail, occupied, nil
}

// AddItemsToOrder appends lines to an open order and queues them for the
// kitchen. Either every line is added or none is.
func (s *OrderService) AddItemsToOrder(ctx context.Context, orderID uuid.UUID, inputs []OrderItemInput) (*OrderDetail, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyItems
	}
	if err := validateItems(inputs); err != nil {
		return nil, err
	}

	var detail OrderDetail
	err := runInTx(ctx, s.db, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		order, err := store.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}
		if order.Status == database.OrderStatusBILLED {
			return ErrOrderBilled
		}

		if _, err := addItems(ctx, store, order.ID, inputs); err != nil {
			return err
		}
		if detail.Order, err = recalculateTotals(ctx, store, order.ID); err != nil {
			return err
		}
		if detail.Items, err = store.ListOrderItemsByOrder(ctx, order.ID); err != nil {
			return fmt.Errorf("list order items: %w", err)
		}
		detail.TableNumber, err = tableNumber(ctx, store, order.TableID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notify.EventKitchenQueueUpdated, notify.KitchenChanged{
		Action:      notify.ActionAdd,
		OrderID:     detail.Order.ID,
		OrderNumber: detail.Order.OrderNumber,
	})
	s.notifier.Notify(ctx, notify.EventOrderUpdated, orderChanged(detail.Order))
	return &detail, nil
}

// RecalculateOrderTotals recomputes subtotal, tax and final amount from the
// order's current lines.
func (s *OrderService) RecalculateOrderTotals(ctx context.Context, orderID uuid.UUID) (database.Order, error) {
	var order database.Order
	err := runInTx(ctx, s.db, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		if _, err := store.GetOrderForUpdate(ctx, orderID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}
		var err error
		order, err = recalculateTotals(ctx, store, orderID)
		return err
	})
	return order, err
}

// UpdateOrderItemStatus sets a line's status directly.
func (s *OrderService) UpdateOrderItemStatus(ctx context.Context, orderItemID uuid.UUID, status string) (database.OrderItem, error) {
	st, err := parseOrderItemStatus(status)
	if err != nil {
		return database.OrderItem{}, err
	}

	item, err := s.newStore(s.db).UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
		ID:     orderItemID,
		Status: st,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.OrderItem{}, ErrOrderItemNotFound
		}
		return database.OrderItem{}, fmt.Errorf("update order item status: %w", err)
	}

	s.notifier.Notify(ctx, notify.EventOrderItemStatus, orderItemChanged(item))
	return item, nil
}

// UpdateOrderStatus moves an order to status. The update only applies if
// the order still has the status that was read, so a concurrent change
// surfaces as ErrOrderStatusConflict.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (database.Order, error) {
	next, err := parseOrderStatus(status)
	if err != nil {
		return database.Order{}, err
	}
	if next == database.OrderStatusBILLED {
		return database.Order{}, ErrBilledViaBillOnly
	}

	store := s.newStore(s.db)
	current, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}
	if current.Status == database.OrderStatusBILLED {
		return database.Order{}, ErrOrderBilled
	}

	order, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:       orderID,
		Status:   next,
		Status_2: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderStatusConflict
		}
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}

	s.notifier.Notify(ctx, notify.EventOrderUpdated, orderChanged(order))
	return order, nil
}

// GetOrderByID returns an order with its lines.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	store := s.newStore(s.db)
	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	tn, err := tableNumber(ctx, store, order.TableID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: order, TableNumber: tn, Items: items}, nil
}

// ListOrders returns orders newest first, optionally filtered by status and
// type. Empty filters match everything.
func (s *OrderService) ListOrders(ctx context.Context, status, orderType string) ([]OrderDetail, error) {
	params := database.ListOrdersParams{}
	if status != "" {
		st, err := parseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		params.Status = database.NullOrderStatus{OrderStatus: st, Valid: true}
	}
	if orderType != "" {
		ot, err := parseOrderType(orderType)
		if err != nil {
			return nil, err
		}
		params.OrderType = database.NullOrderType{OrderType: ot, Valid: true}
	}

	store := s.newStore(s.db)
	rows, err := store.ListOrders(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]OrderDetail, 0, len(rows))
	for _, row := range rows {
		items, err := store.ListOrderItemsByOrder(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("list order items: %w", err)
		}
		out = append(out, OrderDetail{
			Order: database.Order{
				ID:             row.ID,
				OrderNumber:    row.OrderNumber,
				BusinessDate:   row.BusinessDate,
				OrderSeq:       row.OrderSeq,
				OrderType:      row.OrderType,
				TableID:        row.TableID,
				Status:         row.Status,
				Subtotal:       row.Subtotal,
				TaxAmount:      row.TaxAmount,
				DiscountAmount: row.DiscountAmount,
				FinalAmount:    row.FinalAmount,
				CreatedAt:      row.CreatedAt,
				UpdatedAt:      row.UpdatedAt,
			},
			TableNumber: row.TableNumber,
			Items:       items,
		})
	}
	return out, nil
}

// --- Helpers ---

// itemWriter is the subset of OrderStore used to insert order lines.
type itemWriter interface {
	GetMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]database.MenuItem, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	CreateKitchenQueueEntry(ctx context.Context, arg database.CreateKitchenQueueEntryParams) (database.KitchenQueue, error)
}

// addItems snapshots each menu item's name and regular price into a new
// order line and queues the full quantity for the kitchen.
func addItems(ctx context.Context, store itemWriter, orderID uuid.UUID, inputs []OrderItemInput) ([]database.OrderItem, error) {
	if len(inputs) == 0 {
		return []database.OrderItem{}, nil
	}

	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if !seen[in.MenuItemID] {
			seen[in.MenuItemID] = true
			ids = append(ids, in.MenuItemID)
		}
	}
	menuItems, err := store.GetMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get menu items: %w", err)
	}
	byID := make(map[uuid.UUID]database.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}

	items := make([]database.OrderItem, 0, len(inputs))
	for i, in := range inputs {
		mi, ok := byID[in.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrMenuItemNotFound)
		}

		unitPrice := numericToDecimal(mi.RegularPrice)
		totalPrice := unitPrice.Mul(decimal.NewFromInt32(in.Quantity))

		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:    orderID,
			MenuItemID: mi.ID,
			ItemName:   mi.Name,
			UnitPrice:  decimalToNumeric(unitPrice),
			Quantity:   in.Quantity,
			TotalPrice: decimalToNumeric(totalPrice),
		})
		if err != nil {
			return nil, fmt.Errorf("items[%d]: create order item: %w", i, err)
		}

		if _, err := store.CreateKitchenQueueEntry(ctx, database.CreateKitchenQueueEntryParams{
			OrderID:     orderID,
			OrderItemID: item.ID,
			MenuItemID:  mi.ID,
			ItemName:    mi.Name,
			Quantity:    in.Quantity,
		}); err != nil {
			return nil, fmt.Errorf("items[%d]: queue for kitchen: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

type totalsWriter interface {
	SumOrderItemTotals(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
	UpdateOrderTotals(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error)
}

// recalculateTotals sets subtotal = sum of line totals, tax = subtotal x
// TaxRate and final = subtotal + tax.
func recalculateTotals(ctx context.Context, store totalsWriter, orderID uuid.UUID) (database.Order, error) {
	sum, err := store.SumOrderItemTotals(ctx, orderID)
	if err != nil {
		return database.Order{}, fmt.Errorf("sum order items: %w", err)
	}
	subtotal := numericToDecimal(sum)
	tax, final := calculateTotals(subtotal)

	order, err := store.UpdateOrderTotals(ctx, database.UpdateOrderTotalsParams{
		ID:          orderID,
		Subtotal:    decimalToNumeric(subtotal),
		TaxAmount:   decimalToNumeric(tax),
		FinalAmount: decimalToNumeric(final),
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("update order totals: %w", err)
	}
	return order, nil
}

type tableGetter interface {
	GetTable(ctx context.Context, id uuid.UUID) (database.DiningTable, error)
}

func tableNumber(ctx context.Context, store tableGetter, tableID pgtype.UUID) (pgtype.Int4, error) {
	if !tableID.Valid {
		return pgtype.Int4{}, nil
	}
	t, err := store.GetTable(ctx, uuid.UUID(tableID.Bytes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgtype.Int4{}, nil
		}
		return pgtype.Int4{}, fmt.Errorf("get table: %w", err)
	}
	return pgtype.Int4{Int32: t.TableNumber, Valid: true}, nil
}

func validateItems(inputs []OrderItemInput) error {
	for i, in := range inputs {
		if in.MenuItemID == uuid.Nil {
			return fmt.Errorf("items[%d]: %w", i, ErrMenuItemNotFound)
		}
		if in.Quantity <= 0 {
			return fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
	}
	return nil
}

func parseOrderType(s string) (database.OrderType, error) {
	switch t := database.OrderType(s); t {
	case database.OrderTypeDINEIN, database.OrderTypePARCEL:
		return t, nil
	}
	return "", ErrInvalidOrderType
}

func parseOrderStatus(s string) (database.OrderStatus, error) {
	switch st := database.OrderStatus(s); st {
	case database.OrderStatusPENDING, database.OrderStatusPREPARING, database.OrderStatusREADY,
		database.OrderStatusCOMPLETED, database.OrderStatusBILLED:
		return st, nil
	}
	return "", ErrInvalidOrderStatus
}

func parseOrderItemStatus(s string) (database.OrderItemStatus, error) {
	switch st := database.OrderItemStatus(s); st {
	case database.OrderItemStatusPREPARING, database.OrderItemStatusSERVED:
		return st, nil
	}
	return "", ErrInvalidItemStatus
}

func orderChanged(o database.Order) notify.OrderChanged {
	return notify.OrderChanged{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		OrderType:   string(o.OrderType),
		Status:      string(o.Status),
		TableID:     uuidPtr(o.TableID),
		FinalAmount: MoneyString(o.FinalAmount),
	}
}

func orderItemChanged(item database.OrderItem) notify.OrderItemChanged {
	return notify.OrderItemChanged{
		OrderItemID:    item.ID,
		OrderID:        item.OrderID,
		Status:         string(item.Status),
		ServedQuantity: item.ServedQuantity,
		Quantity:       item.Quantity,
	}
}

func tableChanged(t database.DiningTable) notify.TableChanged {
	return notify.TableChanged{
		TableID:        t.ID,
		TableNumber:    t.TableNumber,
		Status:         string(t.Status),
		CurrentOrderID: uuidPtr(t.CurrentOrderID),
	}
}
