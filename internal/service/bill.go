package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/counterpos/api/internal/apperror"
	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/enum"
	"github.com/counterpos/api/internal/metrics"
	"github.com/counterpos/api/internal/notify"
)

const billOrderConstraint = "bills_order_id_key"

var billNumberConstraints = []string{"bills_business_date_bill_seq_key", "bills_bill_number_key"}

// BillStore defines the DB methods needed for billing.
type BillStore interface {
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ReleaseTable(ctx context.Context, arg database.ReleaseTableParams) (database.DiningTable, error)
	GetBillByOrder(ctx context.Context, orderID uuid.UUID) (database.Bill, error)
	GetNextBillSeq(ctx context.Context, businessDate pgtype.Date) (int32, error)
	CreateBill(ctx context.Context, arg database.CreateBillParams) (database.Bill, error)
	UpdateBillPaymentStatus(ctx context.Context, arg database.UpdateBillPaymentStatusParams) (database.Bill, error)
	ListBills(ctx context.Context) ([]database.ListBillsRow, error)
}

// NewBillStore creates a BillStore from a DBTX (pool or tx).
type NewBillStore func(db database.DBTX) BillStore

// BillWithItems is a bill row with the line items of its order.
type BillWithItems struct {
	Bill  database.ListBillsRow
	Items []database.OrderItem
}

// BillService generates and settles bills.
type BillService struct {
	db       DB
	newStore NewBillStore
	notifier notify.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewBillService creates a new BillService.
func NewBillService(db DB, newStore NewBillStore, notifier notify.Notifier, m *metrics.Metrics) *BillService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &BillService{db: db, newStore: newStore, notifier: notifier, metrics: m, now: time.Now}
}

type billOutcome struct {
	bill     database.Bill
	order    database.Order
	released *database.DiningTable
}

// GenerateBill bills an order exactly once. The order becomes BILLED and,
// if its table still points at it, the table is released.
func (s *BillService) GenerateBill(ctx context.Context, orderID uuid.UUID) (database.Bill, error) {
	var out billOutcome
	err := retryOnNumberConflict(billNumberConstraints, func() error {
		var err error
		out, err = s.generateBillTx(ctx, orderID)
		return err
	})
	if err != nil {
		return database.Bill{}, err
	}

	s.metrics.BillGenerated()
	s.notifier.Notify(ctx, notify.EventBillCreated, billChanged(out.bill))
	s.notifier.Notify(ctx, notify.EventOrderUpdated, orderChanged(out.order))
	if out.released != nil {
		s.notifier.Notify(ctx, notify.EventTableStatusUpdated, tableChanged(*out.released))
	}
	return out.bill, nil
}

func (s *BillService) generateBillTx(ctx context.Context, orderID uuid.UUID) (billOutcome, error) {
	var out billOutcome
	err := runInTx(ctx, s.db, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		order, err := store.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		if _, err := store.GetBillByOrder(ctx, orderID); err == nil {
			return ErrBillExists
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("get bill: %w", err)
		}

		day := businessDate(s.now())
		seq, err := store.GetNextBillSeq(ctx, day)
		if err != nil {
			return fmt.Errorf("get next bill seq: %w", err)
		}

		out.bill, err = store.CreateBill(ctx, database.CreateBillParams{
			OrderID:        order.ID,
			BillNumber:     formatNumber(enum.BillNumberPrefix, day, seq),
			BusinessDate:   day,
			BillSeq:        seq,
			Subtotal:       order.Subtotal,
			TaxRate:        decimalToNumeric(TaxRate),
			TaxAmount:      order.TaxAmount,
			DiscountAmount: order.DiscountAmount,
			TotalAmount:    order.FinalAmount,
		})
		if err != nil {
			if apperror.IsUniqueViolation(err, billOrderConstraint) {
				return ErrBillExists
			}
			return fmt.Errorf("create bill: %w", err)
		}

		out.order, err = store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
			ID:       order.ID,
			Status:   database.OrderStatusBILLED,
			Status_2: order.Status,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderStatusConflict
			}
			return fmt.Errorf("mark order billed: %w", err)
		}

		if order.TableID.Valid {
			table, err := store.ReleaseTable(ctx, database.ReleaseTableParams{
				ID:             uuid.UUID(order.TableID.Bytes),
				CurrentOrderID: pgUUID(order.ID),
			})
			switch {
			case err == nil:
				out.released = &table
			case errors.Is(err, pgx.ErrNoRows):
				// table already moved on to another order
			default:
				return fmt.Errorf("release table: %w", err)
			}
		}
		return nil
	})
	return out, err
}

// UpdateBillStatus sets a bill's payment status.
func (s *BillService) UpdateBillStatus(ctx context.Context, billID uuid.UUID, status string) (database.Bill, error) {
	st, err := parsePaymentStatus(status)
	if err != nil {
		return database.Bill{}, err
	}

	bill, err := s.newStore(s.db).UpdateBillPaymentStatus(ctx, database.UpdateBillPaymentStatusParams{
		ID:            billID,
		PaymentStatus: st,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Bill{}, ErrBillNotFound
		}
		return database.Bill{}, fmt.Errorf("update bill status: %w", err)
	}

	s.notifier.Notify(ctx, notify.EventBillUpdated, billChanged(bill))
	return bill, nil
}

// ListBills returns bills newest first.
func (s *BillService) ListBills(ctx context.Context) ([]database.ListBillsRow, error) {
	rows, err := s.newStore(s.db).ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return rows, nil
}

// BillsWithItems returns bills newest first, each with its order's lines.
func (s *BillService) BillsWithItems(ctx context.Context) ([]BillWithItems, error) {
	store := s.newStore(s.db)
	rows, err := store.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}

	out := make([]BillWithItems, 0, len(rows))
	for _, row := range rows {
		items, err := store.ListOrderItemsByOrder(ctx, row.OrderID)
		if err != nil {
			return nil, fmt.Errorf("list order items: %w", err)
		}
		out = append(out, BillWithItems{Bill: row, Items: items})
	}
	return out, nil
}

func parsePaymentStatus(s string) (database.PaymentStatus, error) {
	switch st := database.PaymentStatus(s); st {
	case database.PaymentStatusPENDING, database.PaymentStatusCOMPLETED:
		return st, nil
	}
	return "", ErrInvalidPaymentStatus
}

func billChanged(b database.Bill) notify.BillChanged {
	return notify.BillChanged{
		BillID:        b.ID,
		OrderID:       b.OrderID,
		BillNumber:    b.BillNumber,
		PaymentStatus: string(b.PaymentStatus),
		TotalAmount:   MoneyString(b.TotalAmount),
	}
}
