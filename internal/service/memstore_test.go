package service

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/counterpos/api/internal/database"
)

// The generated queries must satisfy every store the services use.
var (
	_ OrderStore   = (*database.Queries)(nil)
	_ KitchenStore = (*database.Queries)(nil)
	_ TableStore   = (*database.Queries)(nil)
	_ BillStore    = (*database.Queries)(nil)
	_ MenuStore    = (*database.Queries)(nil)

	_ OrderStore   = (*memStore)(nil)
	_ KitchenStore = (*memStore)(nil)
	_ TableStore   = (*memStore)(nil)
	_ BillStore    = (*memStore)(nil)
	_ MenuStore    = (*memStore)(nil)
)

// --- In-memory transactional store ---

// memState is one snapshot of every table.
type memState struct {
	orders     map[uuid.UUID]database.Order
	items      map[uuid.UUID]database.OrderItem
	queue      map[uuid.UUID]database.KitchenQueue
	tables     map[uuid.UUID]database.DiningTable
	bills      map[uuid.UUID]database.Bill
	menu       map[uuid.UUID]database.MenuItem
	categories map[uuid.UUID]database.MenuCategory
}

func newMemState() *memState {
	return &memState{
		orders:     map[uuid.UUID]database.Order{},
		items:      map[uuid.UUID]database.OrderItem{},
		queue:      map[uuid.UUID]database.KitchenQueue{},
		tables:     map[uuid.UUID]database.DiningTable{},
		bills:      map[uuid.UUID]database.Bill{},
		menu:       map[uuid.UUID]database.MenuItem{},
		categories: map[uuid.UUID]database.MenuCategory{},
	}
}

func (s *memState) clone() *memState {
	return &memState{
		orders:     maps.Clone(s.orders),
		items:      maps.Clone(s.items),
		queue:      maps.Clone(s.queue),
		tables:     maps.Clone(s.tables),
		bills:      maps.Clone(s.bills),
		menu:       maps.Clone(s.menu),
		categories: maps.Clone(s.categories),
	}
}

// fakeDB hands out transactions that work on a private copy of the state
// and publish it on Commit, so a failed transaction leaves no trace.
type fakeDB struct {
	mu       sync.Mutex
	state    *memState
	clock    time.Time
	failures map[string][]error
	beginErr error

	commits   int
	rollbacks int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		state:    newMemState(),
		clock:    time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		failures: map[string][]error{},
	}
}

// failNext makes the next call to method return err.
func (db *fakeDB) failNext(method string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failures[method] = append(db.failures[method], err)
}

func (db *fakeDB) take(method string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	errs := db.failures[method]
	if len(errs) == 0 {
		return nil
	}
	db.failures[method] = errs[1:]
	return errs[0]
}

func (db *fakeDB) tick() time.Time {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *fakeDB) snapshot() *memState {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return &fakeTx{db: db, state: db.state.clone()}, nil
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	panic("fakeDB: raw SQL not supported")
}
func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("fakeDB: raw SQL not supported")
}
func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("fakeDB: raw SQL not supported")
}

// store resolves a pool or transaction handle to a store over its state.
func (db *fakeDB) store(d database.DBTX) *memStore {
	switch v := d.(type) {
	case *fakeTx:
		return &memStore{db: db, tx: v}
	case *fakeDB:
		return &memStore{db: db}
	}
	panic("fakeDB: unknown DBTX")
}

type fakeTx struct {
	db     *fakeDB
	state  *memState
	closed bool
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.closed = true
	if err := tx.db.take("Commit"); err != nil {
		tx.db.mu.Lock()
		tx.db.rollbacks++
		tx.db.mu.Unlock()
		return err
	}
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	tx.db.state = tx.state
	tx.db.commits++
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.closed = true
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	tx.db.rollbacks++
	return nil
}

func (tx *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (tx *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (tx *fakeTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (tx *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (tx *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (tx *fakeTx) Conn() *pgx.Conn { panic("not implemented") }

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func fkViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

// memStore implements every store interface against a memState, mirroring
// the SQL in internal/database/queries.
type memStore struct {
	db *fakeDB
	tx *fakeTx
}

func (m *memStore) st() *memState {
	if m.tx != nil {
		return m.tx.state
	}
	return m.db.snapshot()
}

// --- orders ---

func (m *memStore) GetNextOrderSeq(ctx context.Context, day pgtype.Date) (int32, error) {
	if err := m.db.take("GetNextOrderSeq"); err != nil {
		return 0, err
	}
	var max int32
	for _, o := range m.st().orders {
		if o.BusinessDate.Time.Equal(day.Time) && o.OrderSeq > max {
			max = o.OrderSeq
		}
	}
	return max + 1, nil
}

func (m *memStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	if err := m.db.take("CreateOrder"); err != nil {
		return database.Order{}, err
	}
	st := m.st()
	for _, o := range st.orders {
		if o.BusinessDate.Time.Equal(arg.BusinessDate.Time) && o.OrderSeq == arg.OrderSeq {
			return database.Order{}, uniqueViolation("orders_business_date_order_seq_key")
		}
		if o.OrderNumber == arg.OrderNumber {
			return database.Order{}, uniqueViolation("orders_order_number_key")
		}
	}
	if arg.TableID.Valid {
		if _, ok := st.tables[uuid.UUID(arg.TableID.Bytes)]; !ok {
			return database.Order{}, fkViolation("orders_table_id_fkey")
		}
	}
	now := m.db.tick()
	o := database.Order{
		ID:             uuid.New(),
		OrderNumber:    arg.OrderNumber,
		BusinessDate:   arg.BusinessDate,
		OrderSeq:       arg.OrderSeq,
		OrderType:      arg.OrderType,
		TableID:        arg.TableID,
		Status:         database.OrderStatusPENDING,
		Subtotal:       makeNumeric("0"),
		TaxAmount:      makeNumeric("0"),
		DiscountAmount: makeNumeric("0"),
		FinalAmount:    makeNumeric("0"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	st.orders[o.ID] = o
	return o, nil
}

func (m *memStore) GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error) {
	if err := m.db.take("GetOrder"); err != nil {
		return database.Order{}, err
	}
	o, ok := m.st().orders[id]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *memStore) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error) {
	if err := m.db.take("GetOrderForUpdate"); err != nil {
		return database.Order{}, err
	}
	o, ok := m.st().orders[id]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *memStore) ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.ListOrdersRow, error) {
	if err := m.db.take("ListOrders"); err != nil {
		return nil, err
	}
	st := m.st()
	rows := []database.ListOrdersRow{}
	for _, o := range st.orders {
		if arg.Status.Valid && o.Status != arg.Status.OrderStatus {
			continue
		}
		if arg.OrderType.Valid && o.OrderType != arg.OrderType.OrderType {
			continue
		}
		row := database.ListOrdersRow{
			ID:             o.ID,
			OrderNumber:    o.OrderNumber,
			BusinessDate:   o.BusinessDate,
			OrderSeq:       o.OrderSeq,
			OrderType:      o.OrderType,
			TableID:        o.TableID,
			Status:         o.Status,
			Subtotal:       o.Subtotal,
			TaxAmount:      o.TaxAmount,
			DiscountAmount: o.DiscountAmount,
			FinalAmount:    o.FinalAmount,
			CreatedAt:      o.CreatedAt,
			UpdatedAt:      o.UpdatedAt,
		}
		if o.TableID.Valid {
			if t, ok := st.tables[uuid.UUID(o.TableID.Bytes)]; ok {
				row.TableNumber = pgtype.Int4{Int32: t.TableNumber, Valid: true}
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	if err := m.db.take("UpdateOrderStatus"); err != nil {
		return database.Order{}, err
	}
	st := m.st()
	o, ok := st.orders[arg.ID]
	if !ok || o.Status != arg.Status_2 {
		return database.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.Status
	o.UpdatedAt = m.db.tick()
	st.orders[o.ID] = o
	return o, nil
}

func (m *memStore) SumOrderItemTotals(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error) {
	if err := m.db.take("SumOrderItemTotals"); err != nil {
		return pgtype.Numeric{}, err
	}
	sum := decimal.Zero
	for _, it := range m.st().items {
		if it.OrderID == orderID {
			sum = sum.Add(numericToDecimal(it.TotalPrice))
		}
	}
	return decimalToNumeric(sum), nil
}

func (m *memStore) UpdateOrderTotals(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error) {
	if err := m.db.take("UpdateOrderTotals"); err != nil {
		return database.Order{}, err
	}
	st := m.st()
	o, ok := st.orders[arg.ID]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	o.Subtotal = arg.Subtotal
	o.TaxAmount = arg.TaxAmount
	o.FinalAmount = arg.FinalAmount
	o.UpdatedAt = m.db.tick()
	st.orders[o.ID] = o
	return o, nil
}

func (m *memStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	if err := m.db.take("CreateOrderItem"); err != nil {
		return database.OrderItem{}, err
	}
	st := m.st()
	if _, ok := st.orders[arg.OrderID]; !ok {
		return database.OrderItem{}, fkViolation("order_items_order_id_fkey")
	}
	if _, ok := st.menu[arg.MenuItemID]; !ok {
		return database.OrderItem{}, fkViolation("order_items_menu_item_id_fkey")
	}
	now := m.db.tick()
	it := database.OrderItem{
		ID:         uuid.New(),
		OrderID:    arg.OrderID,
		MenuItemID: arg.MenuItemID,
		ItemName:   arg.ItemName,
		UnitPrice:  arg.UnitPrice,
		Quantity:   arg.Quantity,
		TotalPrice: arg.TotalPrice,
		Status:     database.OrderItemStatusPREPARING,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	st.items[it.ID] = it
	return it, nil
}

func (m *memStore) GetOrderItem(ctx context.Context, id uuid.UUID) (database.OrderItem, error) {
	if err := m.db.take("GetOrderItem"); err != nil {
		return database.OrderItem{}, err
	}
	it, ok := m.st().items[id]
	if !ok {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	return it, nil
}

func (m *memStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	if err := m.db.take("ListOrderItemsByOrder"); err != nil {
		return nil, err
	}
	items := []database.OrderItem{}
	for _, it := range m.st().items {
		if it.OrderID == orderID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (m *memStore) UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error) {
	if err := m.db.take("UpdateOrderItemStatus"); err != nil {
		return database.OrderItem{}, err
	}
	st := m.st()
	it, ok := st.items[arg.ID]
	if !ok {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	it.Status = arg.Status
	it.UpdatedAt = m.db.tick()
	st.items[it.ID] = it
	return it, nil
}

// --- kitchen ---

func (m *memStore) CreateKitchenQueueEntry(ctx context.Context, arg database.CreateKitchenQueueEntryParams) (database.KitchenQueue, error) {
	if err := m.db.take("CreateKitchenQueueEntry"); err != nil {
		return database.KitchenQueue{}, err
	}
	st := m.st()
	for _, q := range st.queue {
		if q.OrderItemID == arg.OrderItemID {
			return database.KitchenQueue{}, uniqueViolation("kitchen_queue_order_item_id_key")
		}
	}
	q := database.KitchenQueue{
		ID:          uuid.New(),
		OrderID:     arg.OrderID,
		OrderItemID: arg.OrderItemID,
		MenuItemID:  arg.MenuItemID,
		ItemName:    arg.ItemName,
		Quantity:    arg.Quantity,
		Status:      database.KitchenQueueStatusQUEUED,
		CreatedAt:   m.db.tick(),
	}
	st.queue[q.ID] = q
	return q, nil
}

func (m *memStore) ListPendingKitchenItems(ctx context.Context) ([]database.ListPendingKitchenItemsRow, error) {
	if err := m.db.take("ListPendingKitchenItems"); err != nil {
		return nil, err
	}
	st := m.st()
	rows := []database.ListPendingKitchenItemsRow{}
	for _, q := range st.queue {
		if q.Status != database.KitchenQueueStatusQUEUED {
			continue
		}
		o := st.orders[q.OrderID]
		row := database.ListPendingKitchenItemsRow{
			QueueID:     q.ID,
			OrderID:     q.OrderID,
			OrderItemID: q.OrderItemID,
			MenuItemID:  q.MenuItemID,
			ItemName:    q.ItemName,
			Quantity:    q.Quantity,
			Status:      q.Status,
			CreatedAt:   q.CreatedAt,
			OrderNumber: o.OrderNumber,
			OrderType:   o.OrderType,
		}
		if o.TableID.Valid {
			if t, ok := st.tables[uuid.UUID(o.TableID.Bytes)]; ok {
				row.TableNumber = pgtype.Int4{Int32: t.TableNumber, Valid: true}
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return rows, nil
}

func (m *memStore) GetKitchenQueueEntryForUpdate(ctx context.Context, id uuid.UUID) (database.KitchenQueue, error) {
	if err := m.db.take("GetKitchenQueueEntryForUpdate"); err != nil {
		return database.KitchenQueue{}, err
	}
	q, ok := m.st().queue[id]
	if !ok {
		return database.KitchenQueue{}, pgx.ErrNoRows
	}
	return q, nil
}

func (m *memStore) DecrementKitchenQueueEntry(ctx context.Context, id uuid.UUID) (database.KitchenQueue, error) {
	if err := m.db.take("DecrementKitchenQueueEntry"); err != nil {
		return database.KitchenQueue{}, err
	}
	st := m.st()
	q, ok := st.queue[id]
	if !ok || q.Quantity <= 1 {
		return database.KitchenQueue{}, pgx.ErrNoRows
	}
	q.Quantity--
	st.queue[id] = q
	return q, nil
}

func (m *memStore) DeleteKitchenQueueEntry(ctx context.Context, id uuid.UUID) (int64, error) {
	if err := m.db.take("DeleteKitchenQueueEntry"); err != nil {
		return 0, err
	}
	st := m.st()
	if _, ok := st.queue[id]; !ok {
		return 0, nil
	}
	delete(st.queue, id)
	return 1, nil
}

func (m *memStore) MarkOrderItemServed(ctx context.Context, id uuid.UUID) (database.OrderItem, error) {
	if err := m.db.take("MarkOrderItemServed"); err != nil {
		return database.OrderItem{}, err
	}
	st := m.st()
	it, ok := st.items[id]
	if !ok {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	it.Status = database.OrderItemStatusSERVED
	if it.ServedQuantity < it.Quantity {
		it.ServedQuantity++
	}
	it.UpdatedAt = m.db.tick()
	st.items[id] = it
	return it, nil
}

// --- tables ---

func (m *memStore) ListTables(ctx context.Context) ([]database.ListTablesRow, error) {
	if err := m.db.take("ListTables"); err != nil {
		return nil, err
	}
	st := m.st()
	rows := []database.ListTablesRow{}
	for _, t := range st.tables {
		row := database.ListTablesRow{
			ID:             t.ID,
			TableNumber:    t.TableNumber,
			Capacity:       t.Capacity,
			Status:         t.Status,
			CurrentOrderID: t.CurrentOrderID,
			CreatedAt:      t.CreatedAt,
			UpdatedAt:      t.UpdatedAt,
		}
		if t.CurrentOrderID.Valid {
			if o, ok := st.orders[uuid.UUID(t.CurrentOrderID.Bytes)]; ok {
				row.OrderNumber = pgtype.Text{String: o.OrderNumber, Valid: true}
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TableNumber < rows[j].TableNumber })
	return rows, nil
}

func (m *memStore) GetTable(ctx context.Context, id uuid.UUID) (database.DiningTable, error) {
	if err := m.db.take("GetTable"); err != nil {
		return database.DiningTable{}, err
	}
	t, ok := m.st().tables[id]
	if !ok {
		return database.DiningTable{}, pgx.ErrNoRows
	}
	return t, nil
}

func (m *memStore) GetTableForUpdate(ctx context.Context, id uuid.UUID) (database.DiningTable, error) {
	if err := m.db.take("GetTableForUpdate"); err != nil {
		return database.DiningTable{}, err
	}
	t, ok := m.st().tables[id]
	if !ok {
		return database.DiningTable{}, pgx.ErrNoRows
	}
	return t, nil
}

func (m *memStore) CreateTable(ctx context.Context, arg database.CreateTableParams) (database.DiningTable, error) {
	if err := m.db.take("CreateTable"); err != nil {
		return database.DiningTable{}, err
	}
	st := m.st()
	for _, t := range st.tables {
		if t.TableNumber == arg.TableNumber {
			return database.DiningTable{}, uniqueViolation("dining_tables_table_number_key")
		}
	}
	now := m.db.tick()
	t := database.DiningTable{
		ID:          uuid.New(),
		TableNumber: arg.TableNumber,
		Capacity:    arg.Capacity,
		Status:      arg.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	st.tables[t.ID] = t
	return t, nil
}

func (m *memStore) UpdateTable(ctx context.Context, arg database.UpdateTableParams) (database.DiningTable, error) {
	if err := m.db.take("UpdateTable"); err != nil {
		return database.DiningTable{}, err
	}
	st := m.st()
	t, ok := st.tables[arg.ID]
	if !ok {
		return database.DiningTable{}, pgx.ErrNoRows
	}
	for _, other := range st.tables {
		if other.ID != arg.ID && other.TableNumber == arg.TableNumber {
			return database.DiningTable{}, uniqueViolation("dining_tables_table_number_key")
		}
	}
	t.TableNumber = arg.TableNumber
	t.Capacity = arg.Capacity
	t.Status = arg.Status
	t.CurrentOrderID = arg.CurrentOrderID
	t.UpdatedAt = m.db.tick()
	st.tables[t.ID] = t
	return t, nil
}

func (m *memStore) OccupyTable(ctx context.Context, arg database.OccupyTableParams) (database.DiningTable, error) {
	if err := m.db.take("OccupyTable"); err != nil {
		return database.DiningTable{}, err
	}
	st := m.st()
	t, ok := st.tables[arg.ID]
	if !ok {
		return database.DiningTable{}, pgx.ErrNoRows
	}
	t.Status = database.TableStatusOCCUPIED
	t.CurrentOrderID = arg.CurrentOrderID
	t.UpdatedAt = m.db.tick()
	st.tables[t.ID] = t
	return t, nil
}

func (m *memStore) ReleaseTable(ctx context.Context, arg database.ReleaseTableParams) (database.DiningTable, error) {
	if err := m.db.take("ReleaseTable"); err != nil {
		return database.DiningTable{}, err
	}
	st := m.st()
	t, ok := st.tables[arg.ID]
	if !ok || t.CurrentOrderID != arg.CurrentOrderID {
		return database.DiningTable{}, pgx.ErrNoRows
	}
	t.Status = database.TableStatusAVAILABLE
	t.CurrentOrderID = pgtype.UUID{}
	t.UpdatedAt = m.db.tick()
	st.tables[t.ID] = t
	return t, nil
}

func (m *memStore) DeleteIdleTable(ctx context.Context, id uuid.UUID) (int64, error) {
	if err := m.db.take("DeleteIdleTable"); err != nil {
		return 0, err
	}
	st := m.st()
	t, ok := st.tables[id]
	if !ok || t.CurrentOrderID.Valid {
		return 0, nil
	}
	delete(st.tables, id)
	return 1, nil
}

// --- bills ---

func (m *memStore) GetBillByOrder(ctx context.Context, orderID uuid.UUID) (database.Bill, error) {
	if err := m.db.take("GetBillByOrder"); err != nil {
		return database.Bill{}, err
	}
	for _, b := range m.st().bills {
		if b.OrderID == orderID {
			return b, nil
		}
	}
	return database.Bill{}, pgx.ErrNoRows
}

func (m *memStore) GetNextBillSeq(ctx context.Context, day pgtype.Date) (int32, error) {
	if err := m.db.take("GetNextBillSeq"); err != nil {
		return 0, err
	}
	var max int32
	for _, b := range m.st().bills {
		if b.BusinessDate.Time.Equal(day.Time) && b.BillSeq > max {
			max = b.BillSeq
		}
	}
	return max + 1, nil
}

func (m *memStore) CreateBill(ctx context.Context, arg database.CreateBillParams) (database.Bill, error) {
	if err := m.db.take("CreateBill"); err != nil {
		return database.Bill{}, err
	}
	st := m.st()
	for _, b := range st.bills {
		if b.OrderID == arg.OrderID {
			return database.Bill{}, uniqueViolation("bills_order_id_key")
		}
		if b.BusinessDate.Time.Equal(arg.BusinessDate.Time) && b.BillSeq == arg.BillSeq {
			return database.Bill{}, uniqueViolation("bills_business_date_bill_seq_key")
		}
	}
	now := m.db.tick()
	b := database.Bill{
		ID:             uuid.New(),
		OrderID:        arg.OrderID,
		BillNumber:     arg.BillNumber,
		BusinessDate:   arg.BusinessDate,
		BillSeq:        arg.BillSeq,
		Subtotal:       arg.Subtotal,
		TaxRate:        arg.TaxRate,
		TaxAmount:      arg.TaxAmount,
		DiscountAmount: arg.DiscountAmount,
		TotalAmount:    arg.TotalAmount,
		PaymentStatus:  database.PaymentStatusPENDING,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	st.bills[b.ID] = b
	return b, nil
}

func (m *memStore) UpdateBillPaymentStatus(ctx context.Context, arg database.UpdateBillPaymentStatusParams) (database.Bill, error) {
	if err := m.db.take("UpdateBillPaymentStatus"); err != nil {
		return database.Bill{}, err
	}
	st := m.st()
	b, ok := st.bills[arg.ID]
	if !ok {
		return database.Bill{}, pgx.ErrNoRows
	}
	b.PaymentStatus = arg.PaymentStatus
	b.UpdatedAt = m.db.tick()
	st.bills[b.ID] = b
	return b, nil
}

func (m *memStore) ListBills(ctx context.Context) ([]database.ListBillsRow, error) {
	if err := m.db.take("ListBills"); err != nil {
		return nil, err
	}
	st := m.st()
	rows := []database.ListBillsRow{}
	for _, b := range st.bills {
		o := st.orders[b.OrderID]
		row := database.ListBillsRow{
			ID:             b.ID,
			OrderID:        b.OrderID,
			BillNumber:     b.BillNumber,
			BusinessDate:   b.BusinessDate,
			BillSeq:        b.BillSeq,
			Subtotal:       b.Subtotal,
			TaxRate:        b.TaxRate,
			TaxAmount:      b.TaxAmount,
			DiscountAmount: b.DiscountAmount,
			TotalAmount:    b.TotalAmount,
			PaymentStatus:  b.PaymentStatus,
			CreatedAt:      b.CreatedAt,
			UpdatedAt:      b.UpdatedAt,
			OrderNumber:    o.OrderNumber,
			OrderType:      o.OrderType,
		}
		if o.TableID.Valid {
			if t, ok := st.tables[uuid.UUID(o.TableID.Bytes)]; ok {
				row.TableNumber = pgtype.Int4{Int32: t.TableNumber, Valid: true}
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

// --- menu ---

func (m *memStore) GetMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]database.MenuItem, error) {
	if err := m.db.take("GetMenuItemsByIDs"); err != nil {
		return nil, err
	}
	st := m.st()
	items := []database.MenuItem{}
	for _, id := range ids {
		if mi, ok := st.menu[id]; ok {
			items = append(items, mi)
		}
	}
	return items, nil
}

func (m *memStore) ListMenuItems(ctx context.Context) ([]database.ListMenuItemsRow, error) {
	if err := m.db.take("ListMenuItems"); err != nil {
		return nil, err
	}
	st := m.st()
	rows := []database.ListMenuItemsRow{}
	for _, mi := range st.menu {
		cat := st.categories[mi.CategoryID]
		rows = append(rows, database.ListMenuItemsRow{
			ID:              mi.ID,
			CategoryID:      mi.CategoryID,
			Name:            mi.Name,
			RegularPrice:    mi.RegularPrice,
			JainPrice:       mi.JainPrice,
			PrepTimeMinutes: mi.PrepTimeMinutes,
			DisplayOrder:    mi.DisplayOrder,
			IsAvailable:     mi.IsAvailable,
			CreatedAt:       mi.CreatedAt,
			UpdatedAt:       mi.UpdatedAt,
			CategoryName:    cat.Name,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		ci, cj := st.categories[rows[i].CategoryID], st.categories[rows[j].CategoryID]
		if ci.DisplayOrder != cj.DisplayOrder {
			return ci.DisplayOrder < cj.DisplayOrder
		}
		if rows[i].DisplayOrder != rows[j].DisplayOrder {
			return rows[i].DisplayOrder < rows[j].DisplayOrder
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

func (m *memStore) ListMenuCategories(ctx context.Context) ([]database.MenuCategory, error) {
	if err := m.db.take("ListMenuCategories"); err != nil {
		return nil, err
	}
	cats := []database.MenuCategory{}
	for _, c := range m.st().categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].DisplayOrder != cats[j].DisplayOrder {
			return cats[i].DisplayOrder < cats[j].DisplayOrder
		}
		return cats[i].Name < cats[j].Name
	})
	return cats, nil
}

func (m *memStore) GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error) {
	if err := m.db.take("GetMenuItem"); err != nil {
		return database.MenuItem{}, err
	}
	mi, ok := m.st().menu[id]
	if !ok {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	return mi, nil
}

func (m *memStore) CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error) {
	if err := m.db.take("CreateMenuItem"); err != nil {
		return database.MenuItem{}, err
	}
	st := m.st()
	if _, ok := st.categories[arg.CategoryID]; !ok {
		return database.MenuItem{}, fkViolation("menu_items_category_id_fkey")
	}
	now := m.db.tick()
	mi := database.MenuItem{
		ID:              uuid.New(),
		CategoryID:      arg.CategoryID,
		Name:            arg.Name,
		RegularPrice:    arg.RegularPrice,
		JainPrice:       arg.JainPrice,
		PrepTimeMinutes: arg.PrepTimeMinutes,
		DisplayOrder:    arg.DisplayOrder,
		IsAvailable:     arg.IsAvailable,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	st.menu[mi.ID] = mi
	return mi, nil
}

func (m *memStore) UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error) {
	if err := m.db.take("UpdateMenuItem"); err != nil {
		return database.MenuItem{}, err
	}
	st := m.st()
	mi, ok := st.menu[arg.ID]
	if !ok {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	if _, ok := st.categories[arg.CategoryID]; !ok {
		return database.MenuItem{}, fkViolation("menu_items_category_id_fkey")
	}
	mi.CategoryID = arg.CategoryID
	mi.Name = arg.Name
	mi.RegularPrice = arg.RegularPrice
	mi.JainPrice = arg.JainPrice
	mi.PrepTimeMinutes = arg.PrepTimeMinutes
	mi.DisplayOrder = arg.DisplayOrder
	mi.IsAvailable = arg.IsAvailable
	mi.UpdatedAt = m.db.tick()
	st.menu[mi.ID] = mi
	return mi, nil
}

func (m *memStore) DeleteMenuItem(ctx context.Context, id uuid.UUID) (int64, error) {
	if err := m.db.take("DeleteMenuItem"); err != nil {
		return 0, err
	}
	st := m.st()
	if _, ok := st.menu[id]; !ok {
		return 0, nil
	}
	for _, it := range st.items {
		if it.MenuItemID == id {
			return 0, fkViolation("order_items_menu_item_id_fkey")
		}
	}
	delete(st.menu, id)
	return 1, nil
}

func (m *memStore) SetMenuItemAvailability(ctx context.Context, arg database.SetMenuItemAvailabilityParams) (database.MenuItem, error) {
	if err := m.db.take("SetMenuItemAvailability"); err != nil {
		return database.MenuItem{}, err
	}
	st := m.st()
	mi, ok := st.menu[arg.ID]
	if !ok {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	mi.IsAvailable = arg.IsAvailable
	mi.UpdatedAt = m.db.tick()
	st.menu[mi.ID] = mi
	return mi, nil
}

// --- Seeding ---

func (db *fakeDB) seedCategory(name string, order int32) database.MenuCategory {
	c := database.MenuCategory{ID: uuid.New(), Name: name, DisplayOrder: order, CreatedAt: db.tick()}
	db.state.categories[c.ID] = c
	return c
}

func (db *fakeDB) seedMenuItem(categoryID uuid.UUID, name, price string) database.MenuItem {
	now := db.tick()
	mi := database.MenuItem{
		ID:              uuid.New(),
		CategoryID:      categoryID,
		Name:            name,
		RegularPrice:    makeNumeric(price),
		PrepTimeMinutes: 15,
		IsAvailable:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	db.state.menu[mi.ID] = mi
	return mi
}

func (db *fakeDB) seedTable(number int32) database.DiningTable {
	now := db.tick()
	t := database.DiningTable{
		ID:          uuid.New(),
		TableNumber: number,
		Capacity:    4,
		Status:      database.TableStatusAVAILABLE,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	db.state.tables[t.ID] = t
	return t
}

// rowCounts reports how many orders, items, queue entries and bills exist.
func (db *fakeDB) rowCounts() (orders, items, queue, bills int) {
	st := db.snapshot()
	return len(st.orders), len(st.items), len(st.queue), len(st.bills)
}

var errBoom = errors.New("boom")
