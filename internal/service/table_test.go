package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/notify"
)

func TestAddTable_Defaults(t *testing.T) {
	ts := newTestServices()

	table, err := ts.tables.AddTable(context.Background(), TableInput{TableNumber: 12})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if table.Capacity != 4 || table.Status != database.TableStatusAVAILABLE {
		t.Errorf("defaults not applied: %+v", table)
	}

	if got := ts.notifier.types(); !equalStrings(got, []string{notify.EventTablesUpdated}) {
		t.Errorf("events = %v", got)
	}
	if p, ok := ts.notifier.events[0].Payload.(notify.CatalogChanged); !ok || p.Action != notify.ActionAdd || p.ID != table.ID {
		t.Errorf("payload = %+v", ts.notifier.events[0].Payload)
	}
}

func TestAddTable_Validation(t *testing.T) {
	ts := newTestServices()
	ts.db.seedTable(1)

	tests := []struct {
		name    string
		in      TableInput
		wantErr error
	}{
		{"zero number", TableInput{TableNumber: 0}, ErrInvalidTableNumber},
		{"negative capacity", TableInput{TableNumber: 2, Capacity: -1}, ErrInvalidCapacity},
		{"bad status", TableInput{TableNumber: 2, Status: "DIRTY"}, ErrInvalidTableStatus},
		{"duplicate number", TableInput{TableNumber: 1}, ErrTableNumberTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ts.tables.AddTable(context.Background(), tt.in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUpdateTable(t *testing.T) {
	ts := newTestServices()
	table := ts.db.seedTable(3)
	ts.db.seedTable(4)

	updated, err := ts.tables.UpdateTable(context.Background(), table.ID, TableInput{Capacity: 6})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Capacity != 6 || updated.TableNumber != 3 {
		t.Errorf("unexpected table: %+v", updated)
	}

	if _, err := ts.tables.UpdateTable(context.Background(), table.ID, TableInput{TableNumber: 4}); !errors.Is(err, ErrTableNumberTaken) {
		t.Errorf("duplicate number: got %v", err)
	}
	if _, err := ts.tables.UpdateTable(context.Background(), uuid.New(), TableInput{Capacity: 2}); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("unknown table: got %v", err)
	}
}

func TestUpdateTable_AvailableReleasesOrder(t *testing.T) {
	ts := newTestServices()
	table := ts.db.seedTable(5)
	if _, err := ts.orders.CreateOrder(context.Background(), CreateOrderRequest{OrderType: "DINE_IN", TableID: &table.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := ts.tables.UpdateTable(context.Background(), table.ID, TableInput{Status: "AVAILABLE"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != database.TableStatusAVAILABLE || updated.CurrentOrderID.Valid {
		t.Errorf("table still holds an order: %+v", updated)
	}
}

func TestDeleteTable(t *testing.T) {
	ts := newTestServices()
	idle := ts.db.seedTable(1)
	busy := ts.db.seedTable(2)
	if _, err := ts.orders.CreateOrder(context.Background(), CreateOrderRequest{OrderType: "DINE_IN", TableID: &busy.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ts.tables.DeleteTable(context.Background(), busy.ID); !errors.Is(err, ErrTableHasOrder) {
		t.Errorf("busy table: got %v", err)
	}
	if _, ok := ts.db.snapshot().tables[busy.ID]; !ok {
		t.Error("busy table was deleted")
	}

	if err := ts.tables.DeleteTable(context.Background(), idle.ID); err != nil {
		t.Fatalf("idle table: %v", err)
	}
	if _, ok := ts.db.snapshot().tables[idle.ID]; ok {
		t.Error("idle table still present")
	}
	if err := ts.tables.DeleteTable(context.Background(), idle.ID); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestListTables_SortedWithOrderNumber(t *testing.T) {
	ts := newTestServices()
	ts.db.seedTable(10)
	busy := ts.db.seedTable(2)
	created, err := ts.orders.CreateOrder(context.Background(), CreateOrderRequest{OrderType: "DINE_IN", TableID: &busy.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, err := ts.tables.ListTables(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].TableNumber != 2 || rows[1].TableNumber != 10 {
		t.Fatalf("unexpected order: %+v", rows)
	}
	if !rows[0].OrderNumber.Valid || rows[0].OrderNumber.String != created.Order.OrderNumber {
		t.Errorf("order number = %+v", rows[0].OrderNumber)
	}
	if rows[1].OrderNumber.Valid {
		t.Errorf("idle table has an order number: %+v", rows[1].OrderNumber)
	}
}
