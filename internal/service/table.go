package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/counterpos/api/internal/apperror"
	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/enum"
	"github.com/counterpos/api/internal/notify"
)

const tableNumberConstraint = "dining_tables_table_number_key"

// TableStore defines the DB methods needed to manage dining tables.
type TableStore interface {
	ListTables(ctx context.Context) ([]database.ListTablesRow, error)
	GetTable(ctx context.Context, id uuid.UUID) (database.DiningTable, error)
	GetTableForUpdate(ctx context.Context, id uuid.UUID) (database.DiningTable, error)
	CreateTable(ctx context.Context, arg database.CreateTableParams) (database.DiningTable, error)
	UpdateTable(ctx context.Context, arg database.UpdateTableParams) (database.DiningTable, error)
	DeleteIdleTable(ctx context.Context, id uuid.UUID) (int64, error)
}

// NewTableStore creates a TableStore from a DBTX (pool or tx).
type NewTableStore func(db database.DBTX) TableStore

// TableInput is the editable part of a table. Zero Capacity means the
// default; empty Status means AVAILABLE on create and unchanged on update.
type TableInput struct {
	TableNumber int32
	Capacity    int32
	Status      string
}

// TableService manages dining tables.
type TableService struct {
	db       DB
	newStore NewTableStore
	notifier notify.Notifier
}

// NewTableService creates a new TableService.
func NewTableService(db DB, newStore NewTableStore, notifier notify.Notifier) *TableService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &TableService{db: db, newStore: newStore, notifier: notifier}
}

// ListTables returns all tables by number with their active order number.
func (s *TableService) ListTables(ctx context.Context) ([]database.ListTablesRow, error) {
	rows, err := s.newStore(s.db).ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return rows, nil
}

// AddTable creates a table, AVAILABLE unless a status is given. A taken
// number is a Conflict.
func (s *TableService) AddTable(ctx context.Context, in TableInput) (database.DiningTable, error) {
	if in.TableNumber <= 0 {
		return database.DiningTable{}, ErrInvalidTableNumber
	}
	if in.Capacity < 0 {
		return database.DiningTable{}, ErrInvalidCapacity
	}
	if in.Capacity == 0 {
		in.Capacity = enum.DefaultTableCapacity
	}
	status := database.TableStatusAVAILABLE
	if in.Status != "" {
		st, err := parseTableStatus(in.Status)
		if err != nil {
			return database.DiningTable{}, err
		}
		status = st
	}

	table, err := s.newStore(s.db).CreateTable(ctx, database.CreateTableParams{
		TableNumber: in.TableNumber,
		Capacity:    in.Capacity,
		Status:      status,
	})
	if err != nil {
		if apperror.IsUniqueViolation(err, tableNumberConstraint) {
			return database.DiningTable{}, ErrTableNumberTaken
		}
		return database.DiningTable{}, fmt.Errorf("create table: %w", err)
	}

	s.notifier.Notify(ctx, notify.EventTablesUpdated, notify.CatalogChanged{
		Action: notify.ActionAdd,
		ID:     table.ID,
		Item:   table,
	})
	return table, nil
}

// UpdateTable edits a table. Setting it AVAILABLE releases any order it
// was holding.
func (s *TableService) UpdateTable(ctx context.Context, id uuid.UUID, in TableInput) (database.DiningTable, error) {
	if in.TableNumber < 0 {
		return database.DiningTable{}, ErrInvalidTableNumber
	}
	if in.Capacity < 0 {
		return database.DiningTable{}, ErrInvalidCapacity
	}
	var status database.TableStatus
	if in.Status != "" {
		st, err := parseTableStatus(in.Status)
		if err != nil {
			return database.DiningTable{}, err
		}
		status = st
	}

	var table database.DiningTable
	err := runInTx(ctx, s.db, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		current, err := store.GetTableForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTableNotFound
			}
			return fmt.Errorf("lock table: %w", err)
		}

		params := database.UpdateTableParams{
			ID:             id,
			TableNumber:    current.TableNumber,
			Capacity:       current.Capacity,
			Status:         current.Status,
			CurrentOrderID: current.CurrentOrderID,
		}
		if in.TableNumber > 0 {
			params.TableNumber = in.TableNumber
		}
		if in.Capacity > 0 {
			params.Capacity = in.Capacity
		}
		if status != "" {
			params.Status = status
		}
		if params.Status == database.TableStatusAVAILABLE {
			params.CurrentOrderID = pgtype.UUID{}
		}

		table, err = store.UpdateTable(ctx, params)
		if err != nil {
			if apperror.IsUniqueViolation(err, tableNumberConstraint) {
				return ErrTableNumberTaken
			}
			return fmt.Errorf("update table: %w", err)
		}
		return nil
	})
	if err != nil {
		return database.DiningTable{}, err
	}

	s.notifier.Notify(ctx, notify.EventTablesUpdated, notify.CatalogChanged{
		Action: notify.ActionUpdate,
		ID:     table.ID,
		Item:   table,
	})
	return table, nil
}

// DeleteTable removes a table that holds no order. The check and the delete
// are one statement; the follow-up read only picks the error to report.
func (s *TableService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	store := s.newStore(s.db)
	n, err := store.DeleteIdleTable(ctx, id)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if n == 0 {
		if _, err := store.GetTable(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTableNotFound
			}
			return fmt.Errorf("get table: %w", err)
		}
		return ErrTableHasOrder
	}

	s.notifier.Notify(ctx, notify.EventTablesUpdated, notify.CatalogChanged{
		Action: notify.ActionDelete,
		ID:     id,
	})
	return nil
}

func parseTableStatus(s string) (database.TableStatus, error) {
	switch st := database.TableStatus(s); st {
	case database.TableStatusAVAILABLE, database.TableStatusOCCUPIED, database.TableStatusBILLED:
		return st, nil
	}
	return "", ErrInvalidTableStatus
}
