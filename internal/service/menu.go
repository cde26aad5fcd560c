package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/counterpos/api/internal/apperror"
	"github.com/counterpos/api/internal/cache"
	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/enum"
	"github.com/counterpos/api/internal/notify"
)

// MenuItemsCacheKey holds the JSON-encoded menu listing.
const MenuItemsCacheKey = "menu:items"

// MenuStore defines the DB methods needed by the menu catalog.
type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]database.ListMenuItemsRow, error)
	ListMenuCategories(ctx context.Context) ([]database.MenuCategory, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) (int64, error)
	SetMenuItemAvailability(ctx context.Context, arg database.SetMenuItemAvailabilityParams) (database.MenuItem, error)
}

// NewMenuStore creates a MenuStore from a DBTX (pool or tx).
type NewMenuStore func(db database.DBTX) MenuStore

// MenuItemInput describes a menu item to create or replace. Nil pointers
// take defaults on create and keep the stored value on update.
type MenuItemInput struct {
	CategoryID      uuid.UUID
	Name            string
	RegularPrice    decimal.Decimal
	JainPrice       *decimal.Decimal
	PrepTimeMinutes *int32
	DisplayOrder    int32
	IsAvailable     *bool
}

// MenuService manages the menu catalog. Listings are cached and the cache
// is dropped on every mutation.
type MenuService struct {
	db       DB
	newStore NewMenuStore
	cache    cache.Store
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewMenuService creates a new MenuService.
func NewMenuService(db DB, newStore NewMenuStore, c cache.Store, notifier notify.Notifier, logger *zap.Logger) *MenuService {
	if c == nil {
		c = cache.Noop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuService{db: db, newStore: newStore, cache: c, notifier: notifier, logger: logger}
}

// ListItems returns every menu item with its category name.
func (s *MenuService) ListItems(ctx context.Context) ([]database.ListMenuItemsRow, error) {
	if raw, err := s.cache.Get(ctx, MenuItemsCacheKey); err == nil {
		var items []database.ListMenuItemsRow
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		s.logger.Warn("discarding undecodable menu cache entry")
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("menu cache read failed", zap.Error(err))
	}

	items, err := s.newStore(s.db).ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}

	if raw, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, MenuItemsCacheKey, raw, 0); err != nil {
			s.logger.Warn("menu cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

// ListCategories returns the menu categories in display order.
func (s *MenuService) ListCategories(ctx context.Context) ([]database.MenuCategory, error) {
	cats, err := s.newStore(s.db).ListMenuCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu categories: %w", err)
	}
	return cats, nil
}

// GetItem returns one menu item.
func (s *MenuService) GetItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error) {
	item, err := s.newStore(s.db).GetMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.MenuItem{}, ErrMenuItemNotFound
		}
		return database.MenuItem{}, fmt.Errorf("get menu item: %w", err)
	}
	return item, nil
}

// AddItem creates a menu item and drops the cached listing.
func (s *MenuService) AddItem(ctx context.Context, in MenuItemInput) (database.MenuItem, error) {
	if err := validateMenuItem(in); err != nil {
		return database.MenuItem{}, err
	}
	prep := int32(enum.DefaultPrepMinutes)
	if in.PrepTimeMinutes != nil {
		prep = *in.PrepTimeMinutes
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	item, err := s.newStore(s.db).CreateMenuItem(ctx, database.CreateMenuItemParams{
		CategoryID:      in.CategoryID,
		Name:            strings.TrimSpace(in.Name),
		RegularPrice:    decimalToNumeric(in.RegularPrice),
		JainPrice:       optionalPrice(in.JainPrice),
		PrepTimeMinutes: prep,
		DisplayOrder:    in.DisplayOrder,
		IsAvailable:     available,
	})
	if err != nil {
		if apperror.IsForeignKeyViolation(err, "") {
			return database.MenuItem{}, ErrCategoryNotFound
		}
		return database.MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}

	s.changed(ctx, notify.ActionAdd, item.ID, item)
	return item, nil
}

// UpdateItem replaces a menu item's fields and drops the cached listing.
func (s *MenuService) UpdateItem(ctx context.Context, id uuid.UUID, in MenuItemInput) (database.MenuItem, error) {
	if err := validateMenuItem(in); err != nil {
		return database.MenuItem{}, err
	}

	store := s.newStore(s.db)
	current, err := store.GetMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.MenuItem{}, ErrMenuItemNotFound
		}
		return database.MenuItem{}, fmt.Errorf("get menu item: %w", err)
	}

	params := database.UpdateMenuItemParams{
		ID:              id,
		CategoryID:      in.CategoryID,
		Name:            strings.TrimSpace(in.Name),
		RegularPrice:    decimalToNumeric(in.RegularPrice),
		JainPrice:       current.JainPrice,
		PrepTimeMinutes: current.PrepTimeMinutes,
		DisplayOrder:    in.DisplayOrder,
		IsAvailable:     current.IsAvailable,
	}
	if in.JainPrice != nil {
		params.JainPrice = optionalPrice(in.JainPrice)
	}
	if in.PrepTimeMinutes != nil {
		params.PrepTimeMinutes = *in.PrepTimeMinutes
	}
	if in.IsAvailable != nil {
		params.IsAvailable = *in.IsAvailable
	}

	item, err := store.UpdateMenuItem(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.MenuItem{}, ErrMenuItemNotFound
		}
		if apperror.IsForeignKeyViolation(err, "") {
			return database.MenuItem{}, ErrCategoryNotFound
		}
		return database.MenuItem{}, fmt.Errorf("update menu item: %w", err)
	}

	s.changed(ctx, notify.ActionUpdate, item.ID, item)
	return item, nil
}

// DeleteItem removes a menu item that no order line references.
func (s *MenuService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	n, err := s.newStore(s.db).DeleteMenuItem(ctx, id)
	if err != nil {
		if apperror.IsForeignKeyViolation(err, "") {
			return ErrMenuItemReferenced
		}
		return fmt.Errorf("delete menu item: %w", err)
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}

	s.changed(ctx, notify.ActionDelete, id, nil)
	return nil
}

// SetAvailability toggles whether an item is offered. Availability is
// informational: orders can still add unavailable items.
func (s *MenuService) SetAvailability(ctx context.Context, id uuid.UUID, available *bool) (database.MenuItem, error) {
	if available == nil {
		return database.MenuItem{}, ErrAvailabilityRequired
	}

	item, err := s.newStore(s.db).SetMenuItemAvailability(ctx, database.SetMenuItemAvailabilityParams{
		ID:          id,
		IsAvailable: *available,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.MenuItem{}, ErrMenuItemNotFound
		}
		return database.MenuItem{}, fmt.Errorf("set availability: %w", err)
	}

	s.changed(ctx, notify.ActionUpdate, item.ID, item)
	return item, nil
}

func (s *MenuService) changed(ctx context.Context, action string, id uuid.UUID, item any) {
	if err := s.cache.Delete(ctx, MenuItemsCacheKey); err != nil {
		s.logger.Warn("menu cache invalidation failed", zap.Error(err))
	}
	s.notifier.Notify(ctx, notify.EventMenuUpdated, notify.CatalogChanged{
		Action: action,
		ID:     id,
		Item:   item,
	})
}

func validateMenuItem(in MenuItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.CategoryID == uuid.Nil {
		return ErrCategoryNotFound
	}
	if in.RegularPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if in.JainPrice != nil && in.JainPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if in.PrepTimeMinutes != nil && *in.PrepTimeMinutes < 0 {
		return ErrInvalidPrepTime
	}
	return nil
}

func optionalPrice(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return decimalToNumeric(*d)
}
