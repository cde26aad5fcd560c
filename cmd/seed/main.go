package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/counterpos/api/internal/config"
	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/logger"
)

type seedItem struct {
	name      string
	price     string
	jainPrice string
	prep      int
}

type seedCategory struct {
	name  string
	items []seedItem
}

var menu = []seedCategory{
	{name: "Breakfast", items: []seedItem{
		{name: "Idli (2 pcs)", price: "40.00", jainPrice: "45.00", prep: 5},
		{name: "Medu Vada", price: "45.00", prep: 8},
		{name: "Masala Dosa", price: "100.00", jainPrice: "110.00", prep: 12},
		{name: "Rava Upma", price: "60.00", prep: 10},
	}},
	{name: "Meals", items: []seedItem{
		{name: "South Indian Thali", price: "180.00", prep: 15},
		{name: "Curd Rice", price: "80.00", prep: 5},
	}},
	{name: "Beverages", items: []seedItem{
		{name: "Filter Coffee", price: "20.50", prep: 3},
		{name: "Masala Chai", price: "20.00", prep: 3},
		{name: "Sweet Lassi", price: "60.00", prep: 4},
	}},
}

func main() {
	_ = godotenv.Load()

	// CLI flags
	tables := flag.Int("tables", 10, "Number of dining tables to create")
	managerPin := flag.String("manager-pin", "", "PIN for the manager terminal")
	counterPin := flag.String("counter-pin", "", "PIN for the counter terminal")
	kitchenPin := flag.String("kitchen-pin", "", "PIN for the kitchen terminal")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	// Fall back to environment variables, then defaults
	pins := map[string]string{
		"MANAGER": firstNonEmpty(*managerPin, os.Getenv("SEED_MANAGER_PIN"), "9999"),
		"COUNTER": firstNonEmpty(*counterPin, os.Getenv("SEED_COUNTER_PIN"), "1111"),
		"KITCHEN": firstNonEmpty(*kitchenPin, os.Getenv("SEED_KITCHEN_PIN"), "2222"),
	}
	if *managerPin == "" && os.Getenv("SEED_MANAGER_PIN") == "" {
		log.Warn("using default manager PIN; change it before going live")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("unable to connect to database", zap.Error(err))
	}
	defer pool.Close()
	log.Info("connected to database")

	// Seed in one transaction: all reference data or none
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal("failed to begin transaction", zap.Error(err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	s := seeder{tx: tx, log: log}
	if err := s.menu(ctx); err != nil {
		log.Fatal("failed to seed menu", zap.Error(err))
	}
	if err := s.tables(ctx, *tables); err != nil {
		log.Fatal("failed to seed tables", zap.Error(err))
	}
	for _, role := range []string{"MANAGER", "COUNTER", "KITCHEN"} {
		if err := s.terminal(ctx, role, pins[role]); err != nil {
			log.Fatal("failed to seed terminal", zap.String("role", role), zap.Error(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatal("failed to commit", zap.Error(err))
	}
	log.Info("seed completed successfully")
}

type seeder struct {
	tx  pgx.Tx
	log *zap.Logger
}

// menu creates categories and items that don't exist yet.
func (s seeder) menu(ctx context.Context) error {
	for i, cat := range menu {
		var catID uuid.UUID
		err := s.tx.QueryRow(ctx, `
			INSERT INTO menu_categories (name, display_order)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET display_order = EXCLUDED.display_order
			RETURNING id
		`, cat.name, i+1).Scan(&catID)
		if err != nil {
			return fmt.Errorf("upsert category %q: %w", cat.name, err)
		}

		for j, item := range cat.items {
			var existing uuid.UUID
			err := s.tx.QueryRow(ctx,
				`SELECT id FROM menu_items WHERE category_id = $1 AND name = $2`,
				catID, item.name,
			).Scan(&existing)
			if err == nil {
				s.log.Debug("menu item exists, skipping", zap.String("name", item.name))
				continue
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("check menu item %q: %w", item.name, err)
			}

			var jain *string
			if item.jainPrice != "" {
				jain = &item.jainPrice
			}
			_, err = s.tx.Exec(ctx, `
				INSERT INTO menu_items (category_id, name, regular_price, jain_price, prep_time_minutes, display_order)
				VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6)
			`, catID, item.name, item.price, jain, item.prep, j+1)
			if err != nil {
				return fmt.Errorf("insert menu item %q: %w", item.name, err)
			}
		}
		s.log.Info("seeded category", zap.String("name", cat.name), zap.Int("items", len(cat.items)))
	}
	return nil
}

func (s seeder) tables(ctx context.Context, n int) error {
	for i := 1; i <= n; i++ {
		capacity := 4
		if i%3 == 0 {
			capacity = 6
		}
		_, err := s.tx.Exec(ctx, `
			INSERT INTO dining_tables (table_number, capacity)
			VALUES ($1, $2)
			ON CONFLICT ON CONSTRAINT dining_tables_table_number_key DO NOTHING
		`, i, capacity)
		if err != nil {
			return fmt.Errorf("insert table %d: %w", i, err)
		}
	}
	s.log.Info("seeded tables", zap.Int("count", n))
	return nil
}

// terminal creates the terminal for role, or resets its PIN when it exists.
func (s seeder) terminal(ctx context.Context, role, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}

	name := strings.ToLower(role) + "-1"
	_, err = s.tx.Exec(ctx, `
		INSERT INTO terminals (name, role, pin_hash)
		VALUES ($1, $2::terminal_role, $3)
		ON CONFLICT (name) DO UPDATE SET pin_hash = EXCLUDED.pin_hash, is_active = true
	`, name, role, string(hash))
	if err != nil {
		return fmt.Errorf("upsert terminal %q: %w", name, err)
	}
	s.log.Info("seeded terminal", zap.String("name", name), zap.String("role", role))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
