//go:build integration

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/counterpos/api/internal/cache"
	"github.com/counterpos/api/internal/config"
	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/metrics"
	"github.com/counterpos/api/internal/migration"
	"github.com/counterpos/api/internal/router"
	"github.com/counterpos/api/internal/ws"
)

// TestIntegrationFlow runs the counter-to-bill lifecycle against a real
// PostgreSQL database with every handler wired through the router.
func TestIntegrationFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connStr, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	runMigrations(t, connStr)

	pool, err := database.Connect(ctx, connStr)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	cfg := &config.Config{
		JWTSecret:          "integration-test-secret",
		JWTTTL:             time.Hour,
		CorsAllowedOrigins: []string{"*"},
	}
	logger := zaptest.NewLogger(t)
	m := metrics.New()
	hub := ws.NewHub(logger, m)
	go hub.Run(ctx)

	srv := httptest.NewServer(router.New(cfg, router.Deps{
		Pool:      pool,
		Hub:       hub,
		Notifier:  hub,
		MenuCache: cache.Noop(),
		Logger:    logger,
		Metrics:   m,
	}))
	defer srv.Close()

	categoryID := seedReferenceData(t, ctx, pool)
	api := &apiClient{t: t, base: srv.URL + "/api"}

	// ── Login ──
	var login struct {
		AccessToken string `json:"access_token"`
	}
	api.do("POST", "/auth/login", "", map[string]string{"terminal": "manager-1", "pin": "9999"}, http.StatusOK, &login)
	token := login.AccessToken

	var kitchenLogin struct {
		AccessToken string `json:"access_token"`
	}
	api.do("POST", "/auth/login", "", map[string]string{"terminal": "kitchen-1", "pin": "2222"}, http.StatusOK, &kitchenLogin)

	// ── Push channel ──
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()

	// ── Catalog ──
	var item struct {
		ID           uuid.UUID `json:"id"`
		RegularPrice string    `json:"regular_price"`
	}
	api.do("POST", "/menu", token, map[string]any{
		"category_id":   categoryID.String(),
		"name":          "Item A",
		"regular_price": "100",
	}, http.StatusCreated, &item)
	if item.RegularPrice != "100.00" {
		t.Errorf("regular_price: got %s, want 100.00", item.RegularPrice)
	}

	// Kitchen terminals cannot edit the menu.
	api.do("POST", "/menu", kitchenLogin.AccessToken, map[string]any{
		"category_id":   categoryID.String(),
		"name":          "Item B",
		"regular_price": "5",
	}, http.StatusForbidden, nil)

	var table struct {
		ID uuid.UUID `json:"id"`
	}
	api.do("POST", "/tables", token, map[string]any{"table_number": 1}, http.StatusCreated, &table)

	// ── Order ──
	var order struct {
		ID          uuid.UUID `json:"id"`
		OrderNumber string    `json:"order_number"`
		FinalAmount string    `json:"final_amount"`
		Items       []struct {
			ID uuid.UUID `json:"id"`
		} `json:"items"`
	}
	api.do("POST", "/orders", token, map[string]any{
		"order_type": "DINE_IN",
		"table_id":   table.ID.String(),
		"items":      []map[string]any{{"menu_item_id": item.ID.String(), "quantity": 2}},
	}, http.StatusCreated, &order)
	if order.FinalAmount != "210.00" {
		t.Errorf("final_amount: got %s, want 210.00", order.FinalAmount)
	}
	if len(order.Items) != 1 {
		t.Fatalf("order items: got %d, want 1", len(order.Items))
	}
	expectEvent(t, conn, "order.created")

	tables := api.tables(token)
	if tables[0]["status"] != "OCCUPIED" || tables[0]["order_number"] != order.OrderNumber {
		t.Errorf("table after order: got %v", tables[0])
	}

	// The occupied table cannot take a second order.
	api.do("POST", "/orders", token, map[string]any{
		"order_type": "DINE_IN",
		"table_id":   table.ID.String(),
		"items":      []map[string]any{{"menu_item_id": item.ID.String(), "quantity": 1}},
	}, http.StatusConflict, nil)

	// Kitchen terminals cannot take orders.
	api.do("POST", "/orders", kitchenLogin.AccessToken, map[string]any{
		"order_type": "PARCEL",
		"items":      []map[string]any{{"menu_item_id": item.ID.String(), "quantity": 1}},
	}, http.StatusForbidden, nil)

	// An unknown menu item writes nothing.
	before := countRows(t, ctx, pool, "orders")
	api.do("POST", "/orders", token, map[string]any{
		"order_type": "PARCEL",
		"items": []map[string]any{
			{"menu_item_id": item.ID.String(), "quantity": 1},
			{"menu_item_id": uuid.New().String(), "quantity": 1},
		},
	}, http.StatusNotFound, nil)
	if after := countRows(t, ctx, pool, "orders"); after != before {
		t.Errorf("orders after failed create: got %d, want %d", after, before)
	}

	// ── Kitchen ──
	var queue []struct {
		QueueID     uuid.UUID `json:"queue_id"`
		OrderItemID uuid.UUID `json:"order_item_id"`
		Quantity    int32     `json:"quantity"`
	}
	api.do("GET", "/kitchen/queue", kitchenLogin.AccessToken, nil, http.StatusOK, &queue)
	if len(queue) != 1 || queue[0].Quantity != 2 {
		t.Fatalf("queue: got %+v", queue)
	}

	var served struct {
		Outcome   string `json:"outcome"`
		Remaining int32  `json:"remaining"`
		Item      struct {
			Status         string `json:"status"`
			ServedQuantity int32  `json:"served_quantity"`
		} `json:"item"`
	}
	api.do("PATCH", "/kitchen/serve-item", kitchenLogin.AccessToken, map[string]string{
		"queue_id":      queue[0].QueueID.String(),
		"order_item_id": queue[0].OrderItemID.String(),
	}, http.StatusOK, &served)
	if served.Outcome != "served" || served.Remaining != 1 {
		t.Errorf("serve: got %+v", served)
	}
	if served.Item.Status != "SERVED" || served.Item.ServedQuantity != 1 {
		t.Errorf("served item: got %+v", served.Item)
	}

	// ── Bill ──
	var bill struct {
		TotalAmount   string `json:"total_amount"`
		PaymentStatus string `json:"payment_status"`
		BillNumber    string `json:"bill_number"`
	}
	api.do("POST", "/bills/generate", token, map[string]string{"order_id": order.ID.String()}, http.StatusCreated, &bill)
	if bill.TotalAmount != "210.00" || bill.PaymentStatus != "PENDING" {
		t.Errorf("bill: got %+v", bill)
	}
	if !strings.HasPrefix(bill.BillNumber, "BILL-") {
		t.Errorf("bill_number: got %s", bill.BillNumber)
	}

	api.do("POST", "/bills/generate", token, map[string]string{"order_id": order.ID.String()}, http.StatusConflict, nil)

	tables = api.tables(token)
	if tables[0]["status"] != "AVAILABLE" || tables[0]["current_order_id"] != nil {
		t.Errorf("table after bill: got %v", tables[0])
	}

	var fetched struct {
		Status string `json:"status"`
	}
	api.do("GET", "/orders/"+order.ID.String(), token, nil, http.StatusOK, &fetched)
	if fetched.Status != "BILLED" {
		t.Errorf("order status: got %s, want BILLED", fetched.Status)
	}
}

// --- Helpers ---

type apiClient struct {
	t    *testing.T
	base string
}

func (c *apiClient) do(method, path, token string, body any, wantStatus int, out any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var msg map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		c.t.Fatalf("%s %s: status %d, want %d (%v)", method, path, resp.StatusCode, wantStatus, msg)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
}

func (c *apiClient) tables(token string) []map[string]any {
	c.t.Helper()
	var list []map[string]any
	c.do("GET", "/tables", token, nil, http.StatusOK, &list)
	if len(list) == 0 {
		c.t.Fatal("expected at least one table")
	}
	return list
}

func expectEvent(t *testing.T, conn *websocket.Conn, eventType string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var ev ws.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("waiting for %s: %v", eventType, err)
		}
		if ev.Type == eventType {
			return
		}
	}
}

func seedReferenceData(t *testing.T, ctx context.Context, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	var categoryID uuid.UUID
	if err := pool.QueryRow(ctx,
		`INSERT INTO menu_categories (name, display_order) VALUES ('Mains', 1) RETURNING id`,
	).Scan(&categoryID); err != nil {
		t.Fatalf("insert category: %v", err)
	}

	for name, pin := range map[string]string{"manager-1": "9999", "kitchen-1": "2222"} {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash pin: %v", err)
		}
		role := strings.ToUpper(strings.TrimSuffix(name, "-1"))
		if _, err := pool.Exec(ctx,
			`INSERT INTO terminals (name, role, pin_hash) VALUES ($1, $2::terminal_role, $3)`,
			name, role, string(hash),
		); err != nil {
			t.Fatalf("insert terminal %s: %v", name, err)
		}
	}
	return categoryID
}

func countRows(t *testing.T, ctx context.Context, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func setupPostgresContainer(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	cleanup := func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}
	return connStr, cleanup
}

func runMigrations(t *testing.T, connStr string) {
	t.Helper()

	// Go test sets cwd to the package directory (internal/handler/).
	m, err := migration.New(connStr, "file://../../migrations", nil)
	if err != nil {
		t.Fatalf("create migrator: %v", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}
