// Command kds is a terminal kitchen display. It logs in as a kitchen
// terminal, keeps the kitchen queue current from the push channel, and
// serves items typed on stdin ("serve 3").
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/counterpos/api/internal/clientstate"
	"github.com/counterpos/api/internal/config"
	"github.com/counterpos/api/internal/logger"
)

type queueEntry struct {
	QueueID     uuid.UUID `json:"queue_id"`
	OrderID     uuid.UUID `json:"order_id"`
	OrderItemID uuid.UUID `json:"order_item_id"`
	ItemName    string    `json:"item_name"`
	Quantity    int32     `json:"quantity"`
	OrderNumber string    `json:"order_number"`
	OrderType   string    `json:"order_type"`
	TableNumber *int32    `json:"table_number"`
	CreatedAt   time.Time `json:"created_at"`
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	apiURL := flag.String("api", envOr("KDS_API_URL", "http://localhost:"+cfg.Port+"/api"), "API base URL")
	terminal := flag.String("terminal", envOr("KDS_TERMINAL", "kitchen-1"), "terminal name")
	pin := flag.String("pin", os.Getenv("KDS_PIN"), "terminal PIN")
	flag.Parse()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := clientstate.NewAPIClient(*apiURL, "")
	if err := client.Login(ctx, *terminal, *pin); err != nil {
		log.Fatal("login failed", zap.String("terminal", *terminal), zap.Error(err))
	}

	store := clientstate.NewStore(client, log, clientstate.KeyKitchen)
	defer store.Close()

	store.Subscribe(clientstate.KeyKitchen, func(raw json.RawMessage) {
		var entries []queueEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			log.Warn("bad kitchen queue payload", zap.Error(err))
			return
		}
		render(entries)
	})

	current := func() []queueEntry {
		var entries []queueEntry
		_ = store.Decode(clientstate.KeyKitchen, &entries)
		return entries
	}
	go readCommands(ctx, stop, client, store, current, log)

	stream := clientstate.NewStream(wsURL(*apiURL), client.Token(), log)
	if err := clientstate.Follow(ctx, stream, store, log); err != nil && ctx.Err() == nil {
		log.Fatal("push channel stopped", zap.Error(err))
	}
}

func render(entries []queueEntry) {
	fmt.Print("\033[H\033[2J")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tORDER\tWHERE\tITEM\tQTY\tWAITING")
	for i, e := range entries {
		where := e.OrderType
		if e.TableNumber != nil {
			where = fmt.Sprintf("table %d", *e.TableNumber)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", i+1, e.OrderNumber, where, e.ItemName, e.Quantity,
			time.Since(e.CreatedAt).Truncate(time.Second))
	}
	w.Flush()
	fmt.Println("\nserve <#> | parcel <order number> | quit")
}

func readCommands(ctx context.Context, quit func(), client *clientstate.APIClient, store *clientstate.Store, current func() []queueEntry, log *zap.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "q":
			quit()
			return
		case "serve", "s":
			if len(fields) != 2 {
				fmt.Println("usage: serve <#>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			entries := current()
			if err != nil || n < 1 || n > len(entries) {
				fmt.Println("no such row")
				continue
			}
			serveOne(ctx, client, store, entries[n-1], log)
		case "parcel", "p":
			if len(fields) != 2 {
				fmt.Println("usage: parcel <order number>")
				continue
			}
			serveParcel(ctx, client, store, current(), fields[1], log)
		default:
			fmt.Println("unknown command")
		}
	}
}

// serveOne drops one unit from the row at once and puts it back if the
// server refuses.
func serveOne(ctx context.Context, client *clientstate.APIClient, store *clientstate.Store, e queueEntry, log *zap.Logger) {
	err := store.Optimistic(ctx, clientstate.KeyKitchen,
		func(raw json.RawMessage) (json.RawMessage, error) {
			var entries []queueEntry
			if err := json.Unmarshal(raw, &entries); err != nil {
				return nil, err
			}
			next := entries[:0]
			for _, x := range entries {
				if x.QueueID == e.QueueID {
					x.Quantity--
					if x.Quantity <= 0 {
						continue
					}
				}
				next = append(next, x)
			}
			return json.Marshal(next)
		},
		func(ctx context.Context) error {
			_, err := client.ServeItem(ctx, e.QueueID, e.OrderItemID)
			return err
		},
	)
	if err != nil {
		log.Warn("serve failed", zap.String("order_number", e.OrderNumber), zap.Error(err))
		fmt.Println("serve failed:", err)
	}
}

func serveParcel(ctx context.Context, client *clientstate.APIClient, store *clientstate.Store, entries []queueEntry, orderNumber string, log *zap.Logger) {
	var (
		orderID uuid.UUID
		pairs   []clientstate.ServePair
	)
	for _, e := range entries {
		if e.OrderNumber != orderNumber {
			continue
		}
		orderID = e.OrderID
		for i := int32(0); i < e.Quantity; i++ {
			pairs = append(pairs, clientstate.ServePair{QueueID: e.QueueID, OrderItemID: e.OrderItemID})
		}
	}
	if len(pairs) == 0 {
		fmt.Println("no queued items for", orderNumber)
		return
	}

	if err := client.ServeParcel(ctx, orderID, pairs); err != nil {
		log.Warn("parcel serve failed", zap.String("order_number", orderNumber), zap.Error(err))
		fmt.Println("parcel failed:", err)
	}
	if err := store.Refresh(ctx, clientstate.KeyKitchen); err != nil {
		log.Warn("refresh after parcel failed", zap.Error(err))
	}
}

func wsURL(apiURL string) string {
	u := strings.TrimRight(apiURL, "/") + "/ws"
	if rest, ok := strings.CutPrefix(u, "https://"); ok {
		return "wss://" + rest
	}
	if rest, ok := strings.CutPrefix(u, "http://"); ok {
		return "ws://" + rest
	}
	return u
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
