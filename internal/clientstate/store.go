// Package clientstate keeps terminal-side copies of server views (orders,
// tables, menu, kitchen queue, bills) and refreshes them when push events
// hint that they changed.
//
// A Store belongs to one view. Create it when the view opens and Close it
// when the view goes away; nothing here is package-level state.
package clientstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/counterpos/api/internal/notify"
	"github.com/counterpos/api/internal/ws"
)

// Key names one cached view.
type Key string

const (
	KeyOrders  Key = "orders"
	KeyTables  Key = "tables"
	KeyMenu    Key = "menu"
	KeyKitchen Key = "kitchen"
	KeyBills   Key = "bills"
)

// AllKeys lists every view in refresh order.
var AllKeys = []Key{KeyOrders, KeyTables, KeyMenu, KeyKitchen, KeyBills}

// RequestTimeout bounds every fetch and optimistic request.
const RequestTimeout = 10 * time.Second

var (
	// ErrClosed is returned by operations on a closed Store.
	ErrClosed = errors.New("clientstate: store closed")
	// ErrUntracked is returned for a key the Store was not created with.
	ErrUntracked = errors.New("clientstate: key not tracked")
)

// Fetcher loads the current server copy of a view. Satisfied by *APIClient.
type Fetcher interface {
	Fetch(ctx context.Context, key Key) (json.RawMessage, error)
}

// affected maps an event type to the views it invalidates.
var affected = map[string][]Key{
	notify.EventOrderCreated:        {KeyOrders, KeyKitchen},
	notify.EventOrderUpdated:        {KeyOrders},
	notify.EventOrderItemStatus:     {KeyOrders, KeyKitchen},
	notify.EventKitchenQueueUpdated: {KeyKitchen},
	notify.EventTableStatusUpdated:  {KeyTables},
	notify.EventTablesUpdated:       {KeyTables},
	notify.EventBillCreated:         {KeyBills},
	notify.EventBillUpdated:         {KeyBills},
	notify.EventMenuUpdated:         {KeyMenu},
}

// KeysFor returns the views an event invalidates.
func KeysFor(eventType string) []Key {
	return affected[eventType]
}

// Store is an observable set of cached views.
type Store struct {
	fetcher Fetcher
	logger  *zap.Logger
	timeout time.Duration
	tracked []Key

	mu       sync.Mutex
	data     map[Key]json.RawMessage
	versions map[Key]uint64
	subs     map[Key]map[int]func(json.RawMessage)
	nextID   int
	closed   bool
}

// NewStore creates an empty Store backed by f that tracks keys, or every
// key when none are given. Resync and Apply only fetch tracked keys, so a
// kitchen display never asks for views its role cannot read.
func NewStore(f Fetcher, logger *zap.Logger, keys ...Key) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	tracked := AllKeys
	if len(keys) > 0 {
		tracked = nil
		for _, k := range AllKeys {
			if slices.Contains(keys, k) {
				tracked = append(tracked, k)
			}
		}
	}
	return &Store{
		fetcher:  f,
		logger:   logger,
		timeout:  RequestTimeout,
		tracked:  tracked,
		data:     make(map[Key]json.RawMessage),
		versions: make(map[Key]uint64),
		subs:     make(map[Key]map[int]func(json.RawMessage)),
	}
}

// Tracks reports whether key is one of the store's views.
func (s *Store) Tracks(key Key) bool {
	return slices.Contains(s.tracked, key)
}

// Get returns the cached value of key, if it has been loaded.
func (s *Store) Get(key Key) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Decode unmarshals the cached value of key into out.
func (s *Store) Decode(key Key, out any) error {
	raw, ok := s.Get(key)
	if !ok {
		return fmt.Errorf("clientstate: %s not loaded", key)
	}
	return json.Unmarshal(raw, out)
}

// Subscribe registers fn to run with the new value whenever key changes.
// The returned func removes the subscription.
func (s *Store) Subscribe(key Key, fn func(json.RawMessage)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func(json.RawMessage))
	}
	id := s.nextID
	s.nextID++
	s.subs[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs[key], id)
		})
	}
}

// Refresh re-fetches key from the server and publishes the result.
func (s *Store) Refresh(ctx context.Context, key Key) error {
	if s.isClosed() {
		return ErrClosed
	}
	if !s.Tracks(key) {
		return fmt.Errorf("refresh %s: %w", key, ErrUntracked)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.fetcher.Fetch(ctx, key)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", key, err)
	}
	s.set(key, raw)
	return nil
}

// Resync re-fetches every tracked view. Used after the push channel
// reconnects, since events may have been missed while it was down.
func (s *Store) Resync(ctx context.Context) error {
	var errs []error
	for _, key := range s.tracked {
		if err := s.Refresh(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Apply treats ev as a hint and refreshes the tracked views it affects.
// Payloads are never applied directly.
func (s *Store) Apply(ctx context.Context, ev ws.Event) error {
	keys := KeysFor(ev.Type)
	if len(keys) == 0 {
		s.logger.Debug("ignoring unknown event", zap.String("type", ev.Type))
		return nil
	}

	var errs []error
	for _, key := range keys {
		if !s.Tracks(key) {
			continue
		}
		if err := s.Refresh(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Optimistic publishes update's result for key immediately, then runs
// request. If request fails or exceeds the request timeout, the prior value
// is restored and the error returned. When the key changed while the
// request was in flight (a push-driven refresh), the newer value is kept
// and the key is re-fetched instead of going back to the older snapshot.
func (s *Store) Optimistic(ctx context.Context, key Key, update func(json.RawMessage) (json.RawMessage, error), request func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	prior, hadPrior := s.data[key]
	s.mu.Unlock()
	if !s.Tracks(key) {
		return fmt.Errorf("optimistic %s: %w", key, ErrUntracked)
	}

	next, err := update(prior)
	if err != nil {
		return fmt.Errorf("optimistic %s: %w", key, err)
	}
	version := s.set(key, next)

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := request(reqCtx); err != nil {
		s.revert(ctx, key, version, prior, hadPrior)
		s.logger.Warn("optimistic update reverted", zap.String("key", string(key)), zap.Error(err))
		return err
	}
	return nil
}

// revert undoes an optimistic change made at version. A key that moved on
// since then is re-fetched rather than restored.
func (s *Store) revert(ctx context.Context, key Key, version uint64, prior json.RawMessage, hadPrior bool) {
	s.mu.Lock()
	moved := s.versions[key] != version
	s.mu.Unlock()

	if moved {
		if err := s.Refresh(ctx, key); err != nil {
			s.logger.Warn("refresh after failed optimistic update", zap.String("key", string(key)), zap.Error(err))
		}
		return
	}
	if hadPrior {
		s.set(key, prior)
	} else {
		s.unset(key)
	}
}

// Close drops every subscriber and the cached data. Later calls are no-ops.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[Key]map[int]func(json.RawMessage))
	s.data = make(map[Key]json.RawMessage)
	s.versions = make(map[Key]uint64)
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// set stores raw, notifies listeners, and returns the key's new version.
func (s *Store) set(key Key, raw json.RawMessage) uint64 {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	s.data[key] = raw
	s.versions[key]++
	version := s.versions[key]
	listeners := make([]func(json.RawMessage), 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	// Listeners run outside the lock so they may call back into the store.
	for _, fn := range listeners {
		fn(raw)
	}
	return version
}

func (s *Store) unset(key Key) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.data, key)
	s.versions[key]++
	listeners := make([]func(json.RawMessage), 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
}
