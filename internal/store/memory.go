package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"menucatalog/internal/auth"
	"menucatalog/internal/catalog"
	"menucatalog/internal/database/relational"
	"menucatalog/internal/metric"
	"menucatalog/internal/source"
)

// MemoryStore keeps the catalog in memory and the cart in a CartRepository.
// All methods are safe for concurrent use.
type MemoryStore struct {
	cfg      Config
	cart     relational.CartRepository
	authn    auth.Authenticator
	recorder metric.Recorder
	log      *zap.Logger

	mu      sync.RWMutex
	items   []catalog.MenuItem
	loading bool
	errMsg  string
	user    string

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

func WithConfig(cfg Config) Option {
	return func(s *MemoryStore) { s.cfg = cfg }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *MemoryStore) {
		if log != nil {
			s.log = log
		}
	}
}

func WithRecorder(rec metric.Recorder) Option {
	return func(s *MemoryStore) {
		if rec != nil {
			s.recorder = rec
		}
	}
}

func NewMemoryStore(cart relational.CartRepository, authn auth.Authenticator, opts ...Option) (*MemoryStore, error) {
	if cart == nil || authn == nil {
		return nil, errors.New("cart repository and authenticator are required")
	}
	s := &MemoryStore{
		cfg:      DefaultConfig(),
		cart:     cart,
		authn:    authn,
		recorder: metric.Nop{},
		log:      zap.NewNop(),
		subs:     make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	s.log = s.log.Named("store")
	return s, nil
}

func (s *MemoryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *MemoryStore) snapshotLocked() Snapshot {
	var items []catalog.MenuItem
	if s.items != nil {
		items = make([]catalog.MenuItem, len(s.items))
		copy(items, s.items)
	}
	return Snapshot{
		MenuItems:       items,
		Loading:         s.loading,
		Error:           s.errMsg,
		IsAuthenticated: s.user != "",
		User:            s.user,
	}
}

// Subscribe returns a channel that receives a snapshot after every change.
// The channel holds one pending snapshot; a slow reader only sees the newest.
// Call the returned func to unsubscribe.
func (s *MemoryStore) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

// publish must be called with s.mu held.
func (s *MemoryStore) publish() {
	snap := s.snapshotLocked()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Refresh loads the catalog from src. Loading is true for the duration;
// on failure the previous items are kept and the error message is exposed.
func (s *MemoryStore) Refresh(ctx context.Context, src source.Source) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.publish()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RefreshTimeout)
	defer cancel()

	items, err := src.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = err.Error()
		s.recorder.CatalogLoad(metric.ResultError)
		s.log.Error("catalog load failed", zap.String("source", src.Name()), zap.Error(err))
	} else {
		s.setItemsLocked(items)
		s.recorder.CatalogLoad(metric.ResultOK)
		s.log.Info("catalog loaded", zap.String("source", src.Name()), zap.Int("items", len(items)))
	}
	s.publish()
	return err
}

// SetCatalog replaces the catalog, or records err when it is non-nil.
func (s *MemoryStore) SetCatalog(items []catalog.MenuItem, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errMsg = err.Error()
		s.recorder.CatalogLoad(metric.ResultError)
	} else {
		s.setItemsLocked(items)
		s.recorder.CatalogLoad(metric.ResultOK)
	}
	s.publish()
}

func (s *MemoryStore) setItemsLocked(items []catalog.MenuItem) {
	s.items = make([]catalog.MenuItem, len(items))
	copy(s.items, items)
	s.errMsg = ""
}

// SetError exposes msg as the store error; "" clears it.
func (s *MemoryStore) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
	s.publish()
}

// Login signs the viewer in.
func (s *MemoryStore) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := s.authn.Authenticate(ctx, username, password); err != nil {
		s.log.Info("login rejected", zap.String("user", username))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = username
	s.log.Info("login", zap.String("user", username))
	s.publish()
	return nil
}

// Logout signs the viewer out. The cart is kept for the next login.
func (s *MemoryStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = ""
	s.publish()
}

// AddToCart adds one unit of item to the signed-in viewer's cart.
func (s *MemoryStore) AddToCart(ctx context.Context, item catalog.MenuItem) error {
	s.mu.RLock()
	user := s.user
	known := s.containsLocked(item)
	s.mu.RUnlock()

	if user == "" {
		return ErrNotAuthenticated
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownItem, item.ItemName)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.CartTimeout)
	defer cancel()

	line, err := s.cart.AddLine(ctx, relational.CartLine{
		UserName:  user,
		ItemID:    item.Key(),
		ItemName:  item.ItemName,
		Category:  item.Category,
		UnitPrice: item.Price,
		Quantity:  1,
	})
	if err != nil {
		s.log.Error("add to cart failed", zap.String("user", user), zap.String("item", item.Key()), zap.Error(err))
		return fmt.Errorf("add %s to cart: %w", item.ItemName, err)
	}

	s.recorder.CartAddition(item.Category)
	s.log.Info("added to cart",
		zap.String("user", user),
		zap.String("item", item.Key()),
		zap.Int("quantity", line.Quantity),
	)
	return nil
}

func (s *MemoryStore) containsLocked(item catalog.MenuItem) bool {
	for _, it := range s.items {
		if it.Key() == item.Key() {
			return true
		}
	}
	return false
}

// Cart returns the signed-in viewer's cart lines.
func (s *MemoryStore) Cart(ctx context.Context) ([]relational.CartLine, error) {
	user := s.Snapshot().User
	if user == "" {
		return nil, ErrNotAuthenticated
	}
	return s.cart.Lines(ctx, user)
}

// ClearCart empties the signed-in viewer's cart.
func (s *MemoryStore) ClearCart(ctx context.Context) error {
	user := s.Snapshot().User
	if user == "" {
		return ErrNotAuthenticated
	}
	return s.cart.Clear(ctx, user)
}
