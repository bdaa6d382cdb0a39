package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"menucatalog/internal/auth"
	"menucatalog/internal/catalog"
	"menucatalog/internal/database/relational"
)

type fakeCart struct {
	mu    sync.Mutex
	lines []relational.CartLine
	err   error
}

func (f *fakeCart) Migrate(ctx context.Context) error { return nil }

func (f *fakeCart) AddLine(ctx context.Context, line relational.CartLine) (relational.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return relational.CartLine{}, f.err
	}
	for i := range f.lines {
		if f.lines[i].UserName == line.UserName && f.lines[i].ItemID == line.ItemID {
			f.lines[i].Quantity += line.Quantity
			return f.lines[i], nil
		}
	}
	f.lines = append(f.lines, line)
	return line, nil
}

func (f *fakeCart) Lines(ctx context.Context, user string) ([]relational.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []relational.CartLine
	for _, l := range f.lines {
		if l.UserName == user {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeCart) Clear(ctx context.Context, user string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []relational.CartLine
	for _, l := range f.lines {
		if l.UserName != user {
			kept = append(kept, l)
		}
	}
	f.lines = kept
	return nil
}

type fakeAuth struct{}

func (fakeAuth) Authenticate(ctx context.Context, username, password string) error {
	if username == "asha" && password == "pw" {
		return nil
	}
	return auth.ErrInvalidCredentials
}

type staticSource struct {
	items []catalog.MenuItem
	err   error
	wait  chan struct{}
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) Load(ctx context.Context) ([]catalog.MenuItem, error) {
	if s.wait != nil {
		select {
		case <-s.wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.items, s.err
}

func menu() []catalog.MenuItem {
	return []catalog.MenuItem{
		{ID: "1", ItemName: "Pizza", Category: "Main", Price: decimal.RequireFromString("9.5")},
		{ID: "2", ItemName: "Cola", Category: "Drink", Price: decimal.RequireFromString("1.2")},
	}
}

func newStore(t *testing.T) (*MemoryStore, *fakeCart) {
	t.Helper()
	cart := &fakeCart{}
	s, err := NewMemoryStore(cart, fakeAuth{})
	require.NoError(t, err)
	return s, cart
}

func TestNewMemoryStore_Validation(t *testing.T) {
	_, err := NewMemoryStore(nil, fakeAuth{})
	assert.Error(t, err)

	_, err = NewMemoryStore(&fakeCart{}, fakeAuth{}, WithConfig(Config{}))
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestMemoryStore_InitialSnapshot(t *testing.T) {
	s, _ := newStore(t)
	snap := s.Snapshot()
	assert.Nil(t, snap.MenuItems)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.IsAuthenticated)
}

func TestMemoryStore_RefreshTransitions(t *testing.T) {
	s, _ := newStore(t)
	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	src := &staticSource{items: menu(), wait: make(chan struct{})}
	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background(), src) }()

	select {
	case snap := <-updates:
		assert.True(t, snap.Loading, "first update should report loading")
	case <-time.After(time.Second):
		t.Fatal("no loading update")
	}

	close(src.wait)
	require.NoError(t, <-done)

	snap := <-updates
	assert.False(t, snap.Loading)
	assert.Len(t, snap.MenuItems, 2)
	assert.Empty(t, snap.Error)
}

func TestMemoryStore_RefreshErrorKeepsItems(t *testing.T) {
	s, _ := newStore(t)
	s.SetCatalog(menu(), nil)

	err := s.Refresh(context.Background(), &staticSource{err: errors.New("menu service unavailable")})
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, "menu service unavailable", snap.Error)
	assert.Len(t, snap.MenuItems, 2)
	assert.False(t, snap.Loading)
}

func TestMemoryStore_SnapshotIsACopy(t *testing.T) {
	s, _ := newStore(t)
	s.SetCatalog(menu(), nil)

	snap := s.Snapshot()
	snap.MenuItems[0].ItemName = "Changed"
	assert.Equal(t, "Pizza", s.Snapshot().MenuItems[0].ItemName)
}

func TestMemoryStore_SubscriberSeesNewest(t *testing.T) {
	s, _ := newStore(t)
	updates, unsubscribe := s.Subscribe()

	s.SetError("first")
	s.SetError("second")

	snap := <-updates
	assert.Equal(t, "second", snap.Error)

	unsubscribe()
	unsubscribe()
	_, ok := <-updates
	assert.False(t, ok, "channel should be closed after unsubscribe")
}

func TestMemoryStore_AddToCart(t *testing.T) {
	ctx := context.Background()
	s, cart := newStore(t)
	s.SetCatalog(menu(), nil)

	err := s.AddToCart(ctx, menu()[0])
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, cart.lines)

	assert.ErrorIs(t, s.Login(ctx, "asha", "wrong"), auth.ErrInvalidCredentials)
	require.NoError(t, s.Login(ctx, "asha", "pw"))
	assert.True(t, s.Snapshot().IsAuthenticated)

	require.NoError(t, s.AddToCart(ctx, menu()[0]))
	require.NoError(t, s.AddToCart(ctx, menu()[0]))

	lines, err := s.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "asha", lines[0].UserName)

	err = s.AddToCart(ctx, catalog.MenuItem{ID: "99", ItemName: "Ghost"})
	assert.ErrorIs(t, err, ErrUnknownItem)

	cart.err = errors.New("disk full")
	err = s.AddToCart(ctx, menu()[1])
	assert.ErrorContains(t, err, "disk full")

	require.NoError(t, s.ClearCart(ctx))
	lines, err = s.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	s.Logout()
	_, err = s.Cart(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestMemoryStore_LoginTrimsUsername(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	authn, err := auth.NewStaticAuthenticator([]auth.User{{Username: "asha", PasswordHash: string(hash)}})
	require.NoError(t, err)

	cart := &fakeCart{}
	s, err := NewMemoryStore(cart, authn)
	require.NoError(t, err)
	s.SetCatalog(menu(), nil)

	require.NoError(t, s.Login(ctx, "  asha ", "pw"))
	assert.Equal(t, "asha", s.Snapshot().User)
	require.NoError(t, s.AddToCart(ctx, menu()[0]))

	s.Logout()
	require.NoError(t, s.Login(ctx, "asha", "pw"))
	require.NoError(t, s.AddToCart(ctx, menu()[0]))

	lines, err := s.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestRefresher(t *testing.T) {
	s, _ := newStore(t)
	_, err := NewRefresher(s, &staticSource{}, 0)
	assert.Error(t, err)

	r, err := NewRefresher(s, &staticSource{items: menu()}, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))
	assert.Error(t, r.Start(context.Background()), "second start should fail")

	assert.Eventually(t, func() bool {
		return len(s.Snapshot().MenuItems) == 2
	}, time.Second, 10*time.Millisecond)

	r.Stop()
	require.NoError(t, r.PullOnce(context.Background()))
}
