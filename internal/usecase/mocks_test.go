// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-wallpaper-bot/internal/domain"
	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memUserRepo is a small in-memory implementation used by unit tests. The
// optional XxxFunc hooks let a test override single methods to simulate
// failures.
type memUserRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.User

	UpsertFunc          func(ctx context.Context, p model.Profile, wallpaperID string) (*model.User, error)
	ListTelegramIDsFunc func(ctx context.Context) ([]int64, error)
	CountSeenSinceFunc  func(ctx context.Context, since time.Time) (int, error)
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.User)}
}

// put seeds a user directly, bypassing upsert bookkeeping.
func (m *memUserRepo) put(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.TelegramID] = &cp
}

func (m *memUserRepo) Upsert(ctx context.Context, p model.Profile, wallpaperID string) (*model.User, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, p, wallpaperID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.store[p.TelegramID]
	if !ok {
		nu, err := model.NewUser(p)
		if err != nil {
			return nil, err
		}
		nu.ViewWallpaper(wallpaperID)
		m.store[p.TelegramID] = nu
		cp := *nu
		return &cp, nil
	}

	u.ApplyProfile(p)
	u.Touch()
	u.Interactions++
	u.ViewWallpaper(wallpaperID)
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) ListRecent(ctx context.Context, limit int) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.User, 0, len(m.store))
	for _, u := range m.store {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstSeenAt.After(out[j].FirstSeenAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memUserRepo) ListTelegramIDs(ctx context.Context) ([]int64, error) {
	if m.ListTelegramIDsFunc != nil {
		return m.ListTelegramIDsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.store))
	for id := range m.store {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

func (m *memUserRepo) CountSeenSince(ctx context.Context, since time.Time) (int, error) {
	if m.CountSeenSinceFunc != nil {
		return m.CountSeenSinceFunc(ctx, since)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cnt := 0
	for _, u := range m.store {
		if !u.FirstSeenAt.Before(since) {
			cnt++
		}
	}
	return cnt, nil
}

func (m *memUserRepo) CountPremium(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cnt := 0
	for _, u := range m.store {
		if u.IsPremium {
			cnt++
		}
	}
	return cnt, nil
}

// memClickRepo is an append-only in-memory click log.
type memClickRepo struct {
	mu     sync.RWMutex
	clicks []model.LinkClick

	InsertFunc func(ctx context.Context, c *model.LinkClick) error
}

func newMemClickRepo() *memClickRepo {
	return &memClickRepo{}
}

func (m *memClickRepo) Insert(ctx context.Context, c *model.LinkClick) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = append(m.clicks, *c)
	return nil
}

func (m *memClickRepo) CountAll(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clicks), nil
}

func (m *memClickRepo) CountByTelegramID(ctx context.Context, tgID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cnt := 0
	for _, c := range m.clicks {
		if c.TelegramID == tgID {
			cnt++
		}
	}
	return cnt, nil
}

func (m *memClickRepo) TopWallpapers(ctx context.Context, limit int) ([]model.WallpaperClicks, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int64{}
	for _, c := range m.clicks {
		counts[c.WallpaperID]++
	}
	out := make([]model.WallpaperClicks, 0, len(counts))
	for id, n := range counts {
		out = append(out, model.WallpaperClicks{WallpaperID: id, Clicks: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Clicks != out[j].Clicks {
			return out[i].Clicks > out[j].Clicks
		}
		return out[i].WallpaperID < out[j].WallpaperID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockBot records outbound sends; SendErrFor simulates per-recipient
// delivery failures.
type mockBot struct {
	mu         sync.Mutex
	sent       []sentMessage
	SendErrFor map[int64]error
}

type sentMessage struct {
	TgID int64
	Text string
}

func newMockBot() *mockBot {
	return &mockBot{}
}

func (b *mockBot) SendMessage(ctx context.Context, tgID int64, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err, ok := b.SendErrFor[tgID]; ok {
		return err
	}
	b.sent = append(b.sent, sentMessage{TgID: tgID, Text: text})
	return nil
}

func (b *mockBot) SendButtons(ctx context.Context, tgID int64, text string, _ [][]adapter.InlineButton) error {
	return b.SendMessage(ctx, tgID, text)
}

func (b *mockBot) sentTo() []sentMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]sentMessage, len(b.sent))
	copy(out, b.sent)
	return out
}
