package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/spf13/afero"

	"github.com/joestump/linkfolio/internal/cache"
	"github.com/joestump/linkfolio/internal/config"
	"github.com/joestump/linkfolio/internal/testutil"
)

const origin = "http://localhost:8188"

// exerciseCache runs the shared Get/Set/Remove contract against c.
func exerciseCache(t *testing.T, c cache.Cache) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("Get on empty cache = (%v, %v), want absent", ok, err)
	}

	if err := c.Set(ctx, "token", "t1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := c.Get(ctx, "token")
	if err != nil || !ok || v != "t1" {
		t.Fatalf("Get = (%q, %v, %v), want (t1, true, nil)", v, ok, err)
	}

	if err := c.Set(ctx, "token", "t2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if v, _, _ := c.Get(ctx, "token"); v != "t2" {
		t.Errorf("after overwrite Get = %q, want t2", v)
	}

	if err := c.Remove(ctx, "token"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "token"); ok {
		t.Error("key still present after Remove")
	}
	if err := c.Remove(ctx, "token"); err != nil {
		t.Errorf("Remove of absent key: %v", err)
	}
}

func TestSCSCache_MemStore(t *testing.T) {
	exerciseCache(t, cache.NewSCSCache(memstore.NewWithCleanupInterval(0), origin, time.Hour))
}

func TestSCSCache_SQLiteStore(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := sqlite3store.NewWithCleanupInterval(db.DB, 0)
	exerciseCache(t, cache.NewSCSCache(store, origin, time.Hour))
}

func TestSCSCache_OriginScoped(t *testing.T) {
	store := memstore.NewWithCleanupInterval(0)
	a := cache.NewSCSCache(store, "https://a.example.com", time.Hour)
	b := cache.NewSCSCache(store, "https://b.example.com", time.Hour)
	ctx := context.Background()

	if err := a.Set(ctx, "username", "alice"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "username"); ok {
		t.Error("origin b sees origin a's entry")
	}
}

func TestSCSCache_Expiry(t *testing.T) {
	c := cache.NewSCSCache(memstore.NewWithCleanupInterval(0), origin, -time.Second)
	ctx := context.Background()
	if err := c.Set(ctx, "token", "t1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "token"); ok {
		t.Error("expired entry still returned")
	}
}

func TestFileCache(t *testing.T) {
	exerciseCache(t, cache.NewFileCache(afero.NewMemMapFs(), "/home/u/.config/linkfolio/session.json", origin))
}

func TestFileCache_SurvivesReopen(t *testing.T) {
	fsys := afero.NewMemMapFs()
	ctx := context.Background()
	path := "/state/session.json"

	first := cache.NewFileCache(fsys, path, origin)
	if err := first.Set(ctx, "username", "alice"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	other := cache.NewFileCache(fsys, path, "https://other.example.com")
	if err := other.Set(ctx, "username", "bob"); err != nil {
		t.Fatalf("Set other origin: %v", err)
	}

	second := cache.NewFileCache(fsys, path, origin)
	v, ok, err := second.Get(ctx, "username")
	if err != nil || !ok || v != "alice" {
		t.Errorf("Get after reopen = (%q, %v, %v), want alice", v, ok, err)
	}
}

func TestFileCache_CorruptFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/session.json", []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	c := cache.NewFileCache(fsys, "/session.json", origin)
	if _, _, err := c.Get(context.Background(), "token"); err == nil {
		t.Error("expected decode error for corrupt cache file")
	}
}

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{}
	cfg.API.BaseURL = "http://localhost:8188/api"
	cfg.Cache.Driver = "memory"
	cfg.SessionLifetime = time.Hour

	c, closer, err := cache.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = closer.Close() }()
	exerciseCache(t, c)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.API.BaseURL = "http://localhost:8188/api"
	cfg.Cache.Driver = "sqlite3"
	cfg.Cache.DSN = t.TempDir() + "/cache.db"
	cfg.SessionLifetime = time.Hour

	c, closer, err := cache.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = closer.Close() }()
	exerciseCache(t, c)
}
