package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/scs/v2"
)

// SCSCache stores entries through any scs session store. Each key becomes
// one scs "session" token holding the raw value.
type SCSCache struct {
	store    scs.Store
	origin   string
	lifetime time.Duration
}

// NewSCSCache wraps store. Entries expire lifetime after they were last set.
func NewSCSCache(store scs.Store, origin string, lifetime time.Duration) *SCSCache {
	return &SCSCache{store: store, origin: origin, lifetime: lifetime}
}

func (c *SCSCache) Get(ctx context.Context, key string) (string, bool, error) {
	k := scopedKey(c.origin, key)
	var (
		b     []byte
		found bool
		err   error
	)
	if cs, ok := c.store.(scs.CtxStore); ok {
		b, found, err = cs.FindCtx(ctx, k)
	} else {
		b, found, err = c.store.Find(k)
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return string(b), found, nil
}

func (c *SCSCache) Set(ctx context.Context, key, value string) error {
	k := scopedKey(c.origin, key)
	expiry := time.Now().Add(c.lifetime)
	var err error
	if cs, ok := c.store.(scs.CtxStore); ok {
		err = cs.CommitCtx(ctx, k, []byte(value), expiry)
	} else {
		err = c.store.Commit(k, []byte(value), expiry)
	}
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

func (c *SCSCache) Remove(ctx context.Context, key string) error {
	k := scopedKey(c.origin, key)
	var err error
	if cs, ok := c.store.(scs.CtxStore); ok {
		err = cs.DeleteCtx(ctx, k)
	} else {
		err = c.store.Delete(k)
	}
	if err != nil {
		return fmt.Errorf("cache remove %q: %w", key, err)
	}
	return nil
}
