package cache

import (
	"fmt"
	"io"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/spf13/afero"

	"github.com/joestump/linkfolio/internal/config"
	"github.com/joestump/linkfolio/internal/db"
)

// Open builds the cache selected by cfg.Cache.Driver. The returned closer
// releases any database connection and must be called when done.
func Open(cfg *config.Config) (Cache, io.Closer, error) {
	origin, err := cfg.Origin()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Cache.Driver {
	case "memory":
		return NewSCSCache(memstore.New(), origin, cfg.SessionLifetime), nopCloser{}, nil
	case "file":
		return NewFileCache(afero.NewOsFs(), cfg.Cache.Path, origin), nopCloser{}, nil
	case "sqlite3", "mysql", "postgres":
		database, err := db.New(cfg.Cache.Driver, cfg.Cache.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(database, cfg.Cache.Driver); err != nil {
			_ = database.Close()
			return nil, nil, err
		}
		var store scs.Store
		switch cfg.Cache.Driver {
		case "mysql":
			store = mysqlstore.New(database.DB)
		case "postgres":
			store = postgresstore.New(database.DB)
		default: // sqlite3
			store = sqlite3store.New(database.DB)
		}
		return NewSCSCache(store, origin, cfg.SessionLifetime), database, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
