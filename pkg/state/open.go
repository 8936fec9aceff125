package state

import (
	"context"
	"time"

	"github.com/matzehuels/tickergrid/pkg/config"
	apperr "github.com/matzehuels/tickergrid/pkg/errors"
	"github.com/matzehuels/tickergrid/pkg/observability"
)

// Open creates the backend selected by cfg. The returned backend reports
// loads and saves to [observability.Persist].
func Open(ctx context.Context, cfg config.Storage) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		b = NewMemoryBackend()
	case config.BackendFile, "":
		b, err = NewFileBackend(cfg.Dir)
	case config.BackendRedis:
		b, err = NewRedisBackend(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.RedisTTL.Duration,
		})
	case config.BackendMongo:
		b, err = NewMongoBackend(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	case config.BackendSQLite:
		b, err = NewSQLiteBackend(cfg.SQLitePath)
	case config.BackendNone:
		b = NewNullBackend()
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidConfig, "unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "open %s backend", cfg.Backend)
	}
	return Observe(b), nil
}

// KeyerFor returns the keyer for cfg: scoped when a prefix is configured.
func KeyerFor(cfg config.Storage) Keyer {
	if cfg.Prefix != "" {
		return NewScopedKeyer(NewDefaultKeyer(), cfg.Prefix)
	}
	return NewDefaultKeyer()
}

// observed reports backend calls to the persistence hooks.
type observed struct {
	Backend
}

// Observe wraps b so that loads and saves are reported to
// [observability.Persist]. Wrapping twice is a no-op.
func Observe(b Backend) Backend {
	if _, ok := b.(*observed); ok {
		return b
	}
	return &observed{Backend: b}
}

// Unwrap returns the backend behind an Observe wrapper, or b itself.
func Unwrap(b Backend) Backend {
	if o, ok := b.(*observed); ok {
		return o.Backend
	}
	return b
}

func (o *observed) Load(ctx context.Context, key string) (*State, error) {
	start := time.Now()
	s, err := o.Backend.Load(ctx, key)
	observability.Persist().OnLoad(ctx, o.Name(), key, time.Since(start), err)
	return s, err
}

func (o *observed) Save(ctx context.Context, key string, s *State) error {
	start := time.Now()
	err := o.Backend.Save(ctx, key, s)
	observability.Persist().OnSave(ctx, o.Name(), key, time.Since(start), err)
	return err
}
