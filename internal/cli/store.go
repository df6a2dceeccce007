package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/triplet/internal/adapters/file"
	"github.com/aretw0/triplet/internal/adapters/redis"
	"github.com/aretw0/triplet/internal/adapters/sqlite"
	"github.com/aretw0/triplet/internal/config"
	"github.com/aretw0/triplet/pkg/adapters/memory"
	"github.com/aretw0/triplet/pkg/ports"
)

func noClose() error { return nil }

// OpenStore connects the configured backend. The returned func releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (ports.AnnotationStore, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendFile, "":
		return file.New(cfg.OutputDir), noClose, nil
	case config.BackendMemory:
		return memory.NewStore(), noClose, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, s.Close, nil
	case config.BackendRedis:
		rc := cfg.Store.Redis
		s := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix))
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("connect redis store at %s: %w", rc.Addr, err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
