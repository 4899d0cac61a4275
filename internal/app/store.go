package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	intconfig "journeycompass/internal/config"
	"journeycompass/internal/locks"
	"journeycompass/internal/repositories"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Store bundles the document backend with the lock its writers share.
type Store struct {
	Backend repositories.DocumentStore
	Locker  locks.Locker
	closers []func() error
}

func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
	s.closers = nil
}

// Repo wraps the backend with the lenient load/save policy.
func (s *Store) Repo(log *zap.Logger) repositories.DocumentRepo {
	return repositories.DocumentRepo{Store: s.Backend, Log: log}
}

// OpenStore connects the backend named by STORE_DRIVER. When REDIS_ADDR is
// set the document lock is a Redis lease, so several processes can share one
// MySQL or Redis document.
func OpenStore(ctx context.Context, env intconfig.Env, log *zap.Logger) (*Store, error) {
	s := &Store{}

	var rdb *redis.Client
	if env.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: env.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		s.closers = append(s.closers, rdb.Close)
	}

	switch env.StoreDriver {
	case "", "file":
		if dir := filepath.Dir(env.StorePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				s.Close()
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
		s.Backend = repositories.NewFileDocumentRepo(env.StorePath)
	case "memory":
		s.Backend = repositories.NewMemoryDocumentRepo()
	case "mysql":
		db, err := intconfig.ConnectDB(env.DBDSN)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, func() error { intconfig.CloseDB(); return nil })
		if err := intconfig.Migrate(ctx, db); err != nil {
			s.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		s.Backend = repositories.MySQLDocumentRepo{DB: db, Key: env.StoreKey}
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("STORE_DRIVER=redis needs REDIS_ADDR")
		}
		s.Backend = repositories.NewRedisDocumentRepo(rdb, env.StoreKey)
	default:
		s.Close()
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", env.StoreDriver)
	}

	if rdb != nil {
		s.Locker = locks.NewRedisLocker(rdb, env.LockTTL)
	} else {
		s.Locker = locks.NewLocalLocker()
	}

	log.Info("document store ready",
		zap.String("driver", env.StoreDriver),
		zap.String("key", env.StoreKey),
		zap.Bool("redis_lock", rdb != nil),
	)
	return s, nil
}
