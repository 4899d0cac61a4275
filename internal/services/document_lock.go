package services

import (
	"context"
	"strings"

	"journeycompass/internal/domain"
	"journeycompass/internal/locks"
)

const defaultLockKey = "journey-compass-db"

// defaultLocker serializes writers inside this process when no locker is injected.
var defaultLocker locks.Locker = locks.NewLocalLocker()

// withDocumentLock runs fn while holding the document lock, so the
// load-mutate-save cycle of one operation never interleaves with another.
func withDocumentLock(ctx context.Context, l locks.Locker, key string, fn func() error) error {
	if l == nil {
		l = defaultLocker
	}
	if strings.TrimSpace(key) == "" {
		key = defaultLockKey
	}
	release, err := l.Acquire(ctx, key)
	if err != nil {
		return domain.InternalError{Msg: "store is busy, try again", Err: err}
	}
	defer release()
	return fn()
}
