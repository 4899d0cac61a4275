package repositories

import (
	"context"
	"errors"
	"strings"

	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"

	"github.com/go-redis/redis/v8"
)

// RedisDocumentRepo stores the document under a single redis key.
type RedisDocumentRepo struct {
	Client *redis.Client
	Key    string
}

func NewRedisDocumentRepo(client *redis.Client, key string) RedisDocumentRepo {
	return RedisDocumentRepo{Client: client, Key: key}
}

func (r RedisDocumentRepo) key() string {
	if k := strings.TrimSpace(r.Key); k != "" {
		return k
	}
	return defaultDocumentKey
}

func (r RedisDocumentRepo) Load(ctx context.Context) (models.Document, error) {
	if r.Client == nil {
		return models.Document{}, domain.StorageError{Op: "read", Err: errors.New("redis not configured")}
	}
	raw, err := r.Client.Get(ctx, r.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return models.Document{}, domain.StorageError{Op: "read", Err: err}
	}
	return decodeDocument(raw)
}

func (r RedisDocumentRepo) Save(ctx context.Context, doc models.Document) error {
	if r.Client == nil {
		return domain.StorageError{Op: "write", Err: errors.New("redis not configured")}
	}
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if err := r.Client.Set(ctx, r.key(), raw, 0).Err(); err != nil {
		return domain.StorageError{Op: "write", Err: err}
	}
	return nil
}
