package itemstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisPersister struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func (p *RedisPersister) key(owner string, kind Kind) string {
	prefix := p.Prefix
	if prefix == "" {
		prefix = "storefront:items"
	}
	return fmt.Sprintf("%s:%s:%s", prefix, owner, kind)
}

func (p *RedisPersister) Load(ctx context.Context, owner string, kind Kind) ([]Item, error) {
	raw, err := p.Client.Get(ctx, p.key(owner, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s items: %w", kind, err)
	}
	return items, nil
}

func (p *RedisPersister) Save(ctx context.Context, owner string, kind Kind, items []Item) error {
	if len(items) == 0 {
		return p.Client.Del(ctx, p.key(owner, kind)).Err()
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return p.Client.Set(ctx, p.key(owner, kind), raw, p.TTL).Err()
}

func (p *RedisPersister) Delete(ctx context.Context, owner string) error {
	return p.Client.Del(ctx, p.key(owner, KindWishlist), p.key(owner, KindCart)).Err()
}
