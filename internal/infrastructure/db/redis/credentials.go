package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

const (
	accessKey  = "orderdesk:access_token"
	refreshKey = "orderdesk:refresh_token"
)

// CredentialStore keeps the pair under two fixed keys, written and deleted
// together in a MULTI/EXEC block.
type CredentialStore struct {
	client *redis.Client
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore(client *redis.Client) *CredentialStore {
	return &CredentialStore{client: client}
}

func (s *CredentialStore) Load(ctx context.Context) (domain.CredentialPair, error) {
	vals, err := s.client.MGet(ctx, accessKey, refreshKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.CredentialPair{}, fmt.Errorf("load credentials: %w", err)
	}
	var pair domain.CredentialPair
	if len(vals) == 2 {
		pair.Access, _ = vals[0].(string)
		pair.Refresh, _ = vals[1].(string)
	}
	if !pair.Complete() {
		return domain.CredentialPair{}, nil
	}
	return pair, nil
}

func (s *CredentialStore) Save(ctx context.Context, pair domain.CredentialPair) error {
	if !pair.Complete() {
		return domain.ErrIncompleteCredentials
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, accessKey, pair.Access, 0)
		pipe.Set(ctx, refreshKey, pair.Refresh, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, accessKey, refreshKey).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
