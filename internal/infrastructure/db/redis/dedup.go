package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker remembers status changes that were already applied.
// Key format: orderdesk:dedup:<order_id>:<status>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact change has already been applied.
func (d *DedupChecker) IsDuplicate(ctx context.Context, orderID int64, status string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(orderID, status, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the change for dedupTTL.
func (d *DedupChecker) Mark(ctx context.Context, orderID int64, status string, ts time.Time) error {
	return d.client.Set(ctx, d.key(orderID, status, ts), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(orderID int64, status string, ts time.Time) string {
	return fmt.Sprintf("orderdesk:dedup:%d:%s:%d", orderID, status, ts.Unix())
}
