package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FriendSet caches accepted-friend id sets per user. The graph store stays
// authoritative: a miss (including any backend error) falls through to a
// direct query.
type FriendSet interface {
	Get(ctx context.Context, userID uint) ([]uint, bool)
	Set(ctx context.Context, userID uint, ids []uint)
	Invalidate(ctx context.Context, userIDs ...uint)
}

// RedisFriendSet implements FriendSet on Redis with a TTL
type RedisFriendSet struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFriendSet creates a new RedisFriendSet
func NewRedisFriendSet(client *redis.Client, ttl time.Duration) *RedisFriendSet {
	return &RedisFriendSet{client: client, ttl: ttl}
}

func friendSetKey(userID uint) string {
	return fmt.Sprintf("friends:%d", userID)
}

// Get returns the cached friend id set for a user, reporting a miss on any error
func (c *RedisFriendSet) Get(ctx context.Context, userID uint) ([]uint, bool) {
	raw, err := c.client.Get(ctx, friendSetKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

// Set stores the friend id set for a user with the configured TTL
func (c *RedisFriendSet) Set(ctx context.Context, userID uint, ids []uint) {
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	c.client.Set(ctx, friendSetKey(userID), raw, c.ttl)
}

// Invalidate drops the cached sets for the given users
func (c *RedisFriendSet) Invalidate(ctx context.Context, userIDs ...uint) {
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = friendSetKey(id)
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

// NoopFriendSet is used when Redis is not configured; every read is a miss.
type NoopFriendSet struct{}

// NewNoopFriendSet creates a NoopFriendSet
func NewNoopFriendSet() *NoopFriendSet { return &NoopFriendSet{} }

func (*NoopFriendSet) Get(ctx context.Context, userID uint) ([]uint, bool) { return nil, false }

func (*NoopFriendSet) Set(ctx context.Context, userID uint, ids []uint) {}

func (*NoopFriendSet) Invalidate(ctx context.Context, userIDs ...uint) {}
