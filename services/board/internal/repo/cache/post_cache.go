package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lovewall/services/board/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	postKeyPrefix = "board:post:"
	feedKeyPrefix = "board:feed:"
	feedKeysSet   = "board:feed:keys"
)

// PostCache holds point-in-time read snapshots. Each snapshot is serialized
// whole, so a post's likes and liked_by inside it always agree.
type PostCache interface {
	GetDetail(ctx context.Context, postID string) (*entity.PostDetail, bool)
	SetDetail(ctx context.Context, detail *entity.PostDetail)
	GetFeed(ctx context.Context, limit int) ([]*entity.PostSummary, bool)
	SetFeed(ctx context.Context, limit int, feed []*entity.PostSummary)
	InvalidatePost(ctx context.Context, postID string) error
	InvalidateFeeds(ctx context.Context) error
}

type redisPostCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPostCache(client *redis.Client, ttl time.Duration) PostCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisPostCache{client: client, ttl: ttl}
}

func postKey(postID string) string {
	return postKeyPrefix + postID
}

func feedKey(limit int) string {
	return fmt.Sprintf("%s%d", feedKeyPrefix, limit)
}

func (c *redisPostCache) GetDetail(ctx context.Context, postID string) (*entity.PostDetail, bool) {
	data, err := c.client.Get(ctx, postKey(postID)).Bytes()
	if err != nil {
		return nil, false
	}
	var detail entity.PostDetail
	if err := json.Unmarshal(data, &detail); err != nil || detail.Post == nil {
		return nil, false
	}
	return &detail, true
}

func (c *redisPostCache) SetDetail(ctx context.Context, detail *entity.PostDetail) {
	if detail == nil || detail.Post == nil {
		return
	}
	payload, err := json.Marshal(detail)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, postKey(detail.Post.ID), payload, c.ttl).Err()
}

func (c *redisPostCache) GetFeed(ctx context.Context, limit int) ([]*entity.PostSummary, bool) {
	data, err := c.client.Get(ctx, feedKey(limit)).Bytes()
	if err != nil {
		return nil, false
	}
	var feed []*entity.PostSummary
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, false
	}
	return feed, true
}

func (c *redisPostCache) SetFeed(ctx context.Context, limit int, feed []*entity.PostSummary) {
	payload, err := json.Marshal(feed)
	if err != nil {
		return
	}
	key := feedKey(limit)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, payload, c.ttl)
	pipe.SAdd(ctx, feedKeysSet, key)
	pipe.Expire(ctx, feedKeysSet, c.ttl)
	_, _ = pipe.Exec(ctx)
}

func (c *redisPostCache) InvalidatePost(ctx context.Context, postID string) error {
	return c.client.Del(ctx, postKey(postID)).Err()
}

// InvalidateFeeds drops every cached feed window, whatever its limit.
func (c *redisPostCache) InvalidateFeeds(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, feedKeysSet).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys = append(keys, feedKeysSet)
	return c.client.Del(ctx, keys...).Err()
}
