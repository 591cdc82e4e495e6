package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// CatalogCache 首页目录缓存（Cache-Aside）
// 设计说明：
// 1. 只缓存与请求者无关的图书投影，收藏标记每次请求实时计算
// 2. Key设计：catalog:home:{view}，view为newest/sales/bestsellers
// 3. 缓存是尽力而为的加速层，读写失败都不阻塞请求（调用方降级回源）
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache 创建目录缓存
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

func (c *CatalogCache) key(view string) string {
	return fmt.Sprintf("catalog:home:%s", view)
}

// Get 读取视图缓存并反序列化到dest
// 返回值：(是否命中, 错误)；未命中不是错误
func (c *CatalogCache) Get(ctx context.Context, view string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.key(view)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, apperrors.WrapWithCode(err, apperrors.ErrCodeCache, "读取目录缓存失败")
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// 缓存数据损坏按未命中处理，回源后覆盖
		return false, nil
	}

	return true, nil
}

// Set 写入视图缓存
func (c *CatalogCache) Set(ctx context.Context, view string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeCache, "序列化目录缓存失败")
	}

	if err := c.client.Set(ctx, c.key(view), data, c.ttl).Err(); err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeCache, "写入目录缓存失败")
	}

	return nil
}

// Invalidate 删除全部视图缓存（新书创建成功后调用）
func (c *CatalogCache) Invalidate(ctx context.Context, views ...string) error {
	keys := make([]string, len(views))
	for i, v := range views {
		keys[i] = c.key(v)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeCache, "删除目录缓存失败")
	}

	return nil
}
