package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/opencrafts-io/professor/config"
)

// Client Redis 客户端封装
// 当前用于按机构缓存课程代码查询结果；摄取提交后整体失效
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 查询缓存 ──

const lookupPrefix = "examtt:lookup:"

// lookupKey 机构维度的查询缓存键
func lookupKey(institutionID, field string) string {
	return lookupPrefix + institutionID + ":" + field
}

// GetLookup 读取缓存的查询结果（JSON 文本）；未命中返回 ("", nil)
func (c *Client) GetLookup(ctx context.Context, institutionID, field string) (string, error) {
	val, err := c.rdb.Get(ctx, lookupKey(institutionID, field)).Result()
	if err == goredis.Nil {
		return "", nil
	}
	return val, err
}

// SetLookup 写入查询结果缓存
func (c *Client) SetLookup(ctx context.Context, institutionID, field, payload string, ttl time.Duration) error {
	return c.rdb.Set(ctx, lookupKey(institutionID, field), payload, ttl).Err()
}

// InvalidateInstitution 摄取提交后使该机构的所有查询缓存失效
func (c *Client) InvalidateInstitution(ctx context.Context, institutionID string) error {
	pattern := lookupPrefix + institutionID + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
