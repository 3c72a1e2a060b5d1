package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/library-api/internal/infrastructure/config"
)

// pingTimeout 启动探活超时
const pingTimeout = 3 * time.Second

// clientOptions 由配置生成连接参数
// 未配置的超时沿用go-redis默认值
func clientOptions(rc config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:         rc.Addr(),
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
	}
	if rc.DialTimeout > 0 {
		opts.DialTimeout = rc.DialTimeout
	}
	if rc.ReadTimeout > 0 {
		opts.ReadTimeout = rc.ReadTimeout
	}
	if rc.WriteTimeout > 0 {
		opts.WriteTimeout = rc.WriteTimeout
	}
	return opts
}

// NewClient 创建会话与黑名单使用的Redis客户端
// 启动时探活一次，失败则关闭客户端并返回错误
func NewClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(clientOptions(cfg.Redis))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接Redis %s: %w", cfg.Redis.Addr(), err)
	}

	log.Info("Redis已就绪",
		zap.String("addr", cfg.Redis.Addr()),
		zap.Int("db", cfg.Redis.DB),
		zap.String("key_prefix", cfg.Redis.KeyPrefix),
	)
	return client, nil
}
