package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appuser "github.com/xiebiao/library-api/internal/application/user"
	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/internal/domain/user"
	"github.com/xiebiao/library-api/internal/infrastructure/config"
	"github.com/xiebiao/library-api/internal/infrastructure/messaging"
	"github.com/xiebiao/library-api/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/library-api/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library-api/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library-api/internal/interface/http/middleware"
	"github.com/xiebiao/library-api/pkg/jwt"
	"github.com/xiebiao/library-api/pkg/metrics"
	"github.com/xiebiao/library-api/pkg/mq"
)

// App 启动所需的全部组件
type App struct {
	Engine *gin.Engine
	Users  *appuser.CreateUserUseCase
}

// store 按database.driver选择的仓储实现
type store struct {
	Books book.Repository
	Users user.Repository
}

// provideStore mysql驱动使用GORM，memory驱动数据只保存在进程内
func provideStore(cfg *config.Config, log *zap.Logger) (*store, func(), error) {
	if cfg.Database.Driver == "memory" {
		log.Warn("使用内存存储，重启后数据丢失")
		return &store{
			Books: memory.NewBookRepository(),
			Users: memory.NewUserRepository(),
		}, func() {}, nil
	}

	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return &store{
		Books: mysql.NewBookRepository(db),
		Users: mysql.NewUserRepository(db),
	}, cleanup, nil
}

// provideRedis 创建Redis客户端，关闭时释放连接池
func provideRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideSessionStore(client *goredis.Client, cfg *config.Config) *redis.SessionStore {
	return redis.NewSessionStore(client, cfg.Redis.KeyPrefix)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideMetrics(cfg *config.Config) *metrics.Metrics {
	return metrics.New(cfg.Metrics.Namespace)
}

// provideEventPublisher mq.enabled时发布到RabbitMQ，否则只写日志
// 启动时连接不上Broker不阻止服务启动，退化为日志发布
func provideEventPublisher(cfg *config.Config, m *metrics.Metrics, log *zap.Logger) (book.EventPublisher, func()) {
	if !cfg.MQ.Enabled {
		return messaging.NewLogPublisher(log), func() {}
	}

	pub, err := mq.NewPublisher(mq.Config{
		URL:          cfg.MQ.URL,
		Exchange:     cfg.MQ.Exchange,
		ExchangeType: cfg.MQ.ExchangeType,
	}, log)
	if err != nil {
		log.Error("连接消息队列失败，图书事件只写日志", zap.Error(err))
		return messaging.NewLogPublisher(log), func() {}
	}

	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Warn("关闭消息队列连接失败", zap.Error(err))
		}
	}
	return messaging.NewBookEventPublisher(pub, messaging.NewBreaker(m, log), m, log), cleanup
}

// provideRateLimiter rate_limit.enabled为false时返回nil
// 后台定期清理空闲客户端，cleanup时停止
func provideRateLimiter(cfg *config.Config) (*middleware.RateLimiter, func()) {
	if !cfg.RateLimit.Enabled {
		return nil, func() {}
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	done := make(chan struct{})
	go limiter.Run(done)
	return limiter, func() { close(done) }
}

// shutdownTimeout 关闭超时，未配置时为5秒
func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 5 * time.Second
}
