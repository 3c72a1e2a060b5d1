//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/library-api/internal/application/book"
	appuser "github.com/xiebiao/library-api/internal/application/user"
	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/internal/domain/user"
	"github.com/xiebiao/library-api/internal/infrastructure/config"
	"github.com/xiebiao/library-api/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library-api/internal/interface/http/handler"
	"github.com/xiebiao/library-api/internal/interface/http/middleware"
	"github.com/xiebiao/library-api/internal/interface/http/router"
)

// infrastructureSet 存储、Redis、Token、指标与事件发布
var infrastructureSet = wire.NewSet(
	provideStore,
	wire.FieldsOf(new(*store), "Books", "Users"),
	provideRedis,
	provideSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.Blacklist), new(*redis.SessionStore)),
	provideJWTManager,
	provideMetrics,
	provideEventPublisher,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewObtainTokenUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewRevokeTokenUseCase,
	appuser.NewCreateUserUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewRecentBooksUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewArchiveBookUseCase,
)

// interfaceSet 中间件、处理器与路由
var interfaceSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	provideRateLimiter,
	handler.NewBookHandler,
	handler.NewAuthHandler,
	router.New,
)

// InitializeApp 组装整个应用
func InitializeApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
