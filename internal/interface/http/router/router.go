package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/library-api/internal/infrastructure/config"
	"github.com/xiebiao/library-api/internal/interface/http/dto"
	"github.com/xiebiao/library-api/internal/interface/http/handler"
	"github.com/xiebiao/library-api/internal/interface/http/middleware"
	"github.com/xiebiao/library-api/pkg/metrics"
	"github.com/xiebiao/library-api/pkg/response"
)

// New 创建Gin引擎并注册全部路由
// 中间件顺序：请求日志 → panic恢复 → 链路追踪 → 指标 → 限流
// limiter为nil时不限流
func New(
	cfg *config.Config,
	log *zap.Logger,
	m *metrics.Metrics,
	bookHandler *handler.BookHandler,
	authHandler *handler.AuthHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}

	dto.RegisterValidators()

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(),
		middleware.Tracing(),
		middleware.Metrics(m),
	)
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Swagger文档，访问 /swagger/index.html
	if cfg.Features.Swagger && cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")

	// 认证(签发与刷新不需要登录)
	token := api.Group("/token")
	{
		token.POST("/", authHandler.ObtainToken)
		token.POST("/refresh/", authHandler.RefreshToken)
		token.POST("/revoke/", authMiddleware.RequireAuth(), authHandler.RevokeToken)
	}

	// 图书(受限分组)
	books := api.Group("/books", authMiddleware.RequireAuth())
	{
		books.GET("/", bookHandler.ListBooks)
		books.POST("/", bookHandler.CreateBook)
		books.GET("/recent/", bookHandler.RecentBooks)
		books.GET("/:id/", bookHandler.GetBook)
		books.PUT("/:id/", bookHandler.UpdateBook)
		books.PATCH("/:id/", bookHandler.PartialUpdateBook)
		books.DELETE("/:id/", bookHandler.ArchiveBook)
	}

	// 图书(宽松分组)
	if cfg.Features.PermissiveBooks {
		shared := api.Group("/shared/books", authMiddleware.RequireAuth())
		{
			shared.GET("/", bookHandler.ListSharedBooks)
			shared.POST("/", bookHandler.CreateSharedBook)
		}
	}

	return r
}
