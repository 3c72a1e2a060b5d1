package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appuser "github.com/xiebiao/library-api/internal/application/user"
	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/internal/domain/user"
	"github.com/xiebiao/library-api/internal/infrastructure/config"
	"github.com/xiebiao/library-api/internal/infrastructure/messaging"
	"github.com/xiebiao/library-api/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library-api/pkg/logger"
	"github.com/xiebiao/library-api/pkg/metrics"
	"github.com/xiebiao/library-api/pkg/mq"
)

// newApp 创建命令行应用，输出写入out
func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "libctl",
		Usage:     "图书目录服务运维工具",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件目录",
				Value:   "./config",
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			createUserCommand(),
			tailEventsCommand(),
		},
	}
}

// env 命令执行环境
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnv(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"), ".")
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stderr",
	})
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log}, nil
}

// openDB 连接MySQL，memory驱动没有可操作的持久化存储
func (e *env) openDB() (*gorm.DB, func(), error) {
	if e.cfg.Database.Driver != "mysql" {
		return nil, nil, fmt.Errorf("database.driver=%s 不支持该命令，请使用mysql", e.cfg.Database.Driver)
	}
	// 迁移由命令显式执行
	e.cfg.Database.AutoMigrate = false
	db, err := mysql.NewDB(e.cfg, e.log)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "创建或更新数据表",
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			db, closeDB, err := e.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := mysql.Migrate(db); err != nil {
				return fmt.Errorf("迁移失败: %w", err)
			}
			fmt.Fprintln(c.App.Writer, "✓ 数据表已是最新")
			return nil
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "创建用户(admin可以管理图书)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, EnvVars: []string{"LIBCTL_PASSWORD"}},
			&cli.StringFlag{Name: "email"},
			&cli.StringFlag{Name: "role", Value: user.RoleMember.String(), Usage: "admin | member"},
		},
		Action: func(c *cli.Context) error {
			// 先校验角色，避免无谓的数据库连接
			if _, err := user.ParseRole(c.String("role")); err != nil {
				return fmt.Errorf("无效的角色 %q: %w", c.String("role"), err)
			}

			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			db, closeDB, err := e.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			uc := appuser.NewCreateUserUseCase(user.NewService(mysql.NewUserRepository(db)))
			info, err := uc.Execute(c.Context, appuser.CreateUserRequest{
				Username: c.String("username"),
				Email:    c.String("email"),
				Password: c.String("password"),
				Role:     c.String("role"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "✓ 已创建用户 %s (id=%d, role=%s)\n", info.Username, info.ID, info.Role)
			return nil
		},
	}
}

func tailEventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tail-events",
		Usage: "订阅并打印图书事件，Ctrl+C退出",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "queue", Usage: "持久队列名，为空时使用临时队列"},
			&cli.StringSliceFlag{Name: "key", Usage: "路由键，可重复", Value: cli.NewStringSlice(messaging.BookEventRoutingKeys...)},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}

			consumer, err := mq.NewConsumer(mq.ConsumerConfig{
				Config: mq.Config{
					URL:          e.cfg.MQ.URL,
					Exchange:     e.cfg.MQ.Exchange,
					ExchangeType: e.cfg.MQ.ExchangeType,
				},
				Queue:       c.String("queue"),
				RoutingKeys: c.StringSlice("key"),
			}, e.log)
			if err != nil {
				return err
			}
			defer func() { _ = consumer.Close() }()

			m := metrics.New(e.cfg.Metrics.Namespace)
			consumer.OnResult = m.ObserveConsume

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(c.App.Writer, "正在监听 %s (queue=%s)\n", e.cfg.MQ.Exchange, consumer.Queue())
			return consumer.Consume(ctx, messaging.BookEventHandler(
				printEvent(c.App.Writer),
				func(d mq.Delivery, err error) {
					e.log.Warn("丢弃无法解析的消息", zap.String("routing_key", d.RoutingKey), zap.Error(err))
				},
			))
		},
	}
}

// printEvent 每个事件输出一行JSON
func printEvent(out io.Writer) func(ctx context.Context, evt book.Event) error {
	enc := json.NewEncoder(out)
	return func(_ context.Context, evt book.Event) error {
		return enc.Encode(evt)
	}
}
