package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/library-api/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library-api/pkg/errors"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, "test:"), mr
}

func TestSessionStore_Session(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	err := store.SaveSession(ctx, 7, map[string]interface{}{
		"username": "alice",
		"ip":       "10.0.0.1",
	}, time.Hour)
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:session:7"))
	assert.Equal(t, time.Hour, mr.TTL("test:session:7"))

	got, err := store.GetSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "alice", got["username"])

	require.NoError(t, store.DeleteSession(ctx, 7))
	_, err = store.GetSession(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	t.Log("✓ 会话保存、读取、删除")
}

func TestSessionStore_SessionExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	require.NoError(t, store.SaveSession(ctx, 1, map[string]interface{}{"k": "v"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.GetSession(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSessionStore_Blacklist(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	revoked, err := store.IsInBlacklist(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.AddToBlacklist(ctx, "jti-1", 30*time.Second))
	revoked, err = store.IsInBlacklist(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	t.Run("过期后自动移出", func(t *testing.T) {
		mr.FastForward(31 * time.Second)
		revoked, err := store.IsInBlacklist(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("已过期Token不写入", func(t *testing.T) {
		require.NoError(t, store.AddToBlacklist(ctx, "jti-2", 0))
		assert.False(t, mr.Exists("test:blacklist:jti-2"))
	})
}

func TestSessionStore_RedisDown(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.IsInBlacklist(ctx, "x")
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.GetAppError(err).HTTPStatus())
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{}
	cfg.Redis.Host = mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Redis.Port = port

	client, err := NewClient(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = NewClient(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestClientOptions(t *testing.T) {
	t.Run("未配置超时使用默认值", func(t *testing.T) {
		opts := clientOptions(config.RedisConfig{Host: "cache", Port: 6380, DB: 2, PoolSize: 20})
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 20, opts.PoolSize)
		assert.Zero(t, opts.DialTimeout)
		assert.Zero(t, opts.ReadTimeout)
		t.Logf("✓ 地址=%s", opts.Addr)
	})

	t.Run("配置的超时生效", func(t *testing.T) {
		opts := clientOptions(config.RedisConfig{
			Host:         "localhost",
			Port:         6379,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		})
		assert.Equal(t, 2*time.Second, opts.DialTimeout)
		assert.Equal(t, time.Second, opts.ReadTimeout)
		assert.Equal(t, time.Second, opts.WriteTimeout)
		t.Logf("✓ 超时参数已应用")
	})
}
