package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "library:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, "library.events", cfg.MQ.Exchange)
	assert.True(t, cfg.Features.PermissiveBooks)
	assert.False(t, cfg.MQ.Enabled)
	t.Log("✓ 无配置文件时使用默认值")
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, "config.yaml", `
server:
  port: 9000
database:
  driver: memory
  password: from-file
jwt:
  access_token_expire: 10m
features:
  permissive_books: false
`)
	t.Setenv("LIBRARY_DATABASE_PASSWORD", "from-env")
	t.Setenv("LIBRARY_RATE_LIMIT_BURST", "5")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Database.Password, "环境变量覆盖配置文件")
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, 10*time.Minute, cfg.JWT.AccessTokenExpire)
	assert.False(t, cfg.Features.PermissiveBooks)
}

func TestLoad_EnvSpecificFile(t *testing.T) {
	dir := writeConfig(t, "config.staging.yaml", "server:\n  port: 7000\n")
	t.Setenv("LIBRARY_ENV", "staging")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"端口越界":        "server:\n  port: 70000\n",
		"未知模式":        "server:\n  mode: prod\n",
		"未知驱动":        "database:\n  driver: sqlite\n",
		"release默认密钥": "server:\n  mode: release\n",
		"采样率越界":       "tracing:\n  sampling_rate: 2\n",
		"限流参数为0":      "rate_limit:\n  rps: 0\n",
		"YAML语法错误":    "server: [\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", content))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "db", Port: 3306, DBName: "library",
		Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/library?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
}
