package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestDefaultPageSizes(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.Pagination.PublicPosts)
	assert.Equal(t, 15, cfg.Pagination.AdminPosts)
	assert.Equal(t, 20, cfg.Pagination.AdminComments)
	assert.Equal(t, "Authorization", cfg.Auth.CookieName)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CONFIG_FILE", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
database:
  name: blog_from_file
auth:
  jwt_secret: from-file
  token_ttl: 2h
pagination:
  public_posts: 5
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_NAME", "blog_from_env")
	t.Setenv("ADMIN_POSTS_PER_PAGE", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "blog_from_env", cfg.Database.Name)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5, cfg.Pagination.PublicPosts)
	assert.Equal(t, 30, cfg.Pagination.AdminPosts)
	assert.Equal(t, 20, cfg.Pagination.AdminComments)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-dotenv\nLOG_LEVEL=debug\n"), 0o600))

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_TrustedProxies(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12,")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.Server.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "not-an-ip")
	_, err = Load()
	assert.ErrorContains(t, err, "invalid trusted proxy")
}

func TestDefaultTrustsNoProxy(t *testing.T) {
	assert.Empty(t, Default().Server.TrustedProxies)
}

func TestGetDSN(t *testing.T) {
	cfg := Default().Database
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=personal_blog sslmode=disable", cfg.GetDSN())
}
