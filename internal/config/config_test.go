package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	keyConfigFile, keyHTTPAddr, keyBasePath, keyShutdownTimeout, keyDBDriver, keyDBDSN,
	keyDBAutoMigrate, keyDBSlowQueryMs, keyLogLevel, keyServerTiming, keyServiceName,
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "", c.BasePath)
	assert.Equal(t, 15*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "catalog.db", c.DBDSN)
	assert.True(t, c.DBAutoMigrate)
	assert.Equal(t, 200*time.Millisecond, c.DBSlowQuery)
	assert.Equal(t, "info", c.LogLevel)
	assert.True(t, c.ServerTiming)
	assert.Equal(t, "smartmarket-catalog", c.ServiceName)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(keyHTTPAddr, ":9090")
	t.Setenv(keyBasePath, "smartmarket/")
	t.Setenv(keyShutdownTimeout, "2")
	t.Setenv(keyDBDriver, "Postgres")
	t.Setenv(keyDBDSN, "postgres://u:p@localhost:5432/catalog")
	t.Setenv(keyDBAutoMigrate, "false")
	t.Setenv(keyDBSlowQueryMs, "50")
	t.Setenv(keyLogLevel, "debug")
	t.Setenv(keyServerTiming, "0")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, "/smartmarket", c.BasePath)
	assert.Equal(t, 2*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "postgres://u:p@localhost:5432/catalog", c.DBDSN)
	assert.False(t, c.DBAutoMigrate)
	assert.Equal(t, 50*time.Millisecond, c.DBSlowQuery)
	assert.Equal(t, "debug", c.LogLevel)
	assert.False(t, c.ServerTiming)
}

func TestLoadInvalidDurationsFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(keyShutdownTimeout, "soon")
	t.Setenv(keyDBSlowQueryMs, "-1")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 200*time.Millisecond, c.DBSlowQuery)
}

func TestLoadSlowQueryZeroDisables(t *testing.T) {
	clearEnv(t)
	t.Setenv(keyDBSlowQueryMs, "0")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), c.DBSlowQuery)

	t.Setenv(keyDBSlowQueryMs, "fast")
	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, c.DBSlowQuery)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":7070\"\ndb_driver: memory\nhttp_base_path: /smartmarket\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", c.HTTPAddr)
	assert.Equal(t, "memory", c.DBDriver)
	assert.Equal(t, "/smartmarket", c.BasePath)

	t.Setenv(keyHTTPAddr, ":6060")
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", c.HTTPAddr, "environment wins over the file")
}

func TestLoadConfigFileFromEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))
	t.Setenv(keyConfigFile, path)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestNormalizeBasePath(t *testing.T) {
	assert.Equal(t, "", NormalizeBasePath("/"))
	assert.Equal(t, "", NormalizeBasePath(""))
	assert.Equal(t, "/smartmarket", NormalizeBasePath("/smartmarket/"))
	assert.Equal(t, "/a/b", NormalizeBasePath("a/b"))
}
