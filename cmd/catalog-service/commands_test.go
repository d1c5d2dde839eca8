package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/smartmarket-catalog/internal/config"
)

func TestRootCommandLayout(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])

	for _, flag := range []string{configFlag, driverFlag, dsnFlag, addrFlag, basePathFlag} {
		assert.NotNil(t, root.Flags().Lookup(flag), flag)
	}

	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)
	assert.NotNil(t, migrate.Flags().Lookup(dsnFlag))
	assert.Nil(t, migrate.Flags().Lookup(addrFlag))
}

func runWithArgs(t *testing.T, args ...string) (served, migrated *config.Config) {
	t.Helper()
	capture := func(dst **config.Config) runner {
		return func(_ context.Context, cfg config.Config) error {
			*dst = &cfg
			return nil
		}
	}
	root := buildRootCommand(capture(&served), capture(&migrated))
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return served, migrated
}

func TestFlagsOverrideConfig(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "DB_DRIVER", "DB_DSN", "HTTP_ADDR", "HTTP_BASE_PATH"} {
		t.Setenv(key, "")
	}
	cases := []struct {
		name    string
		args    []string
		migrate bool
		driver  string
		addr    string
	}{
		{"serve", []string{"serve", "--db-driver", "memory", "--addr", ":9999"}, false, "memory", ":9999"},
		{"default command", []string{"--db-driver", "memory", "--addr", ":9998"}, false, "memory", ":9998"},
		{"migrate", []string{"migrate", "--db-driver", "MySQL"}, true, "mysql", ":8080"},
		{"no flags", []string{"serve"}, false, "sqlite", ":8080"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			served, migrated := runWithArgs(t, tc.args...)
			got := served
			if tc.migrate {
				assert.Nil(t, served)
				got = migrated
			} else {
				assert.Nil(t, migrated)
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.driver, got.DBDriver)
			assert.Equal(t, tc.addr, got.HTTPAddr)
		})
	}
}

func TestFlagsBeatEnvironmentAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_driver: postgres\ndb_dsn: from-file\nhttp_base_path: /file\n"), 0o600))
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "from-env")
	t.Setenv("HTTP_BASE_PATH", "")

	served, _ := runWithArgs(t, "serve", "--config", path)
	require.NotNil(t, served)
	assert.Equal(t, "postgres", served.DBDriver)
	assert.Equal(t, "from-env", served.DBDSN)
	assert.Equal(t, "/file", served.BasePath)

	served, _ = runWithArgs(t, "serve", "--config", path, "--db-dsn", "from-flag", "--base-path", "smartmarket/")
	require.NotNil(t, served)
	assert.Equal(t, "from-flag", served.DBDSN)
	assert.Equal(t, "/smartmarket", served.BasePath)
}
