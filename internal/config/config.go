// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds configuration knobs for the HTTP server and the datastore.
type Config struct {
	HTTPAddr        string
	BasePath        string
	ShutdownTimeout time.Duration
	DBDriver        string
	DBDSN           string
	DBAutoMigrate   bool
	DBSlowQuery     time.Duration
	LogLevel        string
	ServerTiming    bool
	ServiceName     string
}

const (
	keyConfigFile      = "CONFIG_FILE"
	keyHTTPAddr        = "HTTP_ADDR"
	keyBasePath        = "HTTP_BASE_PATH"
	keyShutdownTimeout = "SHUTDOWN_TIMEOUT"
	keyDBDriver        = "DB_DRIVER"
	keyDBDSN           = "DB_DSN"
	keyDBAutoMigrate   = "DB_AUTO_MIGRATE"
	keyDBSlowQueryMs   = "DB_SLOW_QUERY_MS"
	keyLogLevel        = "LOG_LEVEL"
	keyServerTiming    = "SERVER_TIMING"
	keyServiceName     = "SERVICE_NAME"
)

const (
	defShutdownSec = 15
	defSlowQueryMs = 200
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyHTTPAddr, ":8080")
	v.SetDefault(keyBasePath, "")
	v.SetDefault(keyShutdownTimeout, defShutdownSec)
	v.SetDefault(keyDBDriver, "sqlite")
	v.SetDefault(keyDBDSN, "catalog.db")
	v.SetDefault(keyDBAutoMigrate, true)
	v.SetDefault(keyDBSlowQueryMs, defSlowQueryMs)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyServerTiming, true)
	v.SetDefault(keyServiceName, "smartmarket-catalog")
	v.AutomaticEnv()
	return v
}

func positive(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

// nonNegative parses raw, keeping 0 as a meaningful value. Anything that is
// not a non-negative integer yields def.
func nonNegative(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// NormalizeBasePath returns p with a single leading slash and no trailing
// slash. The root path normalizes to "".
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// Load collects configuration with the precedence environment, then the
// config file, then defaults. file may be empty, in which case CONFIG_FILE is
// consulted; with neither set no file is read.
func Load(file string) (Config, error) {
	v := newViper()
	if file == "" {
		file = v.GetString(keyConfigFile)
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return Config{
		HTTPAddr:        v.GetString(keyHTTPAddr),
		BasePath:        NormalizeBasePath(v.GetString(keyBasePath)),
		ShutdownTimeout: time.Duration(positive(v.GetInt(keyShutdownTimeout), defShutdownSec)) * time.Second,
		DBDriver:        strings.ToLower(v.GetString(keyDBDriver)),
		DBDSN:           v.GetString(keyDBDSN),
		DBAutoMigrate:   v.GetBool(keyDBAutoMigrate),
		DBSlowQuery:     time.Duration(nonNegative(v.GetString(keyDBSlowQueryMs), defSlowQueryMs)) * time.Millisecond,
		LogLevel:        v.GetString(keyLogLevel),
		ServerTiming:    v.GetBool(keyServerTiming),
		ServiceName:     v.GetString(keyServiceName),
	}, nil
}
