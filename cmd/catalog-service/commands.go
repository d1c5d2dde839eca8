package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/smartmarket-catalog/internal/config"
	httpapi "github.com/fairyhunter13/smartmarket-catalog/internal/http"
	"github.com/fairyhunter13/smartmarket-catalog/internal/obs"
	"github.com/fairyhunter13/smartmarket-catalog/internal/service"
	"github.com/fairyhunter13/smartmarket-catalog/internal/store"
)

const (
	configFlag   = "config"
	addrFlag     = "addr"
	driverFlag   = "db-driver"
	dsnFlag      = "db-dsn"
	basePathFlag = "base-path"
)

// Flag maps are built per command: a cobraflags.Flag remembers the command it
// was registered on, so one map cannot be shared between commands.
func newCommonFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		configFlag: &cobraflags.StringFlag{
			Name:  configFlag,
			Value: "",
			Usage: "Path to a config file (yaml, json, toml or env)",
		},
		driverFlag: &cobraflags.StringFlag{
			Name:  driverFlag,
			Value: "",
			Usage: "Datastore driver (memory, sqlite, postgres, mysql)",
		},
		dsnFlag: &cobraflags.StringFlag{
			Name:  dsnFlag,
			Value: "",
			Usage: "Datastore connection string",
		},
	}
}

func newServeFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		addrFlag: &cobraflags.StringFlag{
			Name:  addrFlag,
			Value: "",
			Usage: "HTTP listen address, e.g. :8080",
		},
		basePathFlag: &cobraflags.StringFlag{
			Name:  basePathFlag,
			Value: "",
			Usage: "Prefix for every route, e.g. /smartmarket",
		},
	}
}

// runner executes a command once its configuration is resolved.
type runner func(ctx context.Context, cfg config.Config) error

func newRootCommand() *cobra.Command {
	return buildRootCommand(serveCommand, migrateCommand)
}

func buildRootCommand(serve, migrate runner) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog-service",
		Short:         "SmartMarket catalog service",
		Long:          "CRUD over categories, sub-categories, products, product attributes and product SKUs.",
		RunE:          withConfig(serve),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cobraflags.RegisterMap(root, newCommonFlags())
	cobraflags.RegisterMap(root, newServeFlags())
	root.AddCommand(newServeCommand(serve), newMigrateCommand(migrate))
	return root
}

func newServeCommand(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE:  withConfig(run),
	}
	cobraflags.RegisterMap(cmd, newCommonFlags())
	cobraflags.RegisterMap(cmd, newServeFlags())
	return cmd
}

func newMigrateCommand(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog tables and exit",
		RunE:  withConfig(run),
	}
	cobraflags.RegisterMap(cmd, newCommonFlags())
	return cmd
}

func withConfig(run runner) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		obs.InitLogger(cfg.LogLevel)
		return run(cmd.Context(), cfg)
	}
}

// flagValue returns the parsed value of a string flag of cmd, or "" when cmd
// does not define it.
func flagValue(cmd *cobra.Command, name string) string {
	if cmd.Flags().Lookup(name) == nil {
		return ""
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

// loadConfig reads file and environment configuration and applies the flags
// of cmd on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagValue(cmd, configFlag))
	if err != nil {
		return cfg, err
	}
	if v := flagValue(cmd, driverFlag); v != "" {
		cfg.DBDriver = strings.ToLower(v)
	}
	if v := flagValue(cmd, dsnFlag); v != "" {
		cfg.DBDSN = v
	}
	if v := flagValue(cmd, addrFlag); v != "" {
		cfg.HTTPAddr = v
	}
	if v := flagValue(cmd, basePathFlag); v != "" {
		cfg.BasePath = config.NormalizeBasePath(v)
	}
	return cfg, nil
}

func migrateCommand(ctx context.Context, cfg config.Config) error {
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	obs.Logger.Info("migrate_complete", "driver", cfg.DBDriver)
	return nil
}

func serveCommand(ctx context.Context, cfg config.Config) error {
	obs.Logger.Info("service_starting", "service", cfg.ServiceName, "driver", cfg.DBDriver)

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.DBAutoMigrate {
		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	app := httpapi.NewApp(cfg, st, service.NewCatalog(st))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr, "base_path", cfg.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sigc:
		obs.Logger.Info("shutdown_signal", "signal", s.String())
	case err := <-errc:
		obs.Logger.Error("http_server_error", "error", err)
		return err
	}

	app.StartShutdown()
	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
	return nil
}
