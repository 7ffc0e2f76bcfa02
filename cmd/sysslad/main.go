package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	charmLog "github.com/charmbracelet/log"
	serveradapter "github.com/hylla/syssla/internal/adapters/server"
	"github.com/hylla/syssla/internal/adapters/storage/sqlite"
	"github.com/hylla/syssla/internal/app"
	"github.com/hylla/syssla/internal/config"
	"github.com/hylla/syssla/internal/platform"
)

// version stores a package-level helper value.
var version = "dev"

// serveRunner starts the HTTP+MCP serve flow.
var serveRunner = func(ctx context.Context, cfg serveradapter.Config, deps serveradapter.Dependencies) error {
	return serveradapter.Run(ctx, cfg, deps)
}

// main handles main.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("sysslad", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath  string
		dbPath      string
		httpBind    string
		apiEndpoint string
		mcpEndpoint string
		env         string
		seed        bool
		appName     string
		showVer     bool
	)
	if envApp := strings.TrimSpace(os.Getenv("SYSSLAD_APP_NAME")); envApp != "" {
		appName = envApp
	} else {
		appName = "sysslad"
	}
	fs.StringVar(&configPath, "config", "", "path to config TOML")
	fs.StringVar(&dbPath, "db", "", "path to sqlite database")
	fs.StringVar(&httpBind, "http", "", "HTTP listen address (overrides config)")
	fs.StringVar(&apiEndpoint, "api-endpoint", "/api", "HTTP API base endpoint")
	fs.StringVar(&mcpEndpoint, "mcp-endpoint", "/mcp", "MCP streamable HTTP endpoint")
	fs.StringVar(&env, "env", "", "environment label reported by /healthz (overrides config)")
	fs.BoolVar(&seed, "seed", false, "seed fixture todos when the database is empty")
	fs.StringVar(&appName, "app", appName, "application name for config/data path resolution")
	fs.BoolVar(&showVer, "version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVer {
		_, _ = fmt.Fprintf(stdout, "sysslad %s\n", version)
		return nil
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	paths, err := platform.DefaultPathsWithOptions(platform.Options{AppName: appName})
	if err != nil {
		return err
	}

	dbOverridden := strings.TrimSpace(dbPath) != ""
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("SYSSLAD_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("SYSSLAD_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	defaultCfg := config.Default(dbPath)
	cfg, err := config.Load(configPath, defaultCfg)
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}
	if strings.TrimSpace(httpBind) != "" {
		cfg.Server.Bind = httpBind
	}
	if strings.TrimSpace(env) != "" {
		cfg.Server.Env = env
	}
	if seed {
		cfg.Server.SeedOnStart = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	level, err := charmLog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("parse logging level %q: %w", cfg.Logging.Level, err)
	}
	logger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})

	logger.Info("startup configuration resolved", "app", appName, "env", cfg.Server.Env, "http_bind", cfg.Server.Bind)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open sqlite repository: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
	}()
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path, "migrations", "ensured")

	svc := app.NewService(repo)
	if cfg.Server.SeedOnStart {
		seeded, err := svc.SeedIfEmpty(ctx)
		if err != nil {
			logger.Error("seed fixtures failed", "err", err)
			return fmt.Errorf("seed fixtures: %w", err)
		}
		if seeded > 0 {
			logger.Info("seeded fixture todos", "count", seeded)
		}
	}

	logger.Info("command flow start", "command", "serve", "http_bind", cfg.Server.Bind, "api_endpoint", apiEndpoint, "mcp_endpoint", mcpEndpoint)
	err = serveRunner(ctx, serveradapter.Config{
		HTTPBind:      cfg.Server.Bind,
		APIEndpoint:   apiEndpoint,
		MCPEndpoint:   mcpEndpoint,
		ServerName:    appName,
		ServerVersion: version,
		Env:           cfg.Server.Env,
	}, serveradapter.Dependencies{
		Todos:  svc,
		Logger: logger,
	})
	if err != nil {
		logger.Error("command flow failed", "command", "serve", "err", err)
		return fmt.Errorf("run serve command: %w", err)
	}
	logger.Info("command flow complete", "command", "serve")
	return nil
}
