package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/wojciechkepka/notor/internal/auth"
	"github.com/wojciechkepka/notor/internal/config"
	"github.com/wojciechkepka/notor/internal/logging"
	"github.com/wojciechkepka/notor/internal/server"
	"github.com/wojciechkepka/notor/internal/store"
	"github.com/wojciechkepka/notor/pkg/model"
)

func main() {
	configFile := flag.String("config", "", "Path to server config file (YAML)")

	var flagAddr, flagLogLevel, flagLogFormat, flagDB string
	flag.StringVar(&flagAddr, "addr", "", "Listen address")
	flag.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")
	flag.StringVar(&flagDB, "db", "", "Database path (default ~/.notor/notor.db)")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")

	// Account bootstrap: the admin API needs an admin to exist first.
	createUser := flag.String("create-user", "", "Create an account (username:password) and exit")
	createRole := flag.String("create-role", "user", "Role for --create-user (user, admin)")

	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the file.
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	// Account bootstrap never signs tokens, so it can run without a secret.
	if *createUser == "" {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
			os.Exit(1)
		}
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Resolve database path.
	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot determine home directory: %v\n", err)
			os.Exit(1)
		}
		dir := filepath.Join(home, ".notor")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "cannot create %s: %v\n", dir, err)
			os.Exit(1)
		}
		dbPath = filepath.Join(dir, "notor.db")
	}

	// Open store and run migrations.
	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", dbPath)

	if *createUser != "" {
		if err := bootstrapUser(st, *createUser, *createRole); err != nil {
			fmt.Fprintf(os.Stderr, "create user: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Wire the auth subsystem.
	codec := auth.NewCodec([]byte(cfg.Secret))
	gate := auth.NewGate(codec, st, logger)
	issuer := auth.NewIssuer(codec, st, st, logger)
	sweeper := auth.NewSweeper(st, auth.DefaultSweepInterval, logger)

	srv := server.New(cfg, st, gate, issuer, logger)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sweep expired sessions in the background.
	go sweeper.Run(ctx)

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// bootstrapUser creates an account directly in the store from a
// "username:password" pair.
func bootstrapUser(st store.Store, account, role string) error {
	username, password, ok := strings.Cut(account, ":")
	if !ok || username == "" || password == "" {
		return fmt.Errorf("expected username:password, got %q", account)
	}
	parsed, err := model.ParseRole(role)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user, err := st.CreateUser(context.Background(), &model.NewUser{
		Username: username,
		Role:     parsed,
	}, hash)
	if err != nil {
		return err
	}
	fmt.Printf("created %s account %q (id %d)\n", user.Role, user.Username, user.ID)
	return nil
}
