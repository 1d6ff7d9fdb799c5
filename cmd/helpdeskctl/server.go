package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/config"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/db"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/logging"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/seed"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/endpoints"
	storegorm "github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store/gorm"
	storemockdb "github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store/mockdb"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the helpdesk API server",
	Long: `Run the helpdesk API server.

By default the server runs against an in-memory store seeded with demo data;
all changes are lost on restart. Set USE_MOCK_DB=false and DATABASE_URL to
run against Postgres. Database migrations are then run on startup unless
--no-migrate is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(cmd); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 0, "server listen port (overrides PORT)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (overrides BIND_ADDRESS)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("bind-address") {
		cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
	}

	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var stores server.Stores
	if cfg.UseMockDB {
		stores, err = mockStores(ctx, cfg)
	} else {
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		stores, err = postgresStores(cfg, noMigrate)
	}
	if err != nil {
		return err
	}

	s := server.NewServer(cfg, stores)
	endpoints.RegisterAll(s)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	slog.Info("running server", "address", cfg.Address(), "environment", cfg.Environment, "mock_db", cfg.UseMockDB)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func mockStores(ctx context.Context, cfg *config.Config) (server.Stores, error) {
	slog.Warn("using in-memory database; all data is reset on restart")

	store, err := seed.NewStore(cfg.SeedFile, time.Now())
	if err != nil {
		return server.Stores{}, err
	}

	if cfg.WatchSeed && cfg.SeedFile != "" {
		go func() {
			if err := seed.Watch(ctx, store, cfg.SeedFile, time.Now); err != nil {
				slog.Error("seed watch stopped", "error", err)
			}
		}()
	}

	client := mockdb.NewClient(store)
	return server.Stores{
		Users:    storemockdb.NewUsersStore(client),
		Tickets:  storemockdb.NewTicketsStore(client),
		Comments: storemockdb.NewCommentsStore(client),
		Catalog:  storemockdb.NewCatalogStore(client),
		Health:   storemockdb.NewHealthStore(client),
	}, nil
}

func postgresStores(cfg *config.Config, noMigrate bool) (server.Stores, error) {
	if !noMigrate {
		slog.Info("running database migrations")
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return server.Stores{}, fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL, LogLevel: cfg.LogLevel})
	if err != nil {
		return server.Stores{}, err
	}

	return server.Stores{
		Users:    storegorm.NewUsersStore(database),
		Tickets:  storegorm.NewTicketsStore(database),
		Comments: storegorm.NewCommentsStore(database),
		Catalog:  storegorm.NewCatalogStore(database),
		Health:   storegorm.NewHealthStore(database),
	}, nil
}
