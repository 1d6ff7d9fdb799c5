package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/db"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server"
	storegorm "github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store/gorm"
)

// NewPostgresTestContext starts a PostgreSQL testcontainer, migrates it and
// serves the GORM-backed stores from an in-process server.
func NewPostgresTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("helpdesk_test"),
		tcpostgres.WithUsername("helpdesk"),
		tcpostgres.WithPassword("helpdesk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	tc := &TestContext{}
	tc.closers = append(tc.closers, func(ctx context.Context) { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(migrationsDir, connStr); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.Connect(db.Config{URL: connStr})
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}
	if sqlDB, err := database.DB(); err == nil {
		tc.closers = append(tc.closers, func(context.Context) { _ = sqlDB.Close() })
	}

	startInlineServer(tc, testConfig(), server.Stores{
		Users:    storegorm.NewUsersStore(database),
		Tickets:  storegorm.NewTicketsStore(database),
		Comments: storegorm.NewCommentsStore(database),
		Catalog:  storegorm.NewCatalogStore(database),
		Health:   storegorm.NewHealthStore(database),
	})
	return tc, nil
}

func runMigrations(migrationsDir, dbURL string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	// Try relative paths from test directory
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}
