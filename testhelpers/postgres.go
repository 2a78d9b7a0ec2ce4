package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/danielk69/AWIL/config"
	"github.com/danielk69/AWIL/database"
)

// PostgresImage is the server image used for integration tests.
const PostgresImage = "postgres:16-alpine"

// PostgresDB is a shared, migrated postgres container.
type PostgresDB struct {
	Container testcontainers.Container
	Config    config.DatabaseConfig
	DB        *gorm.DB
}

var (
	sharedPostgres     *PostgresDB
	sharedPostgresOnce sync.Once
	sharedPostgresErr  error
)

// GetPostgresDB returns a postgres container shared by every test in the
// run, with migrations applied. Skipped in short mode (requires Docker).
func GetPostgresDB(t *testing.T) *PostgresDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedPostgresOnce.Do(func() {
		sharedPostgres, sharedPostgresErr = setupPostgres()
	})

	if sharedPostgresErr != nil {
		t.Fatalf("Failed to setup postgres: %v", sharedPostgresErr)
	}

	return sharedPostgres
}

// Truncate empties the catalog tables.
func (p *PostgresDB) Truncate(t *testing.T) {
	t.Helper()
	err := p.DB.Exec("TRUNCATE name_categories, names, categories, subthemes, themes, admins RESTART IDENTITY").Error
	if err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}
}

func setupPostgres() (*PostgresDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "awil_test",
			"POSTGRES_USER":     "awil",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	cfg := config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		Host:         host,
		Port:         port.Int(),
		User:         "awil",
		Password:     "test_password",
		Name:         "awil_test",
		SSLMode:      "disable",
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(cfg, db, zap.NewNop()); err != nil {
		return nil, err
	}

	return &PostgresDB{Container: container, Config: cfg, DB: db}, nil
}
