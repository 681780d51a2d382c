//go:build integration

package db

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

var (
	pgOnce    sync.Once
	pgDSN     string
	pgInitErr error
)

// SetupPostgresTestDB starts a shared PostgreSQL container once per test binary,
// migrates it, and returns a connection with all tables emptied.
func SetupPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	pgOnce.Do(func() {
		pgDSN, pgInitErr = startPostgresContainer()
	})
	if pgInitErr != nil {
		t.Fatalf("failed to start postgres container: %v", pgInitErr)
	}

	conn, err := Open(pgDSN)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	if err := MigrateDB(conn); err != nil {
		t.Fatalf("failed to migrate postgres: %v", err)
	}
	if err := TruncateAllTables(conn); err != nil {
		t.Fatalf("failed to truncate postgres: %v", err)
	}

	t.Cleanup(func() { CleanupTestDB(conn) })
	return conn
}

func startPostgresContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "rota",
			"POSTGRES_PASSWORD": "rota",
			"POSTGRES_DB":       "rota_test",
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
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	return fmt.Sprintf("host=%s port=%s user=rota password=rota dbname=rota_test sslmode=disable", host, port.Port()), nil
}
