// Package dbtest starts a throwaway PostgreSQL container for repository tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nekogravitycat/coworking-booking-backend/internal/db"
)

const (
	user     = "test"
	password = "testpass"
)

var (
	once     sync.Once
	adminDSN string
	startErr error
)

func start() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       "postgres",
		},
		Cmd: []string{"postgres", "-c", "fsync=off", "-c", "synchronous_commit=off"},
		WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return dsn(host, port.Port(), "postgres")
		}).WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		startErr = err
		return
	}

	host, err := c.Host(ctx)
	if err != nil {
		startErr = err
		return
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		startErr = err
		return
	}
	adminDSN = dsn(host, port.Port(), "postgres")
}

func dsn(host, port, database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, database)
}

// NewPool returns a pool on a fresh, migrated database. The test is skipped
// under -short or when Docker is not available. The container is shared by
// every test in the process and removed by the testcontainers reaper.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(start)
	require.NoError(t, startErr, "start postgres container")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err)
	defer admin.Close()

	name := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.Exec(ctx, "CREATE DATABASE "+name)
	require.NoError(t, err)

	testDSN := strings.Replace(adminDSN, "/postgres?", "/"+name+"?", 1)
	require.NoError(t, db.Migrate(testDSN))

	pool, err := db.NewPool(ctx, testDSN)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if admin, err := pgxpool.New(cleanupCtx, adminDSN); err == nil {
			_, _ = admin.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+name)
			admin.Close()
		}
	})
	return pool
}

// Seed inserts a user and a resource and returns their ids.
func Seed(t *testing.T, pool *pgxpool.Pool, username, resourceName string) (userID, resourceID int64) {
	t.Helper()
	ctx := context.Background()

	err := pool.QueryRow(ctx,
		`INSERT INTO public.users (username, password_hash) VALUES ($1, 'x') RETURNING id`, username,
	).Scan(&userID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx,
		`INSERT INTO public.resources (name, capacity, kind) VALUES ($1, 1, 'workspace') RETURNING id`, resourceName,
	).Scan(&resourceID)
	require.NoError(t, err)
	return userID, resourceID
}
