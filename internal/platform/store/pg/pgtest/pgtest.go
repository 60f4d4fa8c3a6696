// Package pgtest starts a disposable postgres for integration tests
package pgtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Start runs postgres:16-alpine and returns its DSN. The container is
// terminated on test cleanup. The first run may pull the image, hence the long deadlines
func Start(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "profitscout",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/profitscout?sslmode=disable", host, port.Port())
}

// Seed creates the manifest table and inserts rows of (dataset, item_id, latest_object)
func Seed(ctx context.Context, t *testing.T, exec func(ctx context.Context, sql string, args ...any) error, rows ...[3]string) {
	t.Helper()
	const ddl = `
create table if not exists artifact_manifests (
	dataset       text not null,
	item_id       text not null,
	latest_object text not null,
	primary key (dataset, item_id)
)`
	if err := exec(ctx, ddl); err != nil {
		t.Fatalf("create manifest table: %v", err)
	}
	for _, r := range rows {
		if err := exec(ctx, `insert into artifact_manifests values ($1, $2, $3)`, r[0], r[1], r[2]); err != nil {
			t.Fatalf("seed %v: %v", r, err)
		}
	}
}
