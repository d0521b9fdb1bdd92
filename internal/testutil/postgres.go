package testutil

import (
	"fmt"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/quizhub/quizhub-api/internal/repository/dao"
)

// StartPostgres spins up a throwaway Postgres container, migrates the schema
// and hands back a connected gorm session. The test is skipped when Docker is
// not reachable, so the suite still runs on machines without it.
func StartPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("skipping, could not construct docker pool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("skipping, could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("could not purge postgres container: %v", err)
		}
	})

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	if err = pool.Retry(func() error {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		t.Fatalf("could not connect to postgres container: %v", err)
	}

	if err = dao.InitTables(db); err != nil {
		t.Fatalf("could not migrate tables: %v", err)
	}

	return db
}
