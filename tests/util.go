package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/concept"
	"github.com/flmvela/gemeos/core/domain"
	"github.com/flmvela/gemeos/storage/database"
)

// PrepareDB opens and migrates the TEST database, emptying its tables.
// The test is skipped when no database is reachable (set TEST_DATABASE_HOST to run against one).
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if os.Getenv("TEST_DATABASE_HOST") == "" {
		t.Skip("TEST_DATABASE_HOST not set, skipping database test")
	}
	if err := os.Setenv("ENV", "TEST"); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	conf := core.NewConfig()

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("database.Open(): %v", err)
	}
	if err = db.Ping(); err != nil {
		t.Skipf("database not reachable: %v", err)
	}
	if err = database.Migrate(db, "up"); err != nil {
		t.Fatalf("database.Migrate(): %v", err)
	}
	ResetDB(t, db)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	if _, err := db.Exec("TRUNCATE TABLE concept, domain CASCADE"); err != nil {
		t.Fatalf("ResetDB(): %v", err)
	}
}

func CreateDomain(t *testing.T, repo domain.Repository, name string) domain.Domain {
	t.Helper()
	now := time.Now().UTC()
	dom, err := repo.CreateDomain(context.Background(), domain.Domain{Name: name, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("CreateDomain() failed: %v", err)
	}
	return dom
}

func CreateConcept(
	t *testing.T,
	repo concept.Repository,
	domainID, name string,
	status concept.Status,
	parentID ...string,
) concept.Concept {
	t.Helper()
	nc := concept.NewConcept{DomainID: domainID, Name: name, Status: status}
	if len(parentID) > 0 {
		nc.ParentID = &parentID[0]
	}
	c, err := repo.InsertConcept(context.Background(), nc)
	if err != nil {
		t.Fatalf("CreateConcept() failed: %v", err)
	}
	return c
}
