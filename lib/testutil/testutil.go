package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"brandsentinel-backend/lib/reviewstore/db"
	"brandsentinel-backend/lib/sqliteutil"
	"brandsentinel-backend/lib/telemetry"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService prepares telemetry and a record database for a service
// test.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(fmt.Sprintf("test:%s", params.Name))

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}
	sqlite, err := sqliteutil.OpenDB(db.Schema, dbpath)
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{DB: sqlite}, func() {
		sqlite.Close()
		cleanup()
	}
}
