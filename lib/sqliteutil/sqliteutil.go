package sqliteutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// OpenDB opens (creating if necessary) a sqlite database at path and
// applies the given schema. `:memory:` is accepted as a path.
func OpenDB(schema, path string) (*sql.DB, error) {
	if path != ":memory:" {
		os.MkdirAll(filepath.Dir(path), 0777)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	if schema != "" {
		_, err = db.Exec(schema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			return nil, wrapOpenDB(err)
		}
	}

	return db, nil
}
