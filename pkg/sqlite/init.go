package sqlite

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered by this package.
const DriverName = "sqlite3_querybot"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			for _, pragma := range []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA foreign_keys = ON",
			} {
				if _, err := conn.Exec(pragma, nil); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
