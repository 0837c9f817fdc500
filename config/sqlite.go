package config

import (
	"database/sql"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteDriverName is the database/sql driver used for sqlite:// URLs
const SQLiteDriverName = "sqlite3_roomboard"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// The built-in lower() only folds ASCII letters
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

// unicodeLower lowercases text values. NULL is treated as the empty string.
func unicodeLower(v any) string {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	default:
		return ""
	}
}

// OpenSQLite gets a GORM dialector for a SQLite file path or :memory:
func OpenSQLite(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{
		DriverName: SQLiteDriverName,
		DSN:        dsn,
	})
}
