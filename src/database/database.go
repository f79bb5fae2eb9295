package database

import (
	"database/sql"
	"fmt"
	stdlog "log"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/username/zeitan/backend/src/logger"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var DB *sql.DB

// CurrentDialect is the dialect of DB, set by InitDB.
var CurrentDialect = DialectSQLite

// ParseDatabaseURL splits a DATABASE_URL into the driver dialect and the DSN
// handed to sql.Open. Bare paths are sqlite files.
func ParseDatabaseURL(databaseURL string) (Dialect, string, error) {
	switch {
	case databaseURL == "":
		return "", "", fmt.Errorf("database url is empty")
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DialectPostgres, databaseURL, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(databaseURL, "sqlite://"), nil
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return DialectSQLite, strings.TrimPrefix(databaseURL, "sqlite:"), nil
	case strings.Contains(databaseURL, "://"):
		return "", "", fmt.Errorf("unsupported database url scheme in %q", databaseURL)
	default:
		return DialectSQLite, databaseURL, nil
	}
}

// Open connects to databaseURL and ensures the schema exists.
func Open(databaseURL string) (*sql.DB, Dialect, error) {
	dialect, dsn, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// A second connection to ":memory:" would see an empty database.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, "", fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to reach %s database: %w", dialect, err)
	}
	if err := Migrate(db, dialect); err != nil {
		db.Close()
		return nil, "", err
	}
	return db, dialect, nil
}

// InitDB opens the application database into DB and exits on failure.
func InitDB(databaseURL string) {
	db, dialect, err := Open(databaseURL)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to initialise database", "error", err)
		}
		stdlog.Fatalf("failed to initialise database: %v", err)
	}
	DB = db
	CurrentDialect = dialect
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.", "dialect", string(dialect))
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// Rebind rewrites ? placeholders into $n for postgres.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
