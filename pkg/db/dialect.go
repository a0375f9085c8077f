package db

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Driver names the database engine behind a DATABASE_URL.
type Driver string

const (
	Postgres Driver = "postgres"
	MySQL    Driver = "mysql"
	SQLite   Driver = "sqlite"
)

var ErrUnsupportedURL = errors.New("unsupported database url")

// ParseURL resolves the driver and driver-native DSN for a database URL.
// SQLAlchemy-style scheme suffixes such as "postgresql+psycopg2" are accepted.
func ParseURL(raw string) (Driver, string, error) {
	raw = strings.TrimSpace(raw)
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "", "", fmt.Errorf("%w: missing scheme", ErrUnsupportedURL)
	}
	if base, _, found := strings.Cut(scheme, "+"); found {
		scheme = base
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return Postgres, "postgres://" + rest, nil
	case "mysql", "mariadb":
		dsn, err := mysqlDSN("mysql://" + rest)
		if err != nil {
			return "", "", err
		}
		return MySQL, dsn, nil
	case "sqlite", "sqlite3":
		return SQLite, sqlitePath(rest), nil
	default:
		return "", "", fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, scheme)
	}
}

// Dialect builds the gorm dialector for the configured URL.
func Dialect(cfg Config) (gorm.Dialector, Driver, error) {
	driver, dsn, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, "", err
	}

	switch driver {
	case Postgres:
		return postgres.Open(dsn), driver, nil
	case MySQL:
		return mysql.Open(dsn), driver, nil
	case SQLite:
		return sqlite.Open(dsn), driver, nil
	default:
		return nil, "", fmt.Errorf("%w: driver %q", ErrUnsupportedURL, driver)
	}
}

// mysqlDSN converts a URL into a go-sql-driver DSN. clientFoundRows makes an
// UPDATE that rewrites identical values still report the matched row.
func mysqlDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}

	cfg := mysqldriver.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Hostname() + ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true

	query := u.Query()
	if len(query) > 0 {
		cfg.Params = make(map[string]string, len(query))
		for key := range query {
			cfg.Params[key] = query.Get(key)
		}
	}

	return cfg.FormatDSN(), nil
}

// sqlitePath follows the SQLAlchemy convention: sqlite:///rel.db is relative,
// sqlite:////abs.db is absolute and an empty path is an in-memory database.
func sqlitePath(rest string) string {
	if rest == "" || rest == "/" {
		return ":memory:"
	}
	if strings.HasPrefix(rest, "/") {
		return rest[1:]
	}
	return rest
}
