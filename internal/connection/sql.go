package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	mssql "github.com/microsoft/go-mssqldb"
	go_ora "github.com/sijms/go-ora/v2"

	"green2/internal/dialect"
)

// SQLConfig describes a database reachable through a database/sql driver.
// For SQLite Database is the path of the database file.
type SQLConfig struct {
	Dialect  *dialect.Dialect
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

func (cfg SQLConfig) port() int {
	if cfg.Port > 0 {
		return cfg.Port
	}
	return cfg.Dialect.DefaultPort()
}

func (cfg SQLConfig) addr() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.port()))
}

func (cfg SQLConfig) userinfo() *url.Userinfo {
	if cfg.User == "" {
		return nil
	}
	return url.UserPassword(cfg.User, cfg.Password)
}

// DSN returns the data source name for the driver of cfg.Dialect.
func (cfg SQLConfig) DSN() (string, error) {
	switch cfg.Dialect {
	case dialect.MySQL:
		c := mysql.NewConfig()
		c.User = cfg.User
		c.Passwd = cfg.Password
		c.Net = "tcp"
		c.Addr = cfg.addr()
		c.DBName = cfg.Database
		return c.FormatDSN(), nil
	case dialect.PostgreSQL:
		u := url.URL{
			Scheme:   "postgres",
			User:     cfg.userinfo(),
			Host:     cfg.addr(),
			Path:     "/" + cfg.Database,
			RawQuery: "sslmode=disable",
		}
		return u.String(), nil
	case dialect.SQLServer:
		u := url.URL{
			Scheme:   "sqlserver",
			User:     cfg.userinfo(),
			Host:     cfg.addr(),
			RawQuery: url.Values{"database": {cfg.Database}}.Encode(),
		}
		return u.String(), nil
	case dialect.Oracle:
		return go_ora.BuildUrl(cfg.Host, cfg.port(), cfg.Database, cfg.User, cfg.Password, nil), nil
	case dialect.SQLite:
		return cfg.Database, nil
	default:
		return "", fmt.Errorf("%s over database/sql: %w", cfg.Dialect, ErrUnsupportedDatabase)
	}
}

// SQLExecutor runs SQL through database/sql.
type SQLExecutor struct {
	db *sql.DB
}

// NewSQLExecutor wraps an already opened database.
func NewSQLExecutor(db *sql.DB) *SQLExecutor {
	return &SQLExecutor{db: db}
}

// OpenSQL connects to the database described by cfg and verifies the connection.
func OpenSQL(ctx context.Context, cfg SQLConfig) (*SQLExecutor, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Dialect.Driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if isUnknownDatabase(err) {
			return nil, fmt.Errorf("%s: %w", cfg.Database, ErrDatabaseNotFound)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Dialect, err)
	}
	return &SQLExecutor{db: db}, nil
}

// isUnknownDatabase detects the driver specific errors for a missing database.
func isUnknownDatabase(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1049
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "3D000"
	}
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return msErr.Number == 4060
	}
	return false
}

func (e *SQLExecutor) ExecQuery(ctx context.Context, query string) ([][]sql.NullString, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &ExecError{SQL: query, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &ExecError{SQL: query, Err: err}
	}
	headings := make([]sql.NullString, len(columns))
	for i, c := range columns {
		headings[i] = sql.NullString{String: c, Valid: true}
	}
	result := [][]sql.NullString{headings}

	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &ExecError{SQL: query, Err: fmt.Errorf("failed to scan row: %w", err)}
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecError{SQL: query, Err: err}
	}
	return result, nil
}

func (e *SQLExecutor) ExecUpdate(ctx context.Context, statement string) error {
	if _, err := e.db.ExecContext(ctx, statement); err != nil {
		return &ExecError{SQL: statement, Err: err}
	}
	return nil
}

func (e *SQLExecutor) Close() error {
	return e.db.Close()
}
