package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"green2/internal/dialect"
)

var (
	// ErrNoColumns is returned when none of the requested columns exist.
	ErrNoColumns = errors.New("no existing column selected")
	// ErrUnsupportedDatabase is returned when a transport can not talk to a DBMS.
	ErrUnsupportedDatabase = errors.New("database not supported by transport")
	// ErrDatabaseNotFound is returned when the configured database does not exist.
	ErrDatabaseNotFound = errors.New("database not found")
)

// Executor runs SQL on a database. It does not know anything about the
// declared tables.
type Executor interface {
	// ExecQuery returns all rows of the result, the column headings first.
	ExecQuery(ctx context.Context, query string) ([][]sql.NullString, error)
	ExecUpdate(ctx context.Context, statement string) error
	Close() error
}

// Info identifies the database a profile refers to.
type Info struct {
	DatabaseName string
	Dialect      *dialect.Dialect
}

// ExecError is a failure of an executor running SQL.
type ExecError struct {
	SQL string
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("failed to execute %q: %v", e.SQL, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// SchemeCreationError reports a table which could not be created.
type SchemeCreationError struct {
	Table string
	Err   error
}

func (e *SchemeCreationError) Error() string {
	return fmt.Sprintf("could not create table %s: %v", e.Table, e.Err)
}

func (e *SchemeCreationError) Unwrap() error {
	return e.Err
}
