// Package connection reconciles the declared tables with the tables and
// columns a live database actually contains.
package connection

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"green2/internal/dialect"
	"green2/internal/schema"
)

// Connection combines an Executor with the declared tables and caches what it
// learns about the database.
type Connection struct {
	tables []schema.Table
	cache  *SchemaCache

	mu   sync.RWMutex
	exec Executor
	info Info
}

// New returns a connection reconciling tables against the database exec is connected to.
func New(exec Executor, info Info, tables ...schema.Table) *Connection {
	return &Connection{
		tables: tables,
		cache:  NewSchemaCache(),
		exec:   exec,
		info:   info,
	}
}

// Tables returns the declared tables.
func (c *Connection) Tables() []schema.Table {
	return c.tables
}

func (c *Connection) session() (Executor, Info) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exec, c.info
}

func (c *Connection) Info() Info {
	_, info := c.session()
	return info
}

// OnProfileChanged switches to another database. Cached tables and columns are
// dropped; population running concurrently finishes before. A replaced
// executor is closed.
func (c *Connection) OnProfileChanged(exec Executor, info Info) {
	var old Executor
	c.cache.Invalidate(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if exec != c.exec {
			old = c.exec
		}
		c.exec = exec
		c.info = info
	})
	log.Info().Str("database", info.DatabaseName).Str("dialect", info.Dialect.String()).Msg("Profile changed")
	if old != nil {
		if err := old.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close previous connection")
		}
	}
}

func (c *Connection) ExecQuery(ctx context.Context, query string) ([][]sql.NullString, error) {
	exec, _ := c.session()
	return exec.ExecQuery(ctx, query)
}

func (c *Connection) ExecUpdate(ctx context.Context, statement string) error {
	exec, _ := c.session()
	return exec.ExecUpdate(ctx, statement)
}

func (c *Connection) Close() error {
	exec, _ := c.session()
	return exec.Close()
}

// TableExists reports whether table exists, ignoring case.
func (c *Connection) TableExists(ctx context.Context, table schema.Table) (bool, error) {
	return c.cache.TableExists(table.Name(), func() ([]string, error) {
		exec, info := c.session()
		query, err := info.Dialect.Template(dialect.QueryTableNames, info.Dialect.EscapeString(info.DatabaseName))
		if err != nil {
			return nil, err
		}
		result, err := exec.ExecQuery(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to query table names: %w", err)
		}
		names := make([]string, 0, len(result))
		for _, row := range skipHeadings(result) {
			if len(row) > 0 && row[0].Valid {
				names = append(names, row[0].String)
			}
		}
		return names, nil
	})
}

// MissingTables returns the declared tables which do not exist.
func (c *Connection) MissingTables(ctx context.Context) ([]schema.Table, error) {
	var missing []schema.Table
	for _, t := range c.tables {
		exists, err := c.TableExists(ctx, t)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, t)
		}
	}
	return missing, nil
}

// CreateTablesIfNeeded asks confirm whether to create the missing tables and
// creates them if it agrees. It reports whether all declared tables exist
// afterwards.
func (c *Connection) CreateTablesIfNeeded(ctx context.Context, confirm func(missing []schema.Table) bool) (bool, error) {
	missing, err := c.MissingTables(ctx)
	if err != nil {
		return false, err
	}
	if len(missing) == 0 {
		return true, nil
	}
	if !confirm(missing) {
		return false, nil
	}

	_, info := c.session()
	defer c.cache.Invalidate(nil)
	for _, t := range missing {
		statement, err := info.Dialect.CreateTable(t)
		if err != nil {
			return false, &SchemeCreationError{Table: t.Name(), Err: err}
		}
		if err := c.ExecUpdate(ctx, statement); err != nil {
			return false, &SchemeCreationError{Table: t.Name(), Err: err}
		}
		log.Info().Str("table", t.Name()).Msg("Created table")
	}
	return true, nil
}

// AllColumns returns the existing columns of table, including undeclared ones.
// Columns of a type the dialect does not know are left out.
func (c *Connection) AllColumns(ctx context.Context, table schema.Table) ([]LiveColumn, error) {
	return c.cache.Columns(table.Name(), func() ([]LiveColumn, error) {
		exec, info := c.session()
		query, err := info.Dialect.Template(dialect.QueryColumnNamesAndTypes,
			info.Dialect.EscapeString(info.DatabaseName), info.Dialect.EscapeString(table.Name()))
		if err != nil {
			return nil, err
		}
		result, err := exec.ExecQuery(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to query columns of %s: %w", table.Name(), err)
		}
		var columns []LiveColumn
		for _, row := range skipHeadings(result) {
			if len(row) < 2 || !row[0].Valid {
				continue
			}
			typ, ok := info.Dialect.ColumnTypeOf(row[1].String)
			if !ok {
				log.Warn().Str("table", table.Name()).Str("column", row[0].String).Msg("Ignoring column of unknown type")
				continue
			}
			columns = append(columns, LiveColumn{Name: row[0].String, Type: typ})
		}
		return columns, nil
	})
}

// ColumnExists reports whether table has a column called columnName, ignoring case.
func (c *Connection) ColumnExists(ctx context.Context, table schema.Table, columnName string) (bool, error) {
	columns, err := c.AllColumns(ctx, table)
	if err != nil {
		return false, err
	}
	return containsColumn(columns, columnName), nil
}

func containsColumn(columns []LiveColumn, name string) bool {
	for _, col := range columns {
		if strings.EqualFold(col.Name, name) {
			return true
		}
	}
	return false
}

// MissingColumns maps tables to the required columns they lack.
type MissingColumns map[schema.Table][]schema.Definition

// String lists every table followed by its missing columns, both sorted by name.
func (m MissingColumns) String() string {
	tables := make([]schema.Table, 0, len(m))
	for t := range m {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name() < tables[j].Name() })

	lines := make([]string, 0, len(tables))
	for _, t := range tables {
		names := make([]string, 0, len(m[t]))
		for _, col := range m[t] {
			names = append(names, col.Name())
		}
		sort.Strings(names)
		lines = append(lines, t.Name()+":\n"+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}

// MissingColumns returns the required columns which do not exist. The result
// is nil if no table lacks any.
func (c *Connection) MissingColumns(ctx context.Context) (MissingColumns, error) {
	var missing MissingColumns
	for _, t := range c.tables {
		columns, err := c.AllColumns(ctx, t)
		if err != nil {
			return nil, err
		}
		for _, required := range t.Required() {
			if containsColumn(columns, required.Name()) {
				continue
			}
			if missing == nil {
				missing = make(MissingColumns)
			}
			missing[t] = append(missing[t], required)
		}
	}
	return missing, nil
}

// HasValidSchemes reports whether every declared table has all its required columns.
func (c *Connection) HasValidSchemes(ctx context.Context) (bool, error) {
	missing, err := c.MissingColumns(ctx)
	if err != nil {
		return false, err
	}
	return missing == nil, nil
}

// GenerateSearchQuery returns a SELECT of the existing ones of columns, all
// existing columns if columns is empty. Conditions mentioning a column known
// not to exist are dropped; the remaining ones are joined with AND.
//
// The detection of column names in conditions is a plain text search for the
// name surrounded by non word characters. It does not parse SQL, so a string
// literal containing the name drops the condition as well.
func (c *Connection) GenerateSearchQuery(ctx context.Context, table schema.Table, columns, conditions []string) (string, error) {
	live, err := c.AllColumns(ctx, table)
	if err != nil {
		return "", err
	}

	var existing, notExisting []string
	if len(columns) == 0 {
		for _, col := range live {
			existing = append(existing, col.Name)
		}
	} else {
		for _, name := range columns {
			if containsColumn(live, name) {
				existing = append(existing, name)
			} else {
				notExisting = append(notExisting, name)
			}
		}
	}
	if len(existing) == 0 {
		log.Warn().Str("table", table.Name()).Strs("requested", columns).Msg("Generating search query without selecting any existing column")
		return "", fmt.Errorf("search query for %s: %w", table.Name(), ErrNoColumns)
	}
	for _, def := range table.Definitions() {
		if !containsColumn(live, def.Name()) {
			notExisting = append(notExisting, def.Name())
		}
	}

	_, info := c.session()
	quoted := make([]string, len(existing))
	for i, name := range existing {
		quoted[i] = info.Dialect.QuoteIdentifier(name)
	}
	query := "SELECT " + strings.Join(quoted, ", ") + " FROM " + info.Dialect.QuoteIdentifier(table.Name())

	if len(conditions) > 0 {
		patterns := make([]*regexp.Regexp, len(notExisting))
		for i, name := range notExisting {
			patterns[i] = regexp.MustCompile(`(?i)(?:^|\W)` + regexp.QuoteMeta(name) + `(?:\W|$)`)
		}
		var kept []string
		for _, cond := range conditions {
			if mentionsAny(cond, patterns) {
				log.Warn().Str("table", table.Name()).Str("condition", cond).Msg("Dropping condition on missing column")
				continue
			}
			kept = append(kept, cond)
		}
		if len(kept) > 0 {
			query += " WHERE " + strings.Join(kept, " AND ")
		}
	}
	return query, nil
}

func mentionsAny(condition string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(condition) {
			return true
		}
	}
	return false
}

// SearchQueryFor selects every existing column matching one of patterns.
// Columns with an exact name are requested as they are, other patterns are
// expanded to the existing columns they match.
func (c *Connection) SearchQueryFor(ctx context.Context, table schema.Table, patterns []schema.Column) (string, error) {
	var names []string
	for _, p := range patterns {
		if def, ok := p.(schema.Definition); ok {
			names = append(names, def.Name())
			continue
		}
		live, err := c.AllColumns(ctx, table)
		if err != nil {
			return "", err
		}
		for _, col := range live {
			if p.Matches(col.Name) {
				names = append(names, col.Name)
			}
		}
	}
	return c.GenerateSearchQuery(ctx, table, names, nil)
}

func skipHeadings(result [][]sql.NullString) [][]sql.NullString {
	if len(result) == 0 {
		return nil
	}
	return result[1:]
}
