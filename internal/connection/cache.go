package connection

import (
	"strings"
	"sync"

	"green2/internal/schema"
)

// LiveColumn is a column as it exists in a database.
type LiveColumn struct {
	Name string
	Type schema.ColumnType
}

// SchemaCache remembers the tables and columns of the database a profile
// refers to. Each cache is populated at most once per profile; Invalidate
// clears both at once.
type SchemaCache struct {
	tablesMu     sync.Mutex
	tables       map[string]bool // lower case table names
	tablesLoaded bool

	columnsMu sync.Mutex
	columns   map[string][]LiveColumn // keyed by declared table name
}

func NewSchemaCache() *SchemaCache {
	return &SchemaCache{columns: make(map[string][]LiveColumn)}
}

// TableExists looks name up case insensitively. load is only called if the
// table names are not cached yet; its error leaves the cache empty.
func (c *SchemaCache) TableExists(name string, load func() ([]string, error)) (bool, error) {
	c.tablesMu.Lock()
	defer c.tablesMu.Unlock()
	if !c.tablesLoaded {
		names, err := load()
		if err != nil {
			return false, err
		}
		c.tables = make(map[string]bool, len(names))
		for _, n := range names {
			c.tables[strings.ToLower(n)] = true
		}
		c.tablesLoaded = true
	}
	return c.tables[strings.ToLower(name)], nil
}

// Columns returns the columns of table. load is only called if they are not
// cached yet; its error leaves the cache unpopulated.
func (c *SchemaCache) Columns(table string, load func() ([]LiveColumn, error)) ([]LiveColumn, error) {
	c.columnsMu.Lock()
	defer c.columnsMu.Unlock()
	columns, ok := c.columns[table]
	if !ok {
		var err error
		columns, err = load()
		if err != nil {
			return nil, err
		}
		c.columns[table] = columns
	}
	out := make([]LiveColumn, len(columns))
	copy(out, columns)
	return out, nil
}

// Invalidate waits for running population to finish, clears both caches and
// runs during before any new population may start.
func (c *SchemaCache) Invalidate(during func()) {
	c.tablesMu.Lock()
	defer c.tablesMu.Unlock()
	c.columnsMu.Lock()
	defer c.columnsMu.Unlock()

	c.tables = nil
	c.tablesLoaded = false
	c.columns = make(map[string][]LiveColumn)
	if during != nil {
		during()
	}
}
