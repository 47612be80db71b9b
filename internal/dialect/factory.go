package dialect

import (
	"fmt"
	"strings"
)

var registry = []*Dialect{MySQL, PostgreSQL, SQLServer, Oracle, SQLite}

// GetDialect returns the dialect registered under name or one of its aliases.
func GetDialect(name string) (*Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "mariadb", "":
		return MySQL, nil
	case "postgres", "postgresql":
		return PostgreSQL, nil
	case "sqlserver", "mssql":
		return SQLServer, nil
	case "oracle":
		return Oracle, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("unsupported dbms %q, expected one of %s", name, strings.Join(Names(), ", "))
	}
}

// Names lists the configuration keys of all supported dialects.
func Names() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.Name()
	}
	return names
}
