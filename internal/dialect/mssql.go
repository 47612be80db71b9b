package dialect

import (
	"fmt"
	"strings"

	"green2/internal/schema"
)

// SQLServer relies on QUOTED_IDENTIFIER being ON, the default of every driver.
var SQLServer = New(Definition{
	Name:        "sqlserver",
	DisplayName: "SQL Server",
	DefaultPort: 1433,
	Driver:      "sqlserver",
	Keywords: map[schema.Keyword]string{
		schema.KeywordDefault:    "DEFAULT",
		schema.KeywordNotNull:    "NOT NULL",
		schema.KeywordPrimaryKey: "PRIMARY KEY",
	},
	Types: map[schema.ColumnType]string{
		schema.TypeBoolean: "BIT",
		schema.TypeDouble:  "FLOAT",
		schema.TypeInteger: "INT",
		schema.TypeDate:    "DATE",
		schema.TypeString:  "NVARCHAR(255)",
	},
	Aliases: map[string]schema.ColumnType{
		"varchar":  schema.TypeString,
		"nchar":    schema.TypeString,
		"ntext":    schema.TypeString,
		"smallint": schema.TypeInteger,
		"bigint":   schema.TypeInteger,
		"real":     schema.TypeDouble,
		"decimal":  schema.TypeDouble,
		"money":    schema.TypeDouble,
	},
	Templates: map[Query]string{
		QueryCreateTable: "CREATE TABLE {0} ({1})",
		QueryColumnNamesAndTypes: "SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS " +
			"WHERE TABLE_CATALOG='{0}' AND TABLE_NAME='{1}'",
		QueryTableNames: "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES " +
			"WHERE TABLE_CATALOG='{0}' AND TABLE_TYPE='BASE TABLE'",
		QueryInsert:     "INSERT INTO {0} ({1}) VALUES ({2})",
		QueryClearTable: "TRUNCATE TABLE {0}",
	},
	Quote:   '"',
	Literal: numericBooleans,
	Limit:   topRows,
})

// topRows injects TOP into the first SELECT.
func topRows(query string, limit int) string {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) >= 6 && strings.EqualFold(trimmed[:6], "SELECT") {
		return fmt.Sprintf("SELECT TOP %d%s", limit, trimmed[6:])
	}
	return query
}
