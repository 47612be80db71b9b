package dialect

import (
	"fmt"

	"green2/internal/schema"
)

// Oracle works on the tables of the connected user. The database name only
// has to be non empty.
var Oracle = New(Definition{
	Name:        "oracle",
	DisplayName: "Oracle",
	DefaultPort: 1521,
	Driver:      "oracle",
	// DEFAULT has to precede NOT NULL which the keyword order guarantees
	Keywords: map[schema.Keyword]string{
		schema.KeywordDefault:    "DEFAULT",
		schema.KeywordNotNull:    "NOT NULL",
		schema.KeywordPrimaryKey: "PRIMARY KEY",
	},
	Types: map[schema.ColumnType]string{
		schema.TypeBoolean: "NUMBER(1)",
		schema.TypeDouble:  "BINARY_DOUBLE",
		schema.TypeInteger: "NUMBER(10)",
		schema.TypeDate:    "DATE",
		schema.TypeString:  "VARCHAR2(255)",
	},
	// NUMBER is reported for booleans as well
	Aliases: map[string]schema.ColumnType{
		"number":        schema.TypeInteger,
		"varchar":       schema.TypeString,
		"nvarchar2":     schema.TypeString,
		"char":          schema.TypeString,
		"binary_float":  schema.TypeDouble,
		"float":         schema.TypeDouble,
		"timestamp":     schema.TypeDate,
		"binary_double": schema.TypeDouble,
	},
	Templates: map[Query]string{
		QueryCreateTable: "CREATE TABLE {0} ({1})",
		QueryColumnNamesAndTypes: "SELECT COLUMN_NAME, DATA_TYPE FROM USER_TAB_COLUMNS " +
			"WHERE '{0}' IS NOT NULL AND TABLE_NAME='{1}'",
		QueryTableNames: "SELECT TABLE_NAME FROM USER_TABLES WHERE '{0}' IS NOT NULL",
		QueryInsert:     "INSERT INTO {0} ({1}) VALUES ({2})",
		QueryClearTable: "TRUNCATE TABLE {0}",
	},
	Quote: '"',
	Literal: func(typ schema.ColumnType, literal string) string {
		if typ == schema.TypeDate {
			return "DATE " + literal
		}
		return numericBooleans(typ, literal)
	},
	Limit: func(query string, limit int) string {
		return fmt.Sprintf("%s FETCH FIRST %d ROWS ONLY", query, limit)
	},
})
