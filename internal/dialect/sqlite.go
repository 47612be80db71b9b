package dialect

import "green2/internal/schema"

// SQLite keeps declared types verbatim, so pragma_table_info reports the
// types used on creation.
var SQLite = New(Definition{
	Name:        "sqlite",
	DisplayName: "SQLite",
	Driver:      "sqlite",
	Keywords: map[schema.Keyword]string{
		schema.KeywordDefault:    "DEFAULT",
		schema.KeywordNotNull:    "NOT NULL",
		schema.KeywordPrimaryKey: "PRIMARY KEY",
	},
	Types: map[schema.ColumnType]string{
		schema.TypeBoolean: "BOOLEAN",
		schema.TypeDouble:  "REAL",
		schema.TypeInteger: "INTEGER",
		schema.TypeDate:    "DATE",
		schema.TypeString:  "TEXT",
	},
	Aliases: map[string]schema.ColumnType{
		"int":     schema.TypeInteger,
		"varchar": schema.TypeString,
		"double":  schema.TypeDouble,
		"float":   schema.TypeDouble,
	},
	Templates: map[Query]string{
		QueryCreateTable:         "CREATE TABLE {0} ({1})",
		QueryColumnNamesAndTypes: "SELECT name, type FROM pragma_table_info('{1}')",
		QueryTableNames:          "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'",
		QueryInsert:              "INSERT OR IGNORE INTO {0} ({1}) VALUES ({2})",
		QueryClearTable:          "DELETE FROM {0}",
	},
	Quote: '"',
})
