package dialect

import "green2/internal/schema"

var PostgreSQL = New(Definition{
	Name:        "postgres",
	DisplayName: "PostgreSQL",
	DefaultPort: 5432,
	Driver:      "postgres",
	Keywords: map[schema.Keyword]string{
		schema.KeywordDefault:    "DEFAULT",
		schema.KeywordNotNull:    "NOT NULL",
		schema.KeywordPrimaryKey: "PRIMARY KEY",
	},
	Types: map[schema.ColumnType]string{
		schema.TypeBoolean: "BOOLEAN",
		schema.TypeDouble:  "DOUBLE PRECISION",
		schema.TypeInteger: "INTEGER",
		schema.TypeDate:    "DATE",
		schema.TypeString:  "VARCHAR(255)",
	},
	// information_schema reports the SQL standard names
	Aliases: map[string]schema.ColumnType{
		"character varying": schema.TypeString,
		"character":         schema.TypeString,
		"text":              schema.TypeString,
		"smallint":          schema.TypeInteger,
		"bigint":            schema.TypeInteger,
		"real":              schema.TypeDouble,
		"numeric":           schema.TypeDouble,
	},
	Templates: map[Query]string{
		QueryCreateTable: "CREATE TABLE {0} ({1})",
		QueryColumnNamesAndTypes: "SELECT column_name, data_type FROM information_schema.columns " +
			"WHERE table_catalog='{0}' AND table_schema=current_schema() AND table_name='{1}'",
		QueryTableNames: "SELECT table_name FROM information_schema.tables " +
			"WHERE table_catalog='{0}' AND table_schema=current_schema() AND table_type='BASE TABLE'",
		QueryInsert:     "INSERT INTO {0} ({1}) VALUES ({2}) ON CONFLICT DO NOTHING",
		QueryClearTable: "TRUNCATE TABLE {0} CASCADE",
	},
	Quote: '"',
})
