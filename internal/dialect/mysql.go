package dialect

import "green2/internal/schema"

// MySQL stores booleans as TINYINT(1); information_schema reports resolved aliases only.
var MySQL = New(Definition{
	Name:        "mysql",
	DisplayName: "My SQL",
	DefaultPort: 3306,
	Driver:      "mysql",
	Keywords: map[schema.Keyword]string{
		schema.KeywordDefault:    "DEFAULT",
		schema.KeywordNotNull:    "NOT NULL",
		schema.KeywordPrimaryKey: "PRIMARY KEY",
	},
	Types: map[schema.ColumnType]string{
		schema.TypeBoolean: "TINYINT(1)",
		schema.TypeDouble:  "FLOAT",
		schema.TypeInteger: "INT",
		schema.TypeDate:    "DATE",
		schema.TypeString:  "VARCHAR(255)",
	},
	Aliases: map[string]schema.ColumnType{
		"double":  schema.TypeDouble,
		"decimal": schema.TypeDouble,
		"char":    schema.TypeString,
		"text":    schema.TypeString,
	},
	Templates: map[Query]string{
		QueryCreateTable: "CREATE TABLE {0} ({1})",
		QueryColumnNamesAndTypes: "SELECT `column_name`, `data_type` FROM `information_schema`.`columns` " +
			"WHERE `table_schema`='{0}' AND `table_name`='{1}'",
		QueryTableNames: "SELECT `table_name` FROM `information_schema`.`tables` WHERE `table_schema`='{0}'",
		QueryInsert:     "INSERT IGNORE INTO {0} ({1}) VALUES ({2})",
		QueryClearTable: "TRUNCATE TABLE {0}",
	},
	Quote: '`',
})
