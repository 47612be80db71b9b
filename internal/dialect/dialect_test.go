package dialect_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"green2/internal/dialect"
	"green2/internal/schema"
)

type row struct{}

func column(name string) *schema.SimpleColumn[string, *row] {
	return schema.NewSimpleColumn(name, schema.StringParser, func(r *row, _ string) *row { return r })
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`Mitglieder`", dialect.MySQL.QuoteIdentifier("Mitglieder"))
	assert.Equal(t, "`db`.`Mitglieder`", dialect.MySQL.QuoteIdentifier("db.Mitglieder"))
	assert.Equal(t, "`a``b`", dialect.MySQL.QuoteIdentifier("a`b"))
	assert.Equal(t, `"a""b"`, dialect.PostgreSQL.QuoteIdentifier(`a"b`))
}

func TestTemplate(t *testing.T) {
	query, err := dialect.MySQL.Template(dialect.QueryTableNames, "verein")
	require.NoError(t, err)
	assert.Equal(t, "SELECT `table_name` FROM `information_schema`.`tables` WHERE `table_schema`='verein'", query)

	// parameters are substituted in a single pass
	query, err = dialect.MySQL.Template(dialect.QueryCreateTable, "{1}", "x")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE {1} (x)", query)

	incomplete := dialect.New(dialect.Definition{Name: "partial", DisplayName: "Partial", Quote: '"'})
	_, err = incomplete.Template(dialect.QueryTableNames, "verein")
	assert.True(t, errors.Is(err, dialect.ErrUndefined))
}

func TestTypes(t *testing.T) {
	sqlType, err := dialect.MySQL.TypeOf(schema.TypeBoolean)
	require.NoError(t, err)
	assert.Equal(t, "TINYINT(1)", sqlType)

	for sqlType, want := range map[string]schema.ColumnType{
		"tinyint":    schema.TypeBoolean,
		"TINYINT(1)": schema.TypeBoolean,
		"varchar":    schema.TypeString,
		"int":        schema.TypeInteger,
		"date":       schema.TypeDate,
		"float":      schema.TypeDouble,
	} {
		got, ok := dialect.MySQL.ColumnTypeOf(sqlType)
		if assert.True(t, ok, sqlType) {
			assert.Equal(t, want, got, sqlType)
		}
	}

	_, ok := dialect.MySQL.ColumnTypeOf("geometry")
	assert.False(t, ok)

	got, ok := dialect.PostgreSQL.ColumnTypeOf("double precision")
	assert.True(t, ok)
	assert.Equal(t, schema.TypeDouble, got)

	incomplete := dialect.New(dialect.Definition{Name: "partial", DisplayName: "Partial", Quote: '"'})
	_, err = incomplete.TypeOf(schema.TypeDate)
	assert.True(t, errors.Is(err, dialect.ErrUndefined))
}

func TestGenerateCreateLine(t *testing.T) {
	id := schema.NewSimpleColumn("Mitgliedsnummer", schema.IntegerParser,
		func(r *row, _ int) *row { return r }, schema.KeywordPrimaryKey, schema.KeywordNotNull)
	line, err := dialect.MySQL.GenerateCreateLine(id)
	require.NoError(t, err)
	assert.Equal(t, "`Mitgliedsnummer` INT NOT NULL PRIMARY KEY", line)

	free := schema.NewSimpleColumn("IstBeitragsfrei", schema.BooleanParser,
		func(r *row, _ bool) *row { return r }, schema.KeywordNotNull).WithDefault(schema.DefaultOf(false))
	line, err = dialect.MySQL.GenerateCreateLine(free)
	require.NoError(t, err)
	assert.Equal(t, "`IstBeitragsfrei` TINYINT(1) DEFAULT FALSE NOT NULL", line)

	line, err = dialect.SQLServer.GenerateCreateLine(free)
	require.NoError(t, err)
	assert.Equal(t, `"IstBeitragsfrei" BIT DEFAULT 0 NOT NULL`, line)

	nullable := column("Titel").WithDefault(schema.NullDefault[string]())
	line, err = dialect.PostgreSQL.GenerateCreateLine(nullable)
	require.NoError(t, err)
	assert.Equal(t, `"Titel" VARCHAR(255) DEFAULT NULL`, line)
}

func TestGenerateCreateLine_SkipsUnknownKeyword(t *testing.T) {
	noKeywords := dialect.New(dialect.Definition{
		Name:        "bare",
		DisplayName: "Bare",
		Types:       map[schema.ColumnType]string{schema.TypeString: "TEXT"},
		Quote:       '"',
	})
	notNull := schema.NewSimpleColumn("Name", schema.StringParser,
		func(r *row, _ string) *row { return r }, schema.KeywordNotNull)
	line, err := noKeywords.GenerateCreateLine(notNull)
	require.NoError(t, err)
	assert.Equal(t, `"Name" TEXT`, line)

	_, err = noKeywords.GenerateCreateLine(schema.NewSimpleColumn("Nr", schema.IntegerParser,
		func(r *row, _ int) *row { return r }))
	assert.True(t, errors.Is(err, dialect.ErrUndefined))
}

func TestCreateTable(t *testing.T) {
	table := schema.NewTableScheme("Spitznamen",
		[]schema.SimpleField[*row]{column("Name"), column("Spitzname")},
		nil,
		func() *row { return &row{} },
		func(b []*row) int { return len(b) })
	statement, err := dialect.SQLite.CreateTable(table)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "Spitznamen" ("Name" TEXT, "Spitzname" TEXT)`, statement)
}

func TestInsertAndClear(t *testing.T) {
	statement, err := dialect.PostgreSQL.Insert("Spitznamen", []string{"Name", "Spitzname"}, []string{"'Johannes'", "'Hans'"})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "Spitznamen" ("Name", "Spitzname") VALUES ('Johannes', 'Hans') ON CONFLICT DO NOTHING`, statement)

	_, err = dialect.PostgreSQL.Insert("Spitznamen", []string{"Name"}, nil)
	assert.Error(t, err)

	statement, err = dialect.SQLite.ClearTable("Spitznamen")
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "Spitznamen"`, statement)
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "TRUE", dialect.MySQL.Literal(schema.TypeBoolean, "TRUE"))
	assert.Equal(t, "1", dialect.Oracle.Literal(schema.TypeBoolean, "TRUE"))
	assert.Equal(t, "DATE '2026-01-05'", dialect.Oracle.Literal(schema.TypeDate, "'2026-01-05'"))
	assert.Equal(t, "NULL", dialect.Oracle.Literal(schema.TypeDate, "NULL"))
}

func TestLimitRows(t *testing.T) {
	assert.Equal(t, "SELECT 1 LIMIT 5", dialect.MySQL.LimitRows("SELECT 1", 5))
	assert.Equal(t, "SELECT TOP 5 a FROM b", dialect.SQLServer.LimitRows("SELECT a FROM b", 5))
	assert.Equal(t, "SELECT a FROM b FETCH FIRST 5 ROWS ONLY", dialect.Oracle.LimitRows("SELECT a FROM b", 5))
	assert.Equal(t, "SELECT 1", dialect.MySQL.LimitRows("SELECT 1", 0))
}

func TestGetDialect(t *testing.T) {
	d, err := dialect.GetDialect("MSSQL")
	require.NoError(t, err)
	assert.Same(t, dialect.SQLServer, d)
	assert.Equal(t, 1433, d.DefaultPort())

	_, err = dialect.GetDialect("db2")
	assert.Error(t, err)
	assert.Equal(t, []string{"mysql", "postgres", "sqlserver", "oracle", "sqlite"}, dialect.Names())
}
