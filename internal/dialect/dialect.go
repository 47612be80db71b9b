package dialect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"green2/internal/schema"
)

// ErrUndefined is returned when a dialect lacks a keyword, type or template
// which is needed to generate a statement.
var ErrUndefined = errors.New("not defined by dialect")

// Query identifies a statement template.
type Query int

const (
	QueryCreateTable Query = iota
	QueryColumnNamesAndTypes
	QueryTableNames
	QueryInsert
	QueryClearTable
)

func (q Query) String() string {
	switch q {
	case QueryCreateTable:
		return "CREATE_TABLE"
	case QueryColumnNamesAndTypes:
		return "GET_COLUMN_NAMES_AND_TYPES"
	case QueryTableNames:
		return "GET_TABLE_NAMES"
	case QueryInsert:
		return "INSERT"
	case QueryClearTable:
		return "CLEAR_TABLE"
	default:
		return "UNKNOWN"
	}
}

// Queries lists the templates every dialect is expected to provide.
func Queries() []Query {
	return []Query{QueryCreateTable, QueryColumnNamesAndTypes, QueryTableNames, QueryInsert, QueryClearTable}
}

// Definition describes a DBMS. Templates use positional parameters {0}, {1}, ...
type Definition struct {
	Name        string
	DisplayName string
	DefaultPort int
	Driver      string
	Keywords    map[schema.Keyword]string
	// Types maps logical types to the SQL type used when creating columns.
	Types map[schema.ColumnType]string
	// Aliases maps additional SQL type names reported by the DBMS to logical types.
	Aliases   map[string]schema.ColumnType
	Templates map[Query]string
	Quote     byte
	// Literal adapts the generic SQL literal of a value. Optional.
	Literal func(typ schema.ColumnType, literal string) string
	// Limit restricts a SELECT statement to limit rows. Optional.
	Limit func(query string, limit int) string
}

// Dialect holds keyword spellings, type mappings, templates and quoting rules
// of a DBMS.
type Dialect struct {
	def     Definition
	reverse map[string]schema.ColumnType
}

// New registers a dialect. Missing keywords, types and templates are logged,
// using them fails later on.
func New(def Definition) *Dialect {
	d := &Dialect{def: def, reverse: make(map[string]schema.ColumnType)}
	for typ, sqlType := range def.Types {
		d.reverse[normalizeType(sqlType)] = typ
	}
	for alias, typ := range def.Aliases {
		d.reverse[normalizeType(alias)] = typ
	}

	var missing []string
	for _, k := range schema.Keywords() {
		if _, ok := def.Keywords[k]; !ok {
			missing = append(missing, "keyword "+k.String())
		}
	}
	for _, t := range schema.ColumnTypes() {
		if _, ok := def.Types[t]; !ok {
			missing = append(missing, "type "+t.String())
		}
	}
	for _, q := range Queries() {
		if _, ok := def.Templates[q]; !ok {
			missing = append(missing, "template "+q.String())
		}
	}
	if len(missing) > 0 {
		log.Warn().Str("dialect", def.DisplayName).Strs("missing", missing).Msg("Dialect is incomplete")
	}
	return d
}

// Name is the key used in configuration files.
func (d *Dialect) Name() string { return d.def.Name }

func (d *Dialect) String() string { return d.def.DisplayName }

func (d *Dialect) DefaultPort() int { return d.def.DefaultPort }

// Driver is the database/sql driver name.
func (d *Dialect) Driver() string { return d.def.Driver }

// Keyword returns the spelling of k.
func (d *Dialect) Keyword(k schema.Keyword) (string, error) {
	if spelling, ok := d.def.Keywords[k]; ok {
		return spelling, nil
	}
	return "", fmt.Errorf("keyword %s for %s: %w", k, d, ErrUndefined)
}

// TypeOf returns the SQL type to create columns of typ with.
func (d *Dialect) TypeOf(typ schema.ColumnType) (string, error) {
	if sqlType, ok := d.def.Types[typ]; ok {
		return sqlType, nil
	}
	return "", fmt.Errorf("type %s for %s: %w", typ, d, ErrUndefined)
}

// ColumnTypeOf resolves a SQL type reported by the DBMS. Parameters like the
// length in VARCHAR(255) and the case are ignored.
func (d *Dialect) ColumnTypeOf(sqlType string) (schema.ColumnType, bool) {
	typ, ok := d.reverse[normalizeType(sqlType)]
	if !ok {
		log.Warn().Str("dialect", d.def.DisplayName).Str("sql_type", sqlType).Msg("No logical type for SQL type")
	}
	return typ, ok
}

// Template substitutes params into the template of q. Superfluous params are ignored.
func (d *Dialect) Template(q Query, params ...string) (string, error) {
	template, ok := d.def.Templates[q]
	if !ok {
		return "", fmt.Errorf("query %s for %s: %w", q, d, ErrUndefined)
	}
	pairs := make([]string, 0, 2*len(params))
	for i, p := range params {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", p)
	}
	return strings.NewReplacer(pairs...).Replace(template), nil
}

// QuoteIdentifier quotes every dot separated part of identifier.
func (d *Dialect) QuoteIdentifier(identifier string) string {
	quote := string(d.def.Quote)
	parts := strings.Split(identifier, ".")
	for i, p := range parts {
		parts[i] = quote + strings.ReplaceAll(p, quote, quote+quote) + quote
	}
	return strings.Join(parts, ".")
}

// EscapeString escapes value for the use inside a single quoted literal.
func (d *Dialect) EscapeString(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// Literal adapts a literal produced by a schema.Parser to this DBMS.
func (d *Dialect) Literal(typ schema.ColumnType, literal string) string {
	if d.def.Literal == nil || literal == schema.NullLiteral {
		return literal
	}
	return d.def.Literal(typ, literal)
}

// GenerateCreateLine returns the part of a CREATE TABLE statement defining column.
// Keywords this dialect does not know are skipped.
func (d *Dialect) GenerateCreateLine(column schema.Definition) (string, error) {
	sqlType, err := d.TypeOf(column.Type())
	if err != nil {
		return "", err
	}
	parts := []string{d.QuoteIdentifier(column.Name()), sqlType}
	for _, k := range column.Keywords() {
		spelling, err := d.Keyword(k)
		if err != nil {
			log.Warn().Err(err).Str("column", column.Name()).Msg("Skipping keyword")
			continue
		}
		if k == schema.KeywordDefault {
			value, err := column.DefaultSQL()
			if err != nil {
				return "", err
			}
			spelling += " " + d.Literal(column.Type(), value)
		}
		parts = append(parts, spelling)
	}
	return strings.Join(parts, " "), nil
}

// CreateTable returns the statement creating table with all its exactly named columns.
func (d *Dialect) CreateTable(table schema.Table) (string, error) {
	definitions := table.Definitions()
	lines := make([]string, 0, len(definitions))
	for _, def := range definitions {
		line, err := d.GenerateCreateLine(def)
		if err != nil {
			return "", fmt.Errorf("failed to generate column %s of %s: %w", def.Name(), table.Name(), err)
		}
		lines = append(lines, line)
	}
	return d.Template(QueryCreateTable, d.QuoteIdentifier(table.Name()), strings.Join(lines, ", "))
}

// Insert returns a statement inserting one row of literals.
func (d *Dialect) Insert(table string, columns, literals []string) (string, error) {
	if len(columns) != len(literals) {
		return "", fmt.Errorf("got %d columns but %d values", len(columns), len(literals))
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdentifier(c)
	}
	return d.Template(QueryInsert, d.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(literals, ", "))
}

// ClearTable returns a statement deleting all rows of table.
func (d *Dialect) ClearTable(table string) (string, error) {
	return d.Template(QueryClearTable, d.QuoteIdentifier(table))
}

// LimitRows restricts a SELECT statement to limit rows. Non positive limits are ignored.
func (d *Dialect) LimitRows(query string, limit int) string {
	if limit <= 0 {
		return query
	}
	if d.def.Limit == nil {
		return fmt.Sprintf("%s LIMIT %d", query, limit)
	}
	return d.def.Limit(query, limit)
}
