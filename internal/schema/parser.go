package schema

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-sql/civil"
	"github.com/rs/zerolog/log"
)

// NullLiteral is the SQL representation of a missing value.
const NullLiteral = "NULL"

// Parser converts between the textual value of a column and its typed Go value.
// There is exactly one parser per ColumnType, see the package level variables.
type Parser[T any] struct {
	typ    ColumnType
	parse  func(string) (T, error)
	format func(T) string
}

var (
	StringParser = Parser[string]{
		typ: TypeString,
		parse: func(value string) (string, error) {
			if unquoted, ok := unquoteLiteral(value); ok {
				return unquoted, nil
			}
			return value, nil
		},
		// Single quotes work in ANSI SQL, double quotes only without ANSI_QUOTES in MySQL.
		format: quoteLiteral,
	}
	IntegerParser = Parser[int]{
		typ: TypeInteger,
		parse: func(value string) (int, error) {
			return strconv.Atoi(strings.TrimSpace(value))
		},
		format: strconv.Itoa,
	}
	BooleanParser = Parser[bool]{
		typ:   TypeBoolean,
		parse: parseBool,
		format: func(value bool) string {
			if value {
				return "TRUE"
			}
			return "FALSE"
		},
	}
	DateParser = Parser[civil.Date]{
		typ:   TypeDate,
		parse: parseDate,
		format: func(value civil.Date) string {
			return quoteLiteral(value.String())
		},
	}
	DoubleParser = Parser[float64]{
		typ: TypeDouble,
		parse: func(value string) (float64, error) {
			return strconv.ParseFloat(strings.TrimSpace(value), 64)
		},
		format: func(value float64) string {
			return strconv.FormatFloat(value, 'f', -1, 64)
		},
	}
)

// Type returns the logical type this parser produces.
func (p Parser[T]) Type() ColumnType {
	return p.typ
}

// Parse converts a raw column value. It reports false for NULL and for values
// which can not be converted; the latter are logged.
func (p Parser[T]) Parse(value sql.NullString) (T, bool) {
	var zero T
	if !value.Valid {
		return zero, false
	}
	parsed, err := p.parse(value.String)
	if err != nil {
		log.Warn().Err(err).Str("type", p.typ.String()).Str("value", value.String).Msg("Failed to parse column value")
		return zero, false
	}
	return parsed, true
}

// ParseString is a shorthand for parsing a non-NULL value.
func (p Parser[T]) ParseString(value string) (T, bool) {
	return p.Parse(sql.NullString{String: value, Valid: true})
}

// Format returns the SQL representation of value, NullLiteral for nil.
func (p Parser[T]) Format(value *T) string {
	if value == nil {
		return NullLiteral
	}
	return p.format(*value)
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// unquoteLiteral reverses quoteLiteral. It only accepts well formed literals,
// i.e. every quote inside the outer quotes has to be doubled.
func unquoteLiteral(value string) (string, bool) {
	if len(value) < 2 || value[0] != '\'' || value[len(value)-1] != '\'' {
		return "", false
	}
	inner := value[1 : len(value)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\'' {
			if i+1 >= len(inner) || inner[i+1] != '\'' {
				return "", false
			}
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String(), true
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "y", "yes":
		return true, nil
	case "0", "false", "f", "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", value)
	}
}

// parseDate accepts ISO dates, quoted ISO dates and date times as returned by
// drivers which scan DATE columns into time values.
func parseDate(value string) (civil.Date, error) {
	text := strings.TrimSpace(value)
	if unquoted, ok := unquoteLiteral(text); ok {
		text = unquoted
	}
	if len(text) > 10 && (text[10] == 'T' || text[10] == ' ') {
		text = text[:10]
	}
	date, err := civil.ParseDate(text)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%q is an invalid date: %w", value, err)
	}
	return date, nil
}
