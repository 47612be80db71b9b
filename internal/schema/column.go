package schema

import (
	"database/sql"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// InvalidValueError reports a value which could not be assigned to a column.
// It only affects the single assignment, not the row it belongs to.
type InvalidValueError struct {
	Column string
	Value  sql.NullString
}

func (e *InvalidValueError) Error() string {
	if !e.Value.Valid {
		return fmt.Sprintf("column %s can not parse NULL", e.Column)
	}
	return fmt.Sprintf("column %s can not parse %q", e.Column, e.Value.String)
}

// Pattern describes the names of the columns a column declaration applies to.
//
// Two patterns are equal iff their regular expressions are textually equal.
// This does not imply that they describe the same set of names.
type Pattern struct {
	re *regexp.Regexp
}

// NewPattern compiles expr. Patterns should be anchored with ^ and $.
func NewPattern(expr string) Pattern {
	if !strings.HasPrefix(expr, "^") || !strings.HasSuffix(expr, "$") {
		log.Warn().Str("pattern", expr).Msg("Column pattern is not encapsulated in ^ and $")
	}
	return Pattern{re: regexp.MustCompile(expr)}
}

// Matches reports whether the complete column name matches the pattern.
func (p Pattern) Matches(columnName string) bool {
	loc := p.re.FindStringIndex(columnName)
	return loc != nil && loc[0] == 0 && loc[1] == len(columnName)
}

func (p Pattern) Equal(other Pattern) bool {
	return p.String() == other.String()
}

func (p Pattern) String() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}

// Column is the builder independent view on a declared column.
type Column interface {
	Pattern() Pattern
	Matches(columnName string) bool
	Type() ColumnType
}

// Definition is a column with an exact name which can be created.
type Definition interface {
	Column
	Name() string
	Keywords() []Keyword
	HasDefault() bool
	// DefaultSQL returns the SQL representation of the default value.
	DefaultSQL() (string, error)
}

// Field is a column bound to the builder type B of its table.
type Field[B any] interface {
	Column
	combine(builder B, columnName string, value sql.NullString) (B, error)
}

// SimpleField is a Field with an exact name. Only simple fields can be required.
type SimpleField[B any] interface {
	Field[B]
	Definition
}

// Default is the three state default value of a column: no default, NULL or a value.
type Default[T any] struct {
	present bool
	value   *T
}

func NoDefault[T any]() Default[T] {
	return Default[T]{}
}

func NullDefault[T any]() Default[T] {
	return Default[T]{present: true}
}

func DefaultOf[T any](value T) Default[T] {
	return Default[T]{present: true, value: &value}
}

// Present reports whether any default (including NULL) is declared.
func (d Default[T]) Present() bool {
	return d.present
}

// Value returns the default, nil meaning NULL.
func (d Default[T]) Value() *T {
	return d.value
}

// SimpleColumn declares a column with an exact, case sensitive name.
type SimpleColumn[T, B any] struct {
	pattern  Pattern
	name     string
	parser   Parser[T]
	keywords []Keyword
	def      Default[T]
	setter   func(B, T) B
}

// NewSimpleColumn declares the column name. setter folds a parsed value into a
// builder; it should only return a new builder if B is immutable.
func NewSimpleColumn[T, B any](name string, parser Parser[T], setter func(B, T) B, keywords ...Keyword) *SimpleColumn[T, B] {
	return &SimpleColumn[T, B]{
		pattern:  NewPattern("^" + regexp.QuoteMeta(name) + "$"),
		name:     name,
		parser:   parser,
		keywords: normalizeKeywords(keywords, false),
		setter:   setter,
	}
}

// WithDefault returns a copy of the column declaring def. KeywordDefault is
// added whenever a default is present.
func (c *SimpleColumn[T, B]) WithDefault(def Default[T]) *SimpleColumn[T, B] {
	cp := *c
	cp.def = def
	cp.keywords = normalizeKeywords(c.keywords, def.Present())
	return &cp
}

func normalizeKeywords(keywords []Keyword, withDefault bool) []Keyword {
	normalized := make([]Keyword, 0, len(keywords)+1)
	for _, k := range keywords {
		if k == KeywordDefault && !withDefault {
			continue
		}
		normalized = append(normalized, k)
	}
	if withDefault {
		normalized = append(normalized, KeywordDefault)
	}
	slices.Sort(normalized)
	return slices.Compact(normalized)
}

func (c *SimpleColumn[T, B]) Pattern() Pattern { return c.pattern }

func (c *SimpleColumn[T, B]) Matches(columnName string) bool { return c.pattern.Matches(columnName) }

func (c *SimpleColumn[T, B]) Type() ColumnType { return c.parser.Type() }

func (c *SimpleColumn[T, B]) Name() string { return c.name }

func (c *SimpleColumn[T, B]) Parser() Parser[T] { return c.parser }

func (c *SimpleColumn[T, B]) Keywords() []Keyword {
	return slices.Clone(c.keywords)
}

func (c *SimpleColumn[T, B]) Default() Default[T] { return c.def }

func (c *SimpleColumn[T, B]) HasDefault() bool { return c.def.Present() }

func (c *SimpleColumn[T, B]) DefaultSQL() (string, error) {
	if !c.def.Present() {
		return "", fmt.Errorf("column %s has no default value", c.name)
	}
	return c.parser.Format(c.def.Value()), nil
}

// Combine parses value and applies it to builder.
func (c *SimpleColumn[T, B]) Combine(builder B, value sql.NullString) (B, error) {
	parsed, ok := c.parser.Parse(value)
	if !ok {
		return builder, &InvalidValueError{Column: c.name, Value: value}
	}
	return c.setter(builder, parsed), nil
}

func (c *SimpleColumn[T, B]) combine(builder B, _ string, value sql.NullString) (B, error) {
	return c.Combine(builder, value)
}

func (c *SimpleColumn[T, B]) String() string {
	return c.name
}

// RegexColumn declares a family of columns whose names carry a key, like the
// year in "25MitgliedGeehrt".
type RegexColumn[T, B, K any] struct {
	pattern Pattern
	parser  Parser[T]
	setter  func(B, K, T) B
	key     func(string) (K, error)
}

// NewRegexColumn declares all columns matching expr. key has to succeed for
// every name matching expr.
func NewRegexColumn[T, B, K any](expr string, parser Parser[T], setter func(B, K, T) B, key func(string) (K, error)) *RegexColumn[T, B, K] {
	return &RegexColumn[T, B, K]{
		pattern: NewPattern(expr),
		parser:  parser,
		setter:  setter,
		key:     key,
	}
}

func (c *RegexColumn[T, B, K]) Pattern() Pattern { return c.pattern }

func (c *RegexColumn[T, B, K]) Matches(columnName string) bool { return c.pattern.Matches(columnName) }

func (c *RegexColumn[T, B, K]) Type() ColumnType { return c.parser.Type() }

func (c *RegexColumn[T, B, K]) Parser() Parser[T] { return c.parser }

// Key extracts the key out of a matching column name.
func (c *RegexColumn[T, B, K]) Key(columnName string) (K, error) {
	var zero K
	if !c.Matches(columnName) {
		return zero, fmt.Errorf("column %s does not match %s", columnName, c.pattern)
	}
	return c.key(columnName)
}

// Combine parses value of the column columnName and applies it to builder.
func (c *RegexColumn[T, B, K]) Combine(builder B, columnName string, value sql.NullString) (B, error) {
	key, err := c.Key(columnName)
	if err != nil {
		return builder, err
	}
	parsed, ok := c.parser.Parse(value)
	if !ok {
		return builder, &InvalidValueError{Column: columnName, Value: value}
	}
	return c.setter(builder, key, parsed), nil
}

func (c *RegexColumn[T, B, K]) combine(builder B, columnName string, value sql.NullString) (B, error) {
	return c.Combine(builder, columnName, value)
}

func (c *RegexColumn[T, B, K]) String() string {
	return c.pattern.String()
}
