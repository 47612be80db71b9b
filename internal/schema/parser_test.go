package schema_test

import (
	"database/sql"
	"testing"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"

	"green2/internal/schema"
)

func roundTrip[T any](t *testing.T, parser schema.Parser[T], values ...T) {
	t.Helper()
	for _, v := range values {
		formatted := parser.Format(&v)
		parsed, ok := parser.ParseString(formatted)
		if assert.True(t, ok, "parsing %q", formatted) {
			assert.Equal(t, v, parsed, "round trip of %q", formatted)
		}
	}
}

func TestParser_RoundTrip(t *testing.T) {
	roundTrip(t, schema.StringParser, "", "Müller", "O'Brien", "''", "a'b'c", "NULL")
	roundTrip(t, schema.IntegerParser, 0, 1, -42, 2147483647)
	roundTrip(t, schema.BooleanParser, true, false)
	roundTrip(t, schema.DateParser,
		civil.Date{Year: 2026, Month: 2, Day: 28},
		civil.Date{Year: 1950, Month: 12, Day: 1})
	roundTrip(t, schema.DoubleParser, 0, 12.5, 10.005, -3.25, 1e-7)
}

func TestParser_FormatNull(t *testing.T) {
	assert.Equal(t, "NULL", schema.StringParser.Format(nil))
	assert.Equal(t, "NULL", schema.IntegerParser.Format(nil))
	assert.Equal(t, "NULL", schema.DateParser.Format(nil))
}

func TestParser_Format(t *testing.T) {
	s := "O'Brien"
	b := true
	d := civil.Date{Year: 2026, Month: 1, Day: 5}
	assert.Equal(t, "'O''Brien'", schema.StringParser.Format(&s))
	assert.Equal(t, "TRUE", schema.BooleanParser.Format(&b))
	assert.Equal(t, "'2026-01-05'", schema.DateParser.Format(&d))
}

func TestParser_ParseInvalid(t *testing.T) {
	_, ok := schema.IntegerParser.ParseString("zwölf")
	assert.False(t, ok)
	_, ok = schema.BooleanParser.ParseString("maybe")
	assert.False(t, ok)
	_, ok = schema.DateParser.ParseString("05.01.2026")
	assert.False(t, ok)
	_, ok = schema.DoubleParser.ParseString("")
	assert.False(t, ok)
	_, ok = schema.StringParser.Parse(sql.NullString{})
	assert.False(t, ok, "NULL never parses")
}

func TestParser_ParseDriverValues(t *testing.T) {
	b, ok := schema.BooleanParser.ParseString("1")
	assert.True(t, ok)
	assert.True(t, b)

	d, ok := schema.DateParser.ParseString("2020-03-04T00:00:00Z")
	assert.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2020, Month: 3, Day: 4}, d)

	d, ok = schema.DateParser.ParseString("2020-03-04 00:00:00")
	assert.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2020, Month: 3, Day: 4}, d)

	n, ok := schema.IntegerParser.ParseString(" 17 ")
	assert.True(t, ok)
	assert.Equal(t, 17, n)

	// malformed literals are taken verbatim
	s, ok := schema.StringParser.ParseString("'a'b'")
	assert.True(t, ok)
	assert.Equal(t, "'a'b'", s)
}
