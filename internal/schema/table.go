package schema

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Table is the type independent view on a declared table.
type Table interface {
	Name() string
	// Required returns the required columns in declaration order.
	Required() []Definition
	// Optional returns the optional columns in declaration order.
	Optional() []Column
	// Definitions returns every column with an exact name, required ones first.
	// These are the columns a CREATE TABLE statement consists of.
	Definitions() []Definition
	// Columns returns required and optional columns.
	Columns() []Column
	Contains(columnName string) bool
	IsOptional(columnName string) (bool, error)
}

// TableScheme declares a table whose rows are folded into builders of type B
// which are finally reduced to a result of type R.
type TableScheme[R, B any] struct {
	name       string
	required   []SimpleField[B]
	optional   []Field[B]
	newBuilder func() B
	reduce     func([]B) R
}

// NewTableScheme panics if a pattern is declared both required and optional.
func NewTableScheme[R, B any](name string, required []SimpleField[B], optional []Field[B],
	newBuilder func() B, reduce func([]B) R) *TableScheme[R, B] {
	for _, r := range required {
		for _, o := range optional {
			if r.Pattern().Equal(o.Pattern()) {
				panic(fmt.Sprintf("table %s declares column %s as required and optional", name, r.Pattern()))
			}
		}
	}
	return &TableScheme[R, B]{
		name:       name,
		required:   required,
		optional:   optional,
		newBuilder: newBuilder,
		reduce:     reduce,
	}
}

func (t *TableScheme[R, B]) Name() string {
	return t.name
}

func (t *TableScheme[R, B]) Required() []Definition {
	defs := make([]Definition, 0, len(t.required))
	for _, r := range t.required {
		defs = append(defs, r)
	}
	return defs
}

func (t *TableScheme[R, B]) Optional() []Column {
	cols := make([]Column, 0, len(t.optional))
	for _, o := range t.optional {
		cols = append(cols, o)
	}
	return cols
}

func (t *TableScheme[R, B]) Definitions() []Definition {
	defs := t.Required()
	for _, o := range t.optional {
		if def, ok := o.(Definition); ok {
			defs = append(defs, def)
		}
	}
	return defs
}

func (t *TableScheme[R, B]) Columns() []Column {
	cols := make([]Column, 0, len(t.required)+len(t.optional))
	for _, f := range t.fields() {
		cols = append(cols, f)
	}
	return cols
}

func (t *TableScheme[R, B]) fields() []Field[B] {
	fields := make([]Field[B], 0, len(t.required)+len(t.optional))
	for _, r := range t.required {
		fields = append(fields, r)
	}
	return append(fields, t.optional...)
}

// Contains reports whether any declared column matches columnName.
func (t *TableScheme[R, B]) Contains(columnName string) bool {
	for _, f := range t.fields() {
		if f.Matches(columnName) {
			return true
		}
	}
	return false
}

// IsOptional reports whether columnName belongs to an optional column. It fails
// for names which are no column of this table.
func (t *TableScheme[R, B]) IsOptional(columnName string) (bool, error) {
	if !t.Contains(columnName) {
		return false, fmt.Errorf("%s is no column of %s", columnName, t.name)
	}
	for _, o := range t.optional {
		if o.Matches(columnName) {
			return true, nil
		}
	}
	return false, nil
}

type assignment[B any] struct {
	field Field[B]
	index int
}

// Representations decodes a query result whose first row holds the column
// headings. Every further row is folded into a fresh builder. Values which can
// not be assigned are logged and skipped; the row itself is kept.
func (t *TableScheme[R, B]) Representations(result [][]sql.NullString) (R, error) {
	var zero R
	if len(result) == 0 {
		return zero, errors.New("query result contains no heading row")
	}
	assignments, err := t.assign(result[0])
	if err != nil {
		return zero, err
	}

	builders := make([]B, 0, len(result)-1)
	for rowIndex, row := range result[1:] {
		builder := t.newBuilder()
		for _, a := range assignments {
			if a.index >= len(row) {
				return zero, fmt.Errorf("row %d of %s has only %d values", rowIndex+1, t.name, len(row))
			}
			heading := result[0][a.index].String
			value := row[a.index]
			updated, err := a.field.combine(builder, heading, value)
			var invalid *InvalidValueError
			switch {
			case errors.As(err, &invalid):
				if value.Valid {
					log.Warn().Err(err).Str("table", t.name).Int("row", rowIndex+1).Msg("Skipping value")
				} else {
					log.Debug().Str("table", t.name).Str("column", heading).Int("row", rowIndex+1).Msg("Skipping NULL value")
				}
			case err != nil:
				return zero, fmt.Errorf("failed to decode column %s of %s: %w", heading, t.name, err)
			default:
				builder = updated
			}
		}
		builders = append(builders, builder)
	}
	return t.reduce(builders), nil
}

// assign maps every declared field to the heading indices it reads from.
func (t *TableScheme[R, B]) assign(headings []sql.NullString) ([]assignment[B], error) {
	owner := make(map[int]Field[B], len(headings))
	var assignments []assignment[B]
	for _, f := range t.fields() {
		var indices []int
		for i, h := range headings {
			if h.Valid && f.Matches(h.String) {
				indices = append(indices, i)
			}
		}
		if len(indices) == 0 {
			continue
		}
		if _, simple := f.(Definition); simple {
			if len(indices) > 1 {
				log.Warn().Str("table", t.name).Str("column", f.Pattern().String()).Int("matches", len(indices)).
					Msg("Column matched multiple headings, only the first one is used")
			}
			indices = indices[:1]
		}
		for _, i := range indices {
			if other, taken := owner[i]; taken {
				return nil, fmt.Errorf("heading %s of %s matches %s and %s",
					headings[i].String, t.name, other.Pattern(), f.Pattern())
			}
			owner[i] = f
			assignments = append(assignments, assignment[B]{field: f, index: i})
		}
	}
	return assignments, nil
}
