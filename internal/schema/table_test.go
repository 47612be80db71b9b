package schema_test

import (
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"green2/internal/schema"
)

type record struct {
	ID       int
	Name     string
	Fee      float64
	Honoured map[int]bool
}

var (
	idColumn = schema.NewSimpleColumn("ID", schema.IntegerParser,
		func(r *record, v int) *record { r.ID = v; return r },
		schema.KeywordNotNull, schema.KeywordPrimaryKey)
	nameColumn = schema.NewSimpleColumn("Name", schema.StringParser,
		func(r *record, v string) *record { r.Name = v; return r })
	feeColumn = schema.NewSimpleColumn("Beitrag", schema.DoubleParser,
		func(r *record, v float64) *record { r.Fee = v; return r }).
		WithDefault(schema.DefaultOf(0.0))
	honouredColumn = schema.NewRegexColumn(`^\d+MitgliedGeehrt$`, schema.BooleanParser,
		func(r *record, year int, v bool) *record { r.Honoured[year] = v; return r },
		func(name string) (int, error) { return strconv.Atoi(strings.TrimSuffix(name, "MitgliedGeehrt")) })
)

func newRecordTable() *schema.TableScheme[[]record, *record] {
	return schema.NewTableScheme("Records",
		[]schema.SimpleField[*record]{idColumn, nameColumn},
		[]schema.Field[*record]{feeColumn, honouredColumn},
		func() *record { return &record{Honoured: map[int]bool{}} },
		func(builders []*record) []record {
			out := make([]record, 0, len(builders))
			for _, b := range builders {
				out = append(out, *b)
			}
			sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
			return out
		})
}

func row(values ...string) []sql.NullString {
	out := make([]sql.NullString, len(values))
	for i, v := range values {
		if v != "<null>" {
			out[i] = sql.NullString{String: v, Valid: true}
		}
	}
	return out
}

func TestSimpleColumn_Matches(t *testing.T) {
	assert.True(t, feeColumn.Matches("Beitrag"))
	assert.False(t, feeColumn.Matches("beitrag"))
	assert.False(t, feeColumn.Matches("Beitrag2"))
	assert.False(t, schema.NewSimpleColumn("A.B", schema.StringParser,
		func(r *record, _ string) *record { return r }).Matches("AxB"))
}

func TestRegexColumn_MatchesAndKey(t *testing.T) {
	assert.True(t, honouredColumn.Matches("5MitgliedGeehrt"))
	assert.False(t, honouredColumn.Matches("MitgliedGeehrt"))
	assert.False(t, honouredColumn.Matches("5MitgliedGeehrtX"))

	key, err := honouredColumn.Key("5MitgliedGeehrt")
	require.NoError(t, err)
	assert.Equal(t, 5, key)

	_, err = honouredColumn.Key("Name")
	assert.Error(t, err)
}

func TestSimpleColumn_Keywords(t *testing.T) {
	assert.Equal(t, []schema.Keyword{schema.KeywordNotNull, schema.KeywordPrimaryKey}, idColumn.Keywords())
	assert.False(t, idColumn.HasDefault())
	_, err := idColumn.DefaultSQL()
	assert.Error(t, err)

	assert.Equal(t, []schema.Keyword{schema.KeywordDefault}, feeColumn.Keywords())
	def, err := feeColumn.DefaultSQL()
	require.NoError(t, err)
	assert.Equal(t, "0", def)

	nullDefault := nameColumn.WithDefault(schema.NullDefault[string]())
	def, err = nullDefault.DefaultSQL()
	require.NoError(t, err)
	assert.Equal(t, "NULL", def)
	assert.Empty(t, nameColumn.Keywords(), "WithDefault must not modify the receiver")
}

func TestSimpleColumn_Combine(t *testing.T) {
	r, err := idColumn.Combine(&record{}, sql.NullString{String: "7", Valid: true})
	require.NoError(t, err)
	assert.Equal(t, 7, r.ID)

	_, err = idColumn.Combine(&record{}, sql.NullString{String: "seven", Valid: true})
	var invalid *schema.InvalidValueError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "ID", invalid.Column)
}

func TestPattern_Equal(t *testing.T) {
	assert.True(t, schema.NewPattern("^a$").Equal(schema.NewPattern("^a$")))
	// textually different, semantically equal
	assert.False(t, schema.NewPattern("^a$").Equal(schema.NewPattern("^(?:a)$")))
}

func TestTableScheme_ContainsAndIsOptional(t *testing.T) {
	table := newRecordTable()
	assert.True(t, table.Contains("ID"))
	assert.True(t, table.Contains("2019MitgliedGeehrt"))
	assert.False(t, table.Contains("Unknown"))

	optional, err := table.IsOptional("Beitrag")
	require.NoError(t, err)
	assert.True(t, optional)

	optional, err = table.IsOptional("Name")
	require.NoError(t, err)
	assert.False(t, optional)

	_, err = table.IsOptional("Unknown")
	assert.Error(t, err)

	var names []string
	for _, d := range table.Definitions() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"ID", "Name", "Beitrag"}, names)
}

func TestTableScheme_RejectsRequiredAndOptional(t *testing.T) {
	assert.Panics(t, func() {
		schema.NewTableScheme("Broken",
			[]schema.SimpleField[*record]{idColumn},
			[]schema.Field[*record]{idColumn},
			func() *record { return &record{} },
			func([]*record) int { return 0 })
	})
}

func TestTableScheme_Representations(t *testing.T) {
	table := newRecordTable()
	result := [][]sql.NullString{
		row("Name", "ID", "2019MitgliedGeehrt", "2024MitgliedGeehrt", "Beitrag", "Extra"),
		row("Huber", "2", "1", "0", "12.5", "x"),
		row("Maier", "1", "<null>", "1", "kaputt", "y"),
	}

	got, err := table.Representations(result)
	require.NoError(t, err)

	want := []record{
		{ID: 1, Name: "Maier", Honoured: map[int]bool{2024: true}},
		{ID: 2, Name: "Huber", Fee: 12.5, Honoured: map[int]bool{2019: true, 2024: false}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Representations mismatch (-want +got):\n%s", diff)
	}
}

func TestTableScheme_RepresentationsDuplicateHeading(t *testing.T) {
	table := newRecordTable()
	got, err := table.Representations([][]sql.NullString{
		row("ID", "Name", "Name"),
		row("1", "first", "second"),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Name)
}

func TestTableScheme_RepresentationsOverlap(t *testing.T) {
	wide := schema.NewRegexColumn(`^.*$`, schema.StringParser,
		func(r *record, _ string, _ string) *record { return r },
		func(name string) (string, error) { return name, nil })
	table := schema.NewTableScheme("Overlapping",
		[]schema.SimpleField[*record]{idColumn},
		[]schema.Field[*record]{wide},
		func() *record { return &record{} },
		func(b []*record) int { return len(b) })

	_, err := table.Representations([][]sql.NullString{row("ID"), row("1")})
	assert.Error(t, err)
}

func TestTableScheme_RepresentationsEmpty(t *testing.T) {
	_, err := newRecordTable().Representations(nil)
	assert.Error(t, err)

	got, err := newRecordTable().Representations([][]sql.NullString{row("ID", "Name")})
	require.NoError(t, err)
	assert.Empty(t, got)
}
