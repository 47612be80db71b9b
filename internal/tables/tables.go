// Package tables declares the tables the membership database consists of.
package tables

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-sql/civil"

	"green2/internal/connection"
	"green2/internal/people"
	"green2/internal/schema"
)

const honoringSuffix = "MitgliedGeehrt"

// Members is the table "Mitglieder". Rows are deduplicated by membership number.
var Members = schema.NewTableScheme("Mitglieder",
	[]schema.SimpleField[*people.Member]{
		schema.NewSimpleColumn("Mitgliedsnummer", schema.IntegerParser,
			func(m *people.Member, v int) *people.Member { m.MembershipNumber = v; return m },
			schema.KeywordNotNull, schema.KeywordPrimaryKey),
		memberString("Vorname", func(m *people.Member, v string) { m.Person.Prename = v }),
		memberString("Nachname", func(m *people.Member, v string) { m.Person.Lastname = v }),
		memberString("Titel", func(m *people.Member, v string) { m.Person.Title = v }),
		schema.NewSimpleColumn("IstMaennlich", schema.BooleanParser,
			func(m *people.Member, v bool) *people.Member { m.Person.Male = v; return m },
			schema.KeywordNotNull),
		memberDate("Geburtstag", func(m *people.Member, v civil.Date) { m.Person.Birthday = v }),
		memberDate("MitgliedSeit", func(m *people.Member, v civil.Date) { m.MemberSince = v }),
		memberString("Strasse", func(m *people.Member, v string) { m.Home.Street = v }),
		memberString("Hausnummer", func(m *people.Member, v string) { m.Home.HouseNumber = v }),
		memberString("PLZ", func(m *people.Member, v string) { m.Home.Postcode = v }),
		memberString("Ort", func(m *people.Member, v string) { m.Home.Place = v }),
		schema.NewSimpleColumn("IstBeitragsfrei", schema.BooleanParser,
			func(m *people.Member, v bool) *people.Member { m.ContributionFree = v; return m },
			schema.KeywordNotNull).WithDefault(schema.DefaultOf(false)),
		memberString("Iban", func(m *people.Member, v string) { m.AccountHolder.IBAN = v }),
		memberString("Bic", func(m *people.Member, v string) { m.AccountHolder.BIC = v }),
		memberString("KontoinhaberVorname", func(m *people.Member, v string) { m.AccountHolder.Prename = v }),
		memberString("KontoinhaberNachname", func(m *people.Member, v string) { m.AccountHolder.Lastname = v }),
		memberDate("MandatErstellt", func(m *people.Member, v civil.Date) { m.AccountHolder.MandateSigned = &v }),
	},
	[]schema.Field[*people.Member]{
		schema.NewSimpleColumn("Beitrag", schema.DoubleParser,
			func(m *people.Member, v float64) *people.Member { m.Contribution = &v; return m },
			schema.KeywordNotNull),
		schema.NewSimpleColumn("IstAktiv", schema.BooleanParser,
			func(m *people.Member, v bool) *people.Member { m.Active = &v; return m },
			schema.KeywordNotNull),
		schema.NewRegexColumn(`^\d+`+honoringSuffix+`$`, schema.BooleanParser,
			func(m *people.Member, years int, v bool) *people.Member { m.Honorings[years] = v; return m },
			HonoringYears),
	},
	people.NewMember,
	func(members []*people.Member) map[int]*people.Member {
		byNumber := make(map[int]*people.Member, len(members))
		for _, m := range members {
			byNumber[m.MembershipNumber] = m
		}
		return byNumber
	})

// Nicknames is the table "Spitznamen" mapping names to nicknames.
var Nicknames = schema.NewTableScheme("Spitznamen",
	[]schema.SimpleField[people.Nickname]{
		schema.NewSimpleColumn("Name", schema.StringParser,
			func(n people.Nickname, v string) people.Nickname { n.Name = v; return n },
			schema.KeywordNotNull, schema.KeywordPrimaryKey),
		schema.NewSimpleColumn("Spitzname", schema.StringParser,
			func(n people.Nickname, v string) people.Nickname { n.Nickname = v; return n },
			schema.KeywordNotNull),
	},
	nil,
	func() people.Nickname { return people.Nickname{} },
	func(nicknames []people.Nickname) map[string]string {
		byName := make(map[string]string, len(nicknames))
		for _, n := range nicknames {
			byName[n.Name] = n.Nickname
		}
		return byName
	})

// All returns every declared table.
func All() []schema.Table {
	return []schema.Table{Members, Nicknames}
}

// HonoringColumn returns the name of the column storing whether members were
// honored for years of membership.
func HonoringColumn(years int) string {
	return strconv.Itoa(years) + honoringSuffix
}

// HonoringYears extracts the years out of a column like "25MitgliedGeehrt".
func HonoringYears(columnName string) (int, error) {
	years, err := strconv.Atoi(strings.TrimSuffix(columnName, honoringSuffix))
	if err != nil {
		return 0, fmt.Errorf("%s is no honoring column: %w", columnName, err)
	}
	return years, nil
}

func memberString(name string, set func(*people.Member, string)) *schema.SimpleColumn[string, *people.Member] {
	return schema.NewSimpleColumn(name, schema.StringParser,
		func(m *people.Member, v string) *people.Member { set(m, v); return m },
		schema.KeywordNotNull)
}

func memberDate(name string, set func(*people.Member, civil.Date)) *schema.SimpleColumn[civil.Date, *people.Member] {
	return schema.NewSimpleColumn(name, schema.DateParser,
		func(m *people.Member, v civil.Date) *people.Member { set(m, v); return m },
		schema.KeywordNotNull)
}

// AllMembers fetches every member of the connected database.
func AllMembers(ctx context.Context, conn *connection.Connection) (map[int]*people.Member, error) {
	return fetch(ctx, conn, Members)
}

// AllNicknames fetches the nickname mapping of the connected database.
func AllNicknames(ctx context.Context, conn *connection.Connection) (map[string]string, error) {
	return fetch(ctx, conn, Nicknames)
}

func fetch[R, B any](ctx context.Context, conn *connection.Connection, table *schema.TableScheme[R, B]) (R, error) {
	var zero R
	query, err := conn.SearchQueryFor(ctx, table, table.Columns())
	if err != nil {
		return zero, fmt.Errorf("failed to generate query for %s: %w", table.Name(), err)
	}
	result, err := conn.ExecQuery(ctx, query)
	if err != nil {
		return zero, fmt.Errorf("failed to query %s: %w", table.Name(), err)
	}
	return table.Representations(result)
}
