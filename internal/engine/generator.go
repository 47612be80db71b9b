package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang-sql/civil"

	"green2/internal/people"
	"green2/internal/schema"
	"green2/internal/sepa"
	"green2/internal/tables"
)

// Generator creates random but plausible members.
type Generator struct {
	faker *gofakeit.Faker
	now   time.Time
}

// NewGenerator returns a generator whose output only depends on seed and now.
func NewGenerator(seed int64, now time.Time) *Generator {
	return &Generator{faker: gofakeit.New(seed), now: now}
}

func (g *Generator) pick(values []string) string {
	return values[g.faker.Number(0, len(values)-1)]
}

// chance returns true with the given probability in percent.
func (g *Generator) chance(percent int) bool {
	return g.faker.Number(1, 100) <= percent
}

func (g *Generator) date(from, to time.Time) civil.Date {
	return civil.DateOf(g.faker.DateRange(from, to))
}

func (g *Generator) person(male bool) people.Person {
	prename := g.pick(FemalePrenames)
	if male {
		prename = g.pick(MalePrenames)
	}
	return people.Person{
		Prename:  prename,
		Lastname: g.pick(Lastnames),
		Title:    g.pick(Titles),
		Birthday: g.date(g.now.AddDate(-90, 0, 0), g.now.AddDate(-6, 0, 0)),
		Male:     male,
	}
}

// Member generates the member with the given number. Most members can be
// debited; some lack the BIC of their account.
func (g *Generator) Member(number int) (*people.Member, error) {
	m := people.NewMember()
	m.MembershipNumber = number
	m.Person = g.person(g.faker.Bool())
	m.MemberSince = g.date(m.Person.Birthday.In(time.UTC).AddDate(6, 0, 0), g.now)
	place := Places[g.faker.Number(0, len(Places)-1)]
	m.Home = people.Address{
		Street:      g.pick(Streets),
		HouseNumber: strconv.Itoa(g.faker.Number(1, 120)),
		Postcode:    place.Postcode,
		Place:       place.Name,
	}

	bank := Banks[g.faker.Number(0, len(Banks)-1)]
	iban, err := sepa.NewIBAN("DE", bank.Code+fmt.Sprintf("%010d", g.faker.Number(1, 999999999)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate iban: %w", err)
	}
	m.AccountHolder.IBAN = iban
	if g.chance(95) {
		m.AccountHolder.BIC = bank.BIC
	}
	if !g.chance(80) {
		holder := g.person(g.faker.Bool())
		holder.Lastname = m.Person.Lastname
		m.AccountHolder.Person = holder
	}
	signed := g.date(m.MemberSince.In(time.UTC), g.now)
	m.AccountHolder.MandateSigned = &signed
	m.AccountHolder.MandateChanged = g.chance(5)

	active := g.chance(85)
	m.Active = &active
	m.ContributionFree = g.chance(10)
	contribution := Contributions[g.faker.Number(0, len(Contributions)-1)]
	if m.ContributionFree {
		contribution = 0
	}
	m.Contribution = &contribution

	since := m.MemberSince.In(time.UTC)
	for _, years := range HonoringYears {
		if since.AddDate(years, 0, 0).Before(g.now) {
			m.Honorings[years] = g.chance(95)
		}
	}
	return m, nil
}

// value is a column of a generated row with its SQL literal.
type value struct {
	column  string
	typ     schema.ColumnType
	literal string
}

func stringValue(column, s string) value {
	return value{column: column, typ: schema.TypeString, literal: schema.StringParser.Format(&s)}
}

func dateValue(column string, d *civil.Date) value {
	return value{column: column, typ: schema.TypeDate, literal: schema.DateParser.Format(d)}
}

func boolValue(column string, b bool) value {
	return value{column: column, typ: schema.TypeBoolean, literal: schema.BooleanParser.Format(&b)}
}

// memberValues returns the row of m in the table Mitglieder. Columns of the
// account holder stay empty if the member holds the account.
func memberValues(m *people.Member) []value {
	values := []value{
		{column: "Mitgliedsnummer", typ: schema.TypeInteger, literal: schema.IntegerParser.Format(&m.MembershipNumber)},
		stringValue("Vorname", m.Person.Prename),
		stringValue("Nachname", m.Person.Lastname),
		stringValue("Titel", m.Person.Title),
		boolValue("IstMaennlich", m.Person.Male),
		dateValue("Geburtstag", &m.Person.Birthday),
		dateValue("MitgliedSeit", &m.MemberSince),
		stringValue("Strasse", m.Home.Street),
		stringValue("Hausnummer", m.Home.HouseNumber),
		stringValue("PLZ", m.Home.Postcode),
		stringValue("Ort", m.Home.Place),
		boolValue("IstBeitragsfrei", m.ContributionFree),
		stringValue("Iban", m.AccountHolder.IBAN),
		stringValue("Bic", m.AccountHolder.BIC),
		stringValue("KontoinhaberVorname", m.AccountHolder.Prename),
		stringValue("KontoinhaberNachname", m.AccountHolder.Lastname),
		dateValue("MandatErstellt", m.AccountHolder.MandateSigned),
	}
	if m.Contribution != nil {
		values = append(values, value{column: "Beitrag", typ: schema.TypeDouble,
			literal: schema.DoubleParser.Format(m.Contribution)})
	}
	if m.Active != nil {
		values = append(values, boolValue("IstAktiv", *m.Active))
	}
	for _, years := range HonoringYears {
		if honored, known := m.WasHonored(years); known {
			values = append(values, boolValue(tables.HonoringColumn(years), honored))
		}
	}
	return values
}

func nicknameValues(name, nickname string) []value {
	return []value{stringValue("Name", name), stringValue("Spitzname", nickname)}
}
