package people

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang-sql/civil"
)

type Person struct {
	Prename  string
	Lastname string
	Title    string
	Birthday civil.Date
	Male     bool
}

// Name returns last name and first name space separated.
func (p Person) Name() string {
	return strings.TrimSpace(p.Lastname + " " + p.Prename)
}

type Address struct {
	Street      string
	HouseNumber string
	Postcode    string
	Place       string
}

// AccountHolder is the person owning the account a contribution is debited from.
type AccountHolder struct {
	Person
	IBAN           string
	BIC            string
	MandateSigned  *civil.Date // nil if no mandate was signed yet
	MandateChanged bool
}

func (a AccountHolder) HasIBAN() bool { return a.IBAN != "" }

func (a AccountHolder) HasBIC() bool { return a.BIC != "" }

type Member struct {
	MembershipNumber int
	Person           Person
	Home             Address
	AccountHolder    AccountHolder
	Active           *bool
	ContributionFree bool
	Contribution     *float64
	MemberSince      civil.Date
	Honorings        map[int]bool // years of membership -> honored
}

// NewMember returns a member ready to be filled column by column.
func NewMember() *Member {
	return &Member{Honorings: make(map[int]bool)}
}

// AccountHolderPrename falls back to the member's own first name.
func (m *Member) AccountHolderPrename() string {
	if m.AccountHolder.Prename != "" {
		return m.AccountHolder.Prename
	}
	return m.Person.Prename
}

// AccountHolderLastname falls back to the member's own last name.
func (m *Member) AccountHolderLastname() string {
	if m.AccountHolder.Lastname != "" {
		return m.AccountHolder.Lastname
	}
	return m.Person.Lastname
}

// AccountHolderName returns "lastname, prename" of the account holder.
func (m *Member) AccountHolderName() string {
	return m.AccountHolderLastname() + ", " + m.AccountHolderPrename()
}

// WasHonored reports whether the member was honored for years of membership
// and whether this is known at all.
func (m *Member) WasHonored(years int) (honored, known bool) {
	honored, known = m.Honorings[years]
	return honored, known
}

func (m *Member) String() string {
	return fmt.Sprintf("%d:\t%s", m.MembershipNumber, m.Person.Name())
}

// SortByNumber sorts members ascending by membership number.
func SortByNumber(members []*Member) {
	sort.Slice(members, func(i, j int) bool {
		return members[i].MembershipNumber < members[j].MembershipNumber
	})
}

// Members returns the values of byNumber sorted by membership number.
func Members(byNumber map[int]*Member) []*Member {
	members := make([]*Member, 0, len(byNumber))
	for _, m := range byNumber {
		members = append(members, m)
	}
	SortByNumber(members)
	return members
}

// Nickname maps a first name to its colloquial form, e.g. Johannes to Hans.
type Nickname struct {
	Name     string
	Nickname string
}
