// Package sepa writes SEPA direct debit files in the pain.008.003.02 format.
package sepa

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-sql/civil"
)

const (
	MaxMessageIDLength = 35
	MaxPmtInfIDLength  = 35
	MaxIBANLength      = 34
	MaxNameLength      = 70
	MaxPurposeLength   = 140
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

var (
	ibanPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{1,30}$`)
	// ISO 9362: institution, country, location and optional branch code.
	bicPattern = regexp.MustCompile(`^[A-Z]{6}[A-Z2-9][A-NP-Z0-9]([A-Z0-9]{3})?$`)
	// Character set of SEPA identifiers like MsgId, PmtInfId and MndtId.
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9+?/\-:().,']{1,35}$`)
	creditorIDPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Za-z0-9]{3}[A-Za-z0-9+?/\-:().,']{1,28}$`)
)

// NormalizeIBAN removes spaces and upper cases iban.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(iban), " ", ""))
}

// NormalizeBIC removes surrounding white space and upper cases bic.
func NormalizeBIC(bic string) string {
	return strings.ToUpper(strings.TrimSpace(bic))
}

// IsValidIBAN checks the format and the mod 97 check digits of iban. Spaces are
// ignored.
func IsValidIBAN(iban string) bool {
	iban = NormalizeIBAN(iban)
	if len(iban) > MaxIBANLength || !ibanPattern.MatchString(iban) {
		return false
	}
	return mod97(iban[4:]+iban[:4]) == 1
}

// mod97 interprets letters as two digit numbers (A=10, ..., Z=35).
func mod97(s string) int {
	rem := 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			rem = (rem*100 + int(c-'A') + 10) % 97
		default:
			return -1
		}
	}
	return rem
}

// NewIBAN computes the check digits of the national account number bban.
func NewIBAN(country, bban string) (string, error) {
	country = strings.ToUpper(country)
	bban = strings.ToUpper(strings.ReplaceAll(bban, " ", ""))
	rem := mod97(bban + country + "00")
	if len(country) != 2 || rem < 0 {
		return "", fmt.Errorf("can not build an IBAN out of %q and %q", country, bban)
	}
	iban := fmt.Sprintf("%s%02d%s", country, 98-rem, bban)
	if !IsValidIBAN(iban) {
		return "", fmt.Errorf("%s is no valid IBAN", iban)
	}
	return iban, nil
}

func IsValidBIC(bic string) bool {
	return bicPattern.MatchString(bic)
}

// IsValidCreditorID checks a creditor identifier like DE98ZZZ09999999999. The
// business code at positions 5 to 7 is not part of the check digits.
func IsValidCreditorID(creditorID string) bool {
	creditorID = strings.ToUpper(strings.ReplaceAll(creditorID, " ", ""))
	if len(creditorID) > MaxMessageIDLength || !creditorIDPattern.MatchString(creditorID) {
		return false
	}
	national := creditorID[7:]
	return mod97(national+creditorID[:4]) == 1
}

// IsValidMessageID reports whether id may be used as MsgId or PmtInfId.
func IsValidMessageID(id string) bool {
	return identifierPattern.MatchString(id)
}

func FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format(dateLayout)
}

// FormatDateTime formats t as local date time without zone, e.g. 2026-10-16T12:00:00.
func FormatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
