package sepa

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"

	"green2/internal/people"
)

const (
	byteOrderMark = "\uFEFF"
	notProvided   = "NOTPROVIDED"
)

// InvalidMember is a member excluded from a SEPA file together with the
// reasons for its exclusion.
type InvalidMember struct {
	Member  *people.Member
	Reasons []string
}

func (i InvalidMember) String() string {
	return fmt.Sprintf("%s (%s)", i.Member, strings.Join(i.Reasons, ", "))
}

// Check returns the reasons why m can not be debited, none if it can.
func Check(m *people.Member) []string {
	var reasons []string
	if !IsValidIBAN(m.AccountHolder.IBAN) {
		reasons = append(reasons, "has an invalid IBAN")
	}
	switch bic := NormalizeBIC(m.AccountHolder.BIC); {
	case bic == "":
		reasons = append(reasons, "has no BIC")
	case !IsValidBIC(bic):
		reasons = append(reasons, "has an invalid BIC")
	}
	if m.AccountHolder.MandateSigned == nil || !m.AccountHolder.MandateSigned.IsValid() {
		reasons = append(reasons, "has a bad MandatErstellt")
	}
	switch amount, ok := contribution(m); {
	case !ok:
		reasons = append(reasons, "has no assigned contribution")
	case !amount.IsPositive():
		reasons = append(reasons, "has a contribution <= 0")
	case amount.GreaterThan(maxAmount):
		reasons = append(reasons, "has a contribution above "+maxAmount.String())
	}
	return reasons
}

// contribution returns the contribution of m rounded half to even to cents.
func contribution(m *people.Member) (decimal.Decimal, bool) {
	if m.Contribution == nil {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(*m.Contribution).RoundBank(2), true
}

// Partition splits members into the ones which can be debited, sorted by
// membership number, and the invalid ones in input order.
func Partition(members []*people.Member) (eligible []*people.Member, invalid []InvalidMember) {
	reasons := iter.Map(members, func(m **people.Member) []string {
		return Check(*m)
	})
	for i, m := range members {
		if len(reasons[i]) == 0 {
			eligible = append(eligible, m)
			continue
		}
		for _, r := range reasons[i] {
			log.Warn().Int("member", m.MembershipNumber).Str("name", m.Person.Name()).Str("reason", r).
				Msg("Member is excluded from the SEPA file")
		}
		invalid = append(invalid, InvalidMember{Member: m, Reasons: reasons[i]})
	}
	people.SortByNumber(eligible)
	return eligible, invalid
}

// Build creates the direct debit of all valid members. The document is nil if
// no member is valid. A document failing Validate is reported as
// *InvariantError.
func Build(members []*people.Member, originator Originator, seq SequenceType, now time.Time) (*Document, []InvalidMember, error) {
	if err := originator.Validate(); err != nil {
		return nil, nil, err
	}
	if !slices.Contains(SequenceTypes(), seq) {
		return nil, nil, fmt.Errorf("unknown sequence type %q", seq)
	}
	execution, err := originator.Execution()
	if err != nil {
		return nil, nil, err
	}

	eligible, invalid := Partition(members)
	if len(eligible) == 0 {
		log.Warn().Int("invalid", len(invalid)).Msg("No member can be debited, skipping SEPA file")
		return nil, invalid, nil
	}

	var remittance *Remittance
	if originator.Purpose != "" {
		remittance = &Remittance{Unstructured: originator.Purpose}
	}
	txs := iter.Map(eligible, func(m **people.Member) TransactionInfo {
		return transaction(*m, remittance)
	})

	controlSum := decimal.Zero
	for _, m := range eligible {
		amount, _ := contribution(m)
		controlSum = controlSum.Add(amount)
	}
	count := strconv.Itoa(len(txs))

	doc := &Document{
		XMLName:        xml.Name{Space: namespace, Local: "Document"},
		XSI:            "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: schemaLocation,
		Initiation: DirectDebitInitiation{
			GroupHeader: GroupHeader{
				MsgID:            originator.messageID(),
				CreationDateTime: FormatDateTime(now),
				NbOfTxs:          count,
				InitiatingParty:  Party{Name: originator.Creator},
			},
			PaymentInformation: PaymentInformation{
				PmtInfID:      originator.paymentInformationID(),
				PaymentMethod: "DD",
				BatchBooking:  true,
				NbOfTxs:       count,
				ControlSum:    controlSum.RoundBank(2).String(),
				PaymentType: PaymentTypeInfo{
					ServiceLevel:    Code{Code: "SEPA"},
					LocalInstrument: Code{Code: "CORE"},
					SequenceType:    seq,
				},
				CollectionDate:  FormatDate(execution),
				Creditor:        Party{Name: originator.Creditor},
				CreditorAccount: Account{IBAN: NormalizeIBAN(originator.IBAN)},
				CreditorAgent:   Agent{BIC: NormalizeBIC(originator.BIC)},
				ChargeBearer:    "SLEV",
				CreditorSchemeID: CreditorSchemeID{
					ID:         strings.ToUpper(strings.ReplaceAll(originator.CreditorID, " ", "")),
					SchemeName: "SEPA",
				},
				Transactions: txs,
			},
		},
	}
	if err := Validate(doc); err != nil {
		return nil, invalid, err
	}
	return doc, invalid, nil
}

func transaction(m *people.Member, remittance *Remittance) TransactionInfo {
	amount, _ := contribution(m)
	return TransactionInfo{
		EndToEndID: notProvided,
		Amount:     Amount{Currency: currency, Value: amount.StringFixed(2)},
		Mandate: MandateInfo{
			MandateID:       strconv.Itoa(m.MembershipNumber),
			DateOfSignature: FormatDate(*m.AccountHolder.MandateSigned),
			Amended:         m.AccountHolder.MandateChanged,
		},
		DebtorAgent:   Agent{BIC: NormalizeBIC(m.AccountHolder.BIC)},
		Debtor:        Party{Name: truncate(m.AccountHolderName(), MaxNameLength)},
		DebtorAccount: Account{IBAN: NormalizeIBAN(m.AccountHolder.IBAN)},
		Remittance:    remittance,
	}
}

// Encode writes doc as indented XML, preceded by a UTF-8 byte order mark if
// useBOM is set.
func Encode(w io.Writer, doc *Document, useBOM bool) error {
	bw := bufio.NewWriter(w)
	if useBOM {
		if _, err := bw.WriteString(byteOrderMark); err != nil {
			return fmt.Errorf("failed to write byte order mark: %w", err)
		}
	}
	if _, err := bw.WriteString(xml.Header); err != nil {
		return fmt.Errorf("failed to write xml header: %w", err)
	}
	enc := xml.NewEncoder(bw)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode SEPA document: %w", err)
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}

// CreateXMLFile writes the direct debit of all valid members of members to
// path and returns the excluded ones. No file is written if no member is valid.
func CreateXMLFile(members []*people.Member, originator Originator, seq SequenceType, path string, useBOM bool) ([]InvalidMember, error) {
	doc, invalid, err := Build(members, originator, seq, time.Now())
	if err != nil || doc == nil {
		return invalid, err
	}

	f, err := os.Create(path)
	if err != nil {
		return invalid, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, doc, useBOM); err != nil {
		f.Close()
		return invalid, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return invalid, fmt.Errorf("failed to close %s: %w", path, err)
	}
	log.Info().Str("file", path).Str("transactions", doc.Initiation.GroupHeader.NbOfTxs).
		Str("control_sum", doc.Initiation.PaymentInformation.ControlSum).Msg("SEPA file written")
	return invalid, nil
}
