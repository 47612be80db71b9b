package sepa_test

import (
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"green2/internal/people"
	"green2/internal/sepa"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func originator() sepa.Originator {
	return sepa.Originator{
		Creator:       "Trachtenverein Grün",
		MsgID:         "Beitrag-2026",
		Creditor:      "Trachtenverein Grün e.V.",
		IBAN:          "DE02 1203 0000 0000 2020 51",
		BIC:           "BYLADEM1001",
		CreditorID:    "DE98ZZZ09999999999",
		PmtInfID:      "Beitrag-2026-1",
		ExecutionDate: "2026-11-01",
		Purpose:       "Mitgliedsbeitrag 2026",
	}
}

func member(number int, contribution float64) *people.Member {
	signed := civil.Date{Year: 2020, Month: 5, Day: 4}
	m := people.NewMember()
	m.MembershipNumber = number
	m.Person = people.Person{Prename: "Anna", Lastname: "Huber"}
	m.AccountHolder = people.AccountHolder{
		IBAN:          "DE89370400440532013000",
		BIC:           "COBADEFFXXX",
		MandateSigned: &signed,
	}
	m.Contribution = &contribution
	return m
}

func mandateIDs(doc *sepa.Document) []string {
	var ids []string
	for _, tx := range doc.Initiation.PaymentInformation.Transactions {
		ids = append(ids, tx.Mandate.MandateID)
	}
	return ids
}

func TestBuild_Partition(t *testing.T) {
	noIBAN := member(1, 12.5)
	noIBAN.AccountHolder.IBAN = ""
	zero := member(2, 0)
	valid := member(3, 12.50)

	doc, invalid, err := sepa.Build([]*people.Member{noIBAN, zero, valid}, originator(), sepa.SequenceRecurring, now)
	require.NoError(t, err)
	require.NotNil(t, doc)

	require.Len(t, invalid, 2)
	assert.Same(t, noIBAN, invalid[0].Member)
	assert.Equal(t, []string{"has an invalid IBAN"}, invalid[0].Reasons)
	assert.Same(t, zero, invalid[1].Member)
	assert.Equal(t, []string{"has a contribution <= 0"}, invalid[1].Reasons)

	info := doc.Initiation.PaymentInformation
	require.Len(t, info.Transactions, 1)
	tx := info.Transactions[0]
	assert.Equal(t, "3", tx.Mandate.MandateID)
	assert.Equal(t, "2020-05-04", tx.Mandate.DateOfSignature)
	assert.Equal(t, sepa.Amount{Currency: "EUR", Value: "12.50"}, tx.Amount)
	assert.Equal(t, "Huber, Anna", tx.Debtor.Name)
	assert.Equal(t, "NOTPROVIDED", tx.EndToEndID)
	assert.Equal(t, "12.5", info.ControlSum)
	assert.Equal(t, "1", info.NbOfTxs)
	assert.Equal(t, "1", doc.Initiation.GroupHeader.NbOfTxs)
	assert.Equal(t, "DE02120300000000202051", info.CreditorAccount.IBAN)
	assert.Equal(t, "2026-11-01", info.CollectionDate)
	assert.Equal(t, sepa.SequenceRecurring, info.PaymentType.SequenceType)
	assert.Equal(t, "2026-10-16T12:00:00", doc.Initiation.GroupHeader.CreationDateTime)
}

func TestBuild_CollectsAllReasons(t *testing.T) {
	m := people.NewMember()
	m.MembershipNumber = 9

	_, invalid, err := sepa.Build([]*people.Member{m, member(1, 5)}, originator(), sepa.SequenceFirst, now)
	require.NoError(t, err)
	require.Len(t, invalid, 1)
	assert.Equal(t, []string{
		"has an invalid IBAN",
		"has no BIC",
		"has a bad MandatErstellt",
		"has no assigned contribution",
	}, invalid[0].Reasons)
	assert.Equal(t, "9:\t (has an invalid IBAN, has no BIC, has a bad MandatErstellt, has no assigned contribution)",
		invalid[0].String())
}

func TestBuild_ControlSumRounding(t *testing.T) {
	doc, invalid, err := sepa.Build([]*people.Member{member(1, 10.005), member(2, 10.005)},
		originator(), sepa.SequenceRecurring, now)
	require.NoError(t, err)
	assert.Empty(t, invalid)

	info := doc.Initiation.PaymentInformation
	// half to even at the cent boundary
	assert.Equal(t, "10.00", info.Transactions[0].Amount.Value)
	assert.Equal(t, "10.00", info.Transactions[1].Amount.Value)
	assert.Equal(t, "20", info.ControlSum)

	doc, _, err = sepa.Build([]*people.Member{member(1, 10.015), member(2, 0.1), member(3, 0.2)},
		originator(), sepa.SequenceRecurring, now)
	require.NoError(t, err)
	assert.Equal(t, "10.02", doc.Initiation.PaymentInformation.Transactions[0].Amount.Value)
	assert.Equal(t, "10.32", doc.Initiation.PaymentInformation.ControlSum)
}

func TestBuild_SubCentContributionIsInvalid(t *testing.T) {
	doc, invalid, err := sepa.Build([]*people.Member{member(1, 0.004)}, originator(), sepa.SequenceRecurring, now)
	require.NoError(t, err)
	assert.Nil(t, doc)
	require.Len(t, invalid, 1)
	assert.Equal(t, []string{"has a contribution <= 0"}, invalid[0].Reasons)
}

func TestBuild_SortsByMembershipNumber(t *testing.T) {
	doc, _, err := sepa.Build([]*people.Member{member(30, 1), member(4, 1), member(17, 1)},
		originator(), sepa.SequenceOneOff, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "17", "30"}, mandateIDs(doc))
}

func TestBuild_NoEligibleMember(t *testing.T) {
	doc, invalid, err := sepa.Build([]*people.Member{member(1, -3)}, originator(), sepa.SequenceRecurring, now)
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Len(t, invalid, 1)

	doc, invalid, err = sepa.Build(nil, originator(), sepa.SequenceRecurring, now)
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Empty(t, invalid)
}

func TestBuild_RejectsInvalidInput(t *testing.T) {
	o := originator()
	o.CreditorID = "DE00ZZZ09999999999"
	_, _, err := sepa.Build([]*people.Member{member(1, 5)}, o, sepa.SequenceRecurring, now)
	require.Error(t, err)
	var invariant *sepa.InvariantError
	assert.False(t, errors.As(err, &invariant), "bad input is no invariant violation")

	_, _, err = sepa.Build([]*people.Member{member(1, 5)}, originator(), sepa.SequenceType("LAST"), now)
	assert.Error(t, err)
}

func TestBuild_GeneratesIDs(t *testing.T) {
	o := originator()
	o.MsgID = ""
	o.PmtInfID = ""
	doc, _, err := sepa.Build([]*people.Member{member(1, 5)}, o, sepa.SequenceRecurring, now)
	require.NoError(t, err)
	assert.True(t, sepa.IsValidMessageID(doc.Initiation.GroupHeader.MsgID))
	assert.True(t, sepa.IsValidMessageID(doc.Initiation.PaymentInformation.PmtInfID))
	assert.NotEqual(t, doc.Initiation.GroupHeader.MsgID, doc.Initiation.PaymentInformation.PmtInfID)
}

func TestBuild_TruncatesLongNames(t *testing.T) {
	m := member(1, 5)
	m.AccountHolder.Lastname = strings.Repeat("ä", 80)
	doc, _, err := sepa.Build([]*people.Member{m}, originator(), sepa.SequenceRecurring, now)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ä", sepa.MaxNameLength), doc.Initiation.PaymentInformation.Transactions[0].Debtor.Name)
}

func TestValidate_ReportsInvariantViolations(t *testing.T) {
	doc, _, err := sepa.Build([]*people.Member{member(1, 5), member(2, 7)}, originator(), sepa.SequenceRecurring, now)
	require.NoError(t, err)
	require.NoError(t, sepa.Validate(doc))

	doc.Initiation.PaymentInformation.Transactions[0].Amount.Value = "5.001"
	doc.Initiation.GroupHeader.NbOfTxs = "3"
	err = sepa.Validate(doc)
	var invariant *sepa.InvariantError
	require.True(t, errors.As(err, &invariant))
	assert.Len(t, invariant.Violations, 3, "amount facet, NbOfTxs and CtrlSum: %v", invariant.Violations)
}

func TestEncode(t *testing.T) {
	o := originator()
	o.Creator = "Müller & Söhne <GbR>"
	doc, _, err := sepa.Build([]*people.Member{member(1, 5)}, o, sepa.SequenceRecurring, now)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sepa.Encode(&buf, doc, false))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.008.003.02"`)
	assert.Contains(t, out, `xsi:schemaLocation="urn:iso:std:iso:20022:tech:xsd:pain.008.003.02 pain.008.003.02.xsd"`)
	assert.Contains(t, out, "<Nm>Müller &amp; Söhne &lt;GbR&gt;</Nm>")
	assert.Contains(t, out, `<InstdAmt Ccy="EUR">5.00</InstdAmt>`)
	assert.Contains(t, out, "<BtchBookg>true</BtchBookg>")
	assert.Contains(t, out, "<AmdmntInd>false</AmdmntInd>")

	var decoded sepa.Document
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, o.Creator, decoded.Initiation.GroupHeader.InitiatingParty.Name)
	assert.Equal(t, "DE98ZZZ09999999999", decoded.Initiation.PaymentInformation.CreditorSchemeID.ID)
	assert.Equal(t, "SEPA", decoded.Initiation.PaymentInformation.CreditorSchemeID.SchemeName)
}

func TestEncode_ByteOrderMark(t *testing.T) {
	doc, _, err := sepa.Build([]*people.Member{member(1, 5)}, originator(), sepa.SequenceRecurring, now)
	require.NoError(t, err)

	var with, without bytes.Buffer
	require.NoError(t, sepa.Encode(&with, doc, true))
	require.NoError(t, sepa.Encode(&without, doc, false))
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, with.Bytes()[:3])
	assert.Equal(t, byte('<'), without.Bytes()[0])
	assert.Equal(t, without.Bytes(), with.Bytes()[3:])
}

func TestCreateXMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lastschrift.xml")

	invalid, err := sepa.CreateXMLFile([]*people.Member{member(2, 8), member(1, 0)}, originator(),
		sepa.SequenceRecurring, path, true)
	require.NoError(t, err)
	require.Len(t, invalid, 1)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc sepa.Document
	require.NoError(t, xml.Unmarshal(bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF}), &doc))
	assert.Equal(t, "8", doc.Initiation.PaymentInformation.ControlSum)
	assert.Equal(t, []string{"2"}, mandateIDs(&doc))

	empty := filepath.Join(dir, "leer.xml")
	invalid, err = sepa.CreateXMLFile([]*people.Member{member(1, 0)}, originator(),
		sepa.SequenceRecurring, empty, false)
	require.NoError(t, err)
	assert.Len(t, invalid, 1)
	_, err = os.Stat(empty)
	assert.True(t, os.IsNotExist(err), "no file without eligible members")
}
