package sepa

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-sql/civil"
	"github.com/shopspring/decimal"
)

// InvariantError reports a generated document which violates the
// pain.008.003.02 schema. Input data never causes it; it indicates a broken
// generator.
type InvariantError struct {
	Violations []string
}

func (e *InvariantError) Error() string {
	return "generated document violates pain.008.003.02: " + strings.Join(e.Violations, "; ")
}

var (
	numericTextPattern = regexp.MustCompile(`^[0-9]{1,15}$`)
	// IBAN2007Identifier
	schemaIBANPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[a-zA-Z0-9]{1,30}$`)
	maxAmount         = decimal.RequireFromString("999999999.99")
	minAmount         = decimal.RequireFromString("0.01")
)

// documentValidator checks the facets of the pain.008.003.02 schema a
// generated document can violate.
type documentValidator struct {
	violations []string
}

func (v *documentValidator) fail(path, format string, args ...any) {
	v.violations = append(v.violations, path+": "+fmt.Sprintf(format, args...))
}

func (v *documentValidator) text(path, value string, maxLength int) {
	n := utf8.RuneCountInString(value)
	if n < 1 || n > maxLength {
		v.fail(path, "length %d not in [1, %d]", n, maxLength)
	}
}

func (v *documentValidator) pattern(path, value string, re *regexp.Regexp) {
	if !re.MatchString(value) {
		v.fail(path, "%q does not match %s", value, re)
	}
}

func (v *documentValidator) date(path, value string) {
	if _, err := civil.ParseDate(value); err != nil {
		v.fail(path, "%q is no ISODate", value)
	}
}

func (v *documentValidator) count(path, value string, want int) {
	v.pattern(path, value, numericTextPattern)
	if n, err := strconv.Atoi(value); err == nil && n != want {
		v.fail(path, "declares %d transactions but contains %d", n, want)
	}
}

func (v *documentValidator) bic(path, value string) {
	v.pattern(path, value, bicPattern)
}

func (v *documentValidator) iban(path, value string) {
	v.pattern(path, value, schemaIBANPattern)
}

// Validate returns an *InvariantError listing every violation of doc.
func Validate(doc *Document) error {
	v := &documentValidator{}
	if doc.XMLName.Space != namespace {
		v.fail("Document", "namespace %q", doc.XMLName.Space)
	}

	header := doc.Initiation.GroupHeader
	info := doc.Initiation.PaymentInformation
	txs := len(info.Transactions)
	if txs == 0 {
		v.fail("PmtInf", "contains no DrctDbtTxInf")
	}

	v.pattern("GrpHdr/MsgId", header.MsgID, identifierPattern)
	if _, err := time.Parse(dateTimeLayout, header.CreationDateTime); err != nil {
		v.fail("GrpHdr/CreDtTm", "%q is no ISODateTime", header.CreationDateTime)
	}
	v.count("GrpHdr/NbOfTxs", header.NbOfTxs, txs)
	v.text("GrpHdr/InitgPty/Nm", header.InitiatingParty.Name, MaxNameLength)

	v.pattern("PmtInf/PmtInfId", info.PmtInfID, identifierPattern)
	if info.PaymentMethod != "DD" {
		v.fail("PmtInf/PmtMtd", "%q is not DD", info.PaymentMethod)
	}
	v.count("PmtInf/NbOfTxs", info.NbOfTxs, txs)
	v.controlSum("PmtInf/CtrlSum", info.ControlSum)
	if info.PaymentType.ServiceLevel.Code != "SEPA" {
		v.fail("PmtInf/PmtTpInf/SvcLvl/Cd", "%q is not SEPA", info.PaymentType.ServiceLevel.Code)
	}
	switch info.PaymentType.LocalInstrument.Code {
	case "CORE", "COR1", "B2B":
	default:
		v.fail("PmtInf/PmtTpInf/LclInstrm/Cd", "unknown local instrument %q", info.PaymentType.LocalInstrument.Code)
	}
	if !slices.Contains(SequenceTypes(), info.PaymentType.SequenceType) {
		v.fail("PmtInf/PmtTpInf/SeqTp", "unknown sequence type %q", info.PaymentType.SequenceType)
	}
	v.date("PmtInf/ReqdColltnDt", info.CollectionDate)
	v.text("PmtInf/Cdtr/Nm", info.Creditor.Name, MaxNameLength)
	v.iban("PmtInf/CdtrAcct/Id/IBAN", info.CreditorAccount.IBAN)
	v.bic("PmtInf/CdtrAgt/FinInstnId/BIC", info.CreditorAgent.BIC)
	if info.ChargeBearer != "SLEV" {
		v.fail("PmtInf/ChrgBr", "%q is not SLEV", info.ChargeBearer)
	}
	v.pattern("PmtInf/CdtrSchmeId/Id/PrvtId/Othr/Id", info.CreditorSchemeID.ID, creditorIDPattern)
	if info.CreditorSchemeID.SchemeName != "SEPA" {
		v.fail("PmtInf/CdtrSchmeId/Id/PrvtId/Othr/SchmeNm/Prtry", "%q is not SEPA", info.CreditorSchemeID.SchemeName)
	}

	sum := decimal.Zero
	for i, tx := range info.Transactions {
		path := fmt.Sprintf("DrctDbtTxInf[%d]", i)
		v.pattern(path+"/PmtId/EndToEndId", tx.EndToEndID, identifierPattern)
		if amount, ok := v.amount(path+"/InstdAmt", tx.Amount); ok {
			sum = sum.Add(amount)
		}
		v.pattern(path+"/DrctDbtTx/MndtRltdInf/MndtId", tx.Mandate.MandateID, identifierPattern)
		v.date(path+"/DrctDbtTx/MndtRltdInf/DtOfSgntr", tx.Mandate.DateOfSignature)
		v.bic(path+"/DbtrAgt/FinInstnId/BIC", tx.DebtorAgent.BIC)
		v.text(path+"/Dbtr/Nm", tx.Debtor.Name, MaxNameLength)
		v.iban(path+"/DbtrAcct/Id/IBAN", tx.DebtorAccount.IBAN)
		if tx.Remittance != nil {
			v.text(path+"/RmtInf/Ustrd", tx.Remittance.Unstructured, MaxPurposeLength)
		}
	}

	if ctrlSum, err := decimal.NewFromString(info.ControlSum); err == nil && !ctrlSum.Equal(sum) {
		v.fail("PmtInf/CtrlSum", "%s differs from the sum %s of all transactions", info.ControlSum, sum)
	}

	if len(v.violations) > 0 {
		return &InvariantError{Violations: v.violations}
	}
	return nil
}

// controlSum checks a DecimalNumber: at most 18 digits, 17 of them fractional.
func (v *documentValidator) controlSum(path, value string) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		v.fail(path, "%q is no decimal", value)
		return
	}
	digits := strings.TrimLeft(strings.ReplaceAll(d.Abs().String(), ".", ""), "0")
	if len(digits) > 18 || -d.Exponent() > 17 {
		v.fail(path, "%q exceeds the DecimalNumber facets", value)
	}
}

// amount checks an ActiveOrHistoricCurrencyAndAmount restricted to SEPA.
func (v *documentValidator) amount(path string, a Amount) (decimal.Decimal, bool) {
	if a.Currency != currency {
		v.fail(path+"/@Ccy", "%q is not %s", a.Currency, currency)
	}
	d, err := decimal.NewFromString(a.Value)
	switch {
	case err != nil:
		v.fail(path, "%q is no decimal", a.Value)
		return decimal.Zero, false
	case d.LessThan(minAmount) || d.GreaterThan(maxAmount):
		v.fail(path, "%s not in [%s, %s]", a.Value, minAmount, maxAmount)
	case !d.Equal(d.Truncate(2)):
		v.fail(path, "%s has more than 2 fraction digits", a.Value)
	}
	return d, true
}
