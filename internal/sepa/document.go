package sepa

import "encoding/xml"

const (
	namespace      = "urn:iso:std:iso:20022:tech:xsd:pain.008.003.02"
	schemaLocation = namespace + " pain.008.003.02.xsd"
	currency       = "EUR"
)

// Document is the pain.008.003.02 customer direct debit initiation.
type Document struct {
	XMLName        xml.Name              `xml:"urn:iso:std:iso:20022:tech:xsd:pain.008.003.02 Document"`
	XSI            string                `xml:"xmlns:xsi,attr"`
	SchemaLocation string                `xml:"xsi:schemaLocation,attr"`
	Initiation     DirectDebitInitiation `xml:"CstmrDrctDbtInitn"`
}

type DirectDebitInitiation struct {
	GroupHeader        GroupHeader        `xml:"GrpHdr"`
	PaymentInformation PaymentInformation `xml:"PmtInf"`
}

type GroupHeader struct {
	MsgID            string `xml:"MsgId"`
	CreationDateTime string `xml:"CreDtTm"`
	NbOfTxs          string `xml:"NbOfTxs"`
	InitiatingParty  Party  `xml:"InitgPty"`
}

type Party struct {
	Name string `xml:"Nm"`
}

type PaymentInformation struct {
	PmtInfID         string            `xml:"PmtInfId"`
	PaymentMethod    string            `xml:"PmtMtd"`
	BatchBooking     bool              `xml:"BtchBookg"`
	NbOfTxs          string            `xml:"NbOfTxs"`
	ControlSum       string            `xml:"CtrlSum"`
	PaymentType      PaymentTypeInfo   `xml:"PmtTpInf"`
	CollectionDate   string            `xml:"ReqdColltnDt"`
	Creditor         Party             `xml:"Cdtr"`
	CreditorAccount  Account           `xml:"CdtrAcct"`
	CreditorAgent    Agent             `xml:"CdtrAgt"`
	ChargeBearer     string            `xml:"ChrgBr"`
	CreditorSchemeID CreditorSchemeID  `xml:"CdtrSchmeId"`
	Transactions     []TransactionInfo `xml:"DrctDbtTxInf"`
}

type PaymentTypeInfo struct {
	ServiceLevel    Code         `xml:"SvcLvl"`
	LocalInstrument Code         `xml:"LclInstrm"`
	SequenceType    SequenceType `xml:"SeqTp"`
}

type Code struct {
	Code string `xml:"Cd"`
}

type Account struct {
	IBAN string `xml:"Id>IBAN"`
}

type Agent struct {
	BIC string `xml:"FinInstnId>BIC"`
}

type CreditorSchemeID struct {
	ID         string `xml:"Id>PrvtId>Othr>Id"`
	SchemeName string `xml:"Id>PrvtId>Othr>SchmeNm>Prtry"`
}

type TransactionInfo struct {
	EndToEndID    string      `xml:"PmtId>EndToEndId"`
	Amount        Amount      `xml:"InstdAmt"`
	Mandate       MandateInfo `xml:"DrctDbtTx>MndtRltdInf"`
	DebtorAgent   Agent       `xml:"DbtrAgt"`
	Debtor        Party       `xml:"Dbtr"`
	DebtorAccount Account     `xml:"DbtrAcct"`
	Remittance    *Remittance `xml:"RmtInf,omitempty"`
}

type Amount struct {
	Currency string `xml:"Ccy,attr"`
	Value    string `xml:",chardata"`
}

type MandateInfo struct {
	MandateID       string `xml:"MndtId"`
	DateOfSignature string `xml:"DtOfSgntr"`
	Amended         bool   `xml:"AmdmntInd"`
}

type Remittance struct {
	Unstructured string `xml:"Ustrd"`
}
