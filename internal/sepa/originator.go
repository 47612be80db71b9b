package sepa

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

// SequenceType tells whether a debit is the first, a recurring, a one-off or
// the final one of a mandate.
type SequenceType string

const (
	SequenceFirst     SequenceType = "FRST"
	SequenceRecurring SequenceType = "RCUR"
	SequenceOneOff    SequenceType = "OOFF"
	SequenceFinal     SequenceType = "FNAL"
)

func SequenceTypes() []SequenceType {
	return []SequenceType{SequenceFirst, SequenceRecurring, SequenceOneOff, SequenceFinal}
}

// ParseSequenceType accepts the codes case insensitively.
func ParseSequenceType(s string) (SequenceType, error) {
	for _, seq := range SequenceTypes() {
		if strings.EqualFold(string(seq), strings.TrimSpace(s)) {
			return seq, nil
		}
	}
	return "", fmt.Errorf("unknown sequence type %q (want one of FRST, RCUR, OOFF, FNAL)", s)
}

// Originator is the creditor collecting the contributions.
type Originator struct {
	Creator    string `mapstructure:"creator"`
	MsgID      string `mapstructure:"msg_id"`
	Creditor   string `mapstructure:"creditor"`
	IBAN       string `mapstructure:"iban"`
	BIC        string `mapstructure:"bic"`
	CreditorID string `mapstructure:"creditor_id"`
	PmtInfID   string `mapstructure:"pmt_inf_id"`
	// ExecutionDate is the requested collection date, formatted YYYY-MM-DD.
	ExecutionDate string `mapstructure:"execution_date"`
	Purpose       string `mapstructure:"purpose"`
}

// Execution parses the requested collection date.
func (o Originator) Execution() (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(o.ExecutionDate))
	if err != nil {
		return civil.Date{}, fmt.Errorf("failed to parse execution date %q: %w", o.ExecutionDate, err)
	}
	return d, nil
}

// Validate reports every field which would not fit into a pain.008.003.02 file.
// Empty MsgID and PmtInfID are allowed since they are generated.
func (o Originator) Validate() error {
	var errs []error
	name := func(field, value string) {
		switch {
		case strings.TrimSpace(value) == "":
			errs = append(errs, fmt.Errorf("%s is missing", field))
		case utf8.RuneCountInString(value) > MaxNameLength:
			errs = append(errs, fmt.Errorf("%s is longer than %d characters", field, MaxNameLength))
		}
	}
	name("creator", o.Creator)
	name("creditor", o.Creditor)

	if o.MsgID != "" && !IsValidMessageID(o.MsgID) {
		errs = append(errs, fmt.Errorf("message id %q is invalid", o.MsgID))
	}
	if o.PmtInfID != "" && !IsValidMessageID(o.PmtInfID) {
		errs = append(errs, fmt.Errorf("payment information id %q is invalid", o.PmtInfID))
	}
	if !IsValidIBAN(o.IBAN) {
		errs = append(errs, fmt.Errorf("iban %q is invalid", o.IBAN))
	}
	if !IsValidBIC(NormalizeBIC(o.BIC)) {
		errs = append(errs, fmt.Errorf("bic %q is invalid", o.BIC))
	}
	if !IsValidCreditorID(o.CreditorID) {
		errs = append(errs, fmt.Errorf("creditor id %q is invalid", o.CreditorID))
	}
	if _, err := o.Execution(); err != nil {
		errs = append(errs, err)
	}
	if utf8.RuneCountInString(o.Purpose) > MaxPurposeLength {
		errs = append(errs, fmt.Errorf("purpose is longer than %d characters", MaxPurposeLength))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid originator: %w", errors.Join(errs...))
	}
	return nil
}

// messageID returns the configured MsgID or a random one.
func (o Originator) messageID() string {
	if o.MsgID != "" {
		return o.MsgID
	}
	return randomID()
}

func (o Originator) paymentInformationID() string {
	if o.PmtInfID != "" {
		return o.PmtInfID
	}
	return randomID()
}

// randomID returns a 32 character hex id.
func randomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
