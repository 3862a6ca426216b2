// Package complaint holds the complaint form model together with the pure
// rules applied to it: field validation and forum classification.
package complaint

import (
	"strings"
)

// ReliefKind is one remedy category the complainant asks for
type ReliefKind string

const (
	ReliefReplacement      ReliefKind = "replacement"
	ReliefRefund           ReliefKind = "refund"
	ReliefReturnWithRefund ReliefKind = "return_with_refund"
	ReliefCompensation     ReliefKind = "compensation"
)

// ReliefKinds lists every accepted relief tag in display order
var ReliefKinds = []ReliefKind{
	ReliefReplacement,
	ReliefRefund,
	ReliefReturnWithRefund,
	ReliefCompensation,
}

// Label is the wording used in the generated complaint
func (k ReliefKind) Label() string {
	switch k {
	case ReliefReplacement:
		return "Replacement of the product/service"
	case ReliefRefund:
		return "Refund of the amount paid"
	case ReliefReturnWithRefund:
		return "Return of the product with refund of the amount paid"
	case ReliefCompensation:
		return "Compensation for inconvenience, mental agony and loss"
	default:
		return string(k)
	}
}

// Valid reports whether k is one of the known relief tags
func (k ReliefKind) Valid() bool {
	for _, known := range ReliefKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Record is the complaint form as submitted by the user. Dates are
// YYYY-MM-DD strings and amounts are free text; both are parsed on demand.
type Record struct {
	// Complainant
	ComplainantName    string `json:"complainantName" validate:"required"`
	ComplainantAddress string `json:"complainantAddress" validate:"required"`
	ComplainantPhone   string `json:"complainantPhone" validate:"required"`
	ComplainantEmail   string `json:"complainantEmail" validate:"required"`

	// Opposite party
	OppositePartyName    string `json:"oppositePartyName" validate:"required"`
	OppositePartyAddress string `json:"oppositePartyAddress" validate:"required"`
	OppositePartyContact string `json:"oppositePartyContact"`

	// Transaction
	ProductDescription string `json:"productDescription" validate:"required"`
	TransactionDate    string `json:"transactionDate" validate:"required"`
	TransactionPlace   string `json:"transactionPlace" validate:"required"`
	AmountPaid         string `json:"amountPaid" validate:"required"`
	PaymentMode        string `json:"paymentMode" validate:"required"`
	TotalValue         string `json:"totalValue" validate:"required"`

	// Dispute
	IssueDescription      string `json:"issueDescription" validate:"required"`
	CommunicationAttempts string `json:"communicationAttempts" validate:"required"`
	SupportingDocuments   string `json:"supportingDocuments" validate:"required"`

	// Cause of action
	CauseOfActionDate  string `json:"causeOfActionDate" validate:"required"`
	CauseOfActionPlace string `json:"causeOfActionPlace" validate:"required"`

	// Filing location
	District    string `json:"district" validate:"required"`
	State       string `json:"state" validate:"required"`
	FilingPlace string `json:"filingPlace" validate:"required"`

	// Relief
	ReliefKinds        []ReliefKind `json:"reliefKinds"`
	ReliefAmount       string       `json:"reliefAmount" validate:"required"`
	CompensationAmount string       `json:"compensationAmount"`

	// Declaration
	DeclarationDate  string `json:"declarationDate" validate:"required"`
	DeclarationPlace string `json:"declarationPlace" validate:"required"`

	// Deprecated inputs from older form revisions. Normalize folds them into
	// the canonical fields above.
	RefundAmount string `json:"refundAmount,omitempty"`
	ReliefType   string `json:"reliefType,omitempty"`
}

// Normalize trims every text field and maps deprecated inputs onto the
// canonical schema: refundAmount fills an empty reliefAmount and the old
// single-select reliefType is merged into reliefKinds.
func (r *Record) Normalize() {
	for _, f := range r.textFields() {
		*f = strings.TrimSpace(*f)
	}

	if r.ReliefAmount == "" && r.RefundAmount != "" {
		r.ReliefAmount = r.RefundAmount
	}
	r.RefundAmount = ""

	switch strings.ToLower(r.ReliefType) {
	case "":
	case "compensation_only":
		r.addRelief(ReliefCompensation)
	case "multiple":
		for _, k := range ReliefKinds {
			r.addRelief(k)
		}
	default:
		r.addRelief(ReliefKind(strings.ToLower(r.ReliefType)))
	}
	r.ReliefType = ""

	seen := make(map[ReliefKind]bool, len(r.ReliefKinds))
	kinds := r.ReliefKinds[:0]
	for _, k := range r.ReliefKinds {
		k = ReliefKind(strings.ToLower(strings.TrimSpace(string(k))))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	r.ReliefKinds = kinds
}

// HasRelief reports whether the given relief kind was selected
func (r *Record) HasRelief(kind ReliefKind) bool {
	for _, k := range r.ReliefKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ClaimValue parses TotalValue; see ParseClaimValue
func (r *Record) ClaimValue() float64 {
	return ParseClaimValue(r.TotalValue)
}

func (r *Record) addRelief(kind ReliefKind) {
	if !r.HasRelief(kind) {
		r.ReliefKinds = append(r.ReliefKinds, kind)
	}
}

func (r *Record) textFields() []*string {
	return []*string{
		&r.ComplainantName, &r.ComplainantAddress, &r.ComplainantPhone, &r.ComplainantEmail,
		&r.OppositePartyName, &r.OppositePartyAddress, &r.OppositePartyContact,
		&r.ProductDescription, &r.TransactionDate, &r.TransactionPlace, &r.AmountPaid,
		&r.PaymentMode, &r.TotalValue,
		&r.IssueDescription, &r.CommunicationAttempts, &r.SupportingDocuments,
		&r.CauseOfActionDate, &r.CauseOfActionPlace,
		&r.District, &r.State, &r.FilingPlace,
		&r.ReliefAmount, &r.CompensationAmount,
		&r.DeclarationDate, &r.DeclarationPlace,
		&r.RefundAmount, &r.ReliefType,
	}
}
