// Package document turns a complaint into a print-ready PDF. Content is
// built as a small tree, rendered to HTML, rasterized by a swappable
// backend and sliced into A4 pages.
package document

import (
	"fmt"
	"strings"

	"github.com/JustJay7/consumer-complaint-assistant/internal/complaint"
)

// Field is a labelled value in a party or signature block
type Field struct {
	Label string
	Value string
}

// Party is one side of the dispute
type Party struct {
	Role   string
	Fields []Field
}

// Paragraph is a run of text, optionally introduced by a bold label
type Paragraph struct {
	Label string
	Text  string
}

// Section is a numbered part of the complaint body
type Section struct {
	Number     int
	Title      string
	Paragraphs []Paragraph
	Bullets    []string
	StartsPage bool
}

// Content is the full document tree
type Content struct {
	Forum       string
	Commission  string
	Location    string
	Title       string
	Complainant Party
	Opposite    Party
	Sections    []Section
	Signature   []Field
}

// Build lays out the complaint for the given forum tier
func Build(r *complaint.Record, tier complaint.ForumTier) *Content {
	c := &Content{
		Forum:      fmt.Sprintf("BEFORE THE %s CONSUMER DISPUTES REDRESSAL COMMISSION", tier.Keyword()),
		Commission: tier.Commission(),
		Location:   joinNonEmpty(", ", r.District, r.State),
		Title:      "COMPLAINT UNDER SECTION 35 OF THE CONSUMER PROTECTION ACT, 2019",
		Complainant: Party{
			Role: "Complainant",
			Fields: []Field{
				{"Name", r.ComplainantName},
				{"Address", r.ComplainantAddress},
				{"Phone Number", r.ComplainantPhone},
				{"Email", r.ComplainantEmail},
			},
		},
		Opposite: Party{
			Role: "Opposite Party",
			Fields: []Field{
				{"Name", r.OppositePartyName},
				{"Address", r.OppositePartyAddress},
				{"Phone/Email", orDash(r.OppositePartyContact)},
			},
		},
		Signature: []Field{
			{"Date", r.DeclarationDate},
			{"Place", r.DeclarationPlace},
		},
	}

	c.Sections = []Section{
		{
			Number: 1,
			Title:  "Jurisdiction",
			Paragraphs: []Paragraph{{Text: fmt.Sprintf(
				"The complainant submits that this Hon'ble Commission has territorial jurisdiction to entertain "+
					"the present complaint as the cause of action arose at %s, within its jurisdiction, and/or the "+
					"opposite party resides or carries on business within this jurisdiction. The complaint is filed at %s. "+
					"The pecuniary jurisdiction is also established as the value of the goods/services and compensation "+
					"claimed is ₹%s, which lies within the limits of the %s (%s).",
				orDash(r.CauseOfActionPlace), orDash(r.FilingPlace), r.TotalValue, tier.Label(), tier.ValueRange(),
			)}},
		},
		{
			Number: 2,
			Title:  "Facts of the Case",
			Paragraphs: []Paragraph{
				{Text: "The complainant purchased/availed the following product/service:"},
				{Label: "Product/Service Description", Text: r.ProductDescription},
				{Label: "Date of transaction", Text: r.TransactionDate},
				{Label: "Place of transaction", Text: r.TransactionPlace},
				{Label: "Amount paid", Text: "₹" + r.AmountPaid},
				{Label: "Mode of payment", Text: r.PaymentMode},
				{Text: "The complainant experienced the following issue:"},
				{Text: r.IssueDescription},
				{Text: "Despite repeated attempts, the opposite party failed to resolve the issue:"},
				{Text: r.CommunicationAttempts},
				{Text: "The complainant has attached the following documents in support:"},
				{Text: r.SupportingDocuments},
			},
		},
		{
			Number:     3,
			Title:      "Cause of Action",
			StartsPage: true,
			Paragraphs: []Paragraph{{Text: fmt.Sprintf(
				"The cause of action arose on %s at %s, when the product/service was found to be defective/deficient "+
					"and the opposite party failed to respond or rectify the issue, leading to inconvenience, "+
					"financial loss, and mental harassment.",
				r.CauseOfActionDate, orDash(r.CauseOfActionPlace),
			)}},
		},
		{
			Number:     4,
			Title:      "Reliefs Sought",
			Paragraphs: []Paragraph{{Text: "The complainant prays for the following reliefs:"}},
			Bullets:    reliefBullets(r),
		},
		{
			Number: 5,
			Title:  "Declaration and Verification",
			Paragraphs: []Paragraph{{Text: fmt.Sprintf(
				"I, %s, the complainant herein, do hereby declare that the facts stated above are true to the best "+
					"of my knowledge and belief, and no part of it is false or concealed.",
				r.ComplainantName,
			)}},
		},
	}

	return c
}

func reliefBullets(r *complaint.Record) []string {
	bullets := make([]string, 0, len(r.ReliefKinds)+2)
	for _, k := range complaint.ReliefKinds {
		if !r.HasRelief(k) {
			continue
		}
		switch k {
		case complaint.ReliefReplacement:
			bullets = append(bullets, fmt.Sprintf("Replacement of the product/service (value ₹%s)", r.ReliefAmount))
		case complaint.ReliefRefund:
			bullets = append(bullets, fmt.Sprintf("Refund of ₹%s", r.ReliefAmount))
		case complaint.ReliefReturnWithRefund:
			bullets = append(bullets, fmt.Sprintf("Return of the product with refund of ₹%s", r.ReliefAmount))
		case complaint.ReliefCompensation:
			amount := r.CompensationAmount
			if amount == "" {
				amount = r.ReliefAmount
			}
			bullets = append(bullets, fmt.Sprintf("Compensation of ₹%s for inconvenience, mental agony, and loss", amount))
		}
	}
	if r.CompensationAmount != "" && !r.HasRelief(complaint.ReliefCompensation) {
		bullets = append(bullets, fmt.Sprintf("Additional compensation of ₹%s for inconvenience and mental harassment", r.CompensationAmount))
	}
	return append(bullets, "Any other relief deemed just and proper by this Hon'ble Commission.")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
