package complaint

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *Record {
	return &Record{
		ComplainantName:       "Asha Verma",
		ComplainantAddress:    "12 MG Road, Pune",
		ComplainantPhone:      "9800000000",
		ComplainantEmail:      "asha@example.com",
		OppositePartyName:     "Acme Appliances Pvt Ltd",
		OppositePartyAddress:  "Plot 4, MIDC, Pune",
		ProductDescription:    "Front-load washing machine",
		TransactionDate:       "2024-06-01",
		TransactionPlace:      "Pune",
		AmountPaid:            "45,000",
		PaymentMode:           "UPI",
		TotalValue:            "₹60,000",
		IssueDescription:      "Drum stopped spinning within a week",
		CommunicationAttempts: "Three emails and two service visits",
		SupportingDocuments:   "Invoice, warranty card, emails",
		CauseOfActionDate:     "2024-06-15",
		CauseOfActionPlace:    "Pune",
		District:              "Pune",
		State:                 "Maharashtra",
		FilingPlace:           "Pune",
		ReliefKinds:           []ReliefKind{ReliefRefund, ReliefCompensation},
		ReliefAmount:          "45000",
		CompensationAmount:    "15000",
		DeclarationDate:       "2024-07-01",
		DeclarationPlace:      "Pune",
	}
}

func TestCheckDates(t *testing.T) {
	tests := []struct {
		name     string
		tx, coa  string
		wantCode Code
		wantGap  int
		present  bool
	}{
		{name: "same day", tx: "2024-06-10", coa: "2024-06-10", wantCode: DateOrderViolation, present: true},
		{name: "transaction after cause", tx: "2024-06-20", coa: "2024-06-10", wantCode: DateOrderViolation, present: true},
		{name: "four day gap", tx: "2024-06-01", coa: "2024-06-05", wantCode: MinimumGapViolation, wantGap: 4, present: true},
		{name: "nine day gap", tx: "2024-06-01", coa: "2024-06-10", wantCode: MinimumGapViolation, wantGap: 9, present: true},
		{name: "exactly ten days", tx: "2024-06-01", coa: "2024-06-11", wantGap: 10, present: true},
		{name: "fourteen days", tx: "2024-06-01", coa: "2024-06-15", wantGap: 14, present: true},
		{name: "across leap day", tx: "2024-02-20", coa: "2024-03-01", wantGap: 10, present: true},
		{name: "missing transaction", tx: "", coa: "2024-06-15"},
		{name: "missing cause", tx: "2024-06-01", coa: ""},
		{name: "malformed", tx: "01/06/2024", coa: "2024-06-15", wantCode: InvalidDate, present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckDates(tt.tx, tt.coa)
			assert.Equal(t, tt.present, got.Present)
			assert.Equal(t, tt.wantGap, got.GapDays)
			if tt.wantCode == "" {
				assert.Nil(t, got.Err)
				return
			}
			require.NotNil(t, got.Err)
			assert.Equal(t, tt.wantCode, got.Err.Code)
		})
	}
}

func TestCheckDatesOrderingProperty(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for offset := -15; offset <= 30; offset++ {
		tx := base.Format(DateLayout)
		coa := base.AddDate(0, 0, offset).Format(DateLayout)
		got := CheckDates(tx, coa)
		require.True(t, got.Present)

		switch {
		case offset <= 0:
			require.NotNil(t, got.Err, "offset %d", offset)
			assert.Equal(t, DateOrderViolation, got.Err.Code)
		case offset < MinimumGapDays:
			require.NotNil(t, got.Err, "offset %d", offset)
			assert.Equal(t, MinimumGapViolation, got.Err.Code)
			assert.Equal(t, offset, got.GapDays)
		default:
			assert.Nil(t, got.Err, "offset %d", offset)
			assert.Equal(t, offset, got.GapDays)
		}
	}
}

func TestDateCheckMessage(t *testing.T) {
	assert.Equal(t, "✓ Valid date range. Gap: 14 days.", CheckDates("2024-06-01", "2024-06-15").Message())
	assert.Equal(t, "Minimum 10 days gap required. Current gap: 4 days.", CheckDates("2024-06-01", "2024-06-05").Message())
	assert.Equal(t, "Date of Transaction must be earlier than Date of Cause of Action.", CheckDates("2024-06-10", "2024-06-10").Message())
	assert.Empty(t, CheckDates("", "").Message())
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	t.Run("valid record", func(t *testing.T) {
		dates, err := v.Validate(validRecord())
		require.NoError(t, err)
		assert.Equal(t, 14, dates.GapDays)
	})

	t.Run("empty relief selection", func(t *testing.T) {
		r := validRecord()
		r.ReliefKinds = nil
		_, err := v.Validate(r)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, MissingReliefSelection, ve.Code)
	})

	t.Run("empty relief selection with other fields missing", func(t *testing.T) {
		r := validRecord()
		r.ReliefKinds = nil
		r.ComplainantName = ""
		r.State = ""
		_, err := v.Validate(r)
		assert.True(t, IsValidationError(err))
	})

	t.Run("unknown relief", func(t *testing.T) {
		r := validRecord()
		r.ReliefKinds = []ReliefKind{"apology"}
		_, err := v.Validate(r)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, UnknownRelief, ve.Code)
	})

	t.Run("missing required fields", func(t *testing.T) {
		r := validRecord()
		r.ComplainantEmail = ""
		r.FilingPlace = ""
		_, err := v.Validate(r)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, MissingField, ve.Code)
		assert.ElementsMatch(t, []string{"complainantEmail", "filingPlace"}, ve.Fields)
	})

	t.Run("optional fields may be blank", func(t *testing.T) {
		r := validRecord()
		r.OppositePartyContact = ""
		r.CompensationAmount = ""
		_, err := v.Validate(r)
		assert.NoError(t, err)
	})

	t.Run("date rule wins over missing fields", func(t *testing.T) {
		r := validRecord()
		r.CauseOfActionDate = "2024-06-05"
		r.District = ""
		_, err := v.Validate(r)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, MinimumGapViolation, ve.Code)
	})

	t.Run("bad declaration date", func(t *testing.T) {
		r := validRecord()
		r.DeclarationDate = "tomorrow"
		_, err := v.Validate(r)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, InvalidDate, ve.Code)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("deprecated refund amount", func(t *testing.T) {
		r := &Record{RefundAmount: " 5000 "}
		r.Normalize()
		assert.Equal(t, "5000", r.ReliefAmount)
		assert.Empty(t, r.RefundAmount)
	})

	t.Run("canonical relief amount wins", func(t *testing.T) {
		r := &Record{ReliefAmount: "7000", RefundAmount: "5000"}
		r.Normalize()
		assert.Equal(t, "7000", r.ReliefAmount)
	})

	t.Run("single relief type", func(t *testing.T) {
		r := &Record{ReliefType: "compensation_only"}
		r.Normalize()
		assert.Equal(t, []ReliefKind{ReliefCompensation}, r.ReliefKinds)
	})

	t.Run("multiple relief type", func(t *testing.T) {
		r := &Record{ReliefType: "multiple", ReliefKinds: []ReliefKind{ReliefRefund}}
		r.Normalize()
		assert.ElementsMatch(t, ReliefKinds, r.ReliefKinds)
		assert.Len(t, r.ReliefKinds, len(ReliefKinds))
	})

	t.Run("dedupes and lowercases kinds", func(t *testing.T) {
		r := &Record{ReliefKinds: []ReliefKind{"Refund", "refund", " ", "replacement"}}
		r.Normalize()
		assert.Equal(t, []ReliefKind{ReliefRefund, ReliefReplacement}, r.ReliefKinds)
	})
}

func TestParseClaimValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"50000", 50000},
		{"₹1,00,00,000", 10_000_000},
		{"Rs 2500.50", 2500.50},
		{"Rs. 2500", 0.25},
		{"1.2.3", 1.2},
		{"", 0},
		{"not a number", 0},
		{".", 0},
		{"-500", 500},
		{"1" + strings.Repeat("0", 400), math.MaxFloat64},
		{"0." + strings.Repeat("0", 400) + "1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseClaimValue(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		value float64
		want  ForumTier
	}{
		{0, Local},
		{50_000, Local},
		{10_000_000, Local},
		{10_000_001, Regional},
		{100_000_000, Regional},
		{100_000_001, Apex},
		{math.NaN(), Local},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.value), "value %v", tt.value)
	}
}

func TestClassifyMonotonic(t *testing.T) {
	prev := Local
	for v := 0.0; v <= 2e8; v += 2.5e6 {
		got := Classify(v)
		assert.GreaterOrEqual(t, int(got), int(prev), "value %v", v)
		prev = got
	}
	assert.Equal(t, Apex, prev)
}

func TestClassifyText(t *testing.T) {
	assert.Equal(t, Local, ClassifyText("garbage"))
	assert.Equal(t, Regional, ClassifyText("₹5,00,00,000"))
	assert.Equal(t, "State Commission", ClassifyText("50000000").Label())
	assert.Equal(t, "NATIONAL", ClassifyText("200000000").Keyword())
	assert.Equal(t, Apex, ClassifyText("₹1"+strings.Repeat("0", 400)))
}
