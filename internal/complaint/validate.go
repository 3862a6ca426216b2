package complaint

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar-date format used by every date field
const DateLayout = "2006-01-02"

// MinimumGapDays is the smallest accepted number of whole days between the
// transaction and the cause of action
const MinimumGapDays = 10

// Code identifies why a record was rejected
type Code string

const (
	DateOrderViolation     Code = "DateOrderViolation"
	MinimumGapViolation    Code = "MinimumGapViolation"
	MissingReliefSelection Code = "MissingReliefSelection"
	MissingField           Code = "MissingField"
	InvalidDate            Code = "InvalidDate"
	UnknownRelief          Code = "UnknownRelief"
)

// ValidationError is a user-correctable problem with the submitted form
type ValidationError struct {
	Code    Code
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DateCheck is the outcome of comparing the transaction and cause-of-action
// dates. Present is false when either date is missing.
type DateCheck struct {
	Present bool
	GapDays int
	Err     *ValidationError
}

// Message is the inline hint shown next to the date inputs
func (d DateCheck) Message() string {
	switch {
	case !d.Present:
		return ""
	case d.Err != nil && d.Err.Code == MinimumGapViolation:
		return fmt.Sprintf("Minimum %d days gap required. Current gap: %d days.", MinimumGapDays, d.GapDays)
	case d.Err != nil:
		return d.Err.Message
	default:
		return fmt.Sprintf("✓ Valid date range. Gap: %d days.", d.GapDays)
	}
}

// Validator checks submitted records. It is safe for concurrent use.
type Validator struct {
	structs *validator.Validate
}

// NewValidator creates a validator that reports fields by their JSON names
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{structs: v}
}

// CheckDates applies the ordering and minimum-gap rules. Both dates must be
// present for any rule to apply.
func CheckDates(transactionDate, causeOfActionDate string) DateCheck {
	if transactionDate == "" || causeOfActionDate == "" {
		return DateCheck{}
	}

	t, err := time.Parse(DateLayout, transactionDate)
	if err != nil {
		return DateCheck{Present: true, Err: &ValidationError{
			Code:    InvalidDate,
			Message: fmt.Sprintf("Date of Transaction %q is not a valid date.", transactionDate),
			Fields:  []string{"transactionDate"},
		}}
	}
	c, err := time.Parse(DateLayout, causeOfActionDate)
	if err != nil {
		return DateCheck{Present: true, Err: &ValidationError{
			Code:    InvalidDate,
			Message: fmt.Sprintf("Date of Cause of Action %q is not a valid date.", causeOfActionDate),
			Fields:  []string{"causeOfActionDate"},
		}}
	}

	if !t.Before(c) {
		return DateCheck{Present: true, Err: &ValidationError{
			Code:    DateOrderViolation,
			Message: "Date of Transaction must be earlier than Date of Cause of Action.",
			Fields:  []string{"transactionDate", "causeOfActionDate"},
		}}
	}

	// Both dates are UTC midnights, so the difference is a whole number of days
	gap := int(c.Sub(t).Hours() / 24)
	if gap < MinimumGapDays {
		return DateCheck{Present: true, GapDays: gap, Err: &ValidationError{
			Code:    MinimumGapViolation,
			Message: fmt.Sprintf("There must be a minimum %d days gap between the transaction date and cause of action date.", MinimumGapDays),
			Fields:  []string{"transactionDate", "causeOfActionDate"},
		}}
	}

	return DateCheck{Present: true, GapDays: gap}
}

// Validate runs every submission rule against r and returns the first
// failure as a *ValidationError, or nil together with the date check when
// the record may be rendered. Rule order: dates, relief selection,
// required fields.
func (v *Validator) Validate(r *Record) (DateCheck, error) {
	dates := CheckDates(r.TransactionDate, r.CauseOfActionDate)
	if dates.Err != nil {
		return dates, dates.Err
	}

	if len(r.ReliefKinds) == 0 {
		return dates, &ValidationError{
			Code:    MissingReliefSelection,
			Message: "Please select at least one type of relief.",
			Fields:  []string{"reliefKinds"},
		}
	}
	for _, k := range r.ReliefKinds {
		if !k.Valid() {
			return dates, &ValidationError{
				Code:    UnknownRelief,
				Message: fmt.Sprintf("Unknown relief type %q.", k),
				Fields:  []string{"reliefKinds"},
			}
		}
	}

	if err := v.structs.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return dates, fmt.Errorf("validate record: %w", err)
		}
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Field())
		}
		return dates, &ValidationError{
			Code:    MissingField,
			Message: "Please fill in all required fields: " + strings.Join(fields, ", "),
			Fields:  fields,
		}
	}

	if r.DeclarationDate != "" {
		if _, err := time.Parse(DateLayout, r.DeclarationDate); err != nil {
			return dates, &ValidationError{
				Code:    InvalidDate,
				Message: fmt.Sprintf("Declaration date %q is not a valid date.", r.DeclarationDate),
				Fields:  []string{"declarationDate"},
			}
		}
	}

	return dates, nil
}
