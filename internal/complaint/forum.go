package complaint

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Pecuniary limits in rupees. These are fixed by the Consumer Protection
// Act, 2019 and are not configurable.
const (
	LocalLimit    = 10_000_000
	RegionalLimit = 100_000_000
)

// ForumTier is the consumer commission level that hears a complaint
type ForumTier int

const (
	Local ForumTier = iota
	Regional
	Apex
)

// ForumTiers lists the tiers from lowest to highest
var ForumTiers = []ForumTier{Local, Regional, Apex}

type tierInfo struct {
	label       string
	keyword     string
	commission  string
	bracket     string
	valueRange  string
	description string
	features    []string
}

var tiers = map[ForumTier]tierInfo{
	Local: {
		label:       "District Forum",
		keyword:     "DISTRICT",
		commission:  "DISTRICT COMMISSION",
		bracket:     "District Forum (≤₹1Cr)",
		valueRange:  "Up to ₹1 Crore",
		description: "Handles complaints for goods and services valued up to ₹1 crore. Most common complaints are filed here.",
		features:    []string{"Local jurisdiction", "Faster resolution", "Lower fees", "Accessible location"},
	},
	Regional: {
		label:       "State Commission",
		keyword:     "STATE",
		commission:  "STATE COMMISSION",
		bracket:     "State Commission (₹1-10Cr)",
		valueRange:  "₹1 - ₹10 Crore",
		description: "Appeals from District Forums and original complaints between ₹1-10 crore are handled here.",
		features:    []string{"State-level authority", "Appellate jurisdiction", "Higher compensation", "Expert panels"},
	},
	Apex: {
		label:       "National Commission",
		keyword:     "NATIONAL",
		commission:  "NATIONAL COMMISSION",
		bracket:     "National Commission (>₹10Cr)",
		valueRange:  "Above ₹10 Crore",
		description: "Highest consumer forum handling high-value complaints and appeals from State Commissions.",
		features:    []string{"Supreme authority", "Pan-India jurisdiction", "Complex cases", "Final appellate court"},
	},
}

// Label is the human-readable forum name, also stored on download records
func (t ForumTier) Label() string { return tiers[t].label }

// Keyword is the upper-case word used in the document caption
func (t ForumTier) Keyword() string { return tiers[t].keyword }

// Commission is the commission title printed under the caption
func (t ForumTier) Commission() string { return tiers[t].commission }

// Bracket is the analytics value-range label for this tier
func (t ForumTier) Bracket() string { return tiers[t].bracket }

// ValueRange describes the pecuniary range heard by this tier
func (t ForumTier) ValueRange() string { return tiers[t].valueRange }

// Description is a short explanation of what the tier handles
func (t ForumTier) Description() string { return tiers[t].description }

// Features lists the tier's distinguishing traits
func (t ForumTier) Features() []string {
	return append([]string(nil), tiers[t].features...)
}

func (t ForumTier) String() string {
	switch t {
	case Local:
		return "local"
	case Regional:
		return "regional"
	case Apex:
		return "apex"
	default:
		return "unknown"
	}
}

// ParseClaimValue strips everything except digits and dots from s and
// parses what is left. Unparseable input yields 0 rather than an error.
func ParseClaimValue(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0
	}

	v, err := parseFloat(cleaned)
	if err != nil {
		// "1.2.3" style input: keep the longest parseable prefix
		if i := strings.IndexByte(cleaned, '.'); i >= 0 {
			if j := strings.IndexByte(cleaned[i+1:], '.'); j >= 0 {
				v, err = parseFloat(cleaned[:i+1+j])
			}
		}
		if err != nil {
			return 0
		}
	}
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// parseFloat treats overflow as the largest finite value so oversized
// claims still land in the top tier and stay JSON encodable
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) {
		if math.IsInf(v, 1) {
			return math.MaxFloat64, nil
		}
		return v, nil
	}
	return v, err
}

// Classify maps a claim value to its forum tier. NaN falls into Local.
func Classify(value float64) ForumTier {
	switch {
	case math.IsNaN(value) || value <= LocalLimit:
		return Local
	case value <= RegionalLimit:
		return Regional
	default:
		return Apex
	}
}

// ClassifyText parses and classifies a raw claim value string
func ClassifyText(s string) ForumTier {
	return Classify(ParseClaimValue(s))
}
