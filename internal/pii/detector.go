// Package pii classifies columns as personally identifiable information
// using two signals: the column name against a category keyword table, and
// sampled values against per-category patterns. The detector is deliberately
// conservative: for audit purposes a missed PII column is worse than a false
// flag, so a name-keyword match outranks a pure value-pattern guess.
package pii

import (
	"regexp"
	"sort"
	"strings"
)

// Category is a PII classification. CategoryNone carries confidence 0.
type Category string

const (
	CategoryEmail         Category = "email"
	CategoryPhone         Category = "phone"
	CategorySSN           Category = "ssn"
	CategoryCreditCard    Category = "credit-card"
	CategoryName          Category = "name"
	CategoryAddress       Category = "address"
	CategoryDateOfBirth   Category = "date-of-birth"
	CategoryDriverLicense Category = "driver-license"
	CategoryPassport      Category = "passport"
	CategoryHealthID      Category = "health-id"
	CategoryMedicalRecord Category = "medical-record"
	CategoryNone          Category = "none"
)

// Finding is the detector's verdict for one column. Confidence is in [0,1].
type Finding struct {
	ColumnName string   `json:"column_name"`
	Category   Category `json:"pii_category"`
	Confidence float64  `json:"confidence"`
}

const (
	// DefaultThreshold is the confidence at or above which a column is
	// acted upon as PII. Findings below it are kept as evidence only.
	DefaultThreshold = 0.7

	// nameOnlyConfidence applies when only the column name matches.
	nameOnlyConfidence = 0.6
	// valueOnlyConfidence applies when only sampled values match.
	valueOnlyConfidence = 0.5
	// combinedConfidence applies when both signals agree.
	combinedConfidence = 0.95

	// valueHitShare is the fraction of non-null sampled values that must
	// match a category pattern for the value signal to fire.
	valueHitShare = 0.5
)

// categoryKeywords is ordered; earlier categories win confidence ties.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryEmail, []string{"email", "mail"}},
	{CategorySSN, []string{"ssn", "social_security", "socialsecurity"}},
	{CategoryCreditCard, []string{"credit_card", "card_number", "cardnum", "ccnum"}},
	{CategoryPhone, []string{"phone", "mobile", "telephone"}},
	{CategoryDateOfBirth, []string{"dob", "date_of_birth", "birth_date", "birthdate"}},
	{CategoryDriverLicense, []string{"driver_license", "drivers_license", "license_number"}},
	{CategoryPassport, []string{"passport"}},
	{CategoryHealthID, []string{"health_id", "insurance_id", "member_id"}},
	{CategoryMedicalRecord, []string{"medical_record", "mrn", "patient_id"}},
	{CategoryAddress, []string{"address", "street", "zipcode", "postal"}},
	{CategoryName, []string{"first_name", "last_name", "full_name", "surname"}},
}

var valuePatterns = map[Category]*regexp.Regexp{
	CategoryEmail:       regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`),
	CategorySSN:         regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`),
	CategoryCreditCard:  regexp.MustCompile(`^\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}$`),
	CategoryPhone:       regexp.MustCompile(`^\+?\d{0,2}[-. (]*\d{3}[-. )]*\d{3}[-. ]*\d{4}$`),
	CategoryDateOfBirth: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
}

// Detector combines the name and value signals into one confidence per
// column. Threshold controls when a finding is acted upon.
type Detector struct {
	Threshold float64
}

// NewDetector returns a detector with the given threshold, or the default
// when threshold is out of range.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Detector{Threshold: threshold}
}

// Detect evaluates every category against the column name and sampled values
// and returns the highest-confidence finding. Ties prefer categories whose
// name keyword matched, then declaration order. A column with no signal is
// CategoryNone with confidence 0.
func (d *Detector) Detect(columnName string, values []string) Finding {
	lowered := strings.ToLower(strings.TrimSpace(columnName))

	best := Finding{ColumnName: columnName, Category: CategoryNone, Confidence: 0}
	bestHasNameMatch := false

	for _, entry := range categoryKeywords {
		nameMatch := false
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				nameMatch = true
				break
			}
		}
		valueMatch := matchesValues(entry.category, values)

		var confidence float64
		switch {
		case nameMatch && valueMatch:
			confidence = combinedConfidence
		case nameMatch:
			confidence = nameOnlyConfidence
		case valueMatch:
			confidence = valueOnlyConfidence
		default:
			continue
		}

		if confidence > best.Confidence || (confidence == best.Confidence && nameMatch && !bestHasNameMatch) {
			best.Category = entry.category
			best.Confidence = confidence
			bestHasNameMatch = nameMatch
		}
	}

	return best
}

// IsPII reports whether the finding meets the detector's threshold.
func (d *Detector) IsPII(f Finding) bool {
	return f.Category != CategoryNone && f.Confidence >= d.Threshold
}

// DetectAll runs Detect over a set of columns keyed by name. Findings come
// back in column-name order so repeated runs produce identical output.
func (d *Detector) DetectAll(columns map[string][]string) []Finding {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	findings := make([]Finding, 0, len(names))
	for _, name := range names {
		findings = append(findings, d.Detect(name, columns[name]))
	}
	return findings
}

func matchesValues(category Category, values []string) bool {
	pattern, ok := valuePatterns[category]
	if !ok {
		return false
	}
	var total, hits int
	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		total++
		if pattern.MatchString(v) {
			hits++
		}
	}
	if total == 0 {
		return false
	}
	return float64(hits)/float64(total) >= valueHitShare
}
