// Package inference assigns a semantic type to a column from a sample of raw
// string values. It is used by the connector variants whose sources carry no
// native typing (delimited files) and by the local profiler.
package inference

import (
	"regexp"
	"strings"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

var (
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	floatPattern   = regexp.MustCompile(`^[+-]?\d+\.\d+$`)

	// Ordered: the first matching pattern decides whether a value is
	// date-like, so declaration order is the tie-break.
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),   // YYYY-MM-DD
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),   // MM/DD/YYYY
		regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`),   // DD-MM-YYYY
		regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),   // YYYY/MM/DD
	}
)

const (
	// dominance is the share of non-null values a category must reach to
	// claim the column.
	dominance = 0.8
	// floatShare is the share of numeric matches that must be float-shaped
	// before a numeric column is classified float rather than integer.
	floatShare = 0.1
)

// Classify infers a column type from raw values. Null, empty, and
// whitespace-only values are ignored; a column with no usable values is a
// string column.
//
// Categories are tested in priority order: boolean, date, then numeric.
// A category wins at >= 80% of non-null values; within the numeric bucket,
// float wins when more than 10% of the numeric matches are float-shaped.
// Anything below dominance falls through to string.
func Classify(values []string) catalog.ColumnType {
	var total, boolCount, intCount, floatCount, dateCount int

	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		total++

		switch strings.ToLower(v) {
		case "true", "false":
			boolCount++
			continue
		}
		if matchesDate(v) {
			dateCount++
			continue
		}
		if integerPattern.MatchString(v) {
			intCount++
			continue
		}
		if floatPattern.MatchString(v) {
			floatCount++
		}
	}

	if total == 0 {
		return catalog.TypeString
	}

	n := float64(total)
	if float64(boolCount)/n >= dominance {
		return catalog.TypeBoolean
	}
	if float64(dateCount)/n >= dominance {
		return catalog.TypeDate
	}
	numeric := intCount + floatCount
	if float64(numeric)/n >= dominance {
		if float64(floatCount)/float64(numeric) > floatShare {
			return catalog.TypeFloat
		}
		return catalog.TypeInteger
	}
	return catalog.TypeString
}

func matchesDate(v string) bool {
	for _, p := range datePatterns {
		if p.MatchString(v) {
			return true
		}
	}
	return false
}
