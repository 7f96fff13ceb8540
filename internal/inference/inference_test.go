package inference

import (
	"testing"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

func TestClassify_EmptyInput(t *testing.T) {
	if got := Classify(nil); got != catalog.TypeString {
		t.Fatalf("Classify(nil) = %s, want %s", got, catalog.TypeString)
	}
	if got := Classify([]string{"", "  ", ""}); got != catalog.TypeString {
		t.Fatalf("Classify(blank) = %s, want %s", got, catalog.TypeString)
	}
}

func TestClassify_BooleanDominance(t *testing.T) {
	// Exactly 80% boolean: 4 of 5.
	values := []string{"true", "false", "TRUE", "False", "yes"}
	if got := Classify(values); got != catalog.TypeBoolean {
		t.Fatalf("Classify = %s, want %s", got, catalog.TypeBoolean)
	}

	// Just below 80%: 3 of 4.
	values = []string{"true", "false", "TRUE", "1"}
	if got := Classify(values); got != catalog.TypeString {
		t.Fatalf("Classify = %s, want %s", got, catalog.TypeString)
	}
}

func TestClassify_DateFormats(t *testing.T) {
	values := []string{"2024-01-31", "12/25/2023", "31-12-2023", "2024/02/29", "n/a"}
	if got := Classify(values); got != catalog.TypeDate {
		t.Fatalf("Classify = %s, want %s", got, catalog.TypeDate)
	}
}

func TestClassify_IntegerWhenFloatShareAtBoundary(t *testing.T) {
	// 10 numeric values, exactly 1 float: 10% is not strictly above the
	// float share, so the column stays integer.
	values := []string{"1", "2", "3", "4", "-5", "6", "7", "8", "+9", "1.5"}
	if got := Classify(values); got != catalog.TypeInteger {
		t.Fatalf("Classify = %s, want %s", got, catalog.TypeInteger)
	}
}

func TestClassify_FloatJustAboveShare(t *testing.T) {
	// 9 numeric values, 1 float: 11% float share.
	values := []string{"1", "2", "3", "4", "5", "6", "7", "8", "1.5"}
	if got := Classify(values); got != catalog.TypeFloat {
		t.Fatalf("Classify = %s, want %s", got, catalog.TypeFloat)
	}
}

func TestClassify_NumericDominanceBoundary(t *testing.T) {
	// Exactly 80% numeric: 4 of 5.
	values := []string{"1", "2", "3", "4", "abc"}
	if got := Classify(values); got != catalog.TypeInteger {
		t.Fatalf("Classify = %s, want %s", got, catalog.TypeInteger)
	}

	// Below 80%: 3 of 4.
	values = []string{"1", "2", "3", "abc"}
	if got := Classify(values); got != catalog.TypeString {
		t.Fatalf("Classify = %s, want %s", got, catalog.TypeString)
	}
}

func TestClassify_NullsExcludedFromDenominator(t *testing.T) {
	// 4 of 5 non-null values are boolean; empties do not dilute dominance.
	values := []string{"true", "", "false", "true", " ", "false", "x"}
	if got := Classify(values); got != catalog.TypeBoolean {
		t.Fatalf("Classify = %s, want %s", got, catalog.TypeBoolean)
	}
}

func TestClassify_BooleanBeatsDateOrdering(t *testing.T) {
	// All values boolean-like; ordering means boolean is checked first.
	values := []string{"true", "false", "true", "false", "true"}
	if got := Classify(values); got != catalog.TypeBoolean {
		t.Fatalf("Classify = %s, want %s", got, catalog.TypeBoolean)
	}
}
