package security

import (
	"regexp"
	"strings"
)

var (
	// trailerPattern marks clause positions a predicate must precede.
	// Word-bounded so keywords embedded in identifiers (rate_limit,
	// byoffset) never match.
	trailerPattern = regexp.MustCompile(`(?i)\b(GROUP\s+BY|HAVING|ORDER\s+BY|LIMIT|OFFSET)\b`)
	wherePattern   = regexp.MustCompile(`(?i)\bWHERE\b`)
)

// InjectPredicate combines a row predicate with a generated query. When the
// query already filters, the predicate is conjoined with AND; otherwise a
// WHERE clause is inserted before any grouping, ordering, or limiting
// trailer rather than appended at the end.
func InjectPredicate(query, predicate string) string {
	predicate = strings.TrimSpace(predicate)
	if predicate == "" {
		return query
	}

	cut := trailerIndex(query)
	head := strings.TrimRight(query[:cut], " \t\n")
	tail := query[cut:]

	if wherePattern.MatchString(head) {
		return head + " AND (" + predicate + ")" + joinTail(tail)
	}
	return head + " WHERE " + predicate + joinTail(tail)
}

func joinTail(tail string) string {
	if tail == "" {
		return ""
	}
	return " " + strings.TrimLeft(tail, " \t\n")
}

// trailerIndex finds where the first trailing clause begins, or the end of
// the query when there is none.
func trailerIndex(query string) int {
	if loc := trailerPattern.FindStringIndex(query); loc != nil {
		return loc[0]
	}
	return len(query)
}
