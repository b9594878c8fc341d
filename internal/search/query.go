package search

import (
	"fmt"
	"strings"

	"riffmates/internal/store"
)

// MaxTerms bounds how many distinct terms a query contributes; each term
// binds two parameters.
const MaxTerms = 32

// Terms splits a raw query on whitespace, drops case-insensitive repeats and
// keeps at most MaxTerms. An empty query yields no terms.
func Terms(raw string) []string {
	fields := strings.Fields(raw)
	terms := make([]string, 0, min(len(fields), MaxTerms))
	seen := make(map[string]struct{}, len(terms))
	for _, f := range fields {
		key := strings.ToLower(f)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		terms = append(terms, f)
		if len(terms) == MaxTerms {
			break
		}
	}
	return terms
}

// prefixColumns are matched with "term%"; content is matched anywhere.
var prefixColumns = []string{
	"a.date::text",
	"u.username",
	"a.seeking",
	"m.first_name",
	"m.last_name",
	"b.name",
}

const substringColumn = "a.content"

// Predicate builds the WHERE clause for terms, numbering placeholders from
// start. A term matches an ad when any field matches; an ad matches when any
// term does. No terms produces an empty clause.
func Predicate(terms []string, start int) (string, []any) {
	if len(terms) == 0 {
		return "", nil
	}

	var (
		clauses = make([]string, 0, len(terms)*(len(prefixColumns)+1))
		args    = make([]any, 0, len(terms)*2)
	)
	for _, term := range terms {
		escaped := store.EscapeLike(term)

		args = append(args, escaped+"%")
		prefix := start + len(args) - 1
		for _, col := range prefixColumns {
			clauses = append(clauses, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, col, prefix))
		}

		args = append(args, "%"+escaped+"%")
		clauses = append(clauses, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, substringColumn, start+len(args)-1))
	}
	return "WHERE " + strings.Join(clauses, " OR "), args
}
