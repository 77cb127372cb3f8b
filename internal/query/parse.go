package query

import (
	"fmt"
	"strings"

	"github.com/roach88/eavstore/internal/ir"
)

// Parse reads a three-term pattern such as `alice age ?`.
//
// Terms are separated by whitespace. A bare `?`, `_`, or `?name` is a free
// position. Double-quoted terms are always strings and may contain spaces;
// other terms are typed by ir.ParseLiteral. Parse does not check the shape,
// call Validate for that.
func Parse(text string) (Query, error) {
	terms, err := tokenize(text)
	if err != nil {
		return Query{}, fmt.Errorf("parse query %q: %w", text, err)
	}
	if len(terms) != 3 {
		return Query{}, fmt.Errorf("parse query %q: want 3 terms, got %d", text, len(terms))
	}

	var vals [3]ir.Value
	for i, term := range terms {
		if isFree(term) {
			continue
		}
		v, err := ir.ParseLiteral(term)
		if err != nil {
			return Query{}, fmt.Errorf("parse query %q: term %d: %w", text, i+1, err)
		}
		vals[i] = v
	}
	return Query{E: vals[0], A: vals[1], V: vals[2]}, nil
}

// ParseTerms builds a query from already separated terms, as given on a
// command line.
func ParseTerms(e, a, v string) (Query, error) {
	var vals [3]ir.Value
	for i, term := range []string{e, a, v} {
		if isFree(term) {
			continue
		}
		val, err := ir.ParseLiteral(term)
		if err != nil {
			return Query{}, fmt.Errorf("parse term %d: %w", i+1, err)
		}
		vals[i] = val
	}
	return Query{E: vals[0], A: vals[1], V: vals[2]}, nil
}

func isFree(term string) bool {
	return term == "_" || strings.HasPrefix(term, "?")
}

// tokenize splits on whitespace, keeping double-quoted terms (with their
// quotes and backslash escapes) intact.
func tokenize(text string) ([]string, error) {
	var terms []string
	var cur strings.Builder
	inQuote, escaped, started := false, false, false

	flush := func() {
		if started {
			terms = append(terms, cur.String())
			cur.Reset()
			started = false
		}
	}

	for _, r := range text {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '"':
			cur.WriteRune(r)
			started = true
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	flush()
	return terms, nil
}
