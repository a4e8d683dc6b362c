// Package reclassify implements the assistive bulk re-classification
// workflow: given one corrected transaction, find other transactions that
// share its key pattern and propose moving them to the same account.
//
// The similarity heuristic can produce false positives, so a proposal always
// passes through a human: proposed -> confirmed -> applied, or
// proposed -> rejected. There is no automatic path from proposed to applied.
package reclassify

import (
	"strings"

	"github.com/veldbooks/veld/internal/matcher"
)

// stopwords are connective tokens carrying no classification signal.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "for": true,
	"from": true, "of": true, "the": true, "to": true,
}

// Keywords extracts the significant tokens of a description: amounts,
// reference numbers, masked account numbers and connective words are
// stripped, leaving the vendor/purpose keywords.
func Keywords(description string) []string {
	tokens := strings.Fields(matcher.Normalize(description))

	keep := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if stopwords[tok] || len(tok) < 2 || !significant(tok) {
			continue
		}
		keep = append(keep, tok)
	}
	return keep
}

// KeyPattern joins the significant keywords of a description into the
// substring filter used to find similar transactions.
func KeyPattern(description string) string {
	return strings.Join(Keywords(description), " ")
}

// significant rejects tokens that are transaction-specific noise: anything
// containing digits (amounts, dates, reference numbers) or masking
// characters.
func significant(tok string) bool {
	for _, r := range tok {
		if r >= '0' && r <= '9' {
			return false
		}
		if r == '*' || r == '#' {
			return false
		}
	}
	return true
}

// FindSimilar filters candidates to those sharing every keyword of the
// corrected description, preserving candidate order, capped at maxResults.
// An empty key pattern matches nothing; proposing "everything" is never
// useful. The result is a suggestion for human review, not a guarantee.
func FindSimilar(correctedDescription string, candidates []string, maxResults int) []string {
	keywords := Keywords(correctedDescription)
	if len(keywords) == 0 || maxResults <= 0 {
		return nil
	}

	var out []string
	for _, candidate := range candidates {
		if len(out) == maxResults {
			break
		}
		normalized := matcher.Normalize(candidate)
		if containsAll(normalized, keywords) {
			out = append(out, candidate)
		}
	}
	return out
}

func containsAll(s string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(s, kw) {
			return false
		}
	}
	return true
}
