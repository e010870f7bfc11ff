package common

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0, 1]:
// twice the number of characters in the longest matching blocks, found
// recursively, divided by the combined length. It is the measure computed by
// difflib's SequenceMatcher.ratio with a as the first sequence, applied to
// runes. Two empty strings have ratio 1.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// CloseMatch returns the candidate most similar to word whose ratio is at
// least cutoff. Among equal scores the lexically greatest candidate wins, as
// with difflib.get_close_matches(word, candidates, n=1, cutoff).
func CloseMatch(word string, candidates []string, cutoff float64) (string, bool) {
	var (
		best      string
		bestScore float64
		found     bool
	)

	m := difflib.NewMatcher(nil, runes(word))
	for _, c := range candidates {
		m.SetSeq1(runes(c))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		score := m.Ratio()
		if score < cutoff {
			continue
		}
		if !found || score > bestScore || (score == bestScore && c > best) {
			best, bestScore, found = c, score, true
		}
	}
	return best, found
}

// runes splits s into one-element strings so the line-oriented matcher
// compares characters
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
