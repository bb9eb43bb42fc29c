package services

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// DefaultSimilarityThreshold is the fuzzy-match cutoff used when the
// SIMILARITY_THRESHOLD env var is unset.
const DefaultSimilarityThreshold = 0.82

// IsDuplicate reports whether candidate is too similar to any of the
// existing titles. Both sides are trimmed and lowercased, then compared
// with a bigram Sørensen–Dice coefficient; any score at or above the
// threshold counts as a duplicate.
func IsDuplicate(candidate string, existing []string, threshold float64) bool {
	dice := metrics.NewSorensenDice()
	dice.NgramSize = 2

	normalized := strings.ToLower(strings.TrimSpace(candidate))
	for _, title := range existing {
		score := strutil.Similarity(normalized, strings.ToLower(strings.TrimSpace(title)), dice)
		if score >= threshold {
			return true
		}
	}
	return false
}
