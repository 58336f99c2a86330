package search

import (
	"sort"

	"craftmart/internal/models"
)

// BlendSponsored merges paid-placement results into an already-scored
// organic list. Sponsored items receive a flat additive boost, not an
// override: a low-relevance sponsored item still ranks below organic items
// whose relevance exceeds the boosted score.
//
// Merge contract, in priority order:
//  1. sponsored before organic when scores are tied
//  2. otherwise purely by (boosted) score, descending
//  3. equal-score sponsored items keep their original order
//  4. final tiebreak: ascending distance when both sides have one
func BlendSponsored(organic, sponsored []*models.RankedResult) []*models.RankedResult {
	for _, result := range sponsored {
		result.IsSponsored = true
		result.RelevanceScore += scoreSponsoredBoost
		if result.SponsoredBadge == nil {
			badge := models.BadgeTrending
			result.SponsoredBadge = &badge
		}
	}

	merged := make([]*models.RankedResult, 0, len(organic)+len(sponsored))
	merged = append(merged, sponsored...)
	merged = append(merged, organic...)

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		if a.IsSponsored != b.IsSponsored {
			return a.IsSponsored
		}
		// Tied sponsored pairs keep their original order; the distance
		// tiebreak never reorders them.
		if a.IsSponsored && b.IsSponsored {
			return false
		}
		if a.DistanceKm != nil && b.DistanceKm != nil {
			return *a.DistanceKm < *b.DistanceKm
		}
		return false
	})
	return merged
}
