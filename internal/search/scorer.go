package search

import (
	"sort"
	"strings"
	"time"

	"craftmart/internal/geo"
	"craftmart/internal/models"
)

// Relevance scoring is an additive model: six independent sub-scores are
// summed so a weak signal in one dimension cannot zero out a strong signal
// in another. Identical inputs always produce identical scores and ordering.

// Textual match weights.
const (
	scoreNameExactFull   = 1000
	scoreNameExactToken  = 800
	scoreNameStartsWith  = 400
	scoreNameContains    = 200
	scoreTagExact        = 300
	scoreTagContains     = 150
	scoreCategoryExact   = 500
	scoreSponsoredBoost  = 200
	scoreFeatured        = 200
	scoreSeasonal        = 100
	scoreCurated         = 150
	scoreBadgeTrending   = 100
	scoreBadgeBestseller = 150
	scoreBadgeNew        = 80
	scoreVerifiedArtisan = 50
)

// Name keywords that earn a small seller-quality bump.
var qualityKeywords = []string{"organic", "fresh", "artisan", "homemade"}

// Scorer computes relevance scores for products against one query. The
// artisan map supplies seller-quality inputs; missing artisans contribute a
// neutral quality sub-score.
type Scorer struct {
	artisans map[string]*models.Artisan
	now      time.Time
}

func NewScorer(artisans map[string]*models.Artisan, now time.Time) *Scorer {
	if artisans == nil {
		artisans = make(map[string]*models.Artisan)
	}
	return &Scorer{artisans: artisans, now: now}
}

// Tokenize lowercases a free-text query and splits it into match tokens.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(query)))
}

// Score computes the total relevance score for one product.
func (s *Scorer) Score(product *models.Product, query string, tokens []string, userLoc *models.Coordinates) float64 {
	total := s.textualScore(product, strings.ToLower(strings.TrimSpace(query)), tokens)
	total += s.proximityScore(product, userLoc)
	total += s.engagementScore(product)
	total += s.qualityScore(product)
	total += s.recencyScore(product)
	total += s.featuredScore(product)
	return total
}

// Rank scores every candidate and sorts descending. Ties keep the original
// retrieval order so repeated invocations are byte-identical.
func (s *Scorer) Rank(products []*models.Product, query string, userLoc *models.Coordinates) []*models.RankedResult {
	tokens := Tokenize(query)

	results := make([]*models.RankedResult, 0, len(products))
	for _, product := range products {
		result := &models.RankedResult{
			Product:        product,
			RelevanceScore: s.Score(product, query, tokens, userLoc),
		}
		if userLoc != nil {
			if coords := product.Coordinates(); coords != nil {
				km := geo.DistanceKm(*userLoc, *coords)
				result.DistanceKm = &km
				result.FormattedDist = geo.FormatDistance(km)
			}
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	return results
}

// textualScore accumulates every token-level contribution; there is no
// early exit, so multi-token queries reward products matching several
// tokens.
func (s *Scorer) textualScore(product *models.Product, query string, tokens []string) float64 {
	if query == "" {
		return 0
	}

	name := strings.ToLower(product.Name)
	nameWords := strings.Fields(name)
	category := strings.ToLower(product.Category)

	var score float64
	if name == query {
		score += scoreNameExactFull
	}
	if category == query {
		score += scoreCategoryExact
	}

	for _, token := range tokens {
		switch {
		case containsWord(nameWords, token):
			score += scoreNameExactToken
		case strings.HasPrefix(name, token):
			score += scoreNameStartsWith
		case strings.Contains(name, token):
			score += scoreNameContains
		}

		for _, tag := range product.Tags {
			lowered := strings.ToLower(tag)
			if lowered == token {
				score += scoreTagExact
			} else if strings.Contains(lowered, token) {
				score += scoreTagContains
			}
		}
	}
	return score
}

// proximityScore awards a banded bonus by great-circle distance. Missing
// coordinates on either side contribute zero, never a penalty.
func (s *Scorer) proximityScore(product *models.Product, userLoc *models.Coordinates) float64 {
	if userLoc == nil {
		return 0
	}
	coords := product.Coordinates()
	if coords == nil {
		return 0
	}

	switch km := geo.DistanceKm(*userLoc, *coords); {
	case km <= 5:
		return 200
	case km <= 10:
		return 150
	case km <= 25:
		return 100
	case km <= 50:
		return 50
	default:
		return 0
	}
}

func (s *Scorer) engagementScore(product *models.Product) float64 {
	score := capped(float64(product.TotalSales)*10, 200)
	score += product.RatingAverage * 20
	score += capped(float64(product.RatingCount)*2, 100)
	score += capped(float64(product.FavoriteCount)*5, 100)

	// Decaying new-listing bonus for the first 30 days.
	if days := s.daysSince(product.CreatedAt); days < 30 {
		if bonus := 50 - float64(days); bonus > 0 {
			score += bonus
		}
	}
	return score
}

// qualityScore can be reduced by complaints but is floored at zero so poor
// seller history never pushes a product's total below its other signals.
func (s *Scorer) qualityScore(product *models.Product) float64 {
	var score float64

	if artisan := s.artisans[product.ArtisanID.String()]; artisan != nil {
		score += artisan.RatingAverage * 30
		score += artisan.OnTimeRate * 100
		score -= artisan.ComplaintRate * 200
		if artisan.IsVerified {
			score += scoreVerifiedArtisan
		}
	}

	name := strings.ToLower(product.Name)
	for _, keyword := range qualityKeywords {
		if strings.Contains(name, keyword) {
			score += 20
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

func (s *Scorer) recencyScore(product *models.Product) float64 {
	switch days := s.daysSince(product.CreatedAt); {
	case days <= 7:
		return 50
	case days <= 30:
		return 30
	case days <= 90:
		return 15
	default:
		return 0
	}
}

func (s *Scorer) featuredScore(product *models.Product) float64 {
	var score float64
	if product.IsFeatured {
		score += scoreFeatured
	}
	if product.IsSeasonal {
		score += scoreSeasonal
	}
	if product.IsCurated {
		score += scoreCurated
	}
	if product.Badge != nil {
		switch *product.Badge {
		case models.BadgeTrending:
			score += scoreBadgeTrending
		case models.BadgeBestseller:
			score += scoreBadgeBestseller
		case models.BadgeNew:
			score += scoreBadgeNew
		}
	}
	return score
}

func (s *Scorer) daysSince(t time.Time) int {
	days := int(s.now.Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// containsWord reports whether token matches one of the name's words
// exactly. Word-level equality earns the token-exact tier: "honey" is an
// exact token match on "Wild Honey" but only a weaker match on
// "Honeycomb Candle".
func containsWord(words []string, token string) bool {
	for _, word := range words {
		if word == token {
			return true
		}
	}
	return false
}

func capped(value, limit float64) float64 {
	if value > limit {
		return limit
	}
	return value
}
