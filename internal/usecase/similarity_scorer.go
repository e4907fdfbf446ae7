package usecase

import (
	"fmt"
	"math"
	"strconv"

	"github.com/speclens/backend/internal/domain"
)

// Score bounds for every public scoring function
const (
	minScore = 0
	maxScore = 100
)

// epsilon absorbs float noise in tolerance checks (4.4-4.1 is 0.30000000000000071)
const epsilon = 1e-9

// SimilarityWeights is the weight table driving the similarity scorer.
// A zero points value disables that bonus.
type SimilarityWeights struct {
	SameCategoryBase  int
	CrossCategoryBase int

	PriceClose      int
	PriceCloseRatio float64
	PriceNear       int
	PriceNearRatio  float64

	Rating          int
	RatingTolerance float64

	FOV          int
	FOVTolerance float64

	Weight          int
	WeightTolerance float64

	SameBrand int
}

// DefaultSimilarityWeights returns the standard relatedness weights
func DefaultSimilarityWeights() SimilarityWeights {
	return SimilarityWeights{
		SameCategoryBase:  60,
		CrossCategoryBase: 20,
		PriceClose:        20,
		PriceCloseRatio:   0.2,
		PriceNear:         10,
		PriceNearRatio:    0.4,
		Rating:            15,
		RatingTolerance:   0.3,
		FOV:               10,
		FOVTolerance:      10,
		Weight:            5,
		WeightTolerance:   10,
		SameBrand:         15,
	}
}

// SimilarityResult is a clamped score plus the justification for every bonus applied
type SimilarityResult struct {
	Score      int      `json:"score"`
	Base       int      `json:"base"`
	Reasons    []string `json:"reasons"`
	Highlights []string `json:"highlights"`
}

// pair is an anchor/candidate couple with their extracted attributes
type pair struct {
	anchor    *domain.Product
	candidate *domain.Product
	a         domain.ExtractedAttributes
	c         domain.ExtractedAttributes
}

func newPair(anchor, candidate *domain.Product, attrs AttributeSource) *pair {
	if attrs == nil {
		attrs = DirectExtractor
	}
	return &pair{
		anchor:    anchor,
		candidate: candidate,
		a:         attrs.Attributes(anchor),
		c:         attrs.Attributes(candidate),
	}
}

// bonus is the outcome of one satisfied rule
type bonus struct {
	points    int
	reason    string
	highlight string
}

// bonusRule returns the bonus for a pair and whether it applies
type bonusRule func(p *pair) (bonus, bool)

// evaluate sums base plus every applicable bonus and clamps the total.
// Each applied bonus contributes exactly one reason.
func evaluate(base int, rules []bonusRule, p *pair) SimilarityResult {
	total := base
	reasons := []string{}
	highlights := []string{}

	for _, rule := range rules {
		b, ok := rule(p)
		if !ok {
			continue
		}
		total += b.points
		reasons = append(reasons, b.reason)
		if b.highlight != "" {
			highlights = append(highlights, b.highlight)
		}
	}

	return SimilarityResult{
		Score:      clampScore(total),
		Base:       base,
		Reasons:    reasons,
		Highlights: highlights,
	}
}

// similarityRules builds the base relatedness rules from a weight table
func similarityRules(w SimilarityWeights) []bonusRule {
	return []bonusRule{
		func(p *pair) (bonus, bool) {
			if p.anchor.Price <= 0 {
				return bonus{}, false
			}
			ratio := math.Abs(p.candidate.Price-p.anchor.Price) / p.anchor.Price
			switch {
			case w.PriceClose > 0 && ratio <= w.PriceCloseRatio+epsilon:
				return bonus{points: w.PriceClose, reason: "Similar pricing"}, true
			case w.PriceNear > 0 && ratio <= w.PriceNearRatio+epsilon:
				return bonus{points: w.PriceNear, reason: "Comparable price range"}, true
			}
			return bonus{}, false
		},
		func(p *pair) (bonus, bool) {
			if w.Rating <= 0 || !within(p.a.Rating, p.c.Rating, w.RatingTolerance) {
				return bonus{}, false
			}
			return bonus{points: w.Rating, reason: "Similar user rating"}, true
		},
		func(p *pair) (bonus, bool) {
			if w.FOV <= 0 || !bothKnown(p.a.FOV, p.c.FOV) || !within(p.a.FOV, p.c.FOV, w.FOVTolerance) {
				return bonus{}, false
			}
			return bonus{
				points:    w.FOV,
				reason:    "Similar field of view",
				highlight: fmt.Sprintf("Similar %s° FOV", formatNumber(p.c.FOV)),
			}, true
		},
		func(p *pair) (bonus, bool) {
			if w.Weight <= 0 || !bothKnown(p.a.Weight, p.c.Weight) || !within(p.a.Weight, p.c.Weight, w.WeightTolerance) {
				return bonus{}, false
			}
			return bonus{
				points:    w.Weight,
				reason:    "Similar weight",
				highlight: fmt.Sprintf("Comparable %sg weight", formatNumber(p.c.Weight)),
			}, true
		},
		func(p *pair) (bonus, bool) {
			if w.SameBrand <= 0 || p.anchor.Brand != p.candidate.Brand {
				return bonus{}, false
			}
			return bonus{points: w.SameBrand, reason: "Same brand family"}, true
		},
	}
}

// SimilarityScorer computes 0-100 relatedness between two products
type SimilarityScorer struct {
	weights SimilarityWeights
	rules   []bonusRule
	attrs   AttributeSource
}

// NewSimilarityScorer creates a scorer for the given weight table.
// A nil attrs extracts attributes on every call.
func NewSimilarityScorer(weights SimilarityWeights, attrs AttributeSource) *SimilarityScorer {
	if attrs == nil {
		attrs = DirectExtractor
	}
	return &SimilarityScorer{
		weights: weights,
		rules:   similarityRules(weights),
		attrs:   attrs,
	}
}

// Score rates how related candidate is to anchor. Comparing a product with itself
// is a programming error and panics.
func (s *SimilarityScorer) Score(anchor, candidate *domain.Product) SimilarityResult {
	mustDiffer(anchor, candidate)

	base := s.weights.CrossCategoryBase
	if anchor.Category == candidate.Category {
		base = s.weights.SameCategoryBase
	}
	return evaluate(base, s.rules, newPair(anchor, candidate, s.attrs))
}

// ScoreSimilarity scores a pair with the given weights
func ScoreSimilarity(anchor, candidate *domain.Product, weights SimilarityWeights) SimilarityResult {
	return NewSimilarityScorer(weights, nil).Score(anchor, candidate)
}

// mustDiffer panics when both sides are the same product. Callers filter self
// before scoring; reaching here means rankings would be corrupted.
func mustDiffer(anchor, candidate *domain.Product) {
	if anchor.ID == candidate.ID {
		panic(fmt.Errorf("%w: %s", domain.ErrSelfComparison, anchor.ID))
	}
}

func clampScore(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// within reports |a-b| <= tolerance
func within(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance+epsilon
}

// bothKnown reports whether neither attribute fell back to the unknown value
func bothKnown(a, b float64) bool {
	return a > 0 && b > 0
}

// formatNumber renders 57 as "57" and 4.25 as "4.25"
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// formatMoney renders an absolute currency amount the way reasons quote it
func formatMoney(v float64) string {
	return formatNumber(math.Abs(v))
}
