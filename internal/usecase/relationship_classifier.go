package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/speclens/backend/internal/domain"
)

// Price windows and bonus points per relationship kind
const (
	upgradeCeilingRatio = 1.5
	downgradeFloorRatio = 0.5

	kindBase = 20
	tierBase = 40

	alternativeClosePrice  = 100.0
	alternativeClosePoints = 25
	alternativeNearPrice   = 200.0
	alternativeNearPoints  = 15
	sharedUseCasePoints    = 15
	sharedAudiencePoints   = 20
	upgradeWiderFOVPoints  = 20
	upgradeBrighterPoints  = 15
	upgradeRatingPoints    = 15
	upgradePremiumPoints   = 25
	downgradeValuePoints   = 25
	downgradeRatingPoints  = 20
	downgradeRatingTol     = 0.3
	downgradeFOVShare      = 0.8
	downgradeFOVPoints     = 15
	crossBrandCategoryPts  = 30
	crossBrandParityPrice  = 50.0
	crossBrandParityPoints = 20
	crossBrandMarketPoints = 15
)

// relationshipProfile is the eligibility predicate and scoring table for one kind
type relationshipProfile struct {
	kind     domain.RelationshipKind
	eligible func(p *pair) bool
	base     int
	rules    []bonusRule
}

// RelationshipClassifier buckets candidates into relationship kinds around an anchor
type RelationshipClassifier struct {
	profiles []relationshipProfile
	attrs    AttributeSource
}

// NewRelationshipClassifier creates a classifier. marketShares maps brand name to share
// in percent; brands missing from it count as 0. A nil attrs extracts on every call.
func NewRelationshipClassifier(weights SimilarityWeights, marketShares map[string]float64, attrs AttributeSource) *RelationshipClassifier {
	if attrs == nil {
		attrs = DirectExtractor
	}
	return &RelationshipClassifier{
		profiles: []relationshipProfile{
			{
				kind:     domain.RelationshipSimilar,
				eligible: func(p *pair) bool { return p.candidate.Category == p.anchor.Category },
				base:     weights.SameCategoryBase,
				rules:    similarityRules(weights),
			},
			{
				kind:     domain.RelationshipAlternative,
				eligible: func(p *pair) bool { return p.candidate.Category != p.anchor.Category },
				base:     kindBase,
				rules:    alternativeRules(),
			},
			{
				kind: domain.RelationshipUpgrade,
				eligible: func(p *pair) bool {
					return p.candidate.Price > p.anchor.Price && p.candidate.Price <= p.anchor.Price*upgradeCeilingRatio
				},
				base:  tierBase,
				rules: upgradeRules(),
			},
			{
				kind: domain.RelationshipDowngrade,
				eligible: func(p *pair) bool {
					return p.candidate.Price < p.anchor.Price && p.candidate.Price >= p.anchor.Price*downgradeFloorRatio
				},
				base:  tierBase,
				rules: downgradeRules(),
			},
			{
				kind:     domain.RelationshipCrossBrand,
				eligible: func(p *pair) bool { return p.candidate.Brand != p.anchor.Brand },
				base:     kindBase,
				rules:    crossBrandRules(marketShares),
			},
		},
		attrs: attrs,
	}
}

// Classify scores every candidate against every kind it is eligible for. Each bucket is
// sorted by score then candidate id, de-duplicated and truncated to its limit.
// Kinds with no eligible candidate are absent from the map.
func (c *RelationshipClassifier) Classify(anchor *domain.Product, candidates []domain.Product, limits domain.RelationshipLimits) map[domain.RelationshipKind][]domain.Recommendation {
	buckets := make(map[domain.RelationshipKind][]domain.Recommendation)

	for i := range candidates {
		candidate := &candidates[i]
		if candidate.ID == anchor.ID {
			continue
		}
		for _, rec := range c.Relate(anchor, candidate) {
			buckets[rec.Kind] = append(buckets[rec.Kind], rec)
		}
	}

	result := make(map[domain.RelationshipKind][]domain.Recommendation, len(buckets))
	for kind, recs := range buckets {
		ranked := rankAndLimit(recs, recommendationKey, limits.For(kind))
		if len(ranked) > 0 {
			result[kind] = ranked
		}
	}
	return result
}

// Relate returns one recommendation per kind the candidate is eligible for, in kind
// display order. Relating a product to itself panics.
func (c *RelationshipClassifier) Relate(anchor, candidate *domain.Product) []domain.Recommendation {
	mustDiffer(anchor, candidate)

	p := newPair(anchor, candidate, c.attrs)
	var recs []domain.Recommendation
	for _, profile := range c.profiles {
		if !profile.eligible(p) {
			continue
		}
		res := evaluate(profile.base, profile.rules, p)
		recs = append(recs, domain.NewRecommendation(anchor, candidate, profile.kind, res.Score, res.Reasons, res.Highlights))
	}
	return recs
}

// ClassifyRelationships classifies the anchor against the whole catalog with the
// standard weights, memoizing attribute extraction for the call
func ClassifyRelationships(anchor *domain.Product, catalog *domain.Catalog, limits domain.RelationshipLimits) map[domain.RelationshipKind][]domain.Recommendation {
	if anchor == nil || catalog == nil {
		return map[domain.RelationshipKind][]domain.Recommendation{}
	}
	classifier := NewRelationshipClassifier(DefaultSimilarityWeights(), catalog.MarketShares(), newRequestMemo(nil))
	return classifier.Classify(anchor, catalog.Products, limits)
}

// rankKey is what rankAndLimit orders items by
type rankKey struct {
	id    string
	score int
}

func recommendationKey(r domain.Recommendation) rankKey {
	return rankKey{id: r.Candidate.ID, score: r.Similarity}
}

// rankAndLimit orders items by score descending then id ascending, keeps the first
// occurrence of each id and truncates to limit. A limit <= 0 keeps everything.
func rankAndLimit[T any](items []T, key func(T) rankKey, limit int) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := key(sorted[i]), key(sorted[j])
		if ki.score != kj.score {
			return ki.score > kj.score
		}
		return ki.id < kj.id
	})

	seen := make(map[string]bool, len(sorted))
	out := make([]T, 0, len(sorted))
	for _, item := range sorted {
		id := key(item).id
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func alternativeRules() []bonusRule {
	return []bonusRule{
		func(p *pair) (bonus, bool) {
			diff := math.Abs(p.candidate.Price - p.anchor.Price)
			switch {
			case diff <= alternativeClosePrice+epsilon:
				return bonus{points: alternativeClosePoints, reason: "Similar price point"}, true
			case diff <= alternativeNearPrice+epsilon:
				return bonus{points: alternativeNearPoints, reason: "Within $200 price range"}, true
			}
			return bonus{}, false
		},
		func(p *pair) (bonus, bool) {
			shared := sharedTags(p.anchor.UseCases, p.candidate.UseCases)
			if len(shared) == 0 {
				return bonus{}, false
			}
			return bonus{
				points:    sharedUseCasePoints * len(shared),
				reason:    "Also great for " + strings.Join(shared, ", "),
				highlight: fmt.Sprintf("%d shared use cases", len(shared)),
			}, true
		},
		func(p *pair) (bonus, bool) {
			if !containsAnyKeyword(p.anchor.TargetAudience, "professional", "professionals") ||
				!containsAnyKeyword(p.candidate.TargetAudience, "professional", "professionals") {
				return bonus{}, false
			}
			return bonus{points: sharedAudiencePoints, reason: "Built for professionals too"}, true
		},
	}
}

func upgradeRules() []bonusRule {
	return []bonusRule{
		func(p *pair) (bonus, bool) {
			return bonus{reason: fmt.Sprintf("+$%s upgrade", formatMoney(p.candidate.Price-p.anchor.Price))}, true
		},
		func(p *pair) (bonus, bool) {
			if p.c.FOV <= 0 || p.c.FOV <= p.a.FOV+epsilon {
				return bonus{}, false
			}
			return bonus{
				points:    upgradeWiderFOVPoints,
				reason:    "Wider field of view",
				highlight: fmt.Sprintf("%s° FOV", formatNumber(p.c.FOV)),
			}, true
		},
		func(p *pair) (bonus, bool) {
			if p.c.Brightness <= 0 || p.c.Brightness <= p.a.Brightness+epsilon {
				return bonus{}, false
			}
			return bonus{
				points:    upgradeBrighterPoints,
				reason:    "Brighter display",
				highlight: fmt.Sprintf("%s nits", formatNumber(p.c.Brightness)),
			}, true
		},
		func(p *pair) (bonus, bool) {
			if p.c.Rating <= p.a.Rating+epsilon {
				return bonus{}, false
			}
			return bonus{points: upgradeRatingPoints, reason: "Higher user rating"}, true
		},
		func(p *pair) (bonus, bool) {
			if p.candidate.Category != domain.CategoryPremium || p.anchor.Category == domain.CategoryPremium {
				return bonus{}, false
			}
			return bonus{points: upgradePremiumPoints, reason: "Steps up to Premium tier"}, true
		},
	}
}

func downgradeRules() []bonusRule {
	return []bonusRule{
		func(p *pair) (bonus, bool) {
			return bonus{reason: fmt.Sprintf("Save $%s", formatMoney(p.anchor.Price-p.candidate.Price))}, true
		},
		func(p *pair) (bonus, bool) {
			if p.a.Price <= 0 || p.c.Price <= 0 || p.c.Rating <= 0 {
				return bonus{}, false
			}
			if p.c.Rating/p.c.Price <= p.a.Rating/p.a.Price+epsilon {
				return bonus{}, false
			}
			return bonus{points: downgradeValuePoints, reason: "Better value for money"}, true
		},
		func(p *pair) (bonus, bool) {
			if !within(p.a.Rating, p.c.Rating, downgradeRatingTol) {
				return bonus{}, false
			}
			return bonus{points: downgradeRatingPoints, reason: "Comparable user rating"}, true
		},
		func(p *pair) (bonus, bool) {
			if !bothKnown(p.a.FOV, p.c.FOV) || p.c.FOV+epsilon < p.a.FOV*downgradeFOVShare {
				return bonus{}, false
			}
			return bonus{
				points:    downgradeFOVPoints,
				reason:    "Keeps most of the field of view",
				highlight: fmt.Sprintf("%s° FOV", formatNumber(p.c.FOV)),
			}, true
		},
	}
}

func crossBrandRules(marketShares map[string]float64) []bonusRule {
	return []bonusRule{
		func(p *pair) (bonus, bool) {
			if p.candidate.Category != p.anchor.Category {
				return bonus{}, false
			}
			return bonus{points: crossBrandCategoryPts, reason: fmt.Sprintf("Competing %s option", p.candidate.Category)}, true
		},
		func(p *pair) (bonus, bool) {
			if math.Abs(p.candidate.Price-p.anchor.Price) > crossBrandParityPrice+epsilon {
				return bonus{}, false
			}
			return bonus{points: crossBrandParityPoints, reason: "Price parity"}, true
		},
		func(p *pair) (bonus, bool) {
			share := marketShares[p.candidate.Brand]
			if share <= marketShares[p.anchor.Brand] {
				return bonus{}, false
			}
			return bonus{
				points:    crossBrandMarketPoints,
				reason:    "Larger market presence",
				highlight: fmt.Sprintf("%s%% market share", formatNumber(share)),
			}, true
		},
	}
}
