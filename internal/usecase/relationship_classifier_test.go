package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speclens/backend/internal/domain"
)

func candidateIDs(recs []domain.Recommendation) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.Candidate.ID
	}
	return ids
}

func TestClassifyRelationships(t *testing.T) {
	catalog := testCatalog()
	anchor := findProduct(catalog.Products, "xreal-one-pro")

	related := ClassifyRelationships(anchor, catalog, domain.DefaultRelationshipLimits())

	t.Run("every kind is present", func(t *testing.T) {
		for _, kind := range domain.RelationshipKinds {
			assert.Contains(t, related, kind)
		}
	})

	t.Run("similar keeps the same category ordered by score then id", func(t *testing.T) {
		similar := related[domain.RelationshipSimilar]
		assert.Equal(t, []string{"rokid-ar-spatial", "xreal-air-2-pro", "viture-beast"}, candidateIDs(similar))
		assert.Equal(t, 100, similar[0].Similarity)
		assert.Equal(t, 85, similar[2].Similarity)
	})

	t.Run("upgrade records the price delta first", func(t *testing.T) {
		upgrade := related[domain.RelationshipUpgrade]
		require.Len(t, upgrade, 1)
		assert.Equal(t, "rokid-ar-spatial", upgrade[0].Candidate.ID)
		assert.Equal(t, 55, upgrade[0].Similarity)
		assert.Equal(t, []string{"+$50 upgrade", "Higher user rating"}, upgrade[0].Reasons)
		assert.Equal(t, "+$50 upgrade • Higher user rating", upgrade[0].Reason)
		assert.Equal(t, 50.0, upgrade[0].PriceDifference)
	})

	t.Run("downgrade stays within half the anchor price", func(t *testing.T) {
		downgrade := related[domain.RelationshipDowngrade]
		assert.Equal(t, []string{"rokid-max", "viture-pro", "xreal-air-2-pro"}, candidateIDs(downgrade))
		for _, rec := range downgrade {
			assert.Equal(t, 100, rec.Similarity)
		}
		assert.Equal(t, "Save $160", downgrade[0].Reasons[0])
	})

	t.Run("alternative rewards shared use cases and audiences", func(t *testing.T) {
		alternative := related[domain.RelationshipAlternative]
		assert.Equal(t, []string{"rokid-max", "viture-one-lite", "viture-pro", "magic-leap-2", "rayneo-air-3"}, candidateIDs(alternative))

		lite := alternative[1]
		assert.Equal(t, 50, lite.Similarity)
		assert.Equal(t, []string{"Also great for movies, travel"}, lite.Reasons)

		leap := alternative[3]
		assert.Equal(t, 40, leap.Similarity)
		assert.Equal(t, []string{"Built for professionals too"}, leap.Reasons)
	})

	t.Run("cross brand is truncated to its limit", func(t *testing.T) {
		cross := related[domain.RelationshipCrossBrand]
		assert.Equal(t, []string{
			"rokid-ar-spatial", "viture-beast", "magic-leap-2", "rayneo-air-3", "rokid-max", "viture-one-lite",
		}, candidateIDs(cross))
		assert.Equal(t, 70, cross[0].Similarity)
	})
}

func TestClassifyRelationships_CrossBrandMarketShare(t *testing.T) {
	catalog := testCatalog()
	anchor := findProduct(catalog.Products, "rayneo-air-3")

	cross := ClassifyRelationships(anchor, catalog, domain.DefaultRelationshipLimits())[domain.RelationshipCrossBrand]

	var lite *domain.Recommendation
	for i := range cross {
		if cross[i].Candidate.ID == "viture-one-lite" {
			lite = &cross[i]
		}
	}
	require.NotNil(t, lite)
	assert.Equal(t, 85, lite.Similarity)
	assert.Equal(t, []string{"Competing Budget option", "Price parity", "Larger market presence"}, lite.Reasons)
	assert.Equal(t, []string{"20% market share"}, lite.Highlights)
}

func TestClassifyRelationships_Limits(t *testing.T) {
	catalog := testCatalog()
	anchor := findProduct(catalog.Products, "xreal-one-pro")

	related := ClassifyRelationships(anchor, catalog, domain.RelationshipLimits{Similar: 1, CrossBrand: 2})

	assert.Equal(t, []string{"rokid-ar-spatial"}, candidateIDs(related[domain.RelationshipSimilar]))
	assert.Len(t, related[domain.RelationshipCrossBrand], 2)
	// unset limits fall back to defaults
	assert.Len(t, related[domain.RelationshipAlternative], 5)
}

func TestClassifyRelationships_UpgradeCeiling(t *testing.T) {
	anchor := domain.Product{ID: "anchor", Brand: "A", Category: domain.CategoryPremium, Price: 599, Rating: 4.2}
	tooExpensive := domain.Product{ID: "pricey", Brand: "A", Category: domain.CategoryPremium, Price: 899, Rating: 4.2}
	atCeiling := domain.Product{ID: "ceiling", Brand: "A", Category: domain.CategoryPremium, Price: 898.5, Rating: 4.2}

	t.Run("candidate above 1.5x is not an upgrade", func(t *testing.T) {
		catalog := &domain.Catalog{Products: []domain.Product{anchor, tooExpensive}}
		related := ClassifyRelationships(&catalog.Products[0], catalog, domain.DefaultRelationshipLimits())

		assert.NotContains(t, related, domain.RelationshipUpgrade)
		assert.Contains(t, related, domain.RelationshipSimilar)
	})

	t.Run("candidate exactly at 1.5x is an upgrade", func(t *testing.T) {
		catalog := &domain.Catalog{Products: []domain.Product{anchor, atCeiling}}
		related := ClassifyRelationships(&catalog.Products[0], catalog, domain.DefaultRelationshipLimits())

		require.Contains(t, related, domain.RelationshipUpgrade)
		assert.Equal(t, "+$299.5 upgrade", related[domain.RelationshipUpgrade][0].Reasons[0])
	})
}

func TestClassifyRelationships_OnlyAnchor(t *testing.T) {
	catalog := &domain.Catalog{Products: []domain.Product{
		{ID: "solo", Brand: "A", Category: domain.CategoryBudget, Price: 199, Rating: 4},
	}}

	related := ClassifyRelationships(&catalog.Products[0], catalog, domain.DefaultRelationshipLimits())

	assert.NotNil(t, related)
	assert.Empty(t, related)
}

func TestClassifyRelationships_Properties(t *testing.T) {
	catalog := testCatalog()
	// a duplicated entry must not produce duplicate recommendations
	catalog.Products = append(catalog.Products, catalog.Products[1])
	bases := map[domain.RelationshipKind]int{
		domain.RelationshipSimilar:     60,
		domain.RelationshipAlternative: 20,
		domain.RelationshipUpgrade:     40,
		domain.RelationshipDowngrade:   40,
		domain.RelationshipCrossBrand:  20,
	}

	for i := range catalog.Products {
		anchor := &catalog.Products[i]
		first := ClassifyRelationships(anchor, catalog, domain.DefaultRelationshipLimits())
		second := ClassifyRelationships(anchor, catalog, domain.DefaultRelationshipLimits())

		assert.Equal(t, first, second, "classification of %s is not deterministic", anchor.ID)

		for kind, recs := range first {
			assert.NotEmpty(t, recs, "bucket %s for %s should be omitted when empty", kind, anchor.ID)
			seen := make(map[string]bool)
			for j, rec := range recs {
				assert.NotEqual(t, anchor.ID, rec.Candidate.ID, "%s recommended against itself", anchor.ID)
				assert.False(t, seen[rec.Candidate.ID], "duplicate %s in %s bucket of %s", rec.Candidate.ID, kind, anchor.ID)
				seen[rec.Candidate.ID] = true
				assert.GreaterOrEqual(t, rec.Similarity, 0)
				assert.LessOrEqual(t, rec.Similarity, 100)
				if rec.Similarity > bases[kind] {
					assert.NotEmpty(t, rec.Reasons, "%s bucket of %s has no reasons above base", kind, anchor.ID)
				}
				if j > 0 {
					prev := recs[j-1]
					ordered := prev.Similarity > rec.Similarity ||
						(prev.Similarity == rec.Similarity && prev.Candidate.ID < rec.Candidate.ID)
					assert.True(t, ordered, "%s bucket of %s out of order at %d", kind, anchor.ID, j)
				}
			}
		}
	}
}

func TestRelate_PanicsOnSelf(t *testing.T) {
	classifier := NewRelationshipClassifier(DefaultSimilarityWeights(), nil, nil)
	p := findProduct(testProducts(), "viture-pro")

	assert.Panics(t, func() { classifier.Relate(p, p) })
}

func TestRankAndLimit(t *testing.T) {
	type item struct {
		id    string
		score int
	}
	key := func(i item) rankKey { return rankKey{id: i.id, score: i.score} }
	items := []item{{"b", 50}, {"a", 50}, {"c", 90}, {"a", 10}, {"d", 20}}

	tests := []struct {
		name  string
		limit int
		want  []item
	}{
		{"no limit", 0, []item{{"c", 90}, {"a", 50}, {"b", 50}, {"d", 20}}},
		{"truncates", 2, []item{{"c", 90}, {"a", 50}}},
		{"limit above size", 10, []item{{"c", 90}, {"a", 50}, {"b", 50}, {"d", 20}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rankAndLimit(items, key, tt.limit))
		})
	}

	assert.Equal(t, item{"b", 50}, items[0], "input must not be reordered")
}
