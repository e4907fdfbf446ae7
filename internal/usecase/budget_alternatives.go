package usecase

import (
	"fmt"
	"math"

	"github.com/speclens/backend/internal/domain"
)

// Budget alternative price windows
const (
	budgetDowngradeCrossCategory = 200.0
	budgetUpgradeCeiling         = 300.0
	budgetSimilarPriceWindow     = 50.0
)

// better reports whether a should replace the current pick b
type better func(a, b *domain.Product) bool

// pickBest returns the eligible candidate that wins every better comparison.
// Ties fall back to product id ascending. Self is never eligible.
func pickBest(anchor *domain.Product, candidates []domain.Product, eligible func(c *domain.Product) bool, cmp better) *domain.Product {
	var best *domain.Product
	for i := range candidates {
		c := &candidates[i]
		if c.ID == anchor.ID || !eligible(c) {
			continue
		}
		if best == nil || cmp(c, best) || (!cmp(best, c) && c.ID < best.ID) {
			best = c
		}
	}
	return best
}

// FindBudgetAlternatives picks at most one cheaper, one pricier and one similarly priced
// product from another category. Slots without an eligible candidate stay nil.
func FindBudgetAlternatives(anchor *domain.Product, catalog *domain.Catalog) domain.BudgetAlternatives {
	var result domain.BudgetAlternatives
	if anchor == nil || catalog == nil {
		return result
	}
	products := catalog.Products

	// closest cheaper neighbor
	if down := pickBest(anchor, products,
		func(c *domain.Product) bool {
			if c.Price >= anchor.Price {
				return false
			}
			return c.Category == anchor.Category || anchor.Price-c.Price <= budgetDowngradeCrossCategory+epsilon
		},
		func(a, b *domain.Product) bool { return a.Price > b.Price },
	); down != nil {
		savings := anchor.Price - down.Price
		result.Downgrade = &domain.BudgetAlternative{
			Product: *down,
			Savings: savings,
			Reason:  fmt.Sprintf("Save $%s with %s", formatMoney(savings), down.Name),
		}
	}

	// closest pricier neighbor that does not lose rating
	if up := pickBest(anchor, products,
		func(c *domain.Product) bool {
			return c.Price > anchor.Price &&
				c.Price-anchor.Price <= budgetUpgradeCeiling+epsilon &&
				c.Rating+epsilon >= anchor.Rating
		},
		func(a, b *domain.Product) bool { return a.Price < b.Price },
	); up != nil {
		extra := up.Price - anchor.Price
		result.Upgrade = &domain.BudgetAlternative{
			Product:        *up,
			AdditionalCost: extra,
			Reason:         fmt.Sprintf("Upgrade to %s for $%s more", up.Name, formatMoney(extra)),
		}
	}

	if similar := pickBest(anchor, products,
		func(c *domain.Product) bool {
			return c.Category != anchor.Category && math.Abs(c.Price-anchor.Price) <= budgetSimilarPriceWindow+epsilon
		},
		func(a, b *domain.Product) bool { return a.Rating > b.Rating },
	); similar != nil {
		diff := similar.Price - anchor.Price
		alt := &domain.BudgetAlternative{Product: *similar}
		switch {
		case diff < 0:
			alt.Savings = -diff
			alt.Reason = fmt.Sprintf("%s option at a similar price, $%s less", similar.Category, formatMoney(diff))
		case diff > 0:
			alt.AdditionalCost = diff
			alt.Reason = fmt.Sprintf("%s option at a similar price, $%s more", similar.Category, formatMoney(diff))
		default:
			alt.Reason = fmt.Sprintf("%s option at the same price", similar.Category)
		}
		result.SimilarPriced = alt
	}

	return result
}
