package domain

import "strings"

// RelationshipKind classifies how a candidate relates to an anchor product
type RelationshipKind string

const (
	RelationshipSimilar     RelationshipKind = "similar"
	RelationshipAlternative RelationshipKind = "alternative"
	RelationshipUpgrade     RelationshipKind = "upgrade"
	RelationshipDowngrade   RelationshipKind = "downgrade"
	RelationshipCrossBrand  RelationshipKind = "cross-brand"
)

// RelationshipKinds lists every kind in display order
var RelationshipKinds = []RelationshipKind{
	RelationshipSimilar,
	RelationshipAlternative,
	RelationshipUpgrade,
	RelationshipDowngrade,
	RelationshipCrossBrand,
}

// ReasonSeparator joins justification strings for display
const ReasonSeparator = " • "

// Recommendation associates an anchor product with a related candidate
type Recommendation struct {
	AnchorID        string           `json:"anchorId"`
	Candidate       Product          `json:"candidate"`
	Kind            RelationshipKind `json:"kind"`
	Similarity      int              `json:"similarity"`
	Reasons         []string         `json:"reasons"`
	Reason          string           `json:"reason"`
	Highlights      []string         `json:"highlights"`
	PriceDifference float64          `json:"priceDifference"`
}

// NewRecommendation builds a recommendation and derives its display reason
func NewRecommendation(anchor, candidate *Product, kind RelationshipKind, similarity int, reasons, highlights []string) Recommendation {
	if reasons == nil {
		reasons = []string{}
	}
	if highlights == nil {
		highlights = []string{}
	}
	return Recommendation{
		AnchorID:        anchor.ID,
		Candidate:       *candidate,
		Kind:            kind,
		Similarity:      similarity,
		Reasons:         reasons,
		Reason:          strings.Join(reasons, ReasonSeparator),
		Highlights:      highlights,
		PriceDifference: candidate.Price - anchor.Price,
	}
}

// RelationshipLimits caps each relationship bucket. Zero or negative values fall back to defaults.
type RelationshipLimits struct {
	Similar     int `json:"similar" mapstructure:"similar"`
	Alternative int `json:"alternative" mapstructure:"alternative"`
	Upgrade     int `json:"upgrade" mapstructure:"upgrade"`
	Downgrade   int `json:"downgrade" mapstructure:"downgrade"`
	CrossBrand  int `json:"crossBrand" mapstructure:"cross_brand"`
}

// Default bucket sizes
const (
	DefaultSimilarLimit     = 6
	DefaultAlternativeLimit = 6
	DefaultCrossBrandLimit  = 6
	DefaultUpgradeLimit     = 4
	DefaultDowngradeLimit   = 4
)

// DefaultRelationshipLimits returns the standard bucket sizes
func DefaultRelationshipLimits() RelationshipLimits {
	return RelationshipLimits{
		Similar:     DefaultSimilarLimit,
		Alternative: DefaultAlternativeLimit,
		Upgrade:     DefaultUpgradeLimit,
		Downgrade:   DefaultDowngradeLimit,
		CrossBrand:  DefaultCrossBrandLimit,
	}
}

// For returns the effective limit for a kind
func (l RelationshipLimits) For(kind RelationshipKind) int {
	d := DefaultRelationshipLimits()
	pick := func(v, def int) int {
		if v <= 0 {
			return def
		}
		return v
	}
	switch kind {
	case RelationshipSimilar:
		return pick(l.Similar, d.Similar)
	case RelationshipAlternative:
		return pick(l.Alternative, d.Alternative)
	case RelationshipUpgrade:
		return pick(l.Upgrade, d.Upgrade)
	case RelationshipDowngrade:
		return pick(l.Downgrade, d.Downgrade)
	case RelationshipCrossBrand:
		return pick(l.CrossBrand, d.CrossBrand)
	default:
		return 0
	}
}

// BudgetAlternative is a single cheaper, pricier or similarly priced suggestion
type BudgetAlternative struct {
	Product        Product `json:"product"`
	Savings        float64 `json:"savings,omitempty"`
	AdditionalCost float64 `json:"additionalCost,omitempty"`
	Reason         string  `json:"reason"`
}

// BudgetAlternatives holds at most one suggestion per slot. Nil slots had no eligible candidate.
type BudgetAlternatives struct {
	Downgrade     *BudgetAlternative `json:"downgrade,omitempty"`
	Upgrade       *BudgetAlternative `json:"upgrade,omitempty"`
	SimilarPriced *BudgetAlternative `json:"similarPriced,omitempty"`
}

// Empty reports whether no slot was filled
func (b BudgetAlternatives) Empty() bool {
	return b.Downgrade == nil && b.Upgrade == nil && b.SimilarPriced == nil
}
