package usecase

import (
	"fmt"
	"strings"

	"github.com/speclens/backend/internal/domain"
)

// Persona archetypes with dedicated rule tables
const (
	ArchetypeProfessional = "professional"
	ArchetypeGamer        = "gamer"
	ArchetypeBudget       = "budget"
	ArchetypeEveryday     = "everyday"
	ArchetypeDeveloper    = "developer"
	ArchetypeTraveler     = "traveler"
)

// archetypeAliases maps persona ids and use-case words onto archetypes
var archetypeAliases = map[string]string{
	"professional":  ArchetypeProfessional,
	"professionals": ArchetypeProfessional,
	"work":          ArchetypeProfessional,
	"productivity":  ArchetypeProfessional,
	"business":      ArchetypeProfessional,
	"gamer":         ArchetypeGamer,
	"gamers":        ArchetypeGamer,
	"gaming":        ArchetypeGamer,
	"budget":        ArchetypeBudget,
	"value":         ArchetypeBudget,
	"everyday":      ArchetypeEveryday,
	"casual":        ArchetypeEveryday,
	"entertainment": ArchetypeEveryday,
	"developer":     ArchetypeDeveloper,
	"developers":    ArchetypeDeveloper,
	"development":   ArchetypeDeveloper,
	"traveler":      ArchetypeTraveler,
	"travelers":     ArchetypeTraveler,
	"travel":        ArchetypeTraveler,
	"commuter":      ArchetypeTraveler,
}

// matchSubject is what a persona rule looks at
type matchSubject struct {
	persona *domain.Persona
	product *domain.Product
	attrs   domain.ExtractedAttributes
}

// personaRule adds points with one justification when its predicate holds
type personaRule struct {
	applies func(s *matchSubject) bool
	points  int
	reason  func(s *matchSubject) string
}

func because(text string) func(*matchSubject) string {
	return func(*matchSubject) string { return text }
}

func inCategory(categories ...domain.Category) func(s *matchSubject) bool {
	return func(s *matchSubject) bool {
		for _, c := range categories {
			if s.product.Category == c {
				return true
			}
		}
		return false
	}
}

func mentions(keywords ...string) func(s *matchSubject) bool {
	return func(s *matchSubject) bool {
		texts := make([]string, 0, len(s.product.Specifications.Features)+len(s.product.UseCases))
		texts = append(texts, s.product.Specifications.Features...)
		texts = append(texts, s.product.UseCases...)
		return containsAnyKeyword(texts, keywords...)
	}
}

func lighterThan(grams float64) func(s *matchSubject) bool {
	return func(s *matchSubject) bool { return s.attrs.Weight > 0 && s.attrs.Weight < grams }
}

func ratedAtLeast(r float64) func(s *matchSubject) bool {
	return func(s *matchSubject) bool { return s.product.Rating+epsilon >= r }
}

func pricedAtMost(limit float64) func(s *matchSubject) bool {
	return func(s *matchSubject) bool { return s.product.Price <= limit+epsilon }
}

var archetypeRules = map[string][]personaRule{
	ArchetypeProfessional: {
		{inCategory(domain.CategoryPremium, domain.CategoryProfessional), 30, because("Premium build for professional use")},
		{func(s *matchSubject) bool { return s.product.Price > 500 }, 20, because("Professional-grade tier")},
		{lighterThan(80), 25, because("Lightweight for extended wear")},
		{mentions("productivity", "work"), 25, because("Built for productivity work")},
	},
	ArchetypeGamer: {
		{inCategory(domain.CategoryGaming), 30, because("Designed for gaming")},
		{func(s *matchSubject) bool { return s.attrs.RefreshRate >= 90 }, 25, func(s *matchSubject) string {
			return fmt.Sprintf("%sHz refresh rate for smooth motion", formatNumber(s.attrs.RefreshRate))
		}},
		{func(s *matchSubject) bool { return s.attrs.Latency > 0 && s.attrs.Latency <= 20 }, 20, because("Low display latency")},
		{func(s *matchSubject) bool { return s.attrs.FOV >= 50 }, 15, because("Immersive field of view")},
		{mentions("gaming", "games", "console"), 10, because("Works with your games")},
	},
	ArchetypeBudget: {
		{inCategory(domain.CategoryBudget), 35, because("Budget-friendly model")},
		{pricedAtMost(300), 25, because("Affordable price")},
		{ratedAtLeast(4.0), 20, because("Well rated for the price")},
		{func(s *matchSubject) bool { return s.product.Discount() > 0 }, 10, func(s *matchSubject) string {
			return fmt.Sprintf("Currently $%s off", formatMoney(s.product.Discount()))
		}},
	},
	ArchetypeEveryday: {
		{inCategory(domain.CategoryEveryday, domain.CategoryMidRange), 25, because("Made for everyday use")},
		{lighterThan(80), 25, because("Comfortable for daily wear")},
		{ratedAtLeast(4.2), 20, because("Highly rated by owners")},
		{mentions("streaming", "movies", "everyday", "entertainment"), 15, because("Great for streaming and movies")},
	},
	ArchetypeDeveloper: {
		{inCategory(domain.CategoryDeveloper), 35, because("Developer edition hardware")},
		{mentions("sdk", "developer", "development", "api", "open source"), 25, because("Open to developers")},
		{func(s *matchSubject) bool { return s.product.Specifications.Connectivity.Ports != "" }, 15, because("Wired connectivity for debugging")},
		{ratedAtLeast(4.0), 15, because("Solid community rating")},
	},
	ArchetypeTraveler: {
		{lighterThan(75), 30, because("Light enough to pack anywhere")},
		{mentions("travel", "portable", "flight", "commute"), 25, because("Travel friendly")},
		{inCategory(domain.CategoryEveryday, domain.CategoryBudget, domain.CategoryMidRange), 15, because("Easy to carry category")},
		{func(s *matchSubject) bool { return s.product.Specifications.Connectivity.Wireless != "" }, 10, because("Wireless connectivity on the go")},
	},
}

// sharedPersonaRules apply to every persona regardless of archetype
var sharedPersonaRules = []personaRule{
	{
		func(s *matchSubject) bool { return s.persona.Budget.Contains(s.product.Price) },
		30,
		func(s *matchSubject) string {
			return fmt.Sprintf("Within your $%s-$%s budget", formatMoney(s.persona.Budget.Min), formatMoney(s.persona.Budget.Max))
		},
	},
	{
		func(s *matchSubject) bool {
			return s.persona.HasPriority(domain.PriorityPrice) && s.product.Price <= s.persona.Budget.Max+epsilon
		},
		20,
		because("Matches your price priority"),
	},
	{
		func(s *matchSubject) bool {
			return s.persona.HasPriority(domain.PriorityDisplay) && (s.attrs.FOV >= 50 || s.attrs.Brightness >= 1000)
		},
		15,
		because("Strong display for your priorities"),
	},
	{
		func(s *matchSubject) bool {
			return s.persona.HasPriority(domain.PriorityAudio) && s.product.Specifications.Audio.Speakers != ""
		},
		10,
		because("Integrated audio"),
	},
	{
		func(s *matchSubject) bool {
			return s.persona.HasPriority(domain.PriorityFeatures) && len(s.product.Specifications.Features) >= 3
		},
		10,
		because("Rich feature set"),
	},
	{
		func(s *matchSubject) bool {
			return s.persona.HasPriority(domain.PriorityBuild) && s.product.Rating+epsilon >= 4.3
		},
		10,
		because("Proven build quality"),
	},
	{
		func(s *matchSubject) bool {
			return s.persona.TechnicalExpertise == domain.ExpertiseBeginner &&
				inCategory(domain.CategoryEveryday, domain.CategoryBudget, domain.CategoryMidRange)(s)
		},
		5,
		because("Easy to get started"),
	},
	{
		func(s *matchSubject) bool {
			return s.persona.TechnicalExpertise == domain.ExpertiseAdvanced &&
				inCategory(domain.CategoryDeveloper, domain.CategoryProfessional, domain.CategorySpecialized)(s)
		},
		5,
		because("Suits advanced users"),
	},
}

// ResolveArchetype maps a persona onto a rule table key using its id, then its primary
// use case. Returns "" when neither names a known archetype.
func ResolveArchetype(persona *domain.Persona) string {
	for _, source := range []string{persona.ID, persona.PrimaryUseCase} {
		for _, word := range strings.Fields(normalizeKeyword(source)) {
			if archetype, ok := archetypeAliases[word]; ok {
				return archetype
			}
		}
	}
	return ""
}

// PersonaMatcher ranks catalog products for a persona
type PersonaMatcher struct {
	attrs AttributeSource
}

// NewPersonaMatcher creates a matcher. A nil attrs extracts on every call.
func NewPersonaMatcher(attrs AttributeSource) *PersonaMatcher {
	if attrs == nil {
		attrs = DirectExtractor
	}
	return &PersonaMatcher{attrs: attrs}
}

// Match scores every product, including zero scores, and returns them sorted by score
// descending then product id
func (m *PersonaMatcher) Match(persona *domain.Persona, products []domain.Product) []domain.PersonaMatch {
	rules := append(append([]personaRule{}, archetypeRules[ResolveArchetype(persona)]...), sharedPersonaRules...)

	matches := make([]domain.PersonaMatch, 0, len(products))
	for i := range products {
		subject := &matchSubject{
			persona: persona,
			product: &products[i],
			attrs:   m.attrs.Attributes(&products[i]),
		}

		score := 0
		reasons := []string{}
		for _, rule := range rules {
			if !rule.applies(subject) {
				continue
			}
			score += rule.points
			reasons = append(reasons, rule.reason(subject))
		}

		matches = append(matches, domain.PersonaMatch{
			ProductID:  products[i].ID,
			Product:    products[i],
			MatchScore: clampScore(score),
			Reasons:    reasons,
		})
	}

	return rankAndLimit(matches, func(pm domain.PersonaMatch) rankKey {
		return rankKey{id: pm.ProductID, score: pm.MatchScore}
	}, 0)
}

// MatchPersona ranks the whole catalog for a persona
func MatchPersona(persona *domain.Persona, catalog *domain.Catalog) []domain.PersonaMatch {
	if persona == nil || catalog == nil {
		return []domain.PersonaMatch{}
	}
	return NewPersonaMatcher(newRequestMemo(nil)).Match(persona, catalog.Products)
}
