package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/logging"
	"github.com/speclens/backend/internal/metrics"
	"github.com/speclens/backend/internal/validation"
)

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	CacheTTL time.Duration
	Limits   domain.RelationshipLimits
}

// RecommendationService loads catalog snapshots and runs the engine against them
type RecommendationService struct {
	catalog  domain.CatalogRepository
	cache    domain.CacheRepository
	cacheTTL time.Duration
	limits   domain.RelationshipLimits
	weights  SimilarityWeights
}

// NewRecommendationService creates a new recommendation service. cache may be nil,
// in which case attributes are only memoized per request.
func NewRecommendationService(
	catalog domain.CatalogRepository,
	cache domain.CacheRepository,
	config RecommendationServiceConfig,
) *RecommendationService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &RecommendationService{
		catalog:  catalog,
		cache:    cache,
		cacheTTL: cacheTTL,
		limits:   config.Limits,
		weights:  DefaultSimilarityWeights(),
	}
}

// Comparison is a head-to-head view of two products
type Comparison struct {
	Anchor              domain.Product             `json:"anchor"`
	Candidate           domain.Product             `json:"candidate"`
	AnchorAttributes    domain.ExtractedAttributes `json:"anchorAttributes"`
	CandidateAttributes domain.ExtractedAttributes `json:"candidateAttributes"`
	Similarity          SimilarityResult           `json:"similarity"`
	Relationships       []domain.Recommendation    `json:"relationships"`
}

// CriterionRanking is one criterion's leaderboard with its winner
type CriterionRanking struct {
	Criterion    string               `json:"criterion"`
	TopPerformer domain.RankedEntry   `json:"topPerformer"`
	Entries      []domain.RankedEntry `json:"entries"`
}

// RankingOverview collects every leaderboard and the combined standings
type RankingOverview struct {
	Criteria      []string                        `json:"criteria"`
	Leaderboards  map[string][]domain.RankedEntry `json:"leaderboards"`
	Standings     []domain.OverallStanding        `json:"standings"`
	OverallLeader *domain.OverallStanding         `json:"overallLeader,omitempty"`
}

// snapshot fetches the current catalog
func (s *RecommendationService) snapshot(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	catalog, err := s.catalog.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) || errors.Is(err, domain.ErrInvalidCatalog) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return catalog, nil
}

// attributes builds the attribute source for one request
func (s *RecommendationService) attributes(ctx context.Context, catalog *domain.Catalog) AttributeSource {
	if s.cache == nil {
		return newRequestMemo(nil)
	}
	return newRequestMemo(&cachedExtractor{
		ctx:     ctx,
		cache:   s.cache,
		version: catalog.Version,
		ttl:     s.cacheTTL,
	})
}

func lookupProduct(catalog *domain.Catalog, id string) (*domain.Product, error) {
	product, ok := catalog.FindProduct(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return product, nil
}

// mergeLimits fills unset request limits from the service defaults
func (s *RecommendationService) mergeLimits(requested domain.RelationshipLimits) domain.RelationshipLimits {
	pick := func(req, configured int) int {
		if req > 0 {
			return req
		}
		return configured
	}
	return domain.RelationshipLimits{
		Similar:     pick(requested.Similar, s.limits.Similar),
		Alternative: pick(requested.Alternative, s.limits.Alternative),
		Upgrade:     pick(requested.Upgrade, s.limits.Upgrade),
		Downgrade:   pick(requested.Downgrade, s.limits.Downgrade),
		CrossBrand:  pick(requested.CrossBrand, s.limits.CrossBrand),
	}
}

// Products lists catalog products, optionally filtered by category and brand
func (s *RecommendationService) Products(ctx context.Context, category, brand string) ([]domain.Product, error) {
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(catalog.Products))
	for _, p := range catalog.Products {
		if category != "" && string(p.Category) != category {
			continue
		}
		if brand != "" && p.Brand != brand {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// Product returns a single product by id
func (s *RecommendationService) Product(ctx context.Context, id string) (*domain.Product, error) {
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	product, err := lookupProduct(catalog, id)
	if err != nil {
		return nil, err
	}
	out := *product
	return &out, nil
}

// RelatedProducts classifies the catalog around a product. Zero limits fall back to the
// configured ones.
func (s *RecommendationService) RelatedProducts(
	ctx context.Context,
	id string,
	limits domain.RelationshipLimits,
) (map[domain.RelationshipKind][]domain.Recommendation, error) {
	started := time.Now()

	catalog, err := s.snapshot(ctx)
	if err != nil {
		metrics.ObserveOperation("classify", metrics.OutcomeError, started)
		return nil, err
	}
	anchor, err := lookupProduct(catalog, id)
	if err != nil {
		metrics.ObserveOperation("classify", metrics.OutcomeError, started)
		return nil, err
	}

	classifier := NewRelationshipClassifier(s.weights, catalog.MarketShares(), s.attributes(ctx, catalog))
	related := classifier.Classify(anchor, catalog.Products, s.mergeLimits(limits))

	outcome := metrics.OutcomeSuccess
	if len(related) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	for kind, recs := range related {
		metrics.RecommendationsReturned.WithLabelValues(string(kind)).Add(float64(len(recs)))
	}
	metrics.ObserveOperation("classify", outcome, started)

	logging.Debug().
		Str("product_id", id).
		Int("kinds", len(related)).
		Str("catalog_version", catalog.Version).
		Dur("duration", time.Since(started)).
		Msg("Classified related products")

	return related, nil
}

// BudgetAlternatives finds the cheaper, pricier and similarly priced picks for a product
func (s *RecommendationService) BudgetAlternatives(ctx context.Context, id string) (domain.BudgetAlternatives, error) {
	started := time.Now()

	catalog, err := s.snapshot(ctx)
	if err != nil {
		metrics.ObserveOperation("budget_alternatives", metrics.OutcomeError, started)
		return domain.BudgetAlternatives{}, err
	}
	anchor, err := lookupProduct(catalog, id)
	if err != nil {
		metrics.ObserveOperation("budget_alternatives", metrics.OutcomeError, started)
		return domain.BudgetAlternatives{}, err
	}

	alternatives := FindBudgetAlternatives(anchor, catalog)

	outcome := metrics.OutcomeSuccess
	if alternatives.Empty() {
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveOperation("budget_alternatives", outcome, started)
	return alternatives, nil
}

// Compare scores two distinct products against each other
func (s *RecommendationService) Compare(ctx context.Context, id, otherID string) (*Comparison, error) {
	if id == otherID {
		return nil, fmt.Errorf("%w: %s", domain.ErrSelfComparison, id)
	}

	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	anchor, err := lookupProduct(catalog, id)
	if err != nil {
		return nil, err
	}
	candidate, err := lookupProduct(catalog, otherID)
	if err != nil {
		return nil, err
	}

	attrs := s.attributes(ctx, catalog)
	scorer := NewSimilarityScorer(s.weights, attrs)
	classifier := NewRelationshipClassifier(s.weights, catalog.MarketShares(), attrs)

	relationships := classifier.Relate(anchor, candidate)
	if relationships == nil {
		relationships = []domain.Recommendation{}
	}

	return &Comparison{
		Anchor:              *anchor,
		Candidate:           *candidate,
		AnchorAttributes:    attrs.Attributes(anchor),
		CandidateAttributes: attrs.Attributes(candidate),
		Similarity:          scorer.Score(anchor, candidate),
		Relationships:       relationships,
	}, nil
}

// Personas returns the catalog's predefined personas
func (s *RecommendationService) Personas(ctx context.Context) ([]domain.Persona, error) {
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	personas := make([]domain.Persona, len(catalog.Personas))
	copy(personas, catalog.Personas)
	return personas, nil
}

// MatchPersona validates a caller supplied persona and ranks the catalog for it.
// A limit <= 0 returns every product.
func (s *RecommendationService) MatchPersona(ctx context.Context, persona *domain.Persona, limit int) ([]domain.PersonaMatch, error) {
	if persona == nil {
		return nil, fmt.Errorf("%w: persona is required", domain.ErrInvalidPersona)
	}
	if err := validation.ValidateStruct(persona); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPersona, err)
	}

	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.matchPersona(ctx, catalog, persona, limit)
}

// MatchPersonaByID ranks the catalog for one of its predefined personas
func (s *RecommendationService) MatchPersonaByID(ctx context.Context, id string, limit int) ([]domain.PersonaMatch, error) {
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	persona, ok := catalog.FindPersona(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPersonaNotFound, id)
	}
	return s.matchPersona(ctx, catalog, persona, limit)
}

func (s *RecommendationService) matchPersona(ctx context.Context, catalog *domain.Catalog, persona *domain.Persona, limit int) ([]domain.PersonaMatch, error) {
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := NewPersonaMatcher(s.attributes(ctx, catalog)).Match(persona, catalog.Products)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	outcome := metrics.OutcomeSuccess
	if len(matches) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveOperation("match_persona", outcome, started)

	logging.Debug().
		Str("persona", persona.Name).
		Str("archetype", ResolveArchetype(persona)).
		Int("matches", len(matches)).
		Msg("Matched persona against catalog")

	return matches, nil
}

func (s *RecommendationService) ranking(ctx context.Context) (*CompetitiveRanking, error) {
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ranking, err := NewCompetitiveRanking(catalog.AuthoredScores)
	if err != nil {
		logging.Error().Err(err).Str("catalog_version", catalog.Version).Msg("Catalog carries invalid authored scores")
		return nil, err
	}
	return ranking, nil
}

// Rankings returns every leaderboard plus the combined standings
func (s *RecommendationService) Rankings(ctx context.Context) (*RankingOverview, error) {
	started := time.Now()

	ranking, err := s.ranking(ctx)
	if err != nil {
		metrics.ObserveOperation("rankings", metrics.OutcomeError, started)
		return nil, err
	}

	overview := &RankingOverview{
		Criteria:     ranking.Criteria(),
		Leaderboards: ranking.Leaderboards(),
		Standings:    ranking.Standings(),
	}
	if leader, err := ranking.OverallLeader(); err == nil {
		overview.OverallLeader = &leader
	}

	outcome := metrics.OutcomeSuccess
	if len(overview.Criteria) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveOperation("rankings", outcome, started)
	return overview, nil
}

// RankingFor returns one criterion's leaderboard
func (s *RecommendationService) RankingFor(ctx context.Context, criterion string) (*CriterionRanking, error) {
	ranking, err := s.ranking(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := ranking.Rank(criterion)
	if err != nil {
		return nil, err
	}
	top, err := ranking.TopPerformer(criterion)
	if err != nil {
		return nil, err
	}
	return &CriterionRanking{Criterion: criterion, TopPerformer: top, Entries: entries}, nil
}

// OverallLeader returns the product with the lowest combined rank across criteria
func (s *RecommendationService) OverallLeader(ctx context.Context) (domain.OverallStanding, error) {
	ranking, err := s.ranking(ctx)
	if err != nil {
		return domain.OverallStanding{}, err
	}
	return ranking.OverallLeader()
}
