package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/logging"
	"github.com/speclens/backend/internal/usecase"
	"github.com/speclens/backend/internal/validation"
)

const (
	serviceName    = "speclens-backend"
	serviceVersion = "1.0.0"
)

// RecommendationEngine is the use case surface served over HTTP
type RecommendationEngine interface {
	Products(ctx context.Context, category, brand string) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	RelatedProducts(ctx context.Context, id string, limits domain.RelationshipLimits) (map[domain.RelationshipKind][]domain.Recommendation, error)
	BudgetAlternatives(ctx context.Context, id string) (domain.BudgetAlternatives, error)
	Compare(ctx context.Context, id, otherID string) (*usecase.Comparison, error)
	Personas(ctx context.Context) ([]domain.Persona, error)
	MatchPersona(ctx context.Context, persona *domain.Persona, limit int) ([]domain.PersonaMatch, error)
	MatchPersonaByID(ctx context.Context, id string, limit int) ([]domain.PersonaMatch, error)
	Rankings(ctx context.Context) (*usecase.RankingOverview, error)
	RankingFor(ctx context.Context, criterion string) (*usecase.CriterionRanking, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	engine RecommendationEngine
}

// NewHandler creates a new HTTP handler
func NewHandler(engine RecommendationEngine) *Handler {
	return &Handler{engine: engine}
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error     string                  `json:"error"`
	Details   []validation.FieldError `json:"details,omitempty"`
	RequestID string                  `json:"requestId,omitempty"`
}

// ProductListResponse wraps a product listing
type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

// RelatedProductsResponse groups recommendations by relationship kind
type RelatedProductsResponse struct {
	ProductID     string                                              `json:"productId"`
	Relationships map[domain.RelationshipKind][]domain.Recommendation `json:"relationships"`
}

// PersonaListResponse wraps the predefined personas
type PersonaListResponse struct {
	Personas []domain.Persona `json:"personas"`
}

// PersonaMatchResponse wraps ranked persona matches
type PersonaMatchResponse struct {
	Persona string                `json:"persona"`
	Matches []domain.PersonaMatch `json:"matches"`
}

// PersonaMatchRequest is the body of POST /personas/match
type PersonaMatchRequest struct {
	Persona domain.Persona `json:"persona"`
	Limit   int            `json:"limit"`
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidPersona),
		errors.Is(err, domain.ErrSelfComparison):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrPersonaNotFound),
		errors.Is(err, domain.ErrCriterionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCatalogUnavailable),
		errors.Is(err, domain.ErrInvalidCatalog),
		errors.Is(err, domain.ErrInvalidAuthoredScore):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON with the mapped status and aborts the chain
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error(), RequestID: requestID(c)}

	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		resp.Details = verr.Fields
	}

	if status >= http.StatusInternalServerError {
		logging.Error().Err(err).Str("request_id", resp.RequestID).Int("status", status).Msg("Request failed")
		if status == http.StatusInternalServerError {
			resp.Error = "internal server error"
		}
	}

	c.AbortWithStatusJSON(status, resp)
}

// ready answers 503 when no engine is wired
func (h *Handler) ready(c *gin.Context) bool {
	if h.engine == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:     "recommendation service not configured",
			RequestID: requestID(c),
		})
		return false
	}
	return true
}

// queryInt parses an optional non-negative integer query parameter
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, validationError(name, "min", "0", name+" must be a non-negative integer")
	}
	return n, nil
}

// validationError builds an ErrInvalidRequest carrying one field error
func validationError(field, tag, param, message string) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, &validation.RequestValidationError{
		Fields: []validation.FieldError{{Field: field, Tag: tag, Param: param, Message: message}},
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ListProducts handles GET /products?category=&brand=
func (h *Handler) ListProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	category := c.Query("category")
	if category != "" && !domain.Category(category).Valid() {
		respondError(c, validationError("category", "oneof", "", "category must be a known catalog category"))
		return
	}

	products, err := h.engine.Products(c.Request.Context(), category, c.Query("brand"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProductListResponse{Products: products, Count: len(products)})
}

// GetProduct handles GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	product, err := h.engine.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// RelatedProducts handles GET /products/:id/related
func (h *Handler) RelatedProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var limits domain.RelationshipLimits
	for _, q := range []struct {
		name string
		dst  *int
	}{
		{"similar", &limits.Similar},
		{"alternative", &limits.Alternative},
		{"upgrade", &limits.Upgrade},
		{"downgrade", &limits.Downgrade},
		{"crossBrand", &limits.CrossBrand},
	} {
		n, err := queryInt(c, q.name)
		if err != nil {
			respondError(c, err)
			return
		}
		*q.dst = n
	}

	id := c.Param("id")
	related, err := h.engine.RelatedProducts(c.Request.Context(), id, limits)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RelatedProductsResponse{ProductID: id, Relationships: related})
}

// BudgetAlternatives handles GET /products/:id/alternatives
func (h *Handler) BudgetAlternatives(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	alternatives, err := h.engine.BudgetAlternatives(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, alternatives)
}

// Compare handles GET /products/:id/compare/:otherId
func (h *Handler) Compare(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	comparison, err := h.engine.Compare(c.Request.Context(), c.Param("id"), c.Param("otherId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// ListPersonas handles GET /personas
func (h *Handler) ListPersonas(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	personas, err := h.engine.Personas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PersonaListResponse{Personas: personas})
}

// PersonaMatches handles GET /personas/:id/matches?limit=
func (h *Handler) PersonaMatches(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, err)
		return
	}

	id := c.Param("id")
	matches, err := h.engine.MatchPersonaByID(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PersonaMatchResponse{Persona: id, Matches: matches})
}

// MatchPersona handles POST /personas/match with a caller supplied persona
func (h *Handler) MatchPersona(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req PersonaMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validationError("body", "json", "", "request body must be a JSON persona: "+err.Error()))
		return
	}
	if req.Limit < 0 {
		respondError(c, validationError("limit", "min", "0", "limit must be a non-negative integer"))
		return
	}

	matches, err := h.engine.MatchPersona(c.Request.Context(), &req.Persona, req.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PersonaMatchResponse{Persona: req.Persona.Name, Matches: matches})
}

// Rankings handles GET /rankings
func (h *Handler) Rankings(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	overview, err := h.engine.Rankings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// RankingFor handles GET /rankings/:criterion
func (h *Handler) RankingFor(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	ranking, err := h.engine.RankingFor(c.Request.Context(), c.Param("criterion"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ranking)
}
