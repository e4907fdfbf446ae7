package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/validation"
)

// MapToCatalog converts a decoded document into an immutable domain snapshot.
// Every product, brand, persona and authored score is validated; the first
// violation aborts the mapping with ErrInvalidCatalog.
func MapToCatalog(doc *Document, loadedAt time.Time) (*domain.Catalog, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidCatalog)
	}

	products, err := mapProducts(doc.Products)
	if err != nil {
		return nil, err
	}

	brands, err := mapBrands(doc.Brands)
	if err != nil {
		return nil, err
	}

	personas, err := mapPersonas(doc.Personas)
	if err != nil {
		return nil, err
	}

	scores, err := mapAuthoredScores(doc.Rankings, products)
	if err != nil {
		return nil, err
	}

	return &domain.Catalog{
		Version:        uuid.NewString(),
		LoadedAt:       loadedAt,
		Products:       products,
		Brands:         brands,
		Personas:       personas,
		AuthoredScores: scores,
	}, nil
}

func mapProducts(docs []ProductDocument) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))

	for i, d := range docs {
		p := mapProduct(d)
		if err := validation.ValidateStruct(&p); err != nil {
			return nil, fmt.Errorf("%w: product %d (%q): %v", domain.ErrInvalidCatalog, i, p.ID, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", domain.ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}

	return products, nil
}

func mapProduct(d ProductDocument) domain.Product {
	s := d.Specifications
	return domain.Product{
		ID:             strings.TrimSpace(d.ID),
		Name:           strings.TrimSpace(d.Name),
		Brand:          strings.TrimSpace(d.Brand),
		Category:       domain.Category(strings.TrimSpace(d.Category)),
		Price:          d.Price,
		OriginalPrice:  d.OriginalPrice,
		Rating:         d.Rating,
		ReviewCount:    d.ReviewCount,
		UseCases:       cleanTags(d.UseCases),
		TargetAudience: cleanTags(d.TargetAudience),
		Specifications: domain.Specifications{
			Display: domain.DisplaySpecs{
				FOV:         strings.TrimSpace(s.Display.FOV),
				Brightness:  strings.TrimSpace(s.Display.Brightness),
				Resolution:  strings.TrimSpace(s.Display.Resolution),
				RefreshRate: strings.TrimSpace(s.Display.RefreshRate),
				Latency:     strings.TrimSpace(s.Display.Latency),
			},
			Design: domain.DesignSpecs{
				Weight:   strings.TrimSpace(s.Design.Weight),
				Material: strings.TrimSpace(s.Design.Material),
			},
			Audio: domain.AudioSpecs{
				Speakers:    strings.TrimSpace(s.Audio.Speakers),
				Microphones: strings.TrimSpace(s.Audio.Microphones),
			},
			Connectivity: domain.ConnectivitySpecs{
				Ports:    strings.TrimSpace(s.Connectivity.Ports),
				Wireless: strings.TrimSpace(s.Connectivity.Wireless),
			},
			Features: cleanTags(s.Features),
		},
	}
}

// cleanTags trims entries and drops blanks. Returns nil when nothing is left.
func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func mapBrands(docs []BrandDocument) ([]domain.Brand, error) {
	brands := make([]domain.Brand, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))

	for _, d := range docs {
		b := domain.Brand{Name: strings.TrimSpace(d.Name), MarketShare: d.MarketShare}
		if err := validation.ValidateStruct(&b); err != nil {
			return nil, fmt.Errorf("%w: brand %q: %v", domain.ErrInvalidCatalog, b.Name, err)
		}
		if _, dup := seen[b.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate brand %q", domain.ErrInvalidCatalog, b.Name)
		}
		seen[b.Name] = struct{}{}
		brands = append(brands, b)
	}

	return brands, nil
}

func mapPersonas(docs []PersonaDocument) ([]domain.Persona, error) {
	personas := make([]domain.Persona, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))

	for _, d := range docs {
		p := domain.Persona{
			ID:                 strings.TrimSpace(d.ID),
			Name:               strings.TrimSpace(d.Name),
			Budget:             domain.BudgetRange{Min: d.BudgetMin, Max: d.BudgetMax},
			TechnicalExpertise: strings.ToLower(strings.TrimSpace(d.TechnicalExpertise)),
			PrimaryUseCase:     strings.TrimSpace(d.PrimaryUseCase),
		}
		for _, pr := range cleanTags(d.Priorities) {
			p.Priorities = append(p.Priorities, domain.Priority(strings.ToLower(pr)))
		}

		if p.ID == "" {
			return nil, fmt.Errorf("%w: persona %q has no id", domain.ErrInvalidCatalog, p.Name)
		}
		if err := validation.ValidateStruct(&p); err != nil {
			return nil, fmt.Errorf("%w: persona %q: %v", domain.ErrInvalidCatalog, p.ID, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate persona id %q", domain.ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = struct{}{}
		personas = append(personas, p)
	}

	return personas, nil
}

// mapAuthoredScores flattens the per-criterion lists in criterion order.
// Scores must reference products present in the same document.
func mapAuthoredScores(rankings map[string][]ScoreDocument, products []domain.Product) ([]domain.AuthoredScore, error) {
	known := make(map[string]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}

	criteria := make([]string, 0, len(rankings))
	for criterion := range rankings {
		criteria = append(criteria, criterion)
	}
	sort.Strings(criteria)

	var scores []domain.AuthoredScore
	seen := make(map[string]struct{})

	for _, criterion := range criteria {
		name := strings.TrimSpace(criterion)
		for _, d := range rankings[criterion] {
			s := domain.AuthoredScore{
				ProductID:     strings.TrimSpace(d.ProductID),
				Criterion:     name,
				Score:         d.Score,
				Justification: strings.TrimSpace(d.Justification),
			}
			if err := validation.ValidateStruct(&s); err != nil {
				return nil, fmt.Errorf("%w: ranking %q: %v", domain.ErrInvalidCatalog, name, err)
			}
			if _, ok := known[s.ProductID]; !ok {
				return nil, fmt.Errorf("%w: ranking %q references unknown product %q", domain.ErrInvalidCatalog, name, s.ProductID)
			}
			key := name + "\x00" + s.ProductID
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("%w: ranking %q lists product %q twice", domain.ErrInvalidCatalog, name, s.ProductID)
			}
			seen[key] = struct{}{}
			scores = append(scores, s)
		}
	}

	return scores, nil
}
