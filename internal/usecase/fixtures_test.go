package usecase

import (
	"context"
	"time"

	"github.com/speclens/backend/internal/domain"
)

// testProducts is a small wearable display catalog shared by the engine tests
func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "xreal-one-pro", Name: "XREAL One Pro", Brand: "XREAL", Category: domain.CategoryPremium,
			Price: 599, OriginalPrice: 649, Rating: 4.5, ReviewCount: 1200,
			UseCases:       []string{"productivity", "movies", "travel"},
			TargetAudience: []string{"Professionals", "Frequent travelers"},
			Specifications: domain.Specifications{
				Display:      domain.DisplaySpecs{FOV: "57°", Brightness: "700 nits", Resolution: "1920x1080", RefreshRate: "120Hz", Latency: "3ms"},
				Design:       domain.DesignSpecs{Weight: "87g", Material: "Magnesium alloy"},
				Connectivity: domain.ConnectivitySpecs{Ports: "USB-C"},
				Features:     []string{"Productivity mode", "Spatial screen", "Electrochromic dimming"},
			},
		},
		{
			ID: "xreal-air-2-pro", Name: "XREAL Air 2 Pro", Brand: "XREAL", Category: domain.CategoryPremium,
			Price: 499, Rating: 4.3,
			UseCases:       []string{"movies", "gaming"},
			TargetAudience: []string{"Gamers", "Mobile professionals"},
			Specifications: domain.Specifications{
				Display: domain.DisplaySpecs{FOV: "50°", Brightness: "500 nits", RefreshRate: "120Hz"},
				Design:  domain.DesignSpecs{Weight: "75g"},
			},
		},
		{
			ID: "viture-pro", Name: "VITURE Pro", Brand: "VITURE", Category: domain.CategoryMidRange,
			Price: 459, Rating: 4.4,
			UseCases:       []string{"gaming", "movies"},
			TargetAudience: []string{"Gamers", "Students"},
			Specifications: domain.Specifications{
				Display: domain.DisplaySpecs{FOV: "46°", Brightness: "1000 nits", RefreshRate: "120Hz"},
				Design:  domain.DesignSpecs{Weight: "77g"},
				Audio:   domain.AudioSpecs{Speakers: "Harman tuned"},
			},
		},
		{
			ID: "rokid-max", Name: "Rokid Max", Brand: "Rokid", Category: domain.CategoryGaming,
			Price: 439, Rating: 4.2,
			UseCases:       []string{"gaming", "movies"},
			TargetAudience: []string{"Gamers"},
			Specifications: domain.Specifications{
				Display:  domain.DisplaySpecs{FOV: "50°", Brightness: "600 nits", RefreshRate: "120Hz", Latency: "<20ms"},
				Design:   domain.DesignSpecs{Weight: "75g"},
				Features: []string{"Gaming mode", "Console support"},
			},
		},
		{
			ID: "viture-one-lite", Name: "VITURE One Lite", Brand: "VITURE", Category: domain.CategoryBudget,
			Price: 269, OriginalPrice: 299, Rating: 4.0,
			UseCases:       []string{"movies", "travel"},
			TargetAudience: []string{"Students", "Casual viewers"},
			Specifications: domain.Specifications{
				Display:  domain.DisplaySpecs{FOV: "43°", Brightness: "1000 nits", RefreshRate: "60Hz"},
				Design:   domain.DesignSpecs{Weight: "78g"},
				Features: []string{"Portable design"},
			},
		},
		{
			ID: "rayneo-air-3", Name: "RayNeo Air 3", Brand: "RayNeo", Category: domain.CategoryBudget,
			Price: 299, Rating: 4.1,
			UseCases: []string{"movies"},
			Specifications: domain.Specifications{
				Display: domain.DisplaySpecs{FOV: "47°", Brightness: "650 nits"},
				Design:  domain.DesignSpecs{Weight: "76g"},
			},
		},
		{
			ID: "magic-leap-2", Name: "Magic Leap 2", Brand: "Magic Leap", Category: domain.CategoryProfessional,
			Price: 3299, Rating: 4.4,
			UseCases:       []string{"enterprise", "training"},
			TargetAudience: []string{"Enterprise professionals"},
			Specifications: domain.Specifications{
				Display: domain.DisplaySpecs{FOV: "70°", Brightness: "2000 nits"},
				Design:  domain.DesignSpecs{Weight: "260g"},
			},
		},
		{
			ID: "viture-beast", Name: "VITURE Beast", Brand: "VITURE", Category: domain.CategoryPremium,
			Price: 899, Rating: 4.5,
			Specifications: domain.Specifications{
				Display: domain.DisplaySpecs{FOV: "58°", Brightness: "1250 nits"},
				Design:  domain.DesignSpecs{Weight: "98g"},
			},
		},
		{
			ID: "rokid-ar-spatial", Name: "Rokid AR Spatial", Brand: "Rokid", Category: domain.CategoryPremium,
			Price: 649, Rating: 4.6,
			Specifications: domain.Specifications{
				Display: domain.DisplaySpecs{FOV: "50°", Brightness: "600 nits"},
				Design:  domain.DesignSpecs{Weight: "75g"},
			},
		},
	}
}

func testAuthoredScores() []domain.AuthoredScore {
	return []domain.AuthoredScore{
		{ProductID: "xreal-one-pro", Criterion: "display", Score: 92, Justification: "Sony micro-OLED panel"},
		{ProductID: "viture-pro", Criterion: "display", Score: 92, Justification: "Bright and sharp"},
		{ProductID: "rokid-max", Criterion: "display", Score: 85, Justification: "Good for the price"},
		{ProductID: "viture-one-lite", Criterion: "value", Score: 95, Justification: "Lowest entry price"},
		{ProductID: "rokid-max", Criterion: "value", Score: 88, Justification: "Strong gaming value"},
		{ProductID: "xreal-one-pro", Criterion: "value", Score: 70, Justification: "Premium pricing"},
		{ProductID: "magic-leap-2", Criterion: "build", Score: 95, Justification: "Enterprise grade"},
		{ProductID: "xreal-one-pro", Criterion: "build", Score: 90, Justification: "Magnesium frame"},
	}
}

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Version:  "v1",
		LoadedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Products: testProducts(),
		Brands: []domain.Brand{
			{Name: "XREAL", MarketShare: 45},
			{Name: "VITURE", MarketShare: 20},
			{Name: "Rokid", MarketShare: 12},
			{Name: "RayNeo", MarketShare: 10},
			{Name: "Magic Leap", MarketShare: 5},
		},
		Personas: []domain.Persona{
			{
				ID: "budget-conscious", Name: "Budget Buyer",
				Budget:             domain.BudgetRange{Min: 200, Max: 400},
				TechnicalExpertise: domain.ExpertiseIntermediate,
				Priorities:         []domain.Priority{domain.PriorityPrice},
				PrimaryUseCase:     "movies",
			},
			{
				ID: "professional", Name: "Remote Professional",
				Budget:             domain.BudgetRange{Min: 400, Max: 1500},
				TechnicalExpertise: domain.ExpertiseAdvanced,
				Priorities:         []domain.Priority{domain.PriorityDisplay, domain.PriorityBuild},
				PrimaryUseCase:     "productivity",
			},
		},
		AuthoredScores: testAuthoredScores(),
	}
}

func findProduct(products []domain.Product, id string) *domain.Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}

// MockCatalogRepository is a mock implementation of domain.CatalogRepository
type MockCatalogRepository struct {
	catalog *domain.Catalog
	err     error
	calls   int
}

func (m *MockCatalogRepository) Snapshot(ctx context.Context) (*domain.Catalog, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.catalog, nil
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data     map[string][]byte
	setError error
	gets     int
	sets     int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.gets++
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.sets++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}
