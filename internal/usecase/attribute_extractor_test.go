package usecase

import (
	"testing"

	"github.com/speclens/backend/internal/domain"
)

func TestParseLeadingNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"57°", 57},
		{"700 nits", 700},
		{"87g", 87},
		{"<20ms", 20},
		{"120Hz", 120},
		{"4.5 hours", 4.5},
		{"1920x1080", 1920},
		{"approx. 3.", 3},
		{"", 0},
		{"N/A", 0},
		{"°", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLeadingNumber(tt.input); got != tt.want {
				t.Errorf("ParseLeadingNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractAttributes(t *testing.T) {
	t.Run("parses every display and design field", func(t *testing.T) {
		p := findProduct(testProducts(), "xreal-one-pro")
		got := ExtractAttributes(p)
		want := domain.ExtractedAttributes{
			FOV:         57,
			Brightness:  700,
			Weight:      87,
			RefreshRate: 120,
			Latency:     3,
			Price:       599,
			Rating:      4.5,
		}
		if got != want {
			t.Errorf("ExtractAttributes() = %+v, want %+v", got, want)
		}
	})

	t.Run("missing fields default to zero", func(t *testing.T) {
		p := &domain.Product{ID: "bare", Price: 100, Rating: 3}
		got := ExtractAttributes(p)
		if got.FOV != 0 || got.Brightness != 0 || got.Weight != 0 || got.RefreshRate != 0 || got.Latency != 0 {
			t.Errorf("expected zero spec attributes, got %+v", got)
		}
		if got.Price != 100 || got.Rating != 3 {
			t.Errorf("price/rating = %v/%v, want 100/3", got.Price, got.Rating)
		}
	})

	t.Run("nil product yields zero value", func(t *testing.T) {
		if got := ExtractAttributes(nil); got != (domain.ExtractedAttributes{}) {
			t.Errorf("ExtractAttributes(nil) = %+v, want zero", got)
		}
	})
}

func TestRequestMemo(t *testing.T) {
	calls := 0
	counting := ExtractorFunc(func(p *domain.Product) domain.ExtractedAttributes {
		calls++
		return ExtractAttributes(p)
	})

	memo := newRequestMemo(counting)
	products := testProducts()

	first := memo.Attributes(&products[0])
	second := memo.Attributes(&products[0])
	memo.Attributes(&products[1])

	if first != second {
		t.Errorf("memoized attributes differ: %+v vs %+v", first, second)
	}
	if calls != 2 {
		t.Errorf("extractor called %d times, want 2", calls)
	}
}
