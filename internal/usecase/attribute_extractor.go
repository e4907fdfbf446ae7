package usecase

import (
	"regexp"
	"strconv"

	"github.com/speclens/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var leadingNumberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

// AttributeSource resolves the numeric attributes of a product.
// Implementations may memoize but must return the same values ExtractAttributes would.
type AttributeSource interface {
	Attributes(p *domain.Product) domain.ExtractedAttributes
}

// ExtractorFunc adapts a plain function to AttributeSource
type ExtractorFunc func(p *domain.Product) domain.ExtractedAttributes

// Attributes calls f(p)
func (f ExtractorFunc) Attributes(p *domain.Product) domain.ExtractedAttributes {
	return f(p)
}

// DirectExtractor extracts on every call without caching
var DirectExtractor AttributeSource = ExtractorFunc(ExtractAttributes)

// ExtractAttributes derives the numeric view of a product from its spec strings.
// Missing or unparsable fields become 0; this never fails.
func ExtractAttributes(p *domain.Product) domain.ExtractedAttributes {
	if p == nil {
		return domain.ExtractedAttributes{}
	}
	specs := p.Specifications
	return domain.ExtractedAttributes{
		FOV:         ParseLeadingNumber(specs.Display.FOV),
		Brightness:  ParseLeadingNumber(specs.Display.Brightness),
		Weight:      ParseLeadingNumber(specs.Design.Weight),
		RefreshRate: ParseLeadingNumber(specs.Display.RefreshRate),
		Latency:     ParseLeadingNumber(specs.Display.Latency),
		Price:       p.Price,
		Rating:      p.Rating,
	}
}

// ParseLeadingNumber returns the first run of digits (with optional decimal part) in s,
// e.g. "57°" -> 57, "700 nits" -> 700, "<20ms" -> 20. Returns 0 when s has no digits.
func ParseLeadingNumber(s string) float64 {
	match := leadingNumberRegex.FindString(s)
	if match == "" {
		return 0
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return value
}

// requestMemo memoizes extraction for the lifetime of one request
type requestMemo struct {
	next   AttributeSource
	values map[string]domain.ExtractedAttributes
}

// newRequestMemo wraps next with a per-request map keyed by product id.
// Not safe for concurrent use; each request builds its own.
func newRequestMemo(next AttributeSource) *requestMemo {
	if next == nil {
		next = DirectExtractor
	}
	return &requestMemo{next: next, values: make(map[string]domain.ExtractedAttributes)}
}

func (m *requestMemo) Attributes(p *domain.Product) domain.ExtractedAttributes {
	if v, ok := m.values[p.ID]; ok {
		return v
	}
	v := m.next.Attributes(p)
	m.values[p.ID] = v
	return v
}
