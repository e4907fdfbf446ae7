package domain

// Category is the closed set of catalog segments a product is listed under
type Category string

const (
	CategoryPremium      Category = "Premium"
	CategoryMidRange     Category = "Mid-range"
	CategoryBudget       Category = "Budget"
	CategoryGaming       Category = "Gaming"
	CategoryProfessional Category = "Professional"
	CategoryEveryday     Category = "Everyday"
	CategoryDeveloper    Category = "Developer"
	CategorySpecialized  Category = "Specialized"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryPremium,
	CategoryMidRange,
	CategoryBudget,
	CategoryGaming,
	CategoryProfessional,
	CategoryEveryday,
	CategoryDeveloper,
	CategorySpecialized,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product is a single catalog entry. Products are read-only once loaded.
type Product struct {
	ID             string         `json:"id" validate:"required"`
	Name           string         `json:"name" validate:"required"`
	Brand          string         `json:"brand" validate:"required"`
	Category       Category       `json:"category" validate:"required,oneof=Premium Mid-range Budget Gaming Professional Everyday Developer Specialized"`
	Price          float64        `json:"price" validate:"gt=0"`
	OriginalPrice  float64        `json:"originalPrice,omitempty" validate:"gte=0"`
	Rating         float64        `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount    int            `json:"reviewCount,omitempty" validate:"gte=0"`
	UseCases       []string       `json:"useCases,omitempty"`
	TargetAudience []string       `json:"targetAudience,omitempty"`
	Specifications Specifications `json:"specifications"`
}

// Specifications groups the string-encoded technical fields by domain.
// Every field is either empty (absent) or a non-empty string such as "57°" or "700 nits".
type Specifications struct {
	Display      DisplaySpecs      `json:"display"`
	Design       DesignSpecs       `json:"design"`
	Audio        AudioSpecs        `json:"audio"`
	Connectivity ConnectivitySpecs `json:"connectivity"`
	Features     []string          `json:"features,omitempty"`
}

// DisplaySpecs holds optics and panel fields
type DisplaySpecs struct {
	FOV         string `json:"fov,omitempty"`
	Brightness  string `json:"brightness,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	RefreshRate string `json:"refreshRate,omitempty"`
	Latency     string `json:"latency,omitempty"`
}

// DesignSpecs holds physical build fields
type DesignSpecs struct {
	Weight   string `json:"weight,omitempty"`
	Material string `json:"material,omitempty"`
}

// AudioSpecs holds speaker and microphone fields
type AudioSpecs struct {
	Speakers    string `json:"speakers,omitempty"`
	Microphones string `json:"microphones,omitempty"`
}

// ConnectivitySpecs holds wired and wireless interface fields
type ConnectivitySpecs struct {
	Ports    string `json:"ports,omitempty"`
	Wireless string `json:"wireless,omitempty"`
}

// ExtractedAttributes is the numeric view of a product used by every scorer.
// Unknown or unparsable fields are 0.
type ExtractedAttributes struct {
	FOV         float64 `json:"fov"`
	Brightness  float64 `json:"brightness"`
	Weight      float64 `json:"weight"`
	RefreshRate float64 `json:"refreshRate"`
	Latency     float64 `json:"latency"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
}

// Discount returns how much cheaper the product is than its original price, or 0
func (p *Product) Discount() float64 {
	if p.OriginalPrice <= p.Price {
		return 0
	}
	return p.OriginalPrice - p.Price
}
