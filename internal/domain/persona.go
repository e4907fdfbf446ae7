package domain

// Priority is a buyer concern a persona weighs when choosing
type Priority string

const (
	PriorityPrice    Priority = "price"
	PriorityDisplay  Priority = "display"
	PriorityAudio    Priority = "audio"
	PriorityFeatures Priority = "features"
	PriorityBuild    Priority = "build"
)

// Expertise levels
const (
	ExpertiseBeginner     = "beginner"
	ExpertiseIntermediate = "intermediate"
	ExpertiseAdvanced     = "advanced"
)

// BudgetRange is an inclusive price window
type BudgetRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtfield=Min"`
}

// Contains reports whether price falls inside the window
func (b BudgetRange) Contains(price float64) bool {
	return price >= b.Min && price <= b.Max
}

// Persona is an abstract buyer profile. Personas are supplied by callers and never stored.
type Persona struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name" validate:"required"`
	Budget             BudgetRange `json:"budget"`
	TechnicalExpertise string      `json:"technicalExpertise" validate:"required,oneof=beginner intermediate advanced"`
	Priorities         []Priority  `json:"priorities" validate:"required,min=1,dive,oneof=price display audio features build"`
	PrimaryUseCase     string      `json:"primaryUseCase"`
}

// HasPriority reports whether the persona lists p
func (p *Persona) HasPriority(priority Priority) bool {
	for _, candidate := range p.Priorities {
		if candidate == priority {
			return true
		}
	}
	return false
}

// PersonaMatch is one ranked product for a persona
type PersonaMatch struct {
	ProductID  string   `json:"productId"`
	Product    Product  `json:"product"`
	MatchScore int      `json:"matchScore"`
	Reasons    []string `json:"reasons"`
}
