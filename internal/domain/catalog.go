package domain

import "time"

// Brand carries per-brand facts used by cross-brand comparisons
type Brand struct {
	Name        string  `json:"name" validate:"required"`
	MarketShare float64 `json:"marketShare" validate:"gte=0,lte=100"`
}

// Catalog is an immutable snapshot handed to the engine for one request
type Catalog struct {
	Version        string          `json:"version"`
	LoadedAt       time.Time       `json:"loadedAt"`
	Products       []Product       `json:"products"`
	Brands         []Brand         `json:"brands"`
	Personas       []Persona       `json:"personas"`
	AuthoredScores []AuthoredScore `json:"authoredScores"`
}

// FindProduct returns the product with the given id
func (c *Catalog) FindProduct(id string) (*Product, bool) {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i], true
		}
	}
	return nil, false
}

// FindPersona returns the persona with the given id
func (c *Catalog) FindPersona(id string) (*Persona, bool) {
	for i := range c.Personas {
		if c.Personas[i].ID == id {
			return &c.Personas[i], true
		}
	}
	return nil, false
}

// MarketShares indexes brand market share by brand name
func (c *Catalog) MarketShares() map[string]float64 {
	shares := make(map[string]float64, len(c.Brands))
	for _, b := range c.Brands {
		shares[b.Name] = b.MarketShare
	}
	return shares
}
