// Package catalog loads catalog documents from disk or from a remote Catalog Store
// and maps them onto immutable domain snapshots.
package catalog

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/speclens/backend/internal/domain"
)

// Format is the encoding of a catalog document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the document format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported catalog file extension %q", domain.ErrInvalidCatalog, filepath.Ext(path))
	}
}

// Document is the wire shape of a catalog as authored by editors
type Document struct {
	Products []ProductDocument          `json:"products" yaml:"products"`
	Brands   []BrandDocument            `json:"brands" yaml:"brands"`
	Personas []PersonaDocument          `json:"personas" yaml:"personas"`
	Rankings map[string][]ScoreDocument `json:"rankings" yaml:"rankings"`
}

// ProductDocument is one catalog entry on the wire
type ProductDocument struct {
	ID             string                `json:"id" yaml:"id"`
	Name           string                `json:"name" yaml:"name"`
	Brand          string                `json:"brand" yaml:"brand"`
	Category       string                `json:"category" yaml:"category"`
	Price          float64               `json:"price" yaml:"price"`
	OriginalPrice  float64               `json:"originalPrice" yaml:"originalPrice"`
	Rating         float64               `json:"rating" yaml:"rating"`
	ReviewCount    int                   `json:"reviewCount" yaml:"reviewCount"`
	UseCases       []string              `json:"useCases" yaml:"useCases"`
	TargetAudience []string              `json:"targetAudience" yaml:"targetAudience"`
	Specifications SpecificationDocument `json:"specifications" yaml:"specifications"`
}

// SpecificationDocument groups the string encoded technical fields
type SpecificationDocument struct {
	Display struct {
		FOV         string `json:"fov" yaml:"fov"`
		Brightness  string `json:"brightness" yaml:"brightness"`
		Resolution  string `json:"resolution" yaml:"resolution"`
		RefreshRate string `json:"refreshRate" yaml:"refreshRate"`
		Latency     string `json:"latency" yaml:"latency"`
	} `json:"display" yaml:"display"`
	Design struct {
		Weight   string `json:"weight" yaml:"weight"`
		Material string `json:"material" yaml:"material"`
	} `json:"design" yaml:"design"`
	Audio struct {
		Speakers    string `json:"speakers" yaml:"speakers"`
		Microphones string `json:"microphones" yaml:"microphones"`
	} `json:"audio" yaml:"audio"`
	Connectivity struct {
		Ports    string `json:"ports" yaml:"ports"`
		Wireless string `json:"wireless" yaml:"wireless"`
	} `json:"connectivity" yaml:"connectivity"`
	Features []string `json:"features" yaml:"features"`
}

// BrandDocument carries per-brand facts
type BrandDocument struct {
	Name        string  `json:"name" yaml:"name"`
	MarketShare float64 `json:"marketShare" yaml:"marketShare"`
}

// PersonaDocument is a predefined buyer profile
type PersonaDocument struct {
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	BudgetMin          float64  `json:"budgetMin" yaml:"budgetMin"`
	BudgetMax          float64  `json:"budgetMax" yaml:"budgetMax"`
	TechnicalExpertise string   `json:"technicalExpertise" yaml:"technicalExpertise"`
	Priorities         []string `json:"priorities" yaml:"priorities"`
	PrimaryUseCase     string   `json:"primaryUseCase" yaml:"primaryUseCase"`
}

// ScoreDocument is one authored score inside a criterion's list
type ScoreDocument struct {
	ProductID     string `json:"productId" yaml:"productId"`
	Score         int    `json:"score" yaml:"score"`
	Justification string `json:"justification" yaml:"justification"`
}

// Decode parses a catalog document. Unknown fields are rejected so typos in
// hand-edited files surface at load time.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: failed to decode yaml: %v", domain.ErrInvalidCatalog, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: failed to decode json: %v", domain.ErrInvalidCatalog, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", domain.ErrInvalidCatalog, format)
	}

	return &doc, nil
}
