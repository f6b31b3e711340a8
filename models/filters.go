// models/filters.go
package models

import "github.com/AngelinaFiera614/wrenchmark-sub010/filters"

// FilterMetadata represents the catalog vocabulary behind the filter panel
type FilterMetadata struct {
	Categories      []CategoryData     `json:"categories"`
	Manufacturers   []ManufacturerData `json:"manufacturers"`
	YearRange       *RangeData         `json:"yearRange"`
	EngineSizeRange *RangeData         `json:"engineSizeRange"`
}

// CategoryData represents a motorcycle category with optional subcategories
type CategoryData struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ParentID      string         `json:"parentId,omitempty"`
	Subcategories []CategoryData `json:"subcategories,omitempty"`
}

// ManufacturerData represents a brand and how many models it has in the catalog
type ManufacturerData struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Models int    `json:"models"`
}

// RangeData represents the smallest and largest value present in the catalog
type RangeData struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Shared flattens the metadata into the names carried by a filter scope.
// Subcategory names follow their parent.
func (m *FilterMetadata) Shared() filters.Metadata {
	out := filters.Metadata{
		Categories:    []string{},
		Manufacturers: []string{},
	}
	if m == nil {
		return out
	}
	for _, cat := range m.Categories {
		out.Categories = append(out.Categories, cat.Name)
		for _, sub := range cat.Subcategories {
			out.Categories = append(out.Categories, sub.Name)
		}
	}
	for _, mf := range m.Manufacturers {
		out.Manufacturers = append(out.Manufacturers, mf.Name)
	}
	return out
}
