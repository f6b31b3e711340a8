package models

import "github.com/AngelinaFiera614/wrenchmark-sub010/filters"

// MotorcycleFilterSchema declares every key of the motorcycle filter panel
var MotorcycleFilterSchema = filters.Schema{
	"searchTerm":      filters.KindString,
	"categories":      filters.KindStringSet,
	"make":            filters.KindString,
	"yearRange":       filters.KindRange,
	"engineSizeRange": filters.KindRange,
	"weightRange":     filters.KindRange,
	"seatHeightRange": filters.KindRange,
	"isEntryLevel":    filters.KindBool,
	"abs":             filters.KindBool,
}

// MotorcycleFilters is a complete filter selection as sent by the client.
// It always replaces the previous selection, never patches it.
type MotorcycleFilters struct {
	SearchTerm      string         `json:"searchTerm"`
	Categories      []string       `json:"categories"`
	Make            string         `json:"make"`
	YearRange       *filters.Range `json:"yearRange"`
	EngineSizeRange *filters.Range `json:"engineSizeRange"`
	WeightRange     *filters.Range `json:"weightRange"`
	SeatHeightRange *filters.Range `json:"seatHeightRange"`
	IsEntryLevel    bool           `json:"isEntryLevel"`
	ABS             bool           `json:"abs"`
}

// Record converts the selection into a filter record
func (f MotorcycleFilters) Record() filters.FilterRecord {
	categories := f.Categories
	if categories == nil {
		categories = []string{}
	}
	return filters.FilterRecord{
		"searchTerm":      f.SearchTerm,
		"categories":      categories,
		"make":            f.Make,
		"yearRange":       f.YearRange,
		"engineSizeRange": f.EngineSizeRange,
		"weightRange":     f.WeightRange,
		"seatHeightRange": f.SeatHeightRange,
		"isEntryLevel":    f.IsEntryLevel,
		"abs":             f.ABS,
	}
}

// MotorcycleFiltersFromRecord is the inverse of Record. Entries of the wrong
// type come back as their zero value.
func MotorcycleFiltersFromRecord(r filters.FilterRecord) MotorcycleFilters {
	f := MotorcycleFilters{Categories: []string{}}
	f.SearchTerm, _ = r["searchTerm"].(string)
	f.Make, _ = r["make"].(string)
	if cats, ok := r["categories"].([]string); ok {
		f.Categories = append(f.Categories, cats...)
	}
	f.YearRange = rangeOf(r["yearRange"])
	f.EngineSizeRange = rangeOf(r["engineSizeRange"])
	f.WeightRange = rangeOf(r["weightRange"])
	f.SeatHeightRange = rangeOf(r["seatHeightRange"])
	f.IsEntryLevel, _ = r["isEntryLevel"].(bool)
	f.ABS, _ = r["abs"].(bool)
	return f
}

func rangeOf(v any) *filters.Range {
	switch r := v.(type) {
	case filters.Range:
		return &r
	case *filters.Range:
		if r == nil {
			return nil
		}
		cp := *r
		return &cp
	}
	return nil
}
