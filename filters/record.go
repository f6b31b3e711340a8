// Package filters holds the catalog filter state shared by a filter page:
// the active filter counter, the isFiltering tracker, the provider scope
// that distributes the current record, and the refresh coordinator that
// coalesces bursts of edits into one delayed refresh.
package filters

import (
	"math"
	"reflect"
	"sort"
	"strings"
)

// Kind is the declared type of a filter key. It decides the key's default.
type Kind int

const (
	KindString    Kind = iota // default ""
	KindStringSet             // default empty set
	KindRange                 // default nil
	KindBool                  // default false
)

// Schema maps every known filter key to its kind.
type Schema map[string]Kind

// Keys returns the schema keys in a stable order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range is a closed numeric interval. A nil *Range is the unset value.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) valid() bool {
	return !math.IsNaN(r.Min) && !math.IsNaN(r.Max) && r.Min <= r.Max
}

// FilterRecord is one revision of a user's filter selections.
// Values are string, []string, Range / *Range or bool.
type FilterRecord map[string]any

// Clone returns a deep copy so the stored revision cannot be mutated through
// a caller's map or slice.
func (r FilterRecord) Clone() FilterRecord {
	if r == nil {
		return FilterRecord{}
	}
	out := make(FilterRecord, len(r))
	for k, v := range r {
		switch val := v.(type) {
		case []string:
			out[k] = append([]string(nil), val...)
		case *Range:
			if val != nil {
				cp := *val
				out[k] = &cp
			} else {
				out[k] = val
			}
		default:
			out[k] = v
		}
	}
	return out
}

// Equal reports whether two records are the same by value under schema:
// entries at their default are ignored and string sets compare as sets.
func (r FilterRecord) Equal(other FilterRecord, schema Schema) bool {
	return reflect.DeepEqual(r.normalize(schema), other.normalize(schema))
}

// normalize drops default entries and canonicalizes values.
// Keys outside the schema are kept as-is.
func (r FilterRecord) normalize(schema Schema) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		kind, known := schema[k]
		if !known {
			out[k] = v
			continue
		}
		if !isActive(kind, v) {
			continue
		}
		switch val := v.(type) {
		case []string:
			set := cleanSet(val)
			sort.Strings(set)
			out[k] = set
		case *Range:
			out[k] = *val
		default:
			out[k] = v
		}
	}
	return out
}

// cleanSet trims members and drops blanks and duplicates.
func cleanSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
