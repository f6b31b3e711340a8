package filters

// CountActive returns how many schema keys hold a non-default value.
// Unset keys and keys at their default count as inactive, and so does any
// value of the wrong type for its key. The string default is "" exactly;
// callers trim user input before it gets here.
func CountActive(schema Schema, record FilterRecord) int {
	count := 0
	for key, kind := range schema {
		if isActive(kind, record[key]) {
			count++
		}
	}
	return count
}

func isActive(kind Kind, v any) bool {
	switch kind {
	case KindString:
		s, ok := v.(string)
		return ok && s != ""
	case KindStringSet:
		set, ok := v.([]string)
		return ok && len(cleanSet(set)) > 0
	case KindRange:
		switch r := v.(type) {
		case Range:
			return r.valid()
		case *Range:
			return r != nil && r.valid()
		}
		return false
	case KindBool:
		b, ok := v.(bool)
		return ok && b
	}
	return false
}
