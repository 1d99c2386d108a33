package store

import "fmt"

// MatchesWhere reports whether a document's metadata satisfies a portable
// where clause. The supported operators are the ones the graph layer emits:
//
//	{"key": value}                 exact match
//	{"key": {"$in": [v1, v2]}}     membership
//	{"key": {"$contains": v}}      list element or exact scalar match
//	{"$or": [clause1, clause2]}    any sub-clause matches
//
// Unknown operators fail the match rather than erroring.
func MatchesWhere(metadata, where map[string]any) bool {
	for key, cond := range where {
		if key == "$or" {
			if !matchesAny(metadata, cond) {
				return false
			}
			continue
		}

		if !matchesCondition(metadata[key], cond) {
			return false
		}
	}
	return true
}

func matchesAny(metadata map[string]any, cond any) bool {
	clauses, ok := cond.([]any)
	if !ok {
		// Also accept a typed slice of maps, which the graph layer builds.
		typed, ok := cond.([]map[string]any)
		if !ok {
			return false
		}
		for _, clause := range typed {
			if MatchesWhere(metadata, clause) {
				return true
			}
		}
		return false
	}

	for _, clause := range clauses {
		m, ok := clause.(map[string]any)
		if ok && MatchesWhere(metadata, m) {
			return true
		}
	}
	return false
}

func matchesCondition(value, cond any) bool {
	op, ok := cond.(map[string]any)
	if !ok {
		return scalarEqual(value, cond)
	}

	for name, operand := range op {
		switch name {
		case "$in":
			if !matchesIn(value, operand) {
				return false
			}
		case "$contains":
			if !matchesContains(value, operand) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchesIn(value, operand any) bool {
	for _, candidate := range asSlice(operand) {
		if scalarEqual(value, candidate) {
			return true
		}
	}
	return false
}

func matchesContains(value, operand any) bool {
	elements := asSlice(value)
	if elements == nil {
		return scalarEqual(value, operand)
	}
	for _, el := range elements {
		if scalarEqual(el, operand) {
			return true
		}
	}
	return false
}

func asSlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i, el := range s {
			out[i] = el
		}
		return out
	default:
		return nil
	}
}

// scalarEqual compares two scalars loosely via their string form. JSON
// round-trips turn ints into float64s, so strict equality is too brittle.
func scalarEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
