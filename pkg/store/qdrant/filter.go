package qdrant

import (
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// whereToFilter translates the portable where clause into a Qdrant filter.
// Metadata lives under the "metadata" payload key, so field paths are
// prefixed accordingly. Unsupported shapes are skipped rather than failed;
// the filter then matches more broadly instead of erroring the search.
func whereToFilter(where map[string]any) *qdrant.Filter {
	if len(where) == 0 {
		return nil
	}

	var must []*qdrant.Condition
	var should []*qdrant.Condition

	for key, value := range where {
		if key == "$or" {
			should = append(should, orConditions(value)...)
			continue
		}
		if cond := fieldCondition(key, value); cond != nil {
			must = append(must, cond)
		}
	}

	if len(must) == 0 && len(should) == 0 {
		return nil
	}

	return &qdrant.Filter{
		Must:   must,
		Should: should,
	}
}

func orConditions(value any) []*qdrant.Condition {
	branches, ok := value.([]any)
	if !ok {
		return nil
	}

	var conds []*qdrant.Condition
	for _, branch := range branches {
		clause, ok := branch.(map[string]any)
		if !ok {
			continue
		}
		for key, v := range clause {
			if cond := fieldCondition(key, v); cond != nil {
				conds = append(conds, cond)
			}
		}
	}
	return conds
}

func fieldCondition(key string, value any) *qdrant.Condition {
	field := "metadata." + key

	if op, ok := value.(map[string]any); ok {
		if in, ok := op["$in"]; ok {
			return inCondition(field, in)
		}
		if contains, ok := op["$contains"]; ok {
			// Qdrant matches array payloads element-wise with a plain
			// match condition.
			return qdrant.NewMatch(field, fmt.Sprint(contains))
		}
		return nil
	}

	return qdrant.NewMatch(field, fmt.Sprint(value))
}

func inCondition(field string, value any) *qdrant.Condition {
	values, ok := value.([]any)
	if !ok {
		return nil
	}

	keywords := make([]string, 0, len(values))
	for _, v := range values {
		keywords = append(keywords, fmt.Sprint(v))
	}
	if len(keywords) == 0 {
		return nil
	}

	return qdrant.NewMatchKeywords(field, keywords...)
}
