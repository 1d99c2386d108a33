package graph

// Hit is one normalized search result. Every field is read defensively
// from the raw backend hit; Raw preserves the original value for callers
// that need fields this shape doesn't carry.
type Hit struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Score    float64        `json:"score"`
	Raw      any            `json:"raw"`
}

// Normalize flattens an untyped backend search result into hits. Backends
// disagree on result shape, so anything that isn't a list of mappings
// degrades field-by-field to zero values rather than erroring. A non-list
// result normalizes to an empty slice. Some backends wrap the list in a
// {"results": [...]} envelope; that one level of nesting is unwrapped.
func Normalize(raw any) []Hit {
	list, ok := raw.([]any)
	if !ok {
		if envelope, ok := raw.(map[string]any); ok {
			list, _ = envelope["results"].([]any)
		}
	}
	if list == nil {
		return []Hit{}
	}

	hits := make([]Hit, 0, len(list))
	for _, item := range list {
		hit := Hit{Raw: item}
		if m, ok := item.(map[string]any); ok {
			hit.ID = stringField(m, "id")
			hit.Content = stringField(m, "content")
			hit.Metadata, _ = m["metadata"].(map[string]any)
			hit.Score = floatField(m, "score")
		}
		hits = append(hits, hit)
	}
	return hits
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
