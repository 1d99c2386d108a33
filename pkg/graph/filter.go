package graph

// Filter expresses the metadata constraints the search tools support.
type Filter struct {
	// GroupIDs restricts hits to any of the given group ids.
	GroupIDs []string

	// GroupID restricts hits to exactly one group id. Takes effect only
	// when GroupIDs is empty.
	GroupID string

	// Entity restricts node hits to an entity type, matched against
	// either the labels list or the type field.
	Entity string
}

// Encode renders the filter as a portable where clause. A filter with no
// constraints encodes to nil, which callers treat as "no filter".
func (f Filter) Encode() map[string]any {
	where := map[string]any{}

	if len(f.GroupIDs) > 0 {
		ids := make([]any, len(f.GroupIDs))
		for i, id := range f.GroupIDs {
			ids[i] = id
		}
		where["group_id"] = map[string]any{"$in": ids}
	} else if f.GroupID != "" {
		where["group_id"] = f.GroupID
	}

	if f.Entity != "" {
		// Node documents hold their entity type in metadata.labels or
		// metadata.type, depending on who wrote them.
		where["$or"] = []any{
			map[string]any{"labels": map[string]any{"$contains": f.Entity}},
			map[string]any{"type": f.Entity},
		}
	}

	if len(where) == 0 {
		return nil
	}
	return where
}
