package graph

import (
	"sort"
	"time"
	"unicode/utf8"
)

// Node is an entity record derived from a nodes-collection hit. Every
// field comes from the backing document's metadata, with content-derived
// fallbacks for name and summary.
type Node struct {
	UUID       string         `json:"uuid"`
	Name       string         `json:"name"`
	Summary    string         `json:"summary"`
	Labels     any            `json:"labels"`
	GroupID    string         `json:"group_id"`
	CreatedAt  string         `json:"created_at"`
	Attributes map[string]any `json:"attributes"`
	Score      float64        `json:"score"`
}

// Fact is a relationship (edge) record derived from an edges-collection hit.
type Fact struct {
	UUID         string         `json:"uuid"`
	FromUUID     string         `json:"from_uuid"`
	ToUUID       string         `json:"to_uuid"`
	RelationType string         `json:"relation_type"`
	GroupID      string         `json:"group_id"`
	CreatedAt    string         `json:"created_at"`
	Attributes   map[string]any `json:"attributes"`
	Score        float64        `json:"score"`
}

// Episode is one unit of appended memory, returned as stored.
type Episode struct {
	UUID     string         `json:"uuid"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

const nodeNamePrefixLen = 64

// NodeFromHit reshapes a normalized hit into a node record.
func NodeFromHit(hit Hit) Node {
	md := hit.Metadata
	if md == nil {
		md = map[string]any{}
	}

	name := stringField(md, "name")
	if name == "" {
		name = prefix(hit.Content, nodeNamePrefixLen)
	}

	summary := stringField(md, "summary")
	if summary == "" {
		summary = hit.Content
	}

	labels := md["labels"]
	if labels == nil {
		labels = md["type"]
	}

	return Node{
		UUID:       hit.ID,
		Name:       name,
		Summary:    summary,
		Labels:     labels,
		GroupID:    stringField(md, "group_id"),
		CreatedAt:  stringField(md, "created_at"),
		Attributes: attributes(md),
		Score:      hit.Score,
	}
}

// FactFromHit reshapes a normalized hit into a fact record.
func FactFromHit(hit Hit) Fact {
	md := hit.Metadata
	if md == nil {
		md = map[string]any{}
	}

	relation := stringField(md, "relation_type")
	if relation == "" {
		relation = stringField(md, "type")
	}

	return Fact{
		UUID:         hit.ID,
		FromUUID:     stringField(md, "from_uuid"),
		ToUUID:       stringField(md, "to_uuid"),
		RelationType: relation,
		GroupID:      stringField(md, "group_id"),
		CreatedAt:    stringField(md, "created_at"),
		Attributes:   attributes(md),
		Score:        hit.Score,
	}
}

// EpisodeFromHit reshapes a normalized hit into an episode record.
func EpisodeFromHit(hit Hit) Episode {
	return Episode{
		UUID:     hit.ID,
		Content:  hit.Content,
		Metadata: hit.Metadata,
	}
}

// SortHitsByRecency orders hits newest-first by their metadata created_at
// timestamp. Backend result ordering is never trusted for recency. Missing
// or unparsable timestamps sort last.
func SortHitsByRecency(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return createdAtEpoch(hits[i]) > createdAtEpoch(hits[j])
	})
}

// createdAtLayouts are the ISO-8601 shapes episodes have been written
// with, most to least specific.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func createdAtEpoch(hit Hit) float64 {
	if hit.Metadata == nil {
		return 0
	}
	ts := stringField(hit.Metadata, "created_at")
	if ts == "" {
		return 0
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return float64(t.UnixNano()) / float64(time.Second)
		}
	}
	return 0
}

func attributes(md map[string]any) map[string]any {
	if attrs, ok := md["attributes"].(map[string]any); ok {
		return attrs
	}
	return map[string]any{}
}

// prefix truncates s to at most n characters, never splitting a rune.
func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
