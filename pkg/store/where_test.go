package store_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stackpile/graphzep/pkg/store"
)

var _ = Describe("MatchesWhere", func() {
	metadata := map[string]any{
		"group_id": "default",
		"type":     "episode",
		"labels":   []any{"Person", "Engineer"},
		"count":    float64(3),
	}

	It("matches an empty clause", func() {
		Expect(store.MatchesWhere(metadata, nil)).To(BeTrue())
		Expect(store.MatchesWhere(metadata, map[string]any{})).To(BeTrue())
	})

	It("matches exact values", func() {
		Expect(store.MatchesWhere(metadata, map[string]any{"group_id": "default"})).To(BeTrue())
		Expect(store.MatchesWhere(metadata, map[string]any{"group_id": "other"})).To(BeFalse())
	})

	It("compares numbers loosely across json round-trips", func() {
		Expect(store.MatchesWhere(metadata, map[string]any{"count": 3})).To(BeTrue())
	})

	It("matches membership with $in", func() {
		clause := map[string]any{"group_id": map[string]any{"$in": []any{"a", "default"}}}
		Expect(store.MatchesWhere(metadata, clause)).To(BeTrue())

		clause = map[string]any{"group_id": map[string]any{"$in": []any{"a", "b"}}}
		Expect(store.MatchesWhere(metadata, clause)).To(BeFalse())
	})

	It("matches list elements with $contains", func() {
		clause := map[string]any{"labels": map[string]any{"$contains": "Person"}}
		Expect(store.MatchesWhere(metadata, clause)).To(BeTrue())

		clause = map[string]any{"labels": map[string]any{"$contains": "Manager"}}
		Expect(store.MatchesWhere(metadata, clause)).To(BeFalse())
	})

	It("falls back to scalar equality for $contains on non-lists", func() {
		clause := map[string]any{"type": map[string]any{"$contains": "episode"}}
		Expect(store.MatchesWhere(metadata, clause)).To(BeTrue())
	})

	It("matches any branch of $or", func() {
		clause := map[string]any{"$or": []any{
			map[string]any{"type": "node"},
			map[string]any{"group_id": "default"},
		}}
		Expect(store.MatchesWhere(metadata, clause)).To(BeTrue())

		clause = map[string]any{"$or": []any{
			map[string]any{"type": "node"},
			map[string]any{"group_id": "other"},
		}}
		Expect(store.MatchesWhere(metadata, clause)).To(BeFalse())
	})

	It("accepts typed $or branches", func() {
		clause := map[string]any{"$or": []map[string]any{
			{"labels": map[string]any{"$contains": "Engineer"}},
		}}
		Expect(store.MatchesWhere(metadata, clause)).To(BeTrue())
	})

	It("fails unknown operators", func() {
		clause := map[string]any{"count": map[string]any{"$gt": 1}}
		Expect(store.MatchesWhere(metadata, clause)).To(BeFalse())
	})
})
