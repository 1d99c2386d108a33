package graph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stackpile/graphzep/pkg/graph"
)

var _ = Describe("Filter", func() {
	It("encodes no constraints as nil", func() {
		Expect(graph.Filter{}.Encode()).To(BeNil())
	})

	It("encodes group membership", func() {
		where := graph.Filter{GroupIDs: []string{"g1", "g2"}}.Encode()
		Expect(where).To(HaveKeyWithValue("group_id",
			map[string]any{"$in": []any{"g1", "g2"}}))
	})

	It("encodes a single group as an exact match", func() {
		where := graph.Filter{GroupID: "g1"}.Encode()
		Expect(where).To(HaveKeyWithValue("group_id", "g1"))
	})

	It("prefers the membership form when both are set", func() {
		where := graph.Filter{GroupIDs: []string{"g1"}, GroupID: "g2"}.Encode()
		Expect(where["group_id"]).To(Equal(map[string]any{"$in": []any{"g1"}}))
	})

	It("encodes entity as an or over labels and type", func() {
		where := graph.Filter{Entity: "Person"}.Encode()
		Expect(where).To(HaveKeyWithValue("$or", []any{
			map[string]any{"labels": map[string]any{"$contains": "Person"}},
			map[string]any{"type": "Person"},
		}))
	})

	It("combines group and entity constraints", func() {
		where := graph.Filter{GroupIDs: []string{"g1"}, Entity: "Person"}.Encode()
		Expect(where).To(HaveKey("group_id"))
		Expect(where).To(HaveKey("$or"))
	})
})
