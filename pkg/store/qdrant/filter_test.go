package qdrant

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("whereToFilter", func() {
	It("returns nil for an empty clause", func() {
		Expect(whereToFilter(nil)).To(BeNil())
		Expect(whereToFilter(map[string]any{})).To(BeNil())
	})

	It("translates exact matches into must conditions", func() {
		filter := whereToFilter(map[string]any{"group_id": "default"})

		Expect(filter).NotTo(BeNil())
		Expect(filter.Must).To(HaveLen(1))
		Expect(filter.Should).To(BeEmpty())

		match := filter.Must[0].GetField()
		Expect(match.Key).To(Equal("metadata.group_id"))
		Expect(match.GetMatch().GetKeyword()).To(Equal("default"))
	})

	It("translates $in into keyword matches", func() {
		filter := whereToFilter(map[string]any{
			"group_id": map[string]any{"$in": []any{"a", "b"}},
		})

		Expect(filter.Must).To(HaveLen(1))

		match := filter.Must[0].GetField()
		Expect(match.Key).To(Equal("metadata.group_id"))
		Expect(match.GetMatch().GetKeywords().GetStrings()).To(Equal([]string{"a", "b"}))
	})

	It("translates $or branches into should conditions", func() {
		filter := whereToFilter(map[string]any{
			"$or": []any{
				map[string]any{"labels": map[string]any{"$contains": "Person"}},
				map[string]any{"type": "Person"},
			},
		})

		Expect(filter.Must).To(BeEmpty())
		Expect(filter.Should).To(HaveLen(2))

		keys := []string{
			filter.Should[0].GetField().Key,
			filter.Should[1].GetField().Key,
		}
		Expect(keys).To(ConsistOf("metadata.labels", "metadata.type"))
	})

	It("skips unsupported operator shapes", func() {
		filter := whereToFilter(map[string]any{
			"group_id": map[string]any{"$gt": 3},
		})

		Expect(filter).To(BeNil())
	})
})
