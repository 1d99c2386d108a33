package graph_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stackpile/graphzep/pkg/graph"
	"github.com/stackpile/graphzep/pkg/logger"
	testutils "github.com/stackpile/graphzep/pkg/utils/test"
)

var _ = Describe("Gateway", func() {
	var (
		mock    *testutils.MockStore
		gateway *graph.Gateway
		ctx     context.Context
	)

	BeforeEach(func() {
		mock = testutils.NewMockStore()
		gateway = graph.NewGateway(mock, graph.NewProvisioner(mock, logger.Nop()), logger.Nop())
		ctx = context.Background()
	})

	It("ensures the collection before searching", func() {
		mock.SemanticResult = []any{}
		gateway.Search(ctx, "nodes", "alice", 5, nil)
		Expect(mock.Collections).To(HaveKey("nodes"))
	})

	It("duplicates the where clause under both filter keys", func() {
		mock.SemanticResult = []any{}
		where := map[string]any{"group_id": "g1"}

		gateway.Search(ctx, "nodes", "alice", 5, where)

		Expect(mock.SemanticCalls).To(HaveLen(1))
		payload := mock.SemanticCalls[0]
		Expect(payload.Where).To(Equal(where))
		Expect(payload.Filter).To(Equal(where))
		Expect(payload.Query).To(Equal("alice"))
		Expect(payload.TopK).To(Equal(5))
		Expect(payload.IncludeMetadata).To(BeTrue())
	})

	It("omits filter keys when no where clause is given", func() {
		mock.SemanticResult = []any{}
		gateway.Search(ctx, "nodes", "alice", 5, nil)

		payload := mock.SemanticCalls[0]
		Expect(payload.Where).To(BeNil())
		Expect(payload.Filter).To(BeNil())
	})

	It("returns normalized hits", func() {
		mock.SemanticResult = []any{
			map[string]any{"id": "a", "content": "alice", "score": 0.5},
		}

		hits := gateway.Search(ctx, "nodes", "alice", 5, nil)
		Expect(hits).To(HaveLen(1))
		Expect(hits[0].ID).To(Equal("a"))
	})

	It("soft-fails to empty when the backend errors", func() {
		mock.FailSemantic = true
		hits := gateway.Search(ctx, "nodes", "alice", 5, nil)
		Expect(hits).To(BeEmpty())
		Expect(hits).NotTo(BeNil())
	})
})
