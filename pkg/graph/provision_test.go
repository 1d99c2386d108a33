package graph_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stackpile/graphzep/pkg/graph"
	"github.com/stackpile/graphzep/pkg/logger"
	testutils "github.com/stackpile/graphzep/pkg/utils/test"
)

var _ = Describe("Provisioner", func() {
	var (
		mock        *testutils.MockStore
		provisioner *graph.Provisioner
		ctx         context.Context
	)

	BeforeEach(func() {
		mock = testutils.NewMockStore()
		provisioner = graph.NewProvisioner(mock, logger.Nop())
		ctx = context.Background()
	})

	It("creates a missing collection", func() {
		provisioner.Ensure(ctx, "nodes")
		Expect(mock.Collections).To(HaveKey("nodes"))
	})

	It("does not recreate an existing collection", func() {
		mock.Collections["nodes"] = true
		provisioner.Ensure(ctx, "nodes")
		Expect(mock.CreateCalls).To(BeEmpty())
	})

	It("is idempotent across repeated calls", func() {
		provisioner.Ensure(ctx, "nodes")
		provisioner.Ensure(ctx, "nodes")
		Expect(mock.CreateCalls).To(Equal([]string{"nodes"}))
	})

	It("swallows creation failures", func() {
		mock.FailCreateCollection = true
		Expect(func() {
			provisioner.Ensure(ctx, "nodes")
		}).NotTo(Panic())
	})
})
