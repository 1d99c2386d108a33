package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stackpile/graphzep/pkg/graph"
	"github.com/stackpile/graphzep/pkg/logger"
	"github.com/stackpile/graphzep/pkg/messaging"
	testutils "github.com/stackpile/graphzep/pkg/utils/test"
)

var _ = Describe("tool handlers", func() {
	var (
		server *Server
		mock   *testutils.MockStore
		thread *testutils.MockThreadAPI
		ctx    context.Context
	)

	BeforeEach(func() {
		mock = testutils.NewMockStore()
		thread = &testutils.MockThreadAPI{}
		ctx = context.Background()

		service, err := graph.NewService(&graph.Config{
			Store:   mock,
			Clients: messaging.Clients{Thread: thread},
			Logger:  logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		server, err = NewServer(Config{
			Service: service,
			Logger:  logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("handleAddMemory", func() {
		It("appends the episode and returns the summary", func() {
			result, output, err := server.handleAddMemory(ctx, nil, AddMemoryInput{
				Name:        "note",
				EpisodeBody: "alice joined acme",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			Expect(output.Count).To(Equal(1))
			Expect(output.ThreadID).To(Equal("default"))
			Expect(thread.Calls).To(HaveLen(1))
		})

		It("reports append failures as tool errors", func() {
			thread.Fail = true

			result, _, err := server.handleAddMemory(ctx, nil, AddMemoryInput{EpisodeBody: "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})

	Describe("handleSearchFacts", func() {
		It("defaults an absent max_facts to 10", func() {
			mock.SemanticResult = []any{}

			result, output, err := server.handleSearchFacts(ctx, nil, SearchFactsInput{Query: "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Error).To(BeEmpty())
			Expect(mock.SemanticCalls[0].TopK).To(Equal(10))
		})

		It("reports an explicit zero max_facts as a validation error object", func() {
			zero := 0
			result, output, err := server.handleSearchFacts(ctx, nil, SearchFactsInput{
				Query:    "x",
				MaxFacts: &zero,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Error).To(Equal("max_facts must be > 0"))
			Expect(mock.SemanticCalls).To(BeEmpty())
		})
	})

	Describe("handleSearchNodes", func() {
		It("returns reshaped nodes in the text content", func() {
			mock.SemanticResult = []any{
				map[string]any{
					"id":       "n1",
					"content":  "alice",
					"metadata": map[string]any{"name": "Alice"},
				},
			}

			result, output, err := server.handleSearchNodes(ctx, nil, SearchNodesInput{Query: "alice"})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Nodes).To(HaveLen(1))

			var decoded map[string]any
			text := result.Content[0].(*mcp.TextContent).Text
			Expect(json.Unmarshal([]byte(text), &decoded)).To(Succeed())
			Expect(decoded).To(HaveKeyWithValue("message", "found 1 node(s)"))
		})
	})

	Describe("handleGetEntityEdge", func() {
		It("requires a uuid", func() {
			result, _, err := server.handleGetEntityEdge(ctx, nil, EntityEdgeInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})

		It("returns a not-found object for missing edges", func() {
			result, output, err := server.handleGetEntityEdge(ctx, nil, EntityEdgeInput{UUID: "missing"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Error).To(Equal("edge not found: missing"))
		})
	})

	Describe("handleGetStatus", func() {
		It("reports ok", func() {
			_, output, err := server.handleGetStatus(ctx, nil, GetStatusInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Status).To(Equal("ok"))
			Expect(output.Collections).To(Equal([]string{"nodes", "edges", "episodes"}))
		})
	})
})
