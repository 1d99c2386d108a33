package graph_test

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stackpile/graphzep/pkg/eventstream"
	"github.com/stackpile/graphzep/pkg/graph"
	"github.com/stackpile/graphzep/pkg/logger"
	"github.com/stackpile/graphzep/pkg/messaging"
	"github.com/stackpile/graphzep/pkg/store"
	testutils "github.com/stackpile/graphzep/pkg/utils/test"
)

var _ = Describe("Service", func() {
	var (
		mock      *testutils.MockStore
		thread    *testutils.MockThreadAPI
		publisher *testutils.MockPublisher
		service   *graph.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		mock = testutils.NewMockStore()
		thread = &testutils.MockThreadAPI{}
		publisher = &testutils.MockPublisher{}
		ctx = context.Background()

		var err error
		service, err = graph.NewService(&graph.Config{
			Store:   mock,
			Clients: messaging.Clients{Thread: thread},
			Events:  publisher,
			Logger:  logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewService", func() {
		It("requires a store", func() {
			_, err := graph.NewService(&graph.Config{Logger: logger.Nop()})
			Expect(err).To(HaveOccurred())
		})

		It("requires a logger", func() {
			_, err := graph.NewService(&graph.Config{Store: testutils.NewMockStore()})
			Expect(err).To(HaveOccurred())
		})

		It("defaults the collection names", func() {
			Expect(service.Collections().Names()).To(Equal([]string{"nodes", "edges", "episodes"}))
		})
	})

	Describe("AddMemory", func() {
		appended := func() []messaging.Message {
			Expect(thread.Calls).To(HaveLen(1))
			return thread.Calls[0].Messages
		}

		It("emits one verbatim user message for text sources", func() {
			result, err := service.AddMemory(ctx, graph.AddMemoryInput{
				Name:        "note",
				EpisodeBody: "alice joined acme",
			})
			Expect(err).NotTo(HaveOccurred())

			msgs := appended()
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Role).To(Equal("user"))
			Expect(msgs[0].Content).To(Equal("alice joined acme"))
			Expect(result.Count).To(Equal(1))
		})

		It("canonically re-serializes valid json sources", func() {
			_, err := service.AddMemory(ctx, graph.AddMemoryInput{
				EpisodeBody: `{"b": 2,   "a": 1}`,
				Source:      graph.SourceJSON,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(appended()[0].Content).To(Equal(`{"a":1,"b":2}`))
		})

		It("passes invalid json sources through unchanged", func() {
			_, err := service.AddMemory(ctx, graph.AddMemoryInput{
				EpisodeBody: `{"broken":`,
				Source:      graph.SourceJSON,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(appended()[0].Content).To(Equal(`{"broken":`))
		})

		It("emits one message per item for message-list sources", func() {
			_, err := service.AddMemory(ctx, graph.AddMemoryInput{
				EpisodeBody: `[{"role":"assistant","content":"hi"}]`,
				Source:      graph.SourceMessage,
			})
			Expect(err).NotTo(HaveOccurred())

			msgs := appended()
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Role).To(Equal("assistant"))
			Expect(msgs[0].Content).To(Equal("hi"))
		})

		It("skips non-object items in message lists", func() {
			_, err := service.AddMemory(ctx, graph.AddMemoryInput{
				EpisodeBody: `[{"content":"a"}, "skip me", {"content":"b"}]`,
				Source:      graph.SourceMessage,
			})
			Expect(err).NotTo(HaveOccurred())

			msgs := appended()
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].Content).To(Equal("a"))
			Expect(msgs[1].Content).To(Equal("b"))
		})

		It("accepts a single message object", func() {
			_, err := service.AddMemory(ctx, graph.AddMemoryInput{
				EpisodeBody: `{"role":"assistant","content":{"nested":true}}`,
				Source:      graph.SourceMessage,
			})
			Expect(err).NotTo(HaveOccurred())

			msgs := appended()
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Role).To(Equal("assistant"))
			Expect(msgs[0].Content).To(Equal(`{"nested":true}`))
		})

		It("falls back to one verbatim user message for non-json message bodies", func() {
			_, err := service.AddMemory(ctx, graph.AddMemoryInput{
				EpisodeBody: "hello",
				Source:      graph.SourceMessage,
			})
			Expect(err).NotTo(HaveOccurred())

			msgs := appended()
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Role).To(Equal("user"))
			Expect(msgs[0].Content).To(Equal("hello"))
		})

		It("attaches the metadata envelope to every message", func() {
			result, err := service.AddMemory(ctx, graph.AddMemoryInput{
				Name:              "note",
				EpisodeBody:       `[{"content":"a"},{"content":"b"}]`,
				Source:            graph.SourceMessage,
				SourceDescription: "chat log",
				GroupID:           "g1",
			})
			Expect(err).NotTo(HaveOccurred())

			for _, msg := range appended() {
				Expect(msg.Metadata).To(HaveKeyWithValue("name", "note"))
				Expect(msg.Metadata).To(HaveKeyWithValue("source", "message"))
				Expect(msg.Metadata).To(HaveKeyWithValue("source_description", "chat log"))
				Expect(msg.Metadata).To(HaveKeyWithValue("group_id", "g1"))
				Expect(msg.Metadata).To(HaveKeyWithValue("type", "episode"))
				Expect(msg.Metadata).To(HaveKeyWithValue("graphiti_uuid", result.UUID))
				Expect(msg.Metadata).To(HaveKey("created_at"))
			}
		})

		It("resolves the thread id from the default group", func() {
			withDefault, err := graph.NewService(&graph.Config{
				Store:          mock,
				Clients:        messaging.Clients{Thread: thread},
				DefaultGroupID: "team-a",
				Logger:         logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())

			result, err := withDefault.AddMemory(ctx, graph.AddMemoryInput{EpisodeBody: "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ThreadID).To(Equal("team-a"))
			Expect(thread.Calls[0].ThreadID).To(Equal("team-a"))
		})

		It("falls back to the literal default thread id", func() {
			result, err := service.AddMemory(ctx, graph.AddMemoryInput{EpisodeBody: "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ThreadID).To(Equal("default"))
		})

		It("keeps a caller-supplied uuid", func() {
			result, err := service.AddMemory(ctx, graph.AddMemoryInput{
				EpisodeBody: "x",
				UUID:        "fixed-uuid",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.UUID).To(Equal("fixed-uuid"))
		})

		It("propagates append failures", func() {
			thread.Fail = true
			_, err := service.AddMemory(ctx, graph.AddMemoryInput{EpisodeBody: "x"})
			Expect(err).To(HaveOccurred())
		})

		It("publishes an episode-appended event", func() {
			_, err := service.AddMemory(ctx, graph.AddMemoryInput{EpisodeBody: "x"})
			Expect(err).NotTo(HaveOccurred())

			Expect(publisher.Events).To(HaveLen(1))
			Expect(publisher.Events[0].EventType).To(Equal(eventstream.EventTypeEpisodeAppended))
		})
	})

	Describe("SearchNodes", func() {
		It("reshapes hits and echoes the center node uuid", func() {
			mock.SemanticResult = []any{
				map[string]any{
					"id":      "n1",
					"content": "alice",
					"metadata": map[string]any{
						"name":     "Alice",
						"group_id": "g1",
					},
					"score": 0.9,
				},
			}

			result, err := service.SearchNodes(ctx, graph.SearchNodesInput{
				Query:          "alice",
				GroupIDs:       []string{"g1"},
				CenterNodeUUID: "center-1",
				Entity:         "Person",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Message).To(Equal("found 1 node(s)"))
			Expect(result.CenterNodeUUID).To(Equal("center-1"))
			Expect(result.Nodes).To(HaveLen(1))
			Expect(result.Nodes[0].Name).To(Equal("Alice"))

			payload := mock.SemanticCalls[0]
			Expect(payload.Where).To(HaveKey("group_id"))
			Expect(payload.Where).To(HaveKey("$or"))
			Expect(payload.TopK).To(Equal(10))
		})

		It("returns empty nodes when search soft-fails", func() {
			mock.FailSemantic = true

			result, err := service.SearchNodes(ctx, graph.SearchNodesInput{Query: "alice"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Message).To(Equal("found 0 node(s)"))
			Expect(result.Nodes).To(BeEmpty())
		})
	})

	Describe("SearchFacts", func() {
		It("rejects a non-positive max without a backend call", func() {
			result, err := service.SearchFacts(ctx, graph.SearchFactsInput{Query: "x", MaxFacts: 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Error).To(Equal("max_facts must be > 0"))
			Expect(mock.SemanticCalls).To(BeEmpty())

			encoded, err := json.Marshal(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(encoded)).To(MatchJSON(`{"error":"max_facts must be > 0"}`))
		})

		It("reshapes hits into fact records", func() {
			mock.SemanticResult = []any{
				map[string]any{
					"id": "e1",
					"metadata": map[string]any{
						"from_uuid":     "n1",
						"to_uuid":       "n2",
						"relation_type": "WORKS_AT",
					},
				},
			}

			result, err := service.SearchFacts(ctx, graph.SearchFactsInput{Query: "x", MaxFacts: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Error).To(BeEmpty())
			Expect(result.Message).To(Equal("found 1 fact(s)"))
			Expect(result.Facts[0].RelationType).To(Equal("WORKS_AT"))
			Expect(mock.SemanticCalls[0].TopK).To(Equal(5))
		})
	})

	Describe("GetEpisodes", func() {
		episodeHit := func(id, createdAt string) map[string]any {
			return map[string]any{
				"id":      id,
				"content": "episode " + id,
				"metadata": map[string]any{
					"group_id":   "g1",
					"created_at": createdAt,
				},
			}
		}

		It("returns the most recent episodes newest first", func() {
			mock.SemanticResult = []any{
				episodeHit("jan", "2024-01-01"),
				episodeHit("mar", "2024-03-01"),
				episodeHit("feb", "2024-02-01"),
			}

			result, err := service.GetEpisodes(ctx, graph.GetEpisodesInput{GroupID: "g1", LastN: 2})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Message).To(Equal("found 2 episode(s)"))
			Expect(result.Episodes).To(HaveLen(2))
			Expect(result.Episodes[0].UUID).To(Equal("mar"))
			Expect(result.Episodes[1].UUID).To(Equal("feb"))
		})

		It("scans a wide candidate set with an empty query", func() {
			mock.SemanticResult = []any{}

			_, err := service.GetEpisodes(ctx, graph.GetEpisodesInput{GroupID: "g1", LastN: 2})
			Expect(err).NotTo(HaveOccurred())

			payload := mock.SemanticCalls[0]
			Expect(payload.Query).To(BeEmpty())
			Expect(payload.TopK).To(Equal(50))
			Expect(payload.Where).To(HaveKeyWithValue("group_id", "g1"))
		})

		It("requests at least last_n candidates", func() {
			mock.SemanticResult = []any{}

			_, err := service.GetEpisodes(ctx, graph.GetEpisodesInput{GroupID: "g1", LastN: 80})
			Expect(err).NotTo(HaveOccurred())
			Expect(mock.SemanticCalls[0].TopK).To(Equal(80))
		})

		It("defaults last_n to 10", func() {
			mock.SemanticResult = []any{}

			_, err := service.GetEpisodes(ctx, graph.GetEpisodesInput{GroupID: "g1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(mock.SemanticCalls[0].TopK).To(Equal(50))
		})
	})

	Describe("deletes", func() {
		It("confirms an episode delete and publishes an event", func() {
			result, err := service.DeleteEpisode(ctx, "ep-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Message).To(Equal("episode deleted: ep-1"))
			Expect(mock.DeletedIDs["episodes"]).To(Equal([]string{"ep-1"}))

			Expect(publisher.Events).To(HaveLen(1))
			Expect(publisher.Events[0].EventType).To(Equal(eventstream.EventTypeEpisodeDeleted))
		})

		It("confirms an edge delete", func() {
			result, err := service.DeleteEntityEdge(ctx, "e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Message).To(Equal("edge deleted: e1"))
			Expect(mock.DeletedIDs["edges"]).To(Equal([]string{"e1"}))
		})

		It("propagates backend delete failures", func() {
			mock.FailDeleteDocuments = true
			_, err := service.DeleteEpisode(ctx, "ep-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetEntityEdge", func() {
		It("returns the edge document", func() {
			mock.Collections["edges"] = true
			Expect(mock.AddDocuments(ctx, "edges", []store.Document{{
				ID:       "e1",
				Content:  "alice works at acme",
				Metadata: map[string]any{"relation_type": "WORKS_AT"},
			}})).To(Succeed())

			result, err := service.GetEntityEdge(ctx, "e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Error).To(BeEmpty())
			Expect(result.UUID).To(Equal("e1"))
			Expect(result.Content).To(Equal("alice works at acme"))
		})

		It("returns a not-found error object instead of failing", func() {
			result, err := service.GetEntityEdge(ctx, "missing-uuid")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Error).To(Equal("edge not found: missing-uuid"))

			encoded, err := json.Marshal(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(encoded)).To(Equal(`{"error":"edge not found: missing-uuid"}`))
		})
	})

	Describe("ClearGraph", func() {
		It("returns the fixed confirmation and re-provisions every collection", func() {
			result, err := service.ClearGraph(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Message).To(Equal("graph cleared (collections reset)"))

			for _, name := range []string{"nodes", "edges", "episodes"} {
				Expect(mock.Collections).To(HaveKey(name))
			}
		})

		It("confirms even when every delete fails", func() {
			mock.FailDeleteCollection = true

			result, err := service.ClearGraph(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Message).To(Equal("graph cleared (collections reset)"))
		})

		It("publishes a graph-cleared event", func() {
			_, err := service.ClearGraph(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.Events).To(HaveLen(1))
			Expect(publisher.Events[0].EventType).To(Equal(eventstream.EventTypeGraphCleared))
		})
	})

	Describe("Status", func() {
		It("reports ok with the collection names", func() {
			result, err := service.Status(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal("ok"))
			Expect(result.Time).NotTo(BeEmpty())
			Expect(result.Collections).To(Equal([]string{"nodes", "edges", "episodes"}))
		})
	})
})
