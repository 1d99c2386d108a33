package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stackpile/graphzep/pkg/eventstream"
	"github.com/stackpile/graphzep/pkg/eventstream/nop"
	"github.com/stackpile/graphzep/pkg/messaging"
	"github.com/stackpile/graphzep/pkg/store"
	"github.com/stackpile/graphzep/pkg/utils"
	"github.com/stackpile/graphzep/pkg/worker"
)

const (
	defaultMaxResults = 10
	episodeScanFloor  = 50
)

// Config is the configuration options for the memory service.
type Config struct {
	// Store is the document collection backend.
	Store store.Driver

	// Clients bundles the messaging capabilities used to append episodes.
	Clients messaging.Clients

	// Pool offloads blocking cloud SDK calls. Optional; a nil pool runs
	// them inline.
	Pool *worker.Pool

	// Events receives memory mutation events. Optional; defaults to the
	// no-op publisher.
	Events eventstream.Publisher

	// Collections names the backing collections. Zero-value fields take
	// the conventional names.
	Collections Collections

	// DefaultGroupID scopes operations whose caller supplies no group id.
	DefaultGroupID string

	// Logger is the provided slog logger.
	Logger *slog.Logger
}

// Service implements the graph memory operations over a document store and
// a messaging backend.
type Service struct {
	store        store.Driver
	provisioner  *Provisioner
	gateway      *Gateway
	router       *Router
	events       eventstream.Publisher
	collections  Collections
	defaultGroup string
	logger       *slog.Logger
}

// NewService creates a new memory service.
func NewService(c *Config) (*Service, error) {
	if c.Store == nil {
		return nil, fmt.Errorf("store driver is required")
	}
	if c.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	events := c.Events
	if events == nil {
		events = nop.NewPublisher()
	}

	collections := c.Collections
	defaults := DefaultCollections()
	if collections.Nodes == "" {
		collections.Nodes = defaults.Nodes
	}
	if collections.Edges == "" {
		collections.Edges = defaults.Edges
	}
	if collections.Episodes == "" {
		collections.Episodes = defaults.Episodes
	}

	provisioner := NewProvisioner(c.Store, c.Logger)

	return &Service{
		store:        c.Store,
		provisioner:  provisioner,
		gateway:      NewGateway(c.Store, provisioner, c.Logger),
		router:       NewRouter(c.Clients, c.Pool, c.Logger),
		events:       events,
		collections:  collections,
		defaultGroup: c.DefaultGroupID,
		logger:       c.Logger,
	}, nil
}

// Collections returns the collection names the service operates on.
func (s *Service) Collections() Collections {
	return s.collections
}

// resolveGroup applies the group id precedence: caller-supplied, then the
// configured default, then the literal "default".
func (s *Service) resolveGroup(groupID string) string {
	if groupID != "" {
		return groupID
	}
	if s.defaultGroup != "" {
		return s.defaultGroup
	}
	return "default"
}

// AddMemoryInput is the input to AddMemory.
type AddMemoryInput struct {
	Name              string
	EpisodeBody       string
	GroupID           string
	Source            string
	SourceDescription string
	UUID              string
}

// AddMemoryResult summarizes an episode append.
type AddMemoryResult struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
	UUID     string `json:"uuid"`
	Count    int    `json:"count"`
}

// AddMemory builds messages from the episode body and appends them to the
// group's thread in one call. There is no partial success: the append
// either fully succeeds or the error propagates.
func (s *Service) AddMemory(ctx context.Context, in AddMemoryInput) (*AddMemoryResult, error) {
	threadID := s.resolveGroup(in.GroupID)

	episodeUUID := in.UUID
	if episodeUUID == "" {
		episodeUUID = uuid.NewString()
	}

	source := in.Source
	if source == "" {
		source = SourceText
	}

	envelope := map[string]any{
		"name":               in.Name,
		"source":             source,
		"source_description": in.SourceDescription,
		"group_id":           threadID,
		"created_at":         nowISO(),
		"type":               "episode",
		"graphiti_uuid":      episodeUUID,
	}

	msgs := buildMessages(source, in.EpisodeBody, envelope)

	s.logger.Debug("appending episode",
		"thread_id", threadID,
		"source", source,
		"uuid", episodeUUID,
		"body", utils.Truncate(in.EpisodeBody, 80),
	)

	if err := s.router.Append(ctx, threadID, msgs); err != nil {
		return nil, err
	}

	s.publish(ctx, &eventstream.MemoryEvent{
		EventType:    eventstream.EventTypeEpisodeAppended,
		GroupID:      threadID,
		UUID:         episodeUUID,
		MessageCount: len(msgs),
	})

	return &AddMemoryResult{
		Message:  fmt.Sprintf("message(s) enqueued to thread=%s", threadID),
		ThreadID: threadID,
		UUID:     episodeUUID,
		Count:    len(msgs),
	}, nil
}

// SearchNodesInput is the input to SearchNodes.
type SearchNodesInput struct {
	Query          string
	GroupIDs       []string
	MaxNodes       int
	CenterNodeUUID string
	Entity         string
}

// SearchNodesResult is the outcome of a node search.
type SearchNodesResult struct {
	Message        string `json:"message"`
	CenterNodeUUID string `json:"center_node_uuid"`
	Nodes          []Node `json:"nodes"`
}

// SearchNodes runs a semantic search over the nodes collection, filtered
// by group scope and entity type. The center node uuid is echoed back
// unmodified: the backend has no graph adjacency to rank by.
func (s *Service) SearchNodes(ctx context.Context, in SearchNodesInput) (*SearchNodesResult, error) {
	maxNodes := in.MaxNodes
	if maxNodes == 0 {
		maxNodes = defaultMaxResults
	}

	where := Filter{GroupIDs: in.GroupIDs, Entity: in.Entity}.Encode()
	hits := s.gateway.Search(ctx, s.collections.Nodes, in.Query, maxNodes, where)

	nodes := make([]Node, 0, len(hits))
	for _, hit := range hits {
		nodes = append(nodes, NodeFromHit(hit))
	}

	return &SearchNodesResult{
		Message:        fmt.Sprintf("found %d node(s)", len(nodes)),
		CenterNodeUUID: in.CenterNodeUUID,
		Nodes:          nodes,
	}, nil
}

// SearchFactsInput is the input to SearchFacts.
type SearchFactsInput struct {
	Query          string
	GroupIDs       []string
	MaxFacts       int
	CenterNodeUUID string
}

// SearchFactsResult is the outcome of a fact search. Error is set instead
// of the other fields when validation fails.
type SearchFactsResult struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Facts   []Fact `json:"facts,omitempty"`
}

// SearchFacts runs a semantic search over the edges collection. A
// non-positive max is a validation error reported in the result, and no
// backend call is made.
func (s *Service) SearchFacts(ctx context.Context, in SearchFactsInput) (*SearchFactsResult, error) {
	if in.MaxFacts <= 0 {
		return &SearchFactsResult{Error: "max_facts must be > 0"}, nil
	}

	where := Filter{GroupIDs: in.GroupIDs}.Encode()
	hits := s.gateway.Search(ctx, s.collections.Edges, in.Query, in.MaxFacts, where)

	facts := make([]Fact, 0, len(hits))
	for _, hit := range hits {
		facts = append(facts, FactFromHit(hit))
	}

	return &SearchFactsResult{
		Message: fmt.Sprintf("found %d fact(s)", len(facts)),
		Facts:   facts,
	}, nil
}

// GetEpisodesInput is the input to GetEpisodes.
type GetEpisodesInput struct {
	GroupID string
	LastN   int
}

// GetEpisodesResult is the outcome of an episode fetch.
type GetEpisodesResult struct {
	Message  string    `json:"message"`
	Episodes []Episode `json:"episodes"`
}

// GetEpisodes returns the most recent episodes for a group, newest first.
// The backend's result ordering is not trusted: a wide candidate set is
// fetched and sorted locally by the created_at metadata timestamp.
func (s *Service) GetEpisodes(ctx context.Context, in GetEpisodesInput) (*GetEpisodesResult, error) {
	groupID := s.resolveGroup(in.GroupID)

	lastN := in.LastN
	if lastN <= 0 {
		lastN = defaultMaxResults
	}

	topK := episodeScanFloor
	if lastN > topK {
		topK = lastN
	}

	where := Filter{GroupID: groupID}.Encode()
	hits := s.gateway.Search(ctx, s.collections.Episodes, "", topK, where)

	SortHitsByRecency(hits)
	if len(hits) > lastN {
		hits = hits[:lastN]
	}

	episodes := make([]Episode, 0, len(hits))
	for _, hit := range hits {
		episodes = append(episodes, EpisodeFromHit(hit))
	}

	return &GetEpisodesResult{
		Message:  fmt.Sprintf("found %d episode(s)", len(episodes)),
		Episodes: episodes,
	}, nil
}

// ConfirmationResult carries a single confirmation message.
type ConfirmationResult struct {
	Message string `json:"message"`
}

// DeleteEpisode removes one episode document by id. Deleting an id the
// backend doesn't know is indistinguishable from success.
func (s *Service) DeleteEpisode(ctx context.Context, id string) (*ConfirmationResult, error) {
	s.provisioner.Ensure(ctx, s.collections.Episodes)

	if err := s.store.DeleteDocuments(ctx, s.collections.Episodes, []string{id}); err != nil {
		return nil, err
	}

	s.publish(ctx, &eventstream.MemoryEvent{
		EventType: eventstream.EventTypeEpisodeDeleted,
		UUID:      id,
	})

	return &ConfirmationResult{Message: fmt.Sprintf("episode deleted: %s", id)}, nil
}

// DeleteEntityEdge removes one edge document by id.
func (s *Service) DeleteEntityEdge(ctx context.Context, id string) (*ConfirmationResult, error) {
	s.provisioner.Ensure(ctx, s.collections.Edges)

	if err := s.store.DeleteDocuments(ctx, s.collections.Edges, []string{id}); err != nil {
		return nil, err
	}

	s.publish(ctx, &eventstream.MemoryEvent{
		EventType: eventstream.EventTypeEdgeDeleted,
		UUID:      id,
	})

	return &ConfirmationResult{Message: fmt.Sprintf("edge deleted: %s", id)}, nil
}

// EntityEdgeResult is the outcome of an edge fetch. Error is set instead
// of the other fields when the edge is absent.
type EntityEdgeResult struct {
	Error    string         `json:"error,omitempty"`
	UUID     string         `json:"uuid,omitempty"`
	Content  string         `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GetEntityEdge fetches one edge document by id. A miss of any kind is
// reported as a not-found result, never an error.
func (s *Service) GetEntityEdge(ctx context.Context, id string) (*EntityEdgeResult, error) {
	s.provisioner.Ensure(ctx, s.collections.Edges)

	doc, err := s.store.GetDocument(ctx, s.collections.Edges, id)
	if err != nil || doc == nil {
		return &EntityEdgeResult{Error: fmt.Sprintf("edge not found: %s", id)}, nil
	}

	return &EntityEdgeResult{
		UUID:     doc.ID,
		Content:  doc.Content,
		Metadata: doc.Metadata,
	}, nil
}

// ClearGraph deletes and re-provisions all three collections. Deletes are
// best-effort; the confirmation message is returned regardless of how many
// succeeded, and all three collections exist afterwards.
func (s *Service) ClearGraph(ctx context.Context) (*ConfirmationResult, error) {
	for _, name := range s.collections.Names() {
		if err := s.store.DeleteCollection(ctx, name); err != nil {
			s.logger.Debug("collection delete failed, proceeding", "name", name, "error", err)
		}
	}

	for _, name := range s.collections.Names() {
		s.provisioner.Ensure(ctx, name)
	}

	s.publish(ctx, &eventstream.MemoryEvent{
		EventType: eventstream.EventTypeGraphCleared,
	})

	return &ConfirmationResult{Message: "graph cleared (collections reset)"}, nil
}

// StatusResult is the liveness probe response.
type StatusResult struct {
	Status      string   `json:"status"`
	Time        string   `json:"time"`
	Collections []string `json:"collections"`
}

// Status reports service liveness and the configured collection names.
func (s *Service) Status(_ context.Context) (*StatusResult, error) {
	return &StatusResult{
		Status:      "ok",
		Time:        nowISO(),
		Collections: s.collections.Names(),
	}, nil
}

// publish emits a memory event best-effort. Event delivery never affects
// the operation's outcome.
func (s *Service) publish(ctx context.Context, event *eventstream.MemoryEvent) {
	event.SchemaVersion = eventstream.SchemaVersionV1
	event.EventID = uuid.NewString()
	event.EmittedAt = time.Now().UTC()

	if err := s.events.PublishMemory(ctx, event); err != nil {
		s.logger.Warn("memory event publish failed", "event_type", event.EventType, "error", err)
	}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
