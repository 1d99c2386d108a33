package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeEpisodeAppended is emitted after an episode's messages are
	// appended to a thread.
	EventTypeEpisodeAppended = "graphzep.episode.appended"

	// EventTypeEpisodeDeleted is emitted after an episode is deleted.
	EventTypeEpisodeDeleted = "graphzep.episode.deleted"

	// EventTypeEdgeDeleted is emitted after an entity edge is deleted.
	EventTypeEdgeDeleted = "graphzep.edge.deleted"

	// EventTypeGraphCleared is emitted after the graph collections are
	// reset.
	EventTypeGraphCleared = "graphzep.graph.cleared"
)

// MemoryEvent is a transport-neutral event payload for a memory mutation.
type MemoryEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	// GroupID scopes the mutation; empty for graph-wide events.
	GroupID string `json:"group_id,omitempty"`

	// UUID identifies the episode or edge the event concerns.
	UUID string `json:"uuid,omitempty"`

	// MessageCount is the number of messages appended, for append events.
	MessageCount int `json:"message_count,omitempty"`
}
