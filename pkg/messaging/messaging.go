// Package messaging defines the client shapes used to append role/content
// messages to a backend thread. Backends have drifted across generations,
// so the append path is expressed as a set of optional capabilities rather
// than one interface every backend must satisfy.
package messaging

import "context"

// Message is one role/content unit appended to a thread. Metadata carries
// the caller's envelope verbatim.
type Message struct {
	Role     string         `json:"role"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// CloudClient is the cloud SDK shape: a synchronous, blocking call with no
// context support. Callers are expected to offload it to a worker.
type CloudClient interface {
	AddMessages(threadID string, messages []Message) error
}

// ThreadAPI is the current-generation thread sub-API.
type ThreadAPI interface {
	AddMessages(ctx context.Context, threadID string, messages []Message) error
}

// ThreadsAPI is the previous-generation sub-API. Same operation, different
// naming; kept separate so a client can expose either without ambiguity.
type ThreadsAPI interface {
	AddMessages(ctx context.Context, threadID string, messages []Message) error
}

// LegacyMessagesAPI is the oldest supported shape.
type LegacyMessagesAPI interface {
	Add(ctx context.Context, threadID string, messages []Message) error
}

// Clients bundles whichever capabilities the configured backend exposes.
// Nil fields mean the capability is absent.
type Clients struct {
	Cloud    CloudClient
	Thread   ThreadAPI
	Threads  ThreadsAPI
	Messages LegacyMessagesAPI
}
