package graph

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stackpile/graphzep/pkg/messaging"
	"github.com/stackpile/graphzep/pkg/worker"
)

// ErrNoAppendStrategy indicates the messaging client exposes none of the
// supported append capabilities. This is a configuration error, not a
// transient one.
var ErrNoAppendStrategy = errors.New(
	"no message append strategy available (tried cloud client, thread.add_messages, threads.add_messages, messages.add)")

// Router appends messages to a thread by capability-probe dispatch: each
// strategy is selected because its client shape is present, not because a
// prior strategy failed. An error inside the selected strategy propagates
// to the caller instead of falling through to the next shape.
type Router struct {
	strategies []strategy
	logger     *slog.Logger
}

type strategy struct {
	name      string
	available func() bool
	invoke    func(ctx context.Context, threadID string, msgs []messaging.Message) error
}

// NewRouter creates an append router over whichever capabilities the
// clients bundle exposes. The worker pool backs the cloud path, whose SDK
// call is blocking; a nil pool degrades the cloud path to inline calls.
func NewRouter(clients messaging.Clients, pool *worker.Pool, logger *slog.Logger) *Router {
	return &Router{
		logger: logger,
		strategies: []strategy{
			{
				name:      "cloud",
				available: func() bool { return clients.Cloud != nil },
				invoke: func(ctx context.Context, threadID string, msgs []messaging.Message) error {
					// The cloud SDK call is synchronous with no context
					// support. Run it on a worker so it cannot stall the
					// calling goroutine's scheduler peers.
					return pool.Execute(ctx, func() error {
						return clients.Cloud.AddMessages(threadID, msgs)
					})
				},
			},
			{
				name:      "thread",
				available: func() bool { return clients.Thread != nil },
				invoke: func(ctx context.Context, threadID string, msgs []messaging.Message) error {
					return clients.Thread.AddMessages(ctx, threadID, msgs)
				},
			},
			{
				name:      "threads",
				available: func() bool { return clients.Threads != nil },
				invoke: func(ctx context.Context, threadID string, msgs []messaging.Message) error {
					return clients.Threads.AddMessages(ctx, threadID, msgs)
				},
			},
			{
				name:      "messages",
				available: func() bool { return clients.Messages != nil },
				invoke: func(ctx context.Context, threadID string, msgs []messaging.Message) error {
					return clients.Messages.Add(ctx, threadID, msgs)
				},
			},
		},
	}
}

// Append routes a batch of messages through the first available strategy.
func (r *Router) Append(ctx context.Context, threadID string, msgs []messaging.Message) error {
	for _, s := range r.strategies {
		if !s.available() {
			continue
		}
		r.logger.Debug("appending messages", "strategy", s.name, "thread_id", threadID, "count", len(msgs))
		return s.invoke(ctx, threadID, msgs)
	}
	return ErrNoAppendStrategy
}
