package testutils

import (
	"context"
	"fmt"

	"github.com/stackpile/graphzep/pkg/eventstream"
)

// MockPublisher is a test eventstream publisher that records events.
type MockPublisher struct {
	Events []*eventstream.MemoryEvent
	Fail   bool
}

func (m *MockPublisher) PublishMemory(_ context.Context, event *eventstream.MemoryEvent) error {
	if event == nil {
		return eventstream.ErrNilMemoryEvent
	}
	if m.Fail {
		return fmt.Errorf("mock publish failure")
	}
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}
