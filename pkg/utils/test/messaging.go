package testutils

import (
	"context"
	"fmt"

	"github.com/stackpile/graphzep/pkg/messaging"
)

// AppendCall records one append invocation against a mock messaging client.
type AppendCall struct {
	ThreadID string
	Messages []messaging.Message
}

// MockCloudClient is a test implementation of messaging.CloudClient.
type MockCloudClient struct {
	Calls []AppendCall
	Fail  bool
}

func (m *MockCloudClient) AddMessages(threadID string, msgs []messaging.Message) error {
	if m.Fail {
		return fmt.Errorf("mock cloud append failure")
	}
	m.Calls = append(m.Calls, AppendCall{ThreadID: threadID, Messages: msgs})
	return nil
}

// MockThreadAPI is a test implementation of messaging.ThreadAPI and
// messaging.ThreadsAPI.
type MockThreadAPI struct {
	Calls []AppendCall
	Fail  bool
}

func (m *MockThreadAPI) AddMessages(_ context.Context, threadID string, msgs []messaging.Message) error {
	if m.Fail {
		return fmt.Errorf("mock thread append failure")
	}
	m.Calls = append(m.Calls, AppendCall{ThreadID: threadID, Messages: msgs})
	return nil
}

// MockMessagesAPI is a test implementation of messaging.LegacyMessagesAPI.
type MockMessagesAPI struct {
	Calls []AppendCall
	Fail  bool
}

func (m *MockMessagesAPI) Add(_ context.Context, threadID string, msgs []messaging.Message) error {
	if m.Fail {
		return fmt.Errorf("mock messages append failure")
	}
	m.Calls = append(m.Calls, AppendCall{ThreadID: threadID, Messages: msgs})
	return nil
}
