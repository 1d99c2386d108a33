// Package zep implements the messaging client shapes against a Zep-style
// REST API. Each backend generation moved the message-append endpoint, so
// every shape gets its own thin client over a shared request core.
package zep

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/stackpile/graphzep/pkg/messaging"
)

// Config holds configuration for the Zep messaging clients.
type Config struct {
	// URL is the Zep server base URL.
	URL string

	// APIKey is sent as an Api-Key authorization header when non-empty.
	APIKey string

	// Generation selects which client shape to expose: "cloud", "thread",
	// "threads", or "messages". Defaults to "thread".
	Generation string

	// Timeout bounds every request. Defaults to 60s.
	Timeout time.Duration
}

// core is the shared HTTP plumbing under every client shape.
type core struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClients builds a messaging.Clients exposing exactly one capability,
// per the configured generation.
func NewClients(c Config, logger *slog.Logger) (messaging.Clients, error) {
	if c.URL == "" {
		return messaging.Clients{}, fmt.Errorf("zep URL is required")
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	cr := &core{
		baseURL: c.URL,
		apiKey:  c.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}

	generation := c.Generation
	if generation == "" {
		generation = "thread"
	}

	switch generation {
	case "cloud":
		return messaging.Clients{Cloud: &CloudClient{core: cr}}, nil
	case "thread":
		return messaging.Clients{Thread: &ThreadClient{core: cr}}, nil
	case "threads":
		return messaging.Clients{Threads: &ThreadsClient{core: cr}}, nil
	case "messages":
		return messaging.Clients{Messages: &MessagesClient{core: cr}}, nil
	default:
		return messaging.Clients{}, fmt.Errorf("unsupported messaging generation: %s", generation)
	}
}

// ThreadClient implements messaging.ThreadAPI against the current endpoint.
type ThreadClient struct {
	core *core
}

func (c *ThreadClient) AddMessages(ctx context.Context, threadID string, msgs []messaging.Message) error {
	url := fmt.Sprintf("%s/api/v2/threads/%s/messages", c.core.baseURL, threadID)
	return c.core.post(ctx, url, addMessagesRequest{Messages: msgs})
}

// ThreadsClient implements messaging.ThreadsAPI against the previous
// generation's endpoint.
type ThreadsClient struct {
	core *core
}

func (c *ThreadsClient) AddMessages(ctx context.Context, threadID string, msgs []messaging.Message) error {
	url := fmt.Sprintf("%s/api/v1/threads/%s/messages", c.core.baseURL, threadID)
	return c.core.post(ctx, url, addMessagesRequest{Messages: msgs})
}

// MessagesClient implements messaging.LegacyMessagesAPI. The legacy
// endpoint takes the thread id in the body rather than the path.
type MessagesClient struct {
	core *core
}

func (c *MessagesClient) Add(ctx context.Context, threadID string, msgs []messaging.Message) error {
	url := fmt.Sprintf("%s/api/v1/messages", c.core.baseURL)
	return c.core.post(ctx, url, legacyAddRequest{ThreadID: threadID, Messages: msgs})
}

// CloudClient implements messaging.CloudClient: the same current-generation
// endpoint, but with the blocking no-context signature of the cloud SDK.
type CloudClient struct {
	core *core
}

func (c *CloudClient) AddMessages(threadID string, msgs []messaging.Message) error {
	url := fmt.Sprintf("%s/api/v2/threads/%s/messages", c.core.baseURL, threadID)
	return c.core.post(context.Background(), url, addMessagesRequest{Messages: msgs})
}

type addMessagesRequest struct {
	Messages []messaging.Message `json:"messages"`
}

type legacyAddRequest struct {
	ThreadID string              `json:"thread_id"`
	Messages []messaging.Message `json:"messages"`
}

func (c *core) post(ctx context.Context, url string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to append messages: status %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Debug("appended messages", "url", url)

	return nil
}
