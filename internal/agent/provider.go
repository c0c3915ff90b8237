package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hexforge/catan/pkg/catan"
)

// ProviderRequest is {system prompt, user prompt, model, credentials,
// endpoint} per spec.md §4.6.
type ProviderRequest struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
	APIKey       string
	APIEndpoint  string
}

// Proposal is the fixed JSON schema an LLM response is parsed into:
// {action, payload, reason, confidence}.
type Proposal struct {
	Action     string         `json:"action"`
	Payload    map[string]any `json:"payload"`
	Reason     string         `json:"reason"`
	Confidence float64        `json:"confidence"`
}

// VerifyResult is the outcome of a credential probe.
type VerifyResult struct {
	OK     bool
	Status int
	Detail string
}

// ProviderClient is the uniform capability over a remote LLM provider
// (OpenAI/Anthropic/Gemini/Ollama and similar), unifying the wire-protocol
// differences behind one small request/response record per spec.md §9.
// Concrete provider bindings are external collaborators; this interface is
// the only contract C7 depends on.
type ProviderClient interface {
	Name() string
	VerifyCredentials(ctx context.Context, apiKey, endpoint string) (VerifyResult, *catan.Error)
	RequestAction(ctx context.Context, req ProviderRequest, snapshot *catan.Snapshot) (*Proposal, *catan.Error)
}

// LocalProviderName marks a provider (e.g. an on-host model server) as not
// requiring a credential, per spec.md §4.6.
const LocalProviderName = "local"

const verifyTimeout = 6 * time.Second

// HTTPProviderClient is a generic ProviderClient for chat-completion-style
// HTTP APIs: it POSTs a system+user prompt to apiEndpoint with a bearer
// token and parses the textual response into a Proposal using the fixed
// JSON schema. One instance handles any provider whose API shape matches
// this convention (OpenAI- and Ollama-compatible endpoints); providers with
// a materially different wire protocol get their own ProviderClient.
type HTTPProviderClient struct {
	ProviderName string
	HTTPClient   *http.Client
}

// NewHTTPProviderClient constructs a client with a sane default timeout.
func NewHTTPProviderClient(providerName string) *HTTPProviderClient {
	return &HTTPProviderClient{
		ProviderName: providerName,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPProviderClient) Name() string { return c.ProviderName }

// VerifyCredentials issues a cheap probe (a list-models GET) with a 6s
// timeout and reports {ok, status, detail}.
func (c *HTTPProviderClient) VerifyCredentials(ctx context.Context, apiKey, endpoint string) (VerifyResult, *catan.Error) {
	if c.ProviderName == LocalProviderName {
		return VerifyResult{OK: true, Status: http.StatusOK, Detail: "local provider requires no credential"}, nil
	}
	if endpoint == "" {
		return VerifyResult{}, catan.InvalidRequest("apiEndpoint is required")
	}

	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(endpoint, "/")+"/models", nil)
	if err != nil {
		return VerifyResult{}, catan.ProviderError("building verify request", err)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return VerifyResult{}, catan.ProviderError("provider unreachable", err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	return VerifyResult{OK: ok, Status: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}, nil
}

type chatCompletionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// RequestAction sends the prompt and snapshot to the provider and parses
// the returned text as a Proposal.
func (c *HTTPProviderClient) RequestAction(ctx context.Context, req ProviderRequest, snapshot *catan.Snapshot) (*Proposal, *catan.Error) {
	if req.APIEndpoint == "" {
		return nil, catan.InvalidRequest("apiEndpoint is required")
	}

	snapJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, catan.InternalError("marshal snapshot", err)
	}

	body := chatCompletionRequest{Model: req.Model}
	body.Messages = append(body.Messages, struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{Role: "system", Content: req.SystemPrompt})
	body.Messages = append(body.Messages, struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{Role: "user", Content: req.UserPrompt + "\n\nState:\n" + string(snapJSON)})

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, catan.InternalError("marshal provider request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(req.APIEndpoint, "/")+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, catan.ProviderError("building request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, catan.ProviderError("provider unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, catan.ProviderError("reading provider response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, catan.ProviderError(fmt.Sprintf("provider returned status %d", resp.StatusCode), nil)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, catan.ProviderError("unparseable provider response envelope", err)
	}
	if len(completion.Choices) == 0 {
		return nil, catan.ProviderError("provider returned no choices", nil)
	}

	var proposal Proposal
	text := extractJSONObject(completion.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(text), &proposal); err != nil {
		return nil, catan.ProviderError("unparseable proposal JSON", err)
	}
	return &proposal, nil
}

// extractJSONObject trims surrounding prose/code fences a chat model
// sometimes wraps its JSON in, returning the first top-level {...} span.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
