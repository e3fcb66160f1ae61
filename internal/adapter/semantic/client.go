// Package semantic provides an HTTP client for the semantic responder: an
// external service that turns a prompt into an assistant-style text answer.
package semantic

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Strob0t/AgentRelay/internal/port/cache"
	"github.com/Strob0t/AgentRelay/internal/resilience"
)

// Client bridges prompts to the configured responder URL. With no URL
// configured it answers from a fixed local template, so integration tests
// need no live collaborator.
type Client struct {
	responderURL string
	timeout      time.Duration
	httpClient   *http.Client
	breaker      *resilience.Breaker
	cache        cache.Cache
	cacheTTL     time.Duration
}

// NewClient creates a responder client. responderURL may be empty for
// local-template mode. timeout bounds each upstream call.
func NewClient(responderURL string, timeout time.Duration) *Client {
	return &Client{
		responderURL: responderURL,
		timeout:      timeout,
		httpClient:   &http.Client{},
	}
}

// SetBreaker attaches a circuit breaker to outgoing responder calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// SetCache attaches an answer cache. Only live responder answers are cached;
// local-template answers are already deterministic.
func (c *Client) SetCache(cc cache.Cache, ttl time.Duration) {
	c.cache = cc
	c.cacheTTL = ttl
}

type responderRequest struct {
	Prompt    string `json:"prompt"`
	RequestID string `json:"requestId"`
}

type responderReply struct {
	Text   string `json:"text"`
	Answer string `json:"answer"`
	Result string `json:"result"`
}

// Answer returns the responder's answer for the prompt. A non-2xx status, a
// reply without a recognizable text field, or an exceeded timeout is a
// bridge failure.
func (c *Client) Answer(ctx context.Context, prompt, requestID string) (string, error) {
	if c.responderURL == "" {
		return localAnswer(prompt), nil
	}

	key := answerKey(prompt)
	if c.cache != nil {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return string(data), nil
		}
	}

	var answer string
	call := func() error {
		var err error
		answer, err = c.call(ctx, prompt, requestID)
		return err
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return "", err
		}
	} else if err := call(); err != nil {
		return "", err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, []byte(answer), c.cacheTTL)
	}
	return answer, nil
}

func (c *Client) call(ctx context.Context, prompt, requestID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(responderRequest{Prompt: prompt, RequestID: requestID})
	if err != nil {
		return "", fmt.Errorf("marshal responder request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.responderURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create responder request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("responder request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read responder reply: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("responder error %d: %s", resp.StatusCode, string(data))
	}

	var reply responderReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return "", fmt.Errorf("unmarshal responder reply: %w", err)
	}
	for _, s := range []string{reply.Text, reply.Answer, reply.Result} {
		if s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("responder reply has no text, answer, or result field")
}

// localAnswer is the deterministic fallback used when no responder URL is
// configured.
func localAnswer(prompt string) string {
	return "AgentRelay standards-mode answer for: " + prompt
}

func answerKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "semantic:" + hex.EncodeToString(sum[:])
}
