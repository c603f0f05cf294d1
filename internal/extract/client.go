// Package extract calls an OpenAI-compatible chat completions endpoint to
// pull structured bibliographic data out of document text, and to rank a
// literature corpus against a natural-language question.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the default chat completions API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the default model for extraction and ranking.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout is the HTTP request timeout. LLM calls are slow;
	// there is no streaming, the full completion arrives in one response.
	DefaultTimeout = 60 * time.Second

	// requestRateLimit paces outgoing requests to stay under typical
	// per-key completion rate limits.
	requestRateLimit = 2.0
)

// Client is a rate-limited HTTP client for the chat completions API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	model      string
	retries    int
	backoff    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithModel sets the model used for all calls.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetries sets the attempt count for extraction calls.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithBackoff sets the delay between retry attempts.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// NewClient creates a chat completions client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestRateLimit), 1),
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		retries:    DefaultRetries,
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const extractPaperPrompt = `You are an academic literature assistant. Extract the following
fields from the paper text:
1. year: publication year (integer)
2. journal: the journal the paper appeared in
3. title: the paper title
4. authors: the author list, comma-separated
5. summary: a short summary of the main contribution

If a field cannot be determined from the text, use "unknown" (or 0 for year).
Return ONLY a JSON object with keys year, journal, title, authors, summary.`

// ExtractPaper extracts full cataloguing metadata from document text.
// The call is retried up to the configured attempt count.
func (c *Client) ExtractPaper(ctx context.Context, text string) (PaperInfo, error) {
	var info PaperInfo
	err := retryDo(ctx, c.retries, c.backoff, func() error {
		return c.chatJSON(ctx, extractPaperPrompt, "Paper text:\n\n"+text, &info)
	})
	return info, err
}

const extractCitationPrompt = `You are an academic literature assistant. Extract the following
fields from the paper text:
1. year: publication year (integer, format YYYY)
2. journal: the journal the paper appeared in
3. title: the complete paper title
4. author: the primary author's name

If a field cannot be determined from the text, use "unknown" (or 0 for year).
Return ONLY a JSON object with keys year, journal, title, author.`

// ExtractCitation extracts the reduced metadata used for filename synthesis.
func (c *Client) ExtractCitation(ctx context.Context, text string) (CitationInfo, error) {
	var info CitationInfo
	err := retryDo(ctx, c.retries, c.backoff, func() error {
		return c.chatJSON(ctx, extractCitationPrompt, "Paper text:\n\n"+text, &info)
	})
	return info, err
}

const rankPrompt = `You are a literature retrieval assistant. Given a corpus of
literature records and a user question, find the most relevant records.
Return ONLY a JSON object with:
1. relevant_ids: record IDs ordered by relevance
2. answer: an answer to the question grounded in the corpus`

// Rank asks the model to select relevant records from a serialized corpus
// and answer the question. Not retried: ranking is a single best-effort call.
func (c *Client) Rank(ctx context.Context, question, corpus string) (SearchResult, error) {
	var result SearchResult
	user := corpus + "\n\nUser question: " + question
	if err := c.chatJSON(ctx, rankPrompt, user, &result); err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *formatSpec   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type formatSpec struct {
	Type string `json:"type"`
}

// chatResponse is the subset of the completions response we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// chatJSON performs one completion call and unmarshals the model's JSON
// reply into out.
func (c *Client) chatJSON(ctx context.Context, system, user string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &formatSpec{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return err
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return fmt.Errorf("%w: decoding completion: %v", ErrInvalidResponse, err)
	}
	if completion.Error != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: completion.Error.Message}
	}
	if len(completion.Choices) == 0 {
		return fmt.Errorf("%w: no choices returned", ErrInvalidResponse)
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if strings.HasPrefix(content, "```") {
		content = extractFromCodeBlock(content)
	}

	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("%w: parsing model output as JSON: %v", ErrInvalidResponse, err)
	}
	return nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return nil
}

// extractFromCodeBlock extracts content from a markdown code block. Some
// models fence their JSON despite the response format hint.
func extractFromCodeBlock(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}

	start := 1
	end := len(lines)
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		end = len(lines) - 1
	}

	return strings.Join(lines[start:end], "\n")
}
