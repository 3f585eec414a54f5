package gemini

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/joseph-ayodele/receipt-ledger/internal/llm"
)

// Config for the Gemini client.
type Config struct {
	APIKey  string // if empty, the genai SDK falls back to env GEMINI_API_KEY
	Model   string // e.g. "gemini-2.0-flash"
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	genai  *genai.Client
	http   *http.Client
	logger *slog.Logger
}

// NewClient builds the analysis-service handle once; it is injected into the
// worker rather than re-created per call.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		cfg:    cfg,
		genai:  gc,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

// Analyze fetches the image behind the signed URL and submits it inline next
// to the prompt. The reply text is returned untrusted.
func (c *Client) Analyze(ctx context.Context, prompt, imageURL, contentType string) (*llm.AnalyzeResponse, error) {
	start := time.Now()
	c.logger.Info("llm.analyze.start", "model", c.cfg.Model, "content_type", contentType)

	data, err := c.fetch(ctx, imageURL)
	if err != nil {
		c.logger.Error("llm.analyze.fetch_error", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: contentType,
						Data:     data,
					},
				},
			},
		},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.Model, contents, nil)
	if err != nil {
		c.logger.Error("llm.analyze.error", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	out := &llm.AnalyzeResponse{Text: text}
	if resp.UsageMetadata != nil {
		out.PromptTokens = resp.UsageMetadata.PromptTokenCount
		out.CompletionTokens = resp.UsageMetadata.CandidatesTokenCount
		out.TotalTokens = resp.UsageMetadata.TotalTokenCount
	}

	c.logger.Info("llm.analyze.ok",
		"model", c.cfg.Model,
		"reply_bytes", len(text),
		"total_tokens", out.TotalTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("image response body close error", "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
