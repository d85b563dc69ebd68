// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/interfaces"
)

const (
	DefaultModel = "gemini-2.0-flash"
)

// Client implements the ChatModel interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateTurn runs one planning step: the model sees the system instruction,
// the turn history (user text, prior function calls and responses), and the
// declared tools, and answers with either function calls or final text.
func (c *Client) GenerateTurn(ctx context.Context, systemInstruction string, history []*genai.Content, tools []*genai.Tool) (*genai.GenerateContentResponse, error) {
	config := &genai.GenerateContentConfig{
		Tools:       tools,
		Temperature: genai.Ptr[float32](0),
	}
	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("history", len(history)).
		Int("tools", len(tools)).
		Msg("Generating turn")

	result, err := c.client.Models.GenerateContent(ctx, c.model, history, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	return result, nil
}

// Ensure Client implements ChatModel
var _ interfaces.ChatModel = (*Client)(nil)
