package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// Generator is the part of *genai.GenerativeModel the parser calls.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiParser reads search intents with a Gemini model.
type GeminiParser struct {
	client     *genai.Client
	model      Generator
	categories []string
}

// NewGeminiParser creates a parser for the given API key and model.
func NewGeminiParser(ctx context.Context, apiKey, modelName string, categories models.CategorySet) (*GeminiParser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)

	p := newParser(model, categories)
	p.client = client

	return p, nil
}

func newParser(model Generator, categories models.CategorySet) *GeminiParser {
	return &GeminiParser{model: model, categories: categories.Labels()}
}

// Parse asks the model to read query.
func (p *GeminiParser) Parse(ctx context.Context, query string) (*Intent, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(Prompt(query, p.categories)))
	if err != nil {
		return nil, fmt.Errorf("failed to get response from Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return Decode(sb.String())
}

// Close releases the underlying client.
func (p *GeminiParser) Close() error {
	if p.client == nil {
		return nil
	}

	return p.client.Close()
}
