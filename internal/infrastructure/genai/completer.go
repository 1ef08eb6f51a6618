// Package genai implements ports.Completer on the Gemini API.
package genai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-3-flash-preview"

// ErrNotConfigured is returned by a completer built without an API key.
var ErrNotConfigured = errors.New("genai: no API key configured")

// Completer sends prompts to Gemini.
type Completer struct {
	client *genai.Client
	model  string
}

// New creates a Gemini-backed completer. An empty API key yields a completer
// whose every call fails, so callers fall back to their canned replies.
func New(ctx context.Context, apiKey, model string) (*Completer, error) {
	if model == "" {
		model = DefaultModel
	}
	if apiKey == "" {
		return &Completer{model: model}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Completer{client: client, model: model}, nil
}

// Complete implements ports.Completer.
func (c *Completer) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), generateConfig(req))
	if err != nil {
		return "", fmt.Errorf("genai generate: %w", err)
	}
	return resp.Text(), nil
}

func generateConfig(req ports.CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if len(req.Schema) > 0 {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = responseSchema(req.Schema)
	}
	return cfg
}

// responseSchema turns the port's flat field list into a Gemini object schema.
func responseSchema(fields []ports.SchemaField) *genai.Schema {
	s := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(fields)),
	}
	for _, f := range fields {
		prop := &genai.Schema{Description: f.Description}
		switch f.Type {
		case ports.SchemaNumber:
			prop.Type = genai.TypeNumber
		case ports.SchemaStringArray:
			prop.Type = genai.TypeArray
			prop.Items = &genai.Schema{Type: genai.TypeString}
		default:
			prop.Type = genai.TypeString
		}
		if len(f.Enum) > 0 {
			prop.Enum = append([]string(nil), f.Enum...)
		}
		s.Properties[f.Name] = prop
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}
