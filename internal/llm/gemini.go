package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

const DefaultModel = "gemini-2.0-flash"

// DefaultSettings match the assistant's conversational tone
var DefaultSettings = Settings{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 1024,
}

// Gemini calls the Google Gemini API
type Gemini struct {
	client   *genai.Client
	model    string
	settings Settings
	logger   *logger.Logger
}

// NewGemini creates a Gemini client. An empty apiKey returns ErrNoCredentials.
func NewGemini(ctx context.Context, apiKey, model string, logger *logger.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoCredentials
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client:   client,
		model:    model,
		settings: DefaultSettings,
		logger:   logger,
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents(req), g.config(req))
	if err != nil {
		g.logger.Warn("Gemini request failed", "model", g.model, "error", err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) config(req Request) *genai.GenerateContentConfig {
	s := g.settings
	if req.Settings != nil {
		s = *req.Settings
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(s.Temperature),
		MaxOutputTokens: s.MaxOutputTokens,
	}
	if s.TopK > 0 {
		cfg.TopK = genai.Ptr(s.TopK)
	}
	if s.TopP > 0 {
		cfg.TopP = genai.Ptr(s.TopP)
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	return cfg
}

func contents(req Request) []*genai.Content {
	out := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		out = append(out, genai.NewContentFromText(m.Text, genaiRole(m.Role)))
	}
	return append(out, genai.NewContentFromText(req.Prompt, genai.RoleUser))
}

func genaiRole(r Role) genai.Role {
	if r == RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}
