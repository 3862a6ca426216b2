package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

func TestNewGeminiRequiresKey(t *testing.T) {
	g, err := NewGemini(context.Background(), "", "", logger.NewNop())
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Generate(context.Background(), Request{Prompt: "hi"})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestContents(t *testing.T) {
	got := contents(Request{
		History: []Message{
			{Role: RoleUser, Text: "What is a consumer?"},
			{Role: RoleModel, Text: "Anyone who buys goods."},
		},
		Prompt: "Where do I file?",
	})

	require.Len(t, got, 3)
	assert.Equal(t, string(genai.RoleUser), got[0].Role)
	assert.Equal(t, string(genai.RoleModel), got[1].Role)
	assert.Equal(t, "Where do I file?", got[2].Parts[0].Text)
}

func TestConfig(t *testing.T) {
	g := &Gemini{settings: DefaultSettings}

	cfg := g.config(Request{System: "be helpful"})
	assert.Equal(t, float32(0.7), *cfg.Temperature)
	assert.Equal(t, float32(40), *cfg.TopK)
	assert.Equal(t, float32(0.95), *cfg.TopP)
	assert.Equal(t, int32(1024), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be helpful", cfg.SystemInstruction.Parts[0].Text)

	assert.Nil(t, g.config(Request{}).SystemInstruction)
}

func TestConfigOverride(t *testing.T) {
	g := &Gemini{settings: DefaultSettings}

	cfg := g.config(Request{Settings: &Settings{Temperature: 0.1, MaxOutputTokens: 2048}})
	assert.Equal(t, float32(0.1), *cfg.Temperature)
	assert.Equal(t, int32(2048), cfg.MaxOutputTokens)
	assert.Nil(t, cfg.TopK)
	assert.Nil(t, cfg.TopP)
}

func TestClientFunc(t *testing.T) {
	var c Client = ClientFunc(func(_ context.Context, req Request) (string, error) {
		return "echo: " + req.Prompt, nil
	})
	out, err := c.Generate(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", out)
}
