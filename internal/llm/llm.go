// Package llm abstracts the hosted text-generation model used by the chat
// assistant and the location lookup.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrNoCredentials means no API key was configured
	ErrNoCredentials = errors.New("text generation credentials not configured")
	// ErrEmptyResponse means the model answered with no text
	ErrEmptyResponse = errors.New("empty response from model")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Request is a single generation call. History is sent before Prompt.
// Settings overrides the client's sampling parameters when set.
type Request struct {
	System   string
	History  []Message
	Prompt   string
	Settings *Settings
}

// Settings are the sampling parameters sent with a request
type Settings struct {
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
}

// Client generates a text reply
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to Client
type ClientFunc func(ctx context.Context, req Request) (string, error)

func (f ClientFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Unavailable is used when no credentials are configured; every call fails
// so callers take their fallback path
type Unavailable struct{}

func (Unavailable) Generate(context.Context, Request) (string, error) {
	return "", ErrNoCredentials
}
