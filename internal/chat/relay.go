// Package chat relays consumer-rights questions to the text-generation
// model and keeps per-session history.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/JustJay7/consumer-complaint-assistant/internal/llm"
	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

// SystemPrompt frames every conversation
const SystemPrompt = `You are an expert AI assistant specializing in Indian consumer rights, legal procedures, and user rights. Your role is to help users understand their consumer rights under the Consumer Protection Act, 2019, guide them through complaint procedures, and provide accurate information about consumer forums.`

// ErrUnavailable is the error text returned alongside a fallback reply
const ErrUnavailable = "Gemini API unavailable"

// Reply is the outcome of one chat turn
type Reply struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	SessionID string `json:"sessionId"`
}

// Relay forwards messages to the model with the session's history
type Relay struct {
	client  llm.Client
	store   SessionStore
	timeout time.Duration
	logger  *logger.Logger
}

func NewRelay(client llm.Client, store SessionStore, timeout time.Duration, logger *logger.Logger) *Relay {
	return &Relay{
		client:  client,
		store:   store,
		timeout: timeout,
		logger:  logger,
	}
}

// Send answers message within sessionID. A blank id starts a new session.
// Model failures never surface as errors: the reply carries a keyword
// fallback and Success is false.
func (r *Relay) Send(ctx context.Context, sessionID, message string) *Reply {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = NewSessionID()
	}

	sess, ok := r.store.Get(sessionID)
	if !ok {
		sess = r.store.Create(sessionID)
		r.logger.Debug("Chat session started", "session", sessionID)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	text, err := r.client.Generate(ctx, llm.Request{
		System:  SystemPrompt,
		History: sess.History,
		Prompt:  message,
	})
	if err == nil {
		text = StripMarkdown(text)
		if text == "" {
			err = llm.ErrEmptyResponse
		}
	}
	if err != nil {
		r.logger.Warn("Chat falling back to canned reply",
			"session", sessionID,
			"error", err,
		)
		return &Reply{
			Success:   false,
			Message:   Fallback(message),
			Error:     ErrUnavailable,
			SessionID: sessionID,
		}
	}

	r.store.Append(sessionID,
		llm.Message{Role: llm.RoleUser, Text: message},
		llm.Message{Role: llm.RoleModel, Text: text},
	)

	return &Reply{
		Success:   true,
		Message:   text,
		SessionID: sessionID,
	}
}

// Clear drops the session history
func (r *Relay) Clear(sessionID string) *Reply {
	existed := r.store.Clear(sessionID)
	r.logger.Debug("Chat session cleared", "session", sessionID, "existed", existed)
	return &Reply{
		Success:   true,
		Message:   "Chat session cleared",
		SessionID: sessionID,
	}
}

// Sessions is the number of live sessions
func (r *Relay) Sessions() int {
	return r.store.Count()
}
