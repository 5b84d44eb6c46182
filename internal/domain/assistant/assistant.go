// Package assistant defines the AI assistant surface: design-thinking chat
// and full-MVP asset generation for a project.
package assistant

import "context"

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest carries the conversation so far; the last message is the one
// being answered.
type ChatRequest struct {
	Messages []Message `json:"messages" validate:"required,min=1,dive"`
	Language string    `json:"language,omitempty"`
}

// ChatResponse is the assistant's reply plus the caller's remaining quota.
type ChatResponse struct {
	Reply     string `json:"reply"`
	Used      int    `json:"used"`
	Limit     *int   `json:"limit"` // nil = unlimited
	Remaining *int   `json:"remaining,omitempty"`
}

// Asset is one generated MVP artifact.
type Asset struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// MVPInput summarizes the project context fed to the MVP generator.
type MVPInput struct {
	ProjectName string
	Description string
	Sector      string
	Language    string
}

// Client is the external AI collaborator behind the assistant.
type Client interface {
	// Chat answers the conversation with a design-thinking-scoped reply.
	Chat(ctx context.Context, messages []Message, language string) (string, error)

	// GenerateMVP produces the full asset bundle for a project.
	GenerateMVP(ctx context.Context, in MVPInput) ([]Asset, error)
}

// Service defines assistant business logic.
type Service interface {
	// Chat runs one assistant turn under the caller's chat quota.
	Chat(ctx context.Context, userID int64, req ChatRequest) (*ChatResponse, error)

	// GenerateMVP generates assets for a project the caller owns and
	// attaches them to the project. Asset persistence is best-effort.
	GenerateMVP(ctx context.Context, projectID, userID int64) ([]Asset, error)
}
