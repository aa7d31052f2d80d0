package orchestrator

import (
	"context"

	"github.com/szczypior/szczypior-bot/internal/model"
)

// Reaction emoji marking terminal states on the user's message.
const (
	EmojiThinking = "🤔"
	EmojiDone     = "✅"
	EmojiUnknown  = "❓"
)

// Notifier is the outbound side of the chat gateway. Implementations are thin
// adapters; all decisions happen before these calls.
type Notifier interface {
	React(ctx context.Context, channelID, messageID, emoji string) error
	RemoveReaction(ctx context.Context, channelID, messageID, emoji string) error
	Reply(ctx context.Context, channelID, messageID string, reply Reply) error
}

// History reads recent channel messages for the backlog synchronizer.
type History interface {
	Recent(ctx context.Context, channelID string, limit int) ([]model.Message, error)
}

// Field is one name/value pair in a structured reply.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Reply is a platform-neutral structured response. The gateway renders it
// however the platform displays rich content.
type Reply struct {
	Title  string
	Fields []Field
	Footer string
	Saved  bool
}
