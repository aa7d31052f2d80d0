// Package model defines the core domain types shared across the bot.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Attachment is a file attached to a chat message. Only the URL and the
// declared content type are ever read by the pipeline.
type Attachment struct {
	URL         string
	ContentType string
}

// Message is the platform-neutral projection of an inbound chat message.
// The gateway adapter fills it; nothing in the core touches the SDK types.
type Message struct {
	ID          string
	ChannelID   string
	AuthorID    string
	AuthorName  string
	FromBot     bool
	Content     string
	CreatedAt   time.Time
	Attachments []Attachment
	Reactions   []string
}

// ImageURL returns the URL of the first non-GIF image attachment.
// GIFs are excluded because they are almost always reaction memes,
// never workout screenshots.
func (m Message) ImageURL() (string, bool) {
	for _, att := range m.Attachments {
		if strings.HasPrefix(att.ContentType, "image/") && att.ContentType != "image/gif" {
			return att.URL, true
		}
	}
	return "", false
}

// HasReaction reports whether the message already carries the given emoji.
func (m Message) HasReaction(emoji string) bool {
	for _, r := range m.Reactions {
		if r == emoji {
			return true
		}
	}
	return false
}

// MessageIdentity is the deduplication key for a message: the epoch-second
// creation timestamp joined with the platform message id. Recomputing it for
// the same message always yields the same value, across restarts and backlog
// re-scans.
type MessageIdentity string

// NewMessageIdentity builds the identity for a message created at the given
// time with the given platform id.
func NewMessageIdentity(createdAt time.Time, messageID string) MessageIdentity {
	return MessageIdentity(fmt.Sprintf("%d_%s", createdAt.Unix(), messageID))
}

// Identity returns the deduplication key for this message.
func (m Message) Identity() MessageIdentity {
	return NewMessageIdentity(m.CreatedAt, m.ID)
}
