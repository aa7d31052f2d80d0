// Package discord adapts the Discord gateway to the platform-neutral message
// pipeline. Nothing outside this package imports the Discord SDK.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/szczypior/szczypior-bot/internal/model"
	"github.com/szczypior/szczypior-bot/internal/orchestrator"
)

// Handler receives every message from the monitored channel.
type Handler interface {
	HandleMessage(ctx context.Context, msg model.Message) orchestrator.Outcome
}

// Gateway owns the Discord session and routes monitored-channel traffic to
// the handler.
type Gateway struct {
	session   *discordgo.Session
	channelID string
	logger    *slog.Logger
}

// NewGateway creates a Gateway for the given bot token. The session is not
// opened until Start is called.
func NewGateway(token, channelID string, logger *slog.Logger) (*Gateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentGuildMessages |
		discordgo.IntentGuildMessageReactions |
		discordgo.IntentMessageContent

	// The SDK dispatches each event on its own goroutine by default.
	// Messages must be handled one at a time so the duplicate check and
	// the ledger write of one message finish before the next one starts.
	session.SyncEvents = true

	return &Gateway{
		session:   session,
		channelID: channelID,
		logger:    logger,
	}, nil
}

// Start opens the gateway connection and registers the message handler.
// Incoming messages are handled on the SDK's event goroutines.
func (g *Gateway) Start(ctx context.Context, handler Handler) error {
	g.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != g.channelID {
			return
		}
		handler.HandleMessage(ctx, convertMessage(m.Message))
	})

	g.session.AddHandler(func(s *discordgo.Session, _ *discordgo.Ready) {
		g.logger.Info("connected to gateway", "user", s.State.User.Username)
	})

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	return nil
}

// Close shuts down the gateway connection.
func (g *Gateway) Close() error {
	return g.session.Close()
}

// Notifier returns the outbound adapter backed by this session.
func (g *Gateway) Notifier() *Notifier {
	return &Notifier{session: g.session}
}

// History returns the channel history reader backed by this session.
func (g *Gateway) History() *History {
	return &History{session: g.session}
}

// convertMessage projects an SDK message onto the neutral model.
func convertMessage(m *discordgo.Message) model.Message {
	msg := model.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		CreatedAt: m.Timestamp,
	}

	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.FromBot = m.Author.Bot
		msg.AuthorName = m.Author.Username
		if m.Author.GlobalName != "" {
			msg.AuthorName = m.Author.GlobalName
		}
	}

	for _, att := range m.Attachments {
		msg.Attachments = append(msg.Attachments, model.Attachment{
			URL:         att.URL,
			ContentType: att.ContentType,
		})
	}

	for _, r := range m.Reactions {
		if r.Emoji != nil {
			msg.Reactions = append(msg.Reactions, r.Emoji.Name)
		}
	}

	return msg
}
