package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/szczypior/szczypior-bot/internal/model"
	"github.com/szczypior/szczypior-bot/internal/orchestrator"
)

// Embed accent colors for saved and unsaved recognition replies.
const (
	colorSaved    = 0x57F287
	colorUnsaved  = 0xE67E22
	historyPageSz = 100
)

// Notifier sends reactions and structured replies through the session.
type Notifier struct {
	session *discordgo.Session
}

func (n *Notifier) React(ctx context.Context, channelID, messageID, emoji string) error {
	return n.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

func (n *Notifier) RemoveReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return n.session.MessageReactionRemove(channelID, messageID, emoji, "@me", discordgo.WithContext(ctx))
}

func (n *Notifier) Reply(ctx context.Context, channelID, messageID string, reply orchestrator.Reply) error {
	_, err := n.session.ChannelMessageSendEmbedReply(channelID, buildEmbed(reply), &discordgo.MessageReference{
		MessageID: messageID,
		ChannelID: channelID,
	}, discordgo.WithContext(ctx))
	return err
}

// buildEmbed renders the neutral reply as a Discord embed.
func buildEmbed(reply orchestrator.Reply) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(reply.Fields))
	for _, f := range reply.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:  reply.Title,
		Color:  colorSaved,
		Fields: fields,
	}
	if !reply.Saved {
		embed.Color = colorUnsaved
	}
	if reply.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: reply.Footer}
	}
	return embed
}

// History reads recent channel messages through the REST API.
type History struct {
	session *discordgo.Session
}

// Recent fetches up to limit messages, newest first, paging backwards through
// the channel.
func (h *History) Recent(ctx context.Context, channelID string, limit int) ([]model.Message, error) {
	var out []model.Message
	beforeID := ""

	for limit <= 0 || len(out) < limit {
		pageSize := historyPageSz
		if limit > 0 && limit-len(out) < pageSize {
			pageSize = limit - len(out)
		}

		page, err := h.session.ChannelMessages(channelID, pageSize, beforeID, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, m := range page {
			out = append(out, convertMessage(m))
		}
		beforeID = page[len(page)-1].ID
	}

	return out, nil
}
