package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/szczypior/szczypior-bot/internal/llm"
	"github.com/szczypior/szczypior-bot/internal/model"
)

// fallbackComment is used whenever commentary generation fails. Generation is
// best effort and never blocks the response.
const fallbackComment = "Dobra robota!"

// GenerateComment produces the motivational comment for a freshly scored
// activity, grounded in the user's recent history.
func (o *Orchestrator) GenerateComment(ctx context.Context, nick string, candidate model.Candidate, points int) string {
	history, err := o.ledger.UserHistory(ctx, nick)
	if err != nil {
		o.logger.Warn("failed to fetch history for commentary", "nick", nick, "error", err)
	}

	prompt := o.commentPrompt(candidate, points, history)

	comment, err := o.client.GenerateText(ctx, prompt, llm.GenerateOptions{
		Temperature: 0.8,
		MaxTokens:   200,
	})
	if err != nil {
		o.logger.Warn("failed to generate comment", "error", err)
		return fallbackComment
	}

	comment = strings.TrimSpace(comment)
	if comment == "" {
		return fallbackComment
	}
	return comment
}

// commentPrompt fills the commentary template with the current activity and
// an aggregate of the user's history.
func (o *Orchestrator) commentPrompt(candidate model.Candidate, points int, history []model.UserActivity) string {
	var totalDistance float64
	totalPoints := 0
	for _, act := range history {
		totalDistance += act.Distance
		totalPoints += act.Points
	}

	historyText := "To pierwsza zarejestrowana aktywność!"
	if len(history) > 0 {
		recent := history
		if len(recent) > historyContextSize {
			recent = recent[len(recent)-historyContextSize:]
		}
		lines := make([]string, 0, len(recent))
		for _, act := range recent {
			lines = append(lines, fmt.Sprintf("- %s: %s km, %d pkt (Data: %s)",
				act.Activity, model.FormatDistance(act.Distance, 1), act.Points, act.Date))
		}
		historyText = strings.Join(lines, "\n")
	}

	replacements := map[string]string{
		"{activity_type}":  o.displayLabel(candidate.KindID),
		"{distance}":       model.FormatDistance(candidate.Distance, 1),
		"{points}":         fmt.Sprintf("%d", points),
		"{activity_count}": fmt.Sprintf("%d", len(history)),
		"{total_distance}": model.FormatDistance(totalDistance, 1),
		"{total_points}":   fmt.Sprintf("%d", totalPoints),
		"{history_text}":   historyText,
	}

	prompt := o.prompts.MotivationalComment
	for placeholder, value := range replacements {
		prompt = strings.ReplaceAll(prompt, placeholder, value)
	}
	return prompt
}

// historyContext renders the last few activities as prompt context for image
// extraction.
func (o *Orchestrator) historyContext(ctx context.Context, nick string) string {
	history, err := o.ledger.UserHistory(ctx, nick)
	if err != nil || len(history) == 0 {
		return ""
	}

	if len(history) > historyContextSize {
		history = history[len(history)-historyContextSize:]
	}

	lines := make([]string, 0, len(history))
	for _, act := range history {
		lines = append(lines, fmt.Sprintf("- %s: %s %s km, %d pkt",
			act.Date, act.Activity, model.FormatDistance(act.Distance, 1), act.Points))
	}
	return strings.Join(lines, "\n")
}
