// Package orchestrator drives the message processing pipeline: eligibility,
// duplicate check, extraction, scoring, persistence and response.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/szczypior/szczypior-bot/internal/catalog"
	"github.com/szczypior/szczypior-bot/internal/common"
	"github.com/szczypior/szczypior-bot/internal/config"
	"github.com/szczypior/szczypior-bot/internal/extract"
	"github.com/szczypior/szczypior-bot/internal/ledger"
	"github.com/szczypior/szczypior-bot/internal/llm"
	"github.com/szczypior/szczypior-bot/internal/model"
	"github.com/szczypior/szczypior-bot/internal/scoring"
)

// historyContextSize bounds how much user history rides along in prompts.
const historyContextSize = 5

// Decision is the result of ingesting one message.
type Decision struct {
	Outcome   Outcome
	Candidate model.Candidate
	Points    int
	Comment   string
}

// Orchestrator wires the extraction service, the scoring rules and the ledger
// together. It owns no platform state; the Notifier boundary carries every
// side effect.
type Orchestrator struct {
	catalog   *catalog.Catalog
	extractor *extract.Extractor
	ledger    ledger.Ledger
	client    llm.Client
	notifier  Notifier
	logger    *slog.Logger
	prompts   config.Prompts
	prefix    string
}

// New creates an Orchestrator.
func New(cat *catalog.Catalog, extractor *extract.Extractor, led ledger.Ledger, client llm.Client, notifier Notifier, prompts config.Prompts, prefix string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		catalog:   cat,
		extractor: extractor,
		ledger:    led,
		client:    client,
		notifier:  notifier,
		prompts:   prompts,
		prefix:    prefix,
		logger:    logger,
	}
}

// HandleMessage processes one live message end to end and emits the matching
// reactions and reply.
func (o *Orchestrator) HandleMessage(ctx context.Context, msg model.Message) Outcome {
	if msg.FromBot || strings.HasPrefix(msg.Content, o.prefix) {
		return OutcomeIgnored
	}

	if !o.extractor.Eligible(msg) {
		return OutcomeIgnored
	}

	// Duplicates are settled before any extraction call so a re-delivered
	// message never costs an LLM round trip. The acknowledgment reaction
	// is re-applied in case a prior run crashed between persisting and
	// reacting.
	if o.ledger.Exists(msg.Identity()) {
		o.logger.Debug("skipping already processed message", "iid", msg.Identity())
		if !msg.HasReaction(EmojiDone) {
			o.react(ctx, msg, EmojiDone)
		}
		return OutcomeDuplicate
	}

	o.react(ctx, msg, EmojiThinking)

	decision := o.Ingest(ctx, msg, false)
	o.present(ctx, msg, decision)

	o.logger.Info("message processed",
		"author", msg.AuthorName,
		"outcome", decision.Outcome.String())
	return decision.Outcome
}

// Eligible reports whether the message warrants analysis at all.
func (o *Orchestrator) Eligible(msg model.Message) bool {
	return o.extractor.Eligible(msg)
}

// Ingest runs extraction, scoring and persistence for a message and returns
// the decision. In batch mode (backlog sync) the commentary step is skipped
// and the duration fallback rescues timed workouts without a distance.
func (o *Orchestrator) Ingest(ctx context.Context, msg model.Message, batch bool) Decision {
	var userHistory string
	if !batch {
		userHistory = o.historyContext(ctx, msg.AuthorName)
	}

	result, err := o.extractor.Extract(ctx, msg, userHistory)
	if err != nil {
		if errors.Is(err, common.ErrMalformedResponse) {
			// Unparsable model output means "no activity detected",
			// not an operational failure.
			return Decision{Outcome: OutcomeUnrecognized}
		}
		o.logger.Error("extraction failed", "error", err, "author", msg.AuthorName)
		return Decision{Outcome: OutcomeAnalysisFailed}
	}

	if !result.Recognized {
		if batch {
			if candidate, ok := extract.DurationFallback(result); ok {
				result = extract.Result{Candidate: candidate, Recognized: true}
			}
		}
		if !result.Recognized {
			return Decision{Outcome: OutcomeUnrecognized}
		}
	}

	candidate := result.Candidate

	points, err := scoring.Score(o.catalog, scoring.Input{
		KindID:    candidate.KindID,
		Distance:  candidate.Distance,
		Weight:    candidate.Weight,
		Elevation: candidate.Elevation,
	}, scoring.Lenient)
	if err != nil || points <= 0 {
		o.logger.Info("activity rejected by scoring",
			"kind", candidate.KindID,
			"distance", candidate.Distance,
			"reason", common.UserMessage(err))
		return Decision{Outcome: OutcomeRejected, Candidate: candidate}
	}

	var comment string
	if !batch {
		comment = o.GenerateComment(ctx, msg.AuthorName, candidate, points)
	}

	outcome := OutcomeSaved
	if err := o.ledger.Record(ctx, o.buildEntry(msg, candidate)); err != nil {
		// The user still gets the recognition result, flagged as
		// unsaved.
		o.logger.Error("failed to persist activity", "error", err, "author", msg.AuthorName)
		outcome = OutcomeSavedNotPersisted
	}

	return Decision{
		Outcome:   outcome,
		Candidate: candidate,
		Points:    points,
		Comment:   comment,
	}
}

// buildEntry projects a scored candidate onto a ledger row.
func (o *Orchestrator) buildEntry(msg model.Message, candidate model.Candidate) model.Entry {
	return model.Entry{
		Date:          msg.CreatedAt,
		Nick:          msg.AuthorName,
		ActivityLabel: catalog.NormalizeLabel(o.displayLabel(candidate.KindID)),
		Distance:      candidate.Distance,
		Elevation:     candidate.Elevation,
		HeavyLoad:     candidate.HeavyLoad(),
		Identity:      msg.Identity(),
	}
}

func (o *Orchestrator) displayLabel(kindID string) string {
	if kind, ok := o.catalog.Kind(kindID); ok {
		return kind.DisplayName
	}
	return kindID
}

// present maps the decision onto reactions and the reply. Side effects are
// best effort; a failed reaction never changes the outcome.
func (o *Orchestrator) present(ctx context.Context, msg model.Message, decision Decision) {
	o.removeReaction(ctx, msg, EmojiThinking)

	switch decision.Outcome {
	case OutcomeAnalysisFailed, OutcomeUnrecognized:
		o.react(ctx, msg, EmojiUnknown)
	case OutcomeSaved, OutcomeSavedNotPersisted:
		reply := o.buildReply(msg, decision)
		if err := o.notifier.Reply(ctx, msg.ChannelID, msg.ID, reply); err != nil {
			o.logger.Error("failed to send reply", "error", err)
		}
		o.react(ctx, msg, EmojiDone)
	case OutcomeIgnored, OutcomeDuplicate, OutcomeRejected:
		// Quiet terminals.
	}
}

// buildReply renders the structured recognition reply.
func (o *Orchestrator) buildReply(msg model.Message, decision Decision) Reply {
	candidate := decision.Candidate
	kind, _ := o.catalog.Kind(candidate.KindID)

	fields := []Field{
		{Name: "Użytkownik", Value: msg.AuthorName, Inline: true},
		{Name: "Typ", Value: kind.DisplayName, Inline: true},
		{Name: fmt.Sprintf("Dystans (%s)", kind.Unit), Value: model.FormatDistance(candidate.Distance, 2), Inline: true},
	}

	optional := []struct {
		name  string
		value string
	}{
		{"⏱️ Czas", candidate.Duration},
		{"⚡ Tempo", candidate.Pace},
		{"❤️ Puls", suffixed(candidate.HeartRate, " bpm")},
		{"🎒 Obciążenie", nonZero(candidate.Weight, " kg")},
		{"⛰️ Przewyższenie", nonZero(candidate.Elevation, " m")},
		{"🔥 Kalorie", suffixed(candidate.Calories, " kcal")},
	}
	for _, f := range optional {
		if f.value != "" {
			fields = append(fields, Field{Name: f.name, Value: f.value, Inline: true})
		}
	}

	fields = append(fields, Field{Name: "🏆 Punkty", Value: fmt.Sprintf("**%d**", decision.Points)})
	if decision.Comment != "" {
		fields = append(fields, Field{Name: "💬 Komentarz", Value: decision.Comment})
	}

	reply := Reply{
		Title:  fmt.Sprintf("%s Automatycznie rozpoznano aktywność!", kind.Emoji),
		Fields: fields,
		Saved:  decision.Outcome == OutcomeSaved,
	}
	if decision.Outcome == OutcomeSavedNotPersisted {
		reply.Footer = "⚠️ Dane nie zostały zapisane do Google Sheets"
	}
	return reply
}

func (o *Orchestrator) react(ctx context.Context, msg model.Message, emoji string) {
	if err := o.notifier.React(ctx, msg.ChannelID, msg.ID, emoji); err != nil {
		o.logger.Warn("failed to add reaction", "emoji", emoji, "error", err)
	}
}

func (o *Orchestrator) removeReaction(ctx context.Context, msg model.Message, emoji string) {
	if err := o.notifier.RemoveReaction(ctx, msg.ChannelID, msg.ID, emoji); err != nil {
		o.logger.Warn("failed to remove reaction", "emoji", emoji, "error", err)
	}
}

func suffixed(value, suffix string) string {
	if value == "" {
		return ""
	}
	return value + suffix
}

func nonZero(value float64, suffix string) string {
	if value <= 0 {
		return ""
	}
	return model.FormatDistance(value, 1) + suffix
}
