package orchestrator

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szczypior/szczypior-bot/internal/catalog"
	"github.com/szczypior/szczypior-bot/internal/config"
	"github.com/szczypior/szczypior-bot/internal/extract"
	"github.com/szczypior/szczypior-bot/internal/ledger"
	"github.com/szczypior/szczypior-bot/internal/llm"
	"github.com/szczypior/szczypior-bot/internal/model"
)

type fixture struct {
	orchestrator *Orchestrator
	client       *llm.MockClient
	ledger       *ledger.MockLedger
	notifier     *MockNotifier
}

func newFixture(client *llm.MockClient) *fixture {
	led := ledger.NewMockLedger()
	notifier := &MockNotifier{}
	keywords := map[string][]string{
		"bieganie_teren": {"bieganie", "przebiegłem"},
		"plywanie":       {"basen"},
		"rower":          {"rower"},
	}
	prompts := config.Prompts{
		ActivityAnalysis:    "IMAGE",
		TextAnalysis:        "TEXT: {text}",
		WithContext:         "{system_prompt} {text_context} {user_history}",
		MotivationalComment: "comment for {activity_type} {distance} {points} {history_text}",
	}
	extractor := extract.New(client, prompts, keywords, 5*time.Second, slog.Default())

	return &fixture{
		orchestrator: New(catalog.Default(), extractor, led, client, notifier, prompts, "!", slog.Default()),
		client:       client,
		ledger:       led,
		notifier:     notifier,
	}
}

func textMessage(content string) model.Message {
	return model.Message{
		ID:         "555",
		ChannelID:  "chan-1",
		AuthorName: "gruby",
		Content:    content,
		CreatedAt:  time.Date(2025, 6, 14, 18, 30, 12, 0, time.UTC),
	}
}

func imageMessage(content string) model.Message {
	msg := textMessage(content)
	msg.Attachments = []model.Attachment{
		{URL: "https://cdn.example/workout.png", ContentType: "image/png"},
	}
	return msg
}

func TestHandleMessage_IgnoresBotsAndCommands(t *testing.T) {
	f := newFixture(&llm.MockClient{})
	ctx := context.Background()

	bot := textMessage("bieganie 10km")
	bot.FromBot = true
	assert.Equal(t, OutcomeIgnored, f.orchestrator.HandleMessage(ctx, bot))

	command := textMessage("!dodaj_aktywnosc bieganie_teren 10")
	assert.Equal(t, OutcomeIgnored, f.orchestrator.HandleMessage(ctx, command))

	smallTalk := textMessage("hej, co słychać?")
	assert.Equal(t, OutcomeIgnored, f.orchestrator.HandleMessage(ctx, smallTalk))

	assert.Empty(t, f.notifier.Reactions)
	assert.Empty(t, f.client.TextPrompts)
	assert.Empty(t, f.client.ImageURLs)
}

func TestHandleMessage_SavesRecognizedActivity(t *testing.T) {
	client := &llm.MockClient{
		ImageResponse: `{"typ_aktywnosci": "bieganie_teren", "dystans": 10, "czas": "52:10", "komentarz": "solidny bieg"}`,
		TextResponse:  "Niezłe tempo, tak trzymać!",
	}
	f := newFixture(client)

	outcome := f.orchestrator.HandleMessage(context.Background(), imageMessage("poranny trening"))

	assert.Equal(t, OutcomeSaved, outcome)

	entries := f.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Bieganie (Teren)", entries[0].ActivityLabel)
	assert.Equal(t, 10.0, entries[0].Distance)
	assert.Equal(t, model.NewMessageIdentity(entries[0].Date, "555"), entries[0].Identity)

	// Thinking reaction first, acknowledgment last.
	assert.Equal(t, []string{EmojiThinking, EmojiDone}, f.notifier.Reactions)
	assert.Equal(t, []string{EmojiThinking}, f.notifier.Removed)

	require.Len(t, f.notifier.Replies, 1)
	reply := f.notifier.Replies[0]
	assert.Contains(t, reply.Title, "Automatycznie rozpoznano")
	assert.True(t, reply.Saved)
	assertField(t, reply, "Typ", "Bieganie (Teren)")
	assertField(t, reply, "🏆 Punkty", "**10000**")
	assertField(t, reply, "💬 Komentarz", "Niezłe tempo, tak trzymać!")
}

func TestHandleMessage_DuplicateShortCircuitsBeforeExtraction(t *testing.T) {
	client := &llm.MockClient{
		ImageResponse: `{"typ_aktywnosci": "bieganie_teren", "dystans": 10}`,
	}
	f := newFixture(client)

	msg := imageMessage("")
	f.ledger.SeedIdentity(msg.Identity())

	outcome := f.orchestrator.HandleMessage(context.Background(), msg)

	assert.Equal(t, OutcomeDuplicate, outcome)
	assert.Empty(t, f.client.ImageURLs, "duplicate must not reach the model")
	// Idempotent re-acknowledgment.
	assert.Equal(t, []string{EmojiDone}, f.notifier.Reactions)
	assert.Empty(t, f.notifier.Replies)
}

func TestHandleMessage_DuplicateWithExistingReactionStaysSilent(t *testing.T) {
	f := newFixture(&llm.MockClient{})

	msg := imageMessage("")
	msg.Reactions = []string{EmojiDone}
	f.ledger.SeedIdentity(msg.Identity())

	outcome := f.orchestrator.HandleMessage(context.Background(), msg)

	assert.Equal(t, OutcomeDuplicate, outcome)
	assert.Empty(t, f.notifier.Reactions)
}

func TestHandleMessage_UnrecognizedImage(t *testing.T) {
	client := &llm.MockClient{
		ImageResponse: `{"typ_aktywnosci": null, "dystans": null, "komentarz": "Nie wykryto danych o aktywności"}`,
	}
	f := newFixture(client)

	outcome := f.orchestrator.HandleMessage(context.Background(), imageMessage(""))

	assert.Equal(t, OutcomeUnrecognized, outcome)
	assert.Empty(t, f.ledger.Entries(), "no ledger write for unrecognized")
	assert.Equal(t, []string{EmojiThinking, EmojiUnknown}, f.notifier.Reactions)
	assert.Empty(t, f.notifier.Replies)
}

func TestHandleMessage_MalformedResponseIsUnrecognized(t *testing.T) {
	client := &llm.MockClient{ImageResponse: "I am sorry, I cannot parse this image."}
	f := newFixture(client)

	outcome := f.orchestrator.HandleMessage(context.Background(), imageMessage(""))

	assert.Equal(t, OutcomeUnrecognized, outcome)
	assert.Equal(t, []string{EmojiThinking, EmojiUnknown}, f.notifier.Reactions)
}

func TestHandleMessage_AnalysisFailure(t *testing.T) {
	client := &llm.MockClient{ImageErr: assert.AnError}
	f := newFixture(client)

	outcome := f.orchestrator.HandleMessage(context.Background(), imageMessage(""))

	assert.Equal(t, OutcomeAnalysisFailed, outcome)
	assert.Equal(t, []string{EmojiThinking, EmojiUnknown}, f.notifier.Reactions)
	assert.Empty(t, f.ledger.Entries())
}

func TestHandleMessage_BelowMinimumIsQuietlyRejected(t *testing.T) {
	client := &llm.MockClient{
		ImageResponse: `{"typ_aktywnosci": "rower", "dystans": 5}`,
	}
	f := newFixture(client)

	outcome := f.orchestrator.HandleMessage(context.Background(), imageMessage(""))

	assert.Equal(t, OutcomeRejected, outcome)
	assert.Empty(t, f.ledger.Entries())
	// Thinking cleared, nothing else: no spam on ambiguous cases.
	assert.Equal(t, []string{EmojiThinking}, f.notifier.Reactions)
	assert.Equal(t, []string{EmojiThinking}, f.notifier.Removed)
	assert.Empty(t, f.notifier.Replies)
}

func TestHandleMessage_PersistenceFailureStillReplies(t *testing.T) {
	client := &llm.MockClient{
		ImageResponse: `{"typ_aktywnosci": "plywanie", "dystans": 2}`,
		TextResponse:  "Świetnie!",
	}
	f := newFixture(client)
	f.ledger.RecordErr = assert.AnError

	outcome := f.orchestrator.HandleMessage(context.Background(), imageMessage(""))

	assert.Equal(t, OutcomeSavedNotPersisted, outcome)
	require.Len(t, f.notifier.Replies, 1)
	reply := f.notifier.Replies[0]
	assert.False(t, reply.Saved)
	assert.Equal(t, "⚠️ Dane nie zostały zapisane do Google Sheets", reply.Footer)
}

func TestHandleMessage_CommentFallback(t *testing.T) {
	client := &llm.MockClient{
		ImageResponse: `{"typ_aktywnosci": "plywanie", "dystans": 2}`,
		TextErr:       assert.AnError,
	}
	f := newFixture(client)

	outcome := f.orchestrator.HandleMessage(context.Background(), imageMessage(""))

	assert.Equal(t, OutcomeSaved, outcome)
	require.Len(t, f.notifier.Replies, 1)
	assertField(t, f.notifier.Replies[0], "💬 Komentarz", fallbackComment)
}

func TestIngest_BatchAppliesDurationFallback(t *testing.T) {
	client := &llm.MockClient{
		ImageResponse: `{"typ_aktywnosci": null, "dystans": null, "komentarz": "Trening cardio, czas trwania 45:00, tętno 150 bpm"}`,
	}
	f := newFixture(client)

	decision := f.orchestrator.Ingest(context.Background(), imageMessage(""), true)

	assert.Equal(t, OutcomeSaved, decision.Outcome)
	assert.Equal(t, "cardio", decision.Candidate.KindID)
	assert.Equal(t, 4.5, decision.Candidate.Distance)
	assert.Empty(t, decision.Comment, "batch mode skips commentary")

	entries := f.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Inne Cardio", entries[0].ActivityLabel)
}

func TestIngest_LiveModeDoesNotApplyDurationFallback(t *testing.T) {
	client := &llm.MockClient{
		ImageResponse: `{"typ_aktywnosci": null, "dystans": null, "komentarz": "Trening cardio, czas trwania 45:00"}`,
	}
	f := newFixture(client)

	decision := f.orchestrator.Ingest(context.Background(), imageMessage(""), false)

	assert.Equal(t, OutcomeUnrecognized, decision.Outcome)
	assert.Empty(t, f.ledger.Entries())
}

func TestCommentPrompt_UsesHistory(t *testing.T) {
	f := newFixture(&llm.MockClient{TextResponse: "ok"})
	f.ledger.SeedHistory("gruby", []model.UserActivity{
		{Date: "2025-06-01", Nick: "gruby", Activity: "Pływanie", Distance: 1.5, Points: 6000},
		{Date: "2025-06-07", Nick: "gruby", Activity: "Bieganie (Teren)", Distance: 8, Points: 8000},
	})

	f.orchestrator.GenerateComment(context.Background(), "gruby",
		model.Candidate{KindID: "bieganie_teren", Distance: 10}, 10000)

	require.Len(t, f.client.TextPrompts, 1)
	prompt := f.client.TextPrompts[0]
	assert.Contains(t, prompt, "Bieganie (Teren)")
	assert.Contains(t, prompt, "Pływanie")
	assert.NotContains(t, prompt, "{history_text}")
	assert.Equal(t, 0.8, f.client.LastOptions.Temperature)
	assert.Equal(t, 200, f.client.LastOptions.MaxTokens)
}

func assertField(t *testing.T, reply Reply, name, value string) {
	t.Helper()
	for _, f := range reply.Fields {
		if f.Name == name {
			assert.Equal(t, value, f.Value)
			return
		}
	}
	t.Fatalf("field %q not found in reply", name)
}
