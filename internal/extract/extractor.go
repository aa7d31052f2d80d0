// Package extract turns chat messages into structured activity candidates
// using an LLM, with a keyword pre-filter so the model is only paid for
// messages that plausibly report a workout.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/szczypior/szczypior-bot/internal/common"
	"github.com/szczypior/szczypior-bot/internal/config"
	"github.com/szczypior/szczypior-bot/internal/llm"
	"github.com/szczypior/szczypior-bot/internal/model"
)

// minKeywordTextLen guards against matching a keyword inside a two-word
// reaction message.
const minKeywordTextLen = 5

// Extractor runs LLM-backed activity extraction.
type Extractor struct {
	client   llm.Client
	logger   *slog.Logger
	keywords map[string][]string
	prompts  config.Prompts
	timeout  time.Duration
}

// New creates an Extractor.
func New(client llm.Client, prompts config.Prompts, keywords map[string][]string, timeout time.Duration, logger *slog.Logger) *Extractor {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Extractor{
		client:   client,
		prompts:  prompts,
		keywords: keywords,
		timeout:  timeout,
		logger:   logger,
	}
}

// MatchKeyword scans the text against the per-kind keyword sets and returns
// the first matching kind id.
func (e *Extractor) MatchKeyword(text string) (string, bool) {
	if len([]rune(text)) < minKeywordTextLen {
		return "", false
	}

	lower := strings.ToLower(text)
	for kindID, words := range e.keywords {
		for _, word := range words {
			if strings.Contains(lower, strings.ToLower(word)) {
				return kindID, true
			}
		}
	}
	return "", false
}

// Eligible reports whether the message warrants an extraction call: any
// non-GIF image is always analyzed, text needs a keyword match.
func (e *Extractor) Eligible(msg model.Message) bool {
	if _, ok := msg.ImageURL(); ok {
		return true
	}
	_, ok := e.MatchKeyword(msg.Content)
	return ok
}

// Extract runs the extraction call for the message. Images take priority;
// message text rides along as extra context. userHistory may be empty.
func (e *Extractor) Extract(ctx context.Context, msg model.Message, userHistory string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var raw string
	var err error

	if imageURL, ok := msg.ImageURL(); ok {
		prompt := e.imagePrompt(msg.Content, userHistory)
		raw, err = e.client.AnalyzeImage(ctx, imageURL, prompt)
	} else {
		prompt := strings.ReplaceAll(e.prompts.TextAnalysis, "{text}", msg.Content)
		raw, err = e.client.GenerateText(ctx, prompt, llm.GenerateOptions{})
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("%w: %w", common.ErrAnalysisTimeout, err)
		}
		return Result{}, fmt.Errorf("%w: %w", common.ErrAnalysisFailed, err)
	}

	result, err := parseResponse(raw)
	if err != nil {
		e.logger.Warn("unparsable extraction response",
			"error", err,
			"preview", preview(raw))
		return Result{}, err
	}

	if result.Recognized {
		e.logger.Info("activity extracted",
			"kind", result.Candidate.KindID,
			"distance", result.Candidate.Distance,
			"model", e.client.ModelInfo())
	} else {
		e.logger.Info("no activity in message", "reason", result.Reason)
	}

	return result, nil
}

// imagePrompt assembles the vision prompt, wrapping the system prompt with
// message text and history when present.
func (e *Extractor) imagePrompt(textContext, userHistory string) string {
	if textContext == "" {
		return e.prompts.ActivityAnalysis
	}

	if userHistory == "" {
		userHistory = "Brak wcześniejszych aktywności."
	}

	prompt := e.prompts.WithContext
	prompt = strings.ReplaceAll(prompt, "{system_prompt}", e.prompts.ActivityAnalysis)
	prompt = strings.ReplaceAll(prompt, "{text_context}", textContext)
	prompt = strings.ReplaceAll(prompt, "{user_history}", userHistory)
	return prompt
}

func preview(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
