package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/szczypior/szczypior-bot/internal/catalog"
	"github.com/szczypior/szczypior-bot/internal/common"
	"github.com/szczypior/szczypior-bot/internal/config"
	"github.com/szczypior/szczypior-bot/internal/extract"
	"github.com/szczypior/szczypior-bot/internal/ledger"
	"github.com/szczypior/szczypior-bot/internal/llm"
	"github.com/szczypior/szczypior-bot/internal/orchestrator"
)

// loadConfig builds the configuration and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := common.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	return cfg, nil
}

// openLedger connects to Google Sheets and loads the deduplication index.
func openLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ledger.SheetsLedger, error) {
	led, err := ledger.NewSheetsLedger(ctx, cfg.Sheets, logger)
	if err != nil {
		return nil, err
	}

	if err := led.BuildIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to index existing entries: %w", err)
	}

	return led, nil
}

// buildPipeline wires the LLM client, extractor and orchestrator. The caller
// owns closing the returned client.
func buildPipeline(ctx context.Context, cfg *config.Config, led ledger.Ledger, notifier orchestrator.Notifier, logger *slog.Logger) (*orchestrator.Orchestrator, llm.Client, error) {
	client, err := llm.NewClient(ctx, llm.Config{
		Provider:          cfg.LLM.Provider,
		Model:             cfg.LLM.Model,
		APIKey:            cfg.LLM.APIKey,
		Temperature:       cfg.LLM.Temperature,
		MaxTokens:         cfg.LLM.MaxTokens,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerMinute: requestsPerMinute(cfg.LLM.MinInterval),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	extractor := extract.New(client, cfg.Prompts, cfg.Keywords, cfg.LLM.Timeout, logger)
	orch := orchestrator.New(catalog.Default(), extractor, led, client, notifier,
		cfg.Prompts, cfg.CommandPrefix, logger)

	return orch, client, nil
}

func requestsPerMinute(minInterval time.Duration) int {
	if minInterval <= 0 {
		return 0
	}
	return int(time.Minute / minInterval)
}
