// Package backlog replays channel history through the ingestion pipeline so
// activities posted while the bot was offline still end up in the ledger.
package backlog

import (
	"context"
	"log/slog"

	"github.com/szczypior/szczypior-bot/internal/ledger"
	"github.com/szczypior/szczypior-bot/internal/orchestrator"
)

// Report summarizes one synchronization run.
type Report struct {
	Scanned      int
	Added        int
	Duplicates   int
	Unrecognized int
	Rejected     int
	Failed       int
}

// Synchronizer scans recent channel messages and ingests the ones that look
// like activity reports but were never recorded.
type Synchronizer struct {
	history orchestrator.History
	orch    *orchestrator.Orchestrator
	ledger  ledger.Ledger
	logger  *slog.Logger
}

// New creates a Synchronizer.
func New(history orchestrator.History, orch *orchestrator.Orchestrator, led ledger.Ledger, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		history: history,
		orch:    orch,
		ledger:  led,
		logger:  logger,
	}
}

// Sync fetches up to limit recent messages from the channel and runs each
// unprocessed candidate through extraction and scoring in batch mode. Failures
// on individual messages are counted and skipped, never aborting the run. The
// run is idempotent: a second pass over the same history adds nothing.
func (s *Synchronizer) Sync(ctx context.Context, channelID string, limit int) (Report, error) {
	var report Report

	messages, err := s.history.Recent(ctx, channelID, limit)
	if err != nil {
		return report, err
	}

	s.logger.Info("backlog sync started", "channel", channelID, "messages", len(messages))

	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if msg.FromBot || !s.orch.Eligible(msg) {
			continue
		}
		report.Scanned++

		if s.ledger.Exists(msg.Identity()) {
			report.Duplicates++
			continue
		}

		decision := s.orch.Ingest(ctx, msg, true)
		switch decision.Outcome {
		case orchestrator.OutcomeSaved:
			report.Added++
			s.logger.Info("backlog activity recorded",
				"author", msg.AuthorName,
				"kind", decision.Candidate.KindID,
				"points", decision.Points)
		case orchestrator.OutcomeUnrecognized:
			report.Unrecognized++
		case orchestrator.OutcomeRejected:
			report.Rejected++
		case orchestrator.OutcomeAnalysisFailed, orchestrator.OutcomeSavedNotPersisted:
			// A recognized activity whose write failed is a failure here,
			// not a recovery; the next run will pick it up again.
			report.Failed++
		}
	}

	s.logger.Info("backlog sync finished",
		"scanned", report.Scanned,
		"added", report.Added,
		"duplicates", report.Duplicates,
		"unrecognized", report.Unrecognized,
		"failed", report.Failed)
	return report, nil
}
