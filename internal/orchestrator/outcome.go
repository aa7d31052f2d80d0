package orchestrator

// Outcome is the terminal state of processing one message. The transition
// logic decides an Outcome; all reactions and replies derive from it in the
// presentation step, never inline.
type Outcome int

const (
	// OutcomeIgnored means the message was filtered out before any work.
	OutcomeIgnored Outcome = iota
	// OutcomeDuplicate means the identity was already recorded.
	OutcomeDuplicate
	// OutcomeAnalysisFailed means the extraction call itself failed.
	OutcomeAnalysisFailed
	// OutcomeUnrecognized means the model found no complete activity.
	OutcomeUnrecognized
	// OutcomeRejected means the activity failed validation or scored zero.
	// Deliberately quiet: no reply on ambiguous cases.
	OutcomeRejected
	// OutcomeSaved means the activity was recognized and persisted.
	OutcomeSaved
	// OutcomeSavedNotPersisted means the activity was recognized but the
	// ledger write failed; the user still gets the recognition result.
	OutcomeSavedNotPersisted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeAnalysisFailed:
		return "analysis_failed"
	case OutcomeUnrecognized:
		return "unrecognized"
	case OutcomeRejected:
		return "rejected"
	case OutcomeSaved:
		return "saved"
	case OutcomeSavedNotPersisted:
		return "saved_not_persisted"
	default:
		return "unknown"
	}
}
