package ledger

import (
	"context"

	"github.com/szczypior/szczypior-bot/internal/model"
)

// Ledger is the persistence boundary the orchestrator and the backlog
// synchronizer depend on.
type Ledger interface {
	// BuildIndex rebuilds the in-memory duplicate index from the store.
	// Must be called once at startup before Exists is trusted.
	BuildIndex(ctx context.Context) error

	// Exists reports whether an entry with the given identity is already
	// recorded, according to the index.
	Exists(identity model.MessageIdentity) bool

	// Record appends a new entry. Recording an identity that already
	// exists is a no-op, not an error.
	Record(ctx context.Context, entry model.Entry) error

	// UserHistory returns all recorded activities for a nick, oldest first.
	UserHistory(ctx context.Context, nick string) ([]model.UserActivity, error)

	// AllActivities returns every recorded activity, oldest first.
	AllActivities(ctx context.Context) ([]model.UserActivity, error)
}
