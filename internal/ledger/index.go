package ledger

import (
	"sync"

	"github.com/szczypior/szczypior-bot/internal/model"
)

// identityIndex is the in-memory duplicate index. It is a read-through view
// of the store's IID column: stale until BuildIndex runs, exact afterwards
// for everything this process recorded.
type identityIndex struct {
	mu  sync.RWMutex
	ids map[model.MessageIdentity]struct{}
}

func newIdentityIndex() *identityIndex {
	return &identityIndex{ids: make(map[model.MessageIdentity]struct{})}
}

func (i *identityIndex) has(id model.MessageIdentity) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.ids[id]
	return ok
}

func (i *identityIndex) add(id model.MessageIdentity) {
	if id == "" {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ids[id] = struct{}{}
}

// reset replaces the whole index in one shot.
func (i *identityIndex) reset(ids []model.MessageIdentity) {
	fresh := make(map[model.MessageIdentity]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			fresh[id] = struct{}{}
		}
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ids = fresh
}

func (i *identityIndex) size() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.ids)
}
