package orchestrator

import (
	"context"
	"sync"

	"github.com/szczypior/szczypior-bot/internal/model"
)

// MockNotifier records outbound side effects for tests.
type MockNotifier struct {
	mu        sync.Mutex
	Reactions []string
	Removed   []string
	Replies   []Reply

	ReactErr error
	ReplyErr error
}

func (m *MockNotifier) React(_ context.Context, _, _, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reactions = append(m.Reactions, emoji)
	return m.ReactErr
}

func (m *MockNotifier) RemoveReaction(_ context.Context, _, _, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, emoji)
	return nil
}

func (m *MockNotifier) Reply(_ context.Context, _, _ string, reply Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Replies = append(m.Replies, reply)
	return m.ReplyErr
}

// MockHistory serves a fixed backlog of messages.
type MockHistory struct {
	Messages []model.Message
	Err      error
}

func (m *MockHistory) Recent(_ context.Context, _ string, limit int) ([]model.Message, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && len(m.Messages) > limit {
		return m.Messages[:limit], nil
	}
	return m.Messages, nil
}
