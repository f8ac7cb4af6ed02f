package memory

import (
	"context"
	"sync"

	"trivia-session-service/internal/domain"
)

// ProgressStore is an in-memory implementation of app.ProgressStore, used
// when no redis address is configured and in tests.
type ProgressStore struct {
	mu         sync.RWMutex
	record     *domain.ProgressRecord
	playerName string
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{}
}

func (s *ProgressStore) SaveProgress(_ context.Context, record domain.ProgressRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = &record
}

func (s *ProgressStore) LoadProgress(_ context.Context) (domain.ProgressRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil || s.record.Version != domain.ProgressRecordVersion {
		return domain.ProgressRecord{}, false
	}
	return *s.record, true
}

func (s *ProgressStore) ClearProgress(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = nil
}

func (s *ProgressStore) SavePlayerName(_ context.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerName = name
}

func (s *ProgressStore) LoadPlayerName(_ context.Context, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.playerName == "" {
		return fallback
	}
	return s.playerName
}
