package trivia

import (
	"context"
	"fmt"
	"sync"

	"trivia-session-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Fetcher issues a single network request for a question batch.
type Fetcher interface {
	Fetch(ctx context.Context, count int, difficulty domain.Difficulty) ([]domain.Question, error)
}

// Source caches question batches by (count, difficulty) for the lifetime of
// the process so identical requests never repeat a network call. Concurrent
// requests for the same key share one in-flight fetch.
type Source struct {
	fetcher Fetcher
	sf      singleflight.Group

	mu    sync.RWMutex
	cache map[batchKey][]domain.Question
}

type batchKey struct {
	count      int
	difficulty domain.Difficulty
}

func NewSource(fetcher Fetcher) *Source {
	return &Source{
		fetcher: fetcher,
		cache:   make(map[batchKey][]domain.Question),
	}
}

// Fetch returns the cached batch for (count, difficulty) or fills the cache
// with a single upstream request. Callers receive a fresh copy per call.
func (s *Source) Fetch(ctx context.Context, count int, difficulty domain.Difficulty) ([]domain.Question, error) {
	key := batchKey{count: count, difficulty: difficulty}

	s.mu.RLock()
	if batch, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return copyBatch(batch), nil
	}
	s.mu.RUnlock()

	result, err, _ := s.sf.Do(key.String(), func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache first.
		s.mu.RLock()
		if batch, ok := s.cache[key]; ok {
			s.mu.RUnlock()
			return batch, nil
		}
		s.mu.RUnlock()

		batch, err := s.fetcher.Fetch(ctx, count, difficulty)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache[key] = batch
		s.mu.Unlock()
		return batch, nil
	})
	if err != nil {
		return nil, err
	}
	return copyBatch(result.([]domain.Question)), nil
}

func (k batchKey) String() string {
	return fmt.Sprintf("%d-%s", k.count, k.difficulty)
}

// copyBatch shields the cached slice from caller mutation. Question fields
// are values apart from IncorrectAnswers, which is copied too.
func copyBatch(batch []domain.Question) []domain.Question {
	out := make([]domain.Question, len(batch))
	for i, q := range batch {
		q.IncorrectAnswers = append([]string(nil), q.IncorrectAnswers...)
		out[i] = q
	}
	return out
}
