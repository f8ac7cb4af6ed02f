package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"trivia-session-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	progressKey   = "quiz:progress"
	playerNameKey = "quiz:player"
)

// ProgressStore keeps session progress and the player name in Redis as a
// single-slot JSON record. Writes are best-effort: a storage hiccup is
// logged, never surfaced, and malformed data reads back as absence.
type ProgressStore struct {
	client      *redis.Client
	progressTTL time.Duration
	playerTTL   time.Duration
}

func NewProgressStore(client *redis.Client, progressTTL, playerTTL time.Duration) *ProgressStore {
	return &ProgressStore{
		client:      client,
		progressTTL: progressTTL,
		playerTTL:   playerTTL,
	}
}

func (s *ProgressStore) SaveProgress(ctx context.Context, record domain.ProgressRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		log.Printf("marshal progress: %v", err)
		return
	}
	if err := s.client.Set(ctx, progressKey, data, s.progressTTL).Err(); err != nil {
		log.Printf("save progress: %v", err)
	}
}

func (s *ProgressStore) LoadProgress(ctx context.Context) (domain.ProgressRecord, bool) {
	data, err := s.client.Get(ctx, progressKey).Bytes()
	if err != nil {
		return domain.ProgressRecord{}, false
	}
	var record domain.ProgressRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.ProgressRecord{}, false
	}
	if record.Version != domain.ProgressRecordVersion || len(record.Questions) == 0 {
		return domain.ProgressRecord{}, false
	}
	return record, true
}

func (s *ProgressStore) ClearProgress(ctx context.Context) {
	if err := s.client.Del(ctx, progressKey).Err(); err != nil {
		log.Printf("clear progress: %v", err)
	}
}

func (s *ProgressStore) SavePlayerName(ctx context.Context, name string) {
	if err := s.client.Set(ctx, playerNameKey, name, s.playerTTL).Err(); err != nil {
		log.Printf("save player name: %v", err)
	}
}

func (s *ProgressStore) LoadPlayerName(ctx context.Context, fallback string) string {
	name, err := s.client.Get(ctx, playerNameKey).Result()
	if err != nil || name == "" {
		return fallback
	}
	return name
}
