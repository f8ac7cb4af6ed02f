package memory

import (
	"context"
	"testing"

	"trivia-session-service/internal/domain"
)

func TestProgressLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore()

	if _, ok := store.LoadProgress(ctx); ok {
		t.Fatal("expected no saved progress")
	}

	record := domain.ProgressRecord{
		Version:      domain.ProgressRecordVersion,
		Questions:    []domain.Question{{Text: "Q?", CorrectAnswer: "A"}},
		CurrentIndex: 0,
		Score:        1,
		Answers:      map[int]string{0: "A"},
	}
	store.SaveProgress(ctx, record)

	loaded, ok := store.LoadProgress(ctx)
	if !ok {
		t.Fatal("expected saved progress")
	}
	if loaded.Score != 1 || loaded.Answers[0] != "A" {
		t.Fatalf("unexpected record: %+v", loaded)
	}

	store.ClearProgress(ctx)
	if _, ok := store.LoadProgress(ctx); ok {
		t.Fatal("expected progress cleared")
	}
	// Clear is idempotent.
	store.ClearProgress(ctx)
}

func TestUnknownVersionReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore()
	store.SaveProgress(ctx, domain.ProgressRecord{Version: 99})
	if _, ok := store.LoadProgress(ctx); ok {
		t.Fatal("expected unknown version to read as absent")
	}
}

func TestPlayerNameSlot(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore()

	if got := store.LoadPlayerName(ctx, "Player"); got != "Player" {
		t.Fatalf("expected fallback, got %q", got)
	}
	store.SavePlayerName(ctx, "Alice")
	if got := store.LoadPlayerName(ctx, "Player"); got != "Alice" {
		t.Fatalf("expected stored name, got %q", got)
	}

	// The name slot outlives progress.
	store.ClearProgress(ctx)
	if got := store.LoadPlayerName(ctx, "Player"); got != "Alice" {
		t.Fatalf("expected name to survive progress clear, got %q", got)
	}
}
