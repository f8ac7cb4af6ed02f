package app

import (
	"context"

	"trivia-session-service/internal/domain"
)

// QuestionSource provides question batches (cached, in-memory or remote).
type QuestionSource interface {
	Fetch(ctx context.Context, count int, difficulty domain.Difficulty) ([]domain.Question, error)
}

// ProgressStore persists session progress and the player's name. All
// operations are best-effort and never fail from the engine's point of view:
// absent or structurally invalid data reads back as absence.
type ProgressStore interface {
	SaveProgress(ctx context.Context, record domain.ProgressRecord)
	LoadProgress(ctx context.Context) (domain.ProgressRecord, bool)
	ClearProgress(ctx context.Context)
	SavePlayerName(ctx context.Context, name string)
	LoadPlayerName(ctx context.Context, fallback string) string
}

// ReportArchive stores completed session reports for later inspection.
type ReportArchive interface {
	SaveReport(ctx context.Context, report domain.Report) error
}
