package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trivia-session-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ReportArchive persists completed session reports to Postgres so score
// history survives the process. Per-question results are stored as JSONB.
type ReportArchive struct {
	pool *pgxpool.Pool
}

func NewReportArchive(pool *pgxpool.Pool) *ReportArchive {
	return &ReportArchive{pool: pool}
}

func (a *ReportArchive) SaveReport(ctx context.Context, report domain.Report) error {
	perQuestion, err := json.Marshal(report.PerQuestion)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = a.pool.Exec(ctx, `
		INSERT INTO session_reports (player_name, difficulty, score, total_questions, percentage, per_question, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		report.PlayerName, string(report.Difficulty), report.Score, report.Total, report.Percentage, perQuestion, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// ArchivedReport is one row of score history.
type ArchivedReport struct {
	PlayerName string    `json:"playerName"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	Total      int       `json:"totalQuestions"`
	Percentage int       `json:"percentage"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RecentReports returns the newest archived reports, most recent first.
func (a *ReportArchive) RecentReports(ctx context.Context, limit int) ([]ArchivedReport, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT player_name, difficulty, score, total_questions, percentage, created_at
		FROM session_reports
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []ArchivedReport
	for rows.Next() {
		var r ArchivedReport
		if err := rows.Scan(&r.PlayerName, &r.Difficulty, &r.Score, &r.Total, &r.Percentage, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
