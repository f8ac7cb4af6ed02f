package app

import (
	"testing"

	"trivia-session-service/internal/domain"
)

func TestSummarizeBuildsPerQuestionReport(t *testing.T) {
	questions := makeQuestions(4)
	answers := map[int]string{
		0: correctAnswer(0),
		1: "wrong",
		2: correctAnswer(2),
		// index 3 left unanswered
	}

	report := Summarize("Alice", domain.DifficultyMedium, questions, answers, 2)

	if report.Total != 4 || report.Score != 2 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if report.ScoreFraction != 0.5 || report.Percentage != 50 {
		t.Fatalf("expected 50%%, got fraction=%v percentage=%d", report.ScoreFraction, report.Percentage)
	}
	if len(report.PerQuestion) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(report.PerQuestion))
	}
	if !report.PerQuestion[0].Correct || report.PerQuestion[1].Correct {
		t.Fatalf("unexpected correctness: %+v", report.PerQuestion)
	}
	if report.PerQuestion[3].ChosenAnswer != "" || report.PerQuestion[3].Correct {
		t.Fatalf("expected unanswered row, got %+v", report.PerQuestion[3])
	}
	if report.PerQuestion[1].CorrectAnswer != correctAnswer(1) {
		t.Fatalf("expected correct answer recorded, got %+v", report.PerQuestion[1])
	}
}

func TestSummarizeMessageBuckets(t *testing.T) {
	cases := []struct {
		score   int
		total   int
		message string
	}{
		{10, 10, "Excellent!"},
		{8, 10, "Excellent!"},
		{7, 10, "Good job!"},
		{6, 10, "Good job!"},
		{4, 10, "Not bad!"},
		{3, 10, "Keep practicing!"},
		{0, 10, "Keep practicing!"},
	}
	for _, c := range cases {
		report := Summarize("Alice", domain.DifficultyEasy, makeQuestions(c.total), nil, c.score)
		if report.Message != c.message {
			t.Fatalf("score %d/%d: expected %q, got %q", c.score, c.total, c.message, report.Message)
		}
	}
}

func TestSummarizeEmptySession(t *testing.T) {
	report := Summarize("Alice", domain.DifficultyEasy, nil, nil, 0)
	if report.ScoreFraction != 0 || report.Percentage != 0 {
		t.Fatalf("expected zeroed report, got %+v", report)
	}
}
