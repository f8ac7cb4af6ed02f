package app

import (
	"math"

	"trivia-session-service/internal/domain"
)

// Summarize turns a finished session into its final report: a per-question
// correctness breakdown plus the aggregate fraction, rounded percentage and
// a qualitative message.
func Summarize(playerName string, difficulty domain.Difficulty, questions []domain.Question, answers map[int]string, score int) domain.Report {
	perQuestion := make([]domain.QuestionResult, len(questions))
	for i, question := range questions {
		chosen := answers[i]
		perQuestion[i] = domain.QuestionResult{
			QuestionText:  question.Text,
			ChosenAnswer:  chosen,
			Correct:       chosen == question.CorrectAnswer,
			CorrectAnswer: question.CorrectAnswer,
		}
	}

	fraction := 0.0
	if len(questions) > 0 {
		fraction = float64(score) / float64(len(questions))
	}
	percentage := int(math.Round(fraction * 100))

	return domain.Report{
		PlayerName:    playerName,
		Difficulty:    difficulty,
		Score:         score,
		Total:         len(questions),
		ScoreFraction: fraction,
		Percentage:    percentage,
		Message:       resultMessage(percentage),
		PerQuestion:   perQuestion,
	}
}

func resultMessage(percentage int) string {
	switch {
	case percentage >= 80:
		return "Excellent!"
	case percentage >= 60:
		return "Good job!"
	case percentage >= 40:
		return "Not bad!"
	default:
		return "Keep practicing!"
	}
}
