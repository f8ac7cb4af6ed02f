package trivia

import (
	"html"

	"trivia-session-service/internal/domain"
)

// Decode turns HTML-entity sequences (&quot;, &#039;, ...) into their literal
// characters. Unrecognized entities pass through unchanged.
func Decode(text string) string {
	return html.UnescapeString(text)
}

// normalizeQuestion decodes every text field of a raw source question into
// the domain shape.
func normalizeQuestion(raw rawQuestion) domain.Question {
	incorrect := make([]string, len(raw.IncorrectAnswers))
	for i, answer := range raw.IncorrectAnswers {
		incorrect[i] = Decode(answer)
	}
	return domain.Question{
		Category:         Decode(raw.Category),
		Type:             raw.Type,
		Difficulty:       raw.Difficulty,
		Text:             Decode(raw.Question),
		CorrectAnswer:    Decode(raw.CorrectAnswer),
		IncorrectAnswers: incorrect,
	}
}
