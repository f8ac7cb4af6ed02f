package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is returned when the trivia source kept answering 429
	// after the retry budget ran out. Retryable at the session level.
	ErrRateLimited = errors.New("trivia source rate limited")
	// ErrMalformedResponse indicates the source replied with a non-OK
	// payload code or an undecodable body. Not retryable.
	ErrMalformedResponse = errors.New("trivia source returned a malformed response")
	// ErrSessionNotActive guards engine operations that only make sense
	// while a quiz is in progress.
	ErrSessionNotActive = errors.New("quiz session is not active")
	// ErrQuestionUnanswered blocks advancing past a question the player has
	// not answered yet.
	ErrQuestionUnanswered = errors.New("current question is unanswered")
	// ErrRetryNotAllowed is returned when Retry is invoked outside the
	// error state.
	ErrRetryNotAllowed = errors.New("retry is only valid after a failed load")
)

// RequestFailedError reports a non-success HTTP status from the trivia
// source. These fail immediately; only rate limiting is retried.
type RequestFailedError struct {
	Status int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("trivia source request failed with status %d", e.Status)
}

// Retryable reports whether err is worth another automatic attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
