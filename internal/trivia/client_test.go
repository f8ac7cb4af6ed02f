package trivia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-session-service/internal/domain"
)

const sampleBody = `{
	"response_code": 0,
	"results": [
		{
			"category": "Science &amp; Nature",
			"type": "multiple",
			"difficulty": "medium",
			"question": "What is the chemical symbol for &quot;iron&quot;?",
			"correct_answer": "Fe",
			"incorrect_answers": ["Ir", "In", "I"]
		}
	]
}`

func TestFetchRetriesAfterRateLimit(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, sampleBody)
	}))
	defer server.Close()

	client := newTestClient(server)
	var slept []time.Duration
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	questions, err := client.Fetch(context.Background(), 1, domain.DifficultyMedium)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if requests != 3 {
		t.Fatalf("expected 3 requests, got %d", requests)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Fatalf("expected linear backoff of 1s then 2s, got %v", slept)
	}
}

func TestFetchFailsWhenRateLimitPersists(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server)
	client.sleep = func(time.Duration) {}

	_, err := client.Fetch(context.Background(), 1, domain.DifficultyEasy)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if requests != 3 {
		t.Fatalf("expected retry budget of 3 requests, got %d", requests)
	}
}

func TestFetchFailsFastOnServerError(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server)
	client.sleep = func(time.Duration) { t.Fatal("unexpected backoff for non-retryable status") }

	_, err := client.Fetch(context.Background(), 1, domain.DifficultyHard)
	var reqErr *domain.RequestFailedError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected request failed error, got %v", err)
	}
	if reqErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", reqErr.Status)
	}
	if requests != 1 {
		t.Fatalf("expected a single request, got %d", requests)
	}
}

func TestFetchRejectsNonOKResponseCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response_code": 2, "results": []}`)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Fetch(context.Background(), 1, domain.DifficultyMedium)
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestFetchNormalizesEntities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleBody)
	}))
	defer server.Close()

	client := newTestClient(server)
	questions, err := client.Fetch(context.Background(), 1, domain.DifficultyMedium)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	q := questions[0]
	if q.Text != `What is the chemical symbol for "iron"?` {
		t.Fatalf("expected decoded question text, got %q", q.Text)
	}
	if q.Category != "Science & Nature" {
		t.Fatalf("expected decoded category, got %q", q.Category)
	}
}

func TestFetchSendsExpectedQuery(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		fmt.Fprint(w, sampleBody)
	}))
	defer server.Close()

	client := newTestClient(server)
	if _, err := client.Fetch(context.Background(), 7, domain.DifficultyHard); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if query != "amount=7&difficulty=hard&type=multiple" {
		t.Fatalf("unexpected query: %s", query)
	}
}

func TestFetchRejectsNonPositiveCount(t *testing.T) {
	client := NewClient("http://localhost", nil)
	if _, err := client.Fetch(context.Background(), 0, domain.DifficultyEasy); err == nil {
		t.Fatal("expected error for zero count")
	}
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(server.URL, server.Client())
}
