package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trivia-session-service/internal/domain"
)

const (
	// maxAttempts bounds the 429 retry loop: one request plus two retries.
	maxAttempts = 3
	// responseCodeOK is the source-level success sentinel.
	responseCodeOK = 0
)

// rawQuestion mirrors the wire shape of the trivia source.
type rawQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type sourceResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []rawQuestion `json:"results"`
}

// Client fetches multiple-choice questions from an Open Trivia DB compatible
// endpoint, retrying rate-limited responses with a linear backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// sleep is swapped out in tests to keep the backoff instant.
	sleep func(time.Duration)
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		sleep:      time.Sleep,
	}
}

// Fetch requests count questions of the given difficulty. HTTP 429 is retried
// up to maxAttempts total with a delay of 1s * attemptNumber; any other
// non-success status fails immediately.
func (c *Client) Fetch(ctx context.Context, count int, difficulty domain.Difficulty) ([]domain.Question, error) {
	if count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", count)
	}

	endpoint, err := c.endpoint(count, difficulty)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		questions, retryAfter, err := c.fetchOnce(ctx, endpoint)
		if err == nil {
			return questions, nil
		}
		if retryAfter <= 0 || attempt == maxAttempts {
			return nil, err
		}
		// Linear backoff: 1s after the first attempt, 2s after the second.
		c.sleep(retryAfter * time.Duration(attempt))
	}
	return nil, domain.ErrRateLimited
}

// fetchOnce issues a single request. A positive retryAfter signals a
// rate-limited response worth retrying.
func (c *Client) fetchOnce(ctx context.Context, endpoint string) (questions []domain.Question, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("trivia source request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, time.Second, domain.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, &domain.RequestFailedError{Status: resp.StatusCode}
	}

	var payload sourceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if payload.ResponseCode != responseCodeOK {
		return nil, 0, fmt.Errorf("%w: response_code=%d", domain.ErrMalformedResponse, payload.ResponseCode)
	}

	questions = make([]domain.Question, len(payload.Results))
	for i, raw := range payload.Results {
		questions[i] = normalizeQuestion(raw)
	}
	return questions, 0, nil
}

func (c *Client) endpoint(count int, difficulty domain.Difficulty) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("trivia source url: %w", err)
	}
	q := u.Query()
	q.Set("amount", strconv.Itoa(count))
	q.Set("difficulty", string(difficulty))
	q.Set("type", "multiple")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
