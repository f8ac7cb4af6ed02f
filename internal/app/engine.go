package app

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"trivia-session-service/internal/domain"
)

const (
	// loadAttempts bounds automatic reloads after a rate-limited failure:
	// the initial attempt plus two automatic retries.
	loadAttempts = 3
	// defaultQuestionCount matches the original quiz length.
	defaultQuestionCount = 10
	// defaultPlayerName is used when no name was given or stored.
	defaultPlayerName = "Player"

	loadErrorMessage = "Failed to load questions. Please try again later."
)

// Engine drives a single quiz session from question load to the final
// report: it restores saved progress, records answers, keeps the running
// score consistent and persists after every mutation.
type Engine struct {
	source  QuestionSource
	store   ProgressStore
	archive ReportArchive // optional

	retryDelay time.Duration
	sleep      func(time.Duration)
	rnd        *rand.Rand

	mu          sync.Mutex
	playerName  string
	difficulty  domain.Difficulty
	count       int
	status      domain.SessionStatus
	questions   []domain.Question
	options     [][]string
	current     int
	score       int
	answers     map[int]string
	report      *domain.Report
	message     string
	loadToken   int
	subscribers map[chan domain.Snapshot]struct{}
}

func NewEngine(source QuestionSource, store ProgressStore, archive ReportArchive) *Engine {
	return &Engine{
		source:      source,
		store:       store,
		archive:     archive,
		retryDelay:  2 * time.Second,
		sleep:       time.Sleep,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		status:      domain.StatusLoading,
		answers:     make(map[int]string),
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
}

// Start begins a session: it remembers the player, fetches questions and
// merges any resumable progress. Blank or invalid parameters fall back to the
// stored player name, medium difficulty and the default question count.
// Start blocks until the session is active or the retry budget is spent.
func (e *Engine) Start(ctx context.Context, playerName string, difficulty domain.Difficulty, count int) error {
	if playerName == "" {
		playerName = e.store.LoadPlayerName(ctx, defaultPlayerName)
	} else {
		e.store.SavePlayerName(ctx, playerName)
	}
	if !difficulty.Valid() {
		difficulty = domain.DifficultyMedium
	}
	if count <= 0 {
		count = defaultQuestionCount
	}

	e.mu.Lock()
	e.playerName = playerName
	e.difficulty = difficulty
	e.count = count
	e.loadToken++
	token := e.loadToken
	e.enterLoadingLocked()
	e.mu.Unlock()

	return e.load(ctx, token, count, difficulty)
}

// Retry re-runs the load with the same parameters and a fresh retry budget.
// Valid only from the error state. Any fetch still in flight from a prior
// attempt is superseded and its result discarded.
func (e *Engine) Retry(ctx context.Context) error {
	e.mu.Lock()
	if e.status != domain.StatusError {
		e.mu.Unlock()
		return domain.ErrRetryNotAllowed
	}
	e.loadToken++
	token := e.loadToken
	count, difficulty := e.count, e.difficulty
	e.enterLoadingLocked()
	e.mu.Unlock()

	return e.load(ctx, token, count, difficulty)
}

func (e *Engine) enterLoadingLocked() {
	e.status = domain.StatusLoading
	e.message = ""
	e.report = nil
	e.broadcastLocked()
}

// load fetches questions with the automatic retry budget and applies the
// result, unless a newer load superseded this one in the meantime. The count
// and difficulty are passed in so a superseding Start cannot race this read.
func (e *Engine) load(ctx context.Context, token int, count int, difficulty domain.Difficulty) error {
	var err error
	for attempt := 1; attempt <= loadAttempts; attempt++ {
		var batch []domain.Question
		batch, err = e.source.Fetch(ctx, count, difficulty)
		if err == nil {
			e.applyBatch(ctx, token, batch)
			return nil
		}
		if !domain.Retryable(err) || attempt == loadAttempts {
			break
		}
		e.sleep(e.retryDelay)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if token != e.loadToken {
		// A newer load owns the session now; drop this stale failure.
		return nil
	}
	log.Printf("question load failed: %v", err)
	e.status = domain.StatusError
	e.message = loadErrorMessage
	e.broadcastLocked()
	return err
}

// applyBatch installs freshly fetched questions, merging saved progress when
// its question count matches. The persisted score is never trusted: it is
// recomputed from the saved answers against the fresh batch.
func (e *Engine) applyBatch(ctx context.Context, token int, batch []domain.Question) {
	record, saved := e.store.LoadProgress(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if token != e.loadToken {
		return
	}

	e.questions = batch
	e.options = e.shuffleOptions(batch)
	e.current = 0
	e.answers = make(map[int]string)

	if saved && len(record.Questions) == len(batch) {
		if record.CurrentIndex >= 0 && record.CurrentIndex < len(batch) {
			e.current = record.CurrentIndex
		}
		for i, answer := range record.Answers {
			if i >= 0 && i < len(batch) {
				e.answers[i] = answer
			}
		}
	}
	e.score = e.recomputeScoreLocked()

	e.status = domain.StatusActive
	e.persistLocked(ctx)
	e.broadcastLocked()
}

// SubmitAnswer records the player's answer for the current question and
// persists the session. Re-submitting the same index replaces the previous
// answer; the score reflects only the latest answer's correctness.
func (e *Engine) SubmitAnswer(ctx context.Context, answer string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusActive {
		return domain.ErrSessionNotActive
	}
	if e.current < 0 || e.current >= len(e.questions) {
		// Stale UI state; not an error.
		return nil
	}

	correct := e.questions[e.current].CorrectAnswer
	if prev, answered := e.answers[e.current]; answered {
		if prev == correct && answer != correct {
			e.score--
		}
		if prev != correct && answer == correct {
			e.score++
		}
	} else if answer == correct {
		e.score++
	}
	e.answers[e.current] = answer

	e.persistLocked(ctx)
	e.broadcastLocked()
	return nil
}

// Next advances to the following question, or completes the session at the
// last one: the progress slot is cleared, the report built and archived.
// Advancing past an unanswered question is refused.
func (e *Engine) Next(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusActive {
		return domain.ErrSessionNotActive
	}
	if _, answered := e.answers[e.current]; !answered {
		return domain.ErrQuestionUnanswered
	}

	if e.current < len(e.questions)-1 {
		e.current++
		e.persistLocked(ctx)
		e.broadcastLocked()
		return nil
	}

	e.status = domain.StatusCompleted
	report := Summarize(e.playerName, e.difficulty, e.questions, e.answers, e.score)
	e.report = &report
	e.store.ClearProgress(ctx)
	if e.archive != nil {
		if err := e.archive.SaveReport(ctx, report); err != nil {
			log.Printf("report archive failed: %v", err)
		}
	}
	e.broadcastLocked()
	return nil
}

// Previous steps back one question. A no-op at the first question.
func (e *Engine) Previous(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusActive {
		return domain.ErrSessionNotActive
	}
	if e.current == 0 {
		return nil
	}
	e.current--
	e.persistLocked(ctx)
	e.broadcastLocked()
	return nil
}

// Snapshot returns the current read-only view of the session.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Report returns the final report once the session completed.
func (e *Engine) Report() (domain.Report, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.report == nil {
		return domain.Report{}, false
	}
	return *e.report, true
}

// Subscribe returns a channel receiving a snapshot after every state change,
// starting with the current one. The caller must invoke cancel to avoid leaks.
func (e *Engine) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	e.mu.Lock()
	e.subscribers[ch] = struct{}{}
	initial := e.snapshotLocked()
	e.mu.Unlock()

	ch <- initial

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

func (e *Engine) broadcastLocked() {
	snapshot := e.snapshotLocked()
	for ch := range e.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Drop the oldest update so slow consumers never block mutations.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

func (e *Engine) snapshotLocked() domain.Snapshot {
	snapshot := domain.Snapshot{
		PlayerName:     e.playerName,
		Difficulty:     e.difficulty,
		Status:         e.status,
		TotalQuestions: len(e.questions),
		CurrentIndex:   e.current,
		Score:          e.score,
		Message:        e.message,
	}
	if e.status == domain.StatusActive && e.current >= 0 && e.current < len(e.questions) {
		question := e.questions[e.current]
		snapshot.Question = &domain.QuestionView{
			Index:    e.current,
			Category: question.Category,
			Text:     question.Text,
			Options:  append([]string(nil), e.options[e.current]...),
			Chosen:   e.answers[e.current],
		}
	}
	return snapshot
}

func (e *Engine) persistLocked(ctx context.Context) {
	answers := make(map[int]string, len(e.answers))
	for i, answer := range e.answers {
		answers[i] = answer
	}
	e.store.SaveProgress(ctx, domain.ProgressRecord{
		Version:      domain.ProgressRecordVersion,
		Questions:    e.questions,
		CurrentIndex: e.current,
		Score:        e.score,
		Answers:      answers,
	})
}

func (e *Engine) recomputeScoreLocked() int {
	score := 0
	for i, answer := range e.answers {
		if i >= 0 && i < len(e.questions) && answer == e.questions[i].CorrectAnswer {
			score++
		}
	}
	return score
}

// shuffleOptions builds the presented answer ordering for each question:
// all incorrect answers plus the correct one, shuffled once per load.
func (e *Engine) shuffleOptions(batch []domain.Question) [][]string {
	options := make([][]string, len(batch))
	for i, question := range batch {
		opts := make([]string, 0, len(question.IncorrectAnswers)+1)
		opts = append(opts, question.IncorrectAnswers...)
		opts = append(opts, question.CorrectAnswer)
		e.rnd.Shuffle(len(opts), func(a, b int) {
			opts[a], opts[b] = opts[b], opts[a]
		})
		options[i] = opts
	}
	return options
}
