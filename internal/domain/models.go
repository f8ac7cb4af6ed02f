package domain

// Difficulty selects the question pool served by the trivia source.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the difficulties the source understands.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single multiple-choice trivia question, immutable once
// fetched and normalized.
type Question struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Text             string   `json:"question"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
}

// SessionStatus is the lifecycle state of a quiz session.
type SessionStatus string

const (
	StatusLoading   SessionStatus = "loading"
	StatusError     SessionStatus = "error"
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// ProgressRecordVersion guards the persisted progress schema; records carrying
// a different version are treated as absent.
const ProgressRecordVersion = 1

// ProgressRecord is the durable fragment of a session: enough to resume
// mid-quiz after a reload. Score is stored but never trusted on restore.
type ProgressRecord struct {
	Version      int            `json:"version"`
	Questions    []Question     `json:"questions"`
	CurrentIndex int            `json:"currentIndex"`
	Score        int            `json:"score"`
	Answers      map[int]string `json:"answers"`
}

// QuestionView is the presentation-facing shape of the current question:
// shuffled options, no correct-answer marker.
type QuestionView struct {
	Index    int      `json:"index"`
	Category string   `json:"category"`
	Text     string   `json:"question"`
	Options  []string `json:"options"`
	Chosen   string   `json:"chosen,omitempty"`
}

// Snapshot is a read-only view of the session for subscribers.
type Snapshot struct {
	PlayerName     string        `json:"playerName"`
	Difficulty     Difficulty    `json:"difficulty"`
	Status         SessionStatus `json:"status"`
	TotalQuestions int           `json:"totalQuestions"`
	CurrentIndex   int           `json:"currentIndex"`
	Score          int           `json:"score"`
	Question       *QuestionView `json:"question,omitempty"`
	Message        string        `json:"message,omitempty"`
}

// QuestionResult is one row of the final report.
type QuestionResult struct {
	QuestionText  string `json:"question"`
	ChosenAnswer  string `json:"answer"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Report summarizes a completed session.
type Report struct {
	PlayerName    string           `json:"playerName"`
	Difficulty    Difficulty       `json:"difficulty"`
	Score         int              `json:"score"`
	Total         int              `json:"totalQuestions"`
	ScoreFraction float64          `json:"scoreFraction"`
	Percentage    int              `json:"percentage"`
	Message       string           `json:"message"`
	PerQuestion   []QuestionResult `json:"perQuestion"`
}
