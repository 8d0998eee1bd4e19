package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// MinModuleTime and MaxModuleTime bound a module's estimated time in minutes.
	MinModuleTime = 5
	MaxModuleTime = 30

	// DefaultModuleTime replaces out-of-range estimated times rather than rejecting them.
	DefaultModuleTime = 15
)

// ModuleSpec describes one learning unit within a course structure as
// proposed by the model, before content enrichment.
type ModuleSpec struct {
	Title         string   `json:"title" validate:"required"`
	Objectives    []string `json:"objectives" validate:"required,min=1"`
	Summary       string   `json:"summary"`
	EstimatedTime int      `json:"estimatedTime"`
	Difficulty    string   `json:"difficulty"`
}

// CourseStructure is the course skeleton generated from the document text.
type CourseStructure struct {
	Title          string       `json:"title" validate:"required"`
	Description    string       `json:"description"`
	Modules        []ModuleSpec `json:"modules" validate:"required,min=2,dive"`
	TechnicalLevel string       `json:"technicalLevel"`
	KeyConcepts    []string     `json:"keyConcepts"`
}

var structureValidator = validator.New()

// Validate checks structural invariants: at least 2 modules, each with a
// non-empty title and at least one objective. Out-of-range estimated times
// are coerced to the default, not rejected.
func (c *CourseStructure) Validate() error {
	if err := structureValidator.Struct(c); err != nil {
		return &ValidationError{Reason: "invalid course structure", Err: err}
	}

	for i := range c.Modules {
		if c.Modules[i].EstimatedTime < MinModuleTime || c.Modules[i].EstimatedTime > MaxModuleTime {
			c.Modules[i].EstimatedTime = DefaultModuleTime
		}
	}

	return nil
}

// Flashcard is one term/definition pair generated for a module.
// MasteryLevel and NextReview drive spaced repetition in the presentation
// layer; the pipeline only seeds their initial values.
type Flashcard struct {
	ID           string    `json:"id"`
	Term         string    `json:"term"`
	Definition   string    `json:"definition"`
	Context      string    `json:"context,omitempty"`
	Example      string    `json:"example,omitempty"`
	Difficulty   string    `json:"difficulty"`
	Category     string    `json:"category"`
	MasteryLevel int       `json:"masteryLevel"`
	NextReview   time.Time `json:"nextReview"`
	CreatedAt    time.Time `json:"createdAt"`
}

// QuizQuestion is one generated question. Answered/Correct/UserAnswer are
// owned by the presentation layer and start in their zero states.
type QuizQuestion struct {
	ID                  string   `json:"id"`
	Type                string   `json:"type"` // multiple_choice, true_false, short_answer
	Question            string   `json:"question"`
	Options             []string `json:"options,omitempty"`
	CorrectAnswer       string   `json:"correctAnswer"`
	Explanation         string   `json:"explanation"`
	BloomLevel          string   `json:"bloomLevel"` // remember, understand, apply, analyze
	Difficulty          string   `json:"difficulty"`
	WhitepaperReference string   `json:"whitepaperReference"`
	Answered            bool     `json:"answered"`
	Correct             *bool    `json:"correct"`
	UserAnswer          *string  `json:"userAnswer"`
}

// Module is a course module enriched with generated content. Error carries a
// human-readable marker when either generation sub-call failed; the module is
// still emitted with empty flashcards and quiz.
type Module struct {
	ModuleSpec

	Content    string         `json:"content"`
	FlashCards []Flashcard    `json:"flashCards"`
	Quiz       []QuizQuestion `json:"quiz"`
	Completed  bool           `json:"completed"`
	Progress   int            `json:"progress"`
	Error      string         `json:"error,omitempty"`
}

// Course is the pipeline output: the unit persisted, cached, and handed to
// presentation collaborators.
type Course struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	TechnicalLevel   string    `json:"technicalLevel"`
	KeyConcepts      []string  `json:"keyConcepts"`
	Modules          []Module  `json:"modules"`
	OriginalDocument string    `json:"originalDocument"`
	CreatedAt        time.Time `json:"createdAt"`
	DocumentHash     string    `json:"documentHash"`
	WordCount        int       `json:"wordCount"`
}

// TotalEstimatedTime sums module estimated times in minutes
func (c *Course) TotalEstimatedTime() int {
	total := 0
	for _, m := range c.Modules {
		total += m.EstimatedTime
	}
	return total
}

// CourseRecord is the persisted cache row, looked up by DocumentHash.
type CourseRecord struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id" badgerholdIndex:"UserID"`
	OriginalFilename string    `json:"original_filename"`
	DocumentHash     string    `json:"document_hash" badgerhold:"key"`
	CreatedAt        time.Time `json:"created_at"`
	Course           *Course   `json:"processed_data"`
}
