package course

import (
	"context"
	"sync"
	"time"

	"github.com/studyforge/studyforge/internal/common"
	"github.com/studyforge/studyforge/internal/models"
	"github.com/studyforge/studyforge/internal/services/llm"
)

// generateModules enriches each module spec with content, flashcards, and a
// quiz. Modules run in fixed-size batches: every module within a batch runs
// in parallel, batches run strictly sequentially, and batch n+1 does not
// start until all of batch n has settled, including error handling.
func (s *Service) generateModules(ctx context.Context, specs []models.ModuleSpec, processed *models.ProcessedText) []models.Module {
	modules := make([]models.Module, len(specs))

	for start := 0; start < len(specs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(specs) {
			end = len(specs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				modules[idx] = s.generateModule(ctx, specs[idx], processed)
			}(i)
		}
		wg.Wait()
	}

	return modules
}

// generateModule runs the two generation sub-calls for one module
// concurrently. A failure in either sub-call is absorbed here: the module
// is emitted with empty flashcards and quiz plus an error marker, and is
// never fatal to the course.
func (s *Service) generateModule(ctx context.Context, spec models.ModuleSpec, processed *models.ProcessedText) models.Module {
	content := selectContent(spec.Title, processed)

	module := models.Module{
		ModuleSpec: spec,
		Content:    content,
		FlashCards: []models.Flashcard{},
		Quiz:       []models.QuizQuestion{},
	}

	var (
		wg       sync.WaitGroup
		cards    []models.Flashcard
		quiz     []models.QuizQuestion
		cardsErr error
		quizErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cards, cardsErr = s.generateFlashcards(ctx, spec.Title, content)
	}()
	go func() {
		defer wg.Done()
		quiz, quizErr = s.generateQuiz(ctx, spec.Title, content)
	}()
	wg.Wait()

	if cardsErr != nil || quizErr != nil {
		err := cardsErr
		if err == nil {
			err = quizErr
		}
		s.logger.Warn().
			Err(err).
			Str("module", spec.Title).
			Msg("Module content generation failed, emitting degraded module")
		module.Error = err.Error()
		return module
	}

	module.FlashCards = cards
	module.Quiz = quiz
	return module
}

// rawFlashcard is the model-emitted flashcard shape before the pipeline
// assigns identity and review state.
type rawFlashcard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Context    string `json:"context"`
	Example    string `json:"example"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
}

func (s *Service) generateFlashcards(ctx context.Context, moduleTitle, content string) ([]models.Flashcard, error) {
	prompt := llm.BuildPrompt(llm.PromptFlashcards, llm.PromptInput{
		ModuleTitle: moduleTitle,
		Content:     content,
	})

	raw, err := s.generator.Generate(ctx, prompt, generationTemperature, 0)
	if err != nil {
		return nil, err
	}

	var parsed []rawFlashcard
	if err := llm.DecodeModelJSON(raw, llm.ShapeArray, &parsed); err != nil {
		return nil, err
	}

	now := time.Now()
	cards := make([]models.Flashcard, 0, len(parsed))
	for _, card := range parsed {
		cards = append(cards, models.Flashcard{
			ID:           common.NewFlashcardID(),
			Term:         card.Term,
			Definition:   card.Definition,
			Context:      card.Context,
			Example:      card.Example,
			Difficulty:   card.Difficulty,
			Category:     card.Category,
			MasteryLevel: 0,
			NextReview:   now.Add(24 * time.Hour),
			CreatedAt:    now,
		})
	}

	return cards, nil
}

func (s *Service) generateQuiz(ctx context.Context, moduleTitle, content string) ([]models.QuizQuestion, error) {
	prompt := llm.BuildPrompt(llm.PromptQuiz, llm.PromptInput{
		ModuleTitle: moduleTitle,
		Content:     content,
	})

	raw, err := s.generator.Generate(ctx, prompt, generationTemperature, 0)
	if err != nil {
		return nil, err
	}

	var parsed []models.QuizQuestion
	if err := llm.DecodeModelJSON(raw, llm.ShapeArray, &parsed); err != nil {
		return nil, err
	}

	for i := range parsed {
		parsed[i].ID = common.NewQuestionID()
		parsed[i].Answered = false
		parsed[i].Correct = nil
		parsed[i].UserAnswer = nil
	}

	return parsed, nil
}
