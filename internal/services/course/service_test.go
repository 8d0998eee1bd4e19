package course

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/studyforge/studyforge/internal/models"
	"github.com/studyforge/studyforge/internal/services/extract"
	"github.com/studyforge/studyforge/internal/services/preprocess"
)

const structureJSON = `{
	"title": "Test Course",
	"description": "A generated course.",
	"modules": [
		{"title": "Module One", "objectives": ["objective 1"], "summary": "s1", "estimatedTime": 10, "difficulty": "beginner"},
		{"title": "Module Two", "objectives": ["objective 2"], "summary": "s2", "estimatedTime": 20, "difficulty": "intermediate"}
	],
	"technicalLevel": "intermediate",
	"keyConcepts": ["testing"]
}`

const flashcardsJSON = `[
	{"term": "replication", "definition": "copying data across nodes", "context": "c", "example": "e", "difficulty": "easy", "category": "storage"},
	{"term": "quorum", "definition": "majority agreement", "context": "c", "example": "", "difficulty": "medium", "category": "consensus"}
]`

const quizJSON = `[
	{"id": "model-1", "type": "multiple_choice", "question": "q1?", "options": ["a", "b"], "correctAnswer": "a", "explanation": "x", "bloomLevel": "remember", "difficulty": "easy"},
	{"id": "model-2", "type": "short_answer", "question": "q2?", "correctAnswer": "b", "explanation": "y", "bloomLevel": "apply", "difficulty": "medium"}
]`

// fakeGenerator scripts responses by prompt kind and records call pressure
type fakeGenerator struct {
	calls     int32
	active    int32
	maxActive int32
	fn        func(prompt string) (string, error)
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	atomic.AddInt32(&g.calls, 1)

	active := atomic.AddInt32(&g.active, 1)
	for {
		peak := atomic.LoadInt32(&g.maxActive)
		if active <= peak || atomic.CompareAndSwapInt32(&g.maxActive, peak, active) {
			break
		}
	}
	defer atomic.AddInt32(&g.active, -1)

	if g.fn != nil {
		return g.fn(prompt)
	}
	return scriptedResponse(prompt)
}

func scriptedResponse(prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "flashcards"):
		return flashcardsJSON, nil
	case strings.Contains(prompt, "quiz"):
		return quizJSON, nil
	default:
		return structureJSON, nil
	}
}

// fakeStorage is an in-memory CourseStorage keyed by document hash
type fakeStorage struct {
	mu      sync.Mutex
	records map[string]*models.CourseRecord
	getErr  error
	saveErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{records: map[string]*models.CourseRecord{}}
}

func (s *fakeStorage) SaveRecord(record *models.CourseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records[record.DocumentHash] = record
	return nil
}

func (s *fakeStorage) GetByHash(hash string) (*models.CourseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.records[hash], nil
}

func (s *fakeStorage) ListRecords(userID string, limit int) ([]*models.CourseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.CourseRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStorage) DeleteRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash, r := range s.records {
		if r.ID == id {
			delete(s.records, hash)
		}
	}
	return nil
}

func (s *fakeStorage) DeleteOlderThan(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for hash, r := range s.records {
		if r.CreatedAt.Before(cutoff) {
			delete(s.records, hash)
			deleted++
		}
	}
	return deleted, nil
}

func (s *fakeStorage) CountRecords() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

func newTestService(generator *fakeGenerator, storage *fakeStorage, batchSize int) *Service {
	logger := arbor.NewLogger()
	return NewService(
		extract.NewService(logger),
		preprocess.NewService(logger),
		generator,
		storage,
		logger,
		batchSize,
	)
}

func TestProcessText_BuildsCourse(t *testing.T) {
	generator := &fakeGenerator{}
	storage := newFakeStorage()
	service := newTestService(generator, storage, 0)

	course, err := service.ProcessText(context.Background(), "Replication copies data across nodes for fault tolerance.", "notes.txt", "user-1")
	require.NoError(t, err)

	assert.Equal(t, "Test Course", course.Title)
	assert.True(t, strings.HasPrefix(course.ID, "course_"))
	assert.Equal(t, "notes.txt", course.OriginalDocument)
	assert.Len(t, course.DocumentHash, 64)
	assert.Greater(t, course.WordCount, 0)
	require.Len(t, course.Modules, 2)

	module := course.Modules[0]
	assert.Equal(t, "Module One", module.Title)
	assert.Empty(t, module.Error)
	require.Len(t, module.FlashCards, 2)
	require.Len(t, module.Quiz, 2)

	card := module.FlashCards[0]
	assert.True(t, strings.HasPrefix(card.ID, "card_"))
	assert.Equal(t, "replication", card.Term)
	assert.Equal(t, 0, card.MasteryLevel)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), card.NextReview, time.Minute)

	// Model-supplied quiz identity and answer state are discarded
	question := module.Quiz[0]
	assert.True(t, strings.HasPrefix(question.ID, "q_"))
	assert.False(t, question.Answered)
	assert.Nil(t, question.Correct)
	assert.Nil(t, question.UserAnswer)

	// The course is cached under its fingerprint
	record, err := storage.GetByHash(course.DocumentHash)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "user-1", record.UserID)
	assert.Equal(t, course.ID, record.Course.ID)
}

func TestProcessText_FallbackWhenGenerationFails(t *testing.T) {
	generator := &fakeGenerator{fn: func(string) (string, error) {
		return "", errors.New("provider unavailable")
	}}
	service := newTestService(generator, newFakeStorage(), 0)

	course, err := service.ProcessText(context.Background(), "Some document text to study.", "notes.txt", "user-1")
	require.NoError(t, err)

	require.Len(t, course.Modules, 2)
	assert.Equal(t, "Introduction & Overview", course.Modules[0].Title)
	assert.Equal(t, "Core Concepts", course.Modules[1].Title)

	for _, module := range course.Modules {
		assert.NotEmpty(t, module.Error)
		assert.Empty(t, module.FlashCards)
		assert.Empty(t, module.Quiz)
	}

	total := course.TotalEstimatedTime()
	assert.GreaterOrEqual(t, total, 15)
	assert.LessOrEqual(t, total, 60)
}

func TestProcessText_FallbackWhenStructureUnparseable(t *testing.T) {
	generator := &fakeGenerator{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "flashcards") || strings.Contains(prompt, "quiz") {
			return scriptedResponse(prompt)
		}
		return "I am sorry, I cannot help with that.", nil
	}}
	service := newTestService(generator, newFakeStorage(), 0)

	course, err := service.ProcessText(context.Background(), "Some document text to study.", "notes.txt", "user-1")
	require.NoError(t, err)

	require.Len(t, course.Modules, 2)
	assert.Equal(t, "Introduction & Overview", course.Modules[0].Title)
	// Fallback modules still get their content generated
	assert.NotEmpty(t, course.Modules[0].FlashCards)
}

func TestProcessText_CacheHitSkipsGeneration(t *testing.T) {
	generator := &fakeGenerator{}
	storage := newFakeStorage()
	service := newTestService(generator, storage, 0)

	first, err := service.ProcessText(context.Background(), "Identical document text.", "a.txt", "user-1")
	require.NoError(t, err)

	callsAfterFirst := atomic.LoadInt32(&generator.calls)

	// Different filename and user, identical content
	second, err := service.ProcessText(context.Background(), "Identical document text.", "b.txt", "user-2")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, callsAfterFirst, atomic.LoadInt32(&generator.calls))
}

func TestProcessText_CacheLookupFailureIsAMiss(t *testing.T) {
	generator := &fakeGenerator{}
	storage := newFakeStorage()
	storage.getErr = errors.New("store offline")
	service := newTestService(generator, storage, 0)

	course, err := service.ProcessText(context.Background(), "Document text.", "notes.txt", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Test Course", course.Title)
}

func TestProcessText_SaveFailureIsNotFatal(t *testing.T) {
	generator := &fakeGenerator{}
	storage := newFakeStorage()
	storage.saveErr = errors.New("disk full")
	service := newTestService(generator, storage, 0)

	course, err := service.ProcessText(context.Background(), "Document text.", "notes.txt", "user-1")
	require.NoError(t, err)
	assert.NotNil(t, course)
}

func TestProcessText_EmptyDocument(t *testing.T) {
	service := newTestService(&fakeGenerator{}, newFakeStorage(), 0)

	_, err := service.ProcessText(context.Background(), "   \n\n  ", "empty.txt", "user-1")
	require.Error(t, err)

	var pipelineErr *models.PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, models.CodeTextProcessingError, pipelineErr.Code)

	var extractionErr *models.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestProcessDocument_RemovesArtifact(t *testing.T) {
	generator := &fakeGenerator{}
	service := newTestService(generator, newFakeStorage(), 0)

	dir := filepath.Join(t.TempDir(), "upload-1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("document body"), 0o644))

	_, err := service.ProcessDocument(context.Background(), path, "user-1")
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "staged file should be deleted")
	_, statErr = os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "staging directory should be deleted")
}

func TestProcessDocument_RemovesArtifactOnFailure(t *testing.T) {
	service := newTestService(&fakeGenerator{}, newFakeStorage(), 0)

	dir := filepath.Join(t.TempDir(), "upload-2")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("  "), 0o644))

	_, err := service.ProcessDocument(context.Background(), path, "user-1")
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "staged file should be deleted on failure too")
}

func TestGenerateModules_BatchingAndOrder(t *testing.T) {
	generator := &fakeGenerator{fn: func(prompt string) (string, error) {
		time.Sleep(10 * time.Millisecond)
		return scriptedResponse(prompt)
	}}
	service := newTestService(generator, newFakeStorage(), 3)

	specs := make([]models.ModuleSpec, 7)
	for i := range specs {
		specs[i] = models.ModuleSpec{
			Title:         "Module " + string(rune('A'+i)),
			Objectives:    []string{"objective"},
			EstimatedTime: 10,
		}
	}

	processed := &models.ProcessedText{
		FullText: "full document text",
		Chunks:   []string{"full document text"},
	}

	modules := service.generateModules(context.Background(), specs, processed)

	require.Len(t, modules, 7)
	for i, module := range modules {
		assert.Equal(t, specs[i].Title, module.Title, "module order must match spec order")
	}

	// Two sub-calls per module, at most three modules in flight
	assert.LessOrEqual(t, atomic.LoadInt32(&generator.maxActive), int32(6))
	assert.Equal(t, int32(14), atomic.LoadInt32(&generator.calls))
}
