// -----------------------------------------------------------------------
// Course Service - Document processing pipeline orchestration
// Extraction -> cache check -> structure generation -> module generation
// -> caching -> cleanup
// -----------------------------------------------------------------------

package course

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/studyforge/studyforge/internal/common"
	"github.com/studyforge/studyforge/internal/interfaces"
	"github.com/studyforge/studyforge/internal/models"
	"github.com/studyforge/studyforge/internal/services/extract"
	"github.com/studyforge/studyforge/internal/services/llm"
	"github.com/studyforge/studyforge/internal/services/preprocess"
)

const (
	// defaultBatchSize is how many modules generate concurrently per batch.
	// With two sub-calls per module this caps outbound LLM calls at six.
	defaultBatchSize = 3

	generationTemperature = 0.7
)

// Service orchestrates the document processing pipeline
type Service struct {
	extractor    *extract.Service
	preprocessor *preprocess.Service
	generator    interfaces.Generator
	storage      interfaces.CourseStorage
	logger       arbor.ILogger
	batchSize    int
}

// Compile-time interface assertion
var _ interfaces.CoursePipeline = (*Service)(nil)

// NewService creates a new course pipeline service. batchSize <= 0 selects
// the default module concurrency.
func NewService(
	extractor *extract.Service,
	preprocessor *preprocess.Service,
	generator interfaces.Generator,
	storage interfaces.CourseStorage,
	logger arbor.ILogger,
	batchSize int,
) *Service {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Service{
		extractor:    extractor,
		preprocessor: preprocessor,
		generator:    generator,
		storage:      storage,
		logger:       logger,
		batchSize:    batchSize,
	}
}

// ProcessDocument converts the file at filePath into a course. The file and
// its containing directory are removed on both success and failure.
func (s *Service) ProcessDocument(ctx context.Context, filePath, userID string) (*models.Course, error) {
	defer s.removeArtifact(filePath)

	text, err := s.extractor.ExtractFile(ctx, filePath)
	if err != nil {
		return nil, models.NewPipelineError(models.CodeProcessingError, err)
	}

	course, err := s.run(ctx, text, filepath.Base(filePath), userID)
	if err != nil {
		return nil, models.NewPipelineError(models.CodeProcessingError, err)
	}
	return course, nil
}

// ProcessURL fetches a web page and converts its main content into a course
func (s *Service) ProcessURL(ctx context.Context, url, userID string) (*models.Course, error) {
	title, text, err := s.extractor.FetchURL(ctx, url)
	if err != nil {
		return nil, models.NewPipelineError(models.CodeURLProcessingError, err)
	}
	if title == "" {
		title = url
	}

	course, err := s.run(ctx, text, title, userID)
	if err != nil {
		return nil, models.NewPipelineError(models.CodeURLProcessingError, err)
	}
	return course, nil
}

// ProcessText converts already-decoded text into a course
func (s *Service) ProcessText(ctx context.Context, text, title, userID string) (*models.Course, error) {
	if title == "" {
		title = "Pasted text"
	}

	course, err := s.run(ctx, text, title, userID)
	if err != nil {
		return nil, models.NewPipelineError(models.CodeTextProcessingError, err)
	}
	return course, nil
}

// run drives the pipeline stages for one document
func (s *Service) run(ctx context.Context, text, originalName, userID string) (*models.Course, error) {
	// Extracting
	sections := s.extractor.ExtractSections(text)
	if len(sections) == 0 {
		return nil, &models.ExtractionError{Reason: "document contains no extractable text"}
	}

	processed := s.preprocessor.Process(sections)
	hash := preprocess.Fingerprint(processed.FullText)

	// CacheCheck: a hit short-circuits all generation; lookup failures are
	// logged and treated as a miss, never fatal.
	if record, err := s.storage.GetByHash(hash); err != nil {
		cacheErr := &models.CacheError{Op: "lookup", Err: err}
		s.logger.Warn().Err(cacheErr).Str("document_hash", hash).Msg("Cache lookup failed, generating")
	} else if record != nil && record.Course != nil {
		s.logger.Info().
			Str("document_hash", hash).
			Str("course_id", record.Course.ID).
			Msg("Cache hit, returning stored course")
		return record.Course, nil
	}

	// StructureGeneration: never fails, falls back to the rule-based structure
	structure := s.generateStructure(ctx, processed)

	// ModuleGeneration: per-module failures degrade that module only
	modules := s.generateModules(ctx, structure.Modules, processed)

	now := time.Now()
	course := &models.Course{
		ID:               common.NewCourseID(),
		Title:            structure.Title,
		Description:      structure.Description,
		TechnicalLevel:   structure.TechnicalLevel,
		KeyConcepts:      structure.KeyConcepts,
		Modules:          modules,
		OriginalDocument: originalName,
		CreatedAt:        now,
		DocumentHash:     hash,
		WordCount:        processed.WordCount,
	}

	// Caching: persistence failures are logged and non-fatal
	record := &models.CourseRecord{
		ID:               common.NewRecordID(),
		UserID:           userID,
		OriginalFilename: originalName,
		DocumentHash:     hash,
		CreatedAt:        now,
		Course:           course,
	}
	if err := s.storage.SaveRecord(record); err != nil {
		cacheErr := &models.CacheError{Op: "store", Err: err}
		s.logger.Warn().Err(cacheErr).Str("document_hash", hash).Msg("Failed to cache course")
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Int("module_count", len(course.Modules)).
		Int("word_count", course.WordCount).
		Msg("Course generated")

	return course, nil
}

// generateStructure produces the course skeleton, falling back to the
// deterministic rule-based structure on any generation, parse, or
// validation failure. The caller never sees an error from this stage.
func (s *Service) generateStructure(ctx context.Context, processed *models.ProcessedText) *models.CourseStructure {
	prompt := llm.BuildPrompt(llm.PromptStructure, llm.PromptInput{
		DocumentText: processed.FullText,
		DomainHint:   domainHint(processed.FullText),
	})

	raw, err := s.generator.Generate(ctx, prompt, generationTemperature, 0)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Structure generation failed, using fallback structure")
		return fallbackStructure(processed.WordCount)
	}

	var structure models.CourseStructure
	if err := llm.DecodeModelJSON(raw, llm.ShapeObject, &structure); err != nil {
		s.logger.Warn().Err(err).Msg("Structure response unparseable, using fallback structure")
		return fallbackStructure(processed.WordCount)
	}

	if err := structure.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("Structure failed validation, using fallback structure")
		return fallbackStructure(processed.WordCount)
	}

	return &structure
}

// removeArtifact deletes the request's transient input file and its
// containing directory. Runs on every exit path; failures are only logged
// since the artifact directory is exclusively owned by this request.
func (s *Service) removeArtifact(filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("path", filePath).Msg("Failed to remove upload artifact")
	}
	dir := filepath.Dir(filePath)
	if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
		s.logger.Debug().Err(err).Str("path", dir).Msg("Upload directory not removed")
	}
}
