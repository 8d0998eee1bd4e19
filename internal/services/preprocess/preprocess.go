// -----------------------------------------------------------------------
// Preprocess Service - Normalize extracted sections into chunked text
// -----------------------------------------------------------------------

package preprocess

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/studyforge/studyforge/internal/models"
)

// chunkWordLimit is the running word count past which the next section
// starts a new chunk.
const chunkWordLimit = 300

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Service converts extracted sections into the canonical ProcessedText
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new preprocess service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Process builds the normalized full text and word-bounded chunks.
// Identical input sections always produce identical output.
func (s *Service) Process(sections []models.Section) *models.ProcessedText {
	var parts []string
	for _, sec := range sections {
		parts = append(parts, sec.Text())
	}

	fullText := strings.TrimSpace(whitespaceRegex.ReplaceAllString(strings.Join(parts, "\n\n"), " "))

	processed := &models.ProcessedText{
		FullText:  fullText,
		Chunks:    buildChunks(sections),
		WordCount: len(strings.Fields(fullText)),
		Sections:  sections,
	}

	s.logger.Debug().
		Int("word_count", processed.WordCount).
		Int("chunk_count", len(processed.Chunks)).
		Int("section_count", len(sections)).
		Msg("Preprocessed document")

	return processed
}

// buildChunks accumulates section text into chunks, flushing whenever a
// heading section starts or the running word count has passed the limit.
// The flush happens before the triggering section is appended, so a heading
// opens the chunk it belongs to instead of closing the previous one.
func buildChunks(sections []models.Section) []string {
	var chunks []string
	var current []string
	words := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			words = 0
		}
	}

	for _, sec := range sections {
		if sec.Type == models.SectionHeading || words > chunkWordLimit {
			flush()
		}
		text := sec.Text()
		current = append(current, text)
		words += len(strings.Fields(text))
	}
	flush()

	return chunks
}

// Fingerprint returns the 64-character lowercase hex SHA-256 digest of text.
// No salt and no randomness: identical text must always map to the identical
// cache key regardless of filename or user.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
