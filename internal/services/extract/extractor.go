// -----------------------------------------------------------------------
// Extract Service - Turn raw document bytes into typed text sections
// -----------------------------------------------------------------------

package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/studyforge/studyforge/internal/models"
)

const maxHeadingLength = 50

var (
	headingRegex    = regexp.MustCompile(`^[A-Z][A-Z\s:]+$`)
	inlineMathRegex = regexp.MustCompile(`\$[^$]+\$`)
)

// Service extracts structured sections from raw documents
type Service struct {
	logger  arbor.ILogger
	tempDir string
}

// NewService creates a new extract service
func NewService(logger arbor.ILogger) *Service {
	tempDir := filepath.Join(os.TempDir(), "studyforge-extract")
	os.MkdirAll(tempDir, 0755)

	return &Service{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractFile reads the file at path and returns its decoded text.
// Dispatch is by extension: PDF via pdfcpu, HTML via the URL content
// pipeline, anything else is treated as plain text.
func (s *Service) ExtractFile(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", &models.ExtractionError{Reason: fmt.Sprintf("unreadable file %s", filepath.Base(path)), Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return s.extractPDFText(ctx, content)
	case ".html", ".htm":
		return s.htmlToText(string(content))
	default:
		return string(content), nil
	}
}

// ExtractSections splits decoded text on line boundaries and classifies each
// non-blank line into heading, code, math, or paragraph sections.
//
// There is no error path: malformed or binary-garbled text degrades to a
// single paragraph section.
func (s *Service) ExtractSections(text string) []models.Section {
	var sections []models.Section
	current := models.Section{Type: models.SectionParagraph}

	flush := func() {
		if len(current.Content) > 0 {
			sections = append(sections, current)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case isHeadingLine(trimmed):
			// A heading always opens its own section
			flush()
			current = models.Section{Type: models.SectionHeading, Content: []string{trimmed}}

		case isCodeLine(line):
			current = switchSection(&sections, current, models.SectionCode)
			current.Content = append(current.Content, line)

		case isMathLine(line):
			current = switchSection(&sections, current, models.SectionMath)
			current.Content = append(current.Content, trimmed)

		default:
			current = switchSection(&sections, current, models.SectionParagraph)
			current.Content = append(current.Content, trimmed)
		}
	}

	flush()

	if len(sections) > 0 {
		s.logger.Debug().
			Int("section_count", len(sections)).
			Msg("Extracted document sections")
	}

	return sections
}

// switchSection flushes current when the incoming type differs and current
// already holds lines. A fresh empty section silently takes on the new type.
func switchSection(sections *[]models.Section, current models.Section, next models.SectionType) models.Section {
	if current.Type == next {
		return current
	}
	if len(current.Content) > 0 {
		*sections = append(*sections, current)
		return models.Section{Type: next}
	}
	current.Type = next
	return current
}

func isHeadingLine(trimmed string) bool {
	return len(trimmed) < maxHeadingLength && headingRegex.MatchString(trimmed)
}

func isCodeLine(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func isMathLine(line string) bool {
	return inlineMathRegex.MatchString(line) || strings.Contains(line, `\begin{`)
}
