package course

import (
	"strings"
	"unicode"

	"github.com/studyforge/studyforge/internal/models"
)

const (
	// sectionRelevanceThreshold filters structured paragraph sections
	sectionRelevanceThreshold = 0.3
	// chunkRelevanceThreshold filters plain chunks when no structured
	// content is available
	chunkRelevanceThreshold = 0.2

	minTermLength = 2
)

// selectContent picks the document content most relevant to a module title.
// Paragraph sections are filtered at the section threshold; when the
// document has no structured content, plain chunks are filtered at the
// lower chunk threshold. Matches are joined with blank-line separators.
func selectContent(moduleTitle string, processed *models.ProcessedText) string {
	var matches []string

	if len(processed.Sections) > 0 {
		for _, sec := range processed.Sections {
			if sec.Type != models.SectionParagraph {
				continue
			}
			text := sec.Text()
			if relevance(moduleTitle, text) > sectionRelevanceThreshold {
				matches = append(matches, text)
			}
		}
	} else {
		for _, chunk := range processed.Chunks {
			if relevance(moduleTitle, chunk) > chunkRelevanceThreshold {
				matches = append(matches, chunk)
			}
		}
	}

	if len(matches) == 0 {
		// Nothing scored above threshold; the prompt builder truncates anyway
		return processed.FullText
	}

	return strings.Join(matches, "\n\n")
}

// relevance is a directional overlap coefficient: the fraction of the
// query's terms that appear in the text. Not symmetric and not normalized
// by text length; deterministic but a weak heuristic, not semantic
// similarity.
func relevance(query, text string) float64 {
	queryTerms := uniqueTerms(query)
	if len(queryTerms) == 0 {
		return 0
	}

	textTerms := make(map[string]struct{})
	for _, term := range tokenize(text) {
		textTerms[term] = struct{}{}
	}

	matched := 0
	for term := range queryTerms {
		if _, ok := textTerms[term]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(queryTerms))
}

func uniqueTerms(s string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, term := range tokenize(s) {
		terms[term] = struct{}{}
	}
	return terms
}

// tokenize lowercases and splits on non-alphanumeric runes, keeping tokens
// longer than two characters
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := fields[:0]
	for _, field := range fields {
		if len(field) > minTermLength {
			terms = append(terms, field)
		}
	}
	return terms
}
