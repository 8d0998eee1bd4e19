package models

// SectionType classifies a block of extracted document text
type SectionType string

const (
	SectionHeading   SectionType = "heading"
	SectionParagraph SectionType = "paragraph"
	SectionCode      SectionType = "code"
	SectionMath      SectionType = "math"
)

// RawDocument is the transient input to the pipeline. It is owned by the
// caller and never persisted.
type RawDocument struct {
	Content   []byte `json:"content"`
	MediaType string `json:"media_type"` // "application/pdf", "text/html", "text/plain"
}

// Section is one typed block of extracted text. Content preserves the
// original line order within the block.
type Section struct {
	Type    SectionType `json:"type"`
	Content []string    `json:"content"`
}

// Text joins the section's lines into a single string
func (s *Section) Text() string {
	if len(s.Content) == 0 {
		return ""
	}
	result := s.Content[0]
	for _, line := range s.Content[1:] {
		result += " " + line
	}
	return result
}

// ProcessedText is the canonical representation downstream stages consume.
// It is immutable once produced.
type ProcessedText struct {
	FullText  string    `json:"full_text"`
	Chunks    []string  `json:"chunks"`
	WordCount int       `json:"word_count"`
	Sections  []Section `json:"structured_content"`
}
