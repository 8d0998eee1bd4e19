package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/studyforge/studyforge/internal/models"
)

func TestExtractSections_Classification(t *testing.T) {
	service := NewService(arbor.NewLogger())

	tests := []struct {
		name      string
		text      string
		wantTypes []models.SectionType
	}{
		{
			name:      "Plain paragraph",
			text:      "This is a sentence.\nAnd another one.",
			wantTypes: []models.SectionType{models.SectionParagraph},
		},
		{
			name:      "All-caps heading opens its own section",
			text:      "INTRODUCTION\nSome body text follows here.",
			wantTypes: []models.SectionType{models.SectionHeading, models.SectionParagraph},
		},
		{
			name:      "Indented lines become code",
			text:      "Here is an example:\n    func main() {}\n    fmt.Println(\"hi\")",
			wantTypes: []models.SectionType{models.SectionParagraph, models.SectionCode},
		},
		{
			name:      "Tab-indented line is code",
			text:      "\tx := 1",
			wantTypes: []models.SectionType{models.SectionCode},
		},
		{
			name:      "Inline math delimiters",
			text:      "The energy is $E = mc^2$ as shown.",
			wantTypes: []models.SectionType{models.SectionMath},
		},
		{
			name:      "LaTeX environment is math",
			text:      `\begin{align} x + y \end{align}`,
			wantTypes: []models.SectionType{models.SectionMath},
		},
		{
			name:      "Empty input yields no sections",
			text:      "\n\n   \n",
			wantTypes: nil,
		},
		{
			name:      "Type change splits sections",
			text:      "A paragraph line.\n    code line\nBack to prose.",
			wantTypes: []models.SectionType{models.SectionParagraph, models.SectionCode, models.SectionParagraph},
		},
		{
			name:      "Leading code absorbs the empty paragraph section",
			text:      "    x := compute()\n    return x",
			wantTypes: []models.SectionType{models.SectionCode},
		},
		{
			name:      "Consecutive headings stay separate",
			text:      "CHAPTER ONE\nOVERVIEW",
			wantTypes: []models.SectionType{models.SectionHeading, models.SectionHeading},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := service.ExtractSections(tt.text)

			var types []models.SectionType
			for _, sec := range sections {
				types = append(types, sec.Type)
				assert.NotEmpty(t, sec.Content)
			}
			assert.Equal(t, tt.wantTypes, types)
		})
	}
}

func TestExtractSections_HeadingRules(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"INTRODUCTION", true},
		{"TABLE OF CONTENTS", true},
		{"PART ONE: BASICS", true},
		{"Introduction", false},
		{"INTRODUCTION to the topic", false},
		{"SECTION 2", false}, // digits disqualify
		{"THIS HEADING IS FAR TOO LONG TO BE TREATED AS A REAL HEADING", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, isHeadingLine(tt.line))
		})
	}
}

func TestExtractSections_BlankLinesDoNotSplit(t *testing.T) {
	service := NewService(arbor.NewLogger())

	// Blank lines are skipped entirely, so prose separated by them still
	// accumulates into one paragraph section.
	sections := service.ExtractSections("First line.\n\n\nSecond line.")

	require.Len(t, sections, 1)
	assert.Equal(t, models.SectionParagraph, sections[0].Type)
	assert.Equal(t, "First line. Second line.", sections[0].Text())
}

func TestExtractFile_PlainText(t *testing.T) {
	service := NewService(arbor.NewLogger())

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text content"), 0o644))

	text, err := service.ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "plain text content", text)
}

func TestExtractFile_MissingFile(t *testing.T) {
	service := NewService(arbor.NewLogger())

	_, err := service.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)

	var extractionErr *models.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestExtractFile_HTML(t *testing.T) {
	service := NewService(arbor.NewLogger())

	html := `<html><head><title>Doc</title></head><body>
		<script>ignore()</script>
		<article><h1>Welcome</h1><p>Body paragraph.</p></article>
	</body></html>`

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(html), 0o644))

	text, err := service.ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Welcome")
	assert.Contains(t, text, "Body paragraph.")
	assert.NotContains(t, text, "ignore()")
}
