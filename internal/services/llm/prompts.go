package llm

import (
	"fmt"
)

// PromptKind selects one of the fixed generation tasks
type PromptKind int

const (
	// PromptStructure generates the course skeleton from document text
	PromptStructure PromptKind = iota
	// PromptFlashcards generates flashcards for one module
	PromptFlashcards
	// PromptQuiz generates a quiz for one module
	PromptQuiz
)

// promptExcerptLimit bounds the document/content excerpt embedded in prompts
const promptExcerptLimit = 2000

// PromptInput carries the inputs a template may use. Structure prompts use
// DocumentText and DomainHint; flashcard and quiz prompts use ModuleTitle
// and Content.
type PromptInput struct {
	DocumentText string
	DomainHint   string
	ModuleTitle  string
	Content      string
}

// BuildPrompt dispatches to the pure template function for the given kind.
// Templates are data: they never perform I/O or vary between calls.
func BuildPrompt(kind PromptKind, input PromptInput) string {
	switch kind {
	case PromptFlashcards:
		return buildFlashcardsPrompt(input.ModuleTitle, input.Content)
	case PromptQuiz:
		return buildQuizPrompt(input.ModuleTitle, input.Content)
	default:
		return buildStructurePrompt(input.DocumentText, input.DomainHint)
	}
}

func buildStructurePrompt(documentText, domainHint string) string {
	return fmt.Sprintf(`You are an expert instructional designer. Analyze the following technical document and design a structured learning course from it.

%s

Document content:
%s

Respond with ONLY a JSON object, no prose before or after, in exactly this shape:
{
  "title": "course title",
  "description": "2-3 sentence course description",
  "modules": [
    {
      "title": "module title",
      "objectives": ["learning objective 1", "learning objective 2"],
      "summary": "what this module covers",
      "estimatedTime": 15,
      "difficulty": "beginner"
    }
  ],
  "technicalLevel": "beginner | intermediate | advanced",
  "keyConcepts": ["concept 1", "concept 2"]
}

Requirements:
- Create 3 to 6 modules that progress logically through the material
- Every module needs a non-empty title and at least one objective
- estimatedTime is minutes per module, between 5 and 30
- difficulty must be one of: beginner, intermediate, advanced`,
		domainHint, truncate(documentText, promptExcerptLimit))
}

func buildFlashcardsPrompt(moduleTitle, content string) string {
	return fmt.Sprintf(`Create flashcards for the learning module "%s" from the following content.

Content:
%s

Respond with ONLY a JSON array, no prose before or after, in exactly this shape:
[
  {
    "term": "term or concept name",
    "definition": "clear, precise definition",
    "context": "how the term is used in this document",
    "example": "concrete example, or empty string",
    "difficulty": "easy",
    "category": "topic category"
  }
]

Requirements:
- Produce 5 to 8 flashcards covering the most important terms
- difficulty must be one of: easy, medium, hard
- Definitions must be self-contained and understandable without the source text`,
		moduleTitle, truncate(content, promptExcerptLimit))
}

func buildQuizPrompt(moduleTitle, content string) string {
	return fmt.Sprintf(`Create a quiz for the learning module "%s" from the following content.

Content:
%s

Respond with ONLY a JSON array, no prose before or after, in exactly this shape:
[
  {
    "id": "1",
    "type": "multiple_choice",
    "question": "the question text",
    "options": ["option A", "option B", "option C", "option D"],
    "correctAnswer": "option A",
    "explanation": "why this answer is correct",
    "bloomLevel": "remember",
    "difficulty": "easy",
    "whitepaperReference": "section or phrase of the source this tests"
  }
]

Requirements:
- Produce exactly 7 questions: 2 recall, 2 comprehension, 2 application, 1 analysis
- type must be one of: multiple_choice, true_false, short_answer
- bloomLevel must be one of: remember, understand, apply, analyze
- difficulty must be one of: easy, medium, hard
- options is required for multiple_choice and true_false; omit it for short_answer
- correctAnswer must exactly match one of the options when options are present`,
		moduleTitle, truncate(content, promptExcerptLimit))
}

// truncate limits s to max bytes, which is safe for prompt excerpts where a
// clipped trailing rune does not matter to the model.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
