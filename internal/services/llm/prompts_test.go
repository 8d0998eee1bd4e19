package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_Structure(t *testing.T) {
	prompt := BuildPrompt(PromptStructure, PromptInput{
		DocumentText: "Consensus algorithms coordinate distributed nodes.",
		DomainHint:   "This document appears to cover distributed systems.",
	})

	assert.Contains(t, prompt, "This document appears to cover distributed systems.")
	assert.Contains(t, prompt, "Consensus algorithms coordinate distributed nodes.")
	assert.Contains(t, prompt, `"modules"`)
	assert.Contains(t, prompt, "ONLY a JSON object")
}

func TestBuildPrompt_Flashcards(t *testing.T) {
	prompt := BuildPrompt(PromptFlashcards, PromptInput{
		ModuleTitle: "Consensus Basics",
		Content:     "Raft elects a leader per term.",
	})

	assert.Contains(t, prompt, `"Consensus Basics"`)
	assert.Contains(t, prompt, "Raft elects a leader per term.")
	assert.Contains(t, prompt, "5 to 8 flashcards")
	assert.Contains(t, prompt, "ONLY a JSON array")
}

func TestBuildPrompt_Quiz(t *testing.T) {
	prompt := BuildPrompt(PromptQuiz, PromptInput{
		ModuleTitle: "Consensus Basics",
		Content:     "Raft elects a leader per term.",
	})

	assert.Contains(t, prompt, `"Consensus Basics"`)
	assert.Contains(t, prompt, "exactly 7 questions")
	assert.Contains(t, prompt, "2 recall, 2 comprehension, 2 application, 1 analysis")
}

func TestBuildPrompt_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", promptExcerptLimit*2)

	prompt := BuildPrompt(PromptFlashcards, PromptInput{
		ModuleTitle: "Big Module",
		Content:     long,
	})

	assert.Contains(t, prompt, strings.Repeat("x", promptExcerptLimit))
	assert.NotContains(t, prompt, strings.Repeat("x", promptExcerptLimit+1))
}
