package export

import (
	"fmt"
	"strings"

	"github.com/studyforge/studyforge/internal/models"
)

// RenderMarkdown produces a single markdown document for the course: title,
// overview, then one section per module with its objectives, content,
// flashcards, and quiz.
func (s *Service) RenderMarkdown(course *models.Course) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", course.Title)
	if course.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", course.Description)
	}

	fmt.Fprintf(&b, "**Technical level:** %s  \n", course.TechnicalLevel)
	fmt.Fprintf(&b, "**Estimated time:** %d minutes  \n", course.TotalEstimatedTime())
	fmt.Fprintf(&b, "**Source:** %s\n\n", course.OriginalDocument)

	if len(course.KeyConcepts) > 0 {
		b.WriteString("**Key concepts:**\n\n")
		for _, concept := range course.KeyConcepts {
			fmt.Fprintf(&b, "- %s\n", concept)
		}
		b.WriteString("\n")
	}

	for i, module := range course.Modules {
		renderModule(&b, i+1, &module)
	}

	return b.String()
}

func renderModule(b *strings.Builder, number int, module *models.Module) {
	fmt.Fprintf(b, "## Module %d: %s\n\n", number, module.Title)

	if module.Summary != "" {
		fmt.Fprintf(b, "%s\n\n", module.Summary)
	}
	fmt.Fprintf(b, "**Estimated time:** %d minutes | **Difficulty:** %s\n\n",
		module.EstimatedTime, module.Difficulty)

	if len(module.Objectives) > 0 {
		b.WriteString("### Objectives\n\n")
		for _, objective := range module.Objectives {
			fmt.Fprintf(b, "- %s\n", objective)
		}
		b.WriteString("\n")
	}

	if module.Error != "" {
		fmt.Fprintf(b, "> Generation was incomplete for this module: %s\n\n", module.Error)
	}

	if module.Content != "" {
		b.WriteString("### Study material\n\n")
		fmt.Fprintf(b, "%s\n\n", module.Content)
	}

	if len(module.FlashCards) > 0 {
		b.WriteString("### Flashcards\n\n")
		for _, card := range module.FlashCards {
			fmt.Fprintf(b, "- **%s** (%s): %s\n", card.Term, card.Difficulty, card.Definition)
			if card.Example != "" {
				fmt.Fprintf(b, "  - Example: %s\n", card.Example)
			}
		}
		b.WriteString("\n")
	}

	if len(module.Quiz) > 0 {
		b.WriteString("### Quiz\n\n")
		for i, question := range module.Quiz {
			fmt.Fprintf(b, "%d. %s\n", i+1, question.Question)
			for j, option := range question.Options {
				fmt.Fprintf(b, "   - %c) %s\n", 'a'+j, option)
			}
			fmt.Fprintf(b, "   - Answer: %s\n", question.CorrectAnswer)
			if question.Explanation != "" {
				fmt.Fprintf(b, "   - %s\n", question.Explanation)
			}
		}
		b.WriteString("\n")
	}
}
