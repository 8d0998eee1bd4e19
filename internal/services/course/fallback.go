package course

import (
	"math"

	"github.com/studyforge/studyforge/internal/models"
)

// fallbackStructure builds the deterministic rule-based course skeleton used
// when structure generation or validation fails. Total time is derived from
// word count, clamped to [10,60] minutes; the first module is fixed at 10
// minutes and the second takes the remainder, with the standard estimated
// time coercion applied on validation.
func fallbackStructure(wordCount int) *models.CourseStructure {
	total := fallbackTotalMinutes(wordCount)

	structure := &models.CourseStructure{
		Title:       "Generated Course",
		Description: "An automatically structured course derived from the document.",
		Modules: []models.ModuleSpec{
			{
				Title:         "Introduction & Overview",
				Objectives:    []string{"Understand the purpose and context of the document"},
				Summary:       "Orientation to the document's subject, scope, and terminology.",
				EstimatedTime: 10,
				Difficulty:    "beginner",
			},
			{
				Title:         "Core Concepts",
				Objectives:    []string{"Work through the document's main ideas in detail"},
				Summary:       "The central concepts, arguments, and mechanisms of the document.",
				EstimatedTime: total - 10,
				Difficulty:    "intermediate",
			},
		},
		TechnicalLevel: "intermediate",
		KeyConcepts:    []string{},
	}

	// Coerces out-of-range module times; cannot fail on a two-module structure
	_ = structure.Validate()

	return structure
}

// fallbackTotalMinutes is clamp(10, 60, roundUpTo5(wordCount/250/5))
func fallbackTotalMinutes(wordCount int) int {
	minutes := float64(wordCount) / 250.0 / 5.0
	rounded := int(math.Ceil(minutes/5.0)) * 5

	if rounded < 10 {
		return 10
	}
	if rounded > 60 {
		return 60
	}
	return rounded
}
