package interfaces

import "github.com/studyforge/studyforge/internal/models"

// CourseExporter renders a generated course for offline use
type CourseExporter interface {
	// RenderMarkdown produces a markdown document covering the full course
	RenderMarkdown(course *models.Course) string

	// ExportPDF renders the course as a printable PDF
	ExportPDF(course *models.Course) ([]byte, error)
}
