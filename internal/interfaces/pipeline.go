package interfaces

import (
	"context"

	"github.com/studyforge/studyforge/internal/models"
)

// CoursePipeline is the entry point consumed by upload, URL, and text
// collaborators. Errors are *models.PipelineError values carrying a
// transport code.
type CoursePipeline interface {
	// ProcessDocument converts the file at filePath into a course. The file
	// and its containing directory are removed on both success and failure.
	ProcessDocument(ctx context.Context, filePath, userID string) (*models.Course, error)

	// ProcessURL fetches a web page and converts its main content into a course.
	ProcessURL(ctx context.Context, url, userID string) (*models.Course, error)

	// ProcessText converts already-decoded text into a course.
	ProcessText(ctx context.Context, text, title, userID string) (*models.Course, error)
}
