package common

import (
	"github.com/google/uuid"
)

// NewCourseID generates a unique course ID.
// Format: course_<uuid>
func NewCourseID() string {
	return "course_" + uuid.New().String()
}

// NewFlashcardID generates a unique flashcard ID.
// Format: card_<uuid>
func NewFlashcardID() string {
	return "card_" + uuid.New().String()
}

// NewQuestionID generates a unique quiz question ID.
// Format: q_<uuid>
func NewQuestionID() string {
	return "q_" + uuid.New().String()
}

// NewRecordID generates a unique cache record ID.
// Format: rec_<uuid>
func NewRecordID() string {
	return "rec_" + uuid.New().String()
}
