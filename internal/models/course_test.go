package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStructure() *CourseStructure {
	return &CourseStructure{
		Title: "Distributed Systems Primer",
		Modules: []ModuleSpec{
			{Title: "Fundamentals", Objectives: []string{"Understand replication"}, EstimatedTime: 10},
			{Title: "Consensus", Objectives: []string{"Explain leader election"}, EstimatedTime: 20},
		},
	}
}

func TestCourseStructure_Validate(t *testing.T) {
	t.Run("Valid structure passes", func(t *testing.T) {
		assert.NoError(t, validStructure().Validate())
	})

	t.Run("Missing title rejected", func(t *testing.T) {
		s := validStructure()
		s.Title = ""
		assert.Error(t, s.Validate())
	})

	t.Run("Rejections carry the validation error type", func(t *testing.T) {
		s := validStructure()
		s.Modules = nil
		err := s.Validate()
		require.Error(t, err)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		// The underlying validator failure stays reachable for callers
		assert.Error(t, validationErr.Err)
	})

	t.Run("Single module rejected", func(t *testing.T) {
		s := validStructure()
		s.Modules = s.Modules[:1]
		assert.Error(t, s.Validate())
	})

	t.Run("Module without objectives rejected", func(t *testing.T) {
		s := validStructure()
		s.Modules[0].Objectives = nil
		assert.Error(t, s.Validate())
	})

	t.Run("Module without title rejected", func(t *testing.T) {
		s := validStructure()
		s.Modules[1].Title = ""
		assert.Error(t, s.Validate())
	})

	t.Run("Out of range estimated time is coerced", func(t *testing.T) {
		s := validStructure()
		s.Modules[0].EstimatedTime = 100
		s.Modules[1].EstimatedTime = 0

		require.NoError(t, s.Validate())
		assert.Equal(t, DefaultModuleTime, s.Modules[0].EstimatedTime)
		assert.Equal(t, DefaultModuleTime, s.Modules[1].EstimatedTime)
	})

	t.Run("In range estimated time untouched", func(t *testing.T) {
		s := validStructure()

		require.NoError(t, s.Validate())
		assert.Equal(t, 10, s.Modules[0].EstimatedTime)
		assert.Equal(t, 20, s.Modules[1].EstimatedTime)
	})
}

func TestCourse_TotalEstimatedTime(t *testing.T) {
	course := &Course{
		Modules: []Module{
			{ModuleSpec: ModuleSpec{EstimatedTime: 10}},
			{ModuleSpec: ModuleSpec{EstimatedTime: 25}},
		},
	}
	assert.Equal(t, 35, course.TotalEstimatedTime())
}

func TestPipelineError_Unwrap(t *testing.T) {
	inner := &ExtractionError{Reason: "empty document"}
	err := NewPipelineError(CodeTextProcessingError, inner)

	assert.Contains(t, err.Error(), "TEXT_PROCESSING_ERROR")

	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))
}
