package shared

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrorCategory classifies the failures the aggregation pipeline can absorb.
// No category is ever surfaced to an HTTP caller; they exist so absorbed
// failures stay inspectable in logs and tests instead of collapsing into
// silent empty defaults.
type ErrorCategory string

const (
	ErrorCategoryNetwork    ErrorCategory = "network"
	ErrorCategoryDecode     ErrorCategory = "decode"
	ErrorCategoryField      ErrorCategory = "field"
	ErrorCategoryEnrichment ErrorCategory = "enrichment"
)

// StageError is a categorized failure from one pipeline stage.
type StageError struct {
	Category  ErrorCategory
	Stage     string
	Operation string
	Cause     error
}

func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Stage, e.Operation, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Stage, e.Operation)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// NewStageError creates a categorized stage failure.
func NewStageError(category ErrorCategory, stage, operation string, cause error) *StageError {
	return &StageError{
		Category:  category,
		Stage:     stage,
		Operation: operation,
		Cause:     cause,
	}
}

// LogError logs the error with structured fields at warning level; absorbed
// failures are expected operation, not alerts.
func (e *StageError) LogError() {
	logrus.WithFields(logrus.Fields{
		"error_category": e.Category,
		"stage":          e.Stage,
		"operation":      e.Operation,
		"cause":          e.Cause,
	}).Warn("Pipeline stage failure absorbed")
}
