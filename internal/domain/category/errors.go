package category

import "errors"

var (
	ErrCategoryNotFound    = errors.New("leave category not found")
	ErrAbsenceTypeNotFound = errors.New("absence type not found")
)
