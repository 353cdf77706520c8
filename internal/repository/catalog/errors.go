package catalog

import "errors"

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLevelNotFound  = errors.New("level not found")
	ErrQuizNotFound   = errors.New("quiz not found")
)
