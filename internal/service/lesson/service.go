package lesson

import (
	"context"
	"errors"
	"time"

	"github.com/studyroom/lesson-server/internal/repository/catalog"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrLevelNotFound   = errors.New("level not found")
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrLevelLocked     = errors.New("level is locked")
	ErrNoAdjacentLevel = errors.New("no adjacent level")
)

type iCatalogRepo interface {
	// course
	SetCourse(context.Context, *catalog.SetCourseParams) error
	GetCourse(context.Context, string) (catalog.Course, error)
	// level
	SetLevel(context.Context, *catalog.SetLevelParams) error
	GetLevel(context.Context, string) (catalog.Level, error)
	GetLevelIds(context.Context, string) ([]string, error)
	// quiz
	SetQuiz(context.Context, *catalog.SetQuizParams) error
	GetQuiz(context.Context, string) (catalog.Quiz, error)
	// progress
	SetProgress(context.Context, *catalog.SetProgressParams) (int, error)
	GetProgress(ctx context.Context, viewerId, courseId string) (map[string]int, error)
	AddCompleted(context.Context, *catalog.AddCompletedParams) error
	GetCompleted(ctx context.Context, viewerId, courseId string) (map[string]struct{}, error)
}

type Config struct {
	Secret         string
	StreamBaseURL  string
	StreamTokenTTL time.Duration
}

type service struct {
	catalogRepo    iCatalogRepo
	secret         string
	streamBaseURL  string
	streamTokenTTL time.Duration
}

func NewService(catalogRepo iCatalogRepo, cfg *Config) *service {
	tokenTTL := cfg.StreamTokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 6 * time.Hour
	}

	return &service{
		catalogRepo:    catalogRepo,
		secret:         cfg.Secret,
		streamBaseURL:  cfg.StreamBaseURL,
		streamTokenTTL: tokenTTL,
	}
}
