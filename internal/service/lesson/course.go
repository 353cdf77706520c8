package lesson

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/studyroom/lesson-server/internal/repository/catalog"
)

type CreateQuizParams struct {
	Title         string
	QuestionCount int
	PassPercent   int
}

type CreateLevelParams struct {
	Title       string
	Description string
	HasVideo    bool
	VideoPath   string
	Quiz        *CreateQuizParams
}

type CreateCourseParams struct {
	Title       string
	Description string
	Levels      []CreateLevelParams
}

type CreateCourseResponse struct {
	CourseId string
	LevelIds []string
}

// CreateCourse stores a course together with its ordered levels and their
// optional quizzes. Level numbers follow the given order, starting at 1.
func (s service) CreateCourse(ctx context.Context, params *CreateCourseParams) (CreateCourseResponse, error) {
	courseId := uuid.NewString()

	if err := s.catalogRepo.SetCourse(ctx, &catalog.SetCourseParams{
		CourseId:    courseId,
		Title:       params.Title,
		Description: params.Description,
		LevelCount:  len(params.Levels),
	}); err != nil {
		return CreateCourseResponse{}, fmt.Errorf("failed to set course: %w", err)
	}

	levelIds := make([]string, 0, len(params.Levels))
	for i, levelParams := range params.Levels {
		levelId := uuid.NewString()

		if err := s.catalogRepo.SetLevel(ctx, &catalog.SetLevelParams{
			LevelId:     levelId,
			CourseId:    courseId,
			LevelNumber: i + 1,
			Title:       levelParams.Title,
			Description: levelParams.Description,
			QuizEnabled: levelParams.Quiz != nil,
			HasVideo:    levelParams.HasVideo,
			VideoPath:   levelParams.VideoPath,
		}); err != nil {
			return CreateCourseResponse{}, fmt.Errorf("failed to set level: %w", err)
		}

		if levelParams.Quiz != nil {
			if err := s.catalogRepo.SetQuiz(ctx, &catalog.SetQuizParams{
				LevelId:       levelId,
				Title:         levelParams.Quiz.Title,
				QuestionCount: levelParams.Quiz.QuestionCount,
				PassPercent:   levelParams.Quiz.PassPercent,
			}); err != nil {
				return CreateCourseResponse{}, fmt.Errorf("failed to set quiz: %w", err)
			}
		}

		levelIds = append(levelIds, levelId)
	}

	return CreateCourseResponse{
		CourseId: courseId,
		LevelIds: levelIds,
	}, nil
}
