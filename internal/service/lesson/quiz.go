package lesson

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyroom/lesson-server/internal/repository/catalog"
)

// GetQuiz returns ErrQuizNotFound when the level has no quiz; absence maps
// to a 404 at the transport layer.
func (s service) GetQuiz(ctx context.Context, levelId string) (Quiz, error) {
	quiz, err := s.catalogRepo.GetQuiz(ctx, levelId)
	if err != nil {
		if errors.Is(err, catalog.ErrQuizNotFound) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, fmt.Errorf("failed to get quiz: %w", err)
	}

	return Quiz{
		LevelId:       levelId,
		Title:         quiz.Title,
		QuestionCount: quiz.QuestionCount,
		PassPercent:   quiz.PassPercent,
	}, nil
}
