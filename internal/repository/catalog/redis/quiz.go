package redis

import (
	"context"
	"fmt"

	"github.com/studyroom/lesson-server/internal/repository/catalog"
)

func (r repo) getQuizKey(levelId string) string {
	return "level:" + levelId + ":quiz"
}

func (r repo) SetQuiz(ctx context.Context, params *catalog.SetQuizParams) error {
	quiz := catalog.Quiz{
		LevelId:       params.LevelId,
		Title:         params.Title,
		QuestionCount: params.QuestionCount,
		PassPercent:   params.PassPercent,
	}
	quizKey := r.getQuizKey(params.LevelId)

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, quizKey, quiz)
	pipe.Expire(ctx, quizKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set quiz: %w", err)
	}

	return nil
}

// GetQuiz returns catalog.ErrQuizNotFound when the level has no quiz. Absence
// is an expected state, not a failure.
func (r repo) GetQuiz(ctx context.Context, levelId string) (catalog.Quiz, error) {
	quizKey := r.getQuizKey(levelId)

	res, err := r.rc.Exists(ctx, quizKey).Result()
	if err != nil {
		return catalog.Quiz{}, fmt.Errorf("failed to check if quiz exists: %w", err)
	}
	if res == 0 {
		return catalog.Quiz{}, catalog.ErrQuizNotFound
	}

	var quiz catalog.Quiz
	if err := r.rc.HGetAll(ctx, quizKey).Scan(&quiz); err != nil {
		return catalog.Quiz{}, fmt.Errorf("failed to get quiz: %w", err)
	}

	r.rc.Expire(ctx, quizKey, r.expireDuration)

	return quiz, nil
}
