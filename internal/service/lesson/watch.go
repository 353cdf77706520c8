package lesson

import (
	"context"
	"errors"
	"fmt"
)

type LoadWatchSessionParams struct {
	ViewerId string
	LevelId  string
}

type WatchSessionData struct {
	Detail LevelDetail
	Levels []Level
	// Quiz is nil when the level has no available quiz.
	Quiz *Quiz
}

// LoadWatchSession gathers everything a playback session needs: the level
// detail, the full ordered level list of its course, and quiz availability.
func (s service) LoadWatchSession(ctx context.Context, params *LoadWatchSessionParams) (WatchSessionData, error) {
	detail, err := s.GetLevelDetail(ctx, &GetLevelDetailParams{
		ViewerId: params.ViewerId,
		LevelId:  params.LevelId,
	})
	if err != nil {
		return WatchSessionData{}, err
	}

	levels, err := s.GetLevelList(ctx, &GetLevelListParams{
		ViewerId: params.ViewerId,
		CourseId: detail.CourseId,
	})
	if err != nil {
		return WatchSessionData{}, fmt.Errorf("failed to get level list: %w", err)
	}

	data := WatchSessionData{
		Detail: detail,
		Levels: levels,
	}

	if detail.QuizEnabled {
		quiz, err := s.GetQuiz(ctx, params.LevelId)
		if err != nil {
			if !errors.Is(err, ErrQuizNotFound) {
				return WatchSessionData{}, fmt.Errorf("failed to get quiz: %w", err)
			}
		} else {
			data.Quiz = &quiz
		}
	}

	return data, nil
}
