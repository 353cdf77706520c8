package lesson

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyroom/lesson-server/internal/repository/catalog"
)

type GetLevelListParams struct {
	ViewerId string
	CourseId string
}

// GetLevelList returns the ordered course outline with the viewer's lock
// state. A level is unlocked when the previous level is completed; the
// first level is always unlocked.
func (s service) GetLevelList(ctx context.Context, params *GetLevelListParams) ([]Level, error) {
	if _, err := s.catalogRepo.GetCourse(ctx, params.CourseId); err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	levelIds, err := s.catalogRepo.GetLevelIds(ctx, params.CourseId)
	if err != nil {
		return nil, fmt.Errorf("failed to get level ids: %w", err)
	}

	completed, err := s.catalogRepo.GetCompleted(ctx, params.ViewerId, params.CourseId)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed levels: %w", err)
	}

	levels := make([]Level, 0, len(levelIds))
	prevCompleted := true
	for _, levelId := range levelIds {
		level, err := s.catalogRepo.GetLevel(ctx, levelId)
		if err != nil {
			return nil, fmt.Errorf("failed to get level: %w", err)
		}

		levels = append(levels, Level{
			Id:          levelId,
			LevelNumber: level.LevelNumber,
			Title:       level.Title,
			Locked:      !prevCompleted,
			HasVideo:    level.HasVideo,
			HasQuiz:     level.QuizEnabled,
		})

		_, prevCompleted = completed[levelId]
	}

	return levels, nil
}

type GetLevelDetailParams struct {
	ViewerId string
	LevelId  string
}

// GetLevelDetail returns the level detail with a token-qualified stream URL.
// Locked levels are refused with ErrLevelLocked.
func (s service) GetLevelDetail(ctx context.Context, params *GetLevelDetailParams) (LevelDetail, error) {
	level, err := s.catalogRepo.GetLevel(ctx, params.LevelId)
	if err != nil {
		if errors.Is(err, catalog.ErrLevelNotFound) {
			return LevelDetail{}, ErrLevelNotFound
		}
		return LevelDetail{}, fmt.Errorf("failed to get level: %w", err)
	}

	locked, err := s.isLevelLocked(ctx, params.ViewerId, level.CourseId, params.LevelId)
	if err != nil {
		return LevelDetail{}, err
	}
	if locked {
		return LevelDetail{}, ErrLevelLocked
	}

	detail := LevelDetail{
		Id:          params.LevelId,
		CourseId:    level.CourseId,
		LevelNumber: level.LevelNumber,
		Title:       level.Title,
		QuizEnabled: level.QuizEnabled,
		HasVideo:    level.HasVideo,
	}
	if level.Description != "" {
		detail.Description = &level.Description
	}

	if level.HasVideo {
		videoURL, err := s.buildStreamURL(params.ViewerId, params.LevelId, level.VideoPath)
		if err != nil {
			return LevelDetail{}, fmt.Errorf("failed to build stream url: %w", err)
		}
		detail.VideoURL = videoURL
	}

	return detail, nil
}

func (s service) isLevelLocked(ctx context.Context, viewerId, courseId, levelId string) (bool, error) {
	levelIds, err := s.catalogRepo.GetLevelIds(ctx, courseId)
	if err != nil {
		return false, fmt.Errorf("failed to get level ids: %w", err)
	}

	completed, err := s.catalogRepo.GetCompleted(ctx, viewerId, courseId)
	if err != nil {
		return false, fmt.Errorf("failed to get completed levels: %w", err)
	}

	prevCompleted := true
	for _, id := range levelIds {
		if id == levelId {
			return !prevCompleted, nil
		}
		_, prevCompleted = completed[id]
	}

	return false, ErrLevelNotFound
}

type NavigateToLevelParams struct {
	ViewerId       string
	CourseId       string
	CurrentLevelId string
	Direction      string // "next" or "prev"
}

type NavigateToLevelResponse struct {
	Level Level
}

// NavigateToLevel moves to the adjacent level in the ordered list. A locked
// target refuses navigation with ErrLevelLocked; past either end it returns
// ErrNoAdjacentLevel.
func (s service) NavigateToLevel(ctx context.Context, params *NavigateToLevelParams) (NavigateToLevelResponse, error) {
	levels, err := s.GetLevelList(ctx, &GetLevelListParams{
		ViewerId: params.ViewerId,
		CourseId: params.CourseId,
	})
	if err != nil {
		return NavigateToLevelResponse{}, err
	}

	current := -1
	for i, level := range levels {
		if level.Id == params.CurrentLevelId {
			current = i
			break
		}
	}
	if current == -1 {
		return NavigateToLevelResponse{}, ErrLevelNotFound
	}

	target := current + 1
	if params.Direction == "prev" {
		target = current - 1
	}
	if target < 0 || target >= len(levels) {
		return NavigateToLevelResponse{}, ErrNoAdjacentLevel
	}

	if levels[target].Locked {
		return NavigateToLevelResponse{}, ErrLevelLocked
	}

	return NavigateToLevelResponse{Level: levels[target]}, nil
}
