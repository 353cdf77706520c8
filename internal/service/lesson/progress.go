package lesson

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyroom/lesson-server/internal/repository/catalog"
)

type ReportProgressParams struct {
	ViewerId            string
	CourseId            string
	LevelId             string
	VideoWatchedPercent int
}

type ReportProgressResponse struct {
	StoredPercent   int
	Completed       bool
	UnlockedLevelId *string
}

// ReportProgress stores the watched percent, keeping the maximum ever
// reported. Reaching 100 marks the level completed, which unlocks the next
// level in the course order.
func (s service) ReportProgress(ctx context.Context, params *ReportProgressParams) (ReportProgressResponse, error) {
	level, err := s.catalogRepo.GetLevel(ctx, params.LevelId)
	if err != nil {
		if errors.Is(err, catalog.ErrLevelNotFound) {
			return ReportProgressResponse{}, ErrLevelNotFound
		}
		return ReportProgressResponse{}, fmt.Errorf("failed to get level: %w", err)
	}
	if level.CourseId != params.CourseId {
		return ReportProgressResponse{}, ErrLevelNotFound
	}

	percent := params.VideoWatchedPercent
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	stored, err := s.catalogRepo.SetProgress(ctx, &catalog.SetProgressParams{
		ViewerId: params.ViewerId,
		CourseId: params.CourseId,
		LevelId:  params.LevelId,
		Percent:  percent,
	})
	if err != nil {
		return ReportProgressResponse{}, fmt.Errorf("failed to set progress: %w", err)
	}

	resp := ReportProgressResponse{StoredPercent: stored}
	if stored < 100 {
		return resp, nil
	}

	if err := s.catalogRepo.AddCompleted(ctx, &catalog.AddCompletedParams{
		ViewerId: params.ViewerId,
		CourseId: params.CourseId,
		LevelId:  params.LevelId,
	}); err != nil {
		return ReportProgressResponse{}, fmt.Errorf("failed to add completed level: %w", err)
	}
	resp.Completed = true

	levelIds, err := s.catalogRepo.GetLevelIds(ctx, params.CourseId)
	if err != nil {
		return ReportProgressResponse{}, fmt.Errorf("failed to get level ids: %w", err)
	}
	for i, levelId := range levelIds {
		if levelId == params.LevelId && i+1 < len(levelIds) {
			next := levelIds[i+1]
			resp.UnlockedLevelId = &next
			break
		}
	}

	return resp, nil
}
