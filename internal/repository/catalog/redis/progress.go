package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/studyroom/lesson-server/internal/repository/catalog"
)

func (r repo) getProgressKey(viewerId, courseId string) string {
	return "viewer:" + viewerId + ":course:" + courseId + ":progress"
}

func (r repo) getCompletedKey(viewerId, courseId string) string {
	return "viewer:" + viewerId + ":course:" + courseId + ":completed"
}

// SetProgress stores the watched percent for a level, keeping the maximum of
// the stored and the reported value. Returns the stored percent.
func (r repo) SetProgress(ctx context.Context, params *catalog.SetProgressParams) (int, error) {
	progressKey := r.getProgressKey(params.ViewerId, params.CourseId)

	res, err := r.rc.EvalSha(ctx, r.maxProgressScript, []string{progressKey}, params.LevelId, params.Percent).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to set progress: %w", err)
	}

	r.rc.Expire(ctx, progressKey, r.expireDuration)

	return res, nil
}

func (r repo) GetProgress(ctx context.Context, viewerId, courseId string) (map[string]int, error) {
	progressKey := r.getProgressKey(viewerId, courseId)

	fields, err := r.rc.HGetAll(ctx, progressKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	r.rc.Expire(ctx, progressKey, r.expireDuration)

	progress := make(map[string]int, len(fields))
	for levelId, percent := range fields {
		p, err := strconv.Atoi(percent)
		if err != nil {
			return nil, fmt.Errorf("failed to parse progress percent: %w", err)
		}
		progress[levelId] = p
	}

	return progress, nil
}

func (r repo) AddCompleted(ctx context.Context, params *catalog.AddCompletedParams) error {
	completedKey := r.getCompletedKey(params.ViewerId, params.CourseId)

	pipe := r.rc.TxPipeline()
	pipe.SAdd(ctx, completedKey, params.LevelId)
	pipe.Expire(ctx, completedKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to add completed level: %w", err)
	}

	return nil
}

func (r repo) GetCompleted(ctx context.Context, viewerId, courseId string) (map[string]struct{}, error) {
	completedKey := r.getCompletedKey(viewerId, courseId)

	levelIds, err := r.rc.SMembers(ctx, completedKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get completed levels: %w", err)
	}

	r.rc.Expire(ctx, completedKey, r.expireDuration)

	completed := make(map[string]struct{}, len(levelIds))
	for _, levelId := range levelIds {
		completed[levelId] = struct{}{}
	}

	return completed, nil
}
