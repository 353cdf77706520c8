package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/studyroom/lesson-server/internal/repository/catalog"
)

func (r repo) getLevelKey(levelId string) string {
	return "level:" + levelId
}

func (r repo) SetLevel(ctx context.Context, params *catalog.SetLevelParams) error {
	level := catalog.Level{
		CourseId:    params.CourseId,
		LevelNumber: params.LevelNumber,
		Title:       params.Title,
		Description: params.Description,
		QuizEnabled: params.QuizEnabled,
		HasVideo:    params.HasVideo,
		VideoPath:   params.VideoPath,
	}
	levelKey := r.getLevelKey(params.LevelId)
	levelsKey := r.getCourseLevelsKey(params.CourseId)

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, levelKey, level)
	pipe.Expire(ctx, levelKey, r.expireDuration)
	pipe.ZAdd(ctx, levelsKey, redis.Z{Score: float64(params.LevelNumber), Member: params.LevelId})
	pipe.Expire(ctx, levelsKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set level: %w", err)
	}

	return nil
}

func (r repo) GetLevel(ctx context.Context, levelId string) (catalog.Level, error) {
	levelKey := r.getLevelKey(levelId)

	res, err := r.rc.Exists(ctx, levelKey).Result()
	if err != nil {
		return catalog.Level{}, fmt.Errorf("failed to check if level exists: %w", err)
	}
	if res == 0 {
		return catalog.Level{}, catalog.ErrLevelNotFound
	}

	var level catalog.Level
	if err := r.rc.HGetAll(ctx, levelKey).Scan(&level); err != nil {
		return catalog.Level{}, fmt.Errorf("failed to get level: %w", err)
	}

	r.rc.Expire(ctx, levelKey, r.expireDuration)

	return level, nil
}

// GetLevelIds returns the ids of the course levels ordered by level number.
func (r repo) GetLevelIds(ctx context.Context, courseId string) ([]string, error) {
	levelsKey := r.getCourseLevelsKey(courseId)
	levelIds, err := r.rc.ZRange(ctx, levelsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get level ids: %w", err)
	}

	r.rc.Expire(ctx, levelsKey, r.expireDuration)

	return levelIds, nil
}
