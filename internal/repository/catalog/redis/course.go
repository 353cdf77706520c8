package redis

import (
	"context"
	"fmt"

	"github.com/studyroom/lesson-server/internal/repository/catalog"
)

func (r repo) getCourseKey(courseId string) string {
	return "course:" + courseId
}

func (r repo) getCourseLevelsKey(courseId string) string {
	return "course:" + courseId + ":levels"
}

func (r repo) SetCourse(ctx context.Context, params *catalog.SetCourseParams) error {
	course := catalog.Course{
		Title:       params.Title,
		Description: params.Description,
		LevelCount:  params.LevelCount,
	}
	courseKey := r.getCourseKey(params.CourseId)

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, courseKey, course)
	pipe.Expire(ctx, courseKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set course: %w", err)
	}

	return nil
}

func (r repo) GetCourse(ctx context.Context, courseId string) (catalog.Course, error) {
	courseKey := r.getCourseKey(courseId)

	res, err := r.rc.Exists(ctx, courseKey).Result()
	if err != nil {
		return catalog.Course{}, fmt.Errorf("failed to check if course exists: %w", err)
	}
	if res == 0 {
		return catalog.Course{}, catalog.ErrCourseNotFound
	}

	var course catalog.Course
	if err := r.rc.HGetAll(ctx, courseKey).Scan(&course); err != nil {
		return catalog.Course{}, fmt.Errorf("failed to get course: %w", err)
	}

	r.rc.Expire(ctx, courseKey, r.expireDuration)

	return course, nil
}
