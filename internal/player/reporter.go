package player

import "context"

type Report struct {
	ViewerId            string
	CourseId            string
	LevelId             string
	VideoWatchedPercent int
}

// Reporter receives watch progress. Report failures are logged and retried
// on the next periodic tick; missed reports are not queued.
type Reporter interface {
	ReportProgress(ctx context.Context, report *Report) error
}
