package catalog

type SetCourseParams struct {
	CourseId    string
	Title       string
	Description string
	LevelCount  int
}

type SetLevelParams struct {
	LevelId     string
	CourseId    string
	LevelNumber int
	Title       string
	Description string
	QuizEnabled bool
	HasVideo    bool
	VideoPath   string
}

type SetQuizParams struct {
	LevelId       string
	Title         string
	QuestionCount int
	PassPercent   int
}

type SetProgressParams struct {
	ViewerId string
	CourseId string
	LevelId  string
	Percent  int
}

type AddCompletedParams struct {
	ViewerId string
	CourseId string
	LevelId  string
}
