package catalog

type Course struct {
	Title       string `redis:"title"`
	Description string `redis:"description"`
	LevelCount  int    `redis:"level_count"`
}

type Level struct {
	CourseId    string `redis:"course_id"`
	LevelNumber int    `redis:"level_number"`
	Title       string `redis:"title"`
	Description string `redis:"description"`
	QuizEnabled bool   `redis:"quiz_enabled"`
	HasVideo    bool   `redis:"has_video"`
	VideoPath   string `redis:"video_path"`
}

type Quiz struct {
	LevelId       string `redis:"level_id"`
	Title         string `redis:"title"`
	QuestionCount int    `redis:"question_count"`
	PassPercent   int    `redis:"pass_percent"`
}
