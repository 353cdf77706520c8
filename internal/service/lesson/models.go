package lesson

type Level struct {
	Id          string `json:"id"`
	LevelNumber int    `json:"level_number"`
	Title       string `json:"title"`
	Locked      bool   `json:"locked"`
	HasVideo    bool   `json:"has_video"`
	HasQuiz     bool   `json:"has_quiz"`
}

type LevelDetail struct {
	Id          string  `json:"id"`
	CourseId    string  `json:"course_id"`
	LevelNumber int     `json:"level_number"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	QuizEnabled bool    `json:"quiz_enabled"`
	HasVideo    bool    `json:"has_video"`
	VideoURL    string  `json:"video_url"`
}

type Quiz struct {
	LevelId       string `json:"level_id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
	PassPercent   int    `json:"pass_percent"`
}
