package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func twoQuestionQuiz() *Quiz {
	return &Quiz{
		Questions: datatypes.JSONSlice[Question]{
			{QuestionID: "q_1", Question: "1+1=?", Type: MultipleChoice, Options: []string{"1", "2", "3", "4"}, CorrectAnswer: float64(1), Points: 1},
			{QuestionID: "q_2", Question: "Go 是编译型语言", Type: TrueFalse, Options: []string{"对", "错"}, CorrectAnswer: true, Points: 1},
		},
		Settings: QuizSettings{PassingScore: 70, MaxAttempts: 3},
	}
}

func fourQuestionQuiz() *Quiz {
	return &Quiz{
		Questions: datatypes.JSONSlice[Question]{
			{QuestionID: "q_1", Type: MultipleChoice, CorrectAnswer: float64(0), Points: 1},
			{QuestionID: "q_2", Type: MultipleChoice, CorrectAnswer: float64(2), Points: 1},
			{QuestionID: "q_3", Type: TrueFalse, CorrectAnswer: false, Points: 1},
			{QuestionID: "q_4", Type: FillBlank, CorrectAnswer: "Paris", Points: 1},
		},
		Settings: QuizSettings{PassingScore: 70, MaxAttempts: 3},
	}
}

func TestScoreAttempt(t *testing.T) {
	tests := []struct {
		name           string
		quiz           *Quiz
		answers        map[string]interface{}
		wantPercentage int
		wantCorrect    int
		wantPassed     bool
	}{
		{
			name:           "一半正确低于及格线",
			quiz:           twoQuestionQuiz(),
			answers:        map[string]interface{}{"q_1": float64(1), "q_2": false},
			wantPercentage: 50,
			wantCorrect:    1,
			wantPassed:     false,
		},
		{
			name: "四分之三正确达到及格线",
			quiz: fourQuestionQuiz(),
			answers: map[string]interface{}{
				"q_1": float64(0),
				"q_2": float64(2),
				"q_3": false,
				"q_4": "London",
			},
			wantPercentage: 75,
			wantCorrect:    3,
			wantPassed:     true,
		},
		{
			name:           "全部正确",
			quiz:           twoQuestionQuiz(),
			answers:        map[string]interface{}{"q_1": float64(1), "q_2": true},
			wantPercentage: 100,
			wantCorrect:    2,
			wantPassed:     true,
		},
		{
			name:           "未作答全部判错",
			quiz:           twoQuestionQuiz(),
			answers:        map[string]interface{}{},
			wantPercentage: 0,
			wantCorrect:    0,
			wantPassed:     false,
		},
		{
			name: "填空题忽略大小写和首尾空白",
			quiz: fourQuestionQuiz(),
			answers: map[string]interface{}{
				"q_1": float64(1),
				"q_2": float64(0),
				"q_3": true,
				"q_4": "  paris ",
			},
			wantPercentage: 25,
			wantCorrect:    1,
			wantPassed:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := tt.quiz.ScoreAttempt(tt.answers, 120)
			assert.Equal(t, tt.wantPercentage, attempt.Score.Percentage)
			assert.Equal(t, tt.wantCorrect, attempt.Score.CorrectAnswers)
			assert.Equal(t, len(tt.quiz.Questions), attempt.Score.TotalQuestions)
			assert.Equal(t, tt.wantPassed, attempt.Passed)
			assert.NotEmpty(t, attempt.AttemptID)
			assert.NotNil(t, attempt.CompletedAt)
			assert.Len(t, attempt.UserAnswers, len(tt.quiz.Questions))
		})
	}
}

func TestScoreAttemptIndexFallback(t *testing.T) {
	quiz := twoQuestionQuiz()

	// 下标键兜底
	attempt := quiz.ScoreAttempt(map[string]interface{}{"0": float64(1), "1": true}, 60)
	assert.Equal(t, 100, attempt.Score.Percentage)

	// questionId 与下标同时存在时以 questionId 为准
	attempt = quiz.ScoreAttempt(map[string]interface{}{"q_1": float64(1), "0": float64(3), "q_2": true}, 60)
	assert.Equal(t, 100, attempt.Score.Percentage)
}

func TestScoreAttemptTimePerQuestion(t *testing.T) {
	quiz := fourQuestionQuiz()
	attempt := quiz.ScoreAttempt(map[string]interface{}{}, 90)

	// 90 秒平摊到 4 题，向下取整为 22
	for _, ua := range attempt.UserAnswers {
		assert.Equal(t, 22, ua.TimeSpent)
	}
	assert.Equal(t, 90, attempt.TimeSpent)
}

func TestCheckAnswer(t *testing.T) {
	quiz := &Quiz{}
	tests := []struct {
		name      string
		question  Question
		submitted interface{}
		want      bool
	}{
		{"选择题下标相等", Question{Type: MultipleChoice, CorrectAnswer: float64(2)}, float64(2), true},
		{"选择题下标不等", Question{Type: MultipleChoice, CorrectAnswer: float64(2)}, float64(1), false},
		{"选择题不做字符串转换", Question{Type: MultipleChoice, CorrectAnswer: float64(2)}, "2", false},
		{"判断题布尔相等", Question{Type: TrueFalse, CorrectAnswer: true}, true, true},
		{"判断题类型不匹配", Question{Type: TrueFalse, CorrectAnswer: true}, "true", false},
		{"填空题忽略大小写", Question{Type: FillBlank, CorrectAnswer: "Paris"}, "PARIS", true},
		{"填空题忽略首尾空白", Question{Type: FillBlank, CorrectAnswer: "Paris"}, " Paris ", true},
		{"填空题内容不同", Question{Type: FillBlank, CorrectAnswer: "Paris"}, "Lyon", false},
		{"填空题提交非字符串", Question{Type: FillBlank, CorrectAnswer: "Paris"}, float64(1), false},
		{"nil 视为答错", Question{Type: MultipleChoice, CorrectAnswer: float64(0)}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quiz.CheckAnswer(&tt.question, tt.submitted))
		})
	}
}

func TestAddAttemptRecalculatesAnalytics(t *testing.T) {
	quiz := twoQuestionQuiz()

	first := quiz.AddAttempt(map[string]interface{}{"q_1": float64(1), "q_2": true}, 100)
	assert.Equal(t, 100, first.Score.Percentage)
	assert.Equal(t, 1, quiz.Analytics.TotalAttempts)
	assert.Equal(t, 100.0, quiz.Analytics.AverageScore)

	second := quiz.AddAttempt(map[string]interface{}{"q_1": float64(0)}, 200)
	assert.Equal(t, 0, second.Score.Percentage)
	assert.Equal(t, 2, quiz.Analytics.TotalAttempts)
	assert.Equal(t, 50.0, quiz.Analytics.AverageScore)
	assert.Equal(t, 150.0, quiz.Analytics.AverageTimeSpent)
	assert.Len(t, quiz.Attempts, 2)
}

func TestRecalculateAnalyticsSkipsIncomplete(t *testing.T) {
	now := time.Now()
	quiz := twoQuestionQuiz()
	quiz.Attempts = datatypes.JSONSlice[Attempt]{
		{Score: AttemptScore{Percentage: 80}, TimeSpent: 100, CompletedAt: &now},
		{Score: AttemptScore{Percentage: 20}, TimeSpent: 300, CompletedAt: nil},
	}

	quiz.RecalculateAnalytics()
	assert.Equal(t, 1, quiz.Analytics.TotalAttempts)
	assert.Equal(t, 80.0, quiz.Analytics.AverageScore)
}

func TestBestAttempt(t *testing.T) {
	quiz := twoQuestionQuiz()
	assert.Nil(t, quiz.BestAttempt())

	quiz.Attempts = datatypes.JSONSlice[Attempt]{
		{AttemptID: "a1", Score: AttemptScore{Percentage: 50}},
		{AttemptID: "a2", Score: AttemptScore{Percentage: 90}},
		{AttemptID: "a3", Score: AttemptScore{Percentage: 90}},
	}

	best := quiz.BestAttempt()
	assert.NotNil(t, best)
	// 并列最高分时保留先出现的那次
	assert.Equal(t, "a2", best.AttemptID)
}

func TestTotalPointsWeighted(t *testing.T) {
	quiz := &Quiz{
		Questions: datatypes.JSONSlice[Question]{
			{QuestionID: "q_1", Type: MultipleChoice, CorrectAnswer: float64(0), Points: 3},
			{QuestionID: "q_2", Type: MultipleChoice, CorrectAnswer: float64(0), Points: 1},
		},
		Settings: QuizSettings{PassingScore: 70},
	}
	assert.Equal(t, 4, quiz.TotalPoints())

	// 只答对 3 分题，75% 及格
	attempt := quiz.ScoreAttempt(map[string]interface{}{"q_1": float64(0)}, 30)
	assert.Equal(t, 75, attempt.Score.Percentage)
	assert.Equal(t, 3, attempt.Score.Points)
	assert.True(t, attempt.Passed)
}

func TestScoreAttemptNoQuestions(t *testing.T) {
	quiz := &Quiz{Settings: QuizSettings{PassingScore: 70}}
	attempt := quiz.ScoreAttempt(map[string]interface{}{}, 10)
	assert.Equal(t, 0, attempt.Score.Percentage)
	assert.False(t, attempt.Passed)
}

func TestScoreAttemptNegativeTimeClamped(t *testing.T) {
	quiz := twoQuestionQuiz()
	attempt := quiz.ScoreAttempt(map[string]interface{}{"q_1": float64(1)}, -30)

	assert.Equal(t, 0, attempt.TimeSpent)
	// 开始时间不能晚于完成时间
	assert.False(t, attempt.StartedAt.After(*attempt.CompletedAt))
	for _, ua := range attempt.UserAnswers {
		assert.Equal(t, 0, ua.TimeSpent)
	}
}

func TestCanSubmitTimeLimit(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.Settings.TimeLimit = 10 // 分钟

	// 限时外留 60 秒提交缓冲
	assert.NoError(t, quiz.CanSubmit(10*60+60))
	assert.ErrorIs(t, quiz.CanSubmit(10*60+61), ErrTimeLimitExceeded)
}

func TestCanSubmitAttemptCeiling(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.Settings.TimeLimit = 10

	for i := 0; i < quiz.Settings.MaxAttempts; i++ {
		assert.NoError(t, quiz.CanSubmit(60))
		quiz.AddAttempt(map[string]interface{}{"q_1": float64(1)}, 60)
	}

	// 次数用尽后任何提交都失败且不再追加
	assert.ErrorIs(t, quiz.CanSubmit(60), ErrAttemptLimitExceeded)
	assert.ErrorIs(t, quiz.CanSubmit(1), ErrAttemptLimitExceeded)
	assert.Len(t, quiz.Attempts, quiz.Settings.MaxAttempts)
}

func TestCanSubmitAttemptCeilingBeforeTimeCeiling(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.Settings.TimeLimit = 10
	quiz.Settings.MaxAttempts = 0

	// 两个上限同时超出时先报次数上限
	assert.ErrorIs(t, quiz.CanSubmit(10*60+61), ErrAttemptLimitExceeded)
}
