package model

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrAttemptLimitExceeded = errors.New("maximum attempts reached")
	ErrTimeLimitExceeded    = errors.New("time limit exceeded")
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	FillBlank      QuestionType = "fill-blank"
)

// Question 测验题目，随测验创建后不可变
// CorrectAnswer 按题型取值：选择/判断题为选项下标，填空题为字符串
type Question struct {
	QuestionID    string       `json:"questionId"`
	Question      string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer interface{}  `json:"correctAnswer"`
	Explanation   string       `json:"explanation,omitempty"`
	Points        int          `json:"points"`
	Tags          []string     `json:"tags,omitempty"`
}

type QuizSettings struct {
	TimeLimit          int  `json:"timeLimit"` // 分钟
	PassingScore       int  `json:"passingScore"`
	ShuffleQuestions   bool `json:"shuffleQuestions"`
	ShowCorrectAnswers bool `json:"showCorrectAnswers"`
	AllowRetakes       bool `json:"allowRetakes"`
	MaxAttempts        int  `json:"maxAttempts"`
}

// UserAnswer 单题作答记录
// TimeSpent 为总用时平均分摊到每题的近似值，不是实测的单题用时
type UserAnswer struct {
	QuestionID     string      `json:"questionId"`
	SelectedAnswer interface{} `json:"selectedAnswer"`
	IsCorrect      bool        `json:"isCorrect"`
	TimeSpent      int         `json:"timeSpent"` // 秒
}

type AttemptScore struct {
	Percentage     int `json:"percentage"`
	Points         int `json:"points"`
	TotalPoints    int `json:"totalPoints"`
	CorrectAnswers int `json:"correctAnswers"`
	TotalQuestions int `json:"totalQuestions"`
}

// Attempt 一次完整的测验提交，创建后不再修改，只会向测验追加
type Attempt struct {
	AttemptID   string       `json:"attemptId"`
	UserAnswers []UserAnswer `json:"userAnswers"`
	Score       AttemptScore `json:"score"`
	TimeSpent   int          `json:"timeSpent"` // 秒
	Passed      bool         `json:"passed"`
	StartedAt   time.Time    `json:"startedAt"`
	CompletedAt *time.Time   `json:"completedAt"`
}

type QuizAnalytics struct {
	TotalAttempts    int     `json:"totalAttempts"`
	AverageScore     float64 `json:"averageScore"`
	AverageTimeSpent float64 `json:"averageTimeSpent"`
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	UserID     uint                          `gorm:"index;type:bigint unsigned" json:"userId"`
	Title      string                        `gorm:"size:255;not null" json:"title"`
	Topic      string                        `gorm:"size:255;index;not null" json:"topic"`
	Difficulty Difficulty                    `gorm:"type:enum('beginner','intermediate','advanced');not null" json:"difficulty"`
	Category   string                        `gorm:"size:50;default:'technical'" json:"category"`
	Questions  datatypes.JSONSlice[Question] `json:"questions"`
	Settings   QuizSettings                  `gorm:"serializer:json" json:"settings"`
	Attempts   datatypes.JSONSlice[Attempt]  `json:"attempts"`
	Analytics  QuizAnalytics                 `gorm:"serializer:json" json:"analytics"`
	IsPublic   bool                          `gorm:"default:false" json:"isPublic"`
	IsActive   bool                          `gorm:"default:true" json:"isActive"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// TotalPoints 全部题目分值之和
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// CheckAnswer 按题型的相等规则判定单题作答
// 选择/判断题要求严格相等（同类型，不做转换），填空题忽略大小写和首尾空白
// 未作答视为答错，不报错
func (q *Quiz) CheckAnswer(question *Question, submitted interface{}) bool {
	if submitted == nil {
		return false
	}

	switch question.Type {
	case MultipleChoice, TrueFalse:
		return answersStrictlyEqual(question.CorrectAnswer, submitted)
	case FillBlank:
		expected, ok1 := question.CorrectAnswer.(string)
		actual, ok2 := submitted.(string)
		if !ok1 || !ok2 {
			return false
		}
		return normalizeBlank(expected) == normalizeBlank(actual)
	}
	return false
}

// answersStrictlyEqual 同类型严格相等
// JSON 反序列化会把所有数字变成 float64，先统一数值类型再比较
func answersStrictlyEqual(expected, submitted interface{}) bool {
	if ev, ok := toFloat(expected); ok {
		sv, ok := toFloat(submitted)
		return ok && ev == sv
	}
	switch ev := expected.(type) {
	case bool:
		sv, ok := submitted.(bool)
		return ok && ev == sv
	case string:
		sv, ok := submitted.(string)
		return ok && ev == sv
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

func normalizeBlank(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// resolveSubmission 从答案映射中解析某题的作答
// 优先按 questionId 查找，其次按题目下标兜底；两者都存在时以 questionId 为准
func resolveSubmission(answers map[string]interface{}, question *Question, index int) (interface{}, bool) {
	if v, ok := answers[question.QuestionID]; ok {
		return v, true
	}
	if v, ok := answers[strconv.Itoa(index)]; ok {
		return v, true
	}
	return nil, false
}

// CanSubmit 提交前置校验，校验顺序固定：次数上限先于时间上限
// 时间上限在限时基础上留 60 秒的提交缓冲
func (q *Quiz) CanSubmit(timeSpentSeconds int) error {
	if len(q.Attempts) >= q.Settings.MaxAttempts {
		return ErrAttemptLimitExceeded
	}
	if timeSpentSeconds > q.Settings.TimeLimit*60+60 {
		return ErrTimeLimitExceeded
	}
	return nil
}

// ScoreAttempt 对一次提交评分，返回未持久化的 Attempt
// 总用时按题数平均分摊到每题；无题目时百分比定义为 0，避免除零
// 负的用时按 0 处理
func (q *Quiz) ScoreAttempt(answers map[string]interface{}, timeSpentSeconds int) Attempt {
	if timeSpentSeconds < 0 {
		timeSpentSeconds = 0
	}
	now := time.Now()
	attempt := Attempt{
		AttemptID:   GenerateUUID(),
		UserAnswers: make([]UserAnswer, 0, len(q.Questions)),
		TimeSpent:   timeSpentSeconds,
		StartedAt:   now.Add(-time.Duration(timeSpentSeconds) * time.Second),
		CompletedAt: &now,
	}

	perQuestionTime := 0
	if len(q.Questions) > 0 {
		perQuestionTime = timeSpentSeconds / len(q.Questions)
	}

	correctCount := 0
	pointsEarned := 0
	for i := range q.Questions {
		question := &q.Questions[i]
		submitted, _ := resolveSubmission(answers, question, i)
		isCorrect := q.CheckAnswer(question, submitted)
		if isCorrect {
			correctCount++
			pointsEarned += question.Points
		}
		attempt.UserAnswers = append(attempt.UserAnswers, UserAnswer{
			QuestionID:     question.QuestionID,
			SelectedAnswer: submitted,
			IsCorrect:      isCorrect,
			TimeSpent:      perQuestionTime,
		})
	}

	totalPoints := q.TotalPoints()
	percentage := 0
	if totalPoints > 0 {
		percentage = int(math.Round(float64(pointsEarned) / float64(totalPoints) * 100))
	}

	attempt.Score = AttemptScore{
		Percentage:     percentage,
		Points:         pointsEarned,
		TotalPoints:    totalPoints,
		CorrectAnswers: correctCount,
		TotalQuestions: len(q.Questions),
	}
	attempt.Passed = percentage >= q.Settings.PassingScore

	return attempt
}

// AddAttempt 评分并追加到测验，随后重算缓存的统计数据
func (q *Quiz) AddAttempt(answers map[string]interface{}, timeSpentSeconds int) Attempt {
	attempt := q.ScoreAttempt(answers, timeSpentSeconds)
	q.Attempts = append(q.Attempts, attempt)
	q.RecalculateAnalytics()
	return attempt
}

// RecalculateAnalytics 基于全部已完成的提交重算均分和平均用时
func (q *Quiz) RecalculateAnalytics() {
	completed := 0
	totalScore := 0.0
	totalTime := 0.0
	for _, attempt := range q.Attempts {
		if attempt.CompletedAt == nil {
			continue
		}
		completed++
		totalScore += float64(attempt.Score.Percentage)
		totalTime += float64(attempt.TimeSpent)
	}

	q.Analytics.TotalAttempts = completed
	if completed > 0 {
		q.Analytics.AverageScore = totalScore / float64(completed)
		q.Analytics.AverageTimeSpent = totalTime / float64(completed)
	}
}

// BestAttempt 返回百分比最高的提交，没有提交时返回 nil
func (q *Quiz) BestAttempt() *Attempt {
	var best *Attempt
	for i := range q.Attempts {
		if best == nil || q.Attempts[i].Score.Percentage > best.Score.Percentage {
			best = &q.Attempts[i]
		}
	}
	return best
}
