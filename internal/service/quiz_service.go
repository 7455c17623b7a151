package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/util"
	"skillforge_backend/pkg/logger"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo *repository.QuizRepository
	UserRepo *repository.UserRepository
	AI       *AIService
}

func NewQuizService(quizRepo *repository.QuizRepository, userRepo *repository.UserRepository, ai *AIService) *QuizService {
	return &QuizService{QuizRepo: quizRepo, UserRepo: userRepo, AI: ai}
}

type GenerateQuizInput struct {
	Topic        string `json:"topic" binding:"required"`
	Difficulty   string `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	NumQuestions int    `json:"numQuestions"`
	Category     string `json:"category"`
	TimeLimit    int    `json:"timeLimit"` // 分钟
}

// aiQuizPayload AI 返回的测验 JSON 结构
type aiQuizPayload struct {
	Title        string `json:"title"`
	PassingScore int    `json:"passingScore"`
	Questions    []struct {
		Question      string      `json:"question"`
		Type          string      `json:"type"`
		Options       []string    `json:"options"`
		CorrectAnswer interface{} `json:"correctAnswer"`
		Explanation   string      `json:"explanation"`
		Points        int         `json:"points"`
		Tags          []string    `json:"tags"`
	} `json:"questions"`
}

// QuestionView 面向答题方的题目视图，不含正确答案与解析
type QuestionView struct {
	QuestionID string             `json:"questionId"`
	Question   string             `json:"question"`
	Type       model.QuestionType `json:"type"`
	Options    []string           `json:"options,omitempty"`
	Points     int                `json:"points"`
	Tags       []string           `json:"tags,omitempty"`
}

type QuizView struct {
	ID             uint                `json:"id"`
	Title          string              `json:"title"`
	Topic          string              `json:"topic"`
	Difficulty     model.Difficulty    `json:"difficulty"`
	Category       string              `json:"category"`
	Questions      []QuestionView      `json:"questions"`
	Settings       model.QuizSettings  `json:"settings"`
	TotalQuestions int                 `json:"totalQuestions"`
	TotalPoints    int                 `json:"totalPoints"`
	Attempts       int                 `json:"attempts"`
	Analytics      model.QuizAnalytics `json:"analytics"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// Generate AI 生成测验，失败时退回本地模板，生成结果立即持久化
func (s *QuizService) Generate(ctx context.Context, userID uint, input *GenerateQuizInput) (*QuizView, error) {
	if input.NumQuestions == 0 {
		input.NumQuestions = 10
	}
	if input.NumQuestions < util.MinQuizQuestions || input.NumQuestions > util.MaxQuizQuestions {
		return nil, fmt.Errorf("%w: 题目数量须在 %d-%d 之间", util.ErrInvalidAction, util.MinQuizQuestions, util.MaxQuizQuestions)
	}
	if input.Category == "" {
		input.Category = "technical"
	}
	if input.TimeLimit == 0 {
		input.TimeLimit = 30
	}

	questions, title, passingScore := s.generateQuestions(ctx, input)
	// 题目 ID 统一为 q_1..q_n，提交时按该 ID 对答案
	for i := range questions {
		questions[i].QuestionID = fmt.Sprintf("q_%d", i+1)
	}

	timeLimit := input.TimeLimit
	if min := input.NumQuestions * 2; timeLimit < min {
		// 每题至少预留 2 分钟
		timeLimit = min
	}

	quiz := &model.Quiz{
		UserID:     userID,
		Title:      title,
		Topic:      strings.TrimSpace(input.Topic),
		Difficulty: model.Difficulty(input.Difficulty),
		Category:   input.Category,
		Questions:  questions,
		Settings: model.QuizSettings{
			TimeLimit:          timeLimit,
			PassingScore:       passingScore,
			ShuffleQuestions:   true,
			ShowCorrectAnswers: true,
			AllowRetakes:       true,
			MaxAttempts:        3,
		},
		IsActive: true,
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}

	logger.Log.Info("测验生成成功",
		zap.Uint("userID", userID),
		zap.Uint("quizID", quiz.ID),
		zap.String("topic", quiz.Topic),
		zap.Int("questions", len(quiz.Questions)))

	return s.toView(quiz), nil
}

func (s *QuizService) generateQuestions(ctx context.Context, input *GenerateQuizInput) (questions []model.Question, title string, passingScore int) {
	title = fmt.Sprintf("%s 测验", strings.TrimSpace(input.Topic))
	passingScore = 70

	system := "你是一名出题专家。你只输出 JSON，不要输出任何解释性文字。"
	prompt := fmt.Sprintf(`请围绕主题「%s」生成 %d 道 %s 难度的测验题，输出如下结构的 JSON：
{
  "title": "测验标题",
  "passingScore": 70,
  "questions": [
    {
      "question": "题干",
      "type": "multiple-choice | true-false | fill-blank",
      "options": ["选项A", "选项B", "选项C", "选项D"],
      "correctAnswer": 0,
      "explanation": "答案解析",
      "points": 1,
      "tags": ["标签"]
    }
  ]
}
要求：选择题和判断题的 correctAnswer 为正确选项的下标（数字），填空题为答案字符串且不含 options；题目覆盖该主题的核心知识点。`,
		input.Topic, input.NumQuestions, input.Difficulty)

	var payload aiQuizPayload
	if err := s.AI.GenerateJSON(ctx, system, prompt, &payload); err != nil || len(payload.Questions) == 0 {
		logger.Log.Warn("AI 生成测验失败，使用本地模板",
			zap.String("topic", input.Topic),
			zap.Error(err))
		return fallbackQuizQuestions(input.Topic, input.NumQuestions), title, passingScore
	}

	if payload.Title != "" {
		title = payload.Title
	}
	if payload.PassingScore > 0 && payload.PassingScore <= 100 {
		passingScore = payload.PassingScore
	}

	questions = make([]model.Question, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		if i >= input.NumQuestions {
			break
		}
		qType := model.QuestionType(q.Type)
		switch qType {
		case model.MultipleChoice, model.TrueFalse, model.FillBlank:
		default:
			qType = model.MultipleChoice
		}
		points := q.Points
		if points <= 0 {
			points = 1
		}
		tags := q.Tags
		if len(tags) == 0 {
			tags = []string{input.Topic}
		}
		questions = append(questions, model.Question{
			Question:      q.Question,
			Type:          qType,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Points:        points,
			Tags:          tags,
		})
	}
	return questions, title, passingScore
}

func (s *QuizService) toView(quiz *model.Quiz) *QuizView {
	view := &QuizView{
		ID:             quiz.ID,
		Title:          quiz.Title,
		Topic:          quiz.Topic,
		Difficulty:     quiz.Difficulty,
		Category:       quiz.Category,
		Questions:      make([]QuestionView, 0, len(quiz.Questions)),
		Settings:       quiz.Settings,
		TotalQuestions: len(quiz.Questions),
		TotalPoints:    quiz.TotalPoints(),
		Attempts:       len(quiz.Attempts),
		Analytics:      quiz.Analytics,
		CreatedAt:      quiz.CreatedAt,
	}
	for _, q := range quiz.Questions {
		view.Questions = append(view.Questions, QuestionView{
			QuestionID: q.QuestionID,
			Question:   q.Question,
			Type:       q.Type,
			Options:    q.Options,
			Points:     q.Points,
			Tags:       q.Tags,
		})
	}
	return view
}

// GetQuiz 返回答题视图，正确答案与解析始终不下发
func (s *QuizService) GetQuiz(userID, quizID uint) (*QuizView, error) {
	quiz, err := s.findOwned(userID, quizID)
	if err != nil {
		return nil, err
	}
	return s.toView(quiz), nil
}

func (s *QuizService) findOwned(userID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.UserID != userID {
		return nil, util.ErrQuizNotFound
	}
	return quiz, nil
}

type SubmitQuizInput struct {
	QuizID    uint                   `json:"quizId" binding:"required"`
	Answers   map[string]interface{} `json:"answers" binding:"required"`
	TimeSpent int                    `json:"timeSpent"` // 秒
}

// QuestionResult 单题判定结果，是否含正确答案由 showCorrectAnswers 决定
type QuestionResult struct {
	QuestionID    string      `json:"questionId"`
	Question      string      `json:"question"`
	Options       []string    `json:"options,omitempty"`
	CorrectAnswer interface{} `json:"correctAnswer,omitempty"`
	UserAnswer    interface{} `json:"userAnswer"`
	IsCorrect     bool        `json:"isCorrect"`
	Explanation   string      `json:"explanation,omitempty"`
	Points        int         `json:"points"`
}

type SubmitQuizResult struct {
	AttemptID   string             `json:"attemptId"`
	Score       model.AttemptScore `json:"score"`
	Passed      bool               `json:"passed"`
	TimeSpent   int                `json:"timeSpent"`
	CompletedAt *time.Time         `json:"completedAt"`
	Questions   []QuestionResult   `json:"questions"`
	Analytics   struct {
		TotalAttempts  int     `json:"totalAttempts"`
		BestScore      int     `json:"bestScore"`
		AverageScore   float64 `json:"averageScore"`
		TimeComparison struct {
			YourTime    int     `json:"yourTime"`
			AverageTime float64 `json:"averageTime"`
		} `json:"timeComparison"`
	} `json:"analytics"`
}

// SubmitAttempt 测验提交主流程
// 校验顺序固定：次数上限先于时间上限；超时上限含 60 秒提交缓冲
func (s *QuizService) SubmitAttempt(userID uint, input *SubmitQuizInput) (*SubmitQuizResult, error) {
	quiz, err := s.findOwned(userID, input.QuizID)
	if err != nil {
		return nil, err
	}

	if err := quiz.CanSubmit(input.TimeSpent); err != nil {
		return nil, err
	}

	attempt := quiz.AddAttempt(input.Answers, input.TimeSpent)

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}

	// 用户累计数据更新失败不阻塞提交结果
	if err := s.UserRepo.IncrementQuizzesCompleted(userID); err != nil {
		logger.Log.Warn("更新用户测验计数失败", zap.Uint("userID", userID), zap.Error(err))
	}
	if hours := float64(input.TimeSpent) / 3600; hours > 0 {
		if err := s.UserRepo.AddStudyHours(userID, hours); err != nil {
			logger.Log.Warn("更新用户学习时长失败", zap.Uint("userID", userID), zap.Error(err))
		}
	}

	result := &SubmitQuizResult{
		AttemptID:   attempt.AttemptID,
		Score:       attempt.Score,
		Passed:      attempt.Passed,
		TimeSpent:   attempt.TimeSpent,
		CompletedAt: attempt.CompletedAt,
		Questions:   make([]QuestionResult, 0, len(quiz.Questions)),
	}

	answerByQuestion := make(map[string]*model.UserAnswer, len(attempt.UserAnswers))
	for i := range attempt.UserAnswers {
		answerByQuestion[attempt.UserAnswers[i].QuestionID] = &attempt.UserAnswers[i]
	}

	reveal := quiz.Settings.ShowCorrectAnswers
	for _, question := range quiz.Questions {
		qr := QuestionResult{
			QuestionID: question.QuestionID,
			Question:   question.Question,
			Options:    question.Options,
			Points:     question.Points,
		}
		if ua := answerByQuestion[question.QuestionID]; ua != nil {
			qr.UserAnswer = ua.SelectedAnswer
			qr.IsCorrect = ua.IsCorrect
		}
		if reveal {
			qr.CorrectAnswer = question.CorrectAnswer
			qr.Explanation = question.Explanation
		}
		result.Questions = append(result.Questions, qr)
	}

	result.Analytics.TotalAttempts = len(quiz.Attempts)
	if best := quiz.BestAttempt(); best != nil {
		result.Analytics.BestScore = best.Score.Percentage
	}
	result.Analytics.AverageScore = quiz.Analytics.AverageScore
	result.Analytics.TimeComparison.YourTime = attempt.TimeSpent
	result.Analytics.TimeComparison.AverageTime = quiz.Analytics.AverageTimeSpent

	logger.Log.Info("测验提交完成",
		zap.Uint("userID", userID),
		zap.Uint("quizID", quiz.ID),
		zap.Int("percentage", attempt.Score.Percentage),
		zap.Bool("passed", attempt.Passed))

	return result, nil
}

// QuizSummary 历史列表项，附带最佳成绩摘要
type QuizSummary struct {
	ID         uint                `json:"id"`
	Title      string              `json:"title"`
	Topic      string              `json:"topic"`
	Difficulty model.Difficulty    `json:"difficulty"`
	Category   string              `json:"category"`
	CreatedAt  time.Time           `json:"createdAt"`
	Attempts   AttemptSummary      `json:"attempts"`
	Analytics  model.QuizAnalytics `json:"analytics"`
}

type AttemptSummary struct {
	Total int              `json:"total"`
	Best  *BestAttemptInfo `json:"best"`
}

type BestAttemptInfo struct {
	Score       int        `json:"score"`
	Passed      bool       `json:"passed"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (s *QuizService) History(userID uint, page, limit int) ([]QuizSummary, int64, error) {
	quizzes, total, err := s.QuizRepo.FindByUser(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for i := range quizzes {
		quiz := &quizzes[i]
		summary := QuizSummary{
			ID:         quiz.ID,
			Title:      quiz.Title,
			Topic:      quiz.Topic,
			Difficulty: quiz.Difficulty,
			Category:   quiz.Category,
			CreatedAt:  quiz.CreatedAt,
			Attempts:   AttemptSummary{Total: len(quiz.Attempts)},
			Analytics:  quiz.Analytics,
		}
		if best := quiz.BestAttempt(); best != nil {
			summary.Attempts.Best = &BestAttemptInfo{
				Score:       best.Score.Percentage,
				Passed:      best.Passed,
				CompletedAt: best.CompletedAt,
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, total, nil
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type QuizStats struct {
	Summary struct {
		TotalQuizzes   int     `json:"totalQuizzes"`
		TotalAttempts  int     `json:"totalAttempts"`
		AverageScore   int     `json:"averageScore"`
		CompletionRate int     `json:"completionRate"`
		PassRate       float64 `json:"passRate"`
	} `json:"summary"`
	ByDifficulty map[string]int `json:"byDifficulty"`
	TopTopics    []TopicCount   `json:"topTopics"`
}

// Stats 聚合用户全部测验的统计数据
func (s *QuizService) Stats(userID uint) (*QuizStats, error) {
	// 单用户测验量有限，整行加载后在内存聚合
	quizzes, _, err := s.QuizRepo.FindByUser(userID, 1, 1000)
	if err != nil {
		return nil, err
	}

	stats := &QuizStats{
		ByDifficulty: map[string]int{},
	}

	totalAttempts := 0
	passedAttempts := 0
	scoreSum := 0.0
	scoredQuizzes := 0
	topicCount := map[string]int{}

	for i := range quizzes {
		quiz := &quizzes[i]
		stats.ByDifficulty[string(quiz.Difficulty)]++
		topicCount[quiz.Topic]++
		totalAttempts += len(quiz.Attempts)
		for _, attempt := range quiz.Attempts {
			if attempt.Passed {
				passedAttempts++
			}
		}
		if quiz.Analytics.TotalAttempts > 0 {
			scoreSum += quiz.Analytics.AverageScore
			scoredQuizzes++
		}
	}

	stats.Summary.TotalQuizzes = len(quizzes)
	stats.Summary.TotalAttempts = totalAttempts
	if scoredQuizzes > 0 {
		stats.Summary.AverageScore = int(math.Round(scoreSum / float64(scoredQuizzes)))
	}
	if len(quizzes) > 0 {
		stats.Summary.CompletionRate = int(math.Round(float64(totalAttempts) / float64(len(quizzes)) * 100))
	}
	if totalAttempts > 0 {
		stats.Summary.PassRate = math.Round(float64(passedAttempts)/float64(totalAttempts)*10000) / 100
	}

	for topic, count := range topicCount {
		stats.TopTopics = append(stats.TopTopics, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(stats.TopTopics, func(i, j int) bool {
		if stats.TopTopics[i].Count != stats.TopTopics[j].Count {
			return stats.TopTopics[i].Count > stats.TopTopics[j].Count
		}
		return stats.TopTopics[i].Topic < stats.TopTopics[j].Topic
	})
	if len(stats.TopTopics) > 10 {
		stats.TopTopics = stats.TopTopics[:10]
	}

	return stats, nil
}

// Delete 软删除，历史提交保留在原行
func (s *QuizService) Delete(userID, quizID uint) error {
	if err := s.QuizRepo.Deactivate(quizID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	return nil
}
