package service

import (
	"context"
	"encoding/json"
	"fmt"
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

type TutorService struct {
	TutorRepo *repository.TutorRepository
	UserRepo  *repository.UserRepository
	AI        *AIService
}

func NewTutorService(tutorRepo *repository.TutorRepository, userRepo *repository.UserRepository, ai *AIService) *TutorService {
	return &TutorService{TutorRepo: tutorRepo, UserRepo: userRepo, AI: ai}
}

type AskInput struct {
	Question string `json:"question" binding:"required,min=5,max=1000"`
	Subject  string `json:"subject"`
}

// aiTutorPayload AI 返回的结构化回答
type aiTutorPayload struct {
	Answer        string   `json:"answer"`
	KeyPoints     []string `json:"keyPoints"`
	Suggestions   []string `json:"suggestions"`
	RelatedTopics []string `json:"relatedTopics"`
	Difficulty    string   `json:"difficulty"`
}

// Ask 向导师提问，回答按用户画像个性化并持久化到问答历史
// 最近几轮问答作为上下文传给模型，实现有连续性的多轮对话
func (s *TutorService) Ask(ctx context.Context, userID uint, input *AskInput) (*model.TutorConversation, error) {
	subject := input.Subject
	if subject == "" {
		subject = "general"
	}

	system := s.buildSystemPrompt(userID, subject)
	history := s.recentHistory(userID)

	prompt := fmt.Sprintf(`请回答下面的问题，输出如下结构的 JSON：
{
  "answer": "详细解答（markdown）",
  "keyPoints": ["关键要点"],
  "suggestions": ["后续学习建议"],
  "relatedTopics": ["相关主题"],
  "difficulty": "beginner | intermediate | advanced"
}

问题：%s`, input.Question)

	conversation := s.generate(ctx, system, prompt, history, input.Question, subject)
	conversation.UserID = userID

	if err := s.TutorRepo.Create(conversation); err != nil {
		return nil, err
	}

	logger.Log.Info("导师问答完成",
		zap.Uint("userID", userID),
		zap.String("subject", subject),
		zap.Bool("fallback", conversation.Fallback))

	return conversation, nil
}

type ExplainInput struct {
	Concept string `json:"concept" binding:"required,min=2,max=200"`
	Level   string `json:"level"`
	Subject string `json:"subject"`
}

// Explain 概念讲解，按指定水平调整深度
func (s *TutorService) Explain(ctx context.Context, userID uint, input *ExplainInput) (*model.TutorConversation, error) {
	level := input.Level
	switch level {
	case "beginner", "intermediate", "advanced":
	default:
		level = "intermediate"
	}
	subject := input.Subject
	if subject == "" {
		subject = "general"
	}

	system := s.buildSystemPrompt(userID, subject)
	question := fmt.Sprintf("请讲解概念：%s", input.Concept)
	prompt := fmt.Sprintf(`请面向 %s 水平的学习者讲解概念「%s」，输出如下结构的 JSON：
{
  "answer": "由浅入深的讲解，包含类比和示例（markdown）",
  "keyPoints": ["核心要点"],
  "suggestions": ["练习建议"],
  "relatedTopics": ["延伸概念"],
  "difficulty": "%s"
}`, level, input.Concept, level)

	conversation := s.generate(ctx, system, prompt, nil, question, subject)
	conversation.UserID = userID
	conversation.Difficulty = level

	if err := s.TutorRepo.Create(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// Suggestions 基于用户画像生成学习建议
func (s *TutorService) Suggestions(ctx context.Context, userID uint) (*model.TutorConversation, error) {
	system := s.buildSystemPrompt(userID, "general")
	question := "请根据我的学习情况给出本周的学习建议"
	prompt := `请给出针对性的学习建议，输出如下结构的 JSON：
{
  "answer": "本周学习建议总述（markdown）",
  "keyPoints": ["重点方向"],
  "suggestions": ["具体可执行的建议"],
  "relatedTopics": ["值得关注的主题"],
  "difficulty": "intermediate"
}`

	conversation := s.generate(ctx, system, prompt, nil, question, "general")
	conversation.UserID = userID

	if err := s.TutorRepo.Create(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *TutorService) generate(ctx context.Context, system, prompt string, history []AIChatMessage, question, subject string) *model.TutorConversation {
	var payload aiTutorPayload
	content, err := s.AI.Chat(ctx, system, prompt, history)
	if err == nil {
		raw := ExtractJSON(content)
		if raw == "" {
			err = fmt.Errorf("AI 响应中未找到 JSON")
		} else {
			err = json.Unmarshal([]byte(raw), &payload)
		}
	}
	if err != nil || payload.Answer == "" {
		logger.Log.Warn("AI 导师回答失败，使用兜底回答", zap.Error(err))
		return fallbackTutorAnswer(question, subject)
	}

	difficulty := payload.Difficulty
	switch difficulty {
	case "beginner", "intermediate", "advanced":
	default:
		difficulty = "intermediate"
	}

	return &model.TutorConversation{
		Subject:       subject,
		Question:      question,
		Answer:        payload.Answer,
		KeyPoints:     payload.KeyPoints,
		Suggestions:   payload.Suggestions,
		RelatedTopics: payload.RelatedTopics,
		Difficulty:    difficulty,
	}
}

// buildSystemPrompt 把用户画像注入系统提示词
func (s *TutorService) buildSystemPrompt(userID uint, subject string) string {
	var b strings.Builder
	b.WriteString("你是一名耐心的智能学习导师。你只输出 JSON，不要输出任何解释性文字。")
	b.WriteString(fmt.Sprintf("当前学科：%s。", subject))

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return b.String()
	}

	b.WriteString(fmt.Sprintf("学习者水平：%s。", user.SkillLevel))
	if user.Domain != "" {
		b.WriteString(fmt.Sprintf("目标领域：%s。", user.Domain))
	}
	if user.TargetRole != "" {
		b.WriteString(fmt.Sprintf("目标岗位：%s。", user.TargetRole))
	}
	if len(user.CurrentSkills) > 0 {
		b.WriteString(fmt.Sprintf("已掌握技能：%s。", strings.Join(user.CurrentSkills, "、")))
	}
	b.WriteString("回答需与学习者的水平和目标匹配。")
	return b.String()
}

// recentHistory 取最近三轮问答作为对话上下文，按时间正序排列
func (s *TutorService) recentHistory(userID uint) []AIChatMessage {
	conversations, err := s.TutorRepo.FindRecentByUser(userID, 3)
	if err != nil || len(conversations) == 0 {
		return nil
	}

	messages := make([]AIChatMessage, 0, len(conversations)*2)
	for i := len(conversations) - 1; i >= 0; i-- {
		c := conversations[i]
		if c.Fallback {
			continue
		}
		messages = append(messages,
			AIChatMessage{Role: "user", Content: c.Question},
			AIChatMessage{Role: "assistant", Content: c.Answer},
		)
	}
	return messages
}

func (s *TutorService) History(userID uint, page, limit int) ([]model.TutorConversation, int64, error) {
	return s.TutorRepo.FindByUser(userID, page, limit)
}

func (s *TutorService) ClearHistory(userID uint) error {
	return s.TutorRepo.DeleteByUser(userID)
}
