package service

import (
	"context"
	"errors"
	"fmt"
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/util"
	"skillforge_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LearningPathService struct {
	PathRepo *repository.LearningPathRepository
	UserRepo *repository.UserRepository
	AI       *AIService
}

func NewLearningPathService(pathRepo *repository.LearningPathRepository, userRepo *repository.UserRepository, ai *AIService) *LearningPathService {
	return &LearningPathService{PathRepo: pathRepo, UserRepo: userRepo, AI: ai}
}

type GeneratePathInput struct {
	Goal          string   `json:"goal" binding:"required"`
	Timeline      int      `json:"timeline" binding:"required"` // 天
	CurrentSkills []string `json:"currentSkills"`
	HoursPerWeek  int      `json:"hoursPerWeek"`
}

// aiPathPayload AI 返回的学习路径 JSON 结构
type aiPathPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Difficulty   string   `json:"difficulty"`
	TargetSkills []string `json:"targetSkills"`
	Modules      []struct {
		Title              string   `json:"title"`
		Description        string   `json:"description"`
		Week               int      `json:"week"`
		EstimatedHours     int      `json:"estimatedHours"`
		Skills             []string `json:"skills"`
		Prerequisites      []string `json:"prerequisites"`
		LearningObjectives []string `json:"learningObjectives"`
		Resources          []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			Type        string `json:"type"`
			Duration    int    `json:"duration"`
			Provider    string `json:"provider"`
			IsPaid      bool   `json:"isPaid"`
		} `json:"resources"`
		Assessments []struct {
			Type            string `json:"type"`
			Title           string `json:"title"`
			Description     string `json:"description"`
			PassingCriteria string `json:"passingCriteria"`
		} `json:"assessments"`
	} `json:"modules"`
}

// Generate 生成学习路径并激活，旧路径在同一事务中停用
func (s *LearningPathService) Generate(ctx context.Context, userID uint, input *GeneratePathInput) (*model.LearningPath, error) {
	if input.Timeline < 7 {
		return nil, fmt.Errorf("%w: 学习周期至少 7 天", util.ErrInvalidAction)
	}
	if input.HoursPerWeek <= 0 {
		input.HoursPerWeek = 10
	}

	path := s.buildPath(ctx, userID, input)
	path.RecalculateProgress()

	if err := s.PathRepo.DeactivateAllAndCreate(path); err != nil {
		return nil, err
	}

	logger.Log.Info("学习路径生成成功",
		zap.Uint("userID", userID),
		zap.Uint("pathID", path.ID),
		zap.String("goal", path.Goal),
		zap.Int("modules", len(path.Modules)))

	return path, nil
}

func (s *LearningPathService) buildPath(ctx context.Context, userID uint, input *GeneratePathInput) *model.LearningPath {
	weeks := (input.Timeline + 6) / 7

	path := &model.LearningPath{
		UserID: userID,
		Title:  fmt.Sprintf("%s 学习路径", input.Goal),
		Goal:   input.Goal,
		Timeline: model.Timeline{
			TotalDays:    input.Timeline,
			HoursPerWeek: input.HoursPerWeek,
			StartDate:    time.Now(),
		},
		Difficulty:    model.DifficultyBeginner,
		CurrentSkills: input.CurrentSkills,
		Category:      "other",
	}

	system := "你是一名课程规划专家。你只输出 JSON，不要输出任何解释性文字。"
	prompt := fmt.Sprintf(`请为学习目标「%s」规划一条 %d 周、每周 %d 小时的学习路径。学习者已掌握技能：%v。输出如下结构的 JSON：
{
  "title": "路径标题",
  "description": "路径简介",
  "difficulty": "beginner | intermediate | advanced",
  "targetSkills": ["目标技能"],
  "modules": [
    {
      "title": "模块标题",
      "description": "模块说明",
      "week": 1,
      "estimatedHours": %d,
      "skills": ["本模块技能"],
      "prerequisites": [],
      "learningObjectives": ["学习目标"],
      "resources": [
        {"title": "资源标题", "type": "video | article | book | course | practice | quiz | project", "duration": 60, "provider": "来源", "isPaid": false}
      ],
      "assessments": [{"type": "quiz", "title": "自测"}]
    }
  ]
}
要求：模块按周推进，每周一个模块，共 %d 个模块，资源要具体可执行。`,
		input.Goal, weeks, input.HoursPerWeek, input.CurrentSkills, input.HoursPerWeek, weeks)

	var payload aiPathPayload
	if err := s.AI.GenerateJSON(ctx, system, prompt, &payload); err != nil || len(payload.Modules) == 0 {
		logger.Log.Warn("AI 生成学习路径失败，使用本地模板",
			zap.String("goal", input.Goal),
			zap.Error(err))
		path.Description = fmt.Sprintf("通往 %s 的完整学习路径", input.Goal)
		path.TargetSkills = []string{input.Goal}
		path.Modules = fallbackPathModules(input.Goal, weeks, input.HoursPerWeek)
		return path
	}

	if payload.Title != "" {
		path.Title = payload.Title
	}
	path.Description = payload.Description
	if path.Description == "" {
		path.Description = fmt.Sprintf("通往 %s 的完整学习路径", input.Goal)
	}
	if d := model.Difficulty(payload.Difficulty); d == model.DifficultyBeginner ||
		d == model.DifficultyIntermediate || d == model.DifficultyAdvanced {
		path.Difficulty = d
	}
	path.TargetSkills = payload.TargetSkills

	modules := make([]model.PathModule, 0, len(payload.Modules))
	for i, m := range payload.Modules {
		week := m.Week
		if week <= 0 {
			week = i + 1
		}
		module := model.PathModule{
			ModuleID:           model.GenerateUUID(),
			Title:              m.Title,
			Description:        m.Description,
			Week:               week,
			Order:              i,
			EstimatedHours:     m.EstimatedHours,
			Skills:             m.Skills,
			Prerequisites:      m.Prerequisites,
			LearningObjectives: m.LearningObjectives,
		}
		for _, r := range m.Resources {
			rType := model.ResourceType(r.Type)
			switch rType {
			case model.ResourceVideo, model.ResourceArticle, model.ResourceBook,
				model.ResourceCourse, model.ResourcePractice, model.ResourceQuiz, model.ResourceProject:
			default:
				rType = model.ResourceArticle
			}
			module.Resources = append(module.Resources, model.PathResource{
				ResourceID:  model.GenerateUUID(),
				Title:       r.Title,
				Description: r.Description,
				URL:         r.URL,
				Type:        rType,
				Duration:    r.Duration,
				Provider:    r.Provider,
				IsPaid:      r.IsPaid,
			})
		}
		for _, a := range m.Assessments {
			module.Assessments = append(module.Assessments, model.ModuleAssessment{
				Type:            a.Type,
				Title:           a.Title,
				Description:     a.Description,
				PassingCriteria: a.PassingCriteria,
			})
		}
		modules = append(modules, module)
	}
	path.Modules = modules
	return path
}

// GetActivePath 用户当前激活的路径
func (s *LearningPathService) GetActivePath(userID uint) (*model.LearningPath, error) {
	path, err := s.PathRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPathNotFound
		}
		return nil, err
	}
	return path, nil
}

func (s *LearningPathService) GetPath(userID, pathID uint) (*model.LearningPath, error) {
	path, err := s.PathRepo.FindByID(pathID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPathNotFound
		}
		return nil, err
	}
	if path.UserID != userID {
		return nil, util.ErrPathNotFound
	}
	return path, nil
}

func (s *LearningPathService) ListPaths(userID uint, page, limit int) ([]model.LearningPath, int64, error) {
	return s.PathRepo.FindByUser(userID, page, limit)
}

const (
	ActionCompleteModule   = "complete_module"
	ActionUncompleteModule = "uncomplete_module"
	ActionCompleteResource = "complete_resource"
	ActionAddTime          = "add_time"
	ActionAddNote          = "add_note"
)

type UpdateProgressInput struct {
	PathID     uint   `json:"pathId" binding:"required"`
	ModuleID   string `json:"moduleId" binding:"required"`
	Action     string `json:"action" binding:"required"`
	ResourceID string `json:"resourceId"`
	TimeSpent  int    `json:"timeSpent"` // 分钟
	Note       string `json:"note"`
}

// UpdateProgress 进度上报主流程
// 动作应用后统一重算派生进度再整行保存；无实际变化时不落库但仍返回当前状态
func (s *LearningPathService) UpdateProgress(userID uint, input *UpdateProgressInput) (*model.LearningPath, error) {
	path, err := s.GetPath(userID, input.PathID)
	if err != nil {
		return nil, err
	}

	if path.FindModule(input.ModuleID) == nil {
		return nil, util.ErrModuleNotFound
	}

	updated := false
	switch input.Action {
	case ActionCompleteModule:
		if updated = path.CompleteModule(input.ModuleID); updated {
			// 模块完成计入用户已习得技能
			if err := s.UserRepo.IncrementSkillsLearned(userID); err != nil {
				logger.Log.Warn("更新用户技能计数失败", zap.Uint("userID", userID), zap.Error(err))
			}
		}
	case ActionUncompleteModule:
		updated = path.UncompleteModule(input.ModuleID)
	case ActionCompleteResource:
		if input.ResourceID != "" {
			updated = path.CompleteResource(input.ModuleID, input.ResourceID)
		}
	case ActionAddTime:
		if input.TimeSpent > util.MaxDailyMinutes {
			return nil, fmt.Errorf("%w: 单次上报时长不能超过 %d 分钟", util.ErrInvalidAction, util.MaxDailyMinutes)
		}
		if updated = path.AddTime(input.ModuleID, input.TimeSpent); updated {
			if err := s.UserRepo.AddStudyHours(userID, float64(input.TimeSpent)/60); err != nil {
				logger.Log.Warn("更新用户学习时长失败", zap.Uint("userID", userID), zap.Error(err))
			}
		}
	case ActionAddNote:
		// 空字符串同样整体替换，允许清空笔记
		updated = path.SetNote(input.ModuleID, input.Note)
	default:
		return nil, util.ErrInvalidAction
	}

	path.RecalculateProgress()

	if updated {
		if err := s.PathRepo.Update(path); err != nil {
			return nil, err
		}
		logger.Log.Info("学习进度已更新",
			zap.Uint("userID", userID),
			zap.Uint("pathID", path.ID),
			zap.String("moduleID", input.ModuleID),
			zap.String("action", input.Action))
	}

	return path, nil
}

func (s *LearningPathService) Delete(userID, pathID uint) error {
	if err := s.PathRepo.Delete(pathID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPathNotFound
		}
		return err
	}
	return nil
}
