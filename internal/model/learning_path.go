package model

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

type ResourceType string

const (
	ResourceVideo    ResourceType = "video"
	ResourceArticle  ResourceType = "article"
	ResourceBook     ResourceType = "book"
	ResourceCourse   ResourceType = "course"
	ResourcePractice ResourceType = "practice"
	ResourceQuiz     ResourceType = "quiz"
	ResourceProject  ResourceType = "project"
)

// PathResource 模块内的单个学习资源，只计数，不做深度建模
type PathResource struct {
	ResourceID  string       `json:"resourceId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Type        ResourceType `json:"type"`
	Duration    int          `json:"duration,omitempty"` // 分钟
	Difficulty  Difficulty   `json:"difficulty,omitempty"`
	Provider    string       `json:"provider,omitempty"`
	IsPaid      bool         `json:"isPaid"`
	Tags        []string     `json:"tags,omitempty"`
}

type ModuleAssessment struct {
	Type            string `json:"type"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	PassingCriteria string `json:"passingCriteria,omitempty"`
}

// ModuleProgress 百分比永远由 resourcesCompleted/totalResources 重算得出，不单独维护
type ModuleProgress struct {
	ResourcesCompleted int `json:"resourcesCompleted"`
	TotalResources     int `json:"totalResources"`
	Percentage         int `json:"percentage"`
}

// PathModule 学习路径中的一个模块
type PathModule struct {
	ModuleID           string             `json:"moduleId"`
	Title              string             `json:"title"`
	Description        string             `json:"description,omitempty"`
	Week               int                `json:"week"`
	Order              int                `json:"order"`
	EstimatedHours     int                `json:"estimatedHours"`
	Skills             []string           `json:"skills,omitempty"`
	Prerequisites      []string           `json:"prerequisites,omitempty"`
	LearningObjectives []string           `json:"learningObjectives,omitempty"`
	Resources          []PathResource     `json:"resources"`
	Assessments        []ModuleAssessment `json:"assessments,omitempty"`
	Completed          bool               `json:"completed"`
	CompletedAt        *time.Time         `json:"completedAt,omitempty"`
	Progress           ModuleProgress     `json:"progress"`
	Notes              string             `json:"notes,omitempty"`
	TimeSpent          int                `json:"timeSpent"` // 分钟
}

type Timeline struct {
	TotalDays       int        `json:"totalDays"`
	HoursPerWeek    int        `json:"hoursPerWeek"`
	StartDate       time.Time  `json:"startDate"`
	ExpectedEndDate *time.Time `json:"expectedEndDate,omitempty"`
}

// PathProgress 路径级汇总，全部由模块状态推导
// EstimatedHoursRemaining 只在完成度处于 (0,100) 区间时有值：
// 0% 或 100% 时线性外推没有意义，显式置空而不是置零
type PathProgress struct {
	CurrentModule           int      `json:"currentModule"`
	ModulesCompleted        int      `json:"modulesCompleted"`
	TotalModules            int      `json:"totalModules"`
	OverallPercentage       int      `json:"overallPercentage"`
	HoursSpent              float64  `json:"hoursSpent"`
	EstimatedHoursRemaining *float64 `json:"estimatedHoursRemaining,omitempty"`
}

// swagger:model LearningPath
type LearningPath struct {
	BaseModel
	UserID        uint                            `gorm:"index;type:bigint unsigned" json:"userId"`
	Title         string                          `gorm:"size:255;not null" json:"title"`
	Description   string                          `gorm:"type:text" json:"description"`
	Goal          string                          `gorm:"size:255;not null" json:"goal"`
	Timeline      Timeline                        `gorm:"serializer:json" json:"timeline"`
	Difficulty    Difficulty                      `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"difficulty"`
	CurrentSkills datatypes.JSONSlice[string]     `json:"currentSkills"`
	TargetSkills  datatypes.JSONSlice[string]     `json:"targetSkills"`
	Modules       datatypes.JSONSlice[PathModule] `json:"modules"`
	Progress      PathProgress                    `gorm:"serializer:json" json:"progress"`
	Category      string                          `gorm:"size:50;default:'other'" json:"category"`
	IsActive      bool                            `gorm:"index;default:true" json:"isActive"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

// FindModule 按 moduleId 查找模块，返回可修改的指针
func (p *LearningPath) FindModule(moduleID string) *PathModule {
	for i := range p.Modules {
		if p.Modules[i].ModuleID == moduleID {
			return &p.Modules[i]
		}
	}
	return nil
}

// CompleteModule 标记模块完成，已完成时静默幂等（保留原 completedAt）
func (p *LearningPath) CompleteModule(moduleID string) bool {
	module := p.FindModule(moduleID)
	if module == nil || module.Completed {
		return false
	}
	now := time.Now()
	module.Completed = true
	module.CompletedAt = &now
	return true
}

// UncompleteModule CompleteModule 的逆操作
func (p *LearningPath) UncompleteModule(moduleID string) bool {
	module := p.FindModule(moduleID)
	if module == nil || !module.Completed {
		return false
	}
	module.Completed = false
	module.CompletedAt = nil
	return true
}

// CompleteResource 资源完成数加一，封顶为资源总数，多余调用不会越界
func (p *LearningPath) CompleteResource(moduleID, resourceID string) bool {
	module := p.FindModule(moduleID)
	if module == nil {
		return false
	}
	if module.Progress.ResourcesCompleted >= len(module.Resources) {
		return false
	}
	module.Progress.ResourcesCompleted++
	return true
}

// AddTime 给模块累加学习时长（分钟），上限由接入层校验
func (p *LearningPath) AddTime(moduleID string, minutes int) bool {
	module := p.FindModule(moduleID)
	if module == nil || minutes <= 0 {
		return false
	}
	module.TimeSpent += minutes
	return true
}

// SetNote 整体替换模块笔记，不是追加
func (p *LearningPath) SetNote(moduleID, note string) bool {
	module := p.FindModule(moduleID)
	if module == nil {
		return false
	}
	module.Notes = note
	return true
}

// RecalculateProgress 重算全部派生进度，每次持久化前调用
// expectedEndDate 只在缺失时按 startDate+totalDays 计算一次，之后保持不变，
// 即使进度落后也不调整最初承诺的结束日期
func (p *LearningPath) RecalculateProgress() {
	if p.Timeline.ExpectedEndDate == nil && !p.Timeline.StartDate.IsZero() {
		end := p.Timeline.StartDate.AddDate(0, 0, p.Timeline.TotalDays)
		p.Timeline.ExpectedEndDate = &end
	}

	completed := 0
	totalMinutes := 0
	for i := range p.Modules {
		module := &p.Modules[i]
		module.Progress.TotalResources = len(module.Resources)
		if module.Progress.TotalResources > 0 {
			module.Progress.Percentage = int(math.Round(
				float64(module.Progress.ResourcesCompleted) / float64(module.Progress.TotalResources) * 100))
		} else {
			module.Progress.Percentage = 0
		}
		if module.Completed {
			completed++
		}
		totalMinutes += module.TimeSpent
	}

	p.Progress.ModulesCompleted = completed
	p.Progress.TotalModules = len(p.Modules)
	p.Progress.HoursSpent = math.Round(float64(totalMinutes)/60*100) / 100

	if len(p.Modules) == 0 {
		p.Progress.OverallPercentage = 0
		p.Progress.CurrentModule = 0
		p.Progress.EstimatedHoursRemaining = nil
		return
	}

	p.Progress.OverallPercentage = int(math.Round(float64(completed) / float64(len(p.Modules)) * 100))

	// 当前模块指向第一个未完成的模块，全部完成时停在最后一个
	current := len(p.Modules) - 1
	for i := range p.Modules {
		if !p.Modules[i].Completed {
			current = i
			break
		}
	}
	p.Progress.CurrentModule = current

	if p.Progress.OverallPercentage > 0 && p.Progress.OverallPercentage < 100 {
		perPercent := p.Progress.HoursSpent / float64(p.Progress.OverallPercentage)
		remaining := math.Round(perPercent*float64(100-p.Progress.OverallPercentage)*100) / 100
		p.Progress.EstimatedHoursRemaining = &remaining
	} else {
		p.Progress.EstimatedHoursRemaining = nil
	}
}
