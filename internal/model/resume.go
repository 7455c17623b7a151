package model

import "gorm.io/datatypes"

type ResumeStatus string

const (
	ResumeProcessing ResumeStatus = "processing"
	ResumeCompleted  ResumeStatus = "completed"
	ResumeFailed     ResumeStatus = "failed"
)

// ResumeSections 从简历正文中切分出的章节文本
type ResumeSections struct {
	Contact        string `json:"contact,omitempty"`
	Summary        string `json:"summary,omitempty"`
	Experience     string `json:"experience,omitempty"`
	Education      string `json:"education,omitempty"`
	Skills         string `json:"skills,omitempty"`
	Projects       string `json:"projects,omitempty"`
	Certifications string `json:"certifications,omitempty"`
}

type SkillAnalysis struct {
	Identified []string        `json:"identified"`
	Missing    []string        `json:"missing"`
	Categories []SkillCategory `json:"categories"`
}

type SkillCategory struct {
	Name        string   `json:"name"`
	Skills      []string `json:"skills"`
	Proficiency string   `json:"proficiency,omitempty"`
}

type ExperienceAnalysis struct {
	TotalYears int      `json:"totalYears"`
	Roles      []string `json:"roles"`
	Companies  []string `json:"companies"`
	Industries []string `json:"industries"`
}

type EducationAnalysis struct {
	Degrees        []string `json:"degrees"`
	Institutions   []string `json:"institutions"`
	Certifications []string `json:"certifications"`
}

type JobSuggestion struct {
	Title           string   `json:"title"`
	MatchPercentage int      `json:"matchPercentage"`
	Requirements    []string `json:"requirements"`
	MissingSkills   []string `json:"missingSkills"`
}

type ResumeScore struct {
	Overall  int            `json:"overall"`
	Sections map[string]int `json:"sections"`
}

type ResumeInsights struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	MarketTrends []string `json:"marketTrends"`
}

// ResumeAnalysis AI 分析结果，AI 不可用时由本地兜底生成器填充
type ResumeAnalysis struct {
	Skills          SkillAnalysis      `json:"skills"`
	Experience      ExperienceAnalysis `json:"experience"`
	Education       EducationAnalysis  `json:"education"`
	JobSuggestions  []JobSuggestion    `json:"jobSuggestions"`
	Recommendations []string           `json:"recommendations"`
	Score           ResumeScore        `json:"score"`
	Insights        ResumeInsights     `json:"insights"`
}

// swagger:model Resume
type Resume struct {
	BaseModel
	UserID           uint                               `gorm:"index;type:bigint unsigned" json:"userId"`
	OriginalFileName string                             `gorm:"size:255;not null" json:"originalFileName"`
	StoredFileName   string                             `gorm:"size:255" json:"-"`
	FileURL          string                             `gorm:"size:512" json:"-"`
	FileSize         int64                              `json:"fileSize"`
	ExtractedText    string                             `gorm:"type:longtext" json:"-"`
	ParsedSections   ResumeSections                     `gorm:"serializer:json" json:"parsedSections"`
	Analysis         ResumeAnalysis                     `gorm:"serializer:json" json:"analysis"`
	Status           ResumeStatus                       `gorm:"type:enum('processing','completed','failed');default:'processing'" json:"status"`
	TargetRole       string                             `gorm:"size:100" json:"targetRole,omitempty"`
	TextLength       int                                `json:"textLength"`
	SectionsFound    datatypes.JSONSlice[string]        `json:"sectionsFound"`
	IsActive         bool                               `gorm:"default:true" json:"isActive"`
}

func (Resume) TableName() string {
	return "resumes"
}
