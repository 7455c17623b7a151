package model

import (
	"time"

	"gorm.io/datatypes"
)

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// UserProgress 用户级学习累计数据，在提交测验/更新路径进度时递增
type UserProgress struct {
	QuizzesCompleted  int       `json:"quizzesCompleted"`
	SkillsLearned     int       `json:"skillsLearned"`
	TotalHoursStudied float64   `json:"totalHoursStudied"`
	LastActivity      time.Time `json:"lastActivity"`
}

// swagger:model User
type User struct {
	BaseModel
	Name          string                       `gorm:"size:100;not null" json:"name"`
	Email         string                       `gorm:"size:100;unique;not null" json:"email"`
	Password      string                       `gorm:"size:100;not null" json:"-"`
	Avatar        string                       `gorm:"size:255" json:"avatar"`
	Domain        string                       `gorm:"size:100" json:"domain"` // 目标领域，如 "Web Development"
	SkillLevel    SkillLevel                   `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"skillLevel"`
	CurrentSkills datatypes.JSONSlice[string]  `json:"currentSkills"`
	TargetRole    string                       `gorm:"size:100" json:"targetRole"`
	Progress      UserProgress                 `gorm:"serializer:json" json:"progress"`
	Disabled      bool                         `gorm:"default:false" json:"disabled"`
	LastLogin     time.Time                    `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen      time.Time                    `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
