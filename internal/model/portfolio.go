package model

import (
	"time"

	"gorm.io/datatypes"
)

type PortfolioTemplate string

const (
	TemplateModern       PortfolioTemplate = "modern"
	TemplateClassic      PortfolioTemplate = "classic"
	TemplateMinimal      PortfolioTemplate = "minimal"
	TemplateCreative     PortfolioTemplate = "creative"
	TemplateProfessional PortfolioTemplate = "professional"
)

type PersonalInfo struct {
	Name         string `json:"name"`
	Title        string `json:"title,omitempty"`
	Bio          string `json:"bio,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`
	Website      string `json:"website,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	ResumeURL    string `json:"resumeUrl,omitempty"`
}

type PortfolioSkill struct {
	Name              string `json:"name"`
	Level             int    `json:"level"` // 1-10
	YearsOfExperience int    `json:"yearsOfExperience,omitempty"`
	Certified         bool   `json:"certified"`
}

type PortfolioSkillCategory struct {
	Name  string           `json:"name"`
	Items []PortfolioSkill `json:"items"`
}

type PortfolioItem struct {
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle,omitempty"`
	Description  string   `json:"description,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	URL          string   `json:"url,omitempty"`
	MediaURL     string   `json:"mediaUrl,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// PortfolioSection 可开关、可排序的作品集区块
type PortfolioSection struct {
	Enabled    bool                     `json:"enabled"`
	Order      int                      `json:"order"`
	Content    string                   `json:"content,omitempty"`
	Categories []PortfolioSkillCategory `json:"categories,omitempty"`
	Items      []PortfolioItem          `json:"items,omitempty"`
}

type PortfolioSections struct {
	About          PortfolioSection `json:"about"`
	Skills         PortfolioSection `json:"skills"`
	Experience     PortfolioSection `json:"experience"`
	Education      PortfolioSection `json:"education"`
	Projects       PortfolioSection `json:"projects"`
	Certifications PortfolioSection `json:"certifications"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type PortfolioTheme struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	AccentColor     string `json:"accentColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	FontFamily      string `json:"fontFamily"`
	FontSize        string `json:"fontSize"`
	Layout          string `json:"layout"`
}

// swagger:model Portfolio
// 每个用户最多一份作品集，重复生成按升级版本处理
type Portfolio struct {
	BaseModel
	UserID       uint                             `gorm:"uniqueIndex;type:bigint unsigned" json:"userId"`
	Slug         string                           `gorm:"size:100;uniqueIndex" json:"slug"`
	Template     PortfolioTemplate                `gorm:"size:20;default:'modern'" json:"template"`
	PersonalInfo PersonalInfo                     `gorm:"serializer:json" json:"personalInfo"`
	Sections     PortfolioSections                `gorm:"serializer:json" json:"sections"`
	SocialLinks  datatypes.JSONSlice[SocialLink]  `json:"socialLinks"`
	Theme        PortfolioTheme                   `gorm:"serializer:json" json:"theme"`
	IsPublished  bool                             `gorm:"default:false" json:"isPublished"`
	PublishedAt  *time.Time                       `json:"publishedAt,omitempty"`
	Views        int                              `gorm:"default:0" json:"views"`
	Version      int                              `gorm:"default:1" json:"version"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}

// DefaultTheme 与前端默认样式保持一致
func DefaultTheme() PortfolioTheme {
	return PortfolioTheme{
		PrimaryColor:    "#3B82F6",
		SecondaryColor:  "#1E40AF",
		AccentColor:     "#F59E0B",
		BackgroundColor: "#FFFFFF",
		TextColor:       "#1F2937",
		FontFamily:      "Inter",
		FontSize:        "medium",
		Layout:          "single-column",
	}
}
