package model

import "gorm.io/datatypes"

// TutorConversation AI 导师问答记录，按用户归档供历史查询
type TutorConversation struct {
	BaseModel
	UserID        uint                        `gorm:"index;type:bigint unsigned" json:"userId"`
	Subject       string                      `gorm:"size:100;default:'general'" json:"subject"`
	Question      string                      `gorm:"type:text;not null" json:"question"`
	Answer        string                      `gorm:"type:longtext" json:"answer"`
	KeyPoints     datatypes.JSONSlice[string] `json:"keyPoints"`
	Suggestions   datatypes.JSONSlice[string] `json:"suggestions"`
	RelatedTopics datatypes.JSONSlice[string] `json:"relatedTopics"`
	Difficulty    string                      `gorm:"size:20;default:'intermediate'" json:"difficulty"`
	Fallback      bool                        `gorm:"default:false" json:"fallback"` // AI 不可用时的兜底回答
}

func (TutorConversation) TableName() string {
	return "tutor_conversations"
}
