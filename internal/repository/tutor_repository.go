package repository

import (
	"skillforge_backend/internal/model"

	"gorm.io/gorm"
)

type TutorRepository struct {
	DB *gorm.DB
}

func NewTutorRepository(db *gorm.DB) *TutorRepository {
	return &TutorRepository{DB: db}
}

func (r *TutorRepository) Create(conversation *model.TutorConversation) error {
	return r.DB.Create(conversation).Error
}

// FindByUser 问答历史，按时间倒序分页
func (r *TutorRepository) FindByUser(userID uint, page, limit int) ([]model.TutorConversation, int64, error) {
	var conversations []model.TutorConversation
	var total int64

	query := r.DB.Model(&model.TutorConversation{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&conversations).Error
	return conversations, total, err
}

// FindRecentByUser 取最近 n 条问答，用于对话上下文
func (r *TutorRepository) FindRecentByUser(userID uint, n int) ([]model.TutorConversation, error) {
	var conversations []model.TutorConversation
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(n).
		Find(&conversations).Error
	return conversations, err
}

func (r *TutorRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).
		Delete(&model.TutorConversation{}).Error
}
