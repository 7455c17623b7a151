package repository

import (
	"skillforge_backend/internal/model"

	"gorm.io/gorm"
)

type ResumeRepository struct {
	DB *gorm.DB
}

func NewResumeRepository(db *gorm.DB) *ResumeRepository {
	return &ResumeRepository{DB: db}
}

func (r *ResumeRepository) Create(resume *model.Resume) error {
	return r.DB.Create(resume).Error
}

func (r *ResumeRepository) FindByID(id uint) (*model.Resume, error) {
	var resume model.Resume
	err := r.DB.Where("is_active = ?", true).First(&resume, id).Error
	return &resume, err
}

// FindLatestByUser 查询用户最近一次上传的简历
func (r *ResumeRepository) FindLatestByUser(userID uint) (*model.Resume, error) {
	var resume model.Resume
	err := r.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&resume).Error
	return &resume, err
}

func (r *ResumeRepository) FindByUser(userID uint, page, limit int) ([]model.Resume, int64, error) {
	var resumes []model.Resume
	var total int64

	query := r.DB.Model(&model.Resume{}).
		Where("user_id = ? AND is_active = ?", userID, true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&resumes).Error
	return resumes, total, err
}

func (r *ResumeRepository) Update(resume *model.Resume) error {
	return r.DB.Save(resume).Error
}

func (r *ResumeRepository) Deactivate(id, userID uint) error {
	result := r.DB.Model(&model.Resume{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
