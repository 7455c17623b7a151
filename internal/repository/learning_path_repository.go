package repository

import (
	"skillforge_backend/internal/model"

	"gorm.io/gorm"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

// DeactivateAllAndCreate 在同一事务中停用用户已有路径并创建新路径
// 保证任意时刻每个用户至多一条激活路径
func (r *LearningPathRepository) DeactivateAllAndCreate(path *model.LearningPath) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.LearningPath{}).
			Where("user_id = ? AND is_active = ?", path.UserID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		path.IsActive = true
		return tx.Create(path).Error
	})
}

func (r *LearningPathRepository) FindByID(id uint) (*model.LearningPath, error) {
	var path model.LearningPath
	err := r.DB.First(&path, id).Error
	return &path, err
}

// FindActiveByUser 查询用户当前激活的路径
func (r *LearningPathRepository) FindActiveByUser(userID uint) (*model.LearningPath, error) {
	var path model.LearningPath
	err := r.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&path).Error
	return &path, err
}

// FindByUser 查询用户的全部路径（含历史），按创建时间倒序
func (r *LearningPathRepository) FindByUser(userID uint, page, limit int) ([]model.LearningPath, int64, error) {
	var paths []model.LearningPath
	var total int64

	query := r.DB.Model(&model.LearningPath{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&paths).Error
	return paths, total, err
}

func (r *LearningPathRepository) Update(path *model.LearningPath) error {
	return r.DB.Save(path).Error
}

func (r *LearningPathRepository) Delete(id, userID uint) error {
	result := r.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.LearningPath{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
