package repository

import (
	"skillforge_backend/internal/model"

	"gorm.io/gorm"
)

type PortfolioRepository struct {
	DB *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{DB: db}
}

func (r *PortfolioRepository) Create(portfolio *model.Portfolio) error {
	return r.DB.Create(portfolio).Error
}

// FindByUser 每个用户只有一份作品集
func (r *PortfolioRepository) FindByUser(userID uint) (*model.Portfolio, error) {
	var portfolio model.Portfolio
	err := r.DB.Where("user_id = ?", userID).First(&portfolio).Error
	return &portfolio, err
}

// FindPublishedBySlug 公开访问入口，仅返回已发布的作品集
func (r *PortfolioRepository) FindPublishedBySlug(slug string) (*model.Portfolio, error) {
	var portfolio model.Portfolio
	err := r.DB.Where("slug = ? AND is_published = ?", slug, true).
		First(&portfolio).Error
	return &portfolio, err
}

func (r *PortfolioRepository) Update(portfolio *model.Portfolio) error {
	return r.DB.Save(portfolio).Error
}

// SlugExists 检查 slug 是否已被其他用户占用
func (r *PortfolioRepository) SlugExists(slug string, excludeUserID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Portfolio{}).
		Where("slug = ? AND user_id <> ?", slug, excludeUserID).
		Count(&count).Error
	return count > 0, err
}

// IncrementViews 公开页浏览计数，不更新 updated_at
func (r *PortfolioRepository) IncrementViews(id uint) error {
	return r.DB.Model(&model.Portfolio{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).
		Error
}

func (r *PortfolioRepository) Delete(userID uint) error {
	result := r.DB.Where("user_id = ?", userID).Delete(&model.Portfolio{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
