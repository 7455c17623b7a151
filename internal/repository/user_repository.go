package repository

import (
	"skillforge_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// TouchActivity 刷新用户最近活跃时间，失败不影响主流程
func (r *UserRepository) TouchActivity(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("progress", gorm.Expr("JSON_SET(progress, '$.lastActivity', ?)", time.Now().Format(time.RFC3339))).
		Error
}

// IncrementQuizzesCompleted 累加用户完成的测验数
func (r *UserRepository) IncrementQuizzesCompleted(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("progress", gorm.Expr(
			"JSON_SET(progress, '$.quizzesCompleted', COALESCE(JSON_EXTRACT(progress, '$.quizzesCompleted'), 0) + 1)",
		)).
		Error
}

// IncrementSkillsLearned 模块完成时累加已习得技能数
func (r *UserRepository) IncrementSkillsLearned(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("progress", gorm.Expr(
			"JSON_SET(progress, '$.skillsLearned', COALESCE(JSON_EXTRACT(progress, '$.skillsLearned'), 0) + 1)",
		)).
		Error
}

// AddStudyHours 累加用户学习时长（小时）
func (r *UserRepository) AddStudyHours(userID uint, hours float64) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("progress", gorm.Expr(
			"JSON_SET(progress, '$.totalHoursStudied', COALESCE(JSON_EXTRACT(progress, '$.totalHoursStudied'), 0) + ?)", hours,
		)).
		Error
}
