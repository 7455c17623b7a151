package service

import (
	"errors"
	"skillforge_backend/internal/config"
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/util"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Config   *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{UserRepo: userRepo, Config: cfg}
}

type RegisterInput struct {
	Name          string   `json:"name" binding:"required,min=2,max=50"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=6"`
	Domain        string   `json:"domain"`
	SkillLevel    string   `json:"skillLevel"`
	CurrentSkills []string `json:"currentSkills"`
	TargetRole    string   `json:"targetRole"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Register(input *RegisterInput) (*AuthResult, error) {
	if _, err := s.UserRepo.FindByEmail(input.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	skillLevel := model.SkillLevel(input.SkillLevel)
	switch skillLevel {
	case model.SkillBeginner, model.SkillIntermediate, model.SkillAdvanced:
	default:
		skillLevel = model.SkillBeginner
	}

	user := &model.User{
		Name:          input.Name,
		Email:         input.Email,
		Password:      string(hashed),
		Domain:        input.Domain,
		SkillLevel:    skillLevel,
		CurrentSkills: input.CurrentSkills,
		TargetRole:    input.TargetRole,
		Progress:      model.UserProgress{LastActivity: time.Now()},
		LastLogin:     time.Now(),
		LastSeen:      time.Now(),
	}

	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(input *LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Disabled {
		return nil, util.ErrPermissionDenied
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	user.LastLogin = time.Now()
	user.LastSeen = time.Now()
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name          string   `json:"name"`
	Avatar        string   `json:"avatar"`
	Domain        string   `json:"domain"`
	SkillLevel    string   `json:"skillLevel"`
	CurrentSkills []string `json:"currentSkills"`
	TargetRole    string   `json:"targetRole"`
}

func (s *AuthService) UpdateProfile(userID uint, input *UpdateProfileInput) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}
	if input.Domain != "" {
		user.Domain = input.Domain
	}
	if input.TargetRole != "" {
		user.TargetRole = input.TargetRole
	}
	if input.CurrentSkills != nil {
		user.CurrentSkills = input.CurrentSkills
	}
	if level := model.SkillLevel(input.SkillLevel); level == model.SkillBeginner ||
		level == model.SkillIntermediate || level == model.SkillAdvanced {
		user.SkillLevel = level
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
