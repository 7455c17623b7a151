package util

import (
	"errors"

	"skillforge_backend/internal/model"
)

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrQuizNotFound       = errors.New("quiz not found")

	// 提交上限的校验逻辑在 Quiz 聚合上，错误值随校验走，这里复用同一值
	ErrAttemptLimitExceeded = model.ErrAttemptLimitExceeded
	ErrTimeLimitExceeded    = model.ErrTimeLimitExceeded
	ErrPathNotFound         = errors.New("learning path not found")
	ErrModuleNotFound       = errors.New("module not found")
	ErrInvalidAction        = errors.New("invalid progress action")
	ErrResumeNotFound       = errors.New("resume not found")
	ErrUnreadablePDF        = errors.New("could not extract meaningful text from PDF")
	ErrPortfolioNotFound    = errors.New("portfolio not found")
	ErrGenerationFailed     = errors.New("AI generation failed and no fallback available")
)
