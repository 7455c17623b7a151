package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/util"
	"skillforge_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PortfolioService struct {
	PortfolioRepo *repository.PortfolioRepository
	UserRepo      *repository.UserRepository
	ResumeRepo    *repository.ResumeRepository
	Storage       *StorageService
}

func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	userRepo *repository.UserRepository,
	resumeRepo *repository.ResumeRepository,
	storage *StorageService,
) *PortfolioService {
	return &PortfolioService{
		PortfolioRepo: portfolioRepo,
		UserRepo:      userRepo,
		ResumeRepo:    resumeRepo,
		Storage:       storage,
	}
}

type GeneratePortfolioInput struct {
	Template     string                   `json:"template"`
	PersonalInfo *model.PersonalInfo      `json:"personalInfo"`
	Sections     *model.PortfolioSections `json:"sections"`
	SocialLinks  []model.SocialLink       `json:"socialLinks"`
	Theme        *model.PortfolioTheme    `json:"theme"`
}

// Generate 创建或升级作品集（每用户一份，重复生成递增版本号）
// 未显式提供的内容从用户资料和最近一次简历分析预填
func (s *PortfolioService) Generate(userID uint, input *GeneratePortfolioInput) (*model.Portfolio, error) {
	existing, err := s.PortfolioRepo.FindByUser(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	portfolio := existing
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if isNew {
		portfolio = &model.Portfolio{
			UserID:   userID,
			Template: model.TemplateModern,
			Theme:    model.DefaultTheme(),
		}
		s.prefill(userID, portfolio)
	}

	if t := model.PortfolioTemplate(input.Template); t == model.TemplateModern ||
		t == model.TemplateClassic || t == model.TemplateMinimal ||
		t == model.TemplateCreative || t == model.TemplateProfessional {
		portfolio.Template = t
	}
	if input.PersonalInfo != nil {
		portfolio.PersonalInfo = *input.PersonalInfo
	}
	if input.Sections != nil {
		portfolio.Sections = *input.Sections
	}
	if input.SocialLinks != nil {
		portfolio.SocialLinks = input.SocialLinks
	}
	if input.Theme != nil {
		portfolio.Theme = *input.Theme
	}

	if isNew {
		if err := s.PortfolioRepo.Create(portfolio); err != nil {
			return nil, err
		}
	} else {
		portfolio.Version++
		if err := s.PortfolioRepo.Update(portfolio); err != nil {
			return nil, err
		}
	}

	logger.Log.Info("作品集已保存",
		zap.Uint("userID", userID),
		zap.Int("version", portfolio.Version),
		zap.Bool("created", isNew))

	return portfolio, nil
}

// prefill 用用户资料和简历分析结果预填作品集
func (s *PortfolioService) prefill(userID uint, portfolio *model.Portfolio) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return
	}

	portfolio.PersonalInfo = model.PersonalInfo{
		Name:  user.Name,
		Title: user.TargetRole,
		Email: user.Email,
	}

	skills := make([]model.PortfolioSkill, 0, len(user.CurrentSkills))
	for _, skill := range user.CurrentSkills {
		skills = append(skills, model.PortfolioSkill{Name: skill, Level: 5})
	}

	portfolio.Sections = model.PortfolioSections{
		About:  model.PortfolioSection{Enabled: true, Order: 0},
		Skills: model.PortfolioSection{Enabled: true, Order: 1},
		Experience: model.PortfolioSection{
			Enabled: true, Order: 2,
		},
		Education:      model.PortfolioSection{Enabled: true, Order: 3},
		Projects:       model.PortfolioSection{Enabled: true, Order: 4},
		Certifications: model.PortfolioSection{Enabled: false, Order: 5},
	}
	if len(skills) > 0 {
		portfolio.Sections.Skills.Categories = []model.PortfolioSkillCategory{
			{Name: "技术技能", Items: skills},
		}
	}

	// 简历分析里的优势写进关于我
	if resume, err := s.ResumeRepo.FindLatestByUser(userID); err == nil &&
		resume.Status == model.ResumeCompleted &&
		len(resume.Analysis.Insights.Strengths) > 0 {
		portfolio.Sections.About.Content = strings.Join(resume.Analysis.Insights.Strengths, "；")
	}
}

func (s *PortfolioService) Get(userID uint) (*model.Portfolio, error) {
	portfolio, err := s.PortfolioRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPortfolioNotFound
		}
		return nil, err
	}
	return portfolio, nil
}

type PublishInput struct {
	Slug string `json:"slug"`
}

// Publish 发布作品集并分配公开访问 slug
// slug 冲突时追加用户 ID 后缀保证唯一
func (s *PortfolioService) Publish(userID uint, input *PublishInput) (*model.Portfolio, error) {
	portfolio, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	slug := util.Slugify(input.Slug)
	if slug == "" {
		slug = util.Slugify(portfolio.PersonalInfo.Name)
	}
	if slug == "" {
		slug = fmt.Sprintf("portfolio-%d", userID)
	}

	taken, err := s.PortfolioRepo.SlugExists(slug, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		slug = fmt.Sprintf("%s-%d", slug, userID)
	}

	now := time.Now()
	portfolio.Slug = slug
	portfolio.IsPublished = true
	portfolio.PublishedAt = &now

	if err := s.PortfolioRepo.Update(portfolio); err != nil {
		return nil, err
	}

	logger.Log.Info("作品集已发布",
		zap.Uint("userID", userID),
		zap.String("slug", slug))

	return portfolio, nil
}

// Unpublish 下线公开页，保留内容
func (s *PortfolioService) Unpublish(userID uint) (*model.Portfolio, error) {
	portfolio, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	portfolio.IsPublished = false
	if err := s.PortfolioRepo.Update(portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

// GetPublic 公开访问入口，每次访问浏览量加一
func (s *PortfolioService) GetPublic(slug string) (*model.Portfolio, error) {
	portfolio, err := s.PortfolioRepo.FindPublishedBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPortfolioNotFound
		}
		return nil, err
	}

	if err := s.PortfolioRepo.IncrementViews(portfolio.ID); err != nil {
		logger.Log.Warn("浏览计数更新失败", zap.Uint("portfolioID", portfolio.ID), zap.Error(err))
	}
	portfolio.Views++

	return portfolio, nil
}

type MediaUploadResult struct {
	URL          string          `json:"url"`
	ThumbnailURL string          `json:"thumbnailUrl,omitempty"`
	MimeType     string          `json:"mimeType"`
	Video        *util.VideoInfo `json:"video,omitempty"`
}

// UploadMedia 作品集媒体上传，支持图片和视频
// 视频会探测元数据并截取首秒生成封面图
func (s *PortfolioService) UploadMedia(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (*MediaUploadResult, error) {
	if fileHeader.Size > util.MaxMediaSize {
		return nil, fmt.Errorf("%w: 文件不能超过 100MB", util.ErrInvalidAction)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{"image/", "video/"})
	if err != nil {
		return nil, fmt.Errorf("%w: 仅支持图片或视频", util.ErrInvalidAction)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	ext := filepath.Ext(fileHeader.Filename)
	storedName := fmt.Sprintf("portfolio/%d/%s%s", userID, model.GenerateUUID(), ext)

	url, err := s.Storage.Upload(ctx, storedName, file, fileHeader.Size, mimeType)
	if err != nil {
		return nil, err
	}

	result := &MediaUploadResult{URL: url, MimeType: mimeType}

	if util.IsVideo(mimeType) {
		if err := s.processVideo(ctx, storedName, fileHeader, result); err != nil {
			// 视频处理失败不影响上传本身
			logger.Log.Warn("视频处理失败", zap.String("file", storedName), zap.Error(err))
		}
	}

	logger.Log.Info("作品集媒体上传成功",
		zap.Uint("userID", userID),
		zap.String("mimeType", mimeType),
		zap.Int64("size", fileHeader.Size))

	return result, nil
}

// processVideo 探测视频信息并生成封面缩略图
func (s *PortfolioService) processVideo(ctx context.Context, storedName string, fileHeader *multipart.FileHeader, result *MediaUploadResult) error {
	videoPath := s.Storage.LocalPath(storedName)
	cleanup := func() {}

	if videoPath == "" {
		// 远端存储：ffmpeg 需要本地文件，先写临时文件
		src, err := fileHeader.Open()
		if err != nil {
			return err
		}
		defer src.Close()

		tmp, err := os.CreateTemp("", "media-*"+filepath.Ext(storedName))
		if err != nil {
			return err
		}
		if _, err := tmp.ReadFrom(src); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return err
		}
		tmp.Close()
		videoPath = tmp.Name()
		cleanup = func() { os.Remove(tmp.Name()) }
	}
	defer cleanup()

	info, err := util.ProbeVideo(videoPath)
	if err != nil {
		return err
	}
	result.Video = info

	thumbLocal := videoPath + ".jpg"
	if err := util.GenerateVideoThumbnail(videoPath, thumbLocal, "00:00:01"); err != nil {
		return err
	}
	defer os.Remove(thumbLocal)

	thumbName := strings.TrimSuffix(storedName, filepath.Ext(storedName)) + "_thumb.jpg"
	thumbURL, err := s.Storage.UploadFile(ctx, thumbName, thumbLocal, "image/jpeg")
	if err != nil {
		return err
	}
	result.ThumbnailURL = thumbURL
	return nil
}

type PortfolioAnalytics struct {
	Views       int        `json:"views"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Version     int        `json:"version"`
	Sections    int        `json:"sections"`
	Items       int        `json:"items"`
}

// Analytics 作品集概览数据
func (s *PortfolioService) Analytics(userID uint) (*PortfolioAnalytics, error) {
	portfolio, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	sections := []model.PortfolioSection{
		portfolio.Sections.About,
		portfolio.Sections.Skills,
		portfolio.Sections.Experience,
		portfolio.Sections.Education,
		portfolio.Sections.Projects,
		portfolio.Sections.Certifications,
	}
	enabled := 0
	items := 0
	for _, section := range sections {
		if section.Enabled {
			enabled++
		}
		items += len(section.Items)
	}

	return &PortfolioAnalytics{
		Views:       portfolio.Views,
		IsPublished: portfolio.IsPublished,
		PublishedAt: portfolio.PublishedAt,
		Version:     portfolio.Version,
		Sections:    enabled,
		Items:       items,
	}, nil
}

func (s *PortfolioService) Delete(userID uint) error {
	if err := s.PortfolioRepo.Delete(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPortfolioNotFound
		}
		return err
	}
	return nil
}
