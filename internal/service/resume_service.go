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

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ResumeService struct {
	ResumeRepo *repository.ResumeRepository
	Storage    *StorageService
	AI         *AIService
}

func NewResumeService(resumeRepo *repository.ResumeRepository, storage *StorageService, ai *AIService) *ResumeService {
	return &ResumeService{ResumeRepo: resumeRepo, Storage: storage, AI: ai}
}

// Upload 简历上传主流程：落盘 → 提取文本 → 切分章节 → AI 分析（带兜底）
// 文本不足 50 字符视为不可读 PDF，上传记录标记为 failed 后返回业务错误
func (s *ResumeService) Upload(ctx context.Context, userID uint, fileHeader *multipart.FileHeader, targetRole string) (*model.Resume, error) {
	if fileHeader.Size > util.MaxResumeSize {
		return nil, fmt.Errorf("%w: 文件不能超过 10MB", util.ErrInvalidAction)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{"application/pdf"})
	if err != nil {
		return nil, fmt.Errorf("%w: 仅支持 PDF 格式", util.ErrInvalidAction)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	storedName := fmt.Sprintf("resumes/%d/%s.pdf", userID, model.GenerateUUID())
	fileURL, err := s.Storage.Upload(ctx, storedName, file, fileHeader.Size, mimeType)
	if err != nil {
		return nil, err
	}

	resume := &model.Resume{
		UserID:           userID,
		OriginalFileName: fileHeader.Filename,
		StoredFileName:   storedName,
		FileURL:          fileURL,
		FileSize:         fileHeader.Size,
		Status:           model.ResumeProcessing,
		TargetRole:       targetRole,
		IsActive:         true,
	}
	if err := s.ResumeRepo.Create(resume); err != nil {
		return nil, err
	}

	text, err := s.extractText(ctx, fileHeader, storedName)
	cleaned := util.CleanExtractedText(text)
	if err != nil || len(cleaned) < util.MinResumeText {
		resume.Status = model.ResumeFailed
		if uerr := s.ResumeRepo.Update(resume); uerr != nil {
			logger.Log.Error("简历状态更新失败", zap.Uint("resumeID", resume.ID), zap.Error(uerr))
		}
		logger.Log.Warn("简历文本提取失败",
			zap.Uint("userID", userID),
			zap.Int("textLength", len(cleaned)),
			zap.Error(err))
		return nil, util.ErrUnreadablePDF
	}

	resume.ExtractedText = text
	resume.TextLength = len(cleaned)
	resume.ParsedSections = ParseResumeSections(text)
	resume.SectionsFound = sectionsFound(&resume.ParsedSections)
	resume.Analysis = s.analyze(ctx, cleaned, targetRole)
	resume.Status = model.ResumeCompleted

	if err := s.ResumeRepo.Update(resume); err != nil {
		return nil, err
	}

	logger.Log.Info("简历分析完成",
		zap.Uint("userID", userID),
		zap.Uint("resumeID", resume.ID),
		zap.Int("textLength", resume.TextLength),
		zap.Int("score", resume.Analysis.Score.Overall))

	return resume, nil
}

// extractText 本地存储直接读路径；远端存储先取回临时文件
func (s *ResumeService) extractText(ctx context.Context, fileHeader *multipart.FileHeader, storedName string) (string, error) {
	if localPath := s.Storage.LocalPath(storedName); localPath != "" {
		return util.ExtractPDFText(localPath)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "resume-*.pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.ReadFrom(src); err != nil {
		return "", err
	}
	return util.ExtractPDFText(tmp.Name())
}

// ParseResumeSections 按常见标题关键词把简历文本切分为章节
// 出现任何章节标题之前的内容归入联系方式
func ParseResumeSections(text string) model.ResumeSections {
	var sections model.ResumeSections
	target := map[string]*string{
		"contact":        &sections.Contact,
		"summary":        &sections.Summary,
		"experience":     &sections.Experience,
		"education":      &sections.Education,
		"skills":         &sections.Skills,
		"projects":       &sections.Projects,
		"certifications": &sections.Certifications,
	}

	current := ""
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))

		switch {
		case strings.Contains(lower, "experience") || strings.Contains(lower, "work history"):
			current = "experience"
			continue
		case strings.Contains(lower, "education") || strings.Contains(lower, "academic"):
			current = "education"
			continue
		case strings.Contains(lower, "skill") || strings.Contains(lower, "technical"):
			current = "skills"
			continue
		case strings.Contains(lower, "project"):
			current = "projects"
			continue
		case strings.Contains(lower, "certification") || strings.Contains(lower, "certificate"):
			current = "certifications"
			continue
		case strings.Contains(lower, "summary") || strings.Contains(lower, "objective"):
			current = "summary"
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if current != "" {
			*target[current] += line + "\n"
		} else {
			sections.Contact += line + "\n"
		}
	}

	for _, v := range target {
		*v = strings.TrimSpace(*v)
	}
	return sections
}

func sectionsFound(sections *model.ResumeSections) []string {
	found := []string{}
	for _, entry := range []struct {
		name    string
		content string
	}{
		{"contact", sections.Contact},
		{"summary", sections.Summary},
		{"experience", sections.Experience},
		{"education", sections.Education},
		{"skills", sections.Skills},
		{"projects", sections.Projects},
		{"certifications", sections.Certifications},
	} {
		if entry.content != "" {
			found = append(found, entry.name)
		}
	}
	return found
}

// analyze AI 深度分析，失败时退回本地关键词分析
func (s *ResumeService) analyze(ctx context.Context, text, targetRole string) model.ResumeAnalysis {
	if len(text) > 8000 {
		// 控制提示词长度，超长简历截断
		text = text[:8000]
	}

	role := targetRole
	if role == "" {
		role = "软件工程师"
	}

	system := "你是一名资深技术招聘顾问。你只输出 JSON，不要输出任何解释性文字。"
	prompt := fmt.Sprintf(`请分析以下简历（目标岗位：%s），输出如下结构的 JSON：
{
  "skills": {"identified": ["已具备技能"], "missing": ["欠缺技能"], "categories": [{"name": "分类", "skills": ["技能"], "proficiency": "熟练度"}]},
  "experience": {"totalYears": 0, "roles": ["历任职位"], "companies": ["公司"], "industries": ["行业"]},
  "education": {"degrees": ["学位"], "institutions": ["院校"], "certifications": ["证书"]},
  "jobSuggestions": [{"title": "建议岗位", "matchPercentage": 80, "requirements": ["要求"], "missingSkills": ["差距"]}],
  "recommendations": ["改进建议"],
  "score": {"overall": 75, "sections": {"skills": 80, "experience": 70, "education": 75}},
  "insights": {"strengths": ["优势"], "improvements": ["待改进"], "marketTrends": ["市场趋势"]}
}

简历全文：
%s`, role, text)

	var analysis model.ResumeAnalysis
	if err := s.AI.GenerateJSON(ctx, system, prompt, &analysis); err != nil {
		logger.Log.Warn("AI 简历分析失败，使用本地分析", zap.Error(err))
		return fallbackResumeAnalysis(text, targetRole)
	}
	return analysis
}

// AnalyzeText 免上传的纯文本分析入口
func (s *ResumeService) AnalyzeText(ctx context.Context, text, targetRole string) (*model.ResumeAnalysis, error) {
	cleaned := util.CleanExtractedText(text)
	if len(cleaned) < util.MinResumeText {
		return nil, fmt.Errorf("%w: 文本至少 %d 个字符", util.ErrInvalidAction, util.MinResumeText)
	}
	analysis := s.analyze(ctx, cleaned, targetRole)
	return &analysis, nil
}

func (s *ResumeService) GetResume(userID, resumeID uint) (*model.Resume, error) {
	resume, err := s.ResumeRepo.FindByID(resumeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResumeNotFound
		}
		return nil, err
	}
	if resume.UserID != userID {
		return nil, util.ErrResumeNotFound
	}
	return resume, nil
}

func (s *ResumeService) GetLatest(userID uint) (*model.Resume, error) {
	resume, err := s.ResumeRepo.FindLatestByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResumeNotFound
		}
		return nil, err
	}
	return resume, nil
}

func (s *ResumeService) List(userID uint, page, limit int) ([]model.Resume, int64, error) {
	return s.ResumeRepo.FindByUser(userID, page, limit)
}

// Delete 软删除记录并清理存储中的原始文件
func (s *ResumeService) Delete(ctx context.Context, userID, resumeID uint) error {
	resume, err := s.GetResume(userID, resumeID)
	if err != nil {
		return err
	}

	if err := s.ResumeRepo.Deactivate(resumeID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrResumeNotFound
		}
		return err
	}

	if resume.StoredFileName != "" {
		if err := s.Storage.Delete(ctx, resume.StoredFileName); err != nil {
			logger.Log.Warn("简历文件删除失败",
				zap.String("file", filepath.Base(resume.StoredFileName)),
				zap.Error(err))
		}
	}
	return nil
}
