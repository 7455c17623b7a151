package controller

import (
	"errors"
	"skillforge_backend/internal/service"
	"skillforge_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ResumeController struct {
	ResumeService *service.ResumeService
}

func NewResumeController(resumeService *service.ResumeService) *ResumeController {
	return &ResumeController{ResumeService: resumeService}
}

// Upload godoc
// @Summary 上传简历
// @Description 上传 PDF 简历，自动提取文本、切分章节并做 AI 分析；无文本层的扫描件会被拒绝
// @Tags 简历
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   resume formData file true "PDF 文件（10MB 以内）"
// @Param   targetRole formData string false "目标岗位"
// @Success 201 {object} util.Response{data=model.Resume} "分析结果"
// @Failure 400 {object} util.Response "文件类型/大小不符"
// @Failure 422 {object} util.Response "PDF 无法提取有效文本"
// @Router /api/resume/upload [post]
func (c *ResumeController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("resume")
	if err != nil {
		util.BadRequest(ctx, "请上传简历文件")
		return
	}
	targetRole := ctx.PostForm("targetRole")

	resume, err := c.ResumeService.Upload(ctx.Request.Context(), claims.UserID, fileHeader, targetRole)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUnreadablePDF):
			util.Error(ctx, 422, "无法从该 PDF 提取有效文本，请上传文字版简历")
		case errors.Is(err, util.ErrInvalidAction):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"resume": resume})
}

// AnalyzeText godoc
// @Summary 分析简历文本
// @Description 免上传，直接对粘贴的简历文本做 AI 分析
// @Tags 简历
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body controller.AnalyzeTextRequest true "简历文本"
// @Success 200 {object} util.Response{data=model.ResumeAnalysis}
// @Failure 400 {object} util.Response "文本太短"
// @Router /api/resume/analyze [post]
func (c *ResumeController) AnalyzeText(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnalyzeTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	analysis, err := c.ResumeService.AnalyzeText(ctx.Request.Context(), req.Text, req.TargetRole)
	if err != nil {
		if errors.Is(err, util.ErrInvalidAction) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"analysis": analysis})
}

// AnalyzeTextRequest 纯文本分析请求
type AnalyzeTextRequest struct {
	Text       string `json:"text" binding:"required"`
	TargetRole string `json:"targetRole"`
}

// GetLatest godoc
// @Summary 获取最近一次简历分析
// @Tags 简历
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Resume}
// @Failure 404 {object} util.Response "尚未上传简历"
// @Router /api/resume/latest [get]
func (c *ResumeController) GetLatest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	resume, err := c.ResumeService.GetLatest(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrResumeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"resume": resume})
}

// List godoc
// @Summary 简历列表
// @Tags 简历
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/resume [get]
func (c *ResumeController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"), 10)

	resumes, total, err := c.ResumeService.List(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.NewPageResponse(resumes, total, page, limit))
}

// Get godoc
// @Summary 获取指定简历
// @Tags 简历
// @Produce  json
// @Security BearerAuth
// @Param   resumeId path int true "简历 ID"
// @Success 200 {object} util.Response{data=model.Resume}
// @Failure 404 {object} util.Response "简历不存在"
// @Router /api/resume/{resumeId} [get]
func (c *ResumeController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	resumeID, err := strconv.ParseUint(ctx.Param("resumeId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的简历 ID")
		return
	}

	resume, err := c.ResumeService.GetResume(claims.UserID, uint(resumeID))
	if err != nil {
		if errors.Is(err, util.ErrResumeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"resume": resume})
}

// Delete godoc
// @Summary 删除简历
// @Description 软删除记录并清理存储中的原始文件
// @Tags 简历
// @Produce  json
// @Security BearerAuth
// @Param   resumeId path int true "简历 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "简历不存在"
// @Router /api/resume/{resumeId} [delete]
func (c *ResumeController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	resumeID, err := strconv.ParseUint(ctx.Param("resumeId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的简历 ID")
		return
	}

	if err := c.ResumeService.Delete(ctx.Request.Context(), claims.UserID, uint(resumeID)); err != nil {
		if errors.Is(err, util.ErrResumeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
