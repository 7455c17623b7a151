package controller

import (
	"errors"
	"skillforge_backend/internal/service"
	"skillforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PortfolioController struct {
	PortfolioService *service.PortfolioService
}

func NewPortfolioController(portfolioService *service.PortfolioService) *PortfolioController {
	return &PortfolioController{PortfolioService: portfolioService}
}

// Generate godoc
// @Summary 生成/更新作品集
// @Description 每个用户一份作品集；首次生成从用户资料和简历分析预填，重复生成递增版本号
// @Tags 作品集
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.GeneratePortfolioInput true "作品集内容"
// @Success 200 {object} util.Response{data=model.Portfolio}
// @Router /api/portfolio/generate [post]
func (c *PortfolioController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.GeneratePortfolioInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	portfolio, err := c.PortfolioService.Generate(claims.UserID, &input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"portfolio": portfolio})
}

// Get godoc
// @Summary 获取我的作品集
// @Tags 作品集
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Portfolio}
// @Failure 404 {object} util.Response "尚未创建作品集"
// @Router /api/portfolio [get]
func (c *PortfolioController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	portfolio, err := c.PortfolioService.Get(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPortfolioNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"portfolio": portfolio})
}

// Publish godoc
// @Summary 发布作品集
// @Description 分配公开访问 slug，冲突时自动追加后缀
// @Tags 作品集
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.PublishInput true "期望的 slug（可选）"
// @Success 200 {object} util.Response{data=model.Portfolio}
// @Failure 404 {object} util.Response "尚未创建作品集"
// @Router /api/portfolio/publish [post]
func (c *PortfolioController) Publish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.PublishInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	portfolio, err := c.PortfolioService.Publish(claims.UserID, &input)
	if err != nil {
		if errors.Is(err, util.ErrPortfolioNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"portfolio": portfolio})
}

// Unpublish godoc
// @Summary 下线作品集公开页
// @Tags 作品集
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Portfolio}
// @Failure 404 {object} util.Response "尚未创建作品集"
// @Router /api/portfolio/publish [delete]
func (c *PortfolioController) Unpublish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	portfolio, err := c.PortfolioService.Unpublish(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPortfolioNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"portfolio": portfolio})
}

// GetPublic godoc
// @Summary 公开访问作品集
// @Description 无需登录，按 slug 访问已发布作品集，浏览量加一
// @Tags 作品集
// @Produce  json
// @Param   slug path string true "作品集 slug"
// @Success 200 {object} util.Response{data=model.Portfolio}
// @Failure 404 {object} util.Response "作品集不存在或未发布"
// @Router /api/portfolio/public/{slug} [get]
func (c *PortfolioController) GetPublic(ctx *gin.Context) {
	slug := ctx.Param("slug")

	portfolio, err := c.PortfolioService.GetPublic(slug)
	if err != nil {
		if errors.Is(err, util.ErrPortfolioNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"portfolio": portfolio})
}

// UploadMedia godoc
// @Summary 上传作品集媒体
// @Description 支持图片和视频（100MB 以内）；视频自动探测元数据并生成封面图
// @Tags 作品集
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   media formData file true "图片或视频"
// @Success 201 {object} util.Response{data=service.MediaUploadResult}
// @Failure 400 {object} util.Response "文件类型/大小不符"
// @Router /api/portfolio/media [post]
func (c *PortfolioController) UploadMedia(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("media")
	if err != nil {
		util.BadRequest(ctx, "请上传媒体文件")
		return
	}

	result, err := c.PortfolioService.UploadMedia(ctx.Request.Context(), claims.UserID, fileHeader)
	if err != nil {
		if errors.Is(err, util.ErrInvalidAction) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"media": result})
}

// Analytics godoc
// @Summary 作品集概览数据
// @Tags 作品集
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.PortfolioAnalytics}
// @Failure 404 {object} util.Response "尚未创建作品集"
// @Router /api/portfolio/analytics [get]
func (c *PortfolioController) Analytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	analytics, err := c.PortfolioService.Analytics(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPortfolioNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"analytics": analytics})
}

// Delete godoc
// @Summary 删除作品集
// @Tags 作品集
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "尚未创建作品集"
// @Router /api/portfolio [delete]
func (c *PortfolioController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.PortfolioService.Delete(claims.UserID); err != nil {
		if errors.Is(err, util.ErrPortfolioNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
