package controller

import (
	"errors"
	"skillforge_backend/internal/service"
	"skillforge_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	PathService *service.LearningPathService
}

func NewLearningController(pathService *service.LearningPathService) *LearningController {
	return &LearningController{PathService: pathService}
}

// GeneratePath godoc
// @Summary 生成学习路径
// @Description AI 按目标规划分周模块，同一用户旧路径自动停用
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.GeneratePathInput true "规划参数"
// @Success 201 {object} util.Response{data=model.LearningPath} "生成成功"
// @Failure 400 {object} util.Response "参数错误（周期至少 7 天）"
// @Failure 429 {object} util.Response "AI 生成次数已达上限"
// @Router /api/learning/generate-path [post]
func (c *LearningController) GeneratePath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.GeneratePathInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.PathService.Generate(ctx.Request.Context(), claims.UserID, &input)
	if err != nil {
		if errors.Is(err, util.ErrInvalidAction) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"learningPath": path})
}

// GetActivePath godoc
// @Summary 获取当前激活的学习路径
// @Tags 学习路径
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Failure 404 {object} util.Response "没有激活的路径"
// @Router /api/learning/path [get]
func (c *LearningController) GetActivePath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	path, err := c.PathService.GetActivePath(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPathNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"learningPath": path})
}

// ListPaths godoc
// @Summary 学习路径列表
// @Description 分页返回用户全部路径（含历史停用路径）
// @Tags 学习路径
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/learning/paths [get]
func (c *LearningController) ListPaths(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"), 10)

	paths, total, err := c.PathService.ListPaths(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.NewPageResponse(paths, total, page, limit))
}

// GetPathDetails godoc
// @Summary 路径详情
// @Tags 学习路径
// @Produce  json
// @Security BearerAuth
// @Param   pathId path int true "路径 ID"
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/learning/path/details/{pathId} [get]
func (c *LearningController) GetPathDetails(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	pathID, err := strconv.ParseUint(ctx.Param("pathId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的路径 ID")
		return
	}

	path, err := c.PathService.GetPath(claims.UserID, uint(pathID))
	if err != nil {
		if errors.Is(err, util.ErrPathNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"learningPath": path})
}

// UpdateProgress godoc
// @Summary 上报学习进度
// @Description 动作：complete_module / uncomplete_module / complete_resource / add_time / add_note，模块完成幂等
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.UpdateProgressInput true "进度动作"
// @Success 200 {object} util.Response{data=model.LearningPath} "更新后的进度"
// @Failure 400 {object} util.Response "无效动作或时长超限"
// @Failure 404 {object} util.Response "路径或模块不存在"
// @Router /api/learning/progress [post]
func (c *LearningController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateProgressInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.PathService.UpdateProgress(claims.UserID, &input)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPathNotFound), errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidAction):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"learningPath": gin.H{
		"id":       path.ID,
		"progress": path.Progress,
		"modules":  path.Modules,
	}})
}

// DeletePath godoc
// @Summary 删除学习路径
// @Tags 学习路径
// @Produce  json
// @Security BearerAuth
// @Param   pathId path int true "路径 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/learning/path/{pathId} [delete]
func (c *LearningController) DeletePath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	pathID, err := strconv.ParseUint(ctx.Param("pathId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的路径 ID")
		return
	}

	if err := c.PathService.Delete(claims.UserID, uint(pathID)); err != nil {
		if errors.Is(err, util.ErrPathNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
