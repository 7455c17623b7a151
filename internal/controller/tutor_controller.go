package controller

import (
	"skillforge_backend/internal/service"
	"skillforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TutorController struct {
	TutorService *service.TutorService
}

func NewTutorController(tutorService *service.TutorService) *TutorController {
	return &TutorController{TutorService: tutorService}
}

// Ask godoc
// @Summary 向导师提问
// @Description 回答按用户画像个性化，最近问答作为多轮上下文；AI 不可用时返回兜底回答
// @Tags 导师
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.AskInput true "问题（5-1000 字符）"
// @Success 200 {object} util.Response{data=model.TutorConversation}
// @Failure 400 {object} util.Response "问题长度不符"
// @Failure 429 {object} util.Response "AI 调用次数已达上限"
// @Router /api/tutor/ask [post]
func (c *TutorController) Ask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.AskInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	conversation, err := c.TutorService.Ask(ctx.Request.Context(), claims.UserID, &input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"conversation": conversation})
}

// Explain godoc
// @Summary 概念讲解
// @Description 按指定水平（beginner/intermediate/advanced）讲解概念
// @Tags 导师
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ExplainInput true "概念与水平"
// @Success 200 {object} util.Response{data=model.TutorConversation}
// @Failure 400 {object} util.Response "参数错误"
// @Router /api/tutor/explain [post]
func (c *TutorController) Explain(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.ExplainInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	conversation, err := c.TutorService.Explain(ctx.Request.Context(), claims.UserID, &input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"conversation": conversation})
}

// Suggestions godoc
// @Summary 学习建议
// @Description 基于用户画像生成本周学习建议
// @Tags 导师
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.TutorConversation}
// @Router /api/tutor/suggestions [get]
func (c *TutorController) Suggestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	conversation, err := c.TutorService.Suggestions(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"conversation": conversation})
}

// History godoc
// @Summary 问答历史
// @Tags 导师
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/tutor/history [get]
func (c *TutorController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"), 20)

	conversations, total, err := c.TutorService.History(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.NewPageResponse(conversations, total, page, limit))
}

// ClearHistory godoc
// @Summary 清空问答历史
// @Tags 导师
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/tutor/history [delete]
func (c *TutorController) ClearHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.TutorService.ClearHistory(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
