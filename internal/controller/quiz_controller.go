package controller

import (
	"errors"
	"skillforge_backend/internal/service"
	"skillforge_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Generate godoc
// @Summary 生成测验
// @Description AI 按主题和难度出题，AI 不可用时使用本地模板，正确答案不下发
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.GenerateQuizInput true "出题参数"
// @Success 201 {object} util.Response{data=service.QuizView} "生成成功"
// @Failure 400 {object} util.Response "参数错误（题目数须在 5-50 之间）"
// @Failure 429 {object} util.Response "AI 生成次数已达上限"
// @Router /api/quiz/generate [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.GenerateQuizInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Generate(ctx.Request.Context(), claims.UserID, &input)
	if err != nil {
		if errors.Is(err, util.ErrInvalidAction) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"quiz": quiz})
}

// Get godoc
// @Summary 获取测验
// @Description 返回答题视图，不含正确答案与解析
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   quizId path int true "测验 ID"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quiz/{quizId} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := strconv.ParseUint(ctx.Param("quizId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的测验 ID")
		return
	}

	quiz, err := c.QuizService.GetQuiz(claims.UserID, uint(quizID))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"quiz": quiz})
}

// Submit godoc
// @Summary 提交测验
// @Description 评分并追加提交记录；先校验次数上限，再校验时间上限（含 60 秒缓冲）
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SubmitQuizInput true "作答内容"
// @Success 200 {object} util.Response{data=service.SubmitQuizResult} "评分结果"
// @Failure 400 {object} util.Response "已达最大提交次数 / 超出时间限制"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.SubmitQuizInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitAttempt(claims.UserID, &input)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAttemptLimitExceeded),
			errors.Is(err, util.ErrTimeLimitExceeded):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"results": result})
}

// History godoc
// @Summary 测验历史
// @Description 分页返回测验列表，附带最佳成绩摘要
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/quiz/history [get]
func (c *QuizController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"), 10)

	quizzes, total, err := c.QuizService.History(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.NewPageResponse(quizzes, total, page, limit))
}

// Stats godoc
// @Summary 测验统计
// @Description 汇总用户全部测验的总量、均分、通过率及主题分布
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.QuizStats}
// @Router /api/quiz/stats [get]
func (c *QuizController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.QuizService.Stats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"stats": stats})
}

// Delete godoc
// @Summary 删除测验
// @Description 软删除，历史提交保留
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   quizId path int true "测验 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quiz/{quizId} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := strconv.ParseUint(ctx.Param("quizId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的测验 ID")
		return
	}

	if err := c.QuizService.Delete(claims.UserID, uint(quizID)); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
