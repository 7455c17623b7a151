package service

import (
	"testing"

	"skillforge_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFallbackQuizQuestions(t *testing.T) {
	questions := fallbackQuizQuestions("Go 并发编程", 6)

	assert.Len(t, questions, 6)
	for i, q := range questions {
		assert.NotEmpty(t, q.QuestionID)
		assert.NotEmpty(t, q.Question)
		assert.NotNil(t, q.CorrectAnswer)
		assert.Equal(t, 1, q.Points)

		// 题型按选择、判断、填空轮转
		switch i % 3 {
		case 0:
			assert.Equal(t, model.MultipleChoice, q.Type)
			assert.Len(t, q.Options, 4)
		case 1:
			assert.Equal(t, model.TrueFalse, q.Type)
			assert.Len(t, q.Options, 2)
		default:
			assert.Equal(t, model.FillBlank, q.Type)
			assert.Empty(t, q.Options)
		}
	}
}

func TestFallbackPathModules(t *testing.T) {
	modules := fallbackPathModules("学习 Kubernetes", 4, 10)

	assert.Len(t, modules, 4)
	for i, m := range modules {
		assert.NotEmpty(t, m.ModuleID)
		assert.Equal(t, i+1, m.Week)
		assert.Equal(t, 10, m.EstimatedHours)
		assert.Len(t, m.Resources, 2)
		assert.Equal(t, 2, m.Progress.TotalResources)
		assert.NotEmpty(t, m.Assessments)
		for _, r := range m.Resources {
			assert.NotEmpty(t, r.ResourceID)
		}
	}

	// 周数非法时退回 4 周
	assert.Len(t, fallbackPathModules("目标", 0, 5), 4)
}

func TestFallbackTutorAnswer(t *testing.T) {
	conv := fallbackTutorAnswer("什么是闭包？", "javascript")

	assert.True(t, conv.Fallback)
	assert.Equal(t, "什么是闭包？", conv.Question)
	assert.Equal(t, "javascript", conv.Subject)
	assert.Contains(t, conv.Answer, "什么是闭包？")
	assert.NotEmpty(t, conv.KeyPoints)

	// 未指定科目时归入 general
	assert.Equal(t, "general", fallbackTutorAnswer("问题", "").Subject)
}
