package service

import (
	"fmt"
	"skillforge_backend/internal/model"
	"strings"
)

// AI 服务不可用时的本地兜底生成器
// 输出确定性的模板内容，保证生成接口在外部依赖故障时依然可用

// fallbackQuizQuestions 生成模板测验题
// 题型轮转：选择、判断、填空，分值统一为 1
func fallbackQuizQuestions(topic string, count int) []model.Question {
	questions := make([]model.Question, 0, count)
	for i := 0; i < count; i++ {
		var q model.Question
		switch i % 3 {
		case 0:
			q = model.Question{
				Question: fmt.Sprintf("以下哪项是 %s 的核心概念？（第 %d 题）", topic, i+1),
				Type:     model.MultipleChoice,
				Options: []string{
					fmt.Sprintf("%s 的基础原理", topic),
					"无关选项 A",
					"无关选项 B",
					"无关选项 C",
				},
				CorrectAnswer: 0,
				Explanation:   fmt.Sprintf("%s 的基础原理是理解该主题的前提。", topic),
			}
		case 1:
			q = model.Question{
				Question:      fmt.Sprintf("%s 需要通过持续练习来掌握。（第 %d 题）", topic, i+1),
				Type:          model.TrueFalse,
				Options:       []string{"正确", "错误"},
				CorrectAnswer: 0,
				Explanation:   "任何技能都需要刻意练习。",
			}
		default:
			q = model.Question{
				Question:      fmt.Sprintf("学习 %s 最重要的品质是＿＿。（第 %d 题，填「坚持」）", topic, i+1),
				Type:          model.FillBlank,
				CorrectAnswer: "坚持",
				Explanation:   "持续投入是掌握新技能的关键。",
			}
		}
		q.QuestionID = model.GenerateUUID()
		q.Points = 1
		q.Tags = []string{topic}
		questions = append(questions, q)
	}
	return questions
}

// fallbackPathModules 按周生成模板学习模块
func fallbackPathModules(goal string, weeks, hoursPerWeek int) []model.PathModule {
	if weeks <= 0 {
		weeks = 4
	}
	phases := []string{"基础入门", "核心概念", "实战练习", "进阶提升"}

	modules := make([]model.PathModule, 0, weeks)
	for i := 0; i < weeks; i++ {
		phase := phases[i%len(phases)]
		modules = append(modules, model.PathModule{
			ModuleID:       model.GenerateUUID(),
			Title:          fmt.Sprintf("第 %d 周：%s · %s", i+1, goal, phase),
			Description:    fmt.Sprintf("围绕 %s 的%s阶段，完成本周全部资源后进入下一模块。", goal, phase),
			Week:           i + 1,
			Order:          i,
			EstimatedHours: hoursPerWeek,
			Skills:         []string{goal},
			LearningObjectives: []string{
				fmt.Sprintf("理解 %s 在%s阶段的关键知识点", goal, phase),
			},
			Resources: []model.PathResource{
				{
					ResourceID: model.GenerateUUID(),
					Title:      fmt.Sprintf("%s %s：视频课程", goal, phase),
					Type:       model.ResourceVideo,
					Duration:   hoursPerWeek * 30,
				},
				{
					ResourceID: model.GenerateUUID(),
					Title:      fmt.Sprintf("%s %s：动手练习", goal, phase),
					Type:       model.ResourcePractice,
					Duration:   hoursPerWeek * 30,
				},
			},
			Assessments: []model.ModuleAssessment{
				{
					Type:  "quiz",
					Title: fmt.Sprintf("第 %d 周自测", i+1),
				},
			},
			Progress: model.ModuleProgress{TotalResources: 2},
		})
	}
	return modules
}

// fallbackResumeAnalysis 基于关键词匹配的本地简历分析
func fallbackResumeAnalysis(text, targetRole string) model.ResumeAnalysis {
	lower := strings.ToLower(text)

	knownSkills := []string{
		"javascript", "typescript", "python", "java", "go", "c++", "sql",
		"react", "vue", "node", "docker", "kubernetes", "aws", "git", "linux",
	}
	identified := []string{}
	for _, skill := range knownSkills {
		if strings.Contains(lower, skill) {
			identified = append(identified, skill)
		}
	}

	if targetRole == "" {
		targetRole = "软件工程师"
	}

	score := 50 + len(identified)*3
	if score > 85 {
		score = 85
	}

	return model.ResumeAnalysis{
		Skills: model.SkillAnalysis{
			Identified: identified,
			Missing:    []string{"系统设计", "团队协作案例"},
			Categories: []model.SkillCategory{
				{Name: "技术技能", Skills: identified},
			},
		},
		Experience: model.ExperienceAnalysis{
			Roles: []string{targetRole},
		},
		JobSuggestions: []model.JobSuggestion{
			{
				Title:           targetRole,
				MatchPercentage: score,
				Requirements:    []string{"扎实的编程基础", "项目实战经验"},
				MissingSkills:   []string{"系统设计"},
			},
		},
		Recommendations: []string{
			"量化项目成果，用数据说明贡献",
			"补充与目标岗位匹配的关键词",
			"突出最近两年的核心项目经历",
		},
		Score: model.ResumeScore{
			Overall: score,
			Sections: map[string]int{
				"skills":     score,
				"experience": score - 5,
				"education":  score,
			},
		},
		Insights: model.ResumeInsights{
			Strengths:    []string{"技术栈覆盖面较广"},
			Improvements: []string{"经历描述可以更量化"},
			MarketTrends: []string{"云原生与 AI 相关技能需求持续增长"},
		},
	}
}

// fallbackTutorAnswer 通用模板回答，引导用户稍后重试
func fallbackTutorAnswer(question, subject string) *model.TutorConversation {
	if subject == "" {
		subject = "general"
	}
	return &model.TutorConversation{
		Subject:  subject,
		Question: question,
		Answer: fmt.Sprintf(
			"关于「%s」：建议先拆解问题、查阅官方文档并动手验证。当前智能导师暂时不可用，以上为通用学习建议，请稍后重试以获得针对性解答。",
			question),
		KeyPoints:     []string{"拆解问题", "查阅官方文档", "动手验证"},
		Suggestions:   []string{"稍后重试以获得 AI 生成的详细解答"},
		RelatedTopics: []string{subject},
		Difficulty:    "intermediate",
		Fallback:      true,
	}
}
