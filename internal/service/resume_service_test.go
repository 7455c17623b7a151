package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleResumeText = `张三
zhangsan@example.com | 138-0000-0000

Summary
五年后端开发经验，专注高并发服务。

Work Experience
某科技公司 后端工程师 2021-2026
负责订单系统的设计与开发。

Education
某大学 计算机科学学士 2017-2021

Technical Skills
Go, Python, Docker, Kubernetes, MySQL

Projects
开源项目：分布式任务调度器

Certifications
AWS Certified Developer`

func TestParseResumeSections(t *testing.T) {
	sections := ParseResumeSections(sampleResumeText)

	// 首个章节标题之前的内容归入联系方式
	assert.Contains(t, sections.Contact, "张三")
	assert.Contains(t, sections.Contact, "zhangsan@example.com")

	assert.Contains(t, sections.Summary, "五年后端开发经验")
	assert.Contains(t, sections.Experience, "订单系统")
	assert.Contains(t, sections.Education, "计算机科学学士")
	assert.Contains(t, sections.Skills, "Kubernetes")
	assert.Contains(t, sections.Projects, "任务调度器")
	assert.Contains(t, sections.Certifications, "AWS Certified Developer")

	// 标题行本身不计入正文
	assert.NotContains(t, sections.Experience, "Work Experience")
}

func TestParseResumeSectionsNoHeaders(t *testing.T) {
	sections := ParseResumeSections("李四\n一段没有任何标题的自我介绍。")

	assert.Contains(t, sections.Contact, "李四")
	assert.Empty(t, sections.Experience)
	assert.Empty(t, sections.Skills)
}

func TestSectionsFound(t *testing.T) {
	sections := ParseResumeSections(sampleResumeText)
	found := sectionsFound(&sections)

	assert.Contains(t, found, "contact")
	assert.Contains(t, found, "experience")
	assert.Contains(t, found, "skills")
	assert.Len(t, found, 7)

	empty := ParseResumeSections("")
	assert.Empty(t, sectionsFound(&empty))
}

func TestFallbackResumeAnalysis(t *testing.T) {
	analysis := fallbackResumeAnalysis("熟悉 Go、Docker 和 Kubernetes，了解 MySQL。", "后端工程师")

	// MySQL 同时命中子串 sql
	assert.ElementsMatch(t, []string{"go", "sql", "docker", "kubernetes"}, analysis.Skills.Identified)
	// 50 + 4 项技能 * 3
	assert.Equal(t, 62, analysis.Score.Overall)
	assert.Equal(t, "后端工程师", analysis.JobSuggestions[0].Title)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestFallbackResumeAnalysisScoreCapped(t *testing.T) {
	text := "javascript typescript python java go c++ sql react vue node docker kubernetes aws git linux"
	analysis := fallbackResumeAnalysis(text, "")

	assert.Equal(t, 85, analysis.Score.Overall)
	assert.Equal(t, "软件工程师", analysis.JobSuggestions[0].Title)
}
