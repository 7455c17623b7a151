package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func fourModulePath() *LearningPath {
	return &LearningPath{
		Goal: "成为后端工程师",
		Timeline: Timeline{
			TotalDays:    28,
			HoursPerWeek: 10,
			StartDate:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		Modules: datatypes.JSONSlice[PathModule]{
			{ModuleID: "m1", Title: "基础入门", Week: 1, Order: 1, Resources: []PathResource{
				{ResourceID: "r1", Type: ResourceVideo},
				{ResourceID: "r2", Type: ResourceArticle},
			}},
			{ModuleID: "m2", Title: "核心概念", Week: 2, Order: 2, Resources: []PathResource{
				{ResourceID: "r3", Type: ResourceCourse},
			}},
			{ModuleID: "m3", Title: "实战练习", Week: 3, Order: 3, Resources: []PathResource{
				{ResourceID: "r4", Type: ResourcePractice},
			}},
			{ModuleID: "m4", Title: "进阶提升", Week: 4, Order: 4, Resources: []PathResource{
				{ResourceID: "r5", Type: ResourceProject},
			}},
		},
	}
}

func TestRecalculateProgress(t *testing.T) {
	path := fourModulePath()

	path.RecalculateProgress()
	assert.Equal(t, 0, path.Progress.OverallPercentage)
	assert.Equal(t, 0, path.Progress.CurrentModule)
	assert.Equal(t, 4, path.Progress.TotalModules)
	// 0% 时不做剩余时长外推
	assert.Nil(t, path.Progress.EstimatedHoursRemaining)

	assert.True(t, path.CompleteModule("m1"))
	assert.True(t, path.CompleteModule("m2"))
	path.RecalculateProgress()

	assert.Equal(t, 2, path.Progress.ModulesCompleted)
	assert.Equal(t, 50, path.Progress.OverallPercentage)
	// 当前模块指向第一个未完成的模块
	assert.Equal(t, 2, path.Progress.CurrentModule)
}

func TestRecalculateProgressAllCompleted(t *testing.T) {
	path := fourModulePath()
	for _, id := range []string{"m1", "m2", "m3", "m4"} {
		path.CompleteModule(id)
	}
	path.AddTime("m1", 120)
	path.RecalculateProgress()

	assert.Equal(t, 100, path.Progress.OverallPercentage)
	// 全部完成时当前模块停在最后一个
	assert.Equal(t, 3, path.Progress.CurrentModule)
	// 100% 时剩余时长显式置空
	assert.Nil(t, path.Progress.EstimatedHoursRemaining)
	assert.Equal(t, 2.0, path.Progress.HoursSpent)
}

func TestRecalculateProgressEstimatedRemaining(t *testing.T) {
	path := fourModulePath()
	path.CompleteModule("m1")
	path.AddTime("m1", 180) // 3 小时完成 25%
	path.RecalculateProgress()

	assert.Equal(t, 25, path.Progress.OverallPercentage)
	if assert.NotNil(t, path.Progress.EstimatedHoursRemaining) {
		assert.Equal(t, 9.0, *path.Progress.EstimatedHoursRemaining)
	}
}

func TestExpectedEndDateComputedOnce(t *testing.T) {
	path := fourModulePath()
	path.RecalculateProgress()

	if !assert.NotNil(t, path.Timeline.ExpectedEndDate) {
		return
	}
	want := path.Timeline.StartDate.AddDate(0, 0, 28)
	assert.Equal(t, want, *path.Timeline.ExpectedEndDate)

	// 再次重算不会移动最初承诺的结束日期
	first := *path.Timeline.ExpectedEndDate
	path.CompleteModule("m1")
	path.RecalculateProgress()
	assert.Equal(t, first, *path.Timeline.ExpectedEndDate)
}

func TestCompleteModuleIdempotent(t *testing.T) {
	path := fourModulePath()

	assert.True(t, path.CompleteModule("m1"))
	module := path.FindModule("m1")
	firstCompletedAt := module.CompletedAt
	assert.NotNil(t, firstCompletedAt)

	// 重复完成静默幂等，保留原 completedAt
	assert.False(t, path.CompleteModule("m1"))
	assert.Equal(t, firstCompletedAt, path.FindModule("m1").CompletedAt)

	assert.False(t, path.CompleteModule("不存在"))
}

func TestUncompleteModule(t *testing.T) {
	path := fourModulePath()
	path.CompleteModule("m1")

	assert.True(t, path.UncompleteModule("m1"))
	module := path.FindModule("m1")
	assert.False(t, module.Completed)
	assert.Nil(t, module.CompletedAt)

	assert.False(t, path.UncompleteModule("m1"))
	assert.False(t, path.UncompleteModule("不存在"))
}

func TestCompleteResourceClamped(t *testing.T) {
	path := fourModulePath()

	// m1 只有两个资源，第三次完成被拒绝
	assert.True(t, path.CompleteResource("m1", "r1"))
	assert.True(t, path.CompleteResource("m1", "r2"))
	assert.False(t, path.CompleteResource("m1", "r1"))

	path.RecalculateProgress()
	module := path.FindModule("m1")
	assert.Equal(t, 2, module.Progress.ResourcesCompleted)
	assert.Equal(t, 2, module.Progress.TotalResources)
	assert.Equal(t, 100, module.Progress.Percentage)
}

func TestModuleProgressPercentageDerived(t *testing.T) {
	path := fourModulePath()
	path.CompleteResource("m1", "r1")
	path.RecalculateProgress()

	assert.Equal(t, 50, path.FindModule("m1").Progress.Percentage)
	assert.Equal(t, 0, path.FindModule("m2").Progress.Percentage)
}

func TestAddTimeAndNotes(t *testing.T) {
	path := fourModulePath()

	assert.True(t, path.AddTime("m1", 30))
	assert.True(t, path.AddTime("m1", 45))
	assert.Equal(t, 75, path.FindModule("m1").TimeSpent)

	assert.False(t, path.AddTime("m1", 0))
	assert.False(t, path.AddTime("m1", -5))
	assert.False(t, path.AddTime("不存在", 30))

	assert.True(t, path.SetNote("m1", "第一周笔记"))
	// 笔记整体替换而非追加
	assert.True(t, path.SetNote("m1", "修订"))
	assert.Equal(t, "修订", path.FindModule("m1").Notes)
	// 空字符串也是替换，用于清空笔记
	assert.True(t, path.SetNote("m1", ""))
	assert.Equal(t, "", path.FindModule("m1").Notes)
	assert.False(t, path.SetNote("不存在", "x"))
}

func TestRecalculateProgressEmptyPath(t *testing.T) {
	path := &LearningPath{Timeline: Timeline{TotalDays: 7, StartDate: time.Now()}}
	path.RecalculateProgress()

	assert.Equal(t, 0, path.Progress.TotalModules)
	assert.Equal(t, 0, path.Progress.OverallPercentage)
	assert.Equal(t, 0, path.Progress.CurrentModule)
	assert.Nil(t, path.Progress.EstimatedHoursRemaining)
}
