package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MaxResumeSize    = 10 << 20 // 10MB
	MaxMediaSize     = 100 << 20
	MinResumeText    = 50 // 提取文本少于该字符数视为不可用的 PDF
	MaxQuizQuestions = 50
	MinQuizQuestions = 5
	MaxDailyMinutes  = 1440 // 单次上报学习时长上限（24h）
)
