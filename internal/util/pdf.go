package util

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var multiNewline = regexp.MustCompile(`\n{3,}`)

// ExtractPDFText 从 PDF 文件提取纯文本，保留换行供章节切分使用
// 扫描件等无文本层的 PDF 会得到空串，由调用方判定是否可用
func ExtractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}

	text := strings.ReplaceAll(buf.String(), "\r\n", "\n")
	text = multiNewline.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}

// CleanExtractedText 归一化文本：折叠全部空白为单个空格
// 用于统计有效字符数和构造 AI 提示词
func CleanExtractedText(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.Join(strings.Fields(raw), " ")
}
