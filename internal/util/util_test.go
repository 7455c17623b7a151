package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  My  Portfolio  ", "my-portfolio"},
		{"already-a-slug", "already-a-slug"},
		{"under_score_name", "under-score-name"},
		{"Mixed CASE 123", "mixed-case-123"},
		{"中文标题", ""},
		{"中文 mixed 标题", "mixed"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.input), "Slugify(%q)", tt.input)
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"正常参数", "2", "20", 2, 20},
		{"缺失参数用默认值", "", "", 1, 10},
		{"非法参数用默认值", "abc", "xyz", 1, 10},
		{"页码为零取 1", "0", "10", 1, 10},
		{"负数页码取 1", "-3", "10", 1, 10},
		{"超过上限保持默认", "1", "500", 1, 10},
		{"上限恰好 100", "1", "100", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := ParsePagination(tt.page, tt.limit, 10)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestMustParseUint(t *testing.T) {
	assert.Equal(t, uint(42), MustParseUint("42"))
	assert.Equal(t, uint(0), MustParseUint("abc"))
	assert.Equal(t, uint(0), MustParseUint("-1"))
	assert.Equal(t, uint(0), MustParseUint(""))
}

func TestCleanExtractedText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello   world", "hello world"},
		{"line1\nline2\n\nline3", "line1 line2 line3"},
		{"\t tab \t and \r\n newline ", "tab and newline"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanExtractedText(tt.input))
	}
}

func TestValidateMimeType(t *testing.T) {
	pdfHeader := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte{0x20}, 64)...)

	mime, err := ValidateMimeType(bytes.NewReader(pdfHeader), []string{"application/pdf"})
	assert.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)

	_, err = ValidateMimeType(bytes.NewReader([]byte("plain text content")), []string{"application/pdf"})
	assert.Error(t, err)

	// 前缀匹配
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	mime, err = ValidateMimeType(bytes.NewReader(pngHeader), []string{"image/"})
	assert.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestMimeHelpers(t *testing.T) {
	assert.True(t, IsImage("image/png"))
	assert.False(t, IsImage("video/mp4"))
	assert.True(t, IsVideo("video/mp4"))
	assert.True(t, IsVideo("application/x-mpegURL"))
	assert.False(t, IsVideo("image/png"))
	assert.True(t, IsPDF("application/pdf"))
	assert.False(t, IsPDF("application/json"))
}
