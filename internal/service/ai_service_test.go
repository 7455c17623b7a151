package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"skillforge_backend/internal/config"
	"skillforge_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "纯 JSON 对象",
			content: `{"answer": "ok"}`,
			want:    `{"answer": "ok"}`,
		},
		{
			name:    "markdown 代码块包裹",
			content: "```json\n{\"answer\": \"ok\"}\n```",
			want:    `{"answer": "ok"}`,
		},
		{
			name:    "无语言标记的代码块",
			content: "```\n[1, 2, 3]\n```",
			want:    `[1, 2, 3]`,
		},
		{
			name:    "JSON 前后有说明文字",
			content: "好的，以下是结果：\n{\"score\": 85}\n希望对你有帮助。",
			want:    `{"score": 85}`,
		},
		{
			name:    "嵌套对象取到最外层",
			content: `前缀 {"a": {"b": [1, {"c": 2}]}} 后缀`,
			want:    `{"a": {"b": [1, {"c": 2}]}}`,
		},
		{
			name:    "字符串内的括号不影响匹配",
			content: `{"text": "包含 } 和 { 的字符串"}`,
			want:    `{"text": "包含 } 和 { 的字符串"}`,
		},
		{
			name:    "字符串内的转义引号",
			content: `{"text": "他说：\"你好}\""}`,
			want:    `{"text": "他说：\"你好}\""}`,
		},
		{
			name:    "数组",
			content: `这是列表 ["a", "b"]`,
			want:    `["a", "b"]`,
		},
		{
			name:    "没有 JSON",
			content: "抱歉，我无法回答这个问题。",
			want:    "",
		},
		{
			name:    "未闭合的对象",
			content: `{"answer": "截断了`,
			want:    "",
		},
		{
			name:    "空输入",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.content))
		})
	}
}

func newTestAIService(baseURL string, retries int) *AIService {
	return NewAIService(config.AIConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
		RetryAttempts:  retries,
		RetryDelay:     time.Millisecond,
	})
}

func chatResponse(content string) string {
	return `{"choices": [{"message": {"role": "assistant", "content": "` + content + `"}}]}`
}

func TestChatRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse("第三次成功")))
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 3)
	content, err := svc.Chat(context.Background(), "system", "prompt", nil)

	assert.NoError(t, err)
	assert.Equal(t, "第三次成功", content)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestChatDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "bad request"}}`))
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 3)
	_, err := svc.Chat(context.Background(), "", "prompt", nil)

	assert.Error(t, err)
	// 4xx 是请求本身的问题，不重试
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestChatExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 2)
	_, err := svc.Chat(context.Background(), "", "prompt", nil)

	assert.Error(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestChatSendsHistoryAndSystem(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse("ok")))
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 1)
	history := []AIChatMessage{
		{Role: "user", Content: "之前的问题"},
		{Role: "assistant", Content: "之前的回答"},
	}
	_, err := svc.Chat(context.Background(), "你是导师", "新问题", history)

	assert.NoError(t, err)
	body := string(gotBody)
	assert.Contains(t, body, `"system"`)
	assert.Contains(t, body, "之前的问题")
	assert.Contains(t, body, "之前的回答")
	assert.Contains(t, body, "新问题")
}

func TestGenerateJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "结果如下：{\"score\": 42}"}}]}`))
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL, 1)
	var out struct {
		Score int `json:"score"`
	}
	err := svc.GenerateJSON(context.Background(), "", "打分", &out)

	assert.NoError(t, err)
	assert.Equal(t, 42, out.Score)
}
