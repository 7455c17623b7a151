package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"skillforge_backend/internal/config"
	"skillforge_backend/pkg/logger"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AIService 封装 OpenAI 兼容的对话补全接口
// 网络错误与 5xx 按线性退避重试，4xx 视为请求本身有问题不重试
// 配置支持热更新，每次请求开始时取一次快照
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// UpdateConfig 热更新 AI 配置，进行中的请求继续用旧快照
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.client = &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

func (s *AIService) snapshot() (config.AIConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// retryableError 标记可重试的失败（网络错误或 5xx）
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Chat 单轮补全，带重试
func (s *AIService) Chat(ctx context.Context, system, prompt string, history []AIChatMessage) (string, error) {
	cfg, client := s.snapshot()

	messages := make([]AIChatMessage, 0, len(history)+2)
	if system != "" {
		messages = append(messages, AIChatMessage{Role: "system", Content: system})
	}
	messages = append(messages, history...)
	messages = append(messages, AIChatMessage{Role: "user", Content: prompt})

	reqBody := ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: 0.7,
	}

	var lastErr error
	for attempt := 0; attempt < cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			// 线性退避：delay * attempt
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(cfg.RetryDelay * time.Duration(attempt)):
			}
			logger.Log.Warn("AI 请求重试",
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr))
		}

		content, err := doRequest(ctx, client, &cfg, &reqBody)
		if err == nil {
			return content, nil
		}
		lastErr = err

		var re *retryableError
		if !asRetryable(err, &re) {
			return "", err
		}
	}

	return "", fmt.Errorf("AI 服务在 %d 次尝试后仍不可用: %w", cfg.RetryAttempts, lastErr)
}

func asRetryable(err error, target **retryableError) bool {
	re, ok := err.(*retryableError)
	if ok {
		*target = re
	}
	return ok
}

func doRequest(ctx context.Context, client *http.Client, cfg *config.AIConfig, reqBody *ChatCompletionRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", &retryableError{err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 500 {
		return "", &retryableError{err: fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// GenerateJSON 请求模型输出 JSON 并反序列化到 out
// 模型偶尔会在 JSON 外包裹说明文字或 markdown 代码块，先做一次剥离
func (s *AIService) GenerateJSON(ctx context.Context, system, prompt string, out interface{}) error {
	content, err := s.Chat(ctx, system, prompt, nil)
	if err != nil {
		return err
	}

	raw := ExtractJSON(content)
	if raw == "" {
		return fmt.Errorf("AI 响应中未找到 JSON: %.200s", content)
	}

	return json.Unmarshal([]byte(raw), out)
}

// ExtractJSON 从模型输出中截取首个完整的 JSON 对象或数组
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)

	// 去掉 markdown 代码块包裹
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	start := strings.IndexAny(content, "{[")
	if start < 0 {
		return ""
	}

	open := content[start]
	var closer byte = '}'
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}
