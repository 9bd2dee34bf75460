// Package embedding 提供 Embedding 服务客户端
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"genai-bot-api/internal/config"
	"genai-bot-api/pkg/metrics"
)

const defaultTimeout = 30 * time.Second

// Client 调用外部 Embedding 服务。
// 服务契约：POST <endpoint> {"query": string} -> {"embedding": [float,...]}，
// 无批量端点，批量向量化逐条发起请求。
type Client struct {
	endpoint   string
	httpClient *http.Client
}

type embedRequest struct {
	Query string `json:"query"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func NewClient(cfg *config.EmbeddingConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: strings.TrimSpace(cfg.Endpoint),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Embed 将单条文本向量化
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := c.doEmbed(ctx, text)
	metrics.EmbeddingCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EmbeddingCallTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.EmbeddingCallTotal.WithLabelValues("ok").Inc()
	return vec, nil
}

// EmbedBatch 逐条向量化，保序：返回向量与输入一一对应。
// 任意一条失败即中止，不返回部分结果。
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := c.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (c *Client) doEmbed(ctx context.Context, text string) ([]float32, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("embedding endpoint is empty")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("embedding input is empty")
	}

	reqBody, err := json.Marshal(&embedRequest{Query: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding request failed: status=%d", httpResp.StatusCode)
	}

	var resp embedResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("embedding response is empty")
	}
	return resp.Embedding, nil
}
