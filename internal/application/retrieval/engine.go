package retrieval

import (
	"context"
	"strings"
	"time"

	apperrors "genai-bot-api/pkg/errors"
	"genai-bot-api/pkg/metrics"
)

const defaultTopK = 3

// Engine 向量检索入口：查询向量化 + 相似度检索。
// 相似度度量为余弦相似度，与索引侧保持一致。
type Engine struct {
	embedder Embedder
	vector   VectorRepository
	topK     int
}

func NewEngine(embedder Embedder, vectorRepo VectorRepository, topK int) *Engine {
	k := topK
	if k <= 0 {
		k = defaultTopK
	}
	return &Engine{
		embedder: embedder,
		vector:   vectorRepo,
		topK:     k,
	}
}

// Search 对 query 做向量检索，按相似度降序返回最多 topK 个片段。
// 索引为空不是错误：返回空切片，由上层决定如何处理空上下文。
func (e *Engine) Search(ctx context.Context, query string) ([]Segment, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "query is required")
	}

	vec, err := e.embedder.Embed(ctx, q)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "failed to embed query")
	}

	start := time.Now()
	results, err := e.vector.SearchSegments(ctx, vec, e.topK)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeVectorDBError, "vector search failed")
	}
	metrics.VectorSearchDuration.Observe(time.Since(start).Seconds())

	out := make([]Segment, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		out = append(out, Segment{
			ID:     strings.TrimSpace(r.ID),
			Source: strings.TrimSpace(r.Source),
			Text:   strings.TrimSpace(r.TextContent),
			Score:  r.Score,
		})
	}
	return out, nil
}

// TopK 返回检索条数配置
func (e *Engine) TopK() int {
	return e.topK
}
