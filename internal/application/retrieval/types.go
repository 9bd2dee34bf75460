package retrieval

import "context"

// Segment 检索返回的片段，Source 标识片段来源文档。
type Segment struct {
	ID     string
	Source string
	Text   string
	Score  float64
}

// Embedder 定义应用层对 Embedding 服务的最小依赖（port）。
// EmbedBatch 保序：返回向量与输入文本一一对应。
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
