package retrieval

import "context"

// VectorRepository 定义应用层对“向量存储/检索”的最小依赖（port）。
// 由基础设施层提供具体实现（例如 SQLite）。
type VectorRepository interface {
	// SearchSegments 按余弦相似度降序返回最多 topK 个条目；索引为空时返回空切片。
	SearchSegments(ctx context.Context, queryVector []float32, topK int) ([]*VectorSearchResult, error)
	// ReplaceSegments 原子替换指定来源的全部片段：删除旧片段并写入新片段
	// 在同一事务内完成，失败时旧片段保持可检索。
	ReplaceSegments(ctx context.Context, source string, segments []*VectorSegment) error
	// DeleteSegmentsBySource 删除指定来源文档的全部片段。
	DeleteSegmentsBySource(ctx context.Context, source string) error
	// Count 返回索引条目数。
	Count(ctx context.Context) (int64, error)
}

type VectorSearchResult struct {
	ID          string
	Source      string
	Score       float64
	TextContent string
}

type VectorSegment struct {
	ID          string
	Source      string
	Seq         int
	TextContent string
	Vector      []float32
}
