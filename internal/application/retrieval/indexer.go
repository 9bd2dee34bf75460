package retrieval

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"genai-bot-api/internal/domain/entity"
	apperrors "genai-bot-api/pkg/errors"
	"genai-bot-api/pkg/logger"
	"genai-bot-api/pkg/metrics"
)

const (
	defaultChunkSizeRunes    = 1000
	defaultChunkOverlapRunes = 200
)

// Indexer 负责文档摄取：切分、向量化并写入向量索引。
// 索引写入持有互斥锁，防止并发摄取与检索交错导致的索引损坏。
type Indexer struct {
	embedder Embedder
	vector   VectorRepository

	chunkSizeRunes    int
	chunkOverlapRunes int

	mu sync.Mutex
}

func NewIndexer(embedder Embedder, vectorRepo VectorRepository, chunkSizeRunes, chunkOverlapRunes int) *Indexer {
	cs := chunkSizeRunes
	if cs <= 0 {
		cs = defaultChunkSizeRunes
	}
	co := chunkOverlapRunes
	if co < 0 || co >= cs {
		co = defaultChunkOverlapRunes
	}
	return &Indexer{
		embedder:          embedder,
		vector:            vectorRepo,
		chunkSizeRunes:    cs,
		chunkOverlapRunes: co,
	}
}

// Ingest 摄取一批文档，返回写入索引的片段总数。
// 空文档集合为 no-op；重复上传同名文档会原子替换旧片段（不累积重复片段）。
// 任何一次 Embedding 调用失败都会中止整个摄取，不产生部分结果；
// 切分与向量化先于索引写入，失败时同名文档的旧片段保持可检索。
func (i *Indexer) Ingest(ctx context.Context, docs []*entity.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	start := time.Now()
	i.mu.Lock()
	defer i.mu.Unlock()

	total := 0
	for _, doc := range docs {
		if doc == nil || strings.TrimSpace(doc.Source) == "" {
			continue
		}

		// 正文为空的文档只清理旧片段
		if doc.Empty() {
			if err := i.vector.DeleteSegmentsBySource(ctx, doc.Source); err != nil {
				return total, apperrors.Wrap(err, apperrors.CodeVectorDBError, "failed to clear indexed segments").WithDetail(doc.Source)
			}
			continue
		}

		chunks := splitByRunes(doc.Content, i.chunkSizeRunes, i.chunkOverlapRunes)
		if len(chunks) == 0 {
			continue
		}

		vectors, err := i.embedder.EmbedBatch(ctx, chunks)
		if err != nil {
			return total, apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "failed to embed document chunks").WithDetail(doc.Source)
		}

		segments := make([]*VectorSegment, 0, len(chunks))
		for seq, chunk := range chunks {
			segments = append(segments, &VectorSegment{
				ID:          uuid.NewString(),
				Source:      doc.Source,
				Seq:         seq,
				TextContent: chunk,
				Vector:      vectors[seq],
			})
		}

		if err := i.vector.ReplaceSegments(ctx, doc.Source, segments); err != nil {
			return total, apperrors.Wrap(err, apperrors.CodeVectorDBError, "failed to replace indexed segments").WithDetail(doc.Source)
		}

		total += len(segments)
		metrics.DocumentsIngestedTotal.Inc()
		metrics.ChunksIndexedTotal.Add(float64(len(segments)))
		logger.Info(ctx, "document indexed",
			"source", doc.Source,
			"chunks", len(segments),
		)
	}

	metrics.IngestDuration.Observe(time.Since(start).Seconds())
	if n, err := i.vector.Count(ctx); err == nil {
		metrics.VectorIndexSize.Set(float64(n))
	}
	return total, nil
}
