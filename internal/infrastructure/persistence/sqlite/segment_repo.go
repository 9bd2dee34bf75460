package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"genai-bot-api/internal/application/retrieval"
)

// SegmentRepository retrieval.VectorRepository 的 SQLite 实现。
// 向量以小端 float32 BLOB 存储；检索端在 Go 里做全量余弦相似度暴力扫描，
// 对本地单机索引的规模（万级片段）足够。
type SegmentRepository struct {
	client *Client
}

// NewSegmentRepository 创建片段仓储
func NewSegmentRepository(client *Client) *SegmentRepository {
	return &SegmentRepository{client: client}
}

var _ retrieval.VectorRepository = (*SegmentRepository)(nil)

// ReplaceSegments 在单个事务内替换指定来源的全部片段：先删旧后插新。
// 事务失败回滚后旧片段仍可检索，不会出现删了旧片段却没写入新片段的窗口。
func (r *SegmentRepository) ReplaceSegments(ctx context.Context, source string, segments []*retrieval.VectorSegment) error {
	tx, err := r.client.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM segments WHERE source = ?`, source); err != nil {
		return fmt.Errorf("failed to clear segments for %s: %w", source, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO segments (id, source, seq, text_content, vector) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, seg := range segments {
		if seg == nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx, seg.ID, seg.Source, seg.Seq, seg.TextContent, float32SliceToBytes(seg.Vector)); err != nil {
			return fmt.Errorf("failed to insert segment %s: %w", seg.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit segments: %w", err)
	}
	return nil
}

// DeleteSegmentsBySource 删除指定来源的全部片段
func (r *SegmentRepository) DeleteSegmentsBySource(ctx context.Context, source string) error {
	if _, err := r.client.db.ExecContext(ctx, `DELETE FROM segments WHERE source = ?`, source); err != nil {
		return fmt.Errorf("failed to delete segments for %s: %w", source, err)
	}
	return nil
}

// Count 返回索引条目数
func (r *SegmentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.client.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM segments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count segments: %w", err)
	}
	return n, nil
}

// SearchSegments 按余弦相似度降序返回最多 topK 个条目。
// 索引为空时返回空切片，不视为错误。
func (r *SegmentRepository) SearchSegments(ctx context.Context, queryVector []float32, topK int) ([]*retrieval.VectorSearchResult, error) {
	if topK <= 0 {
		topK = 3
	}
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("query vector is empty")
	}

	rows, err := r.client.db.QueryContext(ctx, `SELECT id, source, text_content, vector FROM segments`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan segments: %w", err)
	}
	defer rows.Close()

	results := make([]*retrieval.VectorSearchResult, 0, 64)
	for rows.Next() {
		var (
			id, source, text string
			blob             []byte
		)
		if err := rows.Scan(&id, &source, &text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan segment row: %w", err)
		}
		vec := bytesToFloat32Slice(blob)
		score, ok := cosineSimilarity(queryVector, vec)
		if !ok {
			// 维度不匹配的历史数据直接跳过
			continue
		}
		results = append(results, &retrieval.VectorSearchResult{
			ID:          id,
			Source:      source,
			Score:       score,
			TextContent: text,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate segments: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// cosineSimilarity 计算余弦相似度；维度不一致或零向量返回 ok=false
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

func float32SliceToBytes(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
