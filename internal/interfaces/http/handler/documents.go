// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"genai-bot-api/internal/domain/entity"
	"genai-bot-api/internal/infrastructure/docstore"
	"genai-bot-api/internal/interfaces/http/dto"
	apperrors "genai-bot-api/pkg/errors"
	"genai-bot-api/pkg/logger"
)

// Ingestor 上传处理器对索引器的依赖（port）
type Ingestor interface {
	Ingest(ctx context.Context, docs []*entity.Document) (int, error)
}

// DocumentHandler 文档上传处理器
type DocumentHandler struct {
	docs    *docstore.Store
	indexer Ingestor
}

// NewDocumentHandler 创建文档上传处理器
func NewDocumentHandler(docs *docstore.Store, indexer Ingestor) *DocumentHandler {
	return &DocumentHandler{
		docs:    docs,
		indexer: indexer,
	}
}

// Upload 上传并摄取文档
// POST /upload，multipart 字段名 files
//
// 非原子：失败前已落盘/已入索引的文件保持其新状态，客户端收到 500 后
// 重新上传同一批文件即可收敛（落盘覆盖、索引按来源替换）。
func (h *DocumentHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		dto.BadRequest(c, "No files provided")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		dto.BadRequest(c, "No files provided")
		return
	}

	ctx := c.Request.Context()

	// 先落盘（同名覆盖），再增量写入索引
	docs := make([]*entity.Document, 0, len(files))
	for _, fh := range files {
		if fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			logger.Error(ctx, "failed to open upload", err, "filename", fh.Filename)
			dto.FromError(c, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to read upload"))
			return
		}
		doc, err := h.docs.Save(fh.Filename, f)
		f.Close()
		if err != nil {
			logger.Error(ctx, "failed to save upload", err, "filename", fh.Filename)
			dto.FromError(c, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to store upload"))
			return
		}
		docs = append(docs, doc)
	}

	chunks, err := h.indexer.Ingest(ctx, docs)
	if err != nil {
		logger.Error(ctx, "ingest failed", err)
		dto.FromError(c, err)
		return
	}

	logger.Info(ctx, "documents uploaded", "files", len(docs), "chunks", chunks)
	dto.Message(c, fmt.Sprintf(
		"Successfully processed %d files. Documents are stored in the '%s' directory.",
		len(docs), h.docs.Dir(),
	))
}
