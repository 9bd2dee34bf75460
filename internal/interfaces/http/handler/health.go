// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"genai-bot-api/internal/infrastructure/docstore"
	"genai-bot-api/internal/infrastructure/persistence/sqlite"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	index *sqlite.Client
	docs  *docstore.Store
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(index *sqlite.Client, docs *docstore.Store) *HealthHandler {
	return &HealthHandler{index: index, docs: docs}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready 就绪检查接口：向量索引可用才接收流量
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"vector_index":  {Status: "unknown"},
		"documents_dir": {Status: "unknown"},
	}
	ready := true

	if h == nil || h.index == nil {
		checks["vector_index"].Status = "missing"
		checks["vector_index"].Error = "vector index not configured"
		ready = false
	} else {
		start := time.Now()
		err := h.index.HealthCheck(ctx)
		checks["vector_index"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["vector_index"].Status = "error"
			checks["vector_index"].Error = err.Error()
			ready = false
		} else {
			checks["vector_index"].Status = "ok"
		}
	}

	if h == nil || h.docs == nil {
		checks["documents_dir"].Status = "missing"
		checks["documents_dir"].Error = "document store not configured"
		ready = false
	} else if info, err := os.Stat(h.docs.Dir()); err != nil || !info.IsDir() {
		checks["documents_dir"].Status = "error"
		if err != nil {
			checks["documents_dir"].Error = err.Error()
		} else {
			checks["documents_dir"].Error = fmt.Sprintf("%s is not a directory", h.docs.Dir())
		}
		ready = false
	} else {
		checks["documents_dir"].Status = "ok"
	}

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
