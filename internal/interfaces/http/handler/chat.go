// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"genai-bot-api/internal/application/chat"
	"genai-bot-api/internal/interfaces/http/dto"
	"genai-bot-api/pkg/logger"
)

// Answerer 对话处理器对问答编排的依赖（port），便于测试替换。
type Answerer interface {
	Ask(ctx context.Context, question string) (*chat.Answer, error)
}

// ChatHandler 对话处理器
type ChatHandler struct {
	orchestrator Answerer
}

// NewChatHandler 创建对话处理器
func NewChatHandler(orchestrator Answerer) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator}
}

// Chat 提交对话消息
// POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "No message provided")
		return
	}
	if strings.TrimSpace(req.UserQuery) == "" {
		dto.BadRequest(c, "No message provided")
		return
	}

	answer, err := h.orchestrator.Ask(c.Request.Context(), req.UserQuery)
	if err != nil {
		logger.Error(c.Request.Context(), "chat failed", err)
		dto.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewChatResponse(answer.Content, answer.Sources))
}
