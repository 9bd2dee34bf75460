// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"genai-bot-api/internal/application/conversation"
	"genai-bot-api/internal/interfaces/http/dto"
	"genai-bot-api/pkg/logger"
)

// ConversationHandler 对话历史处理器
type ConversationHandler struct {
	memory *conversation.Memory
}

// NewConversationHandler 创建对话历史处理器
func NewConversationHandler(memory *conversation.Memory) *ConversationHandler {
	return &ConversationHandler{memory: memory}
}

// Clear 清空对话历史，幂等：无历史时同样返回成功
// DELETE /clear-chat
func (h *ConversationHandler) Clear(c *gin.Context) {
	h.memory.Clear()
	logger.Info(c.Request.Context(), "chat history cleared")
	dto.Message(c, "Chat history cleared successfully")
}
