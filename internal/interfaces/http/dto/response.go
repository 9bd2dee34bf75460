// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "genai-bot-api/pkg/errors"
)

// MessageResponse 简单成功消息响应
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse 错误响应，形如 {"error": "..."}
type ErrorResponse struct {
	Error string `json:"error"`
}

// Message 返回 200 成功消息
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// Error 返回指定状态码的错误响应
func Error(c *gin.Context, httpCode int, msg string) {
	c.JSON(httpCode, ErrorResponse{Error: msg})
}

// BadRequest 返回 400 错误
func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg)
}

// FromError 按错误分类映射状态码：校验类 400，其余 500。
// 仅在请求边界调用；流水线内部错误原样向上传播。
func FromError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	msg := appErr.Message
	if appErr.Err != nil {
		msg = appErr.Message + ": " + appErr.Err.Error()
	}
	Error(c, appErr.HTTPStatus, msg)
}
