package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-bot-api/internal/application/conversation"
)

func TestConversationHandler_Clear(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(memory *conversation.Memory) *gin.Engine {
		r := gin.New()
		r.DELETE("/clear-chat", NewConversationHandler(memory).Clear)
		return r
	}

	deleteClear := func(r *gin.Engine) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/clear-chat", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("clears existing history", func(t *testing.T) {
		memory := conversation.NewMemory()
		memory.Append("q1", "a1")
		memory.Append("q2", "a2")

		w := deleteClear(newRouter(memory))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Chat history cleared successfully"}`, w.Body.String())
		assert.Equal(t, 0, memory.Len())
	})

	t.Run("clearing empty history still succeeds", func(t *testing.T) {
		memory := conversation.NewMemory()

		w := deleteClear(newRouter(memory))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Chat history cleared successfully"}`, w.Body.String())
	})
}
