package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-bot-api/internal/application/chat"
	apperrors "genai-bot-api/pkg/errors"
)

type fakeAnswerer struct {
	answer *chat.Answer
	err    error
	lastQ  string
}

func (f *fakeAnswerer) Ask(_ context.Context, question string) (*chat.Answer, error) {
	f.lastQ = question
	return f.answer, f.err
}

func newChatRouter(answerer Answerer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat", NewChatHandler(answerer).Chat)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatHandler_Chat(t *testing.T) {
	t.Run("returns answer in choices envelope", func(t *testing.T) {
		answerer := &fakeAnswerer{answer: &chat.Answer{
			Content: "the answer",
			Sources: []string{"faq.txt"},
		}}
		w := postJSON(t, newChatRouter(answerer), "/chat", `{"userQuery":"what is it?"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Choices []struct {
				Message struct {
					Content string   `json:"content"`
					Sources []string `json:"sources"`
				} `json:"message"`
			} `json:"choices"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Choices, 1)
		assert.Equal(t, "the answer", resp.Choices[0].Message.Content)
		assert.Equal(t, []string{"faq.txt"}, resp.Choices[0].Message.Sources)
		assert.Equal(t, "what is it?", answerer.lastQ)
	})

	t.Run("nil sources serialize as empty array", func(t *testing.T) {
		answerer := &fakeAnswerer{answer: &chat.Answer{Content: "no sources"}}
		w := postJSON(t, newChatRouter(answerer), "/chat", `{"userQuery":"q"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"sources":[]`)
	})

	t.Run("missing message is a 400", func(t *testing.T) {
		w := postJSON(t, newChatRouter(&fakeAnswerer{}), "/chat", `{}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No message provided"}`, w.Body.String())
	})

	t.Run("blank message is a 400", func(t *testing.T) {
		w := postJSON(t, newChatRouter(&fakeAnswerer{}), "/chat", `{"userQuery":"   "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		w := postJSON(t, newChatRouter(&fakeAnswerer{}), "/chat", `{"userQuery":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("pipeline failure maps to 500 with error body", func(t *testing.T) {
		answerer := &fakeAnswerer{err: apperrors.New(apperrors.CodeLLMCallFailed, "LLM call failed")}
		w := postJSON(t, newChatRouter(answerer), "/chat", `{"userQuery":"q"}`)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp["error"], "LLM call failed")
	})
}
