package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-bot-api/internal/application/conversation"
	"genai-bot-api/internal/application/retrieval"
	apperrors "genai-bot-api/pkg/errors"
)

type fakeRetriever struct {
	segments []retrieval.Segment
	err      error
	lastQ    string
}

func (f *fakeRetriever) Search(_ context.Context, query string) ([]retrieval.Segment, error) {
	f.lastQ = query
	return f.segments, f.err
}

type fakeChatModel struct {
	reply string
	err   error
	msgs  []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.msgs = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

type fakeFactory struct {
	chatModel model.BaseChatModel
	err       error
}

func (f *fakeFactory) Get(_ context.Context, _ string) (model.BaseChatModel, error) {
	return f.chatModel, f.err
}

func newTestOrchestrator(r Retriever, cm model.BaseChatModel) (*Orchestrator, *conversation.Memory) {
	memory := conversation.NewMemory()
	o := NewOrchestrator(r, memory, &fakeFactory{chatModel: cm}, "groq", "test-model")
	return o, memory
}

func TestOrchestrator_Ask(t *testing.T) {
	t.Run("answers with deduped sources in first-seen order", func(t *testing.T) {
		r := &fakeRetriever{segments: []retrieval.Segment{
			{Source: "faq.txt", Text: "chunk one"},
			{Source: "policy.txt", Text: "chunk two"},
			{Source: "faq.txt", Text: "chunk three"},
		}}
		cm := &fakeChatModel{reply: "the answer"}
		o, memory := newTestOrchestrator(r, cm)

		ans, err := o.Ask(context.Background(), "what is the policy?")

		require.NoError(t, err)
		assert.Equal(t, "the answer", ans.Content)
		assert.Equal(t, []string{"faq.txt", "policy.txt"}, ans.Sources)
		assert.Equal(t, "what is the policy?", r.lastQ)
		assert.Equal(t, 1, memory.Len())
	})

	t.Run("injects retrieved context into the system message", func(t *testing.T) {
		r := &fakeRetriever{segments: []retrieval.Segment{
			{Source: "faq.txt", Text: "shipping takes 3 days"},
		}}
		cm := &fakeChatModel{reply: "ok"}
		o, _ := newTestOrchestrator(r, cm)

		_, err := o.Ask(context.Background(), "how long is shipping?")

		require.NoError(t, err)
		require.NotEmpty(t, cm.msgs)
		assert.Equal(t, schema.System, cm.msgs[0].Role)
		assert.Contains(t, cm.msgs[0].Content, "shipping takes 3 days")
		assert.Contains(t, cm.msgs[0].Content, "faq.txt")
	})

	t.Run("empty index still calls the model with placeholder context", func(t *testing.T) {
		r := &fakeRetriever{}
		cm := &fakeChatModel{reply: "no documents to go on"}
		o, _ := newTestOrchestrator(r, cm)

		ans, err := o.Ask(context.Background(), "anything?")

		require.NoError(t, err)
		assert.Equal(t, "no documents to go on", ans.Content)
		assert.Empty(t, ans.Sources)
		require.NotEmpty(t, cm.msgs)
		assert.Contains(t, cm.msgs[0].Content, "(no documents indexed yet)")
	})

	t.Run("carries history into subsequent turns", func(t *testing.T) {
		r := &fakeRetriever{}
		cm := &fakeChatModel{reply: "answer"}
		o, _ := newTestOrchestrator(r, cm)

		_, err := o.Ask(context.Background(), "first question")
		require.NoError(t, err)
		_, err = o.Ask(context.Background(), "second question")
		require.NoError(t, err)

		// system + (q1, a1) + q2
		require.Len(t, cm.msgs, 4)
		assert.Equal(t, "first question", cm.msgs[1].Content)
		assert.Equal(t, schema.Assistant, cm.msgs[2].Role)
		assert.Equal(t, "second question", cm.msgs[3].Content)
	})

	t.Run("rejects blank question", func(t *testing.T) {
		o, memory := newTestOrchestrator(&fakeRetriever{}, &fakeChatModel{reply: "x"})

		_, err := o.Ask(context.Background(), "   ")

		require.Error(t, err)
		appErr := apperrors.AsAppError(err)
		assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
		assert.Equal(t, 0, memory.Len())
	})

	t.Run("retriever failure aborts without touching history", func(t *testing.T) {
		r := &fakeRetriever{err: apperrors.New(apperrors.CodeEmbeddingFailed, "embedding service unavailable")}
		o, memory := newTestOrchestrator(r, &fakeChatModel{reply: "x"})

		_, err := o.Ask(context.Background(), "question")

		require.Error(t, err)
		assert.Equal(t, 0, memory.Len())
	})

	t.Run("LLM failure aborts without touching history", func(t *testing.T) {
		cm := &fakeChatModel{err: errors.New("upstream timeout")}
		o, memory := newTestOrchestrator(&fakeRetriever{}, cm)

		_, err := o.Ask(context.Background(), "question")

		require.Error(t, err)
		appErr := apperrors.AsAppError(err)
		assert.Equal(t, apperrors.CodeLLMCallFailed, appErr.Code)
		assert.Equal(t, 0, memory.Len())
	})

	t.Run("empty LLM reply is an error", func(t *testing.T) {
		cm := &fakeChatModel{reply: "   "}
		o, memory := newTestOrchestrator(&fakeRetriever{}, cm)

		_, err := o.Ask(context.Background(), "question")

		require.Error(t, err)
		assert.Equal(t, 0, memory.Len())
	})
}
