package chat

import (
	"context"

	"github.com/cloudwego/eino/components/model"

	"genai-bot-api/internal/application/retrieval"
)

// ChatModelFactory 定义应用层对 LLM ChatModel 的最小依赖（port）。
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}

// Retriever 定义应用层对向量检索的最小依赖（port）。
type Retriever interface {
	Search(ctx context.Context, query string) ([]retrieval.Segment, error)
}
