// Package chat 提供检索增强的问答编排
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"genai-bot-api/internal/application/conversation"
	"genai-bot-api/internal/application/retrieval"
	apperrors "genai-bot-api/pkg/errors"
	"genai-bot-api/pkg/logger"
	"genai-bot-api/pkg/metrics"
)

const systemPromptTemplate = `You are a helpful assistant answering questions about the user's documents.
Use the following retrieved context to ground your answer. If the context does
not contain the answer, say so instead of guessing.

Context:
%CONTEXT%`

// Answer 问答结果：回答文本与去重后的来源标识集合。
type Answer struct {
	Content string
	Sources []string
}

// Orchestrator 串联检索、对话历史与 LLM 调用。
// 整条流水线同步执行，单次外部调用失败即中止，不返回部分回答。
type Orchestrator struct {
	retriever Retriever
	memory    *conversation.Memory
	models    ChatModelFactory

	provider string
	model    string
}

// NewOrchestrator 创建问答编排器。provider/model 仅用于指标标签。
func NewOrchestrator(retriever Retriever, memory *conversation.Memory, models ChatModelFactory, provider, model string) *Orchestrator {
	return &Orchestrator{
		retriever: retriever,
		memory:    memory,
		models:    models,
		provider:  provider,
		model:     model,
	}
}

// Ask 回答用户问题：
//  1. 向量检索 top-K 相关片段（索引为空时上下文为空，仍然调用 LLM）；
//  2. 组装消息：系统提示（含召回上下文）+ 历史轮次 + 新问题；
//  3. 调用 LLM，提取回答文本；
//  4. 按首次出现顺序收集去重后的来源标识；
//  5. 将 (question, answer) 追加到对话历史。
func (o *Orchestrator) Ask(ctx context.Context, question string) (*Answer, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "userQuery is required")
	}

	pipelineStart := time.Now()

	segments, err := o.retriever.Search(ctx, q)
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	msgs := o.buildMessages(segments, q)

	chatModel, err := o.models.Get(ctx, "")
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "chat model unavailable")
	}

	llmStart := time.Now()
	outMsg, err := chatModel.Generate(ctx, msgs)
	metrics.LLMCallDuration.WithLabelValues(o.provider, o.model).Observe(time.Since(llmStart).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(o.provider, o.model, "error").Inc()
		metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "LLM call failed")
	}
	if outMsg == nil || strings.TrimSpace(outMsg.Content) == "" {
		metrics.LLMCallTotal.WithLabelValues(o.provider, o.model, "error").Inc()
		metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
		return nil, apperrors.New(apperrors.CodeLLMCallFailed, "empty LLM response")
	}
	metrics.LLMCallTotal.WithLabelValues(o.provider, o.model, "ok").Inc()

	answer := strings.TrimSpace(outMsg.Content)
	o.memory.Append(q, answer)

	metrics.ChatRequestsTotal.WithLabelValues("ok").Inc()
	metrics.ChatAnswerDuration.WithLabelValues("ok").Observe(time.Since(pipelineStart).Seconds())
	logger.Info(ctx, "chat answered",
		"retrieved_segments", len(segments),
		"history_turns", o.memory.Len(),
	)

	return &Answer{
		Content: answer,
		Sources: dedupSources(segments),
	}, nil
}

// buildMessages 组装 LLM 消息序列
func (o *Orchestrator) buildMessages(segments []retrieval.Segment, question string) []*schema.Message {
	contextBlock := retrieval.BuildPromptContext(segments, 0)
	if contextBlock == "" {
		contextBlock = "(no documents indexed yet)"
	}
	system := strings.ReplaceAll(systemPromptTemplate, "%CONTEXT%", contextBlock)

	history := o.memory.History()
	msgs := make([]*schema.Message, 0, len(history)*2+2)
	msgs = append(msgs, schema.SystemMessage(system))
	for _, turn := range history {
		msgs = append(msgs, schema.UserMessage(turn.Question))
		msgs = append(msgs, schema.AssistantMessage(turn.Answer, nil))
	}
	msgs = append(msgs, schema.UserMessage(question))
	return msgs
}

// dedupSources 收集去重后的来源标识，保持首次出现顺序
func dedupSources(segments []retrieval.Segment) []string {
	seen := make(map[string]struct{}, len(segments))
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		src := strings.TrimSpace(s.Source)
		if src == "" {
			continue
		}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}
