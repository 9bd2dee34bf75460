// Package dto 提供 HTTP 层数据传输对象
package dto

// ChatRequest 对话请求
type ChatRequest struct {
	UserQuery string `json:"userQuery"`
}

// ChatMessage 对话回答：回答文本与去重后的来源标识列表
type ChatMessage struct {
	Content string   `json:"content"`
	Sources []string `json:"sources"`
}

// ChatChoice 对话候选
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}

// ChatResponse 对话响应，choices 结构与前端约定保持一致
type ChatResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// NewChatResponse 构建单候选对话响应
func NewChatResponse(content string, sources []string) ChatResponse {
	if sources == nil {
		sources = []string{}
	}
	return ChatResponse{
		Choices: []ChatChoice{
			{Message: ChatMessage{Content: content, Sources: sources}},
		},
	}
}
