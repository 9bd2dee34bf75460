// Package conversation 提供进程内对话历史管理
package conversation

import (
	"sync"

	"genai-bot-api/internal/domain/entity"
)

// Memory 进程内的多轮对话缓冲：按插入顺序保存 (question, answer) 轮次，
// 直到被显式清空。生命周期与进程一致，不做持久化。
type Memory struct {
	mu    sync.RWMutex
	turns []entity.ConversationTurn
}

// NewMemory 创建对话缓冲
func NewMemory() *Memory {
	return &Memory{}
}

// Append 追加一轮对话
func (m *Memory) Append(question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, entity.NewConversationTurn(question, answer))
}

// History 返回历史快照。返回副本：调用方读取期间并发的 Clear/Append
// 不会影响已取得的快照。
func (m *Memory) History() []entity.ConversationTurn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.ConversationTurn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Clear 清空全部历史；对空缓冲调用为幂等 no-op。
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
}

// Len 返回当前轮次数
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.turns)
}
