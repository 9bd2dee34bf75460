// Package entity 定义领域实体
package entity

import "time"

// ConversationTurn 一轮对话：用户提问与系统回答。
type ConversationTurn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// NewConversationTurn 创建对话轮次
func NewConversationTurn(question, answer string) ConversationTurn {
	return ConversationTurn{
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	}
}
