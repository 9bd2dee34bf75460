// Package entity 定义领域实体
package entity

import "strings"

// Document 原始文档，Source 为来源标识（上传时的文件名）。
// 上传后不可变；系统不暴露删除操作。
type Document struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// NewDocument 创建文档实体
func NewDocument(source, content string) *Document {
	return &Document{
		Source:  strings.TrimSpace(source),
		Content: content,
	}
}

// Empty 判断文档正文是否为空
func (d *Document) Empty() bool {
	return d == nil || strings.TrimSpace(d.Content) == ""
}
