// Package sqlite 提供基于 SQLite 的本地向量索引持久化
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS segments (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	seq          INTEGER NOT NULL,
	text_content TEXT NOT NULL,
	vector       BLOB NOT NULL,
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_segments_source ON segments(source);
`

// Client SQLite 连接封装。索引文件的父目录不存在时自动创建。
type Client struct {
	db   *sql.DB
	path string
}

// NewClient 打开（必要时创建）索引数据库并初始化表结构
func NewClient(indexPath string) (*Client, error) {
	dir := filepath.Dir(indexPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	// WAL 模式提升读写并发
	db, err := sql.Open("sqlite", indexPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init vector index schema: %w", err)
	}

	return &Client{db: db, path: indexPath}, nil
}

// DB 返回底层连接
func (c *Client) DB() *sql.DB {
	return c.db
}

// Path 返回索引文件路径
func (c *Client) Path() string {
	return c.path
}

// HealthCheck 检查数据库连通性
func (c *Client) HealthCheck(ctx context.Context) error {
	if c == nil || c.db == nil {
		return fmt.Errorf("sqlite client not configured")
	}
	return c.db.PingContext(ctx)
}

// Close 关闭数据库连接
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
