// Package docstore 提供磁盘文档库：一个文件对应一个来源标识
package docstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"genai-bot-api/internal/domain/entity"
)

// Store 本地文档目录。文件名即来源标识；同名上传直接覆盖。
type Store struct {
	dir string
}

// NewStore 创建文档库，目录不存在时自动创建
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("documents directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create documents directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir 返回文档目录路径
func (s *Store) Dir() string {
	return s.dir
}

// Save 将上传内容写入 <dir>/<source>。source 取 Base 以阻断路径穿越。
func (s *Store) Save(source string, r io.Reader) (*entity.Document, error) {
	name := filepath.Base(strings.TrimSpace(source))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid document name: %q", source)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save document %s: %w", name, err)
	}

	return entity.NewDocument(name, string(content)), nil
}

// LoadAll 读取目录下的全部 .txt 文档，按文件名排序
func (s *Store) LoadAll() ([]*entity.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory: %w", err)
	}

	docs := make([]*entity.Document, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", e.Name(), err)
		}
		docs = append(docs, entity.NewDocument(e.Name(), string(content)))
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Source < docs[j].Source })
	return docs, nil
}
