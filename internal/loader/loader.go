package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
)

var (
	// ErrFileNotFound 输入文件不存在
	ErrFileNotFound = errors.New("input file not found")
	// ErrInvalidFormat 输入不是合法 JSON 或顶层不是数组
	ErrInvalidFormat = errors.New("invalid JSON format")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document 已加载的成绩文档
type Document struct {
	ID     string
	Path   string
	Blocks []json.RawMessage
}

// Len 学期块数量
func (d *Document) Len() int {
	return len(d.Blocks)
}

// Load 读取并校验成绩 JSON
//
// 单个学期块的结构问题留给展平阶段处理，这里只保证整体是合法的 JSON 数组。
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse 解析内存中的成绩 JSON
func Parse(path string, data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w in %s", ErrInvalidFormat, path)
	}

	var blocks []json.RawMessage
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("%w in %s: top level must be an array", ErrInvalidFormat, path)
	}
	if blocks == nil {
		// 顶层为 null
		return nil, fmt.Errorf("%w in %s: top level must be an array", ErrInvalidFormat, path)
	}

	return &Document{
		ID:     uuid.New().String(),
		Path:   path,
		Blocks: blocks,
	}, nil
}
