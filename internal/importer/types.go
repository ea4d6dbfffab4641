package importer

import (
	"time"

	"gradesheet/internal/model"
)

// BlockStatus 学期块处理状态
type BlockStatus string

const (
	BlockImported BlockStatus = "imported"
	BlockSkipped  BlockStatus = "skipped"
	BlockError    BlockStatus = "error"
)

// BlockResult 单个学期块的处理结果
type BlockResult struct {
	Index        int             `json:"index"`
	SemesterID   string          `json:"semesterId,omitempty"`
	SemesterName string          `json:"semesterName,omitempty"`
	Status       BlockStatus     `json:"status"`
	Reason       string          `json:"reason,omitempty"`
	Err          error           `json:"-"`
	Rows         []model.FlatRow `json:"-"`
}

// Report 展平报告
type Report struct {
	DocumentID     string        `json:"documentId"`
	TotalBlocks    int           `json:"totalBlocks"`
	ImportedBlocks int           `json:"importedBlocks"`
	SkippedBlocks  int           `json:"skippedBlocks"`
	ErrorBlocks    int           `json:"errorBlocks"`
	TotalRows      int           `json:"totalRows"`
	Duration       time.Duration `json:"duration"`
	Blocks         []BlockResult `json:"blocks"`
}

// Rows 按输入顺序汇总所有已导入学期块的行
func (r *Report) Rows() []model.FlatRow {
	rows := make([]model.FlatRow, 0, r.TotalRows)
	for _, b := range r.Blocks {
		if b.Status == BlockImported {
			rows = append(rows, b.Rows...)
		}
	}
	return rows
}

func (r *Report) record(res BlockResult) {
	r.Blocks = append(r.Blocks, res)
	switch res.Status {
	case BlockImported:
		r.ImportedBlocks++
		r.TotalRows += len(res.Rows)
	case BlockSkipped:
		r.SkippedBlocks++
	case BlockError:
		r.ErrorBlocks++
	}
}
