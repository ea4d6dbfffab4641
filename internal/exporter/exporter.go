package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"gradesheet/internal/model"
)

const (
	// SheetName 输出工作表名
	SheetName = "成绩总览"
	// NoDataMarker 无数据时的占位行
	NoDataMarker = "无数据"
)

// Exporter 成绩总览导出器
//
// 只写单个工作表：表头 + 数据行，或者一行占位。不设置样式、合并单元格与公式。
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 生成工作簿
func (e *Exporter) Export(rows []model.FlatRow) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("重命名工作表失败: %w", err)
	}

	if err := e.fillSheet(f, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	return f, nil
}

func (e *Exporter) fillSheet(f *excelize.File, rows []model.FlatRow) error {
	if len(rows) == 0 {
		if err := f.SetCellStr(SheetName, "A1", NoDataMarker); err != nil {
			return fmt.Errorf("写入占位行失败: %w", err)
		}
		return nil
	}

	labels := model.Labels()
	header := make([]interface{}, len(labels))
	for i, l := range labels {
		header[i] = l
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	for i, r := range rows {
		values := r.Values()
		for j, v := range values {
			cv, ok := cellValue(v)
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, cv); err != nil {
				return fmt.Errorf("写入第 %d 行失败: %w", i+2, err)
			}
		}
	}

	return nil
}

// Save 生成工作簿并写入 path
//
// 先写同目录临时文件再重命名，写入失败时不会留下残缺的目标文件。
func (e *Exporter) Save(rows []model.FlatRow, path string) error {
	f, err := e.Export(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("写入工作簿失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入工作簿失败: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("保存 %s 失败: %w", path, err)
	}
	return nil
}

// cellValue 把 JSON 值转换为单元格值；nil 表示留空
func cellValue(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case string, bool:
		return x, true
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		if f, err := x.Float64(); err == nil {
			return f, true
		}
		return x.String(), true
	case float64, int, int64:
		return x, true
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x), true
		}
		return string(b), true
	}
}
