package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gradesheet/internal/loader"
	"gradesheet/internal/model"
)

// ErrMalformedBlock 学期块结构不完整（缺键/缺下标），仅跳过该块
var ErrMalformedBlock = errors.New("malformed semester block")

// Coordinator 展平协调器：学期块 -> 成绩行
type Coordinator struct {
	logger log.Logger
}

// NewCoordinator 创建展平协调器
func NewCoordinator(logger log.Logger) *Coordinator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Coordinator{logger: logger}
}

// Import 按输入顺序处理全部学期块
func (c *Coordinator) Import(doc *loader.Document) *Report {
	startTime := time.Now()

	report := &Report{
		DocumentID:  doc.ID,
		TotalBlocks: doc.Len(),
		Blocks:      make([]BlockResult, 0, doc.Len()),
	}

	for i, raw := range doc.Blocks {
		res := c.processBlock(i, raw)
		switch res.Status {
		case BlockSkipped:
			level.Info(c.logger).Log("msg", "跳过学期", "index", i, "reason", res.Reason)
		case BlockError:
			level.Warn(c.logger).Log("msg", "处理学期失败", "index", i, "err", res.Err)
		}
		report.record(res)
	}

	report.Duration = time.Since(startTime)
	return report
}

// processBlock 处理单个学期块
func (c *Coordinator) processBlock(index int, raw json.RawMessage) BlockResult {
	res := BlockResult{Index: index}

	block, err := decodeBlock(raw)
	if err != nil {
		return failed(res, err)
	}

	if block.Grades == nil {
		return failed(res, fmt.Errorf("%w: missing semesterId2studentGrades", ErrMalformedBlock))
	}
	if len(block.Grades) == 0 {
		res.Status = BlockSkipped
		res.Reason = "semesterId2studentGrades 为空"
		return res
	}

	semesterID, ignored := selectSemesterID(block.Grades)
	res.SemesterID = semesterID
	if len(ignored) > 0 {
		level.Warn(c.logger).Log("msg", "存在多个学期ID，仅处理最小的一个", "index", index, "semester_id", semesterID, "ignored", fmt.Sprint(ignored))
	}

	grades, err := decodeGrades(block.Grades[semesterID])
	if err != nil {
		return failed(res, fmt.Errorf("%w: grades of %s: %v", ErrMalformedBlock, semesterID, err))
	}
	if len(grades) == 0 {
		res.Status = BlockSkipped
		res.Reason = fmt.Sprintf("学期 %s 没有成绩", semesterID)
		return res
	}

	name, err := semesterName(block)
	if err != nil {
		return failed(res, err)
	}
	res.SemesterName = name

	level.Info(c.logger).Log("msg", "处理学期", "semester", name, "semester_id", semesterID, "grades", len(grades))

	res.Rows = make([]model.FlatRow, 0, len(grades))
	for _, g := range grades {
		row := model.NewFlatRow(g)
		res.Rows = append(res.Rows, row)
		level.Info(c.logger).Log("msg", "添加课程", "course_code", fmt.Sprint(row.CourseCode))
	}
	res.Status = BlockImported
	return res
}

func failed(res BlockResult, err error) BlockResult {
	res.Status = BlockError
	res.Err = err
	res.Reason = err.Error()
	res.Rows = nil
	return res
}

func decodeBlock(raw json.RawMessage) (*model.SemesterBlock, error) {
	var block model.SemesterBlock
	if err := decodeJSON(raw, &block); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}
	return &block, nil
}

// decodeGrades 只解码选中学期的成绩列表，null 视为空列表
func decodeGrades(raw json.RawMessage) ([]model.GradeRecord, error) {
	var grades []model.GradeRecord
	if err := decodeJSON(raw, &grades); err != nil {
		return nil, err
	}
	return grades, nil
}

func decodeJSON(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// selectSemesterID 取字典序最小的学期ID，其余返回以便告警
func selectSemesterID(grades map[string]json.RawMessage) (string, []string) {
	ids := make([]string, 0, len(grades))
	for id := range grades {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0], ids[1:]
}

// semesterName 只解码 semesters[0]，其余元素不检查
func semesterName(block *model.SemesterBlock) (string, error) {
	if len(block.Semesters) == 0 {
		return "", fmt.Errorf("%w: missing semesters", ErrMalformedBlock)
	}
	var semesters []json.RawMessage
	if err := json.Unmarshal(block.Semesters, &semesters); err != nil {
		return "", fmt.Errorf("%w: semesters: %v", ErrMalformedBlock, err)
	}
	if len(semesters) == 0 {
		return "", fmt.Errorf("%w: semesters is empty", ErrMalformedBlock)
	}

	var first model.Semester
	if err := decodeJSON(semesters[0], &first); err != nil {
		return "", fmt.Errorf("%w: semesters[0]: %v", ErrMalformedBlock, err)
	}
	name, ok := first.NameZh()
	if !ok {
		return "", fmt.Errorf("%w: semesters[0] missing nameZh", ErrMalformedBlock)
	}
	return name, nil
}
