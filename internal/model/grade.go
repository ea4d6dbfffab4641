package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Field 成绩字段（源字段名 + 中文列名）
type Field struct {
	Key   string
	Label string
}

// 投影字段，顺序即输出列顺序
var (
	FieldSemesterName         = Field{Key: "semesterName", Label: "学期名称"}
	FieldCourseCode           = Field{Key: "courseCode", Label: "课程代码"}
	FieldCourseName           = Field{Key: "courseName", Label: "课程名称"}
	FieldCourseNameEn         = Field{Key: "courseNameEn", Label: "课程英文名称"}
	FieldLessonCode           = Field{Key: "lessonCode", Label: "课程序号"}
	FieldCredits              = Field{Key: "credits", Label: "学分"}
	FieldCourseType           = Field{Key: "courseType", Label: "课程类型"}
	FieldCourseProperty       = Field{Key: "courseProperty", Label: "课程属性"}
	FieldGaGrade              = Field{Key: "gaGrade", Label: "成绩"}
	FieldPassed               = Field{Key: "passed", Label: "是否通过"}
	FieldGp                   = Field{Key: "gp", Label: "绩点"}
	FieldGradeDetail          = Field{Key: "gradeDetail", Label: "成绩详情"}
	FieldPublished            = Field{Key: "published", Label: "是否公布"}
	FieldFillAGrace           = Field{Key: "fillAGrace", Label: "补考成绩"}
	FieldCompulsory           = Field{Key: "compulsory", Label: "是否必修"}
	FieldCourseModuleTypeName = Field{Key: "courseModuleTypeName", Label: "课程模块类型"}
)

// Fields 全部投影字段
var Fields = []Field{
	FieldSemesterName,
	FieldCourseCode,
	FieldCourseName,
	FieldCourseNameEn,
	FieldLessonCode,
	FieldCredits,
	FieldCourseType,
	FieldCourseProperty,
	FieldGaGrade,
	FieldPassed,
	FieldGp,
	FieldGradeDetail,
	FieldPublished,
	FieldFillAGrace,
	FieldCompulsory,
	FieldCourseModuleTypeName,
}

// Labels 返回表头（中文列名）
func Labels() []string {
	labels := make([]string, len(Fields))
	for i, f := range Fields {
		labels[i] = f.Label
	}
	return labels
}

// GradeDetailSeparator gradeDetail 拼接分隔符
const GradeDetailSeparator = "; "

// Semester 学期元数据
type Semester map[string]any

// NameZh 返回学期中文名；nameZh 缺失时 ok=false，显式 null 视为存在
func (s Semester) NameZh() (name string, ok bool) {
	v, ok := s["nameZh"]
	if !ok {
		return "", false
	}
	if v == nil {
		return "", true
	}
	if str, isStr := v.(string); isStr {
		return str, true
	}
	return fmt.Sprint(v), true
}

// GradeRecord 单门课程的学期成绩
type GradeRecord map[string]any

// Lookup 按字段取值，缺失返回 (nil, false)
func (g GradeRecord) Lookup(f Field) (any, bool) {
	v, ok := g[f.Key]
	return v, ok
}

// Value 按字段取值，缺失为 nil
func (g GradeRecord) Value(f Field) any {
	v, _ := g.Lookup(f)
	return v
}

// SemesterBlock 输入顶层数组中的一个学期块
//
// 只解析到第一层，semesters[0] 与选中学期的成绩列表在使用时再解码，
// 其余未读取部分的类型不影响处理。
type SemesterBlock struct {
	Semesters json.RawMessage            `json:"semesters"`
	Grades    map[string]json.RawMessage `json:"semesterId2studentGrades"`
}

// FlatRow 展平后的输出行，nil 表示空单元格
type FlatRow struct {
	SemesterName         any
	CourseCode           any
	CourseName           any
	CourseNameEn         any
	LessonCode           any
	Credits              any
	CourseType           any
	CourseProperty       any
	GaGrade              any
	Passed               any
	Gp                   any
	GradeDetail          string
	Published            any
	FillAGrace           any
	Compulsory           any
	CourseModuleTypeName any
}

// NewFlatRow 从成绩记录投影出一行
func NewFlatRow(g GradeRecord) FlatRow {
	return FlatRow{
		SemesterName:         g.Value(FieldSemesterName),
		CourseCode:           g.Value(FieldCourseCode),
		CourseName:           g.Value(FieldCourseName),
		CourseNameEn:         g.Value(FieldCourseNameEn),
		LessonCode:           g.Value(FieldLessonCode),
		Credits:              g.Value(FieldCredits),
		CourseType:           g.Value(FieldCourseType),
		CourseProperty:       g.Value(FieldCourseProperty),
		GaGrade:              g.Value(FieldGaGrade),
		Passed:               g.Value(FieldPassed),
		Gp:                   g.Value(FieldGp),
		GradeDetail:          JoinGradeDetail(g.Value(FieldGradeDetail)),
		Published:            g.Value(FieldPublished),
		FillAGrace:           g.Value(FieldFillAGrace),
		Compulsory:           g.Value(FieldCompulsory),
		CourseModuleTypeName: g.Value(FieldCourseModuleTypeName),
	}
}

// Values 按 Fields 顺序返回单元格值
func (r FlatRow) Values() []any {
	return []any{
		r.SemesterName,
		r.CourseCode,
		r.CourseName,
		r.CourseNameEn,
		r.LessonCode,
		r.Credits,
		r.CourseType,
		r.CourseProperty,
		r.GaGrade,
		r.Passed,
		r.Gp,
		r.GradeDetail,
		r.Published,
		r.FillAGrace,
		r.Compulsory,
		r.CourseModuleTypeName,
	}
}

// JoinGradeDetail 过滤空项后用 "; " 拼接
//
// 数组中的空字符串、null、false、0 均视为空项；单个字符串按字符拆分后拼接。
func JoinGradeDetail(v any) string {
	switch detail := v.(type) {
	case nil:
		return ""
	case string:
		chars := make([]string, 0, len(detail))
		for _, r := range detail {
			chars = append(chars, string(r))
		}
		return strings.Join(chars, GradeDetailSeparator)
	case []any:
		parts := make([]string, 0, len(detail))
		for _, item := range detail {
			if s, ok := detailPart(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, GradeDetailSeparator)
	default:
		s, _ := detailPart(detail)
		return s
	}
}

func detailPart(item any) (string, bool) {
	switch x := item.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case bool:
		if !x {
			return "", false
		}
		return "true", true
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return "", false
		}
		return x.String(), true
	case float64:
		if x == 0 {
			return "", false
		}
		return fmt.Sprint(x), true
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x), true
		}
		s := string(b)
		return s, s != "[]" && s != "{}"
	}
}
