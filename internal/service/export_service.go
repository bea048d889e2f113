package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/model"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/repository"
)

var (
	// ErrExportNoEntries 学生尚无任何日志，不生成空表
	ErrExportNoEntries = errors.New("该学生暂无实习日志可导出")
)

// exportPageSize 导出时分页拉取的批大小
const exportPageSize = 500

// ExportService 日志导出服务接口
type ExportService interface {
	// ExportStudentLogbook 导出学生全量日志为 xlsx，返回文件内容与建议文件名
	ExportStudentLogbook(ctx context.Context, student *model.Student) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportStudentLogbook(ctx context.Context, student *model.Student) (*bytes.Buffer, string, error) {
	var entries []model.LogbookEntry
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.repo.Logbook.ListByStudent(ctx, student.StudentID, offset, exportPageSize)
		if err != nil {
			s.logger.Error("拉取日志失败", zap.String("student_id", student.StudentID), zap.Error(err))
			return nil, "", err
		}
		entries = append(entries, page...)
		if int64(len(entries)) >= total || len(page) == 0 {
			break
		}
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "实习日志"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"日期", "实习内容", "状态", "审阅结论", "审阅意见", "审阅时间"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	_ = f.SetColWidth(sheet, "C", "F", 18)

	for row, entry := range entries {
		values := []interface{}{
			entry.EntryDate.Format("2006-01-02"),
			entry.Description,
			entryStateLabel(&entry),
			reviewStatusLabel(entry.ReviewStatus),
			deref(entry.ReviewComments),
			"",
		}
		if entry.ReviewedAt != nil {
			values[5] = entry.ReviewedAt.Format("2006-01-02 15:04")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 xlsx 失败", zap.String("student_id", student.StudentID), zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("logbook_%s.xlsx", student.MatricNumber)
	return buf, filename, nil
}

func entryStateLabel(e *model.LogbookEntry) string {
	switch {
	case e.IsReviewed():
		return "已审阅"
	case e.Submitted:
		return "已提交"
	default:
		return "草稿"
	}
}

func reviewStatusLabel(status *string) string {
	if status == nil {
		return ""
	}
	switch *status {
	case model.ReviewStatusApproved:
		return "通过"
	case model.ReviewStatusRejected:
		return "驳回"
	default:
		return *status
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
