package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/dto"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/model"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/repository"
)

var (
	ErrAttendanceDateInvalid = errors.New("考勤日期格式无效，应为 YYYY-MM-DD")
	ErrDuplicateAttendance   = errors.New("该日期考勤已标记")
)

// AttendanceService 考勤服务接口
type AttendanceService interface {
	// Mark 标记考勤（企业导师），同一学生同一天仅一条记录
	Mark(ctx context.Context, student *model.Student, markerID string, req *dto.MarkAttendanceRequest) (*dto.AttendanceResponse, error)
	List(ctx context.Context, studentID string, req *dto.ListRequest) ([]dto.AttendanceResponse, int64, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger}
}

func (s *attendanceService) Mark(ctx context.Context, student *model.Student, markerID string, req *dto.MarkAttendanceRequest) (*dto.AttendanceResponse, error) {
	date, err := time.Parse("2006-01-02", req.AttendanceDate)
	if err != nil {
		return nil, ErrAttendanceDateInvalid
	}

	if _, err := s.repo.Attendance.GetByStudentAndDate(ctx, student.StudentID, date); err == nil {
		return nil, ErrDuplicateAttendance
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询考勤失败", zap.String("student_id", student.StudentID), zap.Error(err))
		return nil, err
	}

	record := &model.AttendanceRecord{
		StudentID:      student.StudentID,
		AttendanceDate: date,
		Status:         req.Status,
		MarkedBy:       markerID,
	}
	record.CreatedBy = &markerID

	if err := s.repo.Attendance.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAttendance
		}
		s.logger.Error("创建考勤记录失败", zap.String("student_id", student.StudentID), zap.Error(err))
		return nil, err
	}

	resp := toAttendanceResponse(record)
	return &resp, nil
}

func (s *attendanceService) List(ctx context.Context, studentID string, req *dto.ListRequest) ([]dto.AttendanceResponse, int64, error) {
	records, total, err := s.repo.Attendance.ListByStudent(ctx, studentID, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("查询考勤列表失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		resp = append(resp, toAttendanceResponse(&records[i]))
	}
	return resp, total, nil
}

func toAttendanceResponse(r *model.AttendanceRecord) dto.AttendanceResponse {
	return dto.AttendanceResponse{
		ID:             r.AttendanceID,
		StudentID:      r.StudentID,
		AttendanceDate: r.AttendanceDate.Format("2006-01-02"),
		Status:         r.Status,
		MarkedBy:       r.MarkedBy,
		CreatedAt:      r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
