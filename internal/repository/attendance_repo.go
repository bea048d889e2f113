package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/model"
)

// AttendanceRepository 考勤记录数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*model.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID string, offset, limit int) ([]model.AttendanceRecord, int64, error)
}

// ── Attendance Repository 实现 ──

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepo) GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND attendance_date = ?", studentID, date).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, studentID string, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Where("student_id = ?", studentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.AttendanceRecord
	err := query.
		Order("attendance_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}
