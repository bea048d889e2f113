package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/model"
)

// StudentRepository 学生档案数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByUserID(ctx context.Context, userID string) (*model.Student, error)
	GetByMatricNumber(ctx context.Context, matricNumber string) (*model.Student, error)
	List(ctx context.Context, department string, offset, limit int) ([]model.Student, int64, error)
	ListBySupervisor(ctx context.Context, supervisorID string, offset, limit int) ([]model.Student, int64, error)
	Update(ctx context.Context, student *model.Student) error
}

// ── Student Repository 实现 ──

type studentRepo struct {
	db *gorm.DB
}

func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("IndustrySupervisor").
		Preload("SchoolSupervisor").
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByUserID(ctx context.Context, userID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("IndustrySupervisor").
		Preload("SchoolSupervisor").
		Where("user_id = ?", userID).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByMatricNumber(ctx context.Context, matricNumber string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("matric_number = ?", matricNumber).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context, department string, offset, limit int) ([]model.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Student{})
	if department != "" {
		query = query.Where("department = ?", department)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []model.Student
	err := query.
		Preload("User").
		Preload("IndustrySupervisor").
		Preload("SchoolSupervisor").
		Order("matric_number ASC").
		Offset(offset).
		Limit(limit).
		Find(&students).Error
	return students, total, err
}

func (r *studentRepo) ListBySupervisor(ctx context.Context, supervisorID string, offset, limit int) ([]model.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("industry_supervisor_id = ? OR school_supervisor_id = ?", supervisorID, supervisorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []model.Student
	err := query.
		Preload("User").
		Order("matric_number ASC").
		Offset(offset).
		Limit(limit).
		Find(&students).Error
	return students, total, err
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).
		Model(student).
		Where("student_id = ?", student.StudentID).
		Updates(map[string]interface{}{
			"department":             student.Department,
			"company_name":           student.CompanyName,
			"industry_supervisor_id": student.IndustrySupervisorID,
			"school_supervisor_id":   student.SchoolSupervisorID,
			"updated_by":             student.UpdatedBy,
		}).Error
}
