package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/model"
	pkgerrors "github.com/Ese345/SIWES-PORTAL-sub001/pkg/errors"
)

// LogbookStatusCounts 按生命周期状态聚合的日志数量
type LogbookStatusCounts struct {
	Total    int64
	Draft    int64
	Pending  int64
	Approved int64
	Rejected int64
}

// ReviewerCounts 导师侧审阅统计
type ReviewerCounts struct {
	Pending  int64
	Approved int64
	Rejected int64
}

// LogbookRepository 实习日志数据访问接口
type LogbookRepository interface {
	Create(ctx context.Context, entry *model.LogbookEntry) error
	GetByID(ctx context.Context, id string) (*model.LogbookEntry, error)
	GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*model.LogbookEntry, error)
	// ListByStudent 学生视图：按日期升序
	ListByStudent(ctx context.Context, studentID string, offset, limit int) ([]model.LogbookEntry, int64, error)
	// ListRecentByStudent 最近若干条：按日期降序
	ListRecentByStudent(ctx context.Context, studentID string, limit int) ([]model.LogbookEntry, error)
	// ListReviewedByStudent 学生已审阅视图：按日期升序
	ListReviewedByStudent(ctx context.Context, studentID string, offset, limit int) ([]model.LogbookEntry, int64, error)
	// ListPendingByReviewer 导师待审阅队列：按创建时间升序（先到先审）
	ListPendingByReviewer(ctx context.Context, reviewerID string, offset, limit int) ([]model.LogbookEntry, int64, error)
	// ListReviewedByReviewer 导师已审阅列表：按审阅时间降序
	ListReviewedByReviewer(ctx context.Context, reviewerID string, offset, limit int) ([]model.LogbookEntry, int64, error)
	CountByStatus(ctx context.Context, studentID string) (*LogbookStatusCounts, error)
	ReviewerStats(ctx context.Context, reviewerID string) (*ReviewerCounts, error)
	// Update 乐观锁更新：version 不匹配时返回 pkgerrors.ErrOptimisticLock
	Update(ctx context.Context, entry *model.LogbookEntry) error
}

// ── Logbook Repository 实现 ──

type logbookRepo struct {
	db *gorm.DB
}

func NewLogbookRepo(db *gorm.DB) LogbookRepository {
	return &logbookRepo{db: db}
}

func (r *logbookRepo) Create(ctx context.Context, entry *model.LogbookEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *logbookRepo) GetByID(ctx context.Context, id string) (*model.LogbookEntry, error) {
	var entry model.LogbookEntry
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *logbookRepo) GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*model.LogbookEntry, error) {
	var entry model.LogbookEntry
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND entry_date = ?", studentID, date).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *logbookRepo) ListByStudent(ctx context.Context, studentID string, offset, limit int) ([]model.LogbookEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.LogbookEntry{}).
		Where("student_id = ?", studentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.LogbookEntry
	err := query.
		Order("entry_date ASC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

func (r *logbookRepo) ListRecentByStudent(ctx context.Context, studentID string, limit int) ([]model.LogbookEntry, error) {
	var entries []model.LogbookEntry
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("entry_date DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *logbookRepo) ListReviewedByStudent(ctx context.Context, studentID string, offset, limit int) ([]model.LogbookEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.LogbookEntry{}).
		Where("student_id = ? AND review_status IS NOT NULL", studentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.LogbookEntry
	err := query.
		Order("entry_date ASC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

func (r *logbookRepo) ListPendingByReviewer(ctx context.Context, reviewerID string, offset, limit int) ([]model.LogbookEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.LogbookEntry{}).
		Joins("JOIN students ON students.student_id = logbook_entries.student_id").
		Where("students.industry_supervisor_id = ?", reviewerID).
		Where("logbook_entries.submitted AND logbook_entries.review_status IS NULL")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.LogbookEntry
	err := query.
		Preload("Student").Preload("Student.User").
		Order("logbook_entries.created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

func (r *logbookRepo) ListReviewedByReviewer(ctx context.Context, reviewerID string, offset, limit int) ([]model.LogbookEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.LogbookEntry{}).
		Where("reviewed_by = ?", reviewerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.LogbookEntry
	err := query.
		Preload("Student").Preload("Student.User").
		Order("reviewed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

func (r *logbookRepo) CountByStatus(ctx context.Context, studentID string) (*LogbookStatusCounts, error) {
	var rows []struct {
		Submitted    bool
		ReviewStatus *string
		N            int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.LogbookEntry{}).
		Select("submitted, review_status, COUNT(*) AS n").
		Where("student_id = ?", studentID).
		Group("submitted, review_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &LogbookStatusCounts{}
	for _, row := range rows {
		counts.Total += row.N
		switch {
		case row.ReviewStatus == nil && !row.Submitted:
			counts.Draft += row.N
		case row.ReviewStatus == nil && row.Submitted:
			counts.Pending += row.N
		case *row.ReviewStatus == model.ReviewStatusApproved:
			counts.Approved += row.N
		case *row.ReviewStatus == model.ReviewStatusRejected:
			counts.Rejected += row.N
		}
	}
	return counts, nil
}

func (r *logbookRepo) ReviewerStats(ctx context.Context, reviewerID string) (*ReviewerCounts, error) {
	stats := &ReviewerCounts{}

	err := r.db.WithContext(ctx).
		Model(&model.LogbookEntry{}).
		Joins("JOIN students ON students.student_id = logbook_entries.student_id").
		Where("students.industry_supervisor_id = ?", reviewerID).
		Where("logbook_entries.submitted AND logbook_entries.review_status IS NULL").
		Count(&stats.Pending).Error
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ReviewStatus string
		N            int64
	}
	err = r.db.WithContext(ctx).
		Model(&model.LogbookEntry{}).
		Select("review_status, COUNT(*) AS n").
		Where("reviewed_by = ?", reviewerID).
		Group("review_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		switch row.ReviewStatus {
		case model.ReviewStatusApproved:
			stats.Approved += row.N
		case model.ReviewStatusRejected:
			stats.Rejected += row.N
		}
	}
	return stats, nil
}

func (r *logbookRepo) Update(ctx context.Context, entry *model.LogbookEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(entry).
		Where("entry_id = ? AND version = ?", entry.EntryID, oldVersion).
		Updates(map[string]interface{}{
			"description":     entry.Description,
			"image_url":       entry.ImageURL,
			"submitted":       entry.Submitted,
			"submitted_at":    entry.SubmittedAt,
			"review_status":   entry.ReviewStatus,
			"review_comments": entry.ReviewComments,
			"reviewed_by":     entry.ReviewedBy,
			"reviewed_at":     entry.ReviewedAt,
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = oldVersion + 1
	return nil
}
