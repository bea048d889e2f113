package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/model"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/repository"
	pkgerrors "github.com/Ese345/SIWES-PORTAL-sub001/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	if user.Version == 0 {
		user.Version = 1
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role, keyword string, offset, limit int) ([]model.User, int64, error) {
	var filtered []model.User
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		if keyword != "" && !strings.Contains(u.Name, keyword) && !strings.Contains(u.Email, keyword) {
			continue
		}
		filtered = append(filtered, *u)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].UserID < filtered[j].UserID })
	return paginate(filtered, offset, limit), int64(len(filtered)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	existing, ok := m.users[user.UserID]
	if !ok || existing.Version != user.Version {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version++
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	users    *mockUserRepo // 关联 Preload 用
	seq      int
	getErr   error // 置位后 GetByID 返回该错误，模拟查库失败
}

func newMockStudentRepo(users *mockUserRepo) *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student), users: users}
}

// withRelations 模拟 Preload：按外键回填 User 与导师关联
func (m *mockStudentRepo) withRelations(st *model.Student) *model.Student {
	cp := *st
	if m.users != nil {
		if u, ok := m.users.users[cp.UserID]; ok {
			cp.User = u
		}
		if cp.IndustrySupervisorID != nil {
			if u, ok := m.users.users[*cp.IndustrySupervisorID]; ok {
				cp.IndustrySupervisor = u
			}
		}
		if cp.SchoolSupervisorID != nil {
			if u, ok := m.users.users[*cp.SchoolSupervisorID]; ok {
				cp.SchoolSupervisor = u
			}
		}
	}
	return &cp
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	for _, s := range m.students {
		if s.MatricNumber == student.MatricNumber || s.UserID == student.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if student.StudentID == "" {
		m.seq++
		student.StudentID = fmt.Sprintf("stu-%03d", m.seq)
	}
	student.CreatedAt = time.Now()
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s, ok := m.students[id]; ok {
		return m.withRelations(s), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUserID(_ context.Context, userID string) (*model.Student, error) {
	for _, s := range m.students {
		if s.UserID == userID {
			return m.withRelations(s), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByMatricNumber(_ context.Context, matricNumber string) (*model.Student, error) {
	for _, s := range m.students {
		if s.MatricNumber == matricNumber {
			return m.withRelations(s), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context, department string, offset, limit int) ([]model.Student, int64, error) {
	var filtered []model.Student
	for _, s := range m.students {
		if department != "" && s.Department != department {
			continue
		}
		filtered = append(filtered, *m.withRelations(s))
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].StudentID < filtered[j].StudentID })
	return paginate(filtered, offset, limit), int64(len(filtered)), nil
}

func (m *mockStudentRepo) ListBySupervisor(_ context.Context, supervisorID string, offset, limit int) ([]model.Student, int64, error) {
	var filtered []model.Student
	for _, s := range m.students {
		matched := (s.IndustrySupervisorID != nil && *s.IndustrySupervisorID == supervisorID) ||
			(s.SchoolSupervisorID != nil && *s.SchoolSupervisorID == supervisorID)
		if matched {
			filtered = append(filtered, *m.withRelations(s))
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].StudentID < filtered[j].StudentID })
	return paginate(filtered, offset, limit), int64(len(filtered)), nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	if _, ok := m.students[student.StudentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *student
	cp.User, cp.IndustrySupervisor, cp.SchoolSupervisor = nil, nil, nil
	m.students[student.StudentID] = &cp
	return nil
}

// ── Mock LogbookRepository ──

type mockLogbookRepo struct {
	entries        map[string]*model.LogbookEntry
	students       *mockStudentRepo // ListPendingByReviewer 的 JOIN 用
	updateConflict bool             // 置位后 Update 返回版本冲突，模拟并发写入
	seq            int
}

func newMockLogbookRepo(students *mockStudentRepo) *mockLogbookRepo {
	return &mockLogbookRepo{entries: make(map[string]*model.LogbookEntry), students: students}
}

func (m *mockLogbookRepo) Create(_ context.Context, entry *model.LogbookEntry) error {
	for _, e := range m.entries {
		if e.StudentID == entry.StudentID && e.EntryDate.Equal(entry.EntryDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	if entry.EntryID == "" {
		m.seq++
		entry.EntryID = fmt.Sprintf("entry-%03d", m.seq)
	}
	if entry.Version == 0 {
		entry.Version = 1
	}
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockLogbookRepo) GetByID(_ context.Context, id string) (*model.LogbookEntry, error) {
	if e, ok := m.entries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLogbookRepo) GetByStudentAndDate(_ context.Context, studentID string, date time.Time) (*model.LogbookEntry, error) {
	for _, e := range m.entries {
		if e.StudentID == studentID && e.EntryDate.Equal(date) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLogbookRepo) ListByStudent(_ context.Context, studentID string, offset, limit int) ([]model.LogbookEntry, int64, error) {
	var filtered []model.LogbookEntry
	for _, e := range m.entries {
		if e.StudentID == studentID {
			filtered = append(filtered, *e)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].EntryDate.Before(filtered[j].EntryDate) })
	return paginate(filtered, offset, limit), int64(len(filtered)), nil
}

func (m *mockLogbookRepo) ListRecentByStudent(_ context.Context, studentID string, limit int) ([]model.LogbookEntry, error) {
	var filtered []model.LogbookEntry
	for _, e := range m.entries {
		if e.StudentID == studentID {
			filtered = append(filtered, *e)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[j].EntryDate.Before(filtered[i].EntryDate) })
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (m *mockLogbookRepo) ListReviewedByStudent(_ context.Context, studentID string, offset, limit int) ([]model.LogbookEntry, int64, error) {
	var filtered []model.LogbookEntry
	for _, e := range m.entries {
		if e.StudentID == studentID && e.ReviewStatus != nil {
			filtered = append(filtered, *e)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].EntryDate.Before(filtered[j].EntryDate) })
	return paginate(filtered, offset, limit), int64(len(filtered)), nil
}

func (m *mockLogbookRepo) ListPendingByReviewer(_ context.Context, reviewerID string, offset, limit int) ([]model.LogbookEntry, int64, error) {
	var filtered []model.LogbookEntry
	for _, e := range m.entries {
		if !e.Submitted || e.ReviewStatus != nil {
			continue
		}
		st, ok := m.students.students[e.StudentID]
		if !ok || st.IndustrySupervisorID == nil || *st.IndustrySupervisorID != reviewerID {
			continue
		}
		cp := *e
		cp.Student = m.students.withRelations(st)
		filtered = append(filtered, cp)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].CreatedAt.Before(filtered[j].CreatedAt) })
	return paginate(filtered, offset, limit), int64(len(filtered)), nil
}

func (m *mockLogbookRepo) ListReviewedByReviewer(_ context.Context, reviewerID string, offset, limit int) ([]model.LogbookEntry, int64, error) {
	var filtered []model.LogbookEntry
	for _, e := range m.entries {
		if e.ReviewedBy == nil || *e.ReviewedBy != reviewerID {
			continue
		}
		cp := *e
		if st, ok := m.students.students[e.StudentID]; ok {
			cp.Student = m.students.withRelations(st)
		}
		filtered = append(filtered, cp)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[j].ReviewedAt.Before(*filtered[i].ReviewedAt) })
	return paginate(filtered, offset, limit), int64(len(filtered)), nil
}

func (m *mockLogbookRepo) CountByStatus(_ context.Context, studentID string) (*repository.LogbookStatusCounts, error) {
	counts := &repository.LogbookStatusCounts{}
	for _, e := range m.entries {
		if e.StudentID != studentID {
			continue
		}
		counts.Total++
		switch {
		case e.ReviewStatus == nil && !e.Submitted:
			counts.Draft++
		case e.ReviewStatus == nil && e.Submitted:
			counts.Pending++
		case *e.ReviewStatus == model.ReviewStatusApproved:
			counts.Approved++
		case *e.ReviewStatus == model.ReviewStatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

func (m *mockLogbookRepo) ReviewerStats(_ context.Context, reviewerID string) (*repository.ReviewerCounts, error) {
	stats := &repository.ReviewerCounts{}
	for _, e := range m.entries {
		if e.Submitted && e.ReviewStatus == nil {
			if st, ok := m.students.students[e.StudentID]; ok &&
				st.IndustrySupervisorID != nil && *st.IndustrySupervisorID == reviewerID {
				stats.Pending++
			}
		}
		if e.ReviewedBy != nil && *e.ReviewedBy == reviewerID {
			switch *e.ReviewStatus {
			case model.ReviewStatusApproved:
				stats.Approved++
			case model.ReviewStatusRejected:
				stats.Rejected++
			}
		}
	}
	return stats, nil
}

func (m *mockLogbookRepo) Update(_ context.Context, entry *model.LogbookEntry) error {
	if m.updateConflict {
		return pkgerrors.ErrOptimisticLock
	}
	existing, ok := m.entries[entry.EntryID]
	if !ok || existing.Version != entry.Version {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version++
	entry.UpdatedAt = time.Now()
	cp := *entry
	cp.Student = nil
	m.entries[entry.EntryID] = &cp
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.AttendanceRecord
	seq     int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	for _, r := range m.records {
		if r.StudentID == record.StudentID && r.AttendanceDate.Equal(record.AttendanceDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	if record.AttendanceID == "" {
		m.seq++
		record.AttendanceID = fmt.Sprintf("att-%03d", m.seq)
	}
	record.CreatedAt = time.Now()
	m.records[record.AttendanceID] = record
	return nil
}

func (m *mockAttendanceRepo) GetByStudentAndDate(_ context.Context, studentID string, date time.Time) (*model.AttendanceRecord, error) {
	for _, r := range m.records {
		if r.StudentID == studentID && r.AttendanceDate.Equal(date) {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListByStudent(_ context.Context, studentID string, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	var filtered []model.AttendanceRecord
	for _, r := range m.records {
		if r.StudentID == studentID {
			filtered = append(filtered, *r)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[j].AttendanceDate.Before(filtered[i].AttendanceDate) })
	return paginate(filtered, offset, limit), int64(len(filtered)), nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*model.Notification
	failCreate    error // 非 nil 时 Create 返回该错误，模拟投递失败
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	m.seq++
	notification.NotificationID = fmt.Sprintf("notif-%03d", m.seq)
	notification.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var filtered []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		filtered = append(filtered, *n)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[j].CreatedAt.Before(filtered[i].CreatedAt) })
	return paginate(filtered, offset, limit), int64(len(filtered)), nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, userID, notificationID string) error {
	for _, n := range m.notifications {
		if n.NotificationID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// byUser 返回某用户的全部通知（断言用）
func (m *mockNotificationRepo) byUser(userID string) []*model.Notification {
	var result []*model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// ── 通用分页辅助 ──

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
