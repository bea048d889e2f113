package model

import "time"

// ── 考勤状态常量 ──

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// AttendanceRecord 考勤记录表 — 对应 attendance_records
// 某天存在考勤记录后，该学生当天的实习日志即冻结，不再允许编辑
type AttendanceRecord struct {
	AttendanceID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"             json:"attendance_id"`
	StudentID      string    `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_student_date"  json:"student_id"`
	AttendanceDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_student_date"  json:"attendance_date"`
	Status         string    `gorm:"type:varchar(20);not null;default:'present'"                json:"status"`
	MarkedBy       string    `gorm:"type:uuid;not null"                                         json:"marked_by"`
	BaseModel
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }
