package dto

// StudentResponse 学生档案响应
type StudentResponse struct {
	ID                 string        `json:"id"`
	MatricNumber       string        `json:"matric_number"`
	Department         string        `json:"department"`
	CompanyName        *string       `json:"company_name,omitempty"`
	User               *UserResponse `json:"user,omitempty"`
	IndustrySupervisor *UserResponse `json:"industry_supervisor,omitempty"`
	SchoolSupervisor   *UserResponse `json:"school_supervisor,omitempty"`
	CreatedAt          string        `json:"created_at"`
}

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	ListRequest
	Department string `form:"department" binding:"omitempty,max=100"`
}

// AssignSupervisorsRequest 分配导师请求（管理员）
// 两个字段均可选：仅更新提供的导师引用
type AssignSupervisorsRequest struct {
	IndustrySupervisorID *string `json:"industry_supervisor_id" binding:"omitempty,uuid"`
	SchoolSupervisorID   *string `json:"school_supervisor_id"   binding:"omitempty,uuid"`
}
