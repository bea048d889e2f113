package dto

// UserListRequest 用户列表查询参数（管理员）
type UserListRequest struct {
	ListRequest
	Role    string `form:"role"    binding:"omitempty,oneof=student school_supervisor industry_supervisor admin"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// CreateSupervisorRequest 创建导师账号请求（管理员）
// 初始密码由管理员设定，账号首次登录需改密
type CreateSupervisorRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,oneof=school_supervisor industry_supervisor"`
}
