package dto

// RegisterRequest 学生注册请求
type RegisterRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	Email        string `json:"email"         binding:"required,email"`
	Password     string `json:"password"      binding:"required,min=8,max=72"`
	MatricNumber string `json:"matric_number" binding:"required,min=3,max=30"`
	Department   string `json:"department"    binding:"required,max=100"`
	CompanyName  string `json:"company_name"  binding:"omitempty,max=200"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email      string `json:"email"       binding:"required,email"`
	Password   string `json:"password"    binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}
