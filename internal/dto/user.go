package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=admin coordinator"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Email      string  `json:"email"      binding:"required,email"`
	Password   string  `json:"password"   binding:"required,min=6,max=64"`
	FirstName  string  `json:"first_name" binding:"required,max=100"`
	LastName   string  `json:"last_name"  binding:"required,max=100"`
	Phone      *string `json:"phone"      binding:"omitempty,max=30"`
	Role       string  `json:"role"       binding:"required,oneof=admin coordinator"`
	Zone       *string `json:"zone"       binding:"omitempty,max=100"`
	Specialite *string `json:"specialite" binding:"omitempty,max=100"`
}

// UpdateUserRequest 更新用户信息请求（字段均可选，仅更新给定字段）。
// 邮箱为登录标识，创建后不可修改。
type UpdateUserRequest struct {
	FirstName  *string `json:"first_name" binding:"omitempty,max=100"`
	LastName   *string `json:"last_name"  binding:"omitempty,max=100"`
	Phone      *string `json:"phone"      binding:"omitempty,max=30"`
	Role       *string `json:"role"       binding:"omitempty,oneof=admin coordinator"`
	Zone       *string `json:"zone"       binding:"omitempty,max=100"`
	Specialite *string `json:"specialite" binding:"omitempty,max=100"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Phone      *string `json:"phone,omitempty"`
	Role       string  `json:"role"`
	Zone       *string `json:"zone,omitempty"`
	Specialite *string `json:"specialite,omitempty"`
	IsActive   bool    `json:"is_active"`
	CreatedAt  string  `json:"created_at"`
}

// CoordinatorResponse 协调员下拉选项
type CoordinatorResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Zone      *string `json:"zone,omitempty"`
}
