package dto

// CreateLogbookEntryRequest 创建日志请求
// entry_date 格式 YYYY-MM-DD；image_url 为上传接口返回的相对路径
type CreateLogbookEntryRequest struct {
	EntryDate   string `json:"entry_date"  binding:"required"`
	Description string `json:"description" binding:"required,max=5000"`
	ImageURL    string `json:"image_url"   binding:"omitempty,max=500"`
}

// UpdateLogbookEntryRequest 编辑日志请求
// 仅 description 与 image_url 可变；entry_date 创建后不可修改
type UpdateLogbookEntryRequest struct {
	Description *string `json:"description" binding:"omitempty,max=5000"`
	ImageURL    *string `json:"image_url"   binding:"omitempty,max=500"`
}

// LogbookEntryResponse 日志响应
type LogbookEntryResponse struct {
	ID             string           `json:"id"`
	StudentID      string           `json:"student_id"`
	EntryDate      string           `json:"entry_date"`
	Description    string           `json:"description"`
	ImageURL       *string          `json:"image_url,omitempty"`
	Submitted      bool             `json:"submitted"`
	SubmittedAt    *string          `json:"submitted_at,omitempty"`
	ReviewStatus   *string          `json:"review_status,omitempty"`
	ReviewComments *string          `json:"review_comments,omitempty"`
	ReviewedBy     *string          `json:"reviewed_by,omitempty"`
	ReviewedAt     *string          `json:"reviewed_at,omitempty"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
	Student        *StudentResponse `json:"student,omitempty"` // 导师侧队列返回
}

// LogbookAnalyticsResponse 日志统计响应
type LogbookAnalyticsResponse struct {
	Total        int64   `json:"total"`
	Draft        int64   `json:"draft"`
	Pending      int64   `json:"pending"` // 已提交待审阅
	Approved     int64   `json:"approved"`
	Rejected     int64   `json:"rejected"`
	ApprovalRate float64 `json:"approval_rate"` // approved / (approved+rejected)，无审阅时为 0
}
