package dto

// ReviewEntryRequest 审阅日志请求（企业导师）
type ReviewEntryRequest struct {
	ReviewStatus   string `json:"review_status"   binding:"required,oneof=APPROVED REJECTED"`
	ReviewComments string `json:"review_comments" binding:"omitempty,max=2000"`
}

// ReviewStatsResponse 导师审阅统计响应
type ReviewStatsResponse struct {
	Pending  int64 `json:"pending"`  // 待审阅
	Approved int64 `json:"approved"` // 已通过
	Rejected int64 `json:"rejected"` // 已驳回
	Reviewed int64 `json:"reviewed"` // 已审阅总数
}
