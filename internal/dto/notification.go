package dto

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	ListRequest
	UnreadOnly bool `form:"unread_only"`
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	IsRead      bool    `json:"is_read"`
	RelatedType *string `json:"related_type,omitempty"`
	RelatedID   *string `json:"related_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// UnreadCountResponse 未读数量响应
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
