package dto

// MarkAttendanceRequest 标记考勤请求（企业导师）
// attendance_date 格式 YYYY-MM-DD
type MarkAttendanceRequest struct {
	AttendanceDate string `json:"attendance_date" binding:"required"`
	Status         string `json:"status"          binding:"required,oneof=present absent"`
}

// AttendanceResponse 考勤记录响应
type AttendanceResponse struct {
	ID             string `json:"id"`
	StudentID      string `json:"student_id"`
	AttendanceDate string `json:"attendance_date"`
	Status         string `json:"status"`
	MarkedBy       string `json:"marked_by"`
	CreatedAt      string `json:"created_at"`
}
