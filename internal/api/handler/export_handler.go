package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/service"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportLogbook 导出学生全量日志为 xlsx
// GET /api/v1/students/:studentId/logbook/export
func (h *ExportHandler) ExportLogbook(c *gin.Context) {
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportStudentLogbook(c.Request.Context(), student)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoEntries):
		response.NotFound(c, 18001, "EXPORT_NO_ENTRIES", "该学生暂无实习日志可导出")
	default:
		response.InternalError(c)
	}
}
