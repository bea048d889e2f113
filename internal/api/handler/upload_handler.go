package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/response"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/storage"
)

// UploadHandler 图片上传 HTTP 处理器
type UploadHandler struct {
	store   *storage.LocalStore
	maxSize int64
}

// NewUploadHandler 创建 UploadHandler
func NewUploadHandler(store *storage.LocalStore, maxSize int64) *UploadHandler {
	return &UploadHandler{store: store, maxSize: maxSize}
}

// Upload 上传日志配图，返回相对路径（写入日志时原样提交）
// POST /api/v1/uploads  (multipart/form-data, field: file)
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "缺少上传文件")
		return
	}

	if h.maxSize > 0 && fileHeader.Size > h.maxSize {
		response.BadRequest(c, 19002, "FILE_TOO_LARGE", "文件超出大小限制")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	path, err := h.store.Save(f, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			response.BadRequest(c, 19001, "UNSUPPORTED_FILE_TYPE", "不支持的文件类型，仅允许 jpg/jpeg/png/webp")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, gin.H{"url": path})
}
