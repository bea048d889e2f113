package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/api/middleware"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/dto"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/model"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/service"
	pkgerrors "github.com/Ese345/SIWES-PORTAL-sub001/pkg/errors"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/jwt"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult   *dto.RegisterResponse
	registerErr      error
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	getCurrentResult *dto.UserDetailResponse
	getCurrentErr    error
	changePassErr    error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserDetailResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock LogbookService ──

type mockLogbookService struct {
	createResult   *dto.LogbookEntryResponse
	createErr      error
	updateResult   *dto.LogbookEntryResponse
	updateErr      error
	submitResult   *dto.LogbookEntryResponse
	submitErr      error
	getResult      *dto.LogbookEntryResponse
	getErr         error
	listResult     []dto.LogbookEntryResponse
	listTotal      int64
	listErr        error
	recentResult   []dto.LogbookEntryResponse
	recentErr      error
	reviewedResult []dto.LogbookEntryResponse
	reviewedTotal  int64
	reviewedErr    error
	analytics      *dto.LogbookAnalyticsResponse
	analyticsErr   error
}

func (m *mockLogbookService) Create(_ context.Context, _ *model.Student, _, _ string, _ *dto.CreateLogbookEntryRequest) (*dto.LogbookEntryResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockLogbookService) Update(_ context.Context, _ *model.Student, _, _, _ string, _ *dto.UpdateLogbookEntryRequest) (*dto.LogbookEntryResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockLogbookService) Submit(_ context.Context, _ *model.Student, _, _, _ string) (*dto.LogbookEntryResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockLogbookService) Get(_ context.Context, _ *model.Student, _ string) (*dto.LogbookEntryResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockLogbookService) List(_ context.Context, _ string, _ *dto.ListRequest) ([]dto.LogbookEntryResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockLogbookService) ListRecent(_ context.Context, _ string, _ int) ([]dto.LogbookEntryResponse, error) {
	return m.recentResult, m.recentErr
}
func (m *mockLogbookService) ListReviewed(_ context.Context, _ string, _ *dto.ListRequest) ([]dto.LogbookEntryResponse, int64, error) {
	return m.reviewedResult, m.reviewedTotal, m.reviewedErr
}
func (m *mockLogbookService) Analytics(_ context.Context, _ string) (*dto.LogbookAnalyticsResponse, error) {
	return m.analytics, m.analyticsErr
}

// ── Mock ReviewService ──

type mockReviewService struct {
	reviewResult   *dto.LogbookEntryResponse
	reviewErr      error
	pendingResult  []dto.LogbookEntryResponse
	pendingTotal   int64
	pendingErr     error
	reviewedResult []dto.LogbookEntryResponse
	reviewedTotal  int64
	reviewedErr    error
	statsResult    *dto.ReviewStatsResponse
	statsErr       error
}

func (m *mockReviewService) Review(_ context.Context, _, _ string, _ *dto.ReviewEntryRequest) (*dto.LogbookEntryResponse, error) {
	return m.reviewResult, m.reviewErr
}
func (m *mockReviewService) ListPending(_ context.Context, _ string, _ *dto.ListRequest) ([]dto.LogbookEntryResponse, int64, error) {
	return m.pendingResult, m.pendingTotal, m.pendingErr
}
func (m *mockReviewService) ListReviewed(_ context.Context, _ string, _ *dto.ListRequest) ([]dto.LogbookEntryResponse, int64, error) {
	return m.reviewedResult, m.reviewedTotal, m.reviewedErr
}
func (m *mockReviewService) Stats(_ context.Context, _ string) (*dto.ReviewStatsResponse, error) {
	return m.statsResult, m.statsErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportStudentLogbook(_ context.Context, _ *model.Student) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func setAuth(c *gin.Context, role string) {
	c.Set("user_id", "test-user-id")
	c.Set("role", role)
}

func setTargetStudent(c *gin.Context) {
	indID := "test-supervisor-id"
	c.Set(middleware.TargetStudentKey, &model.Student{
		StudentID:            "test-student-id",
		UserID:               "test-user-id",
		MatricNumber:         "SIWES/001",
		IndustrySupervisorID: &indID,
	})
}

func strAddr(s string) *string { return &s }

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "stu@example.com",
		Password: "Test12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Error != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %s", resp.Error)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "stu@example.com",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11003 || resp.Error != "INVALID_CREDENTIALS" {
		t.Errorf("expected 11003 INVALID_CREDENTIALS, got %d %s", resp.Code, resp.Error)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrEmailExists})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name: "Test User", Email: "stu@example.com", Password: "Test12345",
		MatricNumber: "SIWES/001", Department: "CS",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// LogbookHandler Tests
// ═══════════════════════════════════════════════════════════

func TestLogbookHandler_Create_Success(t *testing.T) {
	mock := &mockLogbookService{
		createResult: &dto.LogbookEntryResponse{
			ID: "entry-1", StudentID: "test-student-id",
			EntryDate: "2026-03-02", Description: "first day",
		},
	}
	h := NewLogbookHandler(mock, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/students/test-student-id/logbook", jsonBody(dto.CreateLogbookEntryRequest{
		EntryDate: "2026-03-02", Description: "first day",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/students/:studentId/logbook", func(c *gin.Context) {
		setAuth(c, model.RoleStudent)
		setTargetStudent(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestLogbookHandler_Create_SupervisorRequired(t *testing.T) {
	mock := &mockLogbookService{createErr: service.ErrIndustrySupervisorRequired}
	h := NewLogbookHandler(mock, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/students/test-student-id/logbook", jsonBody(dto.CreateLogbookEntryRequest{
		EntryDate: "2026-03-02", Description: "first day",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/students/:studentId/logbook", func(c *gin.Context) {
		setAuth(c, model.RoleStudent)
		setTargetStudent(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14008 || resp.Error != "INDUSTRY_SUPERVISOR_REQUIRED" {
		t.Errorf("expected 14008 INDUSTRY_SUPERVISOR_REQUIRED, got %d %s", resp.Code, resp.Error)
	}
}

func TestLogbookHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrEntryNotFound, 404, 14001},
		{"InvalidDate", service.ErrEntryDateInvalid, 400, 14002},
		{"DuplicateDate", service.ErrDuplicateEntryDate, 409, 14003},
		{"Submitted", service.ErrEntrySubmitted, 409, 14004},
		{"AlreadySubmitted", service.ErrEntryAlreadySubmitted, 409, 14005},
		{"Reviewed", service.ErrEntryReviewed, 409, 14006},
		{"AttendanceLocked", service.ErrAttendanceLocked, 409, 14007},
		{"SupervisorRequired", service.ErrIndustrySupervisorRequired, 400, 14008},
		{"OptimisticLock", pkgerrors.ErrOptimisticLock, 409, 14009},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockLogbookService{getErr: tt.err}
			h := NewLogbookHandler(mock, "")

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/students/test-student-id/logbook/entry-1", nil)

			r := gin.New()
			r.GET("/students/:studentId/logbook/:entryId", func(c *gin.Context) {
				setAuth(c, model.RoleStudent)
				setTargetStudent(c)
				h.Get(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestLogbookHandler_Get_RewritesRelativeImageURL(t *testing.T) {
	mock := &mockLogbookService{
		getResult: &dto.LogbookEntryResponse{
			ID: "entry-1", EntryDate: "2026-03-02",
			ImageURL: strAddr("/uploads/abc.png"),
		},
	}
	h := NewLogbookHandler(mock, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/students/test-student-id/logbook/entry-1", nil)
	req.Host = "portal.example.com"
	req.Header.Set("X-Forwarded-Proto", "https")

	r := gin.New()
	r.GET("/students/:studentId/logbook/:entryId", func(c *gin.Context) {
		setAuth(c, model.RoleStudent)
		setTargetStudent(c)
		h.Get(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data dto.LogbookEntryResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.ImageURL == nil || *body.Data.ImageURL != "https://portal.example.com/uploads/abc.png" {
		t.Errorf("expected absolute image url, got %v", body.Data.ImageURL)
	}
}

func TestLogbookHandler_Get_KeepsAbsoluteImageURL(t *testing.T) {
	mock := &mockLogbookService{
		getResult: &dto.LogbookEntryResponse{
			ID: "entry-1", EntryDate: "2026-03-02",
			ImageURL: strAddr("https://cdn.example.com/abc.png"),
		},
	}
	h := NewLogbookHandler(mock, "http://localhost:8080")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/students/test-student-id/logbook/entry-1", nil)

	r := gin.New()
	r.GET("/students/:studentId/logbook/:entryId", func(c *gin.Context) {
		setAuth(c, model.RoleStudent)
		setTargetStudent(c)
		h.Get(c)
	})
	r.ServeHTTP(w, req)

	var body struct {
		Data dto.LogbookEntryResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.ImageURL == nil || *body.Data.ImageURL != "https://cdn.example.com/abc.png" {
		t.Errorf("absolute url should be untouched, got %v", body.Data.ImageURL)
	}
}

func TestLogbookHandler_List_PaginationEnvelope(t *testing.T) {
	mock := &mockLogbookService{
		listResult: []dto.LogbookEntryResponse{
			{ID: "e-1", EntryDate: "2026-03-02"},
			{ID: "e-2", EntryDate: "2026-03-03"},
		},
		listTotal: 5,
	}
	h := NewLogbookHandler(mock, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/students/test-student-id/logbook?limit=2&offset=0", nil)

	r := gin.New()
	r.GET("/students/:studentId/logbook", func(c *gin.Context) {
		setAuth(c, model.RoleStudent)
		setTargetStudent(c)
		h.List(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	p := body.Data.Pagination
	if p.Total != 5 || p.Limit != 2 || p.Offset != 0 {
		t.Errorf("unexpected pagination: %+v", p)
	}
	if !p.HasMore {
		t.Error("expected has_more=true when offset+limit < total")
	}
}

func TestLogbookHandler_List_LimitOutOfRange(t *testing.T) {
	h := NewLogbookHandler(&mockLogbookService{}, "")

	for _, q := range []string{"limit=-1", "limit=101"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/students/test-student-id/logbook?"+q, nil)

		r := gin.New()
		r.GET("/students/:studentId/logbook", func(c *gin.Context) {
			setAuth(c, model.RoleStudent)
			setTargetStudent(c)
			h.List(c)
		})
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// ReviewHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReviewHandler_Review_Success(t *testing.T) {
	status := "APPROVED"
	mock := &mockReviewService{
		reviewResult: &dto.LogbookEntryResponse{
			ID: "entry-1", EntryDate: "2026-03-02", ReviewStatus: &status,
		},
	}
	h := NewReviewHandler(mock, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logbook/review/entry-1", jsonBody(dto.ReviewEntryRequest{
		ReviewStatus: "APPROVED",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/logbook/review/:entryId", func(c *gin.Context) {
		setAuth(c, model.RoleIndustrySupervisor)
		h.Review(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestReviewHandler_Review_InvalidStatus(t *testing.T) {
	h := NewReviewHandler(&mockReviewService{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logbook/review/entry-1", jsonBody(dto.ReviewEntryRequest{
		ReviewStatus: "MAYBE",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/logbook/review/:entryId", func(c *gin.Context) {
		setAuth(c, model.RoleIndustrySupervisor)
		h.Review(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestReviewHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrEntryNotFound, 404, 14001},
		{"NotAssigned", service.ErrNotAssignedReviewer, 403, 15001},
		{"NotSubmitted", service.ErrEntryNotSubmitted, 409, 15002},
		{"AlreadyReviewed", service.ErrEntryReviewed, 409, 14006},
		{"OptimisticLock", pkgerrors.ErrOptimisticLock, 409, 14009},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockReviewService{reviewErr: tt.err}
			h := NewReviewHandler(mock, "")

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/logbook/review/entry-1", jsonBody(dto.ReviewEntryRequest{
				ReviewStatus: "APPROVED",
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/logbook/review/:entryId", func(c *gin.Context) {
				setAuth(c, model.RoleIndustrySupervisor)
				h.Review(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "logbook_SIWES-001.xlsx",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/students/test-student-id/logbook/export", nil)

	r := gin.New()
	r.GET("/students/:studentId/logbook/export", func(c *gin.Context) {
		setAuth(c, model.RoleAdmin)
		setTargetStudent(c)
		h.ExportLogbook(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_NoEntries(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoEntries})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/students/test-student-id/logbook/export", nil)

	r := gin.New()
	r.GET("/students/:studentId/logbook/export", func(c *gin.Context) {
		setAuth(c, model.RoleAdmin)
		setTargetStudent(c)
		h.ExportLogbook(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 18001 {
		t.Errorf("expected error code 18001, got %d", resp.Code)
	}
}
