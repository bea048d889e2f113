package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/dto"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/model"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/repository"
)

func setupTestUserService() (UserService, *mockUserRepo) {
	userRepo := newMockUserRepo()
	studentRepo := newMockStudentRepo(userRepo)
	repo := &repository.Repository{
		User: userRepo, Student: studentRepo,
		Logbook:      newMockLogbookRepo(studentRepo),
		Attendance:   newMockAttendanceRepo(),
		Notification: newMockNotificationRepo(),
	}
	userRepo.users["user-admin"] = &model.User{
		UserID: "user-admin", Name: "管理员", Email: "admin@example.com",
		Role: model.RoleAdmin, VersionedModel: model.VersionedModel{Version: 1},
	}
	return NewUserService(repo, zap.NewNop()), userRepo
}

func TestUserService_CreateSupervisor(t *testing.T) {
	svc, userRepo := setupTestUserService()

	resp, err := svc.CreateSupervisor(context.Background(), &dto.CreateSupervisorRequest{
		Name: "王工", Email: "wang@example.com", Password: "initial-pass-123",
		Role: model.RoleIndustrySupervisor,
	}, "user-admin")
	if err != nil {
		t.Fatalf("CreateSupervisor 应成功: %v", err)
	}
	if resp.Role != model.RoleIndustrySupervisor {
		t.Errorf("角色错误: %s", resp.Role)
	}
	if !resp.MustChangePassword {
		t.Error("管理员设定初始密码的账号应要求首次改密")
	}

	stored := userRepo.users[resp.ID]
	if stored.CreatedBy == nil || *stored.CreatedBy != "user-admin" {
		t.Error("created_by 应记录创建者")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("initial-pass-123")); err != nil {
		t.Error("初始密码应以哈希形式落库且可校验")
	}
}

func TestUserService_CreateSupervisor_DuplicateEmail(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.CreateSupervisor(context.Background(), &dto.CreateSupervisorRequest{
		Name: "假管理员", Email: "admin@example.com", Password: "initial-pass-123",
		Role: model.RoleSchoolSupervisor,
	}, "user-admin")
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, userRepo := setupTestUserService()
	userRepo.users["user-ind"] = &model.User{
		UserID: "user-ind", Name: "王工", Role: model.RoleIndustrySupervisor, VersionedModel: model.VersionedModel{Version: 1},
	}

	if err := svc.Delete(context.Background(), "user-ind", "user-admin"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := userRepo.users["user-ind"]; ok {
		t.Error("删除后用户不应存在")
	}

	if err := svc.Delete(context.Background(), "user-missing", "user-admin"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_Delete_Self(t *testing.T) {
	svc, _ := setupTestUserService()

	err := svc.Delete(context.Background(), "user-admin", "user-admin")
	if !errors.Is(err, ErrCannotDeleteSelf) {
		t.Errorf("期望 ErrCannotDeleteSelf，实际: %v", err)
	}
}

func TestUserService_List_RoleFilter(t *testing.T) {
	svc, userRepo := setupTestUserService()
	userRepo.users["user-ind"] = &model.User{UserID: "user-ind", Name: "王工", Role: model.RoleIndustrySupervisor, VersionedModel: model.VersionedModel{Version: 1}}
	userRepo.users["user-sch"] = &model.User{UserID: "user-sch", Name: "李老师", Role: model.RoleSchoolSupervisor, VersionedModel: model.VersionedModel{Version: 1}}

	users, total, err := svc.List(context.Background(), &dto.UserListRequest{Role: model.RoleIndustrySupervisor})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || users[0].ID != "user-ind" {
		t.Errorf("按角色过滤应仅剩 user-ind，total=%d", total)
	}
}
