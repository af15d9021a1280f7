package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/model"
	"prosps/backend/internal/repository"
)

var (
	ErrEmailTaken        = errors.New("邮箱已被使用")
	ErrCannotDisableSelf = errors.New("不能停用自己的账号")
)

// UserService 用户管理业务接口（仅管理员）
type UserService interface {
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Create(ctx context.Context, actorID string, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, id string) (*dto.UserResponse, error)
	Update(ctx context.Context, actorID, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	ToggleActive(ctx context.Context, actorID, id string) (*dto.UserResponse, error)
	ListCoordinators(ctx context.Context) ([]dto.CoordinatorResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	profiles, total, err := s.repo.User.List(ctx, req.Role, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(profiles))
	for i := range profiles {
		result = append(result, toUserResponse(&profiles[i]))
	}
	return result, total, nil
}

func (s *userService) Create(ctx context.Context, actorID string, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	// 邮箱唯一性校验
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return nil, err
	}

	profile := &model.Profile{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         req.Role,
		Zone:         req.Zone,
		Specialite:   req.Specialite,
		IsActive:     true,
	}
	profile.CreatedBy = &actorID
	profile.UpdatedBy = &actorID

	if err := s.repo.User.Create(ctx, profile); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	recordActivity(ctx, s.repo.ActivityLog, s.logger, &actorID, "user_created", "profile", profile.ProfileID,
		map[string]string{"email": profile.Email, "role": profile.Role})

	resp := toUserResponse(profile)
	return &resp, nil
}

func (s *userService) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	profile, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(profile)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, actorID, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	profile, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.Role != nil {
		profile.Role = *req.Role
	}
	if req.Zone != nil {
		profile.Zone = req.Zone
	}
	if req.Specialite != nil {
		profile.Specialite = req.Specialite
	}
	profile.UpdatedBy = &actorID

	if err := s.repo.User.Update(ctx, profile); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return nil, err
	}

	recordActivity(ctx, s.repo.ActivityLog, s.logger, &actorID, "user_updated", "profile", id, nil)

	resp := toUserResponse(profile)
	return &resp, nil
}

// ToggleActive 启用/停用账号。管理员不能停用自己。
func (s *userService) ToggleActive(ctx context.Context, actorID, id string) (*dto.UserResponse, error) {
	if actorID == id {
		return nil, ErrCannotDisableSelf
	}

	profile, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	profile.IsActive = !profile.IsActive
	profile.UpdatedBy = &actorID

	if err := s.repo.User.Update(ctx, profile); err != nil {
		s.logger.Error("更新用户状态失败", zap.Error(err))
		return nil, err
	}

	action := "user_disabled"
	if profile.IsActive {
		action = "user_enabled"
	}
	recordActivity(ctx, s.repo.ActivityLog, s.logger, &actorID, action, "profile", id, nil)

	resp := toUserResponse(profile)
	return &resp, nil
}

func (s *userService) ListCoordinators(ctx context.Context) ([]dto.CoordinatorResponse, error) {
	profiles, err := s.repo.User.ListActiveCoordinators(ctx)
	if err != nil {
		s.logger.Error("查询协调员列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CoordinatorResponse, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		result = append(result, dto.CoordinatorResponse{
			ID:        p.ProfileID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			Zone:      p.Zone,
		})
	}
	return result, nil
}

// toUserResponse 模型转响应（脱敏）
func toUserResponse(p *model.Profile) dto.UserResponse {
	return dto.UserResponse{
		ID:         p.ProfileID,
		Email:      p.Email,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Phone:      p.Phone,
		Role:       p.Role,
		Zone:       p.Zone,
		Specialite: p.Specialite,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}
