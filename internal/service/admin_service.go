package service

import (
	"context"
	"errors"

	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/internal/repository"
	"github.com/gracepointe/engage/pkg/apperror"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	PromoteToAdmin(ctx context.Context, email string) (*model.User, error)
}

type adminService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewAdminService(repo repository.UserRepository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger}
}

func (s *adminService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

func (s *adminService) PromoteToAdmin(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if err := s.repo.SetRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return nil, err
	}

	s.logger.Info("user promoted to admin",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	user.Role = model.RoleAdmin
	user.PasswordHash = ""
	return user, nil
}
