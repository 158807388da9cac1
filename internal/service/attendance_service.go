package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/internal/repository"
	"github.com/gracepointe/engage/pkg/apperror"
	"go.uber.org/zap"
)

type MarkResult struct {
	PointsAdded int `json:"points_added"`
	TotalPoints int `json:"total_points"`
}

type AttendanceService interface {
	Mark(ctx context.Context, userID uuid.UUID, method string) (*MarkResult, error)
	History(ctx context.Context, userID uuid.UUID) ([]*model.Attendance, error)
}

type attendanceService struct {
	repo    repository.AttendanceRepository
	rewards RewardService
	logger  *zap.Logger
	now     func() time.Time
}

func NewAttendanceService(repo repository.AttendanceRepository, rewards RewardService, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:    repo,
		rewards: rewards,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *attendanceService) Mark(ctx context.Context, userID uuid.UUID, method string) (*MarkResult, error) {
	if method == "" {
		method = "qr"
	}

	outcome, err := s.rewards.Grant(ctx, userID, model.RewardAttendance, "Attendance check-in")
	if err != nil {
		return nil, err
	}
	if !outcome.Accepted {
		return nil, apperror.ErrAlreadyMarked
	}

	record := &model.Attendance{
		UserID: userID,
		DayKey: DayKey(s.now()),
		Method: method,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// The grant already landed; a missing history row is log-worthy but
		// must not turn an accepted check-in into a caller-visible failure.
		s.logger.Error("attendance history write failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	return &MarkResult{
		PointsAdded: outcome.PointsAdded,
		TotalPoints: outcome.NewBalance,
	}, nil
}

func (s *attendanceService) History(ctx context.Context, userID uuid.UUID) ([]*model.Attendance, error) {
	return s.repo.ListByUser(ctx, userID)
}
