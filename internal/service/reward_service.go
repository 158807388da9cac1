package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/internal/repository"
	"github.com/gracepointe/engage/pkg/apperror"
	"go.uber.org/zap"
)

// Fixed point amounts per reward kind.
const (
	PointsAttendance = 10
	PointsQuiz       = 20
	PointsSubmission = 15
	PointsReferral   = 50
)

var rewardAmounts = map[string]int{
	model.RewardAttendance: PointsAttendance,
	model.RewardQuiz:       PointsQuiz,
	model.RewardSubmission: PointsSubmission,
	model.RewardReferral:   PointsReferral,
}

var dayScopedKinds = map[string]bool{
	model.RewardAttendance: true,
	model.RewardQuiz:       true,
}

// GrantOutcome is what callers branch on: Accepted false means the day-scoped
// grant was already credited, which is an expected business outcome rather
// than an error.
type GrantOutcome struct {
	Accepted    bool `json:"accepted"`
	PointsAdded int  `json:"points_added"`
	NewBalance  int  `json:"new_balance"`
}

// RewardService is the only path through which account points change.
type RewardService interface {
	Grant(ctx context.Context, userID uuid.UUID, kind, description string) (*GrantOutcome, error)
	History(ctx context.Context, userID uuid.UUID) ([]*model.RewardEvent, error)
}

type rewardService struct {
	repo   repository.RewardRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewRewardService(repo repository.RewardRepository, logger *zap.Logger) RewardService {
	return &rewardService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// DayKey formats a calendar-day identifier in the server's reference timezone.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (s *rewardService) Grant(ctx context.Context, userID uuid.UUID, kind, description string) (*GrantOutcome, error) {
	amount, ok := rewardAmounts[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown reward kind %q", apperror.ErrInvalidInput, kind)
	}

	dedupKey := uuid.NewString()
	if dayScopedKinds[kind] {
		dedupKey = DayKey(s.now())
	}

	res, err := s.repo.Grant(ctx, &model.RewardEvent{
		UserID:      userID,
		Kind:        kind,
		DedupKey:    dedupKey,
		Points:      amount,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("grant %s reward: %w", kind, err)
	}

	outcome := &GrantOutcome{
		Accepted:   res.Accepted,
		NewBalance: res.NewBalance,
	}
	if res.Accepted {
		outcome.PointsAdded = amount
		s.logger.Info("reward granted",
			zap.String("user_id", userID.String()),
			zap.String("kind", kind),
			zap.Int("points", amount),
			zap.Int("balance", res.NewBalance),
		)
	} else {
		s.logger.Debug("duplicate reward rejected",
			zap.String("user_id", userID.String()),
			zap.String("kind", kind),
			zap.String("dedup_key", dedupKey),
		)
	}

	return outcome, nil
}

func (s *rewardService) History(ctx context.Context, userID uuid.UUID) ([]*model.RewardEvent, error) {
	return s.repo.ListByUser(ctx, userID)
}
