package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/internal/repository"
	"github.com/gracepointe/engage/pkg/apperror"
)

type SubmissionInput struct {
	Kind    string `json:"kind" binding:"required,oneof=prayer testimony idea"`
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

type SubmissionResult struct {
	Submission  *model.Submission `json:"submission"`
	PointsAdded int               `json:"points_added"`
	TotalPoints int               `json:"total_points"`
}

type SubmissionService interface {
	Create(ctx context.Context, userID uuid.UUID, input SubmissionInput) (*SubmissionResult, error)
	ListAll(ctx context.Context) ([]*model.Submission, error)
}

type submissionService struct {
	repo    repository.SubmissionRepository
	rewards RewardService
}

func NewSubmissionService(repo repository.SubmissionRepository, rewards RewardService) SubmissionService {
	return &submissionService{repo: repo, rewards: rewards}
}

func (s *submissionService) Create(ctx context.Context, userID uuid.UUID, input SubmissionInput) (*SubmissionResult, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", apperror.ErrInvalidInput)
	}

	submission := &model.Submission{
		UserID:  userID,
		Kind:    input.Kind,
		Content: content,
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, err
	}

	// Non-day-scoped: every submission earns points.
	outcome, err := s.rewards.Grant(ctx, userID, model.RewardSubmission, fmt.Sprintf("Submitted a %s", input.Kind))
	if err != nil {
		return nil, err
	}

	return &SubmissionResult{
		Submission:  submission,
		PointsAdded: outcome.PointsAdded,
		TotalPoints: outcome.NewBalance,
	}, nil
}

func (s *submissionService) ListAll(ctx context.Context) ([]*model.Submission, error) {
	submissions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, sub := range submissions {
		sub.User.PasswordHash = ""
	}
	return submissions, nil
}
