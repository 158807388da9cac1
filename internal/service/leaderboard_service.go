package service

import (
	"context"

	"github.com/gracepointe/engage/internal/repository"
)

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type leaderboardService struct {
	repo repository.UserRepository
}

func NewLeaderboardService(repo repository.UserRepository) LeaderboardService {
	return &leaderboardService{repo: repo}
}

// Top returns the highest-scoring members, admins excluded. Limit is clamped
// to 1..50 with a default of 10.
func (s *leaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	users, err := s.repo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			Name:   u.Name,
			Points: u.Points,
		})
	}
	return entries, nil
}
