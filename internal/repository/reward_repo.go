package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/gracepointe/engage/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrantResult reports the outcome of one ledger grant. Accepted is false when
// the (user, kind, dedup key) triple was already credited; NewBalance always
// carries the user's current total.
type GrantResult struct {
	Accepted   bool
	NewBalance int
}

type RewardRepository interface {
	// Grant appends a reward event and bumps the user's point counter in a
	// single transaction. The conditional insert against the composite unique
	// index and the counter update share the transaction, so two concurrent
	// grants for the same day-scoped triple can never both be accepted.
	Grant(ctx context.Context, event *model.RewardEvent) (*GrantResult, error)
	SumForUser(ctx context.Context, userID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.RewardEvent, error)
}

type rewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) Grant(ctx context.Context, event *model.RewardEvent) (*GrantResult, error) {
	result := &GrantResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "kind"}, {Name: "dedup_key"}},
			DoNothing: true,
		}).Create(event)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Duplicate day-scoped grant: report the existing balance.
			return tx.Model(&model.User{}).
				Select("points").
				Where("id = ?", event.UserID).
				Scan(&result.NewBalance).Error
		}

		result.Accepted = true

		// RETURNING keeps read and increment in one statement; the row lock it
		// takes serializes concurrent grants for the same account.
		return tx.Raw(
			"UPDATE users SET points = points + ? WHERE id = ? RETURNING points",
			event.Points, event.UserID,
		).Scan(&result.NewBalance).Error
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) SumForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&model.RewardEvent{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	return sum, err
}

func (r *rewardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.RewardEvent, error) {
	var events []*model.RewardEvent
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
