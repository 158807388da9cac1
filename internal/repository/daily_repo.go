package repository

import (
	"context"

	"github.com/gracepointe/engage/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyRepository interface {
	CreateQuiz(ctx context.Context, quiz *model.DailyQuiz) error
	FindQuizByDay(ctx context.Context, dayKey string) (*model.DailyQuiz, error)
	FindVerseByDay(ctx context.Context, dayKey string) (*model.DailyVerse, error)
	SaveVerse(ctx context.Context, verse *model.DailyVerse) error
}

type dailyRepository struct {
	db *gorm.DB
}

func NewDailyRepository(db *gorm.DB) DailyRepository {
	return &dailyRepository{db: db}
}

func (r *dailyRepository) CreateQuiz(ctx context.Context, quiz *model.DailyQuiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *dailyRepository) FindQuizByDay(ctx context.Context, dayKey string) (*model.DailyQuiz, error) {
	var quiz model.DailyQuiz
	if err := r.db.WithContext(ctx).
		Where("day_key = ?", dayKey).
		First(&quiz).Error; err != nil {
		return nil, err
	}

	return &quiz, nil
}

func (r *dailyRepository) FindVerseByDay(ctx context.Context, dayKey string) (*model.DailyVerse, error) {
	var verse model.DailyVerse
	if err := r.db.WithContext(ctx).
		Where("day_key = ?", dayKey).
		First(&verse).Error; err != nil {
		return nil, err
	}

	return &verse, nil
}

// SaveVerse upserts the day's verse; concurrent fetchers for the same day
// keep whichever row landed first.
func (r *dailyRepository) SaveVerse(ctx context.Context, verse *model.DailyVerse) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day_key"}},
		DoNothing: true,
	}).Create(verse).Error
}
