package repository

import (
	"context"
	"time"

	"github.com/gracepointe/engage/internal/model"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uint) error
	ListUpcoming(ctx context.Context, from time.Time) ([]*model.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Event{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time) ([]*model.Event, error) {
	var events []*model.Event
	if err := r.db.WithContext(ctx).
		Where("date >= ?", from).
		Order("date ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
