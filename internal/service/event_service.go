package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/internal/repository"
	"github.com/gracepointe/engage/pkg/apperror"
	"gorm.io/gorm"
)

type EventInput struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required,max=200"`
	Description string    `json:"description"`
}

type EventService interface {
	Create(ctx context.Context, createdBy uuid.UUID, input EventInput) (*model.Event, error)
	Delete(ctx context.Context, id uint) error
	ListUpcoming(ctx context.Context) ([]*model.Event, error)
}

type eventService struct {
	repo repository.EventRepository
	now  func() time.Time
}

func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo, now: time.Now}
}

func (s *eventService) Create(ctx context.Context, createdBy uuid.UUID, input EventInput) (*model.Event, error) {
	event := &model.Event{
		Title:       input.Title,
		Date:        input.Date,
		Location:    input.Location,
		Description: input.Description,
		CreatedBy:   createdBy,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: event %d", apperror.ErrNotFound, id)
		}
		return err
	}
	return nil
}

// ListUpcoming returns events dated today or later, soonest first.
func (s *eventService) ListUpcoming(ctx context.Context) ([]*model.Event, error) {
	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.ListUpcoming(ctx, startOfToday)
}
