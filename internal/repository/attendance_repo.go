package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/gracepointe/engage/internal/model"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	Create(ctx context.Context, attendance *model.Attendance) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Attendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Create(attendance).Error
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Attendance, error) {
	var history []*model.Attendance
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		return nil, err
	}

	return history, nil
}
