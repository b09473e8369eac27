package repository

import (
	"context"
	"time"

	"fintrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	ListForUser(ctx context.Context, userID uuid.UUID, includeSent bool, limit int) ([]model.Reminder, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]model.Reminder, error)
	FindDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error)
	Update(ctx context.Context, reminder *model.Reminder) error
}

type reminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	return GetDB(ctx, r.db).Create(reminder).Error
}

func (r *reminderRepository) ListForUser(ctx context.Context, userID uuid.UUID, includeSent bool, limit int) ([]model.Reminder, error) {
	var reminders []model.Reminder
	query := GetDB(ctx, r.db).Where("user_id = ?", userID)
	if !includeSent {
		query = query.Where("sent = false")
	}
	if err := query.Order("send_at asc").Limit(limit).Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *reminderRepository) History(ctx context.Context, userID uuid.UUID, limit int) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at desc").Limit(limit).
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *reminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := GetDB(ctx, r.db).
		Where("sent = false AND send_at <= ?", now).
		Order("send_at asc").Limit(limit).
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *reminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	return GetDB(ctx, r.db).Save(reminder).Error
}
