package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fintrack/internal/model"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// MailSender abstracts the SMTP delivery so tests can swap it out.
type MailSender interface {
	Send(to, subject, text string) error
}

// InAppSender pushes a payload to a user's live websocket connections.
type InAppSender interface {
	SendToUser(userID string, payload any) int
}

// --- DTOs ---

type CreateReminderRequest struct {
	Message string `json:"message" binding:"required"`
	Channel string `json:"channel"` // empty = follow user preference
	SendAt  string `json:"sendAt" binding:"required"`
}

type ReminderResponse struct {
	ID        string  `json:"id"`
	Message   string  `json:"message"`
	Channel   string  `json:"channel"`
	SendAt    string  `json:"sendAt"`
	Sent      bool    `json:"sent"`
	Error     *string `json:"error,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type PreferencesRequest struct {
	Channel        *string `json:"channel"`
	Timezone       *string `json:"timezone"`
	Bills          *bool   `json:"bills"`
	Budgets        *bool   `json:"budgets"`
	GroupAlerts    *bool   `json:"groupAlerts"`
	SmartReminders *bool   `json:"smartReminders"`
}

type ReminderStats struct {
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// --- Interface ---

type ReminderService interface {
	GetPreferences(ctx context.Context, userID string) (model.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, req PreferencesRequest) (model.NotificationPreferences, error)
	CreateReminder(ctx context.Context, userID string, req CreateReminderRequest) (ReminderResponse, error)
	ListReminders(ctx context.Context, userID string, includeSent bool, limit int) ([]ReminderResponse, error)
	ReminderHistory(ctx context.Context, userID string, limit int) ([]ReminderResponse, error)
	Stats(ctx context.Context, userID string) (ReminderStats, error)
	DispatchDue(ctx context.Context, now time.Time) int
	StartDispatcher(c *cron.Cron) error
}

type reminderService struct {
	reminderRepo repository.ReminderRepository
	userRepo     repository.UserRepository
	mail         MailSender
	inApp        InAppSender
}

func NewReminderService(reminderRepo repository.ReminderRepository, userRepo repository.UserRepository, mail MailSender, inApp InAppSender) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		userRepo:     userRepo,
		mail:         mail,
		inApp:        inApp,
	}
}

// --- Preferences ---

func (s *reminderService) GetPreferences(ctx context.Context, userID string) (model.NotificationPreferences, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.NotificationPreferences{}, ErrNotFound
		}
		return model.NotificationPreferences{}, err
	}
	return user.Preferences, nil
}

// UpdatePreferences applies a partial update; absent fields keep their value.
func (s *reminderService) UpdatePreferences(ctx context.Context, userID string, req PreferencesRequest) (model.NotificationPreferences, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.NotificationPreferences{}, ErrNotFound
		}
		return model.NotificationPreferences{}, err
	}

	if req.Channel != nil {
		if *req.Channel != model.ChannelEmail && *req.Channel != model.ChannelInApp {
			return model.NotificationPreferences{}, badInput("unknown channel %q", *req.Channel)
		}
		user.Preferences.Channel = *req.Channel
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return model.NotificationPreferences{}, badInput("invalid timezone: %v", err)
		}
		user.Preferences.Timezone = *req.Timezone
	}
	if req.Bills != nil {
		user.Preferences.Bills = *req.Bills
	}
	if req.Budgets != nil {
		user.Preferences.Budgets = *req.Budgets
	}
	if req.GroupAlerts != nil {
		user.Preferences.GroupAlerts = *req.GroupAlerts
	}
	if req.SmartReminders != nil {
		user.Preferences.SmartReminders = *req.SmartReminders
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return model.NotificationPreferences{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return user.Preferences, nil
}

// --- Reminders ---

func (s *reminderService) CreateReminder(ctx context.Context, userID string, req CreateReminderRequest) (ReminderResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ReminderResponse{}, badInput("invalid user id: %v", err)
	}
	if req.Channel != "" && req.Channel != model.ChannelEmail && req.Channel != model.ChannelInApp {
		return ReminderResponse{}, badInput("unknown channel %q", req.Channel)
	}

	sendAt, err := parseDate(req.SendAt)
	if err != nil {
		return ReminderResponse{}, badInput("invalid sendAt: %v", err)
	}

	reminder := model.Reminder{
		UserID:  uid,
		Message: req.Message,
		Channel: req.Channel,
		SendAt:  sendAt,
	}
	if err := s.reminderRepo.Create(ctx, &reminder); err != nil {
		return ReminderResponse{}, fmt.Errorf("failed to create reminder: %w", err)
	}
	return toReminderResponse(reminder), nil
}

func (s *reminderService) ListReminders(ctx context.Context, userID string, includeSent bool, limit int) ([]ReminderResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, badInput("invalid user id: %v", err)
	}
	if limit <= 0 {
		limit = 50
	}
	reminders, err := s.reminderRepo.ListForUser(ctx, uid, includeSent, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminders: %w", err)
	}
	return toReminderResponses(reminders), nil
}

func (s *reminderService) ReminderHistory(ctx context.Context, userID string, limit int) ([]ReminderResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, badInput("invalid user id: %v", err)
	}
	if limit <= 0 {
		limit = 100
	}
	reminders, err := s.reminderRepo.History(ctx, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminder history: %w", err)
	}
	return toReminderResponses(reminders), nil
}

func (s *reminderService) Stats(ctx context.Context, userID string) (ReminderStats, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ReminderStats{}, badInput("invalid user id: %v", err)
	}
	reminders, err := s.reminderRepo.History(ctx, uid, 1000)
	if err != nil {
		return ReminderStats{}, fmt.Errorf("failed to fetch reminders: %w", err)
	}

	var stats ReminderStats
	for _, r := range reminders {
		switch {
		case r.Sent:
			stats.Sent++
		case r.Error != nil:
			stats.Failed++
		default:
			stats.Pending++
		}
	}
	return stats, nil
}

// --- Dispatch ---

// StartDispatcher registers the every-minute sweep on the given scheduler.
// The caller owns the cron lifecycle.
func (s *reminderService) StartDispatcher(c *cron.Cron) error {
	_, err := c.AddFunc("* * * * *", func() {
		s.DispatchDue(context.Background(), time.Now())
	})
	return err
}

// DispatchDue sends every due unsent reminder and returns how many were
// delivered. A failed delivery keeps the row unsent with the error recorded,
// so the next sweep retries it.
func (s *reminderService) DispatchDue(ctx context.Context, now time.Time) int {
	due, err := s.reminderRepo.FindDue(ctx, now, 20)
	if err != nil {
		log.Printf("reminder sweep query failed: %v", err)
		return 0
	}

	delivered := 0
	for i := range due {
		reminder := &due[i]
		if err := s.deliver(ctx, reminder); err != nil {
			msg := err.Error()
			reminder.Error = &msg
			log.Printf("reminder %s delivery failed: %v", reminder.ID, err)
		} else {
			reminder.Sent = true
			reminder.Error = nil
			delivered++
		}
		if err := s.reminderRepo.Update(ctx, reminder); err != nil {
			log.Printf("reminder %s state update failed: %v", reminder.ID, err)
		}
	}
	return delivered
}

func (s *reminderService) deliver(ctx context.Context, reminder *model.Reminder) error {
	user, err := s.userRepo.GetByID(ctx, reminder.UserID.String())
	if err != nil {
		return fmt.Errorf("failed to load recipient: %w", err)
	}

	channel := reminder.Channel
	if channel == "" {
		channel = user.Preferences.Channel
	}
	if channel == "" {
		channel = model.ChannelEmail
	}

	switch channel {
	case model.ChannelEmail:
		if s.mail == nil {
			return errors.New("email delivery is not configured")
		}
		return s.mail.Send(user.Email, "Reminder", reminder.Message)
	case model.ChannelInApp:
		if s.inApp == nil {
			return errors.New("in-app delivery is not configured")
		}
		if s.inApp.SendToUser(user.ID.String(), map[string]any{
			"type":    "reminder",
			"id":      reminder.ID.String(),
			"message": reminder.Message,
			"sendAt":  reminder.SendAt.Format(time.RFC3339),
		}) == 0 {
			return errors.New("recipient has no active connection")
		}
		return nil
	default:
		return fmt.Errorf("unknown channel %q", channel)
	}
}

// --- Mapping ---

func toReminderResponse(r model.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:        r.ID.String(),
		Message:   r.Message,
		Channel:   r.Channel,
		SendAt:    r.SendAt.Format(time.RFC3339),
		Sent:      r.Sent,
		Error:     r.Error,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func toReminderResponses(reminders []model.Reminder) []ReminderResponse {
	result := make([]ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		result = append(result, toReminderResponse(r))
	}
	return result
}
