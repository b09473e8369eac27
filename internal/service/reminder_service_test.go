package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Fakes ---

type fakeReminderRepo struct {
	reminders map[uuid.UUID]*model.Reminder
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{reminders: make(map[uuid.UUID]*model.Reminder)}
}

func (f *fakeReminderRepo) Create(ctx context.Context, r *model.Reminder) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	stored := *r
	f.reminders[r.ID] = &stored
	return nil
}

func (f *fakeReminderRepo) ListForUser(ctx context.Context, userID uuid.UUID, includeSent bool, limit int) ([]model.Reminder, error) {
	var result []model.Reminder
	for _, r := range f.reminders {
		if r.UserID != userID {
			continue
		}
		if !includeSent && r.Sent {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (f *fakeReminderRepo) History(ctx context.Context, userID uuid.UUID, limit int) ([]model.Reminder, error) {
	return f.ListForUser(ctx, userID, true, limit)
}

func (f *fakeReminderRepo) FindDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	var due []model.Reminder
	for _, r := range f.reminders {
		if !r.Sent && !r.SendAt.After(now) {
			due = append(due, *r)
		}
	}
	return due, nil
}

func (f *fakeReminderRepo) Update(ctx context.Context, r *model.Reminder) error {
	stored := *r
	f.reminders[r.ID] = &stored
	return nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	stored := *u
	f.users[u.ID.String()] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *model.User) error {
	stored := *u
	f.users[u.ID.String()] = &stored
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CreateRefreshToken(ctx context.Context, t *model.RefreshToken) error { return nil }
func (f *fakeUserRepo) GetRefreshToken(ctx context.Context, t string) (*model.RefreshToken, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) DeleteRefreshToken(ctx context.Context, t string) error { return nil }

type recordingMailSender struct {
	sent []string
	err  error
}

func (m *recordingMailSender) Send(to, subject, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

type recordingInAppSender struct {
	delivered map[string]int
}

func (s *recordingInAppSender) SendToUser(userID string, payload any) int {
	if s.delivered == nil {
		s.delivered = make(map[string]int)
	}
	s.delivered[userID]++
	return 1
}

// --- Tests ---

func seedUser(t *testing.T, repo *fakeUserRepo, channel string) *model.User {
	t.Helper()
	user := &model.User{
		Name:  "Test User",
		Email: "user@example.com",
		Preferences: model.NotificationPreferences{
			Channel: channel,
		},
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestDispatchDueSendsEmail(t *testing.T) {
	reminderRepo := newFakeReminderRepo()
	userRepo := newFakeUserRepo()
	mail := &recordingMailSender{}
	svc := NewReminderService(reminderRepo, userRepo, mail, &recordingInAppSender{})

	user := seedUser(t, userRepo, model.ChannelEmail)
	past := time.Now().Add(-time.Minute)
	reminder := &model.Reminder{UserID: user.ID, Message: "Pay rent", SendAt: past}
	if err := reminderRepo.Create(context.Background(), reminder); err != nil {
		t.Fatalf("seed reminder: %v", err)
	}

	delivered := svc.DispatchDue(context.Background(), time.Now())
	if delivered != 1 {
		t.Fatalf("delivered = %d, want 1", delivered)
	}
	if len(mail.sent) != 1 || mail.sent[0] != user.Email {
		t.Errorf("mail sent to %v, want [%s]", mail.sent, user.Email)
	}
	if stored := reminderRepo.reminders[reminder.ID]; !stored.Sent {
		t.Error("reminder not marked sent")
	}
}

func TestDispatchDueReminderChannelOverridesPreference(t *testing.T) {
	reminderRepo := newFakeReminderRepo()
	userRepo := newFakeUserRepo()
	mail := &recordingMailSender{}
	inApp := &recordingInAppSender{}
	svc := NewReminderService(reminderRepo, userRepo, mail, inApp)

	user := seedUser(t, userRepo, model.ChannelEmail)
	reminder := &model.Reminder{
		UserID:  user.ID,
		Message: "Budget review",
		Channel: model.ChannelInApp,
		SendAt:  time.Now().Add(-time.Minute),
	}
	if err := reminderRepo.Create(context.Background(), reminder); err != nil {
		t.Fatalf("seed reminder: %v", err)
	}

	if delivered := svc.DispatchDue(context.Background(), time.Now()); delivered != 1 {
		t.Fatalf("delivered = %d, want 1", delivered)
	}
	if len(mail.sent) != 0 {
		t.Error("email sent despite in_app channel on the reminder")
	}
	if inApp.delivered[user.ID.String()] != 1 {
		t.Errorf("in-app deliveries = %d, want 1", inApp.delivered[user.ID.String()])
	}
}

func TestDispatchDueRecordsFailureAndRetries(t *testing.T) {
	reminderRepo := newFakeReminderRepo()
	userRepo := newFakeUserRepo()
	mail := &recordingMailSender{err: errors.New("smtp down")}
	svc := NewReminderService(reminderRepo, userRepo, mail, &recordingInAppSender{})

	user := seedUser(t, userRepo, model.ChannelEmail)
	reminder := &model.Reminder{UserID: user.ID, Message: "Pay rent", SendAt: time.Now().Add(-time.Minute)}
	if err := reminderRepo.Create(context.Background(), reminder); err != nil {
		t.Fatalf("seed reminder: %v", err)
	}

	if delivered := svc.DispatchDue(context.Background(), time.Now()); delivered != 0 {
		t.Fatalf("delivered = %d, want 0", delivered)
	}
	stored := reminderRepo.reminders[reminder.ID]
	if stored.Sent {
		t.Fatal("failed reminder marked sent")
	}
	if stored.Error == nil || *stored.Error != "smtp down" {
		t.Errorf("stored error = %v", stored.Error)
	}

	// Delivery recovers, next sweep picks the same row up again
	mail.err = nil
	if delivered := svc.DispatchDue(context.Background(), time.Now()); delivered != 1 {
		t.Fatalf("retry delivered = %d, want 1", delivered)
	}
	stored = reminderRepo.reminders[reminder.ID]
	if !stored.Sent || stored.Error != nil {
		t.Errorf("reminder after retry: sent=%v error=%v", stored.Sent, stored.Error)
	}
}

func TestDispatchDueSkipsFutureReminders(t *testing.T) {
	reminderRepo := newFakeReminderRepo()
	userRepo := newFakeUserRepo()
	svc := NewReminderService(reminderRepo, userRepo, &recordingMailSender{}, &recordingInAppSender{})

	user := seedUser(t, userRepo, model.ChannelEmail)
	reminder := &model.Reminder{UserID: user.ID, Message: "Later", SendAt: time.Now().Add(time.Hour)}
	if err := reminderRepo.Create(context.Background(), reminder); err != nil {
		t.Fatalf("seed reminder: %v", err)
	}

	if delivered := svc.DispatchDue(context.Background(), time.Now()); delivered != 0 {
		t.Fatalf("delivered = %d, want 0", delivered)
	}
}

func TestUpdatePreferencesPartial(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewReminderService(newFakeReminderRepo(), userRepo, &recordingMailSender{}, &recordingInAppSender{})

	user := seedUser(t, userRepo, model.ChannelEmail)

	channel := model.ChannelInApp
	bills := false
	prefs, err := svc.UpdatePreferences(context.Background(), user.ID.String(), PreferencesRequest{
		Channel: &channel,
		Bills:   &bills,
	})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if prefs.Channel != model.ChannelInApp {
		t.Errorf("channel = %s", prefs.Channel)
	}
	if prefs.Bills {
		t.Error("bills still enabled")
	}
}

func TestUpdatePreferencesRejectsUnknownChannel(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewReminderService(newFakeReminderRepo(), userRepo, &recordingMailSender{}, &recordingInAppSender{})

	user := seedUser(t, userRepo, model.ChannelEmail)

	channel := "pigeon"
	if _, err := svc.UpdatePreferences(context.Background(), user.ID.String(), PreferencesRequest{Channel: &channel}); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}
