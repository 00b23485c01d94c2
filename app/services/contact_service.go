package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rakhulsr/mellomelt/app/helpers"
	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ContactNotifier is told about every stored contact message.
type ContactNotifier interface {
	ContactReceived(ctx context.Context, msg *models.ContactMessage)
}

type ContactService struct {
	repo     repositories.ContactRepository
	notifier ContactNotifier
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

func NewContactService(repo repositories.ContactRepository, notifier ContactNotifier, validate *validator.Validate, logger *zap.Logger) *ContactService {
	if validate == nil {
		validate = helpers.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{repo: repo, notifier: notifier, validate: validate, now: time.Now, logger: logger}
}

func (s *ContactService) Submit(ctx context.Context, form models.ContactForm) (*models.ContactMessage, error) {
	if err := validationError(helpers.ValidateStruct(s.validate, form)); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Subject: strings.TrimSpace(form.Subject),
		Message: strings.TrimSpace(form.Message),
	}
	if p := strings.TrimSpace(form.Phone); p != "" {
		msg.Phone = &p
	}
	return s.store(ctx, msg)
}

// Book stores an event booking as a contact message. The date may not be
// in the past.
func (s *ContactService) Book(ctx context.Context, form models.BookingForm) (*models.ContactMessage, error) {
	fields := helpers.ValidateStruct(s.validate, form)
	if _, bad := fields["date"]; !bad && form.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", form.Date, time.Local)
		now := s.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		if err == nil && day.Before(today) {
			fields["date"] = "Date cannot be in the past."
		}
	}
	if err := validationError(fields); err != nil {
		return nil, err
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Event type: %s\n", form.EventType)
	fmt.Fprintf(&body, "Date: %s at %s\n", form.Date, form.Time)
	fmt.Fprintf(&body, "Guests: %s\n", form.Guests)
	if m := strings.TrimSpace(form.Message); m != "" {
		fmt.Fprintf(&body, "\n%s", m)
	}

	phone := strings.TrimSpace(form.Phone)
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Phone:   &phone,
		Subject: "Booking: " + form.EventType,
		Message: body.String(),
	}
	return s.store(ctx, msg)
}

func (s *ContactService) store(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("save contact message: %w", err)
	}
	s.logger.Info("ContactService: message stored", zap.String("id", msg.ID), zap.String("subject", msg.Subject))
	if s.notifier != nil {
		s.notifier.ContactReceived(ctx, msg)
	}
	return msg, nil
}
