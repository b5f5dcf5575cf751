package notifications

import (
	"context"
	"log/slog"
	"time"
)

const (
	TypeLeaveSubmitted       = "leave_submitted"
	TypeLeaveApproved        = "leave_approved"
	TypeLeaveRejected        = "leave_rejected"
	TypePayslipGenerated     = "payslip_generated"
	TypeProfileEditsApproved = "profile_edits_approved"
	TypeProfileEditsRejected = "profile_edits_rejected"
)

type Notification struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type StoreAPI interface {
	CreateNotification(ctx context.Context, employeeID, ntype, title, body string) error
	EmployeeEmail(ctx context.Context, employeeID string) (string, error)
	ListNotifications(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, employeeID string) (int, error)
	MarkRead(ctx context.Context, employeeID, notificationID string) error
}

// Service stores in-app notifications and mirrors them to email when a
// mailer is wired. Email failures are logged, never surfaced; the workflow
// that triggered the notification must not fail on a mail outage.
type Service struct {
	Store       StoreAPI
	Mailer      Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer Mailer, defaultFrom string) *Service {
	return &Service{Store: store, Mailer: mailer, DefaultFrom: defaultFrom}
}

func (s *Service) Notify(ctx context.Context, employeeID, ntype, title, body string) error {
	if err := s.Store.CreateNotification(ctx, employeeID, ntype, title, body); err != nil {
		return err
	}
	if s.Mailer == nil {
		return nil
	}

	email, err := s.Store.EmployeeEmail(ctx, employeeID)
	if err != nil || email == "" {
		if err != nil {
			slog.Warn("notification email lookup failed", "err", err)
		}
		return nil
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, email, title, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error) {
	return s.Store.ListNotifications(ctx, employeeID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, employeeID string) (int, error) {
	return s.Store.CountUnread(ctx, employeeID)
}

func (s *Service) MarkRead(ctx context.Context, employeeID, notificationID string) error {
	return s.Store.MarkRead(ctx, employeeID, notificationID)
}
