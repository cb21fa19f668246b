package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

type eventService struct {
	eventRepo      db.EventRepository
	attendanceRepo db.AttendanceRepository
	memberRepo     db.MemberRepository
	guard          clubGuard
	auditor        auditor
}

// NewEventService creates a new EventService instance.
func NewEventService(
	cr db.ClubRepository,
	mr db.MemberRepository,
	er db.EventRepository,
	ar db.AttendanceRepository,
	as AuditService,
	logger *zap.Logger,
) EventService {
	return &eventService{
		eventRepo:      er,
		attendanceRepo: ar,
		memberRepo:     mr,
		guard:          clubGuard{clubs: cr, members: mr},
		auditor:        auditor{audit: as, logger: logger},
	}
}

func (s *eventService) CreateEvent(ctx context.Context, userID, clubID string, event models.Event) (*models.Event, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return nil, err
	}
	event.CreatedBy = userID
	eventID, err := s.eventRepo.Create(ctx, clubID, &event)
	if err != nil {
		return nil, err
	}
	s.auditor.record(ctx, userID, clubID, models.AuditEventCreate, "EVENT", eventID, map[string]string{
		"title": event.Title,
	})
	stored, err := s.eventRepo.Get(ctx, clubID, eventID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: event with ID '%s'", ErrEventNotFound, eventID)
	}
	return stored, nil
}

func (s *eventService) ListEvents(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.Event, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessRead); err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, clubID, opts)
}

// RecordAttendance stores an attendance entry for an existing member and,
// when given, an existing event.
func (s *eventService) RecordAttendance(ctx context.Context, userID, clubID string, attendance models.Attendance) (*models.Attendance, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return nil, err
	}
	if attendance.MemberID == "" {
		return nil, models.NewValidationError("memberId", "is required")
	}
	member, err := memberOf(ctx, s.memberRepo, clubID, attendance.MemberID)
	if err != nil {
		return nil, err
	}
	if attendance.EventID != nil && *attendance.EventID != "" {
		event, err := s.eventRepo.Get(ctx, clubID, *attendance.EventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, fmt.Errorf("%w: event with ID '%s'", ErrEventNotFound, *attendance.EventID)
		}
	}
	attendance.MemberName = member.FullName()
	if _, err := s.attendanceRepo.Record(ctx, clubID, &attendance); err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (s *eventService) ListAttendance(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.Attendance, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessRead); err != nil {
		return nil, err
	}
	return s.attendanceRepo.List(ctx, clubID, opts)
}
