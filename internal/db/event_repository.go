package db

import (
	"context"
	"fmt"
	"time"

	"clubhub-backend-go/internal/models"
)

type eventRepository struct {
	store Store
}

// NewEventRepository creates an EventRepository.
func NewEventRepository(store Store) EventRepository {
	return &eventRepository{store: store}
}

// Create stores the event; createdAt is stamped by the store.
func (r *eventRepository) Create(ctx context.Context, clubID string, event *models.Event) (string, error) {
	if err := checkID("clubId", clubID); err != nil {
		return "", err
	}
	if event == nil {
		return "", models.NewValidationError("event", "is required")
	}
	event.ID = r.store.NewID()
	event.ClubID = clubID
	event.CreatedAt = time.Time{}
	if event.Attendees == nil {
		event.Attendees = []string{}
	}
	if err := models.Validate(event); err != nil {
		return "", err
	}
	if err := r.store.Create(ctx, clubDoc(clubID, eventsCollection, event.ID), event); err != nil {
		return "", fmt.Errorf("failed to create event in club '%s': %w", clubID, err)
	}
	return event.ID, nil
}

func (r *eventRepository) Get(ctx context.Context, clubID, eventID string) (*models.Event, error) {
	if err := checkID("clubId", clubID); err != nil {
		return nil, err
	}
	if err := checkID("eventId", eventID); err != nil {
		return nil, err
	}
	var event models.Event
	found, err := r.store.Get(ctx, clubDoc(clubID, eventsCollection, eventID), &event)
	if err != nil {
		return nil, fmt.Errorf("failed to get event '%s' of club '%s': %w", eventID, clubID, err)
	}
	if !found {
		return nil, nil
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, clubID string, opts ListOptions) ([]*models.Event, error) {
	return listInto[models.Event](ctx, r.store, clubID, eventsCollection, opts)
}

type attendanceRepository struct {
	store Store
}

// NewAttendanceRepository creates an AttendanceRepository.
func NewAttendanceRepository(store Store) AttendanceRepository {
	return &attendanceRepository{store: store}
}

// Record stores an attendance entry. A zero Date is stamped with the commit
// time.
func (r *attendanceRepository) Record(ctx context.Context, clubID string, attendance *models.Attendance) (string, error) {
	if err := checkID("clubId", clubID); err != nil {
		return "", err
	}
	if attendance == nil {
		return "", models.NewValidationError("attendance", "is required")
	}
	attendance.ID = r.store.NewID()
	attendance.ClubID = clubID
	if err := models.Validate(attendance); err != nil {
		return "", err
	}
	if err := r.store.Create(ctx, clubDoc(clubID, attendanceCollection, attendance.ID), attendance); err != nil {
		return "", fmt.Errorf("failed to record attendance in club '%s': %w", clubID, err)
	}
	return attendance.ID, nil
}

func (r *attendanceRepository) List(ctx context.Context, clubID string, opts ListOptions) ([]*models.Attendance, error) {
	return listInto[models.Attendance](ctx, r.store, clubID, attendanceCollection, opts)
}
