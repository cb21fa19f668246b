package models

import "time"

// Event is a scheduled club activity.
type Event struct {
	ID          string    `json:"id" firestore:"id"`
	ClubID      string    `json:"clubId" firestore:"clubId"`
	Title       string    `json:"title" firestore:"title" validate:"required,max=200"`
	Description string    `json:"description" firestore:"description"`
	Location    *string   `json:"location,omitempty" firestore:"location,omitempty"`
	StartDate   time.Time `json:"startDate" firestore:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" firestore:"endDate" validate:"required,gtefield=StartDate"`
	IsAllDay    bool      `json:"isAllDay" firestore:"isAllDay"`
	Attendees   []string  `json:"attendees" firestore:"attendees"` // member IDs
	CreatedBy   string    `json:"createdBy" firestore:"createdBy" validate:"required"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Attendance records one member's presence, optionally at an event.
type Attendance struct {
	ID         string           `json:"id" firestore:"id"`
	ClubID     string           `json:"clubId" firestore:"clubId"`
	MemberID   string           `json:"memberId" firestore:"memberId" validate:"required"`
	MemberName string           `json:"memberName" firestore:"memberName"`
	Date       time.Time        `json:"date" firestore:"date,serverTimestamp"` // now when unset
	Status     AttendanceStatus `json:"status" firestore:"status" validate:"required,attendancestatus"`
	EventID    *string          `json:"eventId,omitempty" firestore:"eventId,omitempty"`
	Notes      *string          `json:"notes,omitempty" firestore:"notes,omitempty"`
}
