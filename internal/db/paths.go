package db

import (
	"strings"

	"clubhub-backend-go/internal/models"
)

// Collection IDs of the persisted layout.
const (
	usersCollection       = "users"
	clubsCollection       = "clubs"
	membersCollection     = "members"
	paymentsCollection    = "payments"
	invoicesCollection    = "invoices"
	eventsCollection      = "events"
	attendanceCollection  = "attendance"
	documentsCollection   = "documents"
	auditLogsCollection   = "auditLogs"
	clubSlugsCollection   = "clubSlugs"
	membershipsCollection = "userClubMemberships"
	membershipEntries     = "memberships"
)

// clubSubcollections lists every collection owned by a club document.
var clubSubcollections = []string{
	membersCollection,
	paymentsCollection,
	invoicesCollection,
	eventsCollection,
	attendanceCollection,
	documentsCollection,
	auditLogsCollection,
}

func userPath(uid string) string { return usersCollection + "/" + uid }

func clubPath(clubID string) string { return clubsCollection + "/" + clubID }

func clubCollection(clubID, name string) string { return clubPath(clubID) + "/" + name }

func clubDoc(clubID, name, id string) string { return clubCollection(clubID, name) + "/" + id }

func slugPath(slug string) string { return clubSlugsCollection + "/" + slug }

func membershipCollection(uid string) string {
	return membershipsCollection + "/" + uid + "/" + membershipEntries
}

func membershipPath(uid, clubID string) string { return membershipCollection(uid) + "/" + clubID }

// lastSegment returns the document ID of a path.
func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// checkID rejects IDs that cannot be used as a single path segment.
func checkID(field, id string) error {
	if id == "" {
		return models.NewValidationError(field, "is required")
	}
	if strings.Contains(id, "/") || id == "." || id == ".." {
		return models.NewValidationError(field, "is not a valid document ID")
	}
	return nil
}
