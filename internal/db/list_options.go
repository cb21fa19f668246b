package db

import (
	"context"
	"fmt"

	"clubhub-backend-go/internal/models"
)

// MaxListLimit caps a single list read.
const MaxListLimit = 500

// ListOptions is the composable predicate set accepted by every list read:
// equality and range filters, ordering, a page size and a cursor.
// Without predicates the order is implementation-defined.
type ListOptions struct {
	Where   []Filter
	OrderBy []Order
	Limit   int
	// StartAfter is the ID of the last document of the previous page.
	StartAfter string
}

// Fields each club subcollection may be filtered or ordered by.
var listableFields = map[string]map[string]bool{
	membersCollection: set("userId", "role", "isActive", "category", "firstName", "lastName",
		"email", "balance", "joinedAt", "updatedAt"),
	paymentsCollection: set("memberId", "status", "method", "concept", "amount", "currency",
		"dueDate", "paidAt", "createdAt", "updatedAt", "isRecurring"),
	invoicesCollection:   set("memberId", "status", "number", "total", "issuedAt", "dueDate", "paidAt"),
	eventsCollection:     set("title", "startDate", "endDate", "isAllDay", "createdBy", "createdAt", "attendees"),
	attendanceCollection: set("memberId", "eventId", "status", "date"),
	documentsCollection:  set("name", "fileType", "fileSize", "uploadedBy", "isPublic", "createdAt"),
	auditLogsCollection:  set("userId", "action", "targetType", "targetId", "timestamp"),
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// query turns the options into a store query over one club subcollection,
// rejecting fields outside the collection's allow-list.
func (o ListOptions) query(clubID, collection string) (Query, error) {
	allowed := listableFields[collection]
	for _, f := range o.Where {
		if !allowed[f.Field] {
			return Query{}, models.NewValidationError("where", fmt.Sprintf("cannot filter %s by %q", collection, f.Field))
		}
		if !supportedOps[f.Op] {
			return Query{}, models.NewValidationError("where", fmt.Sprintf("unsupported operator %q", f.Op))
		}
	}
	for _, ord := range o.OrderBy {
		if !allowed[ord.Field] {
			return Query{}, models.NewValidationError("orderBy", fmt.Sprintf("cannot order %s by %q", collection, ord.Field))
		}
	}
	if o.Limit < 0 || o.Limit > MaxListLimit {
		return Query{}, models.NewValidationError("limit", fmt.Sprintf("must be between 0 and %d", MaxListLimit))
	}
	q := Query{
		Collection: clubCollection(clubID, collection),
		Filters:    o.Where,
		Orders:     o.OrderBy,
		Limit:      o.Limit,
	}
	if o.StartAfter != "" {
		if err := checkID("startAfter", o.StartAfter); err != nil {
			return Query{}, err
		}
		q.StartAfter = q.Collection + "/" + o.StartAfter
	}
	return q, nil
}

// listInto runs a list read over a club subcollection and decodes every
// document into a fresh T.
func listInto[T any](ctx context.Context, store Store, clubID, collection string, opts ListOptions) ([]*T, error) {
	if err := checkID("clubId", clubID); err != nil {
		return nil, err
	}
	q, err := opts.query(clubID, collection)
	if err != nil {
		return nil, err
	}
	snaps, err := store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s of club '%s': %w", collection, clubID, err)
	}
	return decodeAll[T](snaps, collection)
}

func decodeAll[T any](snaps []Snapshot, what string) ([]*T, error) {
	out := make([]*T, 0, len(snaps))
	for _, snap := range snaps {
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, fmt.Errorf("failed to decode %s '%s': %w", what, snap.ID, err)
		}
		out = append(out, &v)
	}
	return out, nil
}
