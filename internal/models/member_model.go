package models

import (
	"strings"
	"time"
)

// Member is a person affiliated with a club, optionally linked to a User.
type Member struct {
	ID          string    `json:"id" firestore:"id"`
	UserID      *string   `json:"userId,omitempty" firestore:"userId"`
	ClubID      string    `json:"clubId" firestore:"clubId"`
	FirstName   string    `json:"firstName" firestore:"firstName" validate:"required,max=80"`
	LastName    string    `json:"lastName" firestore:"lastName" validate:"required,max=80"`
	Email       string    `json:"email" firestore:"email" validate:"omitempty,email"`
	Phone       *string   `json:"phone,omitempty" firestore:"phone,omitempty"`
	RUT         *string   `json:"rut,omitempty" firestore:"rut,omitempty"`
	Role        UserRole  `json:"role" firestore:"role" validate:"required,userrole"`
	Category    *string   `json:"category,omitempty" firestore:"category,omitempty"`
	PhotoURL    *string   `json:"photoURL,omitempty" firestore:"photoURL,omitempty" validate:"omitempty,url"`
	ParentName  *string   `json:"parentName,omitempty" firestore:"parentName,omitempty"`
	ParentEmail *string   `json:"parentEmail,omitempty" firestore:"parentEmail,omitempty" validate:"omitempty,email"`
	ParentPhone *string   `json:"parentPhone,omitempty" firestore:"parentPhone,omitempty"`
	JoinedAt    time.Time `json:"joinedAt" firestore:"joinedAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
	IsActive    bool      `json:"isActive" firestore:"isActive"`
	Balance     int64     `json:"balance" firestore:"balance"` // running amount in the club currency
	Notes       *string   `json:"notes,omitempty" firestore:"notes,omitempty"`
}

// FullName is the display name denormalised onto payments and invoices.
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// LinkedUserID returns the linked user's UID, or "" when the member is not
// linked to an account.
func (m *Member) LinkedUserID() string {
	if m.UserID == nil {
		return ""
	}
	return *m.UserID
}

// MemberPatch lists every mutable member field. Setting UserID to "" unlinks
// the member from its account.
type MemberPatch struct {
	UserID      *string   `json:"userId"`
	FirstName   *string   `json:"firstName" validate:"omitempty,min=1,max=80"`
	LastName    *string   `json:"lastName" validate:"omitempty,min=1,max=80"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Phone       *string   `json:"phone"`
	RUT         *string   `json:"rut"`
	Role        *UserRole `json:"role" validate:"omitempty,userrole"`
	Category    *string   `json:"category"`
	PhotoURL    *string   `json:"photoURL" validate:"omitempty,url"`
	ParentName  *string   `json:"parentName"`
	ParentEmail *string   `json:"parentEmail" validate:"omitempty,email"`
	ParentPhone *string   `json:"parentPhone"`
	IsActive    *bool     `json:"isActive"`
	Balance     *int64    `json:"balance"`
	Notes       *string   `json:"notes"`
}

// Updates returns the field assignments carried by the patch. The userId link
// is handled separately by the repository because it moves an index entry.
func (p MemberPatch) Updates() []FieldChange {
	var c changeSet
	setString(&c, "firstName", p.FirstName)
	setString(&c, "lastName", p.LastName)
	setString(&c, "email", p.Email)
	setString(&c, "phone", p.Phone)
	setString(&c, "rut", p.RUT)
	if p.Role != nil {
		c.add("role", *p.Role)
	}
	setString(&c, "category", p.Category)
	setString(&c, "photoURL", p.PhotoURL)
	setString(&c, "parentName", p.ParentName)
	setString(&c, "parentEmail", p.ParentEmail)
	setString(&c, "parentPhone", p.ParentPhone)
	setBool(&c, "isActive", p.IsActive)
	if p.Balance != nil {
		c.add("balance", *p.Balance)
	}
	setString(&c, "notes", p.Notes)
	return c
}
