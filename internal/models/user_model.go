package models

import "time"

// User is the profile document mirrored from an authenticated identity.
// The document key is the identity provider's UID.
type User struct {
	UID         string    `json:"uid" firestore:"uid"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName" firestore:"displayName"`
	PhotoURL    *string   `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Phone       *string   `json:"phone,omitempty" firestore:"phone,omitempty"`
	RUT         *string   `json:"rut,omitempty" firestore:"rut,omitempty"`
	Clubs       []string  `json:"clubs" firestore:"clubs"` // IDs of clubs the user owns
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// UserPatch lists the profile fields a user may change about themselves.
type UserPatch struct {
	DisplayName *string `json:"displayName" validate:"omitempty,min=1,max=120"`
	PhotoURL    *string `json:"photoURL" validate:"omitempty,url"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	RUT         *string `json:"rut"`
}

// Updates returns the field assignments carried by the patch.
func (p UserPatch) Updates() []FieldChange {
	var c changeSet
	setString(&c, "displayName", p.DisplayName)
	setString(&c, "photoURL", p.PhotoURL)
	setString(&c, "phone", p.Phone)
	setString(&c, "rut", p.RUT)
	return c
}
