package models

import "time"

// CreateClubRequest is the body accepted when creating a club. Settings are
// applied over DefaultClubSettings: fields left out keep their default.
type CreateClubRequest struct {
	Name        string             `json:"name" validate:"required,max=120"`
	Description string             `json:"description" validate:"max=2000"`
	Type        ClubType           `json:"type" validate:"required,clubtype"`
	LogoURL     *string            `json:"logoURL" validate:"omitempty,url"`
	BannerURL   *string            `json:"bannerURL" validate:"omitempty,url"`
	Address     *string            `json:"address"`
	City        *string            `json:"city"`
	Region      *string            `json:"region"`
	Phone       *string            `json:"phone"`
	Email       string             `json:"email" validate:"omitempty,email"`
	Website     *string            `json:"website" validate:"omitempty,url"`
	SocialMedia *SocialMedia       `json:"socialMedia"`
	IsActive    *bool              `json:"isActive"`
	Settings    *ClubSettingsPatch `json:"settings"`
}

// CreatePaymentRequest charges one member.
type CreatePaymentRequest struct {
	MemberID string `json:"memberId" validate:"required"`
	PaymentTemplate
}

// BulkPaymentRequest charges several members with the same template. An
// empty MemberIDs targets every active member of the club.
type BulkPaymentRequest struct {
	MemberIDs []string `json:"memberIds" validate:"dive,required"`
	PaymentTemplate
}

// CreateInvoiceRequest issues an invoice to one member.
type CreateInvoiceRequest struct {
	MemberID string        `json:"memberId" validate:"required"`
	Number   string        `json:"number" validate:"required,max=40"`
	Items    []InvoiceItem `json:"items" validate:"required,min=1,dive"`
	Tax      int64         `json:"tax" validate:"gte=0"`
	Status   InvoiceStatus `json:"status" validate:"omitempty,invoicestatus"`
	DueDate  time.Time     `json:"dueDate" validate:"required"`
	Notes    *string       `json:"notes"`
}

// SignUpRequest registers a new account with email and password.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName" validate:"required,max=120"`
}

// SignInRequest authenticates with email and password.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleSignInRequest carries the credential produced by the Google flow.
type GoogleSignInRequest struct {
	IDToken     string `json:"idToken"`
	AccessToken string `json:"accessToken"`
	RequestURI  string `json:"requestUri"`
}

// ResetPasswordRequest asks for a password-reset mail.
type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}
