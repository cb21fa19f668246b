package models

import "time"

// Club is the tenant root. Every other club-scoped entity lives in a
// subcollection keyed by the club's ID.
type Club struct {
	ID          string       `json:"id" firestore:"id"`
	Name        string       `json:"name" firestore:"name" validate:"required,max=120"`
	Slug        string       `json:"slug" firestore:"slug"`
	Description string       `json:"description" firestore:"description" validate:"max=2000"`
	Type        ClubType     `json:"type" firestore:"type" validate:"required,clubtype"`
	LogoURL     *string      `json:"logoURL,omitempty" firestore:"logoURL,omitempty" validate:"omitempty,url"`
	BannerURL   *string      `json:"bannerURL,omitempty" firestore:"bannerURL,omitempty" validate:"omitempty,url"`
	Address     *string      `json:"address,omitempty" firestore:"address,omitempty"`
	City        *string      `json:"city,omitempty" firestore:"city,omitempty"`
	Region      *string      `json:"region,omitempty" firestore:"region,omitempty"`
	Phone       *string      `json:"phone,omitempty" firestore:"phone,omitempty"`
	Email       string       `json:"email" firestore:"email" validate:"omitempty,email"`
	Website     *string      `json:"website,omitempty" firestore:"website,omitempty" validate:"omitempty,url"`
	SocialMedia *SocialMedia `json:"socialMedia,omitempty" firestore:"socialMedia,omitempty"`
	OwnerID     string       `json:"ownerId" firestore:"ownerId" validate:"required"`
	MemberCount int64        `json:"memberCount" firestore:"memberCount"` // maintained transactionally with the members subcollection
	IsActive    bool         `json:"isActive" firestore:"isActive"`
	Settings    ClubSettings `json:"settings" firestore:"settings"`
	CreatedAt   time.Time    `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time    `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// SocialMedia holds optional links to a club's social profiles.
type SocialMedia struct {
	Facebook  *string `json:"facebook,omitempty" firestore:"facebook,omitempty"`
	Instagram *string `json:"instagram,omitempty" firestore:"instagram,omitempty"`
	Twitter   *string `json:"twitter,omitempty" firestore:"twitter,omitempty"`
}

// ClubSettings configures billing, reminders and the public portal of a club.
type ClubSettings struct {
	Currency           string          `json:"currency" firestore:"currency" validate:"required,len=3"`
	Timezone           string          `json:"timezone" firestore:"timezone" validate:"required"`
	PaymentMethods     []PaymentMethod `json:"paymentMethods" firestore:"paymentMethods" validate:"dive,paymentmethod"`
	AutoReminders      bool            `json:"autoReminders" firestore:"autoReminders"`
	ReminderDaysBefore []int           `json:"reminderDaysBefore" firestore:"reminderDaysBefore" validate:"dive,gte=0"`
	LateFeePct         float64         `json:"lateFeePct" firestore:"lateFeePct" validate:"gte=0,lte=100"`
	GracePeriodDays    int             `json:"gracePeriodDays" firestore:"gracePeriodDays" validate:"gte=0"`
	BrandColor         string          `json:"brandColor" firestore:"brandColor" validate:"omitempty,hexcolor"`
	PortalSlug         string          `json:"portalSlug" firestore:"portalSlug"` // always equal to Club.Slug
}

const (
	DefaultCurrency   = "CLP"
	DefaultTimezone   = "America/Santiago"
	DefaultBrandColor = "#2563eb"
)

// DefaultClubSettings returns the settings a freshly created club starts with.
func DefaultClubSettings() ClubSettings {
	return ClubSettings{
		Currency:           DefaultCurrency,
		Timezone:           DefaultTimezone,
		PaymentMethods:     []PaymentMethod{MethodTransfer, MethodWebpay},
		AutoReminders:      true,
		ReminderDaysBefore: []int{7, 3, 1},
		LateFeePct:         0,
		GracePeriodDays:    5,
		BrandColor:         DefaultBrandColor,
	}
}

// ClubPortal is the public view of a club served on its portal slug.
type ClubPortal struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description"`
	Type           ClubType        `json:"type"`
	LogoURL        *string         `json:"logoURL,omitempty"`
	BannerURL      *string         `json:"bannerURL,omitempty"`
	City           *string         `json:"city,omitempty"`
	Region         *string         `json:"region,omitempty"`
	Email          string          `json:"email"`
	Website        *string         `json:"website,omitempty"`
	SocialMedia    *SocialMedia    `json:"socialMedia,omitempty"`
	Currency       string          `json:"currency"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
	BrandColor     string          `json:"brandColor"`
}

// Portal projects the publicly visible fields of the club.
func (c *Club) Portal() *ClubPortal {
	return &ClubPortal{
		ID:             c.ID,
		Name:           c.Name,
		Slug:           c.Slug,
		Description:    c.Description,
		Type:           c.Type,
		LogoURL:        c.LogoURL,
		BannerURL:      c.BannerURL,
		City:           c.City,
		Region:         c.Region,
		Email:          c.Email,
		Website:        c.Website,
		SocialMedia:    c.SocialMedia,
		Currency:       c.Settings.Currency,
		PaymentMethods: c.Settings.PaymentMethods,
		BrandColor:     c.Settings.BrandColor,
	}
}

// ClubPatch lists every mutable club field. Slug, owner, counters and
// timestamps are deliberately absent.
type ClubPatch struct {
	Name        *string            `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Type        *ClubType          `json:"type" validate:"omitempty,clubtype"`
	LogoURL     *string            `json:"logoURL" validate:"omitempty,url"`
	BannerURL   *string            `json:"bannerURL" validate:"omitempty,url"`
	Address     *string            `json:"address"`
	City        *string            `json:"city"`
	Region      *string            `json:"region"`
	Phone       *string            `json:"phone"`
	Email       *string            `json:"email" validate:"omitempty,email"`
	Website     *string            `json:"website" validate:"omitempty,url"`
	SocialMedia *SocialMedia       `json:"socialMedia"`
	IsActive    *bool              `json:"isActive"`
	Settings    *ClubSettingsPatch `json:"settings"`
}

// ClubSettingsPatch lists the mutable settings. The portal slug follows the
// club slug and cannot be patched.
type ClubSettingsPatch struct {
	Currency           *string          `json:"currency" validate:"omitempty,len=3"`
	Timezone           *string          `json:"timezone" validate:"omitempty,min=1"`
	PaymentMethods     *[]PaymentMethod `json:"paymentMethods" validate:"omitempty,dive,paymentmethod"`
	AutoReminders      *bool            `json:"autoReminders"`
	ReminderDaysBefore *[]int           `json:"reminderDaysBefore" validate:"omitempty,dive,gte=0"`
	LateFeePct         *float64         `json:"lateFeePct" validate:"omitempty,gte=0,lte=100"`
	GracePeriodDays    *int             `json:"gracePeriodDays" validate:"omitempty,gte=0"`
	BrandColor         *string          `json:"brandColor" validate:"omitempty,hexcolor"`
}

// ApplyTo overwrites the settings fields the patch carries. Slices are
// copied so the patch and the settings never share storage.
func (p ClubSettingsPatch) ApplyTo(s *ClubSettings) {
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.PaymentMethods != nil {
		s.PaymentMethods = append([]PaymentMethod{}, (*p.PaymentMethods)...)
	}
	if p.AutoReminders != nil {
		s.AutoReminders = *p.AutoReminders
	}
	if p.ReminderDaysBefore != nil {
		s.ReminderDaysBefore = append([]int{}, (*p.ReminderDaysBefore)...)
	}
	if p.LateFeePct != nil {
		s.LateFeePct = *p.LateFeePct
	}
	if p.GracePeriodDays != nil {
		s.GracePeriodDays = *p.GracePeriodDays
	}
	if p.BrandColor != nil {
		s.BrandColor = *p.BrandColor
	}
}

// Updates returns the field assignments carried by the patch.
func (p ClubPatch) Updates() []FieldChange {
	var c changeSet
	setString(&c, "name", p.Name)
	setString(&c, "description", p.Description)
	if p.Type != nil {
		c.add("type", *p.Type)
	}
	setString(&c, "logoURL", p.LogoURL)
	setString(&c, "bannerURL", p.BannerURL)
	setString(&c, "address", p.Address)
	setString(&c, "city", p.City)
	setString(&c, "region", p.Region)
	setString(&c, "phone", p.Phone)
	setString(&c, "email", p.Email)
	setString(&c, "website", p.Website)
	if p.SocialMedia != nil {
		c.add("socialMedia", p.SocialMedia)
	}
	setBool(&c, "isActive", p.IsActive)
	if s := p.Settings; s != nil {
		setString(&c, "settings.currency", s.Currency)
		setString(&c, "settings.timezone", s.Timezone)
		if s.PaymentMethods != nil {
			c.add("settings.paymentMethods", *s.PaymentMethods)
		}
		setBool(&c, "settings.autoReminders", s.AutoReminders)
		if s.ReminderDaysBefore != nil {
			c.add("settings.reminderDaysBefore", *s.ReminderDaysBefore)
		}
		if s.LateFeePct != nil {
			c.add("settings.lateFeePct", *s.LateFeePct)
		}
		if s.GracePeriodDays != nil {
			c.add("settings.gracePeriodDays", *s.GracePeriodDays)
		}
		setString(&c, "settings.brandColor", s.BrandColor)
	}
	return c
}

// ClubSlugClaim reserves a slug for exactly one club.
type ClubSlugClaim struct {
	Slug      string    `json:"slug" firestore:"slug"`
	ClubID    string    `json:"clubId" firestore:"clubId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// UserClubMembership is one entry of the userId -> clubIds index. Memberships
// counts the member rows linking the user to the club, so duplicate rows
// collapse into a single entry.
type UserClubMembership struct {
	UserID      string    `json:"userId" firestore:"userId"`
	ClubID      string    `json:"clubId" firestore:"clubId"`
	Memberships int64     `json:"memberships" firestore:"memberships"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// CountReconciliation reports the outcome of recounting a club's members.
type CountReconciliation struct {
	ClubID string `json:"clubId"`
	Before int64  `json:"before"`
	After  int64  `json:"after"`
}

// Drifted reports whether the stored counter had to be corrected.
func (r CountReconciliation) Drifted() bool { return r.Before != r.After }
