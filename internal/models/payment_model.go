package models

import "time"

// Payment is a charge owed by one member of a club.
type Payment struct {
	ID            string         `json:"id" firestore:"id"`
	ClubID        string         `json:"clubId" firestore:"clubId"`
	MemberID      string         `json:"memberId" firestore:"memberId" validate:"required"`
	MemberName    string         `json:"memberName" firestore:"memberName"` // denormalised at creation
	Amount        int64          `json:"amount" firestore:"amount" validate:"gt=0"`
	Currency      string         `json:"currency" firestore:"currency" validate:"required,len=3"`
	Concept       string         `json:"concept" firestore:"concept" validate:"required,max=200"`
	Description   *string        `json:"description,omitempty" firestore:"description,omitempty"`
	Status        PaymentStatus  `json:"status" firestore:"status" validate:"required,paymentstatus"`
	Method        *PaymentMethod `json:"method,omitempty" firestore:"method,omitempty" validate:"omitempty,paymentmethod"`
	DueDate       time.Time      `json:"dueDate" firestore:"dueDate" validate:"required"`
	PaidAt        *time.Time     `json:"paidAt,omitempty" firestore:"paidAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt     time.Time      `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
	TransactionID *string        `json:"transactionId,omitempty" firestore:"transactionId,omitempty"`
	ReceiptURL    *string        `json:"receiptURL,omitempty" firestore:"receiptURL,omitempty" validate:"omitempty,url"`
	IsRecurring   bool           `json:"isRecurring" firestore:"isRecurring"`
	RecurringDay  *int           `json:"recurringDay,omitempty" firestore:"recurringDay,omitempty" validate:"omitempty,min=1,max=31"`
}

// PaymentTemplate carries the fields shared by every payment of a bulk
// creation. Currency may be left empty to use the club's currency.
type PaymentTemplate struct {
	Amount       int64          `json:"amount" validate:"gt=0"`
	Currency     string         `json:"currency" validate:"omitempty,len=3"`
	Concept      string         `json:"concept" validate:"required,max=200"`
	Description  *string        `json:"description"`
	Status       PaymentStatus  `json:"status" validate:"omitempty,paymentstatus"`
	Method       *PaymentMethod `json:"method" validate:"omitempty,paymentmethod"`
	DueDate      time.Time      `json:"dueDate" validate:"required"`
	IsRecurring  bool           `json:"isRecurring"`
	RecurringDay *int           `json:"recurringDay" validate:"omitempty,min=1,max=31"`
}

// ForMember instantiates the template for one member. The ID is left empty.
func (t PaymentTemplate) ForMember(clubID string, m *Member) *Payment {
	status := t.Status
	if status == "" {
		status = PaymentPending
	}
	return &Payment{
		ClubID:       clubID,
		MemberID:     m.ID,
		MemberName:   m.FullName(),
		Amount:       t.Amount,
		Currency:     t.Currency,
		Concept:      t.Concept,
		Description:  t.Description,
		Status:       status,
		Method:       t.Method,
		DueDate:      t.DueDate,
		IsRecurring:  t.IsRecurring,
		RecurringDay: t.RecurringDay,
	}
}

// PaymentPatch lists every mutable payment field.
type PaymentPatch struct {
	Amount        *int64         `json:"amount" validate:"omitempty,gt=0"`
	Concept       *string        `json:"concept" validate:"omitempty,min=1,max=200"`
	Description   *string        `json:"description"`
	Status        *PaymentStatus `json:"status" validate:"omitempty,paymentstatus"`
	Method        *PaymentMethod `json:"method" validate:"omitempty,paymentmethod"`
	DueDate       *time.Time     `json:"dueDate"`
	PaidAt        *time.Time     `json:"paidAt"`
	TransactionID *string        `json:"transactionId"`
	ReceiptURL    *string        `json:"receiptURL" validate:"omitempty,url"`
	IsRecurring   *bool          `json:"isRecurring"`
	RecurringDay  *int           `json:"recurringDay" validate:"omitempty,min=1,max=31"`
}

// Updates returns the field assignments carried by the patch.
func (p PaymentPatch) Updates() []FieldChange {
	var c changeSet
	if p.Amount != nil {
		c.add("amount", *p.Amount)
	}
	setString(&c, "concept", p.Concept)
	setString(&c, "description", p.Description)
	if p.Status != nil {
		c.add("status", *p.Status)
	}
	if p.Method != nil {
		c.add("method", *p.Method)
	}
	if p.DueDate != nil {
		c.add("dueDate", *p.DueDate)
	}
	if p.PaidAt != nil {
		c.add("paidAt", *p.PaidAt)
	}
	setString(&c, "transactionId", p.TransactionID)
	setString(&c, "receiptURL", p.ReceiptURL)
	setBool(&c, "isRecurring", p.IsRecurring)
	if p.RecurringDay != nil {
		c.add("recurringDay", *p.RecurringDay)
	}
	return c
}

// MarksPaidWithoutDate reports whether the patch settles the payment without
// saying when.
func (p PaymentPatch) MarksPaidWithoutDate() bool {
	return p.Status != nil && *p.Status == PaymentPaid && p.PaidAt == nil
}
