package models

import "time"

// Invoice is an itemised bill issued to one member.
type Invoice struct {
	ID         string        `json:"id" firestore:"id"`
	ClubID     string        `json:"clubId" firestore:"clubId"`
	MemberID   string        `json:"memberId" firestore:"memberId" validate:"required"`
	MemberName string        `json:"memberName" firestore:"memberName"`
	Number     string        `json:"number" firestore:"number" validate:"required,max=40"`
	Items      []InvoiceItem `json:"items" firestore:"items" validate:"required,min=1,dive"`
	Subtotal   int64         `json:"subtotal" firestore:"subtotal"`
	Tax        int64         `json:"tax" firestore:"tax" validate:"gte=0"`
	Total      int64         `json:"total" firestore:"total"`
	Status     InvoiceStatus `json:"status" firestore:"status" validate:"required,invoicestatus"`
	IssuedAt   time.Time     `json:"issuedAt" firestore:"issuedAt,serverTimestamp"`
	DueDate    time.Time     `json:"dueDate" firestore:"dueDate" validate:"required"`
	PaidAt     *time.Time    `json:"paidAt,omitempty" firestore:"paidAt,omitempty"`
	Notes      *string       `json:"notes,omitempty" firestore:"notes,omitempty"`
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	Description string `json:"description" firestore:"description" validate:"required,max=200"`
	Quantity    int64  `json:"quantity" firestore:"quantity" validate:"gt=0"`
	UnitPrice   int64  `json:"unitPrice" firestore:"unitPrice" validate:"gte=0"`
	Total       int64  `json:"total" firestore:"total"`
}

// ComputeTotals recomputes every line total, the subtotal and the grand
// total. Caller-supplied totals are overwritten.
func (inv *Invoice) ComputeTotals() {
	var subtotal int64
	for i := range inv.Items {
		inv.Items[i].Total = inv.Items[i].Quantity * inv.Items[i].UnitPrice
		subtotal += inv.Items[i].Total
	}
	inv.Subtotal = subtotal
	inv.Total = subtotal + inv.Tax
}
