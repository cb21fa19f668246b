package models

// ClubType classifies what kind of organisation a club is.
type ClubType string

const (
	ClubTypeSports      ClubType = "deportivo"
	ClubTypeSocial      ClubType = "social"
	ClubTypeEducational ClubType = "educacional"
	ClubTypeCultural    ClubType = "cultural"
	ClubTypeOther       ClubType = "otro"
)

// Valid reports whether t is one of the known club types.
func (t ClubType) Valid() bool {
	switch t {
	case ClubTypeSports, ClubTypeSocial, ClubTypeEducational, ClubTypeCultural, ClubTypeOther:
		return true
	}
	return false
}

// UserRole is the role a member holds inside a club.
type UserRole string

const (
	RoleOwner  UserRole = "owner"
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
	RoleParent UserRole = "parent"
)

// Valid reports whether r is one of the known member roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleParent:
		return true
	}
	return false
}

// CanManage reports whether the role may mutate club data.
func (r UserRole) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue, PaymentCancelled, PaymentRefunded:
		return true
	}
	return false
}

// PaymentMethod is how a payment was (or may be) settled.
type PaymentMethod string

const (
	MethodTransfer    PaymentMethod = "transfer"
	MethodCard        PaymentMethod = "card"
	MethodCash        PaymentMethod = "cash"
	MethodWebpay      PaymentMethod = "webpay"
	MethodMercadoPago PaymentMethod = "mercadopago"
	MethodFlow        PaymentMethod = "flow"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodTransfer, MethodCard, MethodCash, MethodWebpay, MethodMercadoPago, MethodFlow:
		return true
	}
	return false
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// AttendanceStatus records whether a member showed up.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// NotificationType categorises a notification.
type NotificationType string

const (
	NotificationPayment      NotificationType = "payment"
	NotificationEvent        NotificationType = "event"
	NotificationAnnouncement NotificationType = "announcement"
	NotificationReminder     NotificationType = "reminder"
	NotificationSystem       NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationPayment, NotificationEvent, NotificationAnnouncement, NotificationReminder, NotificationSystem:
		return true
	}
	return false
}

// TransactionStatus is the settlement state of a gateway transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionRefunded  TransactionStatus = "refunded"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionFailed, TransactionRefunded:
		return true
	}
	return false
}
