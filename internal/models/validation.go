package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is wrapped by every error caused by caller-supplied data that
// violates a field constraint.
var ErrValidation = errors.New("validation failed")

// ValidationError describes the first field constraint a value violated.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages match what callers sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enums := map[string]func(string) bool{
		"clubtype":          func(s string) bool { return ClubType(s).Valid() },
		"userrole":          func(s string) bool { return UserRole(s).Valid() },
		"paymentstatus":     func(s string) bool { return PaymentStatus(s).Valid() },
		"paymentmethod":     func(s string) bool { return PaymentMethod(s).Valid() },
		"invoicestatus":     func(s string) bool { return InvoiceStatus(s).Valid() },
		"attendancestatus":  func(s string) bool { return AttendanceStatus(s).Valid() },
		"notificationtype":  func(s string) bool { return NotificationType(s).Valid() },
		"transactionstatus": func(s string) bool { return TransactionStatus(s).Valid() },
	}
	for tag, valid := range enums {
		valid := valid
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("models: registering %s validator: %v", tag, err))
		}
	}
	return v
}

// Validate checks v against its `validate` struct tags and returns a
// *ValidationError for the first violation found.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return NewValidationError(fieldPath(fe.Namespace()), describe(fe))
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return NewValidationError("", "value is missing")
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "hexcolor":
		return "must be a hex colour"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "gtefield":
		return "must not be before " + fe.Param()
	case "clubtype", "userrole", "paymentstatus", "paymentmethod", "invoicestatus",
		"attendancestatus", "notificationtype", "transactionstatus":
		return fmt.Sprintf("has unknown value %q", fmt.Sprint(fe.Value()))
	default:
		return "failed the '" + fe.Tag() + "' constraint"
	}
}
