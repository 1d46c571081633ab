package validation

import (
	"errors"
	"fmt"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"reseller-orders/internal/domain"
)

// CreateOrderItemRequest is a single line of POST /orders.
type CreateOrderItemRequest struct {
	ServiceID uuid.UUID `json:"serviceId" validate:"required"`
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
}

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	ResellerID uuid.UUID                `json:"resellerId" validate:"required"`
	CustomerID uuid.UUID                `json:"customerId" validate:"required"`
	Items      []CreateOrderItemRequest `json:"items" validate:"required,min=1,unique=ProductID,dive"`
}

// ToDomain assumes the request already passed Validate.
func (r CreateOrderRequest) ToDomain() domain.CreateOrder {
	items := make([]domain.CreateOrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, domain.CreateOrderItem{
			ServiceID: it.ServiceID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return domain.CreateOrder{
		ResellerID: r.ResellerID,
		CustomerID: r.CustomerID,
		Items:      items,
	}
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type Validator struct {
	v *validatorv10.Validate
}

func New() *Validator {
	return &Validator{v: validatorv10.New(validatorv10.WithRequiredStructEnabled())}
}

// Validate returns every field-level violation of req, or nil when valid.
func (v *Validator) Validate(req any) []FieldError {
	err := v.v.Struct(req)
	if err == nil {
		return nil
	}

	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "", Rule: "invalid", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// ValidateStatus checks a status name from a request body. The name is
// matched exactly later on, so it is not trimmed or case-folded here.
func ValidateStatus(status string) []FieldError {
	if status == "" {
		return []FieldError{{Field: "status", Rule: "required", Message: "status is required"}}
	}
	return nil
}

func message(fe validatorv10.FieldError) string {
	name := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		if fe.Field() == "Items" {
			return "at least one order item is required"
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "unique":
		return "every order item must be for a unique product"
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

// fieldPath turns "CreateOrderRequest.Items[0].ProductID" into "items[0].productId".
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = lowerFirst(p)
	}
	path := strings.Join(parts, ".")
	return strings.ReplaceAll(path, "ID", "Id")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
