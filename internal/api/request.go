package api

import (
	"fmt"
	"net/mail"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/xenking/shopcart-api/internal/domain/order"
)

// maxOrderProducts caps the number of line items per order.
const maxOrderProducts = 100

// Accepted character classes for name-like fields, including accented
// letters.
var (
	namePattern  = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9\s\-()]+$`)
	zipPattern   = regexp.MustCompile(`^[0-9A-Za-z\-\s]+$`)
)

// ValidationError reports the first request field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// AddressRequest is the address part of the customer input.
type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

// CustomerRequest identifies the customer placing or paying an order.
type CustomerRequest struct {
	CustomerID int            `json:"customerId"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Address    AddressRequest `json:"address"`
}

// ProductRequest is a submitted line item: a product reference with a price.
// Prices are taken as submitted; see order.Service.Create.
type ProductRequest struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// OrderPaymentRequest is the body of both POST /api/orders and
// POST /api/payments.
type OrderPaymentRequest struct {
	Customer CustomerRequest  `json:"customer"`
	Products []ProductRequest `json:"products"`
}

// Validate checks the request against the input contract and returns a
// *ValidationError for the first violation.
func (req *OrderPaymentRequest) Validate() error {
	if err := req.Customer.validate(); err != nil {
		return err
	}

	if len(req.Products) == 0 {
		return &ValidationError{Field: "products", Reason: "at least one product is required"}
	}
	if len(req.Products) > maxOrderProducts {
		return &ValidationError{Field: "products", Reason: fmt.Sprintf("at most %d products per order", maxOrderProducts)}
	}
	for i, p := range req.Products {
		if p.ID < 1 {
			return &ValidationError{Field: fmt.Sprintf("products[%d].id", i), Reason: "must be a positive number"}
		}
		if p.Price < 0 {
			return &ValidationError{Field: fmt.Sprintf("products[%d].price", i), Reason: "must not be negative"}
		}
	}
	return nil
}

func (c *CustomerRequest) validate() error {
	if c.CustomerID < 1 {
		return &ValidationError{Field: "customer.customerId", Reason: "must be a positive number"}
	}
	if err := validateName("customer.firstName", c.FirstName, 50); err != nil {
		return err
	}
	if err := validateName("customer.lastName", c.LastName, 50); err != nil {
		return err
	}

	if c.Email == "" {
		return &ValidationError{Field: "customer.email", Reason: "is required"}
	}
	if len(c.Email) > 100 {
		return &ValidationError{Field: "customer.email", Reason: "must not exceed 100 characters"}
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return &ValidationError{Field: "customer.email", Reason: "invalid format"}
	}

	// Phone is optional; validate only when present.
	if c.Phone != "" {
		if len(c.Phone) < 7 || len(c.Phone) > 20 {
			return &ValidationError{Field: "customer.phone", Reason: "must be between 7 and 20 characters"}
		}
		if !phonePattern.MatchString(c.Phone) {
			return &ValidationError{Field: "customer.phone", Reason: "invalid format"}
		}
	}

	return c.Address.validate()
}

func (a *AddressRequest) validate() error {
	if a.Street == "" || len(a.Street) > 100 {
		return &ValidationError{Field: "customer.address.street", Reason: "must be between 1 and 100 characters"}
	}
	if a.City == "" || len(a.City) > 50 {
		return &ValidationError{Field: "customer.address.city", Reason: "must be between 1 and 50 characters"}
	}
	if !namePattern.MatchString(a.City) {
		return &ValidationError{Field: "customer.address.city", Reason: "may only contain letters and spaces"}
	}
	if len(a.ZipCode) < 3 || len(a.ZipCode) > 10 {
		return &ValidationError{Field: "customer.address.zipCode", Reason: "must be between 3 and 10 characters"}
	}
	if !zipPattern.MatchString(a.ZipCode) {
		return &ValidationError{Field: "customer.address.zipCode", Reason: "may only contain letters, digits, dashes and spaces"}
	}
	return nil
}

func validateName(field, value string, maxLen int) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	if len(value) > maxLen {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must not exceed %d characters", maxLen)}
	}
	if !namePattern.MatchString(value) {
		return &ValidationError{Field: field, Reason: "may only contain letters and spaces"}
	}
	return nil
}

func (req *OrderPaymentRequest) toCustomer() order.Customer {
	return order.Customer{
		ID:        req.Customer.CustomerID,
		FirstName: req.Customer.FirstName,
		LastName:  req.Customer.LastName,
		Email:     req.Customer.Email,
		Phone:     req.Customer.Phone,
		Address: order.Address{
			Street:  req.Customer.Address.Street,
			City:    req.Customer.Address.City,
			ZipCode: req.Customer.Address.ZipCode,
		},
	}
}

func (req *OrderPaymentRequest) toLineItems() []order.LineItem {
	items := make([]order.LineItem, len(req.Products))
	for i, p := range req.Products {
		items[i] = order.LineItem{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     decimal.NewFromFloat(p.Price),
		}
	}
	return items
}
