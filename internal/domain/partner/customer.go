package partner

import (
	"strings"
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer represents a customer aggregate root.
// Documents (sales, invoices, quotes) snapshot the customer name at
// transaction time, so renaming a customer never rewrites history.
type Customer struct {
	shared.OrgAggregateRoot
	Name   string `gorm:"size:200;not null"`
	Email  string `gorm:"size:200"`
	Phone  string `gorm:"size:50"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(orgID uuid.UUID, name, email, phone string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}

	customer := &Customer{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Email:            email,
		Phone:            phone,
		Active:           true,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's contact details
func (c *Customer) Update(name, email, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}

	c.Name = name
	c.Email = email
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate marks the customer inactive; inactive customers cannot be
// referenced by new documents
func (c *Customer) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate marks the customer active again
func (c *Customer) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
