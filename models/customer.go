package models

import (
	"time"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/validation"
	"gorm.io/gorm"
)

// Customer is a print-shop client, identified externally by its 5 character
// CustID. Orders reference customers through that code.
type Customer struct {
	ID             uint           `gorm:"primaryKey" json:"id" validate:"-"`
	CustID         string         `gorm:"size:5;not null;uniqueIndex:idx_customers_cust_id" json:"cust_id" validate:"required,custcode"`
	CustomerID     *string        `gorm:"size:20" json:"customer_id" validate:"omitempty,max=20"`
	Customer       string         `gorm:"size:255;not null;index" json:"customer" validate:"required,max=255"`
	AddressLine1   *string        `gorm:"column:address_line_1;size:255" json:"address_line_1" validate:"omitempty,max=255"`
	AddressLine2   *string        `gorm:"column:address_line_2;size:255" json:"address_line_2" validate:"omitempty,max=255"`
	City           *string        `gorm:"size:100" json:"city" validate:"omitempty,max=100"`
	State          *string        `gorm:"size:50" json:"state" validate:"omitempty,max=50"`
	Zip            *string        `gorm:"size:10" json:"zip" validate:"omitempty,zipcode"`
	BillToContact  *string        `gorm:"size:255" json:"bill_to_contact" validate:"omitempty,max=255"`
	Telephone1     *string        `gorm:"column:telephone_1;size:20" json:"telephone_1" validate:"omitempty,phone"`
	Telephone2     *string        `gorm:"column:telephone_2;size:20" json:"telephone_2" validate:"omitempty,phone"`
	FaxNumber      *string        `gorm:"size:20" json:"fax_number" validate:"omitempty,phone"`
	TaxID          *string        `gorm:"size:50" json:"tax_id" validate:"omitempty,max=50"`
	ResaleNo       *string        `gorm:"size:50" json:"resale_no" validate:"omitempty,max=50"`
	CustSince      *time.Time     `gorm:"type:date" json:"cust_since"`
	ShipTo1Name    *string        `gorm:"column:ship_to_1_name;size:255" json:"ship_to_1_name" validate:"omitempty,max=255"`
	ShipTo1Address *string        `gorm:"column:ship_to_1_address;size:255" json:"ship_to_1_address" validate:"omitempty,max=255"`
	ShipTo1City    *string        `gorm:"column:ship_to_1_city;size:100" json:"ship_to_1_city" validate:"omitempty,max=100"`
	ShipTo1State   *string        `gorm:"column:ship_to_1_state;size:50" json:"ship_to_1_state" validate:"omitempty,max=50"`
	ShipTo1Zip     *string        `gorm:"column:ship_to_1_zip;size:10" json:"ship_to_1_zip" validate:"omitempty,zipcode"`
	CustomerEmail  *string        `gorm:"size:255" json:"customer_email" validate:"omitempty,max=255,contactemail"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

var customerMessages = validation.Messages{
	"cust_id":         "Customer ID must be exactly 5 alphanumeric characters",
	"customer":        "Customer name must be between 1 and 255 characters",
	"zip":             "Invalid ZIP code format",
	"ship_to_1_zip":   "Invalid ZIP code format",
	"telephone_1":     "Invalid phone number format",
	"telephone_2":     "Invalid phone number format",
	"fax_number":      "Invalid phone number format",
	"customer_email":  "Invalid email format",
	"customer_id":     "Customer account number must be at most 20 characters",
	"address_line_1":  "Address must be at most 255 characters",
	"address_line_2":  "Address must be at most 255 characters",
	"bill_to_contact": "Contact must be at most 255 characters",
}

// ValidateData returns field -> message for every rule the customer breaks.
func (c *Customer) ValidateData() map[string]string {
	return validation.ValidateStruct(c, customerMessages)
}

// BeforeSave blocks any insert or update of an invalid customer.
func (c *Customer) BeforeSave(tx *gorm.DB) error {
	if ve := apperrors.NewValidationError("Customer", c.ValidateData()); ve != nil {
		return ve
	}
	return nil
}

// IsDeleted reports whether the customer has been soft deleted.
func (c *Customer) IsDeleted() bool {
	return c.DeletedAt.Valid
}

// CustomerFields lists the settable customer attributes. Nil or unset
// members are left untouched by Apply.
type CustomerFields struct {
	CustID         *string             `json:"cust_id"`
	CustomerID     Optional[string]    `json:"customer_id"`
	Customer       *string             `json:"customer"`
	AddressLine1   Optional[string]    `json:"address_line_1"`
	AddressLine2   Optional[string]    `json:"address_line_2"`
	City           Optional[string]    `json:"city"`
	State          Optional[string]    `json:"state"`
	Zip            Optional[string]    `json:"zip"`
	BillToContact  Optional[string]    `json:"bill_to_contact"`
	Telephone1     Optional[string]    `json:"telephone_1"`
	Telephone2     Optional[string]    `json:"telephone_2"`
	FaxNumber      Optional[string]    `json:"fax_number"`
	TaxID          Optional[string]    `json:"tax_id"`
	ResaleNo       Optional[string]    `json:"resale_no"`
	CustSince      Optional[time.Time] `json:"cust_since"`
	ShipTo1Name    Optional[string]    `json:"ship_to_1_name"`
	ShipTo1Address Optional[string]    `json:"ship_to_1_address"`
	ShipTo1City    Optional[string]    `json:"ship_to_1_city"`
	ShipTo1State   Optional[string]    `json:"ship_to_1_state"`
	ShipTo1Zip     Optional[string]    `json:"ship_to_1_zip"`
	CustomerEmail  Optional[string]    `json:"customer_email"`
}

// Apply copies the present fields onto c and reports what changed.
func (f CustomerFields) Apply(c *Customer) []Change {
	var cs changeSet
	setValue(&cs, "cust_id", &c.CustID, f.CustID)
	setOptional(&cs, "customer_id", &c.CustomerID, f.CustomerID)
	setValue(&cs, "customer", &c.Customer, f.Customer)
	setOptional(&cs, "address_line_1", &c.AddressLine1, f.AddressLine1)
	setOptional(&cs, "address_line_2", &c.AddressLine2, f.AddressLine2)
	setOptional(&cs, "city", &c.City, f.City)
	setOptional(&cs, "state", &c.State, f.State)
	setOptional(&cs, "zip", &c.Zip, f.Zip)
	setOptional(&cs, "bill_to_contact", &c.BillToContact, f.BillToContact)
	setOptional(&cs, "telephone_1", &c.Telephone1, f.Telephone1)
	setOptional(&cs, "telephone_2", &c.Telephone2, f.Telephone2)
	setOptional(&cs, "fax_number", &c.FaxNumber, f.FaxNumber)
	setOptional(&cs, "tax_id", &c.TaxID, f.TaxID)
	setOptional(&cs, "resale_no", &c.ResaleNo, f.ResaleNo)
	setDate(&cs, "cust_since", &c.CustSince, f.CustSince)
	setOptional(&cs, "ship_to_1_name", &c.ShipTo1Name, f.ShipTo1Name)
	setOptional(&cs, "ship_to_1_address", &c.ShipTo1Address, f.ShipTo1Address)
	setOptional(&cs, "ship_to_1_city", &c.ShipTo1City, f.ShipTo1City)
	setOptional(&cs, "ship_to_1_state", &c.ShipTo1State, f.ShipTo1State)
	setOptional(&cs, "ship_to_1_zip", &c.ShipTo1Zip, f.ShipTo1Zip)
	setOptional(&cs, "customer_email", &c.CustomerEmail, f.CustomerEmail)
	return cs
}

// Strings returns the addresses of every free-text member so a sanitizer
// can swap in cleaned copies.
func (f *CustomerFields) Strings() []**string {
	out := []**string{&f.CustID, &f.Customer}
	for _, o := range []*Optional[string]{
		&f.CustomerID, &f.AddressLine1, &f.AddressLine2, &f.City, &f.State,
		&f.Zip, &f.BillToContact, &f.Telephone1, &f.Telephone2, &f.FaxNumber,
		&f.TaxID, &f.ResaleNo, &f.ShipTo1Name, &f.ShipTo1Address, &f.ShipTo1City,
		&f.ShipTo1State, &f.ShipTo1Zip, &f.CustomerEmail,
	} {
		out = append(out, &o.Value)
	}
	return out
}

// GetID returns the primary key.
func (c *Customer) GetID() uint {
	return c.ID
}
