package models

import (
	"time"

	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/validation"
	"gorm.io/gorm"
)

// Log types accepted on an order.
const (
	LogTypeTransfer           = "TR"
	LogTypeDirectPrint        = "DP"
	LogTypeArtApproval        = "AA"
	LogTypeVinyl              = "VG"
	LogTypeDigitalGraphics    = "DG"
	LogTypeGeneralMaintenance = "GM"
	LogTypeDirectToFilm       = "DTF"
	LogTypePromotional        = "PP"
)

// LogTypes is the full set of valid log type codes, in display order.
var LogTypes = []string{
	LogTypeTransfer, LogTypeDirectPrint, LogTypeArtApproval, LogTypeVinyl,
	LogTypeDigitalGraphics, LogTypeGeneralMaintenance, LogTypeDirectToFilm, LogTypePromotional,
}

// Order is a job ticket. Log is the shop-assigned business key; Cust
// references Customer.CustID.
type Order struct {
	ID        uint           `gorm:"primaryKey" json:"id" validate:"-"`
	Log       string         `gorm:"size:7;not null" json:"log" validate:"required,logcode"`
	Cust      string         `gorm:"size:5;not null;index" json:"cust" validate:"required,custcode"`
	Customer  *Customer      `gorm:"foreignKey:Cust;references:CustID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty" validate:"-"`
	CustP0    *string        `gorm:"column:cust_p_0;size:50" json:"cust_p_0" validate:"omitempty,max=50"`
	Prior     *int           `json:"prior"`
	Shipout   *string        `gorm:"size:50" json:"shipout" validate:"omitempty,max=50"`
	Howship   *string        `gorm:"size:50" json:"howship" validate:"omitempty,max=50"`
	Weight    *float64       `json:"weight" validate:"omitempty,gte=0"`
	Artlo     *string        `gorm:"size:5" json:"artlo" validate:"omitempty,max=5,artcode"`
	RefArtlo  *string        `gorm:"size:5" json:"ref_artlo" validate:"omitempty,max=5,alphanum"`
	Artno     *string        `gorm:"size:5" json:"artno" validate:"omitempty,max=5,alphanum"`
	Datin     *time.Time     `gorm:"type:date" json:"datin"`
	Artout    *time.Time     `gorm:"type:date" json:"artout"`
	Dueout    *time.Time     `gorm:"type:date;index" json:"dueout"`
	Datout    *time.Time     `gorm:"type:date" json:"datout"`
	Logtype   *string        `gorm:"size:5;index" json:"logtype" validate:"omitempty,oneof=TR DP AA VG DG GM DTF PP"`
	Colorf    *float64       `json:"colorf" validate:"omitempty,gte=0"`
	PrintN    *float64       `gorm:"column:print_n" json:"print_n" validate:"omitempty,gte=0"`
	Subtotal  *float64       `json:"subtotal" validate:"omitempty,gte=0"`
	SalesTax  *float64       `json:"sales_tax" validate:"omitempty,gte=0"`
	ShipFrght *float64       `json:"ship_frght" validate:"omitempty,gte=0"`
	Total     *float64       `json:"total" validate:"omitempty,gte=0"`
	Title     string         `gorm:"size:256;not null" json:"title" validate:"required,max=256"`
	Rush      bool           `gorm:"not null;default:false" json:"rush"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// persisted holds the art/due dates as last read from or written to the
	// store; nil for an order that has never been saved.
	persisted *orderDates
}

type orderDates struct {
	artout *time.Time
	dueout *time.Time
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

var orderMessages = validation.Messages{
	"log":        "LOG# must be between 5 and 7 alphanumeric characters",
	"cust":       "Customer# must be exactly 5 alphanumeric characters",
	"title":      "Title must be between 1 and 256 characters",
	"artlo":      "Art Log must contain only letters, numbers, hyphens, and underscores, and be at most 5 characters",
	"ref_artlo":  "Art Reference must be at most 5 alphanumeric characters",
	"artno":      "Artist ID must be at most 5 alphanumeric characters",
	"print_n":    "Quantity must be a non-negative number",
	"colorf":     "Number of colors must be a non-negative number",
	"weight":     "Weight must be a non-negative number",
	"subtotal":   "Subtotal must be a non-negative number",
	"sales_tax":  "Sales tax must be a non-negative number",
	"ship_frght": "Shipping/freight must be a non-negative number",
	"total":      "Total must be a non-negative number",
	"logtype":    "Log type must be one of: TR, DP, AA, VG, DG, GM, DTF, PP",
	"cust_p_0":   "Customer PO must be at most 50 characters",
	"shipout":    "Ship out must be at most 50 characters",
	"howship":    "How shipped must be at most 50 characters",
}

// ValidateData returns field -> message for every rule the order breaks.
//
// Art Out and Due Out may not be in the past, but only when the value is new
// or differs from what is stored; an old order keeps its historical dates.
func (o *Order) ValidateData() map[string]string {
	errs := validation.ValidateStruct(o, orderMessages)

	var prevArt, prevDue *time.Time
	if o.persisted != nil {
		prevArt, prevDue = o.persisted.artout, o.persisted.dueout
	}
	if (o.persisted == nil || !sameDate(o.Artout, prevArt)) && !validation.ValidateDateNotInPast(o.Artout) {
		errs["artout"] = "Art Out date cannot be in the past"
	}
	if (o.persisted == nil || !sameDate(o.Dueout, prevDue)) && !validation.ValidateDateNotInPast(o.Dueout) {
		errs["dueout"] = "Due Out date cannot be in the past"
	}
	if _, taken := errs["dueout"]; !taken && !validation.ValidateDateRange(o.Datin, o.Dueout) {
		errs["dueout"] = "Due Out date must be after Date In"
	}
	return errs
}

// BeforeSave blocks any insert or update of an invalid order.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if ve := apperrors.NewValidationError("Order", o.ValidateData()); ve != nil {
		return ve
	}
	return nil
}

// AfterSave records the stored dates for the next validation.
func (o *Order) AfterSave(tx *gorm.DB) error {
	o.snapshot()
	return nil
}

// AfterFind records the stored dates for the next validation.
func (o *Order) AfterFind(tx *gorm.DB) error {
	o.snapshot()
	return nil
}

func (o *Order) snapshot() {
	o.persisted = &orderDates{artout: copyTime(o.Artout), dueout: copyTime(o.Dueout)}
}

// IsShipped reports whether the order has a ship date.
func (o *Order) IsShipped() bool {
	return o.Datout != nil
}

// IsDeleted reports whether the order has been soft deleted.
func (o *Order) IsDeleted() bool {
	return o.DeletedAt.Valid
}

// OrderFields lists the settable order attributes.
type OrderFields struct {
	Log       *string             `json:"log"`
	Cust      *string             `json:"cust"`
	CustP0    Optional[string]    `json:"cust_p_0"`
	Prior     Optional[int]       `json:"prior"`
	Shipout   Optional[string]    `json:"shipout"`
	Howship   Optional[string]    `json:"howship"`
	Weight    Optional[float64]   `json:"weight"`
	Artlo     Optional[string]    `json:"artlo"`
	RefArtlo  Optional[string]    `json:"ref_artlo"`
	Artno     Optional[string]    `json:"artno"`
	Datin     Optional[time.Time] `json:"datin"`
	Artout    Optional[time.Time] `json:"artout"`
	Dueout    Optional[time.Time] `json:"dueout"`
	Datout    Optional[time.Time] `json:"datout"`
	Logtype   Optional[string]    `json:"logtype"`
	Colorf    Optional[float64]   `json:"colorf"`
	PrintN    Optional[float64]   `json:"print_n"`
	Subtotal  Optional[float64]   `json:"subtotal"`
	SalesTax  Optional[float64]   `json:"sales_tax"`
	ShipFrght Optional[float64]   `json:"ship_frght"`
	Total     Optional[float64]   `json:"total"`
	Title     *string             `json:"title"`
	Rush      *bool               `json:"rush"`
}

// Apply copies the present fields onto o and reports what changed.
func (f OrderFields) Apply(o *Order) []Change {
	var cs changeSet
	setValue(&cs, "log", &o.Log, f.Log)
	setValue(&cs, "cust", &o.Cust, f.Cust)
	setOptional(&cs, "cust_p_0", &o.CustP0, f.CustP0)
	setOptional(&cs, "prior", &o.Prior, f.Prior)
	setOptional(&cs, "shipout", &o.Shipout, f.Shipout)
	setOptional(&cs, "howship", &o.Howship, f.Howship)
	setOptional(&cs, "weight", &o.Weight, f.Weight)
	setOptional(&cs, "artlo", &o.Artlo, f.Artlo)
	setOptional(&cs, "ref_artlo", &o.RefArtlo, f.RefArtlo)
	setOptional(&cs, "artno", &o.Artno, f.Artno)
	setDate(&cs, "datin", &o.Datin, f.Datin)
	setDate(&cs, "artout", &o.Artout, f.Artout)
	setDate(&cs, "dueout", &o.Dueout, f.Dueout)
	setDate(&cs, "datout", &o.Datout, f.Datout)
	setOptional(&cs, "logtype", &o.Logtype, f.Logtype)
	setOptional(&cs, "colorf", &o.Colorf, f.Colorf)
	setOptional(&cs, "print_n", &o.PrintN, f.PrintN)
	setOptional(&cs, "subtotal", &o.Subtotal, f.Subtotal)
	setOptional(&cs, "sales_tax", &o.SalesTax, f.SalesTax)
	setOptional(&cs, "ship_frght", &o.ShipFrght, f.ShipFrght)
	setOptional(&cs, "total", &o.Total, f.Total)
	setValue(&cs, "title", &o.Title, f.Title)
	setValue(&cs, "rush", &o.Rush, f.Rush)
	return cs
}

// Strings returns the addresses of every free-text member so a sanitizer
// can swap in cleaned copies.
func (f *OrderFields) Strings() []**string {
	return []**string{
		&f.Log, &f.Cust, &f.Title,
		&f.CustP0.Value, &f.Shipout.Value, &f.Howship.Value,
		&f.Artlo.Value, &f.RefArtlo.Value, &f.Artno.Value, &f.Logtype.Value,
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// GetID returns the primary key.
func (o *Order) GetID() uint {
	return o.ID
}
