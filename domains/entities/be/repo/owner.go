package repo

import (
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

var OwnerDescriptor = register(Descriptor{
	Tag:           "OW",
	Name:          "Owner",
	Plural:        "Owners",
	Section:       "operations",
	Slug:          "owner-maintenance",
	MenuKey:       "mnuOwnerMaint",
	FormKey:       "owner_key",
	Table:         "Owners",
	ProcPrefix:    "Owner",
	KeyKind:       SurrogateKey,
	KeyColumns:    []string{"OwnerKey"},
	NameExpr:      "Name",
	ActiveColumn:  "Active",
	EndDateColumn: "EndDate",
	NameQual:      "OW",
	HasJunctions:  true,
})

// Owner is an owner-operator leasing equipment to the carrier.
type Owner struct {
	OwnerKey         int64      `json:"owner_key" schema:"owner_key"`
	Name             string     `json:"name" schema:"name" validate:"required,max=50"`
	Active           bool       `json:"active" schema:"active"`
	StartDate        sproc.Date `json:"start_date" schema:"start_date"`
	EndDate          sproc.Date `json:"end_date" schema:"end_date"`
	FederalID        string     `json:"federal_id" schema:"federal_id" validate:"max=20"`
	VendorID         string     `json:"vendor_id" schema:"vendor_id" validate:"max=20"`
	PayToName        string     `json:"pay_to_name" schema:"pay_to_name" validate:"max=50"`
	Phone            string     `json:"phone" schema:"phone" validate:"max=20"`
	Email            string     `json:"email" schema:"email" validate:"omitempty,email,max=100"`
	SettlementCycle  string     `json:"settlement_cycle" schema:"settlement_cycle" validate:"max=10"`
	EscrowPct        float64    `json:"escrow_pct" schema:"escrow_pct" validate:"gte=0,lte=100"`
	InsuranceCarrier string     `json:"insurance_carrier" schema:"insurance_carrier" validate:"max=50"`
	InsuranceExpires sproc.Date `json:"insurance_expires" schema:"insurance_expires"`
	LeaseStartDate   sproc.Date `json:"lease_start_date" schema:"lease_start_date"`
	LeaseEndDate     sproc.Date `json:"lease_end_date" schema:"lease_end_date"`
	Notes            string     `json:"notes" schema:"notes"`
	UserID           string     `json:"-" schema:"-"`
}

func (o Owner) EntityKey() Key { return SurrogateID(o.OwnerKey) }

func (o Owner) WithKey(k Key) Owner {
	o.OwnerKey = k.ID
	return o
}

func (o Owner) EditedBy(userID string) Owner {
	o.UserID = userID
	return o
}

func (o Owner) Lifecycle() (bool, sproc.Date) { return o.Active, o.EndDate }

func (o Owner) SaveParams() []any {
	return []any{
		o.OwnerKey,
		o.Name,
		sproc.Bit(o.Active),
		o.StartDate.Param(),
		o.EndDate.Param(),
		o.FederalID,
		o.VendorID,
		o.PayToName,
		o.Phone,
		o.Email,
		o.SettlementCycle,
		o.EscrowPct,
		o.InsuranceCarrier,
		o.InsuranceExpires.Param(),
		o.LeaseStartDate.Param(),
		o.LeaseEndDate.Param(),
		o.Notes,
		o.UserID,
	}
}

func NewOwner() Owner {
	return Owner{Name: "New Owner", Active: true}
}

func ScanOwner(row sproc.Row) Owner {
	return Owner{
		OwnerKey:         row.Int64("OwnerKey"),
		Name:             row.String("Name"),
		Active:           row.Bool("Active"),
		StartDate:        row.Date("StartDate"),
		EndDate:          row.Date("EndDate"),
		FederalID:        row.String("FederalID"),
		VendorID:         row.String("VendorID"),
		PayToName:        row.String("PayToName"),
		Phone:            row.String("Phone"),
		Email:            row.String("Email"),
		SettlementCycle:  row.String("SettlementCycle"),
		EscrowPct:        row.Float64("EscrowPct"),
		InsuranceCarrier: row.String("InsuranceCarrier"),
		InsuranceExpires: row.Date("InsuranceExpires"),
		LeaseStartDate:   row.Date("LeaseStartDate"),
		LeaseEndDate:     row.Date("LeaseEndDate"),
		Notes:            row.String("Notes"),
	}
}
