package repo

import (
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

var DriverDescriptor = register(Descriptor{
	Tag:                  "DR",
	Name:                 "Driver",
	Plural:               "Drivers",
	Section:              "operations",
	Slug:                 "driver-maintenance",
	MenuKey:              "mnuDriverMaint",
	FormKey:              "driver_key",
	Table:                "Drivers",
	ProcPrefix:           "Driver",
	KeyKind:              SurrogateKey,
	KeyColumns:           []string{"DriverKey"},
	NameExpr:             "LastName + ', ' + FirstName",
	ActiveColumn:         "Active",
	EndDateColumn:        "EndDate",
	NameQual:             "DR",
	HasJunctions:         true,
	EnforceActiveEndDate: true,
})

// Driver is a company or owner-operated driver.
type Driver struct {
	DriverKey          int64      `json:"driver_key" schema:"driver_key"`
	FirstName          string     `json:"first_name" schema:"first_name" validate:"required,max=30"`
	MiddleName         string     `json:"middle_name" schema:"middle_name" validate:"max=30"`
	LastName           string     `json:"last_name" schema:"last_name" validate:"required,max=30"`
	Active             bool       `json:"active" schema:"active"`
	StartDate          sproc.Date `json:"start_date" schema:"start_date"`
	EndDate            sproc.Date `json:"end_date" schema:"end_date"`
	BirthDate          sproc.Date `json:"birth_date" schema:"birth_date"`
	HireDate           sproc.Date `json:"hire_date" schema:"hire_date"`
	TaxID              string     `json:"tax_id" schema:"tax_id" validate:"max=11"`
	LicenseNumber      string     `json:"license_number" schema:"license_number" validate:"max=20"`
	LicenseState       string     `json:"license_state" schema:"license_state" validate:"omitempty,len=2,alpha"`
	LicenseClass       string     `json:"license_class" schema:"license_class" validate:"max=2"`
	LicenseExpires     sproc.Date `json:"license_expires" schema:"license_expires"`
	MedicalCardExpires sproc.Date `json:"medical_card_expires" schema:"medical_card_expires"`
	HazmatEndorsement  bool       `json:"hazmat_endorsement" schema:"hazmat_endorsement"`
	TankerEndorsement  bool       `json:"tanker_endorsement" schema:"tanker_endorsement"`
	DoublesEndorsement bool       `json:"doubles_endorsement" schema:"doubles_endorsement"`
	TWICExpires        sproc.Date `json:"twic_expires" schema:"twic_expires"`
	LastDrugTestDate   sproc.Date `json:"last_drug_test_date" schema:"last_drug_test_date"`
	LastReviewDate     sproc.Date `json:"last_review_date" schema:"last_review_date"`
	PayType            string     `json:"pay_type" schema:"pay_type" validate:"max=10"`
	PayRate            float64    `json:"pay_rate" schema:"pay_rate" validate:"gte=0"`
	OwnerKey           int64      `json:"owner_key" schema:"owner_key" validate:"gte=0"`
	AgentKey           int64      `json:"agent_key" schema:"agent_key" validate:"gte=0"`
	TeamKey            int64      `json:"team_key" schema:"team_key" validate:"gte=0"`
	Terminal           string     `json:"terminal" schema:"terminal" validate:"max=10"`
	TruckNumber        string     `json:"truck_number" schema:"truck_number" validate:"max=10"`
	TrailerNumber      string     `json:"trailer_number" schema:"trailer_number" validate:"max=10"`
	FuelCardNumber     string     `json:"fuel_card_number" schema:"fuel_card_number" validate:"max=20"`
	CellPhone          string     `json:"cell_phone" schema:"cell_phone" validate:"max=20"`
	Notes              string     `json:"notes" schema:"notes"`
	UserID             string     `json:"-" schema:"-"`
}

func (d Driver) EntityKey() Key { return SurrogateID(d.DriverKey) }

func (d Driver) WithKey(k Key) Driver {
	d.DriverKey = k.ID
	return d
}

func (d Driver) EditedBy(userID string) Driver {
	d.UserID = userID
	return d
}

func (d Driver) Lifecycle() (bool, sproc.Date) { return d.Active, d.EndDate }

func (d Driver) SaveParams() []any {
	return []any{
		d.DriverKey,
		d.FirstName,
		d.MiddleName,
		d.LastName,
		sproc.Bit(d.Active),
		d.StartDate.Param(),
		d.EndDate.Param(),
		d.BirthDate.Param(),
		d.HireDate.Param(),
		d.TaxID,
		d.LicenseNumber,
		d.LicenseState,
		d.LicenseClass,
		d.LicenseExpires.Param(),
		d.MedicalCardExpires.Param(),
		sproc.Bit(d.HazmatEndorsement),
		sproc.Bit(d.TankerEndorsement),
		sproc.Bit(d.DoublesEndorsement),
		d.TWICExpires.Param(),
		d.LastDrugTestDate.Param(),
		d.LastReviewDate.Param(),
		d.PayType,
		d.PayRate,
		d.OwnerKey,
		d.AgentKey,
		d.TeamKey,
		d.Terminal,
		d.TruckNumber,
		d.TrailerNumber,
		d.FuelCardNumber,
		d.CellPhone,
		d.Notes,
		d.UserID,
	}
}

func NewDriver() Driver {
	return Driver{FirstName: "New", LastName: "Driver", Active: true}
}

func ScanDriver(row sproc.Row) Driver {
	return Driver{
		DriverKey:          row.Int64("DriverKey"),
		FirstName:          row.String("FirstName"),
		MiddleName:         row.String("MiddleName"),
		LastName:           row.String("LastName"),
		Active:             row.Bool("Active"),
		StartDate:          row.Date("StartDate"),
		EndDate:            row.Date("EndDate"),
		BirthDate:          row.Date("BirthDate"),
		HireDate:           row.Date("HireDate"),
		TaxID:              row.String("TaxID"),
		LicenseNumber:      row.String("LicenseNumber"),
		LicenseState:       row.String("LicenseState"),
		LicenseClass:       row.String("LicenseClass"),
		LicenseExpires:     row.Date("LicenseExpires"),
		MedicalCardExpires: row.Date("MedicalCardExpires"),
		HazmatEndorsement:  row.Bool("HazmatEndorsement"),
		TankerEndorsement:  row.Bool("TankerEndorsement"),
		DoublesEndorsement: row.Bool("DoublesEndorsement"),
		TWICExpires:        row.Date("TWICExpires"),
		LastDrugTestDate:   row.Date("LastDrugTestDate"),
		LastReviewDate:     row.Date("LastReviewDate"),
		PayType:            row.String("PayType"),
		PayRate:            row.Float64("PayRate"),
		OwnerKey:           row.Int64("OwnerKey"),
		AgentKey:           row.Int64("AgentKey"),
		TeamKey:            row.Int64("TeamKey"),
		Terminal:           row.String("Terminal"),
		TruckNumber:        row.String("TruckNumber"),
		TrailerNumber:      row.String("TrailerNumber"),
		FuelCardNumber:     row.String("FuelCardNumber"),
		CellPhone:          row.String("CellPhone"),
		Notes:              row.String("Notes"),
	}
}
