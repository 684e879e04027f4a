package repo

import (
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

var DivisionDescriptor = register(Descriptor{
	Tag:           "DV",
	Name:          "Division",
	Plural:        "Divisions",
	Section:       "admin",
	Slug:          "division-maintenance",
	MenuKey:       "mnuDivisionMaint",
	FormKey:       "division_key",
	Table:         "Divisions",
	ProcPrefix:    "Division",
	KeyKind:       BusinessKey,
	KeyColumns:    []string{"CompanyID", "DivisionID"},
	NameExpr:      "Name",
	ActiveColumn:  "Active",
	EndDateColumn: "EndDate",
})

type Division struct {
	CompanyID  string     `json:"company_id" schema:"company_id" validate:"required,max=10"`
	DivisionID string     `json:"division_id" schema:"division_id" validate:"required,max=10"`
	Name       string     `json:"name" schema:"name" validate:"required,max=50"`
	Active     bool       `json:"active" schema:"active"`
	StartDate  sproc.Date `json:"start_date" schema:"start_date"`
	EndDate    sproc.Date `json:"end_date" schema:"end_date"`
	Manager    string     `json:"manager" schema:"manager" validate:"max=50"`
	GLSegment  string     `json:"gl_segment" schema:"gl_segment" validate:"max=10"`
	UserID     string     `json:"-" schema:"-"`
}

func (d Division) EntityKey() Key { return BusinessID(d.CompanyID, d.DivisionID) }

func (d Division) WithKey(k Key) Division {
	if len(k.Parts) == 2 {
		d.CompanyID, d.DivisionID = k.Parts[0], k.Parts[1]
	}
	return d
}

func (d Division) EditedBy(userID string) Division {
	d.UserID = userID
	return d
}

func (d Division) Lifecycle() (bool, sproc.Date) { return d.Active, d.EndDate }

func (d Division) SaveParams() []any {
	return []any{
		d.CompanyID,
		d.DivisionID,
		d.Name,
		sproc.Bit(d.Active),
		d.StartDate.Param(),
		d.EndDate.Param(),
		d.Manager,
		d.GLSegment,
		d.UserID,
	}
}

func ScanDivision(row sproc.Row) Division {
	return Division{
		CompanyID:  row.String("CompanyID"),
		DivisionID: row.String("DivisionID"),
		Name:       row.String("Name"),
		Active:     row.Bool("Active"),
		StartDate:  row.Date("StartDate"),
		EndDate:    row.Date("EndDate"),
		Manager:    row.String("Manager"),
		GLSegment:  row.String("GLSegment"),
	}
}
