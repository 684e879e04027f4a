package repo

import (
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

var DepartmentDescriptor = register(Descriptor{
	Tag:           "DP",
	Name:          "Department",
	Plural:        "Departments",
	Section:       "admin",
	Slug:          "department-maintenance",
	MenuKey:       "mnuDepartmentMaint",
	FormKey:       "department_key",
	Table:         "Departments",
	ProcPrefix:    "Department",
	KeyKind:       BusinessKey,
	KeyColumns:    []string{"CompanyID", "DivisionID", "DepartmentID"},
	NameExpr:      "Name",
	ActiveColumn:  "Active",
	EndDateColumn: "EndDate",
	Deletable:     true,
})

type Department struct {
	CompanyID    string     `json:"company_id" schema:"company_id" validate:"required,max=10"`
	DivisionID   string     `json:"division_id" schema:"division_id" validate:"required,max=10"`
	DepartmentID string     `json:"department_id" schema:"department_id" validate:"required,max=10"`
	Name         string     `json:"name" schema:"name" validate:"required,max=50"`
	Active       bool       `json:"active" schema:"active"`
	StartDate    sproc.Date `json:"start_date" schema:"start_date"`
	EndDate      sproc.Date `json:"end_date" schema:"end_date"`
	Manager      string     `json:"manager" schema:"manager" validate:"max=50"`
	GLSegment    string     `json:"gl_segment" schema:"gl_segment" validate:"max=10"`
	UserID       string     `json:"-" schema:"-"`
}

func (d Department) EntityKey() Key {
	return BusinessID(d.CompanyID, d.DivisionID, d.DepartmentID)
}

func (d Department) WithKey(k Key) Department {
	if len(k.Parts) == 3 {
		d.CompanyID, d.DivisionID, d.DepartmentID = k.Parts[0], k.Parts[1], k.Parts[2]
	}
	return d
}

func (d Department) EditedBy(userID string) Department {
	d.UserID = userID
	return d
}

func (d Department) Lifecycle() (bool, sproc.Date) { return d.Active, d.EndDate }

func (d Department) SaveParams() []any {
	return []any{
		d.CompanyID,
		d.DivisionID,
		d.DepartmentID,
		d.Name,
		sproc.Bit(d.Active),
		d.StartDate.Param(),
		d.EndDate.Param(),
		d.Manager,
		d.GLSegment,
		d.UserID,
	}
}

func ScanDepartment(row sproc.Row) Department {
	return Department{
		CompanyID:    row.String("CompanyID"),
		DivisionID:   row.String("DivisionID"),
		DepartmentID: row.String("DepartmentID"),
		Name:         row.String("Name"),
		Active:       row.Bool("Active"),
		StartDate:    row.Date("StartDate"),
		EndDate:      row.Date("EndDate"),
		Manager:      row.String("Manager"),
		GLSegment:    row.String("GLSegment"),
	}
}
