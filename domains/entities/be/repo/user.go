package repo

import (
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

var UserDescriptor = register(Descriptor{
	Tag:           "US",
	Name:          "User",
	Plural:        "Users",
	Section:       "admin",
	Slug:          "user-maintenance",
	MenuKey:       "mnuUserMaint",
	FormKey:       "user_id",
	Table:         "Users",
	ProcPrefix:    "User",
	KeyKind:       BusinessKey,
	KeyColumns:    []string{"UserID"},
	NameExpr:      "UserName",
	ActiveColumn:  "Active",
	EndDateColumn: "EndDate",
})

// User is a back-office login. Its key is the login id itself.
type User struct {
	UserID       string     `json:"user_id" schema:"user_id" validate:"required,max=20"`
	UserName     string     `json:"user_name" schema:"user_name" validate:"required,max=50"`
	Email        string     `json:"email" schema:"email" validate:"omitempty,email,max=100"`
	Active       bool       `json:"active" schema:"active"`
	StartDate    sproc.Date `json:"start_date" schema:"start_date"`
	EndDate      sproc.Date `json:"end_date" schema:"end_date"`
	CompanyID    string     `json:"company_id" schema:"company_id" validate:"max=10"`
	DivisionID   string     `json:"division_id" schema:"division_id" validate:"max=10"`
	DepartmentID string     `json:"department_id" schema:"department_id" validate:"max=10"`
	TeamKey      int64      `json:"team_key" schema:"team_key" validate:"gte=0"`
	Title        string     `json:"title" schema:"title" validate:"max=50"`
	Phone        string     `json:"phone" schema:"phone" validate:"max=20"`
	Extension    string     `json:"extension" schema:"extension" validate:"max=10"`
	Editor       string     `json:"-" schema:"-"`
}

func (u User) EntityKey() Key { return BusinessID(u.UserID) }

func (u User) WithKey(k Key) User {
	if len(k.Parts) == 1 {
		u.UserID = k.Parts[0]
	}
	return u
}

func (u User) EditedBy(userID string) User {
	u.Editor = userID
	return u
}

func (u User) Lifecycle() (bool, sproc.Date) { return u.Active, u.EndDate }

func (u User) SaveParams() []any {
	return []any{
		u.UserID,
		u.UserName,
		u.Email,
		sproc.Bit(u.Active),
		u.StartDate.Param(),
		u.EndDate.Param(),
		u.CompanyID,
		u.DivisionID,
		u.DepartmentID,
		u.TeamKey,
		u.Title,
		u.Phone,
		u.Extension,
		u.Editor,
	}
}

func ScanUser(row sproc.Row) User {
	return User{
		UserID:       row.String("UserID"),
		UserName:     row.String("UserName"),
		Email:        row.String("Email"),
		Active:       row.Bool("Active"),
		StartDate:    row.Date("StartDate"),
		EndDate:      row.Date("EndDate"),
		CompanyID:    row.String("CompanyID"),
		DivisionID:   row.String("DivisionID"),
		DepartmentID: row.String("DepartmentID"),
		TeamKey:      row.Int64("TeamKey"),
		Title:        row.String("Title"),
		Phone:        row.String("Phone"),
		Extension:    row.String("Extension"),
	}
}
