package repo

import (
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

var TeamDescriptor = register(Descriptor{
	Tag:           "TM",
	Name:          "Team",
	Plural:        "Teams",
	Section:       "admin",
	Slug:          "team-maintenance",
	MenuKey:       "mnuTeamMaint",
	FormKey:       "team_key",
	Table:         "Teams",
	ProcPrefix:    "Team",
	KeyKind:       SurrogateKey,
	KeyColumns:    []string{"TeamKey"},
	NameExpr:      "TeamName",
	ActiveColumn:  "Active",
	EndDateColumn: "EndDate",
	Deletable:     true,
})

// Team groups users under a leader inside a department.
type Team struct {
	TeamKey      int64      `json:"team_key" schema:"team_key"`
	TeamName     string     `json:"team_name" schema:"team_name" validate:"required,max=50"`
	Active       bool       `json:"active" schema:"active"`
	StartDate    sproc.Date `json:"start_date" schema:"start_date"`
	EndDate      sproc.Date `json:"end_date" schema:"end_date"`
	CompanyID    string     `json:"company_id" schema:"company_id" validate:"max=10"`
	DivisionID   string     `json:"division_id" schema:"division_id" validate:"max=10"`
	DepartmentID string     `json:"department_id" schema:"department_id" validate:"max=10"`
	LeaderUserID string     `json:"leader_user_id" schema:"leader_user_id" validate:"max=20"`
	UserID       string     `json:"-" schema:"-"`
}

func (t Team) EntityKey() Key { return SurrogateID(t.TeamKey) }

func (t Team) WithKey(k Key) Team {
	t.TeamKey = k.ID
	return t
}

func (t Team) EditedBy(userID string) Team {
	t.UserID = userID
	return t
}

func (t Team) Lifecycle() (bool, sproc.Date) { return t.Active, t.EndDate }

func (t Team) SaveParams() []any {
	return []any{
		t.TeamKey,
		t.TeamName,
		sproc.Bit(t.Active),
		t.StartDate.Param(),
		t.EndDate.Param(),
		t.CompanyID,
		t.DivisionID,
		t.DepartmentID,
		t.LeaderUserID,
		t.UserID,
	}
}

func NewTeam() Team {
	return Team{TeamName: "New Team", Active: true}
}

func ScanTeam(row sproc.Row) Team {
	return Team{
		TeamKey:      row.Int64("TeamKey"),
		TeamName:     row.String("TeamName"),
		Active:       row.Bool("Active"),
		StartDate:    row.Date("StartDate"),
		EndDate:      row.Date("EndDate"),
		CompanyID:    row.String("CompanyID"),
		DivisionID:   row.String("DivisionID"),
		DepartmentID: row.String("DepartmentID"),
		LeaderUserID: row.String("LeaderUserID"),
	}
}
