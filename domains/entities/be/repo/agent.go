package repo

import (
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

var AgentDescriptor = register(Descriptor{
	Tag:                  "AG",
	Name:                 "Agent",
	Plural:               "Agents",
	Section:              "operations",
	Slug:                 "agent-maintenance",
	MenuKey:              "mnuAgentMaint",
	FormKey:              "agent_key",
	Table:                "Agents",
	ProcPrefix:           "Agent",
	KeyKind:              SurrogateKey,
	KeyColumns:           []string{"AgentKey"},
	NameExpr:             "Name",
	ActiveColumn:         "Active",
	EndDateColumn:        "EndDate",
	NameQual:             "AG",
	HasJunctions:         true,
	EnforceActiveEndDate: true,
})

// Agent is a booking agent paid on commission.
type Agent struct {
	AgentKey      int64      `json:"agent_key" schema:"agent_key"`
	Name          string     `json:"name" schema:"name" validate:"required,max=50"`
	Active        bool       `json:"active" schema:"active"`
	StartDate     sproc.Date `json:"start_date" schema:"start_date"`
	EndDate       sproc.Date `json:"end_date" schema:"end_date"`
	CommissionPct float64    `json:"commission_pct" schema:"commission_pct" validate:"gte=0,lte=100"`
	PayType       string     `json:"pay_type" schema:"pay_type" validate:"max=10"`
	VendorID      string     `json:"vendor_id" schema:"vendor_id" validate:"max=20"`
	FederalID     string     `json:"federal_id" schema:"federal_id" validate:"max=20"`
	Terminal      string     `json:"terminal" schema:"terminal" validate:"max=10"`
	Manager       string     `json:"manager" schema:"manager" validate:"max=50"`
	Phone         string     `json:"phone" schema:"phone" validate:"max=20"`
	Fax           string     `json:"fax" schema:"fax" validate:"max=20"`
	Email         string     `json:"email" schema:"email" validate:"omitempty,email,max=100"`
	GLAccount     string     `json:"gl_account" schema:"gl_account" validate:"max=20"`
	Notes         string     `json:"notes" schema:"notes"`
	UserID        string     `json:"-" schema:"-"`
}

func (a Agent) EntityKey() Key { return SurrogateID(a.AgentKey) }

func (a Agent) WithKey(k Key) Agent {
	a.AgentKey = k.ID
	return a
}

func (a Agent) EditedBy(userID string) Agent {
	a.UserID = userID
	return a
}

func (a Agent) Lifecycle() (bool, sproc.Date) { return a.Active, a.EndDate }

func (a Agent) SaveParams() []any {
	return []any{
		a.AgentKey,
		a.Name,
		sproc.Bit(a.Active),
		a.StartDate.Param(),
		a.EndDate.Param(),
		a.CommissionPct,
		a.PayType,
		a.VendorID,
		a.FederalID,
		a.Terminal,
		a.Manager,
		a.Phone,
		a.Fax,
		a.Email,
		a.GLAccount,
		a.Notes,
		a.UserID,
	}
}

// NewAgent is the record create-new saves before the user fills in the form.
func NewAgent() Agent {
	return Agent{Name: "New Agent", Active: true}
}

func ScanAgent(row sproc.Row) Agent {
	return Agent{
		AgentKey:      row.Int64("AgentKey"),
		Name:          row.String("Name"),
		Active:        row.Bool("Active"),
		StartDate:     row.Date("StartDate"),
		EndDate:       row.Date("EndDate"),
		CommissionPct: row.Float64("CommissionPct"),
		PayType:       row.String("PayType"),
		VendorID:      row.String("VendorID"),
		FederalID:     row.String("FederalID"),
		Terminal:      row.String("Terminal"),
		Manager:       row.String("Manager"),
		Phone:         row.String("Phone"),
		Fax:           row.String("Fax"),
		Email:         row.String("Email"),
		GLAccount:     row.String("GLAccount"),
		Notes:         row.String("Notes"),
	}
}
