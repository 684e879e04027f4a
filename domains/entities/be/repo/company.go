package repo

import (
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

var CompanyDescriptor = register(Descriptor{
	Tag:           "CO",
	Name:          "Company",
	Plural:        "Companies",
	Section:       "admin",
	Slug:          "company-maintenance",
	MenuKey:       "mnuCompanyMaint",
	FormKey:       "company_id",
	Table:         "Companies",
	ProcPrefix:    "Company",
	KeyKind:       BusinessKey,
	KeyColumns:    []string{"CompanyID"},
	NameExpr:      "CompanyName",
	ActiveColumn:  "ACTIVE",
	EndDateColumn: "EndDate",
})

// Company is an operating company of the carrier. Its flag column is ACTIVE.
type Company struct {
	CompanyID        string     `json:"company_id" schema:"company_id" validate:"required,max=10"`
	CompanyName      string     `json:"company_name" schema:"company_name" validate:"required,max=60"`
	ShortName        string     `json:"short_name" schema:"short_name" validate:"max=20"`
	Active           bool       `json:"active" schema:"active"`
	StartDate        sproc.Date `json:"start_date" schema:"start_date"`
	EndDate          sproc.Date `json:"end_date" schema:"end_date"`
	Address1         string     `json:"address1" schema:"address1" validate:"max=60"`
	Address2         string     `json:"address2" schema:"address2" validate:"max=60"`
	City             string     `json:"city" schema:"city" validate:"max=40"`
	State            string     `json:"state" schema:"state" validate:"max=2"`
	Zip              string     `json:"zip" schema:"zip" validate:"max=10"`
	Country          string     `json:"country" schema:"country" validate:"max=3"`
	Phone            string     `json:"phone" schema:"phone" validate:"max=20"`
	Fax              string     `json:"fax" schema:"fax" validate:"max=20"`
	Email            string     `json:"email" schema:"email" validate:"omitempty,email,max=100"`
	Website          string     `json:"website" schema:"website" validate:"max=100"`
	FederalID        string     `json:"federal_id" schema:"federal_id" validate:"max=20"`
	StateTaxID       string     `json:"state_tax_id" schema:"state_tax_id" validate:"max=20"`
	MCNumber         string     `json:"mc_number" schema:"mc_number" validate:"max=20"`
	DOTNumber        string     `json:"dot_number" schema:"dot_number" validate:"max=20"`
	SCAC             string     `json:"scac" schema:"scac" validate:"max=4"`
	RemitName        string     `json:"remit_name" schema:"remit_name" validate:"max=60"`
	RemitAddress1    string     `json:"remit_address1" schema:"remit_address1" validate:"max=60"`
	RemitAddress2    string     `json:"remit_address2" schema:"remit_address2" validate:"max=60"`
	RemitCity        string     `json:"remit_city" schema:"remit_city" validate:"max=40"`
	RemitState       string     `json:"remit_state" schema:"remit_state" validate:"max=2"`
	RemitZip         string     `json:"remit_zip" schema:"remit_zip" validate:"max=10"`
	BillingContact   string     `json:"billing_contact" schema:"billing_contact" validate:"max=50"`
	BillingPhone     string     `json:"billing_phone" schema:"billing_phone" validate:"max=20"`
	BillingEmail     string     `json:"billing_email" schema:"billing_email" validate:"omitempty,email,max=100"`
	CurrencyCode     string     `json:"currency_code" schema:"currency_code" validate:"omitempty,len=3"`
	FiscalYearStart  int64      `json:"fiscal_year_start" schema:"fiscal_year_start" validate:"gte=0,lte=12"`
	ARAccount        string     `json:"ar_account" schema:"ar_account" validate:"max=20"`
	APAccount        string     `json:"ap_account" schema:"ap_account" validate:"max=20"`
	RevenueAccount   string     `json:"revenue_account" schema:"revenue_account" validate:"max=20"`
	ExpenseAccount   string     `json:"expense_account" schema:"expense_account" validate:"max=20"`
	FuelSurchargePct float64    `json:"fuel_surcharge_pct" schema:"fuel_surcharge_pct" validate:"gte=0,lte=100"`
	DefaultPayTerms  string     `json:"default_pay_terms" schema:"default_pay_terms" validate:"max=20"`
	CreditLimit      float64    `json:"credit_limit" schema:"credit_limit" validate:"gte=0"`
	FactoringCompany string     `json:"factoring_company" schema:"factoring_company" validate:"max=60"`
	InsuranceCarrier string     `json:"insurance_carrier" schema:"insurance_carrier" validate:"max=60"`
	InsurancePolicy  string     `json:"insurance_policy" schema:"insurance_policy" validate:"max=30"`
	InsuranceExpires sproc.Date `json:"insurance_expires" schema:"insurance_expires"`
	LogoPath         string     `json:"logo_path" schema:"logo_path" validate:"max=200"`
	TimeZone         string     `json:"time_zone" schema:"time_zone" validate:"max=40"`
	Notes            string     `json:"notes" schema:"notes"`
	UserID           string     `json:"-" schema:"-"`
}

func (c Company) EntityKey() Key { return BusinessID(c.CompanyID) }

func (c Company) WithKey(k Key) Company {
	if len(k.Parts) == 1 {
		c.CompanyID = k.Parts[0]
	}
	return c
}

func (c Company) EditedBy(userID string) Company {
	c.UserID = userID
	return c
}

func (c Company) Lifecycle() (bool, sproc.Date) { return c.Active, c.EndDate }

func (c Company) SaveParams() []any {
	return []any{
		c.CompanyID,
		c.CompanyName,
		c.ShortName,
		sproc.Bit(c.Active),
		c.StartDate.Param(),
		c.EndDate.Param(),
		c.Address1,
		c.Address2,
		c.City,
		c.State,
		c.Zip,
		c.Country,
		c.Phone,
		c.Fax,
		c.Email,
		c.Website,
		c.FederalID,
		c.StateTaxID,
		c.MCNumber,
		c.DOTNumber,
		c.SCAC,
		c.RemitName,
		c.RemitAddress1,
		c.RemitAddress2,
		c.RemitCity,
		c.RemitState,
		c.RemitZip,
		c.BillingContact,
		c.BillingPhone,
		c.BillingEmail,
		c.CurrencyCode,
		c.FiscalYearStart,
		c.ARAccount,
		c.APAccount,
		c.RevenueAccount,
		c.ExpenseAccount,
		c.FuelSurchargePct,
		c.DefaultPayTerms,
		c.CreditLimit,
		c.FactoringCompany,
		c.InsuranceCarrier,
		c.InsurancePolicy,
		c.InsuranceExpires.Param(),
		c.LogoPath,
		c.TimeZone,
		c.Notes,
		c.UserID,
	}
}

func ScanCompany(row sproc.Row) Company {
	return Company{
		CompanyID:        row.String("CompanyID"),
		CompanyName:      row.String("CompanyName"),
		ShortName:        row.String("ShortName"),
		Active:           row.Bool("ACTIVE"),
		StartDate:        row.Date("StartDate"),
		EndDate:          row.Date("EndDate"),
		Address1:         row.String("Address1"),
		Address2:         row.String("Address2"),
		City:             row.String("City"),
		State:            row.String("State"),
		Zip:              row.String("Zip"),
		Country:          row.String("Country"),
		Phone:            row.String("Phone"),
		Fax:              row.String("Fax"),
		Email:            row.String("Email"),
		Website:          row.String("Website"),
		FederalID:        row.String("FederalID"),
		StateTaxID:       row.String("StateTaxID"),
		MCNumber:         row.String("MCNumber"),
		DOTNumber:        row.String("DOTNumber"),
		SCAC:             row.String("SCAC"),
		RemitName:        row.String("RemitName"),
		RemitAddress1:    row.String("RemitAddress1"),
		RemitAddress2:    row.String("RemitAddress2"),
		RemitCity:        row.String("RemitCity"),
		RemitState:       row.String("RemitState"),
		RemitZip:         row.String("RemitZip"),
		BillingContact:   row.String("BillingContact"),
		BillingPhone:     row.String("BillingPhone"),
		BillingEmail:     row.String("BillingEmail"),
		CurrencyCode:     row.String("CurrencyCode"),
		FiscalYearStart:  row.Int64("FiscalYearStart"),
		ARAccount:        row.String("ARAccount"),
		APAccount:        row.String("APAccount"),
		RevenueAccount:   row.String("RevenueAccount"),
		ExpenseAccount:   row.String("ExpenseAccount"),
		FuelSurchargePct: row.Float64("FuelSurchargePct"),
		DefaultPayTerms:  row.String("DefaultPayTerms"),
		CreditLimit:      row.Float64("CreditLimit"),
		FactoringCompany: row.String("FactoringCompany"),
		InsuranceCarrier: row.String("InsuranceCarrier"),
		InsurancePolicy:  row.String("InsurancePolicy"),
		InsuranceExpires: row.Date("InsuranceExpires"),
		LogoPath:         row.String("LogoPath"),
		TimeZone:         row.String("TimeZone"),
		Notes:            row.String("Notes"),
	}
}
