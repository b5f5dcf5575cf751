package payroll

import "time"

const (
	CycleMonthly  = "Monthly"
	CycleWeekly   = "Weekly"
	CycleBiweekly = "Biweekly"
)

// CycleDivisor maps a pay cycle to the number of pay periods per year. Base
// fields and component amounts are stored in the unit of the row's cycle.
func CycleDivisor(payCycle string) (float64, bool) {
	switch payCycle {
	case CycleMonthly:
		return 12, true
	case CycleWeekly:
		return 52, true
	case CycleBiweekly:
		return 26, true
	}
	return 0, false
}

const (
	ComponentPercentage = "percentage"
	ComponentFixed      = "fixed"
)

const (
	SideEarnings   = "earnings"
	SideDeductions = "deductions"
)

// Component is a user-added earning or deduction. Percentage components keep
// the declared percentage so a CTC change recomputes the amount exactly.
type Component struct {
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	Amount             float64  `json:"amount"`
	OriginalPercentage *float64 `json:"original_percentage,omitempty"`
}

type Structure struct {
	ID              string      `json:"id"`
	EmployeeID      string      `json:"employeeId"`
	Month           string      `json:"month"`
	PayCycle        string      `json:"payCycle"`
	AnnualCTC       float64     `json:"annualCtc"`
	BasicSalary     float64     `json:"basicSalary"`
	HRA             float64     `json:"hra"`
	Allowance       float64     `json:"allowance"`
	PFPercentage    float64     `json:"providentFundPercentage"`
	ProfessionalTax float64     `json:"professionalTax"`
	TotalEarnings   float64     `json:"totalEarnings"`
	TotalDeductions float64     `json:"totalDeductions"`
	NetSalary       float64     `json:"netSalary"`
	Earnings        []Component `json:"earnings"`
	Deductions      []Component `json:"deductions"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
