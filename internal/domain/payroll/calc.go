package payroll

import (
	"math"
	"strings"
)

const (
	basicRatio     = 0.40
	hraRatio       = 0.20
	allowanceRatio = 0.15

	defaultPFPercentage = 12.0
	// Professional tax is a flat 200 per month, kept annualized so other pay
	// cycles divide it consistently.
	annualProfessionalTax = 2400.0
)

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// ApplyBase initializes the CTC-derived base fields in the unit of the
// structure's pay cycle. The PF percentage survives regeneration when the
// structure already carries one.
func ApplyBase(structure *Structure, annualCTC float64, divisor float64) {
	structure.AnnualCTC = annualCTC
	structure.BasicSalary = round2(basicRatio * annualCTC / divisor)
	structure.HRA = round2(hraRatio * annualCTC / divisor)
	structure.Allowance = round2(allowanceRatio * annualCTC / divisor)
	if structure.PFPercentage == 0 {
		structure.PFPercentage = defaultPFPercentage
	}
	structure.ProfessionalTax = round2(annualProfessionalTax / divisor)
}

// NormalizeComponent validates a user-supplied component and computes its
// per-cycle amount. For percentage components the supplied amount is the
// percentage itself, retained as OriginalPercentage.
func NormalizeComponent(annualCTC, divisor float64, component Component) (Component, error) {
	component.Name = strings.TrimSpace(component.Name)
	if component.Name == "" {
		return Component{}, ErrEmptyComponentName
	}
	switch component.Type {
	case ComponentPercentage:
		percentage := component.Amount
		if component.OriginalPercentage != nil {
			percentage = *component.OriginalPercentage
		}
		component.OriginalPercentage = &percentage
		component.Amount = round2(annualCTC * percentage / 100 / divisor)
	case ComponentFixed:
		component.OriginalPercentage = nil
		component.Amount = round2(component.Amount)
	default:
		return Component{}, ErrUnknownComponentType
	}
	return component, nil
}

// Recompute re-evaluates every component amount against the structure's CTC
// and pay cycle, then applies the recomputation law:
//
//	total_earnings   = basic + hra + allowance + Σ earnings
//	total_deductions = pf + professional_tax + Σ deductions
//	net_salary       = total_earnings − total_deductions
func Recompute(structure *Structure) {
	divisor, ok := CycleDivisor(structure.PayCycle)
	if !ok {
		divisor = 12
	}

	additional := func(components []Component) float64 {
		var sum float64
		for i, component := range components {
			if component.Type == ComponentPercentage && component.OriginalPercentage != nil {
				components[i].Amount = round2(structure.AnnualCTC * *component.OriginalPercentage / 100 / divisor)
			}
			sum += components[i].Amount
		}
		return sum
	}

	additionalEarnings := additional(structure.Earnings)
	additionalDeductions := additional(structure.Deductions)
	pfAmount := structure.AnnualCTC * structure.PFPercentage / 100 / divisor

	structure.TotalEarnings = round2(structure.BasicSalary + structure.HRA + structure.Allowance + additionalEarnings)
	structure.TotalDeductions = round2(pfAmount + structure.ProfessionalTax + additionalDeductions)
	structure.NetSalary = round2(structure.TotalEarnings - structure.TotalDeductions)
}
