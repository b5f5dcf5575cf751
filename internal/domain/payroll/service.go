package payroll

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Store StoreAPI
	Dir   DirectoryAPI
}

func NewService(store StoreAPI, dir DirectoryAPI) *Service {
	return &Service{Store: store, Dir: dir}
}

// Generate upserts the structure for (employee, month), reinitializing the
// base fields from the employee's current annual CTC. Existing components
// survive and are recomputed against the new CTC and cycle.
func (s *Service) Generate(ctx context.Context, employeeID, month, payCycle string) (Structure, error) {
	divisor, ok := CycleDivisor(payCycle)
	if !ok {
		return Structure{}, ErrInvalidPayCycle
	}

	annualCTC, err := s.Dir.AnnualCTC(ctx, employeeID)
	if err != nil {
		return Structure{}, err
	}

	structure, err := s.Store.Get(ctx, employeeID, month)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Structure{}, err
	}
	structure.EmployeeID = employeeID
	structure.Month = month
	structure.PayCycle = payCycle

	ApplyBase(&structure, annualCTC, divisor)
	Recompute(&structure)
	return s.Store.Upsert(ctx, structure)
}

// Save upserts the structure and replaces its component lists wholesale,
// then applies the recomputation law.
func (s *Service) Save(ctx context.Context, employeeID, month, payCycle string, earnings, deductions []Component) (Structure, error) {
	divisor, ok := CycleDivisor(payCycle)
	if !ok {
		return Structure{}, ErrInvalidPayCycle
	}

	annualCTC, err := s.Dir.AnnualCTC(ctx, employeeID)
	if err != nil {
		return Structure{}, err
	}

	structure, err := s.Store.Get(ctx, employeeID, month)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Structure{}, err
	}
	structure.EmployeeID = employeeID
	structure.Month = month
	structure.PayCycle = payCycle
	ApplyBase(&structure, annualCTC, divisor)

	if structure.Earnings, err = normalizeAll(annualCTC, divisor, earnings); err != nil {
		return Structure{}, err
	}
	if structure.Deductions, err = normalizeAll(annualCTC, divisor, deductions); err != nil {
		return Structure{}, err
	}

	Recompute(&structure)
	return s.Store.Upsert(ctx, structure)
}

func (s *Service) Payslip(ctx context.Context, employeeID, month string) (Structure, error) {
	return s.Store.Get(ctx, employeeID, month)
}

func (s *Service) History(ctx context.Context, employeeID string) ([]Structure, error) {
	return s.Store.ListByEmployee(ctx, employeeID)
}

func (s *Service) DeletePayslip(ctx context.Context, employeeID, month string) error {
	return s.Store.Delete(ctx, employeeID, month)
}

// AddComponent appends to one side of an existing structure and recomputes.
func (s *Service) AddComponent(ctx context.Context, employeeID, month, side string, component Component) (Structure, error) {
	if side != SideEarnings && side != SideDeductions {
		return Structure{}, ErrInvalidSide
	}

	structure, err := s.Store.Get(ctx, employeeID, month)
	if err != nil {
		return Structure{}, err
	}
	divisor, _ := CycleDivisor(structure.PayCycle)

	normalized, err := NormalizeComponent(structure.AnnualCTC, divisor, component)
	if err != nil {
		return Structure{}, err
	}
	if side == SideEarnings {
		structure.Earnings = append(structure.Earnings, normalized)
	} else {
		structure.Deductions = append(structure.Deductions, normalized)
	}

	Recompute(&structure)
	return s.Store.Upsert(ctx, structure)
}

// UpdateComponent replaces a component by name on either side. Core base
// fields are immutable through this path: only the provident fund percentage
// may be changed, addressed by the field name provident_fund_percentage.
func (s *Service) UpdateComponent(ctx context.Context, employeeID, month string, component Component) (Structure, error) {
	name := strings.ToLower(strings.TrimSpace(component.Name))
	if immutableCoreFields[name] {
		return Structure{}, &ImmutableFieldError{Field: name}
	}

	structure, err := s.Store.Get(ctx, employeeID, month)
	if err != nil {
		return Structure{}, err
	}
	divisor, _ := CycleDivisor(structure.PayCycle)

	if name == "provident_fund_percentage" {
		structure.PFPercentage = component.Amount
		Recompute(&structure)
		return s.Store.Upsert(ctx, structure)
	}

	normalized, err := NormalizeComponent(structure.AnnualCTC, divisor, component)
	if err != nil {
		return Structure{}, err
	}

	replaced := replaceByName(structure.Earnings, normalized) || replaceByName(structure.Deductions, normalized)
	if !replaced {
		return Structure{}, ErrComponentNotFound
	}

	Recompute(&structure)
	return s.Store.Upsert(ctx, structure)
}

// DeleteComponent removes a component by case-insensitive name match on the
// given side; removing nothing is a not-found error and leaves totals alone.
func (s *Service) DeleteComponent(ctx context.Context, employeeID, month, side, name string) (Structure, error) {
	if side != SideEarnings && side != SideDeductions {
		return Structure{}, ErrInvalidSide
	}

	structure, err := s.Store.Get(ctx, employeeID, month)
	if err != nil {
		return Structure{}, err
	}

	components := structure.Earnings
	if side == SideDeductions {
		components = structure.Deductions
	}

	filtered := components[:0:0]
	removed := false
	for _, component := range components {
		if strings.EqualFold(component.Name, name) {
			removed = true
			continue
		}
		filtered = append(filtered, component)
	}
	if !removed {
		return Structure{}, ErrComponentNotFound
	}

	if side == SideEarnings {
		structure.Earnings = filtered
	} else {
		structure.Deductions = filtered
	}

	Recompute(&structure)
	return s.Store.Upsert(ctx, structure)
}

func normalizeAll(annualCTC, divisor float64, components []Component) ([]Component, error) {
	out := make([]Component, 0, len(components))
	for _, component := range components {
		normalized, err := NormalizeComponent(annualCTC, divisor, component)
		if err != nil {
			return nil, err
		}
		out = append(out, normalized)
	}
	return out, nil
}

func replaceByName(components []Component, replacement Component) bool {
	for i, component := range components {
		if strings.EqualFold(component.Name, replacement.Name) {
			components[i] = replacement
			return true
		}
	}
	return false
}
