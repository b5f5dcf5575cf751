package payroll

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayrollStore struct {
	rows map[string]Structure
}

func newFakePayrollStore() *fakePayrollStore {
	return &fakePayrollStore{rows: make(map[string]Structure)}
}

func (f *fakePayrollStore) key(employeeID, month string) string {
	return employeeID + "|" + month
}

func (f *fakePayrollStore) Get(_ context.Context, employeeID, month string) (Structure, error) {
	st, ok := f.rows[f.key(employeeID, month)]
	if !ok {
		return Structure{}, ErrNotFound
	}
	return st, nil
}

func (f *fakePayrollStore) Upsert(_ context.Context, st Structure) (Structure, error) {
	f.rows[f.key(st.EmployeeID, st.Month)] = st
	return st, nil
}

func (f *fakePayrollStore) ListByEmployee(_ context.Context, employeeID string) ([]Structure, error) {
	var out []Structure
	for _, st := range f.rows {
		if st.EmployeeID == employeeID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakePayrollStore) Delete(_ context.Context, employeeID, month string) error {
	k := f.key(employeeID, month)
	if _, ok := f.rows[k]; !ok {
		return ErrNotFound
	}
	delete(f.rows, k)
	return nil
}

type fakeCTCDirectory map[string]float64

func (f fakeCTCDirectory) AnnualCTC(_ context.Context, employeeID string) (float64, error) {
	ctc, ok := f[employeeID]
	if !ok {
		return 0, ErrNotFound
	}
	return ctc, nil
}

func newPayrollService() (*Service, *fakePayrollStore, fakeCTCDirectory) {
	store := newFakePayrollStore()
	dir := fakeCTCDirectory{"EMP010": 600000}
	return NewService(store, dir), store, dir
}

func TestGenerateMonthlyStructure(t *testing.T) {
	svc, _, _ := newPayrollService()
	ctx := context.Background()

	st, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)

	assert.Equal(t, 20000.0, st.BasicSalary)
	assert.Equal(t, 10000.0, st.HRA)
	assert.Equal(t, 7500.0, st.Allowance)
	assert.Equal(t, 200.0, st.ProfessionalTax)
	assert.Equal(t, 31300.0, st.NetSalary)
}

func TestGenerateRejectsUnknownPayCycle(t *testing.T) {
	svc, _, _ := newPayrollService()
	_, err := svc.Generate(context.Background(), "EMP010", "2026-08", "Quarterly")
	assert.ErrorIs(t, err, ErrInvalidPayCycle)
}

func TestGenerateIsIdempotentPerMonth(t *testing.T) {
	svc, store, _ := newPayrollService()
	ctx := context.Background()

	_, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)
	_, err = svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)

	assert.Len(t, store.rows, 1)
}

// Regenerating after a CTC revision keeps the added components and
// recomputes percentage amounts from the retained percentage.
func TestRegenerateAfterRaiseKeepsComponents(t *testing.T) {
	svc, _, dir := newPayrollService()
	ctx := context.Background()

	_, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)
	_, err = svc.AddComponent(ctx, "EMP010", "2026-08", SideEarnings,
		Component{Name: "Bonus", Type: ComponentPercentage, Amount: 6})
	require.NoError(t, err)

	dir["EMP010"] = 720000
	st, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)

	require.Len(t, st.Earnings, 1)
	assert.Equal(t, 3600.0, st.Earnings[0].Amount)
	assert.Equal(t, 24000.0, st.BasicSalary)
}

func TestAddComponentRecomputesTotals(t *testing.T) {
	svc, _, _ := newPayrollService()
	ctx := context.Background()

	_, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)

	st, err := svc.AddComponent(ctx, "EMP010", "2026-08", SideEarnings,
		Component{Name: "Bonus", Type: ComponentPercentage, Amount: 6})
	require.NoError(t, err)

	assert.Equal(t, 3000.0, st.Earnings[0].Amount)
	assert.Equal(t, 40500.0, st.TotalEarnings)
	assert.Equal(t, 34300.0, st.NetSalary)
}

func TestAddComponentRejectsUnknownSide(t *testing.T) {
	svc, _, _ := newPayrollService()
	_, err := svc.AddComponent(context.Background(), "EMP010", "2026-08", "extras",
		Component{Name: "Bonus", Type: ComponentFixed, Amount: 100})
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestUpdateComponentGuardsCoreFields(t *testing.T) {
	svc, _, _ := newPayrollService()
	ctx := context.Background()
	_, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)

	for _, field := range []string{"basic_salary", "HRA", "allowance", "Professional_Tax"} {
		_, err := svc.UpdateComponent(ctx, "EMP010", "2026-08",
			Component{Name: field, Type: ComponentFixed, Amount: 1})
		var immutable *ImmutableFieldError
		require.ErrorAs(t, err, &immutable, field)
	}
}

func TestUpdateProvidentFundPercentage(t *testing.T) {
	svc, _, _ := newPayrollService()
	ctx := context.Background()
	_, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)

	st, err := svc.UpdateComponent(ctx, "EMP010", "2026-08",
		Component{Name: "provident_fund_percentage", Amount: 10})
	require.NoError(t, err)

	// pf drops from 6000 to 5000
	assert.Equal(t, 10.0, st.PFPercentage)
	assert.Equal(t, 5200.0, st.TotalDeductions)
	assert.Equal(t, 32300.0, st.NetSalary)
}

func TestUpdateComponentByName(t *testing.T) {
	svc, _, _ := newPayrollService()
	ctx := context.Background()
	_, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)
	_, err = svc.AddComponent(ctx, "EMP010", "2026-08", SideDeductions,
		Component{Name: "Canteen", Type: ComponentFixed, Amount: 500})
	require.NoError(t, err)

	st, err := svc.UpdateComponent(ctx, "EMP010", "2026-08",
		Component{Name: "canteen", Type: ComponentFixed, Amount: 750})
	require.NoError(t, err)

	require.Len(t, st.Deductions, 1)
	assert.Equal(t, 750.0, st.Deductions[0].Amount)
	assert.Equal(t, 6950.0, st.TotalDeductions)
}

func TestUpdateComponentNotFound(t *testing.T) {
	svc, _, _ := newPayrollService()
	ctx := context.Background()
	_, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)

	_, err = svc.UpdateComponent(ctx, "EMP010", "2026-08",
		Component{Name: "Gym", Type: ComponentFixed, Amount: 100})
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestDeleteComponentRevertsTotals(t *testing.T) {
	svc, _, _ := newPayrollService()
	ctx := context.Background()
	base, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)
	_, err = svc.AddComponent(ctx, "EMP010", "2026-08", SideEarnings,
		Component{Name: "Bonus", Type: ComponentPercentage, Amount: 6})
	require.NoError(t, err)

	st, err := svc.DeleteComponent(ctx, "EMP010", "2026-08", SideEarnings, "BONUS")
	require.NoError(t, err)

	assert.Empty(t, st.Earnings)
	assert.Equal(t, base.TotalEarnings, st.TotalEarnings)
	assert.Equal(t, base.NetSalary, st.NetSalary)

	// a second delete finds nothing and totals stay put
	_, err = svc.DeleteComponent(ctx, "EMP010", "2026-08", SideEarnings, "Bonus")
	assert.ErrorIs(t, err, ErrComponentNotFound)

	again, err := svc.Payslip(ctx, "EMP010", "2026-08")
	require.NoError(t, err)
	assert.Equal(t, base.NetSalary, again.NetSalary)
}

func TestSaveReplacesComponentLists(t *testing.T) {
	svc, _, _ := newPayrollService()
	ctx := context.Background()

	st, err := svc.Save(ctx, "EMP010", "2026-08", CycleMonthly,
		[]Component{{Name: "Bonus", Type: ComponentPercentage, Amount: 6}},
		[]Component{{Name: "Canteen", Type: ComponentFixed, Amount: 500}})
	require.NoError(t, err)

	require.Len(t, st.Earnings, 1)
	require.Len(t, st.Deductions, 1)
	assert.Equal(t, 40500.0, st.TotalEarnings)
	assert.Equal(t, 6700.0, st.TotalDeductions)
	assert.Equal(t, 33800.0, st.NetSalary)
}

func TestDeletePayslip(t *testing.T) {
	svc, _, _ := newPayrollService()
	ctx := context.Background()
	_, err := svc.Generate(ctx, "EMP010", "2026-08", CycleMonthly)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePayslip(ctx, "EMP010", "2026-08"))
	assert.ErrorIs(t, svc.DeletePayslip(ctx, "EMP010", "2026-08"), ErrNotFound)
	_, err = svc.Payslip(ctx, "EMP010", "2026-08")
	assert.ErrorIs(t, err, ErrNotFound)
}
