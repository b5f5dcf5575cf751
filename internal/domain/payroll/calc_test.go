package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBaseMonthly(t *testing.T) {
	var st Structure
	st.PayCycle = CycleMonthly
	ApplyBase(&st, 600000, 12)
	Recompute(&st)

	assert.Equal(t, 20000.0, st.BasicSalary)
	assert.Equal(t, 10000.0, st.HRA)
	assert.Equal(t, 7500.0, st.Allowance)
	assert.Equal(t, 12.0, st.PFPercentage)
	assert.Equal(t, 200.0, st.ProfessionalTax)
	assert.Equal(t, 37500.0, st.TotalEarnings)
	assert.Equal(t, 6200.0, st.TotalDeductions)
	assert.Equal(t, 31300.0, st.NetSalary)
}

func TestApplyBaseKeepsTunedPFPercentage(t *testing.T) {
	st := Structure{PayCycle: CycleMonthly, PFPercentage: 10}
	ApplyBase(&st, 600000, 12)
	assert.Equal(t, 10.0, st.PFPercentage)
}

func TestCycleDivisors(t *testing.T) {
	for cycle, want := range map[string]float64{
		CycleMonthly:  12,
		CycleWeekly:   52,
		CycleBiweekly: 26,
	} {
		got, ok := CycleDivisor(cycle)
		require.True(t, ok, cycle)
		assert.Equal(t, want, got)
	}
	_, ok := CycleDivisor("Quarterly")
	assert.False(t, ok)
}

func TestApplyBaseWeekly(t *testing.T) {
	var st Structure
	st.PayCycle = CycleWeekly
	ApplyBase(&st, 520000, 52)

	assert.Equal(t, 4000.0, st.BasicSalary)
	assert.Equal(t, 2000.0, st.HRA)
	assert.Equal(t, 1500.0, st.Allowance)
	assert.Equal(t, 46.15, st.ProfessionalTax)
}

func TestNormalizeComponentPercentage(t *testing.T) {
	c, err := NormalizeComponent(600000, 12, Component{
		Name:   "Bonus",
		Type:   ComponentPercentage,
		Amount: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, c.Amount)
	require.NotNil(t, c.OriginalPercentage)
	assert.Equal(t, 6.0, *c.OriginalPercentage)
}

func TestNormalizeComponentFixed(t *testing.T) {
	pct := 5.0
	c, err := NormalizeComponent(600000, 12, Component{
		Name:               "Internet",
		Type:               ComponentFixed,
		Amount:             1500.456,
		OriginalPercentage: &pct,
	})
	require.NoError(t, err)
	assert.Equal(t, 1500.46, c.Amount)
	assert.Nil(t, c.OriginalPercentage, "fixed components carry no percentage")
}

func TestNormalizeComponentRejectsBadInput(t *testing.T) {
	_, err := NormalizeComponent(600000, 12, Component{Name: "  ", Type: ComponentFixed})
	assert.ErrorIs(t, err, ErrEmptyComponentName)

	_, err = NormalizeComponent(600000, 12, Component{Name: "Bonus", Type: "ratio"})
	assert.ErrorIs(t, err, ErrUnknownComponentType)
}

func TestRecomputeWithComponents(t *testing.T) {
	var st Structure
	st.PayCycle = CycleMonthly
	ApplyBase(&st, 600000, 12)

	bonus, err := NormalizeComponent(st.AnnualCTC, 12, Component{Name: "Bonus", Type: ComponentPercentage, Amount: 6})
	if err != nil {
		t.Fatal(err)
	}
	st.Earnings = append(st.Earnings, bonus)
	Recompute(&st)

	assert.Equal(t, 3000.0, st.Earnings[0].Amount)
	assert.Equal(t, 40500.0, st.TotalEarnings)
	assert.Equal(t, 34300.0, st.NetSalary)
}

// A CTC revision recomputes percentage components from the retained
// percentage, not from the previously rounded amount.
func TestRecomputeAfterCTCRevision(t *testing.T) {
	var st Structure
	st.PayCycle = CycleMonthly
	ApplyBase(&st, 600000, 12)
	bonus, err := NormalizeComponent(st.AnnualCTC, 12, Component{Name: "Bonus", Type: ComponentPercentage, Amount: 6})
	if err != nil {
		t.Fatal(err)
	}
	st.Earnings = append(st.Earnings, bonus)
	Recompute(&st)

	ApplyBase(&st, 720000, 12)
	Recompute(&st)

	assert.Equal(t, 24000.0, st.BasicSalary)
	assert.Equal(t, 3600.0, st.Earnings[0].Amount)
	require.NotNil(t, st.Earnings[0].OriginalPercentage)
	assert.Equal(t, 6.0, *st.Earnings[0].OriginalPercentage)
}

func TestRecomputeFixedComponentsUntouchedByCTC(t *testing.T) {
	var st Structure
	st.PayCycle = CycleMonthly
	ApplyBase(&st, 600000, 12)
	st.Deductions = append(st.Deductions, Component{Name: "Canteen", Type: ComponentFixed, Amount: 500})
	Recompute(&st)
	before := st.Deductions[0].Amount

	ApplyBase(&st, 900000, 12)
	Recompute(&st)
	assert.Equal(t, before, st.Deductions[0].Amount)
}
