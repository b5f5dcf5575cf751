package leave

// Allocation splits an annual entitlement evenly across the three leave
// categories; any remainder goes to earned leave by convention, so for 21
// each category gets 7 and for 22 earned gets 8.
func Allocation(annual int) map[Type]int {
	if annual < 0 {
		annual = 0
	}
	per := annual / 3
	out := map[Type]int{
		TypeCasual: per,
		TypeSick:   per,
		TypeEarned: per + annual%3,
	}
	return out
}

// BuildBalance assembles a balance snapshot from the entitlement and the
// per-category counts of approved applications. Pure function of its inputs.
func BuildBalance(employeeID string, annual int, used map[Type]int) Balance {
	allocation := Allocation(annual)
	balance := Balance{
		EmployeeID:   employeeID,
		AnnualLeaves: annual,
		Categories:   make(map[Type]CategoryBalance, len(Types)),
	}
	for _, t := range Types {
		allocated := allocation[t]
		remaining := allocated - used[t]
		if remaining < 0 {
			remaining = 0
		}
		balance.Categories[t] = CategoryBalance{
			Allocated: allocated,
			Used:      used[t],
			Remaining: remaining,
		}
		balance.TotalRemaining += remaining
	}
	return balance
}
