package directory

import "strings"

// Role is derived from an employee's designation, never stored.
type Role string

const (
	RoleEmployee    Role = "EMPLOYEE"
	RoleTeamLead    Role = "TEAM_LEAD"
	RoleManager     Role = "MANAGER"
	RoleHRExecutive Role = "HR_EXECUTIVE"
	RoleHRManager   Role = "HR_MANAGER"
)

// hrExecutiveKeywords includes misspellings seen in real designation data.
var hrExecutiveKeywords = []string{"hr executive", "hr exec", "hr executiv", "hr excutive"}

// RoleFromDesignation maps a free-form designation to a Role. Normalization:
// lowercase, underscores and hyphens become spaces, whitespace collapsed.
// First keyword match wins; anything unmatched is a plain employee, so the
// function is total.
func RoleFromDesignation(designation string) Role {
	normalized := normalizeDesignation(designation)

	if strings.Contains(normalized, "hr manager") {
		return RoleHRManager
	}
	for _, keyword := range hrExecutiveKeywords {
		if strings.Contains(normalized, keyword) {
			return RoleHRExecutive
		}
	}
	if strings.Contains(normalized, "manager") {
		return RoleManager
	}
	if normalized == "team lead" {
		return RoleTeamLead
	}
	return RoleEmployee
}

func normalizeDesignation(designation string) string {
	normalized := strings.ToLower(strings.TrimSpace(designation))
	normalized = strings.ReplaceAll(normalized, "_", " ")
	normalized = strings.ReplaceAll(normalized, "-", " ")
	return strings.Join(strings.Fields(normalized), " ")
}

func ValidRole(role Role) bool {
	switch role {
	case RoleEmployee, RoleTeamLead, RoleManager, RoleHRExecutive, RoleHRManager:
		return true
	}
	return false
}

// ApproverRole returns the role that decides leave for an applicant of the
// given role. HR managers sit at the top of the chain and have none.
func ApproverRole(applicant Role) (Role, bool) {
	switch applicant {
	case RoleEmployee, RoleTeamLead:
		return RoleManager, true
	case RoleManager:
		return RoleHRExecutive, true
	case RoleHRExecutive:
		return RoleHRManager, true
	default:
		return "", false
	}
}

// IsApprover reports whether a role sits on any approval queue.
func IsApprover(role Role) bool {
	switch role {
	case RoleManager, RoleHRExecutive, RoleHRManager:
		return true
	}
	return false
}

// InApprovalChain reports whether actor lies on the upward approver chain of
// applicant: the applicant's direct approver role, or any role above it.
func InApprovalChain(actor, applicant Role) bool {
	current := applicant
	for {
		approver, ok := ApproverRole(current)
		if !ok {
			return false
		}
		if approver == actor {
			return true
		}
		current = approver
	}
}

// CanViewHistory implements the leave-history access rule: self, or an
// upstream approver of the target's role.
func CanViewHistory(actor Role, actorID string, target Role, targetID string) bool {
	if actorID == targetID {
		return true
	}
	return InApprovalChain(actor, target)
}
