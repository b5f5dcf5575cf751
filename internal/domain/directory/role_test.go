package directory

import "testing"

func TestRoleFromDesignation(t *testing.T) {
	cases := []struct {
		designation string
		want        Role
	}{
		{"HR Manager", RoleHRManager},
		{"Senior HR Manager", RoleHRManager},
		{"hr_manager", RoleHRManager},
		{"HR Executive", RoleHRExecutive},
		{"HR Excutive", RoleHRExecutive},
		{"hr-exec", RoleHRExecutive},
		{"Engineering Manager", RoleManager},
		{"Manager", RoleManager},
		{"Team Lead", RoleTeamLead},
		{"team_lead", RoleTeamLead},
		{"Senior Team Lead", RoleEmployee},
		{"Software Engineer", RoleEmployee},
		{"", RoleEmployee},
	}
	for _, tc := range cases {
		if got := RoleFromDesignation(tc.designation); got != tc.want {
			t.Errorf("RoleFromDesignation(%q) = %s, want %s", tc.designation, got, tc.want)
		}
	}
}

func TestRoleResolutionIsIdempotent(t *testing.T) {
	// Resolving a role's own name yields the same role, so derived roles are
	// stable under re-resolution.
	for _, role := range []Role{RoleEmployee, RoleTeamLead, RoleManager, RoleHRExecutive, RoleHRManager} {
		if got := RoleFromDesignation(string(role)); got != role {
			t.Errorf("RoleFromDesignation(%q) = %s, want %s", role, got, role)
		}
	}
}

func TestApproverRole(t *testing.T) {
	cases := []struct {
		applicant Role
		want      Role
		ok        bool
	}{
		{RoleEmployee, RoleManager, true},
		{RoleTeamLead, RoleManager, true},
		{RoleManager, RoleHRExecutive, true},
		{RoleHRExecutive, RoleHRManager, true},
		{RoleHRManager, "", false},
	}
	for _, tc := range cases {
		got, ok := ApproverRole(tc.applicant)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ApproverRole(%s) = %s,%v want %s,%v", tc.applicant, got, ok, tc.want, tc.ok)
		}
	}
}

func TestInApprovalChain(t *testing.T) {
	if !InApprovalChain(RoleManager, RoleEmployee) {
		t.Error("manager should be in employee chain")
	}
	if !InApprovalChain(RoleHRManager, RoleEmployee) {
		t.Error("hr manager should be transitively in employee chain")
	}
	if InApprovalChain(RoleEmployee, RoleManager) {
		t.Error("employee must not be in manager chain")
	}
	if InApprovalChain(RoleManager, RoleManager) {
		t.Error("a role is not its own approver")
	}
	if InApprovalChain(RoleManager, RoleHRExecutive) {
		t.Error("manager is below hr executive")
	}
}

func TestCanViewHistory(t *testing.T) {
	if !CanViewHistory(RoleEmployee, "EMP010", RoleEmployee, "EMP010") {
		t.Error("self access denied")
	}
	if CanViewHistory(RoleEmployee, "EMP010", RoleEmployee, "EMP011") {
		t.Error("peer access allowed")
	}
	if !CanViewHistory(RoleHRExecutive, "EMP003", RoleManager, "EMP002") {
		t.Error("hr executive should read manager history")
	}
}
