package leave

import (
	"strings"
	"time"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Type is a closed enum enforced at apply time.
type Type string

const (
	TypeCasual Type = "casual"
	TypeSick   Type = "sick"
	TypeEarned Type = "earned"
)

var Types = []Type{TypeCasual, TypeSick, TypeEarned}

func ParseType(raw string) (Type, bool) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeCasual:
		return TypeCasual, true
	case TypeSick:
		return TypeSick, true
	case TypeEarned:
		return TypeEarned, true
	}
	return "", false
}

type Application struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	LeaveType    Type      `json:"leaveType"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Reason       string    `json:"reason,omitempty"`
	Status       string    `json:"status"`
	ApproverRole string    `json:"approverRole"`
	ApproverID   string    `json:"approverId,omitempty"`
	Comments     string    `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CategoryBalance struct {
	Allocated int `json:"allocated"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

type Balance struct {
	EmployeeID     string                   `json:"employeeId"`
	AnnualLeaves   int                      `json:"annualLeaves"`
	Categories     map[Type]CategoryBalance `json:"categories"`
	TotalRemaining int                      `json:"totalRemaining"`
}
