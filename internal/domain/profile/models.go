package profile

import "time"

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Request struct {
	ID               string     `json:"id"`
	EmployeeID       string     `json:"employeeId"`
	FieldName        string     `json:"fieldName"`
	OldValue         string     `json:"oldValue"`
	NewValue         string     `json:"newValue"`
	Status           string     `json:"status"`
	Reason           string     `json:"reason"`
	ReviewerComments string     `json:"reviewerComments"`
	ReviewerID       string     `json:"reviewerId"`
	CreatedAt        time.Time  `json:"createdAt"`
	ResolvedAt       *time.Time `json:"resolvedAt,omitempty"`
}

// Summary is the reviewer's per-employee view of outstanding requests.
type Summary struct {
	EmployeeID string    `json:"employeeId"`
	Pending    int       `json:"pending"`
	Fields     []string  `json:"fields"`
	OldestAt   time.Time `json:"oldestAt"`
}

// BankDetails is the decrypted reviewer view of an employee's bank record.
// The identifier fields come back in the clear regardless of how they are
// stored at rest.
type BankDetails struct {
	EmployeeID        string `json:"employeeId"`
	AccountNumber     string `json:"accountNumber"`
	AccountHolderName string `json:"accountHolderName"`
	IFSCCode          string `json:"ifscCode"`
	BankName          string `json:"bankName"`
	Branch            string `json:"branch"`
	AccountType       string `json:"accountType"`
	PANNumber         string `json:"panNumber"`
	AadhaarNumber     string `json:"aadhaarNumber"`
}

// ResolveResult reports what a resolve call did. Applied is zero when the
// employee had no pending requests.
type ResolveResult struct {
	EmployeeID string `json:"employeeId"`
	Status     string `json:"status"`
	Applied    int    `json:"applied"`
}
