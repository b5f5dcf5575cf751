package directory

import "time"

type Employee struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Designation      string    `json:"designation"`
	Role             Role      `json:"role"`
	DepartmentID     *int      `json:"departmentId,omitempty"`
	ShiftID          *int      `json:"shiftId,omitempty"`
	ReportingManager string    `json:"reportingManager,omitempty"`
	PhoneNumber      string    `json:"phoneNumber,omitempty"`
	Location         string    `json:"location,omitempty"`
	ProfilePhoto     string    `json:"profilePhoto,omitempty"`
	JoiningDate      time.Time `json:"joiningDate"`
	AnnualCTC        float64   `json:"annualCtc"`
	AnnualLeaves     int       `json:"annualLeaves"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
}

type ChainEntry struct {
	EmployeeID  string `json:"employeeId"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Role        Role   `json:"role"`
}
