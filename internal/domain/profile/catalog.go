package profile

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	TargetEmployee   = "employee"
	TargetPersonal   = "personal_details"
	TargetBank       = "bank_details"
	TargetExperience = "work_experience"
	TargetAsset      = "asset"
	TargetDocument   = "document"
)

const (
	KindString  = "string"
	KindDate    = "date"
	KindInt     = "int"
	KindDecimal = "decimal"
)

// FieldSpec routes an editable field to its target table, column and value
// parser. The catalog is the single source of truth for what an edit request
// may touch; anything outside it is rejected at submit time.
type FieldSpec struct {
	Target string
	Column string
	Kind   string
}

var catalog = map[string]FieldSpec{
	// employees
	"first_name":        {TargetEmployee, "first_name", KindString},
	"last_name":         {TargetEmployee, "last_name", KindString},
	"email_id":          {TargetEmployee, "email", KindString},
	"phone_number":      {TargetEmployee, "phone_number", KindString},
	"designation":       {TargetEmployee, "designation", KindString},
	"location":          {TargetEmployee, "location", KindString},
	"reporting_manager": {TargetEmployee, "reporting_manager", KindString},
	"profile_photo":     {TargetEmployee, "profile_photo", KindString},
	"department_id":     {TargetEmployee, "department_id", KindInt},
	"shift_id":          {TargetEmployee, "shift_id", KindInt},
	"joining_date":      {TargetEmployee, "joining_date", KindDate},

	// personal_details
	"date_of_birth":             {TargetPersonal, "date_of_birth", KindDate},
	"gender":                    {TargetPersonal, "gender", KindString},
	"marital_status":            {TargetPersonal, "marital_status", KindString},
	"blood_group":               {TargetPersonal, "blood_group", KindString},
	"nationality":               {TargetPersonal, "nationality", KindString},
	"employee_email":            {TargetPersonal, "employee_email", KindString},
	"employee_phone":            {TargetPersonal, "employee_phone", KindString},
	"employee_alternate_phone":  {TargetPersonal, "employee_alternate_phone", KindString},
	"employee_address":          {TargetPersonal, "employee_address", KindString},
	"emergency_full_name":       {TargetPersonal, "emergency_full_name", KindString},
	"emergency_relationship":    {TargetPersonal, "emergency_relationship", KindString},
	"emergency_primary_phone":   {TargetPersonal, "emergency_primary_phone", KindString},
	"emergency_alternate_phone": {TargetPersonal, "emergency_alternate_phone", KindString},
	"emergency_address":         {TargetPersonal, "emergency_address", KindString},

	// bank_details
	"account_number":      {TargetBank, "account_number", KindString},
	"account_holder_name": {TargetBank, "account_holder_name", KindString},
	"ifsc_code":           {TargetBank, "ifsc_code", KindString},
	"bank_name":           {TargetBank, "bank_name", KindString},
	"branch":              {TargetBank, "branch", KindString},
	"account_type":        {TargetBank, "account_type", KindString},
	"pan_number":          {TargetBank, "pan_number", KindString},
	"aadhaar_number":      {TargetBank, "aadhaar_number", KindString},

	// work_experiences
	"experience_designation": {TargetExperience, "designation", KindString},
	"company_name":           {TargetExperience, "company_name", KindString},
	"start_date":             {TargetExperience, "start_date", KindDate},
	"end_date":               {TargetExperience, "end_date", KindDate},
	"description":            {TargetExperience, "description", KindString},

	// assets
	"serial_number": {TargetAsset, "serial_number", KindString},
	"asset_name":    {TargetAsset, "asset_name", KindString},
	"asset_type":    {TargetAsset, "asset_type", KindString},
	"condition":     {TargetAsset, "condition", KindString},
	"purchase_date": {TargetAsset, "purchase_date", KindDate},
	"value":         {TargetAsset, "value", KindDecimal},

	// documents
	"file_name":   {TargetDocument, "file_name", KindString},
	"category":    {TargetDocument, "category", KindString},
	"upload_date": {TargetDocument, "upload_date", KindDate},
}

// encryptedBankColumns are stored through the encryption service into a
// _enc twin column alongside the plain column.
var encryptedBankColumns = map[string]bool{
	"account_number": true,
	"pan_number":     true,
	"aadhaar_number": true,
}

func LookupField(name string) (FieldSpec, bool) {
	spec, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	return spec, ok
}

func AllowedFields() []string {
	fields := make([]string, 0, len(catalog))
	for name := range catalog {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// ParseValue coerces a raw request value to the field's declared type. Dates
// are ISO-8601 calendar dates; int and decimal parse from their string form.
func ParseValue(spec FieldSpec, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch spec.Kind {
	case KindString:
		return raw, nil
	case KindDate:
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, &CoercionError{Column: spec.Column, Value: raw, Kind: spec.Kind}
		}
		return parsed, nil
	case KindInt:
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &CoercionError{Column: spec.Column, Value: raw, Kind: spec.Kind}
		}
		return parsed, nil
	case KindDecimal:
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &CoercionError{Column: spec.Column, Value: raw, Kind: spec.Kind}
		}
		return parsed, nil
	}
	return nil, &CoercionError{Column: spec.Column, Value: raw, Kind: spec.Kind}
}
