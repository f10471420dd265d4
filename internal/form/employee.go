package form

import (
	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/validation"
)

// EmployeeValues are the editable fields of the employee form
type EmployeeValues struct {
	Name               string `json:"name"`
	LastName           string `json:"lastName"`
	Phone              string `json:"phone"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	PermissionStock    bool   `json:"permissionStock"`
	PermissionProducts bool   `json:"permissionProducts"`
	PermissionSales    bool   `json:"permissionSales"`
	PermissionCustomer bool   `json:"permissionCustomer"`
}

var employeeRules = []validation.Rule{
	{Field: "email", Kind: validation.Email},
	{Field: "name", Kind: validation.Required},
	{Field: "role", Kind: validation.Selection},
	{Field: "lastName", Kind: validation.Required},
	{Field: "username", Kind: validation.Trimmed},
}

// Record returns the fields checked by the validator
func (v EmployeeValues) Record() validation.Record {
	return validation.Record{
		"name":               v.Name,
		"lastName":           v.LastName,
		"phone":              v.Phone,
		"username":           v.Username,
		"email":              v.Email,
		"role":               v.Role,
		"permissionStock":    v.PermissionStock,
		"permissionProducts": v.PermissionProducts,
		"permissionSales":    v.PermissionSales,
		"permissionCustomer": v.PermissionCustomer,
	}
}

// EmployeeForm is the employee create/edit form
type EmployeeForm struct {
	*State[EmployeeValues]
	existingID string
}

// NewEmployeeForm creates an empty form for a new employee
func NewEmployeeForm() *EmployeeForm {
	return &EmployeeForm{State: NewState(EmployeeValues{})}
}

// EditEmployeeForm creates a form seeded from an existing employee
func EditEmployeeForm(existing domain.EmployeeRecord) *EmployeeForm {
	f := NewEmployeeForm()
	f.existingID = existing.ID
	f.Seed(EmployeeValues{
		Name:               existing.Name,
		LastName:           existing.LastName,
		Phone:              existing.Phone,
		Username:           existing.Username,
		Email:              existing.Email,
		Role:               string(existing.Role),
		PermissionStock:    existing.Permissions.Stock,
		PermissionProducts: existing.Permissions.Products,
		PermissionSales:    existing.Permissions.Sales,
		PermissionCustomer: existing.Permissions.Customer,
	})
	return f
}

// ExistingID is the id of the employee being edited, empty for creation
func (f *EmployeeForm) ExistingID() string {
	return f.existingID
}

// Validate checks the current values
func (f *EmployeeForm) Validate() validation.Result {
	return validation.Validate(f.Values().Record(), employeeRules)
}

// ToRecord builds the record to persist from the current values
func (f *EmployeeForm) ToRecord() domain.EmployeeRecord {
	v := f.Values()
	return domain.EmployeeRecord{
		ID:       f.existingID,
		Name:     v.Name,
		LastName: v.LastName,
		Phone:    v.Phone,
		Username: v.Username,
		Email:    v.Email,
		Role:     domain.Role(v.Role),
		Permissions: domain.Permissions{
			Stock:    v.PermissionStock,
			Products: v.PermissionProducts,
			Sales:    v.PermissionSales,
			Customer: v.PermissionCustomer,
		},
	}
}

// RoleOptions lists the selectable roles
func RoleOptions() []domain.Option {
	return append([]domain.Option(nil), domain.RoleOptions...)
}
