package dto

import "github.com/Diego-SJ/PaleteriaChuchin/internal/domain"

// EmployeeRequest is the body of an employee submission.
// JSON names follow the stored document fields.
type EmployeeRequest struct {
	Name               string `json:"name" example:"Ana"`
	LastName           string `json:"lName" example:"Lopez"`
	Phone              string `json:"phone" example:"4431234567"`
	Username           string `json:"user" example:"ana1"`
	Email              string `json:"email" example:"ana@chuchin.mx"`
	Role               string `json:"rol" example:"Ventas"`
	PermissionStock    bool   `json:"permissionStock"`
	PermissionProducts bool   `json:"permissionProducts"`
	PermissionSales    bool   `json:"permissionSales"`
	PermissionCustomer bool   `json:"permissionCustomer"`
}

// EmployeeResponse is a stored employee
type EmployeeResponse struct {
	ID          string             `json:"id" example:"ana@chuchin.mx"`
	Name        string             `json:"name" example:"Ana"`
	LastName    string             `json:"lName" example:"Lopez"`
	Phone       string             `json:"phone"`
	Username    string             `json:"user" example:"ana1"`
	Email       string             `json:"email" example:"ana@chuchin.mx"`
	Role        string             `json:"rol" example:"Ventas"`
	Permissions domain.Permissions `json:"permissions"`
	UserID      string             `json:"userId,omitempty"`
}

// NewEmployeeResponse converts a record
func NewEmployeeResponse(e domain.EmployeeRecord) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		LastName:    e.LastName,
		Phone:       e.Phone,
		Username:    e.Username,
		Email:       e.Email,
		Role:        string(e.Role),
		Permissions: e.Permissions,
		UserID:      e.UserID,
	}
}
