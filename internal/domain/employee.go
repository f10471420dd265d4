package domain

import "fmt"

// Role is the job an employee performs
type Role string

const (
	RoleSales              Role = "Ventas"
	RoleProduction         Role = "Producción"
	RoleSalesAndProduction Role = "Ventas y producción"
)

// RoleOptions lists the roles offered by the employee form
var RoleOptions = []Option{
	{Key: "sales", Value: string(RoleSales), Text: string(RoleSales)},
	{Key: "production", Value: string(RoleProduction), Text: string(RoleProduction)},
	{Key: "both", Value: string(RoleSalesAndProduction), Text: string(RoleSalesAndProduction)},
}

// ParseRole accepts the stored role text
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSales, RoleProduction, RoleSalesAndProduction:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

// Permissions gates the admin views an employee may open
type Permissions struct {
	Stock    bool `json:"stock"`
	Products bool `json:"products"`
	Sales    bool `json:"sales"`
	Customer bool `json:"customer"`
}

// Permission names a single flag of Permissions
type Permission string

const (
	PermissionStock    Permission = "stock"
	PermissionProducts Permission = "products"
	PermissionSales    Permission = "sales"
	PermissionCustomer Permission = "customer"
)

// Allows reports whether the named flag is set
func (p Permissions) Allows(perm Permission) bool {
	switch perm {
	case PermissionStock:
		return p.Stock
	case PermissionProducts:
		return p.Products
	case PermissionSales:
		return p.Sales
	case PermissionCustomer:
		return p.Customer
	default:
		return false
	}
}

// EmployeeRecord is a persisted employee. Email is the natural key.
type EmployeeRecord struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name"`
	LastName    string      `json:"lastName"`
	Phone       string      `json:"phone"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
	UserID      string      `json:"userId"`
}

// Document returns the field map written to the document store
func (e EmployeeRecord) Document() map[string]any {
	return map[string]any{
		"name":               e.Name,
		"lName":              e.LastName,
		"phone":              e.Phone,
		"user":               e.Username,
		"email":              e.Email,
		"rol":                string(e.Role),
		"permissionStock":    e.Permissions.Stock,
		"permissionProducts": e.Permissions.Products,
		"permissionSales":    e.Permissions.Sales,
		"permissionCustomer": e.Permissions.Customer,
		"userId":             e.UserID,
	}
}

// UpdateDocument is Document without userId, which edits never touch
func (e EmployeeRecord) UpdateDocument() map[string]any {
	doc := e.Document()
	delete(doc, "userId")
	return doc
}

// EmployeeFromDocument rebuilds an employee from a stored field map
func EmployeeFromDocument(id string, data map[string]any) EmployeeRecord {
	return EmployeeRecord{
		ID:          id,
		Name:        stringField(data, "name"),
		LastName:    stringField(data, "lName"),
		Phone:       stringField(data, "phone"),
		Username:    stringField(data, "user"),
		Email:       stringField(data, "email"),
		Role:        Role(stringField(data, "rol")),
		Permissions: PermissionsFromDocument(data),
		UserID:      stringField(data, "userId"),
	}
}

// PermissionsFromDocument reads the four permission flags of an employee document
func PermissionsFromDocument(data map[string]any) Permissions {
	return Permissions{
		Stock:    boolField(data, "permissionStock"),
		Products: boolField(data, "permissionProducts"),
		Sales:    boolField(data, "permissionSales"),
		Customer: boolField(data, "permissionCustomer"),
	}
}

func stringField(data map[string]any, name string) string {
	if s, ok := data[name].(string); ok {
		return s
	}
	return ""
}

func boolField(data map[string]any, name string) bool {
	if b, ok := data[name].(bool); ok {
		return b
	}
	return false
}
