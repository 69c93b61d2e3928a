package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management (ADMIN only)
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Supplier management
	{Code: "supplier:view", Name: "View Supplier"},
	{Code: "supplier:create", Name: "Create Supplier"},
	{Code: "supplier:update", Name: "Update Supplier"},
	{Code: "supplier:delete", Name: "Delete Supplier"},
	// Stock ledger
	{Code: "stock:view", Name: "View Stock History"},
	{Code: "stock:adjust", Name: "Adjust Stock"},
	// Reorder point configuration and alerts
	{Code: "reorder:view", Name: "View Reorder Alerts"},
	{Code: "reorder:configure", Name: "Configure Reorder Points"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
	// CSV import/export
	{Code: "data:import", Name: "Import Products"},
	{Code: "data:export", Name: "Export Products"},
}

// EmployeePrivileges is the basic operations subset for the EMPLOYEE role.
var EmployeePrivileges = []string{
	"product:view",
	"supplier:view",
	"stock:view",
	"stock:adjust",
	"reorder:view",
}
