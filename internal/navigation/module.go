package navigation

import "commandcentre/internal/domain"

// Module is an entry in the application's navigation.
type Module struct {
	Key           string             `json:"key"`
	Title         string             `json:"title"`
	Path          string             `json:"path"`
	RequiredRoles []domain.Role      `json:"requiredRoles"`
	Department    *domain.Department `json:"department"`
}

func leadership() []domain.Role { return []domain.Role{domain.RoleAdmin, domain.RoleExecutive} }
func managers() []domain.Role { return append(leadership(), domain.RoleManager) }
func everyone() []domain.Role { return append(managers(), domain.RoleStaff) }

// DefaultModules returns the Command Centre navigation in display order.
func DefaultModules() []Module {
	return []Module{
		{Key: "dashboard", Title: "Dashboard", Path: "/dashboard", RequiredRoles: leadership()},
		{Key: "finance", Title: "Finance", Path: "/finance", RequiredRoles: everyone(), Department: Dept(domain.DeptFinance)},
		{Key: "bank-accounts", Title: "Bank Accounts", Path: "/finance/bank-accounts", RequiredRoles: managers(), Department: Dept(domain.DeptFinance)},
		{Key: "transactions", Title: "Transactions", Path: "/finance/transactions", RequiredRoles: everyone(), Department: Dept(domain.DeptFinance)},
		{Key: "hr", Title: "Human Resources", Path: "/hr", RequiredRoles: everyone(), Department: Dept(domain.DeptHR)},
		{Key: "payroll", Title: "Payroll", Path: "/hr/payroll", RequiredRoles: managers(), Department: Dept(domain.DeptHR)},
		{Key: "sales", Title: "Sales", Path: "/sales", RequiredRoles: everyone(), Department: Dept(domain.DeptSales)},
		{Key: "customers", Title: "Customers", Path: "/sales/customers", RequiredRoles: everyone(), Department: Dept(domain.DeptSales)},
		{Key: "marketing", Title: "Marketing", Path: "/marketing", RequiredRoles: everyone(), Department: Dept(domain.DeptMarketing)},
		{Key: "operations", Title: "Operations", Path: "/operations", RequiredRoles: everyone(), Department: Dept(domain.DeptOperations)},
		{Key: "email", Title: "Email", Path: "/email", RequiredRoles: everyone()},
		{Key: "reports", Title: "Reports", Path: "/reports", RequiredRoles: leadership()},
		{Key: "users", Title: "Users", Path: "/admin/users", RequiredRoles: []domain.Role{domain.RoleAdmin}},
		{Key: "settings", Title: "Settings", Path: "/settings", RequiredRoles: []domain.Role{domain.RoleAdmin}},
	}
}

// Find returns the module with the given key.
func Find(modules []Module, key string) (Module, bool) {
	for _, m := range modules {
		if m.Key == key {
			return m, true
		}
	}
	return Module{}, false
}
