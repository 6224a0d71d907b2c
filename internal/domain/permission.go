package domain

import "strings"

// Permission is a capability identifier of the form "domain:action".
type Permission string

// User and role administration.
const (
	PermUserRead   Permission = "user:read"
	PermUserCreate Permission = "user:create"
	PermUserUpdate Permission = "user:update"
	PermUserDelete Permission = "user:delete"
	PermRoleRead   Permission = "role:read"
	PermRoleAssign Permission = "role:assign"
	PermDeptRead   Permission = "department:read"
	PermDeptAssign Permission = "department:assign"
)

// Finance.
const (
	PermFinancialRead    Permission = "financial:read"
	PermFinancialWrite   Permission = "financial:write"
	PermFinancialApprove Permission = "financial:approve"
	PermFinancialExport  Permission = "financial:export"

	PermBankRead   Permission = "bank:read"
	PermBankCreate Permission = "bank:create"
	PermBankUpdate Permission = "bank:update"
	PermBankDelete Permission = "bank:delete"
	PermBankSync   Permission = "bank:sync"

	PermTransactionRead    Permission = "transaction:read"
	PermTransactionCreate  Permission = "transaction:create"
	PermTransactionUpdate  Permission = "transaction:update"
	PermTransactionDelete  Permission = "transaction:delete"
	PermTransactionApprove Permission = "transaction:approve"

	PermBudgetRead    Permission = "budget:read"
	PermBudgetWrite   Permission = "budget:write"
	PermBudgetApprove Permission = "budget:approve"

	PermInvoiceRead    Permission = "invoice:read"
	PermInvoiceWrite   Permission = "invoice:write"
	PermInvoiceApprove Permission = "invoice:approve"
)

// Human resources.
const (
	PermHRRead  Permission = "hr:read"
	PermHRWrite Permission = "hr:write"

	PermEmployeeRead   Permission = "employee:read"
	PermEmployeeCreate Permission = "employee:create"
	PermEmployeeUpdate Permission = "employee:update"
	PermEmployeeDelete Permission = "employee:delete"

	PermPayrollRead    Permission = "payroll:read"
	PermPayrollWrite   Permission = "payroll:write"
	PermPayrollApprove Permission = "payroll:approve"

	PermLeaveRead    Permission = "leave:read"
	PermLeaveRequest Permission = "leave:request"
	PermLeaveApprove Permission = "leave:approve"
)

// Sales.
const (
	PermSalesRead  Permission = "sales:read"
	PermSalesWrite Permission = "sales:write"

	PermCustomerRead   Permission = "customer:read"
	PermCustomerCreate Permission = "customer:create"
	PermCustomerUpdate Permission = "customer:update"
	PermCustomerDelete Permission = "customer:delete"

	PermDealRead    Permission = "deal:read"
	PermDealWrite   Permission = "deal:write"
	PermDealApprove Permission = "deal:approve"
)

// Reporting, communication and administration.
const (
	PermReportRead   Permission = "report:read"
	PermReportCreate Permission = "report:create"
	PermReportExport Permission = "report:export"

	PermAnalyticsRead Permission = "analytics:read"

	PermEmailRead   Permission = "email:read"
	PermEmailSend   Permission = "email:send"
	PermEmailDelete Permission = "email:delete"

	PermSettingsRead  Permission = "settings:read"
	PermSettingsWrite Permission = "settings:write"

	PermAuditRead Permission = "audit:read"

	PermSystemConfig      Permission = "system:config"
	PermSystemMaintenance Permission = "system:maintenance"
)

// catalog lists every permission in declaration order.
var catalog = [...]Permission{
	PermUserRead, PermUserCreate, PermUserUpdate, PermUserDelete,
	PermRoleRead, PermRoleAssign, PermDeptRead, PermDeptAssign,

	PermFinancialRead, PermFinancialWrite, PermFinancialApprove, PermFinancialExport,
	PermBankRead, PermBankCreate, PermBankUpdate, PermBankDelete, PermBankSync,
	PermTransactionRead, PermTransactionCreate, PermTransactionUpdate, PermTransactionDelete, PermTransactionApprove,
	PermBudgetRead, PermBudgetWrite, PermBudgetApprove,
	PermInvoiceRead, PermInvoiceWrite, PermInvoiceApprove,

	PermHRRead, PermHRWrite,
	PermEmployeeRead, PermEmployeeCreate, PermEmployeeUpdate, PermEmployeeDelete,
	PermPayrollRead, PermPayrollWrite, PermPayrollApprove,
	PermLeaveRead, PermLeaveRequest, PermLeaveApprove,

	PermSalesRead, PermSalesWrite,
	PermCustomerRead, PermCustomerCreate, PermCustomerUpdate, PermCustomerDelete,
	PermDealRead, PermDealWrite, PermDealApprove,

	PermReportRead, PermReportCreate, PermReportExport,
	PermAnalyticsRead,
	PermEmailRead, PermEmailSend, PermEmailDelete,
	PermSettingsRead, PermSettingsWrite,
	PermAuditRead,
	PermSystemConfig, PermSystemMaintenance,
}

var catalogIndex = func() map[Permission]int {
	idx := make(map[Permission]int, len(catalog))
	for i, p := range catalog {
		idx[p] = i
	}
	return idx
}()

// AllPermissions returns the full permission catalog in declaration order.
// The returned slice is a copy.
func AllPermissions() []Permission {
	out := make([]Permission, len(catalog))
	copy(out, catalog[:])
	return out
}

// Valid reports whether p is a member of the catalog.
func (p Permission) Valid() bool {
	_, ok := catalogIndex[p]
	return ok
}

// Area returns the functional area of p (the part before the colon).
func (p Permission) Area() string {
	area, _, _ := strings.Cut(string(p), ":")
	return area
}

// Ordinal returns the catalog position of p, or -1 when p is not in the catalog.
func (p Permission) Ordinal() int {
	if i, ok := catalogIndex[p]; ok {
		return i
	}
	return -1
}
