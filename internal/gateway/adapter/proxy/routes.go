package proxy

import (
	"net/http"
	"strings"

	"commandcentre/internal/access"
	"commandcentre/internal/domain"
)

// route maps an /api resource prefix on the CRUD backend to the requirements
// for each kind of request.
type route struct {
	prefix string
	read   access.Requirement
	write  access.Requirement
	// remove and approve fall back to write when unset.
	remove  access.Requirement
	approve access.Requirement
}

// defaultRoutes is the resource table proxied to the CRUD backend.
func defaultRoutes() []route {
	return []route{
		{
			prefix:  "/api/bank-accounts",
			read:    access.Require(domain.PermBankRead),
			write:   access.RequireAny(domain.PermBankCreate, domain.PermBankUpdate),
			remove:  access.Require(domain.PermBankDelete),
			approve: access.Require(domain.PermBankSync),
		},
		{
			prefix:  "/api/transactions",
			read:    access.Require(domain.PermTransactionRead),
			write:   access.RequireAny(domain.PermTransactionCreate, domain.PermTransactionUpdate),
			remove:  access.Require(domain.PermTransactionDelete),
			approve: access.Require(domain.PermTransactionApprove),
		},
		{
			prefix:  "/api/budgets",
			read:    access.Require(domain.PermBudgetRead),
			write:   access.Require(domain.PermBudgetWrite),
			approve: access.RequireAll(domain.PermBudgetApprove, domain.PermFinancialApprove),
		},
		{
			prefix:  "/api/invoices",
			read:    access.Require(domain.PermInvoiceRead),
			write:   access.Require(domain.PermInvoiceWrite),
			approve: access.Require(domain.PermInvoiceApprove),
		},
		{
			prefix: "/api/employees",
			read:   access.Require(domain.PermEmployeeRead),
			write:  access.RequireAny(domain.PermEmployeeCreate, domain.PermEmployeeUpdate),
			remove: access.Require(domain.PermEmployeeDelete),
		},
		{
			prefix:  "/api/payroll",
			read:    access.Require(domain.PermPayrollRead),
			write:   access.Require(domain.PermPayrollWrite),
			approve: access.RequireAll(domain.PermPayrollApprove, domain.PermFinancialApprove),
		},
		{
			prefix:  "/api/leave",
			read:    access.Require(domain.PermLeaveRead),
			write:   access.Require(domain.PermLeaveRequest),
			approve: access.Require(domain.PermLeaveApprove),
		},
		{
			prefix: "/api/customers",
			read:   access.Require(domain.PermCustomerRead),
			write:  access.RequireAny(domain.PermCustomerCreate, domain.PermCustomerUpdate),
			remove: access.Require(domain.PermCustomerDelete),
		},
		{
			prefix:  "/api/deals",
			read:    access.Require(domain.PermDealRead),
			write:   access.Require(domain.PermDealWrite),
			approve: access.Require(domain.PermDealApprove),
		},
		{
			prefix:  "/api/reports",
			read:    access.RequireAny(domain.PermReportRead, domain.PermAnalyticsRead),
			write:   access.Require(domain.PermReportCreate),
			approve: access.Require(domain.PermReportExport),
		},
		{
			prefix: "/api/email",
			read:   access.Require(domain.PermEmailRead),
			write:  access.Require(domain.PermEmailSend),
			remove: access.Require(domain.PermEmailDelete),
		},
		{
			prefix: "/api/users",
			read:   access.Require(domain.PermUserRead),
			write:  access.RequireAny(domain.PermUserCreate, domain.PermUserUpdate, domain.PermRoleAssign, domain.PermDeptAssign),
			remove: access.Require(domain.PermUserDelete),
		},
		{
			prefix: "/api/settings",
			read:   access.Require(domain.PermSettingsRead),
			write:  access.Require(domain.PermSettingsWrite),
		},
		{
			prefix: "/api/audit",
			read:   access.Require(domain.PermAuditRead),
			write:  access.AdminOnly(),
		},
	}
}

// requirementFor picks the requirement for a request method and path.
// Write requests whose path ends in /approve use the approve requirement.
func (rt route) requirementFor(method, path string) access.Requirement {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return rt.read
	case http.MethodDelete:
		if rt.remove.Quantifier != "" {
			return rt.remove
		}
		return rt.write
	}
	if rt.approve.Quantifier != "" && strings.HasSuffix(path, "/approve") {
		return rt.approve
	}
	return rt.write
}
