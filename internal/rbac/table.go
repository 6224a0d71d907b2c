package rbac

import "commandcentre/internal/domain"

// defaultTable is the business policy for every role except admin.
func defaultTable() map[domain.Role][]domain.Permission {
	return map[domain.Role][]domain.Permission{
		domain.RoleExecutive: {
			domain.PermUserRead, domain.PermRoleRead, domain.PermDeptRead,

			domain.PermFinancialRead, domain.PermFinancialWrite, domain.PermFinancialApprove, domain.PermFinancialExport,
			domain.PermBankRead, domain.PermBankSync,
			domain.PermTransactionRead, domain.PermTransactionApprove,
			domain.PermBudgetRead, domain.PermBudgetWrite, domain.PermBudgetApprove,
			domain.PermInvoiceRead, domain.PermInvoiceApprove,

			domain.PermHRRead,
			domain.PermEmployeeRead,
			domain.PermPayrollRead, domain.PermPayrollApprove,
			domain.PermLeaveRead, domain.PermLeaveApprove,

			domain.PermSalesRead,
			domain.PermCustomerRead,
			domain.PermDealRead, domain.PermDealApprove,

			domain.PermReportRead, domain.PermReportCreate, domain.PermReportExport,
			domain.PermAnalyticsRead,
			domain.PermEmailRead, domain.PermEmailSend, domain.PermEmailDelete,
			domain.PermSettingsRead,
			domain.PermAuditRead,
		},
		domain.RoleManager: {
			domain.PermUserRead, domain.PermDeptRead,

			domain.PermFinancialRead, domain.PermFinancialWrite,
			domain.PermBankRead,
			domain.PermTransactionRead, domain.PermTransactionCreate, domain.PermTransactionUpdate,
			domain.PermBudgetRead, domain.PermBudgetWrite,
			domain.PermInvoiceRead, domain.PermInvoiceWrite,

			domain.PermHRRead, domain.PermHRWrite,
			domain.PermEmployeeRead, domain.PermEmployeeUpdate,
			domain.PermPayrollRead,
			domain.PermLeaveRead, domain.PermLeaveRequest, domain.PermLeaveApprove,

			domain.PermSalesRead, domain.PermSalesWrite,
			domain.PermCustomerRead, domain.PermCustomerCreate, domain.PermCustomerUpdate,
			domain.PermDealRead, domain.PermDealWrite,

			domain.PermReportRead, domain.PermReportCreate,
			domain.PermAnalyticsRead,
			domain.PermEmailRead, domain.PermEmailSend,
			domain.PermSettingsRead,
		},
		domain.RoleStaff: {
			domain.PermFinancialRead,
			domain.PermTransactionRead, domain.PermTransactionCreate,
			domain.PermInvoiceRead,

			domain.PermEmployeeRead,
			domain.PermLeaveRead, domain.PermLeaveRequest,

			domain.PermSalesRead,
			domain.PermCustomerRead,
			domain.PermDealRead,

			domain.PermReportRead,
			domain.PermEmailRead, domain.PermEmailSend,
		},
	}
}
