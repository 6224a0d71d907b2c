package access_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"commandcentre/internal/access"
	"commandcentre/internal/domain"
)

func TestRequirementString(t *testing.T) {
	tests := []struct {
		req  access.Requirement
		want string
	}{
		{access.Require(domain.PermFinancialApprove), "financial:approve"},
		{access.RequireAny(domain.PermBankRead, domain.PermBankSync), "any of: bank:read, bank:sync"},
		{access.RequireAll(domain.PermUserRead, domain.PermRoleAssign), "all of: user:read, role:assign"},
		{access.AdminOnly(), "role: admin"},
		{access.AdminOrExecutive(), "any role of: admin, executive"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.req.String())
	}
}

func TestParseQuantifier(t *testing.T) {
	for _, s := range []string{"one", "any", "all"} {
		q, ok := access.ParseQuantifier(s)
		assert.True(t, ok, s)
		assert.Equal(t, access.Quantifier(s), q)
	}
	for _, s := range []string{"", "ALL", "role", "some"} {
		_, ok := access.ParseQuantifier(s)
		assert.False(t, ok, s)
	}
}

func TestRequirementValidate(t *testing.T) {
	assert.NoError(t, access.RequireAll(domain.PermUserRead, domain.PermEmailSend).Validate())
	assert.NoError(t, access.AdminOnly().Validate())

	err := access.RequireAny(domain.PermUserRead, "user:impersonate").Validate()
	assert.ErrorIs(t, err, domain.ErrUnknownPermission)

	var unknown *access.UnknownPermissionError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, domain.Permission("user:impersonate"), unknown.Permission)
}

func TestRequirementValidateRejectsMalformedOne(t *testing.T) {
	for _, req := range []access.Requirement{
		{Quantifier: access.One},
		{Quantifier: access.One, Permissions: []domain.Permission{domain.PermUserRead, domain.PermUserCreate}},
	} {
		assert.ErrorIs(t, req.Validate(), access.ErrMalformedRequirement, req.String())
	}

	assert.NoError(t, access.Require(domain.PermUserRead).Validate())
	// Empty any/all are well formed: any is unsatisfiable, all admits everyone.
	assert.NoError(t, access.RequireAny().Validate())
	assert.NoError(t, access.Authenticated().Validate())
}
