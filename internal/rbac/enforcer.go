package rbac

import (
	"dataguard-hris/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// The model lives inline because the policy set is closed: four roles, a
// fixed permission matrix, no runtime policy administration.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type permission struct {
	role     domain.Role
	resource string
	action   string
}

// everyRole marks permissions shared by all four roles.
const everyRole = domain.Role("staff")

var permissions = []permission{
	{everyRole, "leave", "create"},
	{everyRole, "leave", "read"},
	{everyRole, "balance", "read"},
	{everyRole, "profile", "read"},
	{everyRole, "profile", "request_correction"},
	{everyRole, "onboarding", "read"},
	{everyRole, "onboarding", "update_own"},
	{everyRole, "performance", "read"},
	{everyRole, "performance", "manage_own"},

	{domain.RoleLineManager, "leave", "manage_team"},

	{domain.RoleHRAdmin, "leave", "approve"},
	{domain.RoleHRAdmin, "balance", "read_all"},
	{domain.RoleHRAdmin, "staff", "manage"},
	{domain.RoleHRAdmin, "profile", "review_correction"},
	{domain.RoleHRAdmin, "onboarding", "manage"},
	{domain.RoleHRAdmin, "performance", "manage_cycles"},
	{domain.RoleHRAdmin, "audit", "read"},
}

// NewEnforcer builds the casbin enforcer with the static policy seeded.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, role := range []domain.Role{
		domain.RoleHRAdmin,
		domain.RoleLineManager,
		domain.RoleCoreStaff,
		domain.RoleSupportStaff,
	} {
		if _, err := e.AddGroupingPolicy(role.String(), everyRole.String()); err != nil {
			return nil, err
		}
	}

	for _, p := range permissions {
		if _, err := e.AddPolicy(p.role.String(), p.resource, p.action); err != nil {
			return nil, err
		}
	}

	return e, nil
}
