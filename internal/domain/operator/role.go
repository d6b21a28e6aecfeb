package operator

import "venue-reservation/internal/pkg/errs"

var ErrInvalidRole = errs.Wrap(errs.ErrAuth, "invalid role")

// Role is carried in operator tokens issued by the identity service.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r ranks at or above min.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleRank[r]
	want, wantOK := roleRank[min]
	return ok && wantOK && have >= want
}

// CanDecide is the approver capability: operators and admins may approve, reject
// and ask for modifications.
func (r Role) CanDecide() bool {
	return r.AtLeast(RoleOperator)
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
