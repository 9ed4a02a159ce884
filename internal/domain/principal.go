package domain

// Role is the permission level of a principal.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// Principal identifies the caller of a ledger operation. It is threaded
// explicitly through every public operation; the core keeps no ambient
// session state.
type Principal struct {
	ID   string
	Role Role
}

// CanApprove reports whether the principal may sign off transactions,
// replenishments and account lifecycle changes.
func (p Principal) CanApprove() bool {
	return p.Role == RoleAdmin || p.Role == RoleManager
}

// SeesAllAccounts reports whether account listings are unscoped for this
// principal. Managers see accounts they issued, cashiers only their own.
func (p Principal) SeesAllAccounts() bool {
	return p.Role == RoleAdmin
}
