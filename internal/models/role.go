package models

type Role string

const (
	// RoleAdmin manages the plan catalog and ledger write grants.
	RoleAdmin Role = "admin"
	// RoleLedgerWriter may write subscriptions to the ledger.
	RoleLedgerWriter Role = "ledger_writer"
	// RoleServer triggers renewals and distributions.
	RoleServer Role = "server"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLedgerWriter, RoleServer:
		return true
	}
	return false
}

type RoleGrant struct {
	Role    Role    `json:"role"`
	Grantee Address `json:"grantee"`
}
