package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/KanoeWallet/Kanoe/internal/models"
)

type AccessControlInterface interface {
	Grant(caller, grantee models.Address, role models.Role) error
	Revoke(caller, grantee models.Address, role models.Role) error
	Has(addr models.Address, role models.Role) bool
	Require(addr models.Address, role models.Role) error
	Grants() []models.RoleGrant
	Restore(grants []models.RoleGrant)
}

// AccessControl keeps role grants as an explicit map. Only admins change grants.
type AccessControl struct {
	mu    sync.RWMutex
	roles map[models.Role]map[models.Address]struct{}
}

func NewAccessControl() *AccessControl {
	return &AccessControl{roles: make(map[models.Role]map[models.Address]struct{})}
}

// Assign grants a role without an authorization check. Used at bootstrap.
func (ac *AccessControl) Assign(grantee models.Address, role models.Role) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.assign(grantee, role)
}

func (ac *AccessControl) assign(grantee models.Address, role models.Role) {
	holders, ok := ac.roles[role]
	if !ok {
		holders = make(map[models.Address]struct{})
		ac.roles[role] = holders
	}
	holders[grantee] = struct{}{}
}

func (ac *AccessControl) Grant(caller, grantee models.Address, role models.Role) error {
	if !role.Valid() || grantee.IsZero() {
		return fmt.Errorf("%w: role %q for %q", models.ErrInvalidArgument, role, grantee)
	}
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if !ac.has(caller, models.RoleAdmin) {
		return models.ErrNotAuthorized
	}
	ac.assign(grantee, role)
	return nil
}

func (ac *AccessControl) Revoke(caller, grantee models.Address, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: role %q", models.ErrInvalidArgument, role)
	}
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if !ac.has(caller, models.RoleAdmin) {
		return models.ErrNotAuthorized
	}
	delete(ac.roles[role], grantee)
	return nil
}

func (ac *AccessControl) Has(addr models.Address, role models.Role) bool {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	return ac.has(addr, role)
}

func (ac *AccessControl) has(addr models.Address, role models.Role) bool {
	_, ok := ac.roles[role][addr]
	return ok
}

func (ac *AccessControl) Require(addr models.Address, role models.Role) error {
	if !ac.Has(addr, role) {
		return fmt.Errorf("%w: %s lacks role %s", models.ErrNotAuthorized, addr, role)
	}
	return nil
}

// Grants lists every grant sorted by role then grantee.
func (ac *AccessControl) Grants() []models.RoleGrant {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	out := make([]models.RoleGrant, 0)
	for role, holders := range ac.roles {
		for addr := range holders {
			out = append(out, models.RoleGrant{Role: role, Grantee: addr})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].Grantee < out[j].Grantee
	})
	return out
}

// Restore replaces all grants.
func (ac *AccessControl) Restore(grants []models.RoleGrant) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.roles = make(map[models.Role]map[models.Address]struct{})
	for _, g := range grants {
		if g.Role.Valid() {
			ac.assign(g.Grantee, g.Role)
		}
	}
}
