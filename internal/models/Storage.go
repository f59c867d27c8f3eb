package models

import "github.com/shopspring/decimal"

const StorageVersion = 1

type TokenLedger struct {
	Balances   map[Address]decimal.Decimal             `json:"balances"`
	Allowances map[Address]map[Address]decimal.Decimal `json:"allowances"`
}

type CollectionLedger struct {
	Owners    map[uint64]Address          `json:"owners"`
	Operators map[Address]map[Address]bool `json:"operators"`
}

// BankState is the exported state of the in-memory asset bank.
type BankState struct {
	Tokens      map[Address]*TokenLedger      `json:"tokens"`
	Collections map[Address]*CollectionLedger `json:"collections"`
	Native      map[Address]decimal.Decimal   `json:"native"`
}

// Storage is the persistence envelope holding a consistent cut of the whole engine.
type Storage struct {
	Version       int             `json:"version"`
	Plans         []*Plan         `json:"plans"`
	Subscriptions []*Subscription `json:"subscriptions"`
	Revision      uint64          `json:"revision"`
	Grants        []RoleGrant     `json:"grants"`
	Escrow        []*EscrowRecord `json:"escrow"`
	Bank          *BankState      `json:"bank,omitempty"`
}
