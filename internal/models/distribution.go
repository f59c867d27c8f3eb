package models

import "github.com/shopspring/decimal"

type NftCollectionTransfer struct {
	Collection Address   `json:"collection"`
	IDs        []uint64  `json:"ids"`
	Successors []Address `json:"successors"`
}

type NftCollectionInfo struct {
	Collection Address `json:"collection"`
	IsApproved bool    `json:"is_approved"`
}

type Share struct {
	Successor Address         `json:"successor"`
	Amount    decimal.Decimal `json:"amount"`
}

type TokenPayout struct {
	Token  Address         `json:"token"`
	Amount decimal.Decimal `json:"amount"`
	Shares []Share         `json:"shares"`
}

// DistributionReport is the receipt of a fungible estate distribution.
type DistributionReport struct {
	ID          string          `json:"id"`
	Owner       Address         `json:"owner"`
	Limit       decimal.Decimal `json:"limit"`
	Distributed decimal.Decimal `json:"distributed"`
	Payouts     []TokenPayout   `json:"payouts"`
}

type NftTransfer struct {
	Collection Address `json:"collection"`
	TokenID    uint64  `json:"token_id"`
	Successor  Address `json:"successor"`
}

type NftDistributionReport struct {
	ID          string        `json:"id"`
	Owner       Address       `json:"owner"`
	Transferred []NftTransfer `json:"transferred"`
	Skipped     []Address     `json:"skipped"`
}
