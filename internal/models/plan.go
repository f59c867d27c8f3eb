package models

import "github.com/shopspring/decimal"

// Limits bound what a subscriber may do. A zero value means the limit is not enforced.
type Limits struct {
	SuccessorsMaxCount   uint64          `json:"successors_max_count"`
	InheritancesMaxCount uint64          `json:"inheritances_max_count"`
	TokensMaxCount       uint64          `json:"tokens_max_count"`
	StableMaxSum         decimal.Decimal `json:"stable_max_sum"`
	MaxWalletsCount      uint64          `json:"max_wallets_count"`
}

type Plan struct {
	ID       uint64          `json:"id"`
	Title    string          `json:"title"`
	PayToken Address         `json:"pay_token"`
	Price    decimal.Decimal `json:"price"`
	Limits   Limits          `json:"limits"`
}

// TotalPrice is the charge for a subscription covering walletsCount wallets.
func (p *Plan) TotalPrice(walletsCount uint64) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromUint64(walletsCount))
}
