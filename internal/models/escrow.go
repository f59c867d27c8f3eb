package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EscrowRecord struct {
	ID        uint64          `json:"id"`
	Payer     Address         `json:"payer"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}
