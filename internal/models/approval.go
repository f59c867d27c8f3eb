package models

import "github.com/shopspring/decimal"

type ApprovalState uint8

const (
	ApprovalNone ApprovalState = iota
	ApprovalPartial
	ApprovalFull
)

func (s ApprovalState) String() string {
	switch s {
	case ApprovalPartial:
		return "partial"
	case ApprovalFull:
		return "full"
	default:
		return "none"
	}
}

// ClassifyApproval derives the approval state of a balance given the allowance granted on it.
func ClassifyApproval(balance, allowance decimal.Decimal) ApprovalState {
	switch {
	case allowance.Sign() <= 0:
		return ApprovalNone
	case balance.Sign() > 0 && allowance.GreaterThanOrEqual(balance):
		return ApprovalFull
	case allowance.LessThan(balance):
		return ApprovalPartial
	default:
		return ApprovalNone
	}
}

type ApprovalInfo struct {
	Token     Address         `json:"token"`
	Balance   decimal.Decimal `json:"balance"`
	Allowance decimal.Decimal `json:"allowance"`
	State     ApprovalState   `json:"state"`
}
