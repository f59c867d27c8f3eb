package models

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyApproval(t *testing.T) {
	tests := []struct {
		name      string
		balance   int64
		allowance int64
		expected  ApprovalState
	}{
		{"allowance above balance", 100, 1000, ApprovalFull},
		{"allowance equals balance", 100, 100, ApprovalFull},
		{"allowance below balance", 100, 80, ApprovalPartial},
		{"no allowance", 100, 0, ApprovalNone},
		{"empty wallet no allowance", 0, 0, ApprovalNone},
		{"empty wallet with allowance", 0, 50, ApprovalNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyApproval(decimal.NewFromInt(tt.balance), decimal.NewFromInt(tt.allowance))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestApprovalState_NumericValues(t *testing.T) {
	assert.Equal(t, uint8(0), uint8(ApprovalNone))
	assert.Equal(t, uint8(1), uint8(ApprovalPartial))
	assert.Equal(t, uint8(2), uint8(ApprovalFull))
	assert.Equal(t, "partial", ApprovalPartial.String())
}

func TestSubscription_IsActive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s := Subscription{PlanID: 1, EndTime: now.Add(time.Hour)}
	assert.True(t, s.IsActive(now))

	s.EndTime = now
	assert.False(t, s.IsActive(now))

	s = Subscription{EndTime: now.Add(time.Hour)}
	assert.False(t, s.IsActive(now))
}

func TestSubscription_MethodsOnReturnedValue(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lookup := func() Subscription {
		return Subscription{PlanID: 1, EndTime: now.Add(time.Hour), Revision: 3}
	}

	assert.True(t, lookup().Exists())
	assert.True(t, lookup().IsActive(now))
	assert.False(t, Subscription{}.Exists())
}

func TestPlan_TotalPrice(t *testing.T) {
	p := Plan{Price: decimal.NewFromInt(15000000)}
	assert.True(t, p.TotalPrice(2).Equal(decimal.NewFromInt(30000000)))
}

func TestPlan_TotalPriceBeyondInt64(t *testing.T) {
	p := Plan{Price: decimal.NewFromInt(2)}
	got := p.TotalPrice(math.MaxUint64)

	assert.Equal(t, 1, got.Sign())
	assert.Equal(t, "36893488147419103230", got.String())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleLedgerWriter.Valid())
	assert.True(t, RoleServer.Valid())
	assert.False(t, Role("root").Valid())
}
