package services

import (
	"testing"
	"time"

	"github.com/KanoeWallet/Kanoe/internal/assets"
	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	admin         = models.MustAddress("0x00000000000000000000000000000000000000ad")
	server        = models.MustAddress("0x000000000000000000000000000000000000005e")
	controller    = models.MustAddress("0x00000000000000000000000000000000000000c0")
	distributor   = models.MustAddress("0x00000000000000000000000000000000000000d1")
	paymentHolder = models.MustAddress("0x00000000000000000000000000000000000000ff")
	user          = models.MustAddress("0x0000000000000000000000000000000000000001")
	successor1    = models.MustAddress("0x0000000000000000000000000000000000000011")
	successor2    = models.MustAddress("0x0000000000000000000000000000000000000012")
	successor3    = models.MustAddress("0x0000000000000000000000000000000000000013")
	stable        = models.MustAddress("0x00000000000000000000000000000000000000a0")
	token1        = models.MustAddress("0x00000000000000000000000000000000000000a1")
	token2        = models.MustAddress("0x00000000000000000000000000000000000000a2")
	token3        = models.MustAddress("0x00000000000000000000000000000000000000a3")
	nft1          = models.MustAddress("0x00000000000000000000000000000000000000b1")
	nft2          = models.MustAddress("0x00000000000000000000000000000000000000b2")
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	clock       *fakeClock
	bank        *assets.MemoryBank
	access      *AccessControl
	plans       *PlanRegistry
	ledger      *SubscriptionLedger
	controller  *SubscriptionController
	escrow      *EscrowLedger
	distributor *AssetDistributor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:  newFakeClock(),
		bank:   assets.NewMemoryBank(),
		access: NewAccessControl(),
		escrow: NewEscrowLedger(),
	}
	f.access.Assign(admin, models.RoleAdmin)
	f.access.Assign(server, models.RoleServer)
	f.plans = NewPlanRegistry(f.access)
	f.ledger = NewSubscriptionLedger(f.access)
	f.controller = NewSubscriptionController(BillingSettings{
		Controller:    controller,
		PaymentHolder: paymentHolder,
		Period:        DefaultBillingPeriod,
	}, f.plans, f.ledger, f.access, f.bank, f.clock.Now)
	f.distributor = NewAssetDistributor(DistributorSettings{
		Address:      distributor,
		EscrowWallet: paymentHolder,
	}, f.access, f.escrow, f.bank, f.bank, f.bank, f.controller, f.clock.Now)
	require.NoError(t, f.ledger.ChangeAllowed(admin, controller, true))
	return f
}

// addTestPlans registers "basic" and "middle" priced in the stable token.
func (f *fixture) addTestPlans(t *testing.T) {
	t.Helper()
	_, err := f.plans.AddPlan(admin, "basic", stable, dec(10), models.Limits{
		SuccessorsMaxCount:   2,
		InheritancesMaxCount: 3,
		TokensMaxCount:       10,
		StableMaxSum:         dec(1000),
		MaxWalletsCount:      1,
	})
	require.NoError(t, err)
	_, err = f.plans.AddPlan(admin, "middle", stable, dec(20), models.Limits{
		SuccessorsMaxCount:   5,
		InheritancesMaxCount: 5,
		TokensMaxCount:       20,
		StableMaxSum:         dec(8000),
		MaxWalletsCount:      3,
	})
	require.NoError(t, err)
}

// subscribe funds user and buys planId for one wallet.
func (f *fixture) subscribe(t *testing.T, planId uint64) {
	t.Helper()
	plan, err := f.plans.GetPlanById(planId)
	require.NoError(t, err)
	require.NoError(t, f.bank.Mint(stable, user, plan.Price))
	require.NoError(t, f.bank.Approve(t.Context(), stable, user, controller, plan.Price))
	_, err = f.controller.Pay(t.Context(), user, planId, 1)
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, token, owner models.Address) decimal.Decimal {
	t.Helper()
	b, err := f.bank.BalanceOf(t.Context(), token, owner)
	require.NoError(t, err)
	return b
}
