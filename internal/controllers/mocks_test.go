package controllers

import (
	"context"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	"github.com/shopspring/decimal"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache                     { return &mockCache{data: make(map[string][]byte)} }
func (m *mockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *mockCache) Set(key string, value []byte)  { m.data[key] = value }

type payCall struct {
	caller       models.Address
	planId       uint64
	walletsCount uint64
}

type inheritanceCall struct {
	caller      models.Address
	owner       models.Address
	limit       decimal.Decimal
	tokens      []models.Address
	successors  []models.Address
	percentages []uint64
}

type mockKanoe struct {
	version      uint64
	plans        []*models.Plan
	planCalls    int
	subscription models.Subscription
	subUpdates   []*models.Subscription
	escrow       []*models.EscrowRecord
	maxPaymentId uint64
	ledgerRev    uint64

	err error

	addedTitle   string
	allowedCalls []bool
	payCalls     []payCall
	extendUser   models.Address
	reserved     []uint64
	inheritances []inheritanceCall
	nftCalls     [][]models.NftCollectionTransfer
	approvals    []decimal.Decimal
	transfers    []models.Address
	approveAll   []bool
	checkTokens  []models.Address
	mints        []decimal.Decimal
	nftMints     []uint64
	funded       []models.Address
}

func (m *mockKanoe) AddPlan(_ context.Context, _ models.Address, title string, _ models.Address, _ decimal.Decimal, _ models.Limits) (uint64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.addedTitle = title
	return uint64(len(m.plans) + 1), nil
}

func (m *mockKanoe) GetPlanById(id uint64) (*models.Plan, error) {
	m.planCalls++
	for _, p := range m.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.ErrPlanNotFound
}

func (m *mockKanoe) GetPlansList(offset, count uint64) []*models.Plan {
	m.planCalls++
	if offset >= uint64(len(m.plans)) {
		return []*models.Plan{}
	}
	end := min(offset+count, uint64(len(m.plans)))
	return m.plans[offset:end]
}

func (m *mockKanoe) ChangeAllowed(_ context.Context, _, _ models.Address, allowed bool) error {
	if m.err != nil {
		return m.err
	}
	m.allowedCalls = append(m.allowedCalls, allowed)
	return nil
}

func (m *mockKanoe) Pay(_ context.Context, caller models.Address, planId, walletsCount uint64) (*models.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.payCalls = append(m.payCalls, payCall{caller: caller, planId: planId, walletsCount: walletsCount})
	return &models.Subscription{User: caller, PlanID: planId, WalletsCount: walletsCount, Revision: 1}, nil
}

func (m *mockKanoe) PayExtend(_ context.Context, _, user models.Address) (*models.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.extendUser = user
	return &models.Subscription{User: user, PlanID: 1, Revision: 2}, nil
}

func (m *mockKanoe) GetUserSubscription(_ models.Address) models.Subscription { return m.subscription }

func (m *mockKanoe) GetSubscriptionUpdates(_ uint64) []*models.Subscription { return m.subUpdates }

func (m *mockKanoe) ReserveGas(_ context.Context, caller models.Address, paymentId uint64, value decimal.Decimal) (*models.EscrowRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.reserved = append(m.reserved, paymentId)
	return &models.EscrowRecord{ID: paymentId, Payer: caller, Amount: value}, nil
}

func (m *mockKanoe) GetMaxPaymentId() uint64 { return m.maxPaymentId }

func (m *mockKanoe) GetEscrowUpdates(_ uint64) []*models.EscrowRecord { return m.escrow }

func (m *mockKanoe) CheckInfo(_ context.Context, _ models.Address, tokens []models.Address) ([]models.ApprovalInfo, error) {
	m.checkTokens = tokens
	out := make([]models.ApprovalInfo, len(tokens))
	for i, t := range tokens {
		out[i] = models.ApprovalInfo{Token: t, State: models.ApprovalFull}
	}
	return out, nil
}

func (m *mockKanoe) SendInheritance(_ context.Context, caller, owner models.Address, limit decimal.Decimal, tokens, successors []models.Address, percentages []uint64) (*models.DistributionReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inheritances = append(m.inheritances, inheritanceCall{caller, owner, limit, tokens, successors, percentages})
	return &models.DistributionReport{ID: "dist_test", Owner: owner, Limit: limit}, nil
}

func (m *mockKanoe) SendInheritance721(_ context.Context, _, owner models.Address, collections []models.NftCollectionTransfer) (*models.NftDistributionReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.nftCalls = append(m.nftCalls, collections)
	return &models.NftDistributionReport{ID: "nftd_test", Owner: owner}, nil
}

func (m *mockKanoe) CheckNftCollectionShortInfo(_ context.Context, _ models.Address, collections []models.Address) ([]models.NftCollectionInfo, error) {
	out := make([]models.NftCollectionInfo, len(collections))
	for i, c := range collections {
		out[i] = models.NftCollectionInfo{Collection: c, IsApproved: i%2 == 0}
	}
	return out, nil
}

func (m *mockKanoe) Approve(_ context.Context, _, _, _ models.Address, amount decimal.Decimal) error {
	if m.err != nil {
		return m.err
	}
	m.approvals = append(m.approvals, amount)
	return nil
}

func (m *mockKanoe) TransferToken(_ context.Context, _, _, to models.Address, _ decimal.Decimal) error {
	if m.err != nil {
		return m.err
	}
	m.transfers = append(m.transfers, to)
	return nil
}

func (m *mockKanoe) SetApprovalForAll(_ context.Context, _, _, _ models.Address, approved bool) error {
	if m.err != nil {
		return m.err
	}
	m.approveAll = append(m.approveAll, approved)
	return nil
}

func (m *mockKanoe) BalanceOf(_ context.Context, _, _ models.Address) (decimal.Decimal, error) {
	return decimal.NewFromInt(42), nil
}

func (m *mockKanoe) NativeBalance(_ context.Context, _ models.Address) (decimal.Decimal, error) {
	return decimal.NewFromInt(7), nil
}

func (m *mockKanoe) MintToken(_ context.Context, _, _, _ models.Address, amount decimal.Decimal) error {
	if m.err != nil {
		return m.err
	}
	m.mints = append(m.mints, amount)
	return nil
}

func (m *mockKanoe) MintNft(_ context.Context, _, _, _ models.Address, tokenID uint64) error {
	if m.err != nil {
		return m.err
	}
	m.nftMints = append(m.nftMints, tokenID)
	return nil
}

func (m *mockKanoe) FundNative(_ context.Context, _, to models.Address, _ decimal.Decimal) error {
	if m.err != nil {
		return m.err
	}
	m.funded = append(m.funded, to)
	return nil
}

func (m *mockKanoe) Bootstrap(_ context.Context) error  { return nil }
func (m *mockKanoe) Snapshot() *models.Storage          { return &models.Storage{} }
func (m *mockKanoe) Restore(_ *models.Storage) error    { return nil }
func (m *mockKanoe) StateVersion() uint64               { return m.version }
func (m *mockKanoe) PlansCount() int                    { return len(m.plans) }
func (m *mockKanoe) LedgerRevision() uint64             { return m.ledgerRev }
func (m *mockKanoe) ControllerAddress() models.Address  { return models.ZeroAddress }
func (m *mockKanoe) DistributorAddress() models.Address { return models.ZeroAddress }
