package engine

import (
	"context"
	"fmt"

	"github.com/KanoeWallet/Kanoe/internal/assets"
	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	"github.com/KanoeWallet/Kanoe/internal/services"
	"github.com/KanoeWallet/Kanoe/internal/structures"
	"github.com/shopspring/decimal"
)

type KanoeInterface interface {
	AddPlan(ctx context.Context, caller models.Address, title string, payToken models.Address, price decimal.Decimal, limits models.Limits) (uint64, error)
	GetPlanById(id uint64) (*models.Plan, error)
	GetPlansList(offset, count uint64) []*models.Plan

	ChangeAllowed(ctx context.Context, caller, controller models.Address, allowed bool) error
	Pay(ctx context.Context, caller models.Address, planId, walletsCount uint64) (*models.Subscription, error)
	PayExtend(ctx context.Context, caller, user models.Address) (*models.Subscription, error)
	GetUserSubscription(user models.Address) models.Subscription
	GetSubscriptionUpdates(fromId uint64) []*models.Subscription

	ReserveGas(ctx context.Context, caller models.Address, paymentId uint64, value decimal.Decimal) (*models.EscrowRecord, error)
	GetMaxPaymentId() uint64
	GetEscrowUpdates(fromId uint64) []*models.EscrowRecord

	CheckInfo(ctx context.Context, user models.Address, tokens []models.Address) ([]models.ApprovalInfo, error)
	SendInheritance(ctx context.Context, caller, owner models.Address, limit decimal.Decimal, tokens, successors []models.Address, percentages []uint64) (*models.DistributionReport, error)
	SendInheritance721(ctx context.Context, caller, owner models.Address, collections []models.NftCollectionTransfer) (*models.NftDistributionReport, error)
	CheckNftCollectionShortInfo(ctx context.Context, user models.Address, collections []models.Address) ([]models.NftCollectionInfo, error)

	Approve(ctx context.Context, owner, token, spender models.Address, amount decimal.Decimal) error
	TransferToken(ctx context.Context, from, token, to models.Address, amount decimal.Decimal) error
	SetApprovalForAll(ctx context.Context, owner, collection, operator models.Address, approved bool) error
	BalanceOf(ctx context.Context, token, owner models.Address) (decimal.Decimal, error)
	NativeBalance(ctx context.Context, owner models.Address) (decimal.Decimal, error)
	MintToken(ctx context.Context, caller, token, to models.Address, amount decimal.Decimal) error
	MintNft(ctx context.Context, caller, collection, to models.Address, tokenID uint64) error
	FundNative(ctx context.Context, caller, to models.Address, amount decimal.Decimal) error

	Bootstrap(ctx context.Context) error
	Snapshot() *models.Storage
	Restore(storage *models.Storage) error
	StateVersion() uint64
	PlansCount() int
	LedgerRevision() uint64
	ControllerAddress() models.Address
	DistributorAddress() models.Address
}

// Kanoe wires the billing and distribution services over one asset bank and
// routes every mutation through the executor.
type Kanoe struct {
	conf        *structures.Config
	logger      providers.Logger
	exec        *Executor
	bank        assets.BankInterface
	access      *services.AccessControl
	plans       *services.PlanRegistry
	ledger      *services.SubscriptionLedger
	escrow      *services.EscrowLedger
	controller  *services.SubscriptionController
	distributor *services.AssetDistributor
}

func NewKanoe(conf *structures.Config, bank assets.BankInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, clock services.Clock) (*Kanoe, error) {
	billing, err := services.NewBillingSettings(conf)
	if err != nil {
		return nil, err
	}
	dist, err := services.NewDistributorSettings(conf)
	if err != nil {
		return nil, err
	}

	access := services.NewAccessControl()
	plans := services.NewPlanRegistry(access)
	ledger := services.NewSubscriptionLedger(access)
	escrow := services.NewEscrowLedger()
	controller := services.NewSubscriptionController(billing, plans, ledger, access, bank, clock)
	distributor := services.NewAssetDistributor(dist, access, escrow, bank, bank, bank, controller, clock)

	return &Kanoe{
		conf:        conf,
		logger:      logger,
		exec:        NewExecutor(bank, logger, metrics),
		bank:        bank,
		access:      access,
		plans:       plans,
		ledger:      ledger,
		escrow:      escrow,
		controller:  controller,
		distributor: distributor,
	}, nil
}

func (k *Kanoe) AddPlan(ctx context.Context, caller models.Address, title string, payToken models.Address, price decimal.Decimal, limits models.Limits) (uint64, error) {
	return run(ctx, k.exec, "add_plan", providers.TypeBilling, func(context.Context) (uint64, error) {
		return k.plans.AddPlan(caller, title, payToken, price, limits)
	})
}

func (k *Kanoe) GetPlanById(id uint64) (*models.Plan, error) {
	return k.controller.GetPlanById(id)
}

func (k *Kanoe) GetPlansList(offset, count uint64) []*models.Plan {
	return k.plans.GetPlansList(offset, count)
}

func (k *Kanoe) ChangeAllowed(ctx context.Context, caller, controller models.Address, allowed bool) error {
	return k.exec.Run(ctx, "change_allowed", providers.TypeBilling, func(context.Context) error {
		return k.ledger.ChangeAllowed(caller, controller, allowed)
	})
}

func (k *Kanoe) Pay(ctx context.Context, caller models.Address, planId, walletsCount uint64) (*models.Subscription, error) {
	return run(ctx, k.exec, "pay", providers.TypeBilling, func(ctx context.Context) (*models.Subscription, error) {
		return k.controller.Pay(ctx, caller, planId, walletsCount)
	})
}

func (k *Kanoe) PayExtend(ctx context.Context, caller, user models.Address) (*models.Subscription, error) {
	return run(ctx, k.exec, "pay_extend", providers.TypeBilling, func(ctx context.Context) (*models.Subscription, error) {
		return k.controller.PayExtend(ctx, caller, user)
	})
}

func (k *Kanoe) GetUserSubscription(user models.Address) models.Subscription {
	return k.controller.GetUserSubscription(user)
}

func (k *Kanoe) GetSubscriptionUpdates(fromId uint64) []*models.Subscription {
	return k.controller.GetUpdates(fromId)
}

func (k *Kanoe) ReserveGas(ctx context.Context, caller models.Address, paymentId uint64, value decimal.Decimal) (*models.EscrowRecord, error) {
	return run(ctx, k.exec, "reserve_gas", providers.TypeDistribution, func(ctx context.Context) (*models.EscrowRecord, error) {
		return k.distributor.ReserveGas(ctx, caller, paymentId, value)
	})
}

func (k *Kanoe) GetMaxPaymentId() uint64 {
	return k.distributor.GetMaxPaymentId()
}

func (k *Kanoe) GetEscrowUpdates(fromId uint64) []*models.EscrowRecord {
	return k.distributor.GetUpdates(fromId)
}

func (k *Kanoe) CheckInfo(ctx context.Context, user models.Address, tokens []models.Address) ([]models.ApprovalInfo, error) {
	return k.distributor.CheckInfo(ctx, user, tokens)
}

func (k *Kanoe) SendInheritance(ctx context.Context, caller, owner models.Address, limit decimal.Decimal, tokens, successors []models.Address, percentages []uint64) (*models.DistributionReport, error) {
	return run(ctx, k.exec, "send_inheritance", providers.TypeDistribution, func(ctx context.Context) (*models.DistributionReport, error) {
		return k.distributor.SendInheritance(ctx, caller, owner, limit, tokens, successors, percentages)
	})
}

func (k *Kanoe) SendInheritance721(ctx context.Context, caller, owner models.Address, collections []models.NftCollectionTransfer) (*models.NftDistributionReport, error) {
	return run(ctx, k.exec, "send_inheritance_721", providers.TypeDistribution, func(ctx context.Context) (*models.NftDistributionReport, error) {
		return k.distributor.SendInheritance721(ctx, caller, owner, collections)
	})
}

func (k *Kanoe) CheckNftCollectionShortInfo(ctx context.Context, user models.Address, collections []models.Address) ([]models.NftCollectionInfo, error) {
	return k.distributor.CheckNftCollectionShortInfo(ctx, user, collections)
}

// Approve, TransferToken and SetApprovalForAll act on the bundled bank as the
// owner would on a real chain. They back the development endpoints.
func (k *Kanoe) Approve(ctx context.Context, owner, token, spender models.Address, amount decimal.Decimal) error {
	return k.exec.Run(ctx, "approve", providers.TypeApp, func(ctx context.Context) error {
		return k.bank.Approve(ctx, token, owner, spender, amount)
	})
}

func (k *Kanoe) TransferToken(ctx context.Context, from, token, to models.Address, amount decimal.Decimal) error {
	return k.exec.Run(ctx, "transfer", providers.TypeApp, func(ctx context.Context) error {
		if err := k.bank.Transfer(ctx, token, from, to, amount); err != nil {
			return fmt.Errorf("%w: %w", models.ErrTransferFailed, err)
		}
		return nil
	})
}

func (k *Kanoe) SetApprovalForAll(ctx context.Context, owner, collection, operator models.Address, approved bool) error {
	return k.exec.Run(ctx, "set_approval_for_all", providers.TypeApp, func(ctx context.Context) error {
		return k.bank.SetApprovalForAll(ctx, collection, owner, operator, approved)
	})
}

func (k *Kanoe) BalanceOf(ctx context.Context, token, owner models.Address) (decimal.Decimal, error) {
	return k.bank.BalanceOf(ctx, token, owner)
}

func (k *Kanoe) NativeBalance(ctx context.Context, owner models.Address) (decimal.Decimal, error) {
	return k.bank.NativeBalance(ctx, owner)
}

// MintToken, MintNft and FundNative create development assets out of thin air.
// Only the admin may call them.
func (k *Kanoe) MintToken(ctx context.Context, caller, token, to models.Address, amount decimal.Decimal) error {
	return k.exec.Run(ctx, "mint", providers.TypeApp, func(context.Context) error {
		if err := k.access.Require(caller, models.RoleAdmin); err != nil {
			return err
		}
		if token.IsZero() {
			return assets.ErrZeroAddress
		}
		return k.bank.Mint(token, to, amount)
	})
}

func (k *Kanoe) MintNft(ctx context.Context, caller, collection, to models.Address, tokenID uint64) error {
	return k.exec.Run(ctx, "mint_nft", providers.TypeApp, func(context.Context) error {
		if err := k.access.Require(caller, models.RoleAdmin); err != nil {
			return err
		}
		if collection.IsZero() {
			return assets.ErrZeroAddress
		}
		return k.bank.MintNft(collection, to, tokenID)
	})
}

func (k *Kanoe) FundNative(ctx context.Context, caller, to models.Address, amount decimal.Decimal) error {
	return k.exec.Run(ctx, "fund_native", providers.TypeApp, func(context.Context) error {
		if err := k.access.Require(caller, models.RoleAdmin); err != nil {
			return err
		}
		if to.IsZero() {
			return assets.ErrZeroAddress
		}
		return k.bank.FundNative(to, amount)
	})
}

func (k *Kanoe) StateVersion() uint64 {
	return k.exec.Version()
}

func (k *Kanoe) PlansCount() int {
	return k.plans.Count()
}

func (k *Kanoe) LedgerRevision() uint64 {
	return k.ledger.Revision()
}

func (k *Kanoe) ControllerAddress() models.Address {
	return k.controller.Address()
}

func (k *Kanoe) DistributorAddress() models.Address {
	return k.distributor.Address()
}

// Snapshot captures a consistent cut of every store.
func (k *Kanoe) Snapshot() *models.Storage {
	var s *models.Storage
	k.exec.Exclusive(func() {
		subs, rev := k.ledger.Snapshot()
		s = &models.Storage{
			Version:       models.StorageVersion,
			Plans:         k.plans.Snapshot(),
			Subscriptions: subs,
			Revision:      rev,
			Grants:        k.access.Grants(),
			Escrow:        k.escrow.Snapshot(),
			Bank:          k.bank.ExportState(),
		}
	})
	return s
}

func (k *Kanoe) Restore(storage *models.Storage) error {
	if storage == nil {
		return nil
	}
	if storage.Version > models.StorageVersion {
		return fmt.Errorf("unsupported storage version %d", storage.Version)
	}
	k.exec.Exclusive(func() {
		k.access.Restore(storage.Grants)
		k.plans.Restore(storage.Plans)
		k.ledger.Restore(storage.Subscriptions, storage.Revision)
		k.escrow.Restore(storage.Escrow)
		if storage.Bank != nil {
			k.bank.ImportState(storage.Bank)
		}
	})
	k.exec.Invalidate()
	return nil
}
