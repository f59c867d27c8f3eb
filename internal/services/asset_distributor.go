package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/KanoeWallet/Kanoe/internal/assets"
	"github.com/KanoeWallet/Kanoe/internal/id"
	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/shopspring/decimal"
)

// LimitsProviderInterface resolves the plan limits of an owner with an active subscription.
type LimitsProviderInterface interface {
	ActiveLimits(user models.Address) (*models.Limits, error)
}

type AssetDistributorInterface interface {
	ReserveGas(ctx context.Context, caller models.Address, paymentId uint64, value decimal.Decimal) (*models.EscrowRecord, error)
	GetMaxPaymentId() uint64
	GetUpdates(fromId uint64) []*models.EscrowRecord
	CheckInfo(ctx context.Context, user models.Address, tokens []models.Address) ([]models.ApprovalInfo, error)
	SendInheritance(ctx context.Context, caller, owner models.Address, limit decimal.Decimal, tokens, successors []models.Address, percentages []uint64) (*models.DistributionReport, error)
	SendInheritance721(ctx context.Context, caller, owner models.Address, collections []models.NftCollectionTransfer) (*models.NftDistributionReport, error)
	CheckNftCollectionShortInfo(ctx context.Context, user models.Address, collections []models.Address) ([]models.NftCollectionInfo, error)
	Address() models.Address
}

// AssetDistributor moves an owner's estate to successors through standing approvals.
// It holds no balances itself; the only internal state is the escrow ledger.
type AssetDistributor struct {
	settings    DistributorSettings
	access      AccessControlInterface
	escrow      EscrowLedgerInterface
	tokens      assets.TokenInterface
	collections assets.CollectionInterface
	native      assets.NativeInterface
	limits      LimitsProviderInterface
	now         Clock
}

// NewAssetDistributor builds a distributor. limits may be nil, in which case
// plan limits are not enforced.
func NewAssetDistributor(settings DistributorSettings, access AccessControlInterface, escrow EscrowLedgerInterface, tokens assets.TokenInterface, collections assets.CollectionInterface, native assets.NativeInterface, limits LimitsProviderInterface, clock Clock) *AssetDistributor {
	return &AssetDistributor{
		settings:    settings,
		access:      access,
		escrow:      escrow,
		tokens:      tokens,
		collections: collections,
		native:      native,
		limits:      limits,
		now:         clock,
	}
}

func (ad *AssetDistributor) Address() models.Address {
	return ad.settings.Address
}

// ReserveGas forwards value to the escrow wallet and records the payment.
func (ad *AssetDistributor) ReserveGas(ctx context.Context, caller models.Address, paymentId uint64, value decimal.Decimal) (*models.EscrowRecord, error) {
	if value.Sign() <= 0 {
		return nil, fmt.Errorf("%w: reserve value must be positive", models.ErrInvalidArgument)
	}
	if err := ad.escrow.CheckNext(paymentId); err != nil {
		return nil, err
	}
	if err := ad.native.SendNative(ctx, caller, ad.settings.EscrowWallet, value); err != nil {
		return nil, fmt.Errorf("%w: reserve %d: %w", models.ErrTransferFailed, paymentId, err)
	}
	return ad.escrow.Append(models.EscrowRecord{
		ID:        paymentId,
		Payer:     caller,
		Amount:    value,
		Timestamp: ad.now(),
	})
}

func (ad *AssetDistributor) GetMaxPaymentId() uint64 {
	return ad.escrow.GetMaxPaymentId()
}

func (ad *AssetDistributor) GetUpdates(fromId uint64) []*models.EscrowRecord {
	return ad.escrow.GetUpdates(fromId)
}

func (ad *AssetDistributor) CheckInfo(ctx context.Context, user models.Address, tokens []models.Address) ([]models.ApprovalInfo, error) {
	out := make([]models.ApprovalInfo, 0, len(tokens))
	for _, token := range tokens {
		balance, err := ad.tokens.BalanceOf(ctx, token, user)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", token, err)
		}
		allowance, err := ad.tokens.Allowance(ctx, token, user, ad.settings.Address)
		if err != nil {
			return nil, fmt.Errorf("allowance of %s: %w", token, err)
		}
		out = append(out, models.ApprovalInfo{
			Token:     token,
			Balance:   balance,
			Allowance: allowance,
			State:     models.ClassifyApproval(balance, allowance),
		})
	}
	return out, nil
}

// SendInheritance distributes tokens in order, each capped by balance, allowance
// and what is left of limit. A zero limit is unbounded.
func (ad *AssetDistributor) SendInheritance(ctx context.Context, caller, owner models.Address, limit decimal.Decimal, tokens, successors []models.Address, percentages []uint64) (*models.DistributionReport, error) {
	if err := ad.access.Require(caller, models.RoleServer); err != nil {
		return nil, err
	}
	if err := ad.validateFungible(owner, limit, tokens, successors, percentages); err != nil {
		return nil, err
	}

	report := &models.DistributionReport{
		ID:          id.New(id.PrefixDistribution),
		Owner:       owner,
		Limit:       limit,
		Distributed: decimal.Zero,
		Payouts:     make([]models.TokenPayout, 0, len(tokens)),
	}
	unlimited := limit.IsZero()
	remaining := limit

	for _, token := range tokens {
		if !unlimited && remaining.Sign() <= 0 {
			break
		}
		balance, err := ad.tokens.BalanceOf(ctx, token, owner)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", token, err)
		}
		allowance, err := ad.tokens.Allowance(ctx, token, owner, ad.settings.Address)
		if err != nil {
			return nil, fmt.Errorf("allowance of %s: %w", token, err)
		}
		amount := decimal.Min(balance, allowance)
		if !unlimited {
			amount = decimal.Min(amount, remaining)
		}
		if amount.Sign() <= 0 {
			continue
		}

		shares, err := SplitByWeights(amount, percentages)
		if err != nil {
			return nil, err
		}
		payout := models.TokenPayout{Token: token, Amount: decimal.Zero}
		for i, share := range shares {
			if share.IsZero() {
				continue
			}
			err = ad.tokens.TransferFrom(ctx, token, ad.settings.Address, owner, successors[i], share)
			if err != nil {
				return nil, fmt.Errorf("%w: %s to %s: %w", models.ErrTransferFailed, token, successors[i], err)
			}
			payout.Amount = payout.Amount.Add(share)
			payout.Shares = append(payout.Shares, models.Share{Successor: successors[i], Amount: share})
		}
		if payout.Amount.IsZero() {
			continue
		}
		remaining = remaining.Sub(payout.Amount)
		report.Distributed = report.Distributed.Add(payout.Amount)
		report.Payouts = append(report.Payouts, payout)
	}
	return report, nil
}

func (ad *AssetDistributor) validateFungible(owner models.Address, limit decimal.Decimal, tokens, successors []models.Address, percentages []uint64) error {
	if owner.IsZero() {
		return fmt.Errorf("%w: owner is required", models.ErrInvalidArgument)
	}
	if limit.Sign() < 0 || !limit.IsInteger() {
		return fmt.Errorf("%w: limit %s", models.ErrInvalidArgument, limit)
	}
	if len(successors) == 0 || len(successors) != len(percentages) {
		return fmt.Errorf("%w: %d successors for %d percentages", models.ErrInvalidArgument, len(successors), len(percentages))
	}
	for _, s := range successors {
		if s.IsZero() {
			return fmt.Errorf("%w: zero successor", models.ErrInvalidArgument)
		}
	}
	if err := checkPercentageSum(percentages); err != nil {
		return err
	}
	return ad.checkPlanLimits(owner, len(successors), len(tokens))
}

// checkPlanLimits bounds the call by the owner's active plan. Owners without
// one are not bounded.
func (ad *AssetDistributor) checkPlanLimits(owner models.Address, successors, tokens int) error {
	if ad.limits == nil {
		return nil
	}
	limits, err := ad.limits.ActiveLimits(owner)
	if errors.Is(err, models.ErrSubscriptionNotActive) {
		return nil
	}
	if err != nil {
		return err
	}
	if m := limits.SuccessorsMaxCount; m > 0 && uint64(successors) > m {
		return fmt.Errorf("%w: %d successors, plan allows %d", models.ErrLimitExceeded, successors, m)
	}
	if m := limits.TokensMaxCount; m > 0 && uint64(tokens) > m {
		return fmt.Errorf("%w: %d tokens, plan allows %d", models.ErrLimitExceeded, tokens, m)
	}
	return nil
}

// SendInheritance721 transfers every listed id of each collection the owner has
// approved for the distributor. Unapproved collections are skipped and reported.
func (ad *AssetDistributor) SendInheritance721(ctx context.Context, caller, owner models.Address, collections []models.NftCollectionTransfer) (*models.NftDistributionReport, error) {
	if err := ad.access.Require(caller, models.RoleServer); err != nil {
		return nil, err
	}
	if owner.IsZero() {
		return nil, fmt.Errorf("%w: owner is required", models.ErrInvalidArgument)
	}
	for _, c := range collections {
		if c.Collection.IsZero() {
			return nil, fmt.Errorf("%w: zero collection", models.ErrInvalidArgument)
		}
		if len(c.IDs) != len(c.Successors) {
			return nil, fmt.Errorf("%w: collection %s has %d ids for %d successors", models.ErrInvalidArgument, c.Collection, len(c.IDs), len(c.Successors))
		}
		for _, s := range c.Successors {
			if s.IsZero() {
				return nil, fmt.Errorf("%w: zero successor in %s", models.ErrInvalidArgument, c.Collection)
			}
		}
	}

	report := &models.NftDistributionReport{
		ID:          id.New(id.PrefixNftDistribution),
		Owner:       owner,
		Transferred: make([]models.NftTransfer, 0),
		Skipped:     make([]models.Address, 0),
	}
	for _, c := range collections {
		approved, err := ad.collections.IsApprovedForAll(ctx, c.Collection, owner, ad.settings.Address)
		if err != nil {
			return nil, fmt.Errorf("approval of %s: %w", c.Collection, err)
		}
		if !approved {
			report.Skipped = append(report.Skipped, c.Collection)
			continue
		}
		for i, tokenID := range c.IDs {
			err = ad.collections.SafeTransferFrom(ctx, c.Collection, ad.settings.Address, owner, c.Successors[i], tokenID)
			if err != nil {
				return nil, fmt.Errorf("%w: %s #%d: %w", models.ErrTransferFailed, c.Collection, tokenID, err)
			}
			report.Transferred = append(report.Transferred, models.NftTransfer{
				Collection: c.Collection,
				TokenID:    tokenID,
				Successor:  c.Successors[i],
			})
		}
	}
	return report, nil
}

func (ad *AssetDistributor) CheckNftCollectionShortInfo(ctx context.Context, user models.Address, collections []models.Address) ([]models.NftCollectionInfo, error) {
	out := make([]models.NftCollectionInfo, 0, len(collections))
	for _, c := range collections {
		approved, err := ad.collections.IsApprovedForAll(ctx, c, user, ad.settings.Address)
		if err != nil {
			return nil, fmt.Errorf("approval of %s: %w", c, err)
		}
		out = append(out, models.NftCollectionInfo{Collection: c, IsApproved: approved})
	}
	return out, nil
}
