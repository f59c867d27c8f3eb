package services

import (
	"context"
	"fmt"

	"github.com/KanoeWallet/Kanoe/internal/assets"
	"github.com/KanoeWallet/Kanoe/internal/models"
)

type SubscriptionControllerInterface interface {
	Pay(ctx context.Context, caller models.Address, planId, walletsCount uint64) (*models.Subscription, error)
	PayExtend(ctx context.Context, caller, user models.Address) (*models.Subscription, error)
	GetPlanById(id uint64) (*models.Plan, error)
	GetUserSubscription(user models.Address) models.Subscription
	GetUpdates(fromId uint64) []*models.Subscription
	ActiveLimits(user models.Address) (*models.Limits, error)
	Address() models.Address
}

// SubscriptionController charges for plans and is the ledger's writer.
// Payment is always pulled before the ledger is touched.
type SubscriptionController struct {
	settings BillingSettings
	plans    PlanRegistryInterface
	ledger   SubscriptionLedgerInterface
	access   AccessControlInterface
	tokens   assets.TokenInterface
	now      Clock
}

func NewSubscriptionController(settings BillingSettings, plans PlanRegistryInterface, ledger SubscriptionLedgerInterface, access AccessControlInterface, tokens assets.TokenInterface, clock Clock) *SubscriptionController {
	if settings.Period <= 0 {
		settings.Period = DefaultBillingPeriod
	}
	return &SubscriptionController{
		settings: settings,
		plans:    plans,
		ledger:   ledger,
		access:   access,
		tokens:   tokens,
		now:      clock,
	}
}

func (sc *SubscriptionController) Address() models.Address {
	return sc.settings.Controller
}

// Pay buys planId for walletsCount wallets. A new payment replaces any current
// subscription and restarts the period.
func (sc *SubscriptionController) Pay(ctx context.Context, caller models.Address, planId, walletsCount uint64) (*models.Subscription, error) {
	plan, err := sc.plans.GetPlanById(planId)
	if err != nil {
		return nil, err
	}
	if walletsCount == 0 {
		return nil, fmt.Errorf("%w: wallets count must be at least 1", models.ErrInvalidArgument)
	}
	if limit := plan.Limits.MaxWalletsCount; limit > 0 && walletsCount > limit {
		return nil, fmt.Errorf("%w: %d wallets requested, plan %d allows %d", models.ErrLimitExceeded, walletsCount, plan.ID, limit)
	}

	if err = sc.charge(ctx, plan, caller, walletsCount); err != nil {
		return nil, err
	}

	now := sc.now()
	return sc.ledger.SetSubscription(sc.settings.Controller, models.Subscription{
		User:         caller,
		PlanID:       plan.ID,
		WalletsCount: walletsCount,
		StartTime:    now,
		EndTime:      now.Add(sc.settings.Period),
	})
}

// PayExtend renews user's current plan for one more period, counted from the
// later of now and the current end.
func (sc *SubscriptionController) PayExtend(ctx context.Context, caller, user models.Address) (*models.Subscription, error) {
	if err := sc.access.Require(caller, models.RoleServer); err != nil {
		return nil, err
	}
	sub := sc.ledger.GetUserSubscription(user)
	if !sub.Exists() || sub.PlanID == 0 {
		return nil, fmt.Errorf("%w: %s has no subscription", models.ErrSubscriptionNotActive, user)
	}
	plan, err := sc.plans.GetPlanById(sub.PlanID)
	if err != nil {
		return nil, err
	}
	wallets := sub.WalletsCount
	if wallets == 0 {
		wallets = 1
	}

	if err = sc.charge(ctx, plan, user, wallets); err != nil {
		return nil, err
	}

	now := sc.now()
	from := now
	start := now
	if sub.EndTime.After(now) {
		from = sub.EndTime
		start = sub.StartTime
	}
	return sc.ledger.SetSubscription(sc.settings.Controller, models.Subscription{
		User:         user,
		PlanID:       plan.ID,
		WalletsCount: wallets,
		StartTime:    start,
		EndTime:      from.Add(sc.settings.Period),
	})
}

func (sc *SubscriptionController) charge(ctx context.Context, plan *models.Plan, payer models.Address, walletsCount uint64) error {
	total := plan.TotalPrice(walletsCount)
	err := sc.tokens.TransferFrom(ctx, plan.PayToken, sc.settings.Controller, payer, sc.settings.PaymentHolder, total)
	if err != nil {
		return fmt.Errorf("%w: charging %s for plan %d: %w", models.ErrTransferFailed, payer, plan.ID, err)
	}
	return nil
}

func (sc *SubscriptionController) GetPlanById(id uint64) (*models.Plan, error) {
	return sc.plans.GetPlanById(id)
}

func (sc *SubscriptionController) GetUserSubscription(user models.Address) models.Subscription {
	return sc.ledger.GetUserSubscription(user)
}

func (sc *SubscriptionController) GetUpdates(fromId uint64) []*models.Subscription {
	return sc.ledger.GetUpdates(fromId)
}

// ActiveLimits returns the limits of user's plan while the subscription is active.
func (sc *SubscriptionController) ActiveLimits(user models.Address) (*models.Limits, error) {
	sub := sc.ledger.GetUserSubscription(user)
	if !sub.IsActive(sc.now()) {
		return nil, fmt.Errorf("%w: %s", models.ErrSubscriptionNotActive, user)
	}
	plan, err := sc.plans.GetPlanById(sub.PlanID)
	if err != nil {
		return nil, err
	}
	limits := plan.Limits
	return &limits, nil
}
