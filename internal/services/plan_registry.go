package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/shopspring/decimal"
)

type PlanRegistryInterface interface {
	AddPlan(caller models.Address, title string, payToken models.Address, price decimal.Decimal, limits models.Limits) (uint64, error)
	GetPlanById(id uint64) (*models.Plan, error)
	GetPlansList(offset, count uint64) []*models.Plan
	Count() int
	Snapshot() []*models.Plan
	Restore(plans []*models.Plan)
}

// PlanRegistry is an append-only catalog. Plan ids start at 1.
type PlanRegistry struct {
	mu     sync.RWMutex
	access AccessControlInterface
	plans  []*models.Plan
}

func NewPlanRegistry(access AccessControlInterface) *PlanRegistry {
	return &PlanRegistry{access: access}
}

func (pr *PlanRegistry) AddPlan(caller models.Address, title string, payToken models.Address, price decimal.Decimal, limits models.Limits) (uint64, error) {
	if err := pr.access.Require(caller, models.RoleAdmin); err != nil {
		return 0, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("%w: empty plan title", models.ErrInvalidArgument)
	}
	if payToken.IsZero() {
		return 0, fmt.Errorf("%w: plan pay token is required", models.ErrInvalidArgument)
	}
	if price.Sign() <= 0 || !price.IsInteger() {
		return 0, fmt.Errorf("%w: plan price must be a positive integer, got %s", models.ErrInvalidArgument, price)
	}
	if limits.StableMaxSum.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative stable max sum", models.ErrInvalidArgument)
	}

	pr.mu.Lock()
	defer pr.mu.Unlock()
	plan := &models.Plan{
		ID:       uint64(len(pr.plans)) + 1,
		Title:    title,
		PayToken: payToken,
		Price:    price,
		Limits:   limits,
	}
	pr.plans = append(pr.plans, plan)
	return plan.ID, nil
}

func (pr *PlanRegistry) GetPlanById(id uint64) (*models.Plan, error) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	if id == 0 || id > uint64(len(pr.plans)) {
		return nil, fmt.Errorf("%w: id %d", models.ErrPlanNotFound, id)
	}
	p := *pr.plans[id-1]
	return &p, nil
}

func (pr *PlanRegistry) GetPlansList(offset, count uint64) []*models.Plan {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	total := uint64(len(pr.plans))
	if offset >= total || count == 0 {
		return []*models.Plan{}
	}
	end := offset + count
	if end > total || end < offset {
		end = total
	}
	out := make([]*models.Plan, 0, end-offset)
	for _, p := range pr.plans[offset:end] {
		cp := *p
		out = append(out, &cp)
	}
	return out
}

func (pr *PlanRegistry) Count() int {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return len(pr.plans)
}

func (pr *PlanRegistry) Snapshot() []*models.Plan {
	return pr.GetPlansList(0, uint64(pr.Count()))
}

// Restore replaces the catalog. Plans are reindexed by position.
func (pr *PlanRegistry) Restore(plans []*models.Plan) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.plans = make([]*models.Plan, 0, len(plans))
	for _, p := range plans {
		if p == nil {
			continue
		}
		cp := *p
		cp.ID = uint64(len(pr.plans)) + 1
		pr.plans = append(pr.plans, &cp)
	}
}
