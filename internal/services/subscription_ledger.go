package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/KanoeWallet/Kanoe/internal/models"
)

type SubscriptionLedgerInterface interface {
	ChangeAllowed(caller, controller models.Address, allowed bool) error
	SetSubscription(caller models.Address, sub models.Subscription) (*models.Subscription, error)
	GetUserSubscription(user models.Address) models.Subscription
	GetUpdates(fromId uint64) []*models.Subscription
	Revision() uint64
	Snapshot() ([]*models.Subscription, uint64)
	Restore(subs []*models.Subscription, revision uint64)
}

// SubscriptionLedger stores one subscription per user. Every write stamps the
// record with the next revision so readers can page changes with a cursor.
type SubscriptionLedger struct {
	mu       sync.RWMutex
	access   AccessControlInterface
	byUser   map[models.Address]*models.Subscription
	byRev    map[uint64]models.Address
	revision uint64
}

func NewSubscriptionLedger(access AccessControlInterface) *SubscriptionLedger {
	return &SubscriptionLedger{
		access: access,
		byUser: make(map[models.Address]*models.Subscription),
		byRev:  make(map[uint64]models.Address),
	}
}

func (sl *SubscriptionLedger) ChangeAllowed(caller, controller models.Address, allowed bool) error {
	if allowed {
		return sl.access.Grant(caller, controller, models.RoleLedgerWriter)
	}
	return sl.access.Revoke(caller, controller, models.RoleLedgerWriter)
}

func (sl *SubscriptionLedger) SetSubscription(caller models.Address, sub models.Subscription) (*models.Subscription, error) {
	if err := sl.access.Require(caller, models.RoleLedgerWriter); err != nil {
		return nil, err
	}
	if sub.User.IsZero() {
		return nil, fmt.Errorf("%w: subscription without user", models.ErrInvalidArgument)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if prev, ok := sl.byUser[sub.User]; ok {
		delete(sl.byRev, prev.Revision)
	}
	sl.revision++
	sub.Revision = sl.revision
	stored := sub
	sl.byUser[sub.User] = &stored
	sl.byRev[sub.Revision] = sub.User
	return &sub, nil
}

func (sl *SubscriptionLedger) GetUserSubscription(user models.Address) models.Subscription {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	if s, ok := sl.byUser[user]; ok {
		return *s
	}
	return models.Subscription{User: user}
}

// GetUpdates returns subscriptions whose latest revision is >= fromId, oldest first.
func (sl *SubscriptionLedger) GetUpdates(fromId uint64) []*models.Subscription {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	revs := make([]uint64, 0, len(sl.byRev))
	for rev := range sl.byRev {
		if rev >= fromId {
			revs = append(revs, rev)
		}
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i] < revs[j] })
	out := make([]*models.Subscription, 0, len(revs))
	for _, rev := range revs {
		s := *sl.byUser[sl.byRev[rev]]
		out = append(out, &s)
	}
	return out
}

func (sl *SubscriptionLedger) Revision() uint64 {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.revision
}

func (sl *SubscriptionLedger) Snapshot() ([]*models.Subscription, uint64) {
	sl.mu.RLock()
	rev := sl.revision
	sl.mu.RUnlock()
	return sl.GetUpdates(0), rev
}

func (sl *SubscriptionLedger) Restore(subs []*models.Subscription, revision uint64) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.byUser = make(map[models.Address]*models.Subscription, len(subs))
	sl.byRev = make(map[uint64]models.Address, len(subs))
	sl.revision = revision
	for _, s := range subs {
		if s == nil {
			continue
		}
		cp := *s
		if prev, ok := sl.byUser[cp.User]; ok {
			delete(sl.byRev, prev.Revision)
		}
		sl.byUser[cp.User] = &cp
		sl.byRev[cp.Revision] = cp.User
		if cp.Revision > sl.revision {
			sl.revision = cp.Revision
		}
	}
}
