package services

import (
	"fmt"
	"sync"

	"github.com/KanoeWallet/Kanoe/internal/models"
)

type EscrowLedgerInterface interface {
	CheckNext(id uint64) error
	Append(record models.EscrowRecord) (*models.EscrowRecord, error)
	GetMaxPaymentId() uint64
	GetUpdates(fromId uint64) []*models.EscrowRecord
	Snapshot() []*models.EscrowRecord
	Restore(records []*models.EscrowRecord)
}

// EscrowLedger is an append-only log of gas reservations with non-decreasing ids.
type EscrowLedger struct {
	mu      sync.RWMutex
	records []*models.EscrowRecord
	maxID   uint64
}

func NewEscrowLedger() *EscrowLedger {
	return &EscrowLedger{}
}

// CheckNext reports whether id may be appended.
func (el *EscrowLedger) CheckNext(id uint64) error {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.checkNext(id)
}

func (el *EscrowLedger) checkNext(id uint64) error {
	if len(el.records) > 0 && id < el.maxID {
		return fmt.Errorf("%w: %d < %d", models.ErrPaymentIdOutOfOrder, id, el.maxID)
	}
	return nil
}

func (el *EscrowLedger) Append(record models.EscrowRecord) (*models.EscrowRecord, error) {
	el.mu.Lock()
	defer el.mu.Unlock()
	if err := el.checkNext(record.ID); err != nil {
		return nil, err
	}
	stored := record
	el.records = append(el.records, &stored)
	el.maxID = record.ID
	return &record, nil
}

func (el *EscrowLedger) GetMaxPaymentId() uint64 {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.maxID
}

// GetUpdates returns records with id >= fromId in append order.
func (el *EscrowLedger) GetUpdates(fromId uint64) []*models.EscrowRecord {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]*models.EscrowRecord, 0)
	for _, r := range el.records {
		if r.ID >= fromId {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out
}

func (el *EscrowLedger) Snapshot() []*models.EscrowRecord {
	return el.GetUpdates(0)
}

func (el *EscrowLedger) Restore(records []*models.EscrowRecord) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.records = make([]*models.EscrowRecord, 0, len(records))
	el.maxID = 0
	for _, r := range records {
		if r == nil {
			continue
		}
		cp := *r
		el.records = append(el.records, &cp)
		if cp.ID > el.maxID {
			el.maxID = cp.ID
		}
	}
}
