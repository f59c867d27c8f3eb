package assets

import (
	"context"
	"fmt"
	"sync"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/shopspring/decimal"
)

// MemoryBank keeps token, collection and native balances in memory.
// While a checkpoint is open every mutation records an undo step.
type MemoryBank struct {
	mu          sync.RWMutex
	tokens      map[models.Address]*models.TokenLedger
	collections map[models.Address]*models.CollectionLedger
	native      map[models.Address]decimal.Decimal

	tracking bool
	undo     []func()
}

func NewMemoryBank() *MemoryBank {
	b := &MemoryBank{}
	b.reset()
	return b
}

// NewBankProvider exposes the in-memory bank through BankInterface for injection.
func NewBankProvider() BankInterface {
	return NewMemoryBank()
}

func (b *MemoryBank) reset() {
	b.tokens = make(map[models.Address]*models.TokenLedger)
	b.collections = make(map[models.Address]*models.CollectionLedger)
	b.native = make(map[models.Address]decimal.Decimal)
	b.undo = nil
	b.tracking = false
}

func (b *MemoryBank) Checkpoint() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tracking = true
	return len(b.undo)
}

func (b *MemoryBank) RevertTo(checkpoint int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if checkpoint < 0 {
		checkpoint = 0
	}
	for i := len(b.undo) - 1; i >= checkpoint; i-- {
		b.undo[i]()
	}
	if checkpoint < len(b.undo) {
		b.undo = b.undo[:checkpoint]
	}
	if checkpoint == 0 {
		b.tracking = false
	}
}

func (b *MemoryBank) Commit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.undo = nil
	b.tracking = false
}

func (b *MemoryBank) record(fn func()) {
	if b.tracking {
		b.undo = append(b.undo, fn)
	}
}

func (b *MemoryBank) tokenLedger(token models.Address) *models.TokenLedger {
	l, ok := b.tokens[token]
	if !ok {
		l = &models.TokenLedger{
			Balances:   make(map[models.Address]decimal.Decimal),
			Allowances: make(map[models.Address]map[models.Address]decimal.Decimal),
		}
		b.tokens[token] = l
	}
	return l
}

func (b *MemoryBank) collectionLedger(collection models.Address) *models.CollectionLedger {
	l, ok := b.collections[collection]
	if !ok {
		l = &models.CollectionLedger{
			Owners:    make(map[uint64]models.Address),
			Operators: make(map[models.Address]map[models.Address]bool),
		}
		b.collections[collection] = l
	}
	return l
}

func (b *MemoryBank) setBalance(l *models.TokenLedger, owner models.Address, v decimal.Decimal) {
	prev, had := l.Balances[owner]
	b.record(func() {
		if had {
			l.Balances[owner] = prev
		} else {
			delete(l.Balances, owner)
		}
	})
	if v.IsZero() {
		delete(l.Balances, owner)
		return
	}
	l.Balances[owner] = v
}

func (b *MemoryBank) setAllowance(l *models.TokenLedger, owner, spender models.Address, v decimal.Decimal) {
	spenders, ok := l.Allowances[owner]
	if !ok {
		spenders = make(map[models.Address]decimal.Decimal)
		l.Allowances[owner] = spenders
	}
	prev, had := spenders[spender]
	b.record(func() {
		if had {
			spenders[spender] = prev
		} else {
			delete(spenders, spender)
		}
	})
	if v.IsZero() {
		delete(spenders, spender)
		return
	}
	spenders[spender] = v
}

func (b *MemoryBank) setNative(owner models.Address, v decimal.Decimal) {
	prev, had := b.native[owner]
	b.record(func() {
		if had {
			b.native[owner] = prev
		} else {
			delete(b.native, owner)
		}
	})
	if v.IsZero() {
		delete(b.native, owner)
		return
	}
	b.native[owner] = v
}

func (b *MemoryBank) BalanceOf(_ context.Context, token, owner models.Address) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	l, ok := b.tokens[token]
	if !ok {
		return decimal.Zero, nil
	}
	return l.Balances[owner], nil
}

func (b *MemoryBank) Allowance(_ context.Context, token, owner, spender models.Address) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	l, ok := b.tokens[token]
	if !ok {
		return decimal.Zero, nil
	}
	return l.Allowances[owner][spender], nil
}

func (b *MemoryBank) Approve(_ context.Context, token, owner, spender models.Address, amount decimal.Decimal) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if spender.IsZero() {
		return ErrZeroAddress
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setAllowance(b.tokenLedger(token), owner, spender, amount)
	return nil
}

func (b *MemoryBank) Transfer(_ context.Context, token, from, to models.Address, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.move(b.tokenLedger(token), from, to, amount)
}

func (b *MemoryBank) TransferFrom(_ context.Context, token, spender, from, to models.Address, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.tokenLedger(token)
	if spender != from {
		allowed := l.Allowances[from][spender]
		if allowed.LessThan(amount) {
			return fmt.Errorf("%w: %s allowed %s, requested %s", ErrInsufficientAllowance, spender, allowed, amount)
		}
		if err := b.move(l, from, to, amount); err != nil {
			return err
		}
		b.setAllowance(l, from, spender, allowed.Sub(amount))
		return nil
	}
	return b.move(l, from, to, amount)
}

func (b *MemoryBank) move(l *models.TokenLedger, from, to models.Address, amount decimal.Decimal) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	have := l.Balances[from]
	if have.LessThan(amount) {
		return fmt.Errorf("%w: %s holds %s, requested %s", ErrInsufficientBalance, from, have, amount)
	}
	if from == to || amount.IsZero() {
		return nil
	}
	b.setBalance(l, from, have.Sub(amount))
	b.setBalance(l, to, l.Balances[to].Add(amount))
	return nil
}

func (b *MemoryBank) Mint(token, to models.Address, amount decimal.Decimal) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.tokenLedger(token)
	b.setBalance(l, to, l.Balances[to].Add(amount))
	return nil
}

func (b *MemoryBank) OwnerOf(_ context.Context, collection models.Address, tokenID uint64) (models.Address, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	l, ok := b.collections[collection]
	if !ok {
		return "", ErrTokenNotFound
	}
	owner, ok := l.Owners[tokenID]
	if !ok {
		return "", ErrTokenNotFound
	}
	return owner, nil
}

func (b *MemoryBank) IsApprovedForAll(_ context.Context, collection, owner, operator models.Address) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	l, ok := b.collections[collection]
	if !ok {
		return false, nil
	}
	return l.Operators[owner][operator], nil
}

func (b *MemoryBank) SetApprovalForAll(_ context.Context, collection, owner, operator models.Address, approved bool) error {
	if operator.IsZero() {
		return ErrZeroAddress
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.collectionLedger(collection)
	ops, ok := l.Operators[owner]
	if !ok {
		ops = make(map[models.Address]bool)
		l.Operators[owner] = ops
	}
	prev, had := ops[operator]
	b.record(func() {
		if had {
			ops[operator] = prev
		} else {
			delete(ops, operator)
		}
	})
	if approved {
		ops[operator] = true
	} else {
		delete(ops, operator)
	}
	return nil
}

func (b *MemoryBank) SafeTransferFrom(_ context.Context, collection, operator, from, to models.Address, tokenID uint64) error {
	if to.IsZero() {
		return ErrZeroAddress
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.collections[collection]
	if !ok {
		return ErrTokenNotFound
	}
	owner, ok := l.Owners[tokenID]
	if !ok {
		return ErrTokenNotFound
	}
	if owner != from {
		return fmt.Errorf("%w: token %d of %s", ErrNotOwner, tokenID, collection)
	}
	if operator != from && !l.Operators[from][operator] {
		return fmt.Errorf("%w: %s on %s", ErrNotApproved, operator, collection)
	}
	b.record(func() { l.Owners[tokenID] = owner })
	l.Owners[tokenID] = to
	return nil
}

func (b *MemoryBank) MintNft(collection, to models.Address, tokenID uint64) error {
	if to.IsZero() {
		return ErrZeroAddress
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.collectionLedger(collection)
	if _, ok := l.Owners[tokenID]; ok {
		return fmt.Errorf("%w: %d", ErrTokenExists, tokenID)
	}
	b.record(func() { delete(l.Owners, tokenID) })
	l.Owners[tokenID] = to
	return nil
}

func (b *MemoryBank) NativeBalance(_ context.Context, owner models.Address) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.native[owner], nil
}

func (b *MemoryBank) SendNative(_ context.Context, from, to models.Address, amount decimal.Decimal) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	have := b.native[from]
	if have.LessThan(amount) {
		return fmt.Errorf("%w: %s holds %s native, requested %s", ErrInsufficientBalance, from, have, amount)
	}
	if from == to || amount.IsZero() {
		return nil
	}
	b.setNative(from, have.Sub(amount))
	b.setNative(to, b.native[to].Add(amount))
	return nil
}

func (b *MemoryBank) FundNative(owner models.Address, amount decimal.Decimal) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setNative(owner, b.native[owner].Add(amount))
	return nil
}

// ExportState returns a deep copy of the bank contents.
func (b *MemoryBank) ExportState() *models.BankState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneState(&models.BankState{
		Tokens:      b.tokens,
		Collections: b.collections,
		Native:      b.native,
	})
}

// ImportState replaces the bank contents and drops any pending undo steps.
func (b *MemoryBank) ImportState(state *models.BankState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
	if state == nil {
		return
	}
	cp := cloneState(state)
	if cp.Tokens != nil {
		b.tokens = cp.Tokens
	}
	if cp.Collections != nil {
		b.collections = cp.Collections
	}
	if cp.Native != nil {
		b.native = cp.Native
	}
}

func cloneState(src *models.BankState) *models.BankState {
	dst := &models.BankState{
		Tokens:      make(map[models.Address]*models.TokenLedger, len(src.Tokens)),
		Collections: make(map[models.Address]*models.CollectionLedger, len(src.Collections)),
		Native:      make(map[models.Address]decimal.Decimal, len(src.Native)),
	}
	for token, l := range src.Tokens {
		if l == nil {
			continue
		}
		cl := &models.TokenLedger{
			Balances:   make(map[models.Address]decimal.Decimal, len(l.Balances)),
			Allowances: make(map[models.Address]map[models.Address]decimal.Decimal, len(l.Allowances)),
		}
		for k, v := range l.Balances {
			cl.Balances[k] = v
		}
		for owner, spenders := range l.Allowances {
			m := make(map[models.Address]decimal.Decimal, len(spenders))
			for k, v := range spenders {
				m[k] = v
			}
			cl.Allowances[owner] = m
		}
		dst.Tokens[token] = cl
	}
	for collection, l := range src.Collections {
		if l == nil {
			continue
		}
		cl := &models.CollectionLedger{
			Owners:    make(map[uint64]models.Address, len(l.Owners)),
			Operators: make(map[models.Address]map[models.Address]bool, len(l.Operators)),
		}
		for k, v := range l.Owners {
			cl.Owners[k] = v
		}
		for owner, ops := range l.Operators {
			m := make(map[models.Address]bool, len(ops))
			for k, v := range ops {
				m[k] = v
			}
			cl.Operators[owner] = m
		}
		dst.Collections[collection] = cl
	}
	for k, v := range src.Native {
		dst.Native[k] = v
	}
	return dst
}

var _ BankInterface = (*MemoryBank)(nil)
