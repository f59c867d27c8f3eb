// Package assets defines the asset-transfer capability consumed by the billing and
// distribution services, with an in-memory journaled implementation.
package assets

import (
	"context"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/shopspring/decimal"
)

// TokenInterface is a fungible token ledger keyed by token address.
type TokenInterface interface {
	BalanceOf(ctx context.Context, token, owner models.Address) (decimal.Decimal, error)
	Allowance(ctx context.Context, token, owner, spender models.Address) (decimal.Decimal, error)
	Transfer(ctx context.Context, token, from, to models.Address, amount decimal.Decimal) error
	TransferFrom(ctx context.Context, token, spender, from, to models.Address, amount decimal.Decimal) error
}

// CollectionInterface is a non-fungible collection registry keyed by collection address.
type CollectionInterface interface {
	OwnerOf(ctx context.Context, collection models.Address, tokenID uint64) (models.Address, error)
	IsApprovedForAll(ctx context.Context, collection, owner, operator models.Address) (bool, error)
	SetApprovalForAll(ctx context.Context, collection, owner, operator models.Address, approved bool) error
	SafeTransferFrom(ctx context.Context, collection, operator, from, to models.Address, tokenID uint64) error
}

// NativeInterface moves the chain's native value.
type NativeInterface interface {
	NativeBalance(ctx context.Context, owner models.Address) (decimal.Decimal, error)
	SendNative(ctx context.Context, from, to models.Address, amount decimal.Decimal) error
}

// JournalInterface lets the executor undo every mutation made after a checkpoint.
type JournalInterface interface {
	Checkpoint() int
	RevertTo(checkpoint int)
	Commit()
}

// BankInterface is the full capability set the engine runs against.
type BankInterface interface {
	TokenInterface
	CollectionInterface
	NativeInterface
	JournalInterface
	Approve(ctx context.Context, token, owner, spender models.Address, amount decimal.Decimal) error
	Mint(token, to models.Address, amount decimal.Decimal) error
	MintNft(collection, to models.Address, tokenID uint64) error
	FundNative(owner models.Address, amount decimal.Decimal) error
	ExportState() *models.BankState
	ImportState(state *models.BankState)
}
