package assets

import "errors"

var (
	ErrInsufficientBalance   = errors.New("assets: insufficient balance")
	ErrInsufficientAllowance = errors.New("assets: insufficient allowance")
	ErrInvalidAmount         = errors.New("assets: amount must not be negative")
	ErrNotOwner              = errors.New("assets: transfer from non-owner")
	ErrNotApproved           = errors.New("assets: operator not approved")
	ErrTokenNotFound         = errors.New("assets: token id does not exist")
	ErrTokenExists           = errors.New("assets: token id already minted")
	ErrZeroAddress           = errors.New("assets: zero address")
)
