package models

import "errors"

var (
	ErrNotAuthorized         = errors.New("kanoe: not authorized")
	ErrPlanNotFound          = errors.New("kanoe: plan not found")
	ErrSubscriptionNotActive = errors.New("kanoe: subscription not active")
	ErrLimitExceeded         = errors.New("kanoe: limit exceeded")
	ErrInvalidPercentageSum  = errors.New("kanoe: percentages sum exceeds 100")
	ErrTransferFailed        = errors.New("kanoe: transfer failed")
	ErrInvalidArgument       = errors.New("kanoe: invalid argument")
	ErrPaymentIdOutOfOrder   = errors.New("kanoe: payment id below max recorded id")
)
