package services

import (
	"fmt"
	"time"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/structures"
)

const DefaultBillingPeriod = 30 * 24 * time.Hour

// Clock returns the current time. Services take it as a dependency so expiry
// can be driven deterministically.
type Clock func() time.Time

func SystemClock() Clock {
	return func() time.Time { return time.Now().UTC() }
}

type BillingSettings struct {
	Controller    models.Address
	PaymentHolder models.Address
	Period        time.Duration
}

type DistributorSettings struct {
	Address      models.Address
	EscrowWallet models.Address
}

func NewBillingSettings(conf *structures.Config) (BillingSettings, error) {
	controller, err := models.ParseAddress(conf.Billing.ControllerAddress)
	if err != nil {
		return BillingSettings{}, fmt.Errorf("billing.controllerAddress: %w", err)
	}
	holder, err := models.ParseAddress(conf.Billing.PaymentHolder)
	if err != nil {
		return BillingSettings{}, fmt.Errorf("billing.paymentHolder: %w", err)
	}
	period := conf.Billing.Period
	if period <= 0 {
		period = DefaultBillingPeriod
	}
	return BillingSettings{Controller: controller, PaymentHolder: holder, Period: period}, nil
}

func NewDistributorSettings(conf *structures.Config) (DistributorSettings, error) {
	addr, err := models.ParseAddress(conf.Distributor.Address)
	if err != nil {
		return DistributorSettings{}, fmt.Errorf("distributor.address: %w", err)
	}
	escrow, err := models.ParseAddress(conf.Distributor.EscrowWallet)
	if err != nil {
		return DistributorSettings{}, fmt.Errorf("distributor.escrowWallet: %w", err)
	}
	return DistributorSettings{Address: addr, EscrowWallet: escrow}, nil
}
