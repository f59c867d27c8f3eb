package providers

import (
	"errors"
	"fmt"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/structures"
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %w", v.Errors)
	}

	var errs []error
	addresses := map[string]string{
		"billing.controllerAddress": cv.conf.Billing.ControllerAddress,
		"billing.paymentHolder":     cv.conf.Billing.PaymentHolder,
		"distributor.address":       cv.conf.Distributor.Address,
		"distributor.escrowWallet":  cv.conf.Distributor.EscrowWallet,
		"roles.admin":               cv.conf.Roles.Admin,
		"roles.server":              cv.conf.Roles.Server,
	}
	for key, value := range addresses {
		if _, err := models.ParseAddress(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	if cv.conf.Billing.Period < 0 {
		errs = append(errs, errors.New("billing.period must not be negative"))
	}

	switch cv.conf.Cache.Driver {
	case "", "memory":
	case "redis":
		if cv.conf.Cache.Enabled && cv.conf.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.driver %q is not one of memory, redis", cv.conf.Cache.Driver))
	}

	if cv.conf.Development.Enabled {
		if _, err := models.ParseAddress(cv.conf.Development.StableToken); err != nil {
			errs = append(errs, fmt.Errorf("development.stableToken: %w", err))
		}
		if !isAmount(cv.conf.Development.StableSupply, false) {
			errs = append(errs, fmt.Errorf("development.stableSupply %q is not a token amount", cv.conf.Development.StableSupply))
		}
	}

	for i, p := range cv.conf.Plans {
		if p.Title == "" {
			errs = append(errs, fmt.Errorf("plans[%d].title is required", i))
		}
		if p.PayToken == "" {
			if !cv.conf.Development.Enabled {
				errs = append(errs, fmt.Errorf("plans[%d].payToken is required outside development", i))
			}
		} else if _, err := models.ParseAddress(p.PayToken); err != nil {
			errs = append(errs, fmt.Errorf("plans[%d].payToken: %w", i, err))
		}
		if !isAmount(p.Price, true) {
			errs = append(errs, fmt.Errorf("plans[%d].price %q must be a positive integer", i, p.Price))
		}
		if p.Limits.StableMaxSum != "" && !isAmount(p.Limits.StableMaxSum, false) {
			errs = append(errs, fmt.Errorf("plans[%d].limits.stableMaxSum %q is not a token amount", i, p.Limits.StableMaxSum))
		}
	}
	return errors.Join(errs...)
}

func isAmount(s string, positive bool) bool {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() || d.Sign() < 0 {
		return false
	}
	return !positive || d.Sign() > 0
}
