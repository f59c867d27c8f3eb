package engine

import (
	"context"
	"fmt"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	"github.com/KanoeWallet/Kanoe/internal/structures"
	"github.com/shopspring/decimal"
)

type seedPlan struct {
	title    string
	payToken models.Address
	price    decimal.Decimal
	limits   models.Limits
}

// Bootstrap grants the configured roles, authorizes the subscription controller
// on the ledger and, on an empty catalog, seeds plans and the development supply.
// Seed entries are validated up front since the catalog is not journaled.
func (k *Kanoe) Bootstrap(ctx context.Context) error {
	admin, err := models.ParseAddress(k.conf.Roles.Admin)
	if err != nil {
		return fmt.Errorf("roles.admin: %w", err)
	}
	server, err := models.ParseAddress(k.conf.Roles.Server)
	if err != nil {
		return fmt.Errorf("roles.server: %w", err)
	}
	seeds, err := seedPlans(k.conf)
	if err != nil {
		return err
	}

	return k.exec.Run(ctx, "bootstrap", providers.TypeApp, func(ctx context.Context) error {
		k.access.Assign(admin, models.RoleAdmin)
		k.access.Assign(server, models.RoleServer)
		if err := k.ledger.ChangeAllowed(admin, k.controller.Address(), true); err != nil {
			return err
		}
		if k.plans.Count() > 0 {
			return nil
		}

		if k.conf.Development.Enabled {
			stable, supply, err := devSupply(k.conf)
			if err != nil {
				return err
			}
			if err = k.bank.Mint(stable, admin, supply); err != nil {
				return err
			}
			k.logger.Infof(providers.TypeApp, "Minted %s of development token %s to %s", supply, stable, admin)
		}

		for _, p := range seeds {
			planId, err := k.plans.AddPlan(admin, p.title, p.payToken, p.price, p.limits)
			if err != nil {
				return fmt.Errorf("seed plan %q: %w", p.title, err)
			}
			k.logger.Infof(providers.TypeBilling, "Seeded plan %d %q", planId, p.title)
		}
		return nil
	})
}

func devSupply(conf *structures.Config) (models.Address, decimal.Decimal, error) {
	stable, err := models.ParseAddress(conf.Development.StableToken)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("development.stableToken: %w", err)
	}
	supply, err := decimal.NewFromString(conf.Development.StableSupply)
	if err != nil || supply.Sign() < 0 || !supply.IsInteger() {
		return "", decimal.Zero, fmt.Errorf("development.stableSupply: %w: %q", models.ErrInvalidArgument, conf.Development.StableSupply)
	}
	return stable, supply, nil
}

func seedPlans(conf *structures.Config) ([]seedPlan, error) {
	out := make([]seedPlan, 0, len(conf.Plans))
	for i, p := range conf.Plans {
		tokenSrc := p.PayToken
		if tokenSrc == "" && conf.Development.Enabled {
			tokenSrc = conf.Development.StableToken
		}
		payToken, err := models.ParseAddress(tokenSrc)
		if err != nil {
			return nil, fmt.Errorf("plans[%d].payToken: %w", i, err)
		}
		if payToken.IsZero() {
			return nil, fmt.Errorf("plans[%d].payToken: %w: zero address", i, models.ErrInvalidArgument)
		}
		if p.Title == "" {
			return nil, fmt.Errorf("plans[%d].title: %w: empty", i, models.ErrInvalidArgument)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil || price.Sign() <= 0 || !price.IsInteger() {
			return nil, fmt.Errorf("plans[%d].price: %w: %q", i, models.ErrInvalidArgument, p.Price)
		}
		stableMax := decimal.Zero
		if p.Limits.StableMaxSum != "" {
			stableMax, err = decimal.NewFromString(p.Limits.StableMaxSum)
			if err != nil || stableMax.Sign() < 0 {
				return nil, fmt.Errorf("plans[%d].limits.stableMaxSum: %w: %q", i, models.ErrInvalidArgument, p.Limits.StableMaxSum)
			}
		}
		out = append(out, seedPlan{
			title:    p.Title,
			payToken: payToken,
			price:    price,
			limits: models.Limits{
				SuccessorsMaxCount:   p.Limits.SuccessorsMaxCount,
				InheritancesMaxCount: p.Limits.InheritancesMaxCount,
				TokensMaxCount:       p.Limits.TokensMaxCount,
				StableMaxSum:         stableMax,
				MaxWalletsCount:      p.Limits.MaxWalletsCount,
			},
		})
	}
	return out, nil
}
