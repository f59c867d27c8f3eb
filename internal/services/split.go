package services

import (
	"fmt"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SplitByWeights divides amount by literal percentages: share_i = floor(amount*w_i/100).
// The truncation dust, amount minus the sum of shares, goes to the last successor
// when it is smaller than the number of successors. A larger residue only arises
// from weights summing below 100 and stays with the owner.
func SplitByWeights(amount decimal.Decimal, weights []uint64) ([]decimal.Decimal, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights", models.ErrInvalidArgument)
	}
	if amount.Sign() < 0 || !amount.IsInteger() {
		return nil, fmt.Errorf("%w: amount %s", models.ErrInvalidArgument, amount)
	}
	if err := checkPercentageSum(weights); err != nil {
		return nil, err
	}

	shares := make([]decimal.Decimal, len(weights))
	total := decimal.Zero
	for i, w := range weights {
		q, _ := amount.Mul(decimal.NewFromUint64(w)).QuoRem(hundred, 0)
		shares[i] = q
		total = total.Add(q)
	}
	dust := amount.Sub(total)
	if dust.Sign() > 0 && dust.LessThan(decimal.NewFromInt(int64(len(weights)))) {
		last := len(shares) - 1
		shares[last] = shares[last].Add(dust)
	}
	return shares, nil
}

func checkPercentageSum(weights []uint64) error {
	var sum uint64
	for _, w := range weights {
		if w > 100 {
			return fmt.Errorf("%w: weight %d", models.ErrInvalidPercentageSum, w)
		}
		sum += w
	}
	if sum > 100 {
		return fmt.Errorf("%w: got %d", models.ErrInvalidPercentageSum, sum)
	}
	return nil
}
