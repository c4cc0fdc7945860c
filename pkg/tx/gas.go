package tx

import "github.com/Klingon-tech/hashcase/pkg/types"

// DefaultGasBudget is used when no budget is configured (0.05 SUI).
const DefaultGasBudget uint64 = 50_000_000

// GasCostSummary is the gas section of transaction effects.
type GasCostSummary struct {
	ComputationCost         types.BigUint `json:"computationCost"`
	StorageCost             types.BigUint `json:"storageCost"`
	StorageRebate           types.BigUint `json:"storageRebate"`
	NonRefundableStorageFee types.BigUint `json:"nonRefundableStorageFee"`
}

// Net returns computation + storage - rebate, clamped at zero. A rebate
// larger than the cost means the sender was refunded.
func (g GasCostSummary) Net() uint64 {
	cost := uint64(g.ComputationCost) + uint64(g.StorageCost)
	if uint64(g.StorageRebate) >= cost {
		return 0
	}
	return cost - uint64(g.StorageRebate)
}

// Rebated reports whether the rebate exceeded the cost.
func (g GasCostSummary) Rebated() bool {
	return uint64(g.StorageRebate) > uint64(g.ComputationCost)+uint64(g.StorageCost)
}

// SelectGasCoin picks the payment coin for a transaction: the first coin
// whose balance covers the budget, otherwise the first coin. Coins in
// exclude are skipped. Returns false when no coin is eligible.
func SelectGasCoin(coins []GasCoinCandidate, budget uint64, exclude map[types.ObjectID]bool) (GasCoinCandidate, bool) {
	var first *GasCoinCandidate
	for i := range coins {
		c := &coins[i]
		if exclude[c.Ref.ObjectID] {
			continue
		}
		if first == nil {
			first = c
		}
		if c.Balance >= budget {
			return *c, true
		}
	}
	if first == nil {
		return GasCoinCandidate{}, false
	}
	return *first, true
}

// GasCoinCandidate is a SUI coin that may pay for gas.
type GasCoinCandidate struct {
	Ref     types.ObjectRef
	Balance uint64
}
