package tx

import (
	"testing"

	"github.com/Klingon-tech/hashcase/pkg/types"
)

func TestGasCostSummary_Net(t *testing.T) {
	tests := []struct {
		name    string
		g       GasCostSummary
		want    uint64
		rebated bool
	}{
		{"cost", GasCostSummary{ComputationCost: 1000, StorageCost: 500, StorageRebate: 200}, 1300, false},
		{"exact rebate", GasCostSummary{ComputationCost: 100, StorageRebate: 100}, 0, false},
		{"rebate exceeds", GasCostSummary{ComputationCost: 100, StorageRebate: 900}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Net(); got != tt.want {
				t.Errorf("Net() = %d, want %d", got, tt.want)
			}
			if got := tt.g.Rebated(); got != tt.rebated {
				t.Errorf("Rebated() = %v, want %v", got, tt.rebated)
			}
		})
	}
}

func TestSelectGasCoin(t *testing.T) {
	small := GasCoinCandidate{Ref: types.ObjectRef{ObjectID: types.ObjectID{0x01}}, Balance: 10}
	big := GasCoinCandidate{Ref: types.ObjectRef{ObjectID: types.ObjectID{0x02}}, Balance: 1000}
	coins := []GasCoinCandidate{small, big}

	got, ok := SelectGasCoin(coins, 500, nil)
	if !ok || got.Ref.ObjectID != big.Ref.ObjectID {
		t.Errorf("should pick first coin covering budget, got %s", got.Ref)
	}

	got, ok = SelectGasCoin(coins, 5000, nil)
	if !ok || got.Ref.ObjectID != small.Ref.ObjectID {
		t.Errorf("should fall back to first coin, got %s", got.Ref)
	}

	got, ok = SelectGasCoin(coins, 500, map[types.ObjectID]bool{big.Ref.ObjectID: true})
	if !ok || got.Ref.ObjectID != small.Ref.ObjectID {
		t.Errorf("excluded coin must not be picked, got %s", got.Ref)
	}

	if _, ok := SelectGasCoin(nil, 1, nil); ok {
		t.Error("no coins should report false")
	}
}

func TestParseMoveTarget(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"0x2::coin::join", false},
		{"0xabc::loyalty_points::spend_points", false},
		{"0x2::coin", true},
		{"0x2::1coin::join", true},
		{"zz::coin::join", true},
		{"0x2::coin::join-x", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMoveTarget(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMoveTarget(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoveTarget(%q): %v", tt.input, err)
			}
			if got.Module == "" || got.Function == "" {
				t.Errorf("ParseMoveTarget(%q) = %+v", tt.input, got)
			}
		})
	}

	tgt := MoveTarget{Package: types.ObjectID{31: 0x02}, Module: "coin", Function: "join"}
	if tgt.String() != "0x0000000000000000000000000000000000000000000000000000000000000002::coin::join" {
		t.Errorf("String() = %s", tgt)
	}
}
