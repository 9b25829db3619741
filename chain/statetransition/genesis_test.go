package statetransition

import (
	"encoding/hex"
	"testing"

	"github.com/bomanaps/zeam/leansig"
	"github.com/bomanaps/zeam/types"
)

// referenceGenesisRoot is the published tree-hash root of the genesis
// state for num_validators=4096, genesis_time=0, every collection
// empty — the bit-exact vector every conforming implementation's
// empty-state encoding must reproduce.
const referenceGenesisRoot = "933fc69092f542e467681ac6cf9dae4a616ba5ea9c3c61f93cbcaf0be3548e01"

func TestGenesisStateHashTreeRootMatchesReference(t *testing.T) {
	spec := &types.GenesisSpec{
		GenesisTime:      0,
		ValidatorPubkeys: make([]leansig.PublicKey, 4096),
	}

	state, err := GenerateGenesis(spec)
	if err != nil {
		t.Fatalf("GenerateGenesis failed: %v", err)
	}

	root, err := state.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot failed: %v", err)
	}

	want, err := hex.DecodeString(referenceGenesisRoot)
	if err != nil {
		t.Fatalf("invalid reference hex: %v", err)
	}
	if len(want) != 32 {
		t.Fatalf("reference vector must be 32 bytes, got %d", len(want))
	}

	got := hex.EncodeToString(root[:])
	if got != referenceGenesisRoot {
		t.Fatalf("genesis state root mismatch:\n  got:  %s\n  want: %s", got, referenceGenesisRoot)
	}
}
