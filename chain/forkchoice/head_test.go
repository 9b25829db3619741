package forkchoice

import (
	"testing"

	"github.com/bomanaps/zeam/types"
)

func block(slot uint64, parent [32]byte) *types.Block {
	return &types.Block{
		Slot:       slot,
		ParentRoot: parent,
		Body:       &types.BlockBody{Attestations: []*types.SignedAttestation{}},
	}
}

func vote(validatorID uint64, head [32]byte) *types.SignedAttestation {
	return &types.SignedAttestation{
		ValidatorID: validatorID,
		Message:     &types.AttestationData{Head: &types.Checkpoint{Root: head}},
	}
}

func TestGetHeadWalksToHeaviestLeaf(t *testing.T) {
	root := [32]byte{0x00}
	childA := [32]byte{0x01}
	childB := [32]byte{0x02}

	blocks := map[[32]byte]*types.Block{
		root:   block(0, [32]byte{}),
		childA: block(1, root),
		childB: block(1, root),
	}

	// Two votes for childA, one for childB: childA should win.
	votes := map[uint64]*types.SignedAttestation{
		0: vote(0, childA),
		1: vote(1, childA),
		2: vote(2, childB),
	}

	head := GetHead(blocks, root, votes)
	if head != childA {
		t.Fatalf("expected head %x, got %x", childA, head)
	}
}

func TestGetHeadTieBreaksOnGreaterBlockRoot(t *testing.T) {
	root := [32]byte{0x00}
	childLow := [32]byte{0x01}
	childHigh := [32]byte{0x02}

	blocks := map[[32]byte]*types.Block{
		root:      block(0, [32]byte{}),
		childLow:  block(1, root),
		childHigh: block(1, root),
	}

	// Equal weight: the tie-break must prefer the greater root byte string.
	votes := map[uint64]*types.SignedAttestation{
		0: vote(0, childLow),
		1: vote(1, childHigh),
	}

	head := GetHead(blocks, root, votes)
	if head != childHigh {
		t.Fatalf("expected tie-break winner %x, got %x", childHigh, head)
	}
}

func TestGetHeadFollowsDescendantChain(t *testing.T) {
	root := [32]byte{0x00}
	mid := [32]byte{0x01}
	leaf := [32]byte{0x02}

	blocks := map[[32]byte]*types.Block{
		root: block(0, [32]byte{}),
		mid:  block(1, root),
		leaf: block(2, mid),
	}

	votes := map[uint64]*types.SignedAttestation{
		0: vote(0, leaf),
	}

	head := GetHead(blocks, root, votes)
	if head != leaf {
		t.Fatalf("expected head to follow single vote to the leaf %x, got %x", leaf, head)
	}
}

func TestGetHeadReturnsRootWithNoChildren(t *testing.T) {
	root := [32]byte{0x00}
	blocks := map[[32]byte]*types.Block{
		root: block(0, [32]byte{}),
	}
	head := GetHead(blocks, root, nil)
	if head != root {
		t.Fatalf("expected root as head with no children, got %x", head)
	}
}

func TestGetHeadIgnoresVotesForUnknownBlocks(t *testing.T) {
	root := [32]byte{0x00}
	childA := [32]byte{0x01}
	unknown := [32]byte{0xFF}

	blocks := map[[32]byte]*types.Block{
		root:   block(0, [32]byte{}),
		childA: block(1, root),
	}

	votes := map[uint64]*types.SignedAttestation{
		0: vote(0, unknown),
	}

	head := GetHead(blocks, root, votes)
	if head != childA {
		t.Fatalf("expected childA as head when only vote targets an unknown block, got %x", head)
	}
}
