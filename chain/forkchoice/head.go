package forkchoice

import "github.com/bomanaps/zeam/types"

// GetHead computes the canonical head by walking down from root
// (latest_justified.root), at each step choosing the child with the
// greatest vote weight — a vote for a descendant counts toward every
// ancestor back to root — breaking ties by the greater block root.
// Walking stops at a block with no known children.
func GetHead(blocks map[[32]byte]*types.Block, root [32]byte, votes map[uint64]*types.SignedAttestation) [32]byte {
	return getHeadWithMinScore(blocks, root, votes, 0)
}

// getHeadWithMinScore is GetHead restricted to children whose vote
// weight reaches minScore, used to compute the safe target: the deepest
// block a supermajority of votes already supports.
func getHeadWithMinScore(blocks map[[32]byte]*types.Block, root [32]byte, votes map[uint64]*types.SignedAttestation, minScore int) [32]byte {
	rootBlock, ok := blocks[root]
	if !ok {
		return root
	}
	rootSlot := rootBlock.Slot

	weights := make(map[[32]byte]int)
	for _, sa := range votes {
		head := sa.Message.Head.Root
		if _, ok := blocks[head]; !ok {
			continue
		}
		for cur, ok := head, true; ok; {
			b, exists := blocks[cur]
			if !exists || b.Slot <= rootSlot {
				break
			}
			weights[cur]++
			cur, ok = b.ParentRoot, true
		}
	}

	children := make(map[[32]byte][][32]byte)
	for hash, block := range blocks {
		if hash == block.ParentRoot {
			continue
		}
		if weights[hash] >= minScore {
			children[block.ParentRoot] = append(children[block.ParentRoot], hash)
		}
	}

	current := root
	for {
		kids := children[current]
		if len(kids) == 0 {
			return current
		}
		best := kids[0]
		for _, candidate := range kids[1:] {
			if betterChild(candidate, best, weights) {
				best = candidate
			}
		}
		current = best
	}
}

func betterChild(a, b [32]byte, weights map[[32]byte]int) bool {
	wa, wb := weights[a], weights[b]
	if wa != wb {
		return wa > wb
	}
	return hashGreater(a, b)
}

func hashGreater(a, b [32]byte) bool {
	for i := 0; i < 32; i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}
