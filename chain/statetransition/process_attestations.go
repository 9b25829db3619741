package statetransition

import (
	"bytes"
	"sort"

	"github.com/OffchainLabs/go-bitfield"
	"github.com/bomanaps/zeam/ssz"
	"github.com/bomanaps/zeam/types"
)

// ProcessAttestations folds a block's attestations into justification and
// finalization state. Votes are tracked per target root in an in-memory
// map rebuilt from (and, at the end, flattened back into) the flat
// cross-referenced JustificationsRoots/JustificationsValidators pair.
// Working bitlists (justified_slots, per-target vote tallies) are staged
// as bitfield.Bitlist rather than hand-rolled byte-slice bit-twiddling;
// State's fields stay in the ssz.Bitlist wire form, a plain []byte cast
// away since both share the same packed-LSB-first-plus-sentinel layout.
//
// An attestation is accepted only if: its source is exactly the current
// working latest-justified checkpoint (no historical-hash lookup), its
// target slot does not exceed the state's slot, its source slot is
// strictly before its target slot, its target slot is justifiable
// relative to the slot finalized before this call, and its validator_id
// is in range. Rejected attestations are dropped silently; a malformed
// or conflicting attestation never fails the whole block.
//
// Reaching a ceil(2N/3) supermajority for a target justifies it; if no
// justifiable slot lies strictly between the justified source and the
// newly justified target, the source is finalized.
func ProcessAttestations(state *types.State, attestations []*types.SignedAttestation) (*types.State, error) {
	numValidators := uint64(state.Config.NumValidators)
	originalFinalizedSlot := state.LatestFinalized.Slot

	justifications := make(map[[32]byte]bitfield.Bitlist, len(state.JustificationsRoots))
	for i, root := range state.JustificationsRoots {
		votes := bitfield.NewBitlist(numValidators)
		src := bitfield.Bitlist(state.JustificationsValidators)
		for v := uint64(0); v < numValidators; v++ {
			if src.BitAt(uint64(i)*numValidators + v) {
				votes.SetBitAt(v, true)
			}
		}
		justifications[root] = votes
	}

	justifiedSlots := bitfield.Bitlist(state.JustifiedSlots.Clone())
	latestJustified := &types.Checkpoint{Root: state.LatestJustified.Root, Slot: state.LatestJustified.Slot}
	latestFinalized := &types.Checkpoint{Root: state.LatestFinalized.Root, Slot: state.LatestFinalized.Slot}

	for _, att := range attestations {
		data := att.Message
		source, target := data.Source, data.Target

		if target.Slot > state.Slot {
			continue
		}
		if source.Slot >= target.Slot {
			continue
		}
		if !source.Equal(latestJustified) {
			continue
		}
		justifiable, err := IsJustifiableSlot(originalFinalizedSlot, target.Slot)
		if err != nil || !justifiable {
			continue
		}
		if att.ValidatorID >= numValidators {
			continue
		}

		votes, ok := justifications[target.Root]
		if !ok {
			votes = bitfield.NewBitlist(numValidators)
			justifications[target.Root] = votes
		}
		if votes.BitAt(att.ValidatorID) {
			continue
		}
		votes.SetBitAt(att.ValidatorID, true)

		if 3*votes.Count() < 2*numValidators {
			continue
		}

		latestJustified = &types.Checkpoint{Root: target.Root, Slot: target.Slot}
		justifiedSlots = growBitlist(justifiedSlots, target.Slot+1)
		justifiedSlots.SetBitAt(target.Slot, true)
		delete(justifications, target.Root)

		hasJustifiableGap := false
		for s := source.Slot + 1; s < target.Slot; s++ {
			if j, err := IsJustifiableSlot(originalFinalizedSlot, s); err == nil && j {
				hasJustifiableGap = true
				break
			}
		}
		if !hasJustifiableGap {
			latestFinalized = &types.Checkpoint{Root: source.Root, Slot: source.Slot}
		}
	}

	sortedRoots := sortedJustificationRoots(justifications)
	flatVotes := flattenVotes(sortedRoots, justifications, numValidators)

	out := state.Copy()
	out.JustifiedSlots = ssz.Bitlist(justifiedSlots)
	out.LatestJustified = latestJustified
	out.LatestFinalized = latestFinalized
	out.JustificationsRoots = sortedRoots
	out.JustificationsValidators = flatVotes
	return out, nil
}

// growBitlist returns a bitlist of at least newLen data bits, preserving
// every existing bit; bitfield.Bitlist has no in-place resize.
func growBitlist(bl bitfield.Bitlist, newLen uint64) bitfield.Bitlist {
	if bl.Len() >= newLen {
		return bl
	}
	out := bitfield.NewBitlist(newLen)
	for i := uint64(0); i < bl.Len(); i++ {
		if bl.BitAt(i) {
			out.SetBitAt(i, true)
		}
	}
	return out
}

// sortedJustificationRoots returns the roots in deterministic (ascending
// byte) order, as required by State's JustificationsRoots invariant.
func sortedJustificationRoots(justifications map[[32]byte]bitfield.Bitlist) [][32]byte {
	roots := make([][32]byte, 0, len(justifications))
	for root := range justifications {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		return bytes.Compare(roots[i][:], roots[j][:]) < 0
	})
	return roots
}

// flattenVotes serializes per-root validator votes into a single SSZ
// bitlist, numValidators bits per root in sortedRoots order.
func flattenVotes(sortedRoots [][32]byte, justifications map[[32]byte]bitfield.Bitlist, numValidators uint64) ssz.Bitlist {
	bl := ssz.NewBitlist()
	for _, root := range sortedRoots {
		votes := justifications[root]
		for v := uint64(0); v < numValidators; v++ {
			bl = ssz.AppendBit(bl, votes.BitAt(v))
		}
	}
	return bl
}
