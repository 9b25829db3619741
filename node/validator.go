package node

import (
	"context"
	"encoding/hex"
	"log/slog"

	pubsub "github.com/libp2p/go-libp2p-pubsub"

	"github.com/bomanaps/zeam/chain/forkchoice"
	"github.com/bomanaps/zeam/chain/statetransition"
	"github.com/bomanaps/zeam/network/gossipsub"
	"github.com/bomanaps/zeam/observability/logging"
	"github.com/bomanaps/zeam/types"
)

// ValidatorDuties handles proposer and attester duties for every
// validator index this node holds a signing key for.
type ValidatorDuties struct {
	Indices            []uint64
	Keys               map[uint64]forkchoice.Signer
	FC                 *forkchoice.Store
	Topics             *gossipsub.Topics
	Signatures         *SignatureCache
	PublishBlock       func(context.Context, *pubsub.Topic, *types.SignedBlock) error
	PublishAttestation func(context.Context, *pubsub.Topic, *types.SignedAttestation) error
	Log                *slog.Logger
}

// HasProposal reports whether this node has a proposer for the slot.
func (v *ValidatorDuties) HasProposal(slot uint64) bool {
	for _, idx := range v.Indices {
		if statetransition.IsProposer(uint32(idx), slot, uint32(v.FC.NumValidators)) {
			return true
		}
	}
	return false
}

// OnInterval executes validator duties for the current interval:
// proposing at interval 0, attesting at interval 1. Interval 2 has no
// outbound duties — it only ingests late votes.
func (v *ValidatorDuties) OnInterval(ctx context.Context, slot, interval uint64) {
	switch interval {
	case 0:
		v.TryPropose(ctx, slot)
	case 1:
		v.TryAttest(ctx, slot)
	}
}

func (v *ValidatorDuties) TryPropose(ctx context.Context, slot uint64) {
	for _, idx := range v.Indices {
		if !statetransition.IsProposer(uint32(idx), slot, uint32(v.FC.NumValidators)) {
			continue
		}

		kp, ok := v.Keys[idx]
		if !ok {
			v.Log.Error("proposer key not found", "validator", idx)
			continue
		}

		signed, err := v.FC.ProduceBlock(slot, uint32(idx), kp)
		if err != nil {
			v.Log.Error("block proposal failed", "slot", slot, "proposer", idx, "err", err)
			continue
		}

		blockRoot, _ := signed.Message.HashTreeRoot()
		v.Log.Info("block signed",
			"slot", slot,
			"proposer", idx,
			"sig_prefix", hex.EncodeToString(signed.Signature.Rho[:8]),
		)
		if v.Signatures != nil {
			v.Signatures.Put(blockRoot, signed.Signature)
		}

		if err := v.PublishBlock(ctx, v.Topics.Block, signed); err != nil {
			v.Log.Error("failed to publish block", "slot", slot, "proposer", idx, "err", err)
			continue
		}
		v.Log.Info("proposed block", "slot", slot, "proposer", idx, "block_root", logging.ShortHash(blockRoot))
	}
}

func (v *ValidatorDuties) TryAttest(ctx context.Context, slot uint64) {
	for _, idx := range v.Indices {
		kp, ok := v.Keys[idx]
		if !ok {
			v.Log.Error("validator key not found", "validator", idx)
			continue
		}

		sa, err := v.FC.ProduceAttestation(slot, idx, kp)
		if err != nil {
			v.Log.Error("attestation failed", "slot", slot, "validator", idx, "err", err)
			continue
		}

		v.Log.Info("attestation signed",
			"slot", slot,
			"validator", idx,
			"sig_prefix", hex.EncodeToString(sa.Signature.Rho[:8]),
		)

		if err := v.PublishAttestation(ctx, v.Topics.Vote, sa); err != nil {
			v.Log.Error("failed to publish attestation", "slot", slot, "validator", idx, "err", err)
			continue
		}
		v.Log.Debug("published attestation", "slot", slot, "validator", idx, "target_slot", sa.Message.Target.Slot)
	}
}
