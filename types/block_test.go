package types

import (
	"crypto/sha256"
	"testing"

	"github.com/bomanaps/zeam/leansig"
)

func signFixture(t *testing.T, seed uint64, epoch uint32, msg [32]byte) leansig.Signature {
	t.Helper()
	kp, err := leansig.GenerateKeypair(seed, 0, 8)
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	sig, err := kp.Sign(epoch, msg)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	return sig
}

func TestBlockSSZRoundTripEmptyBody(t *testing.T) {
	block := &Block{
		Slot:          0,
		ProposerIndex: 0,
		ParentRoot:    ZeroHash,
		StateRoot:     ZeroHash,
		Body:          &BlockBody{Attestations: []*SignedAttestation{}},
	}

	data, err := block.MarshalSSZ()
	if err != nil {
		t.Fatalf("MarshalSSZ failed: %v", err)
	}

	decoded := new(Block)
	if err := decoded.UnmarshalSSZ(data); err != nil {
		t.Fatalf("UnmarshalSSZ failed: %v", err)
	}
	if len(decoded.Body.Attestations) != 0 {
		t.Fatalf("expected empty attestation list, got %d entries", len(decoded.Body.Attestations))
	}

	rootBefore, err := block.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot failed: %v", err)
	}
	rootAfter, err := decoded.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot failed: %v", err)
	}
	if rootBefore != rootAfter {
		t.Fatal("hash tree root changed across round trip")
	}
}

func TestBlockSSZRoundTripWithAttestations(t *testing.T) {
	msg := sha256.Sum256([]byte("attestation round trip"))
	sig := signFixture(t, 1, 0, msg)

	att := &SignedAttestation{
		ValidatorID: 3,
		Message: &AttestationData{
			Slot:   5,
			Head:   &Checkpoint{Root: ZeroHash, Slot: 5},
			Target: &Checkpoint{Root: ZeroHash, Slot: 4},
			Source: &Checkpoint{Root: ZeroHash, Slot: 0},
		},
		Signature: sig,
	}

	block := &Block{
		Slot:          5,
		ProposerIndex: 1,
		ParentRoot:    [32]byte{0xAA},
		StateRoot:     [32]byte{0xBB},
		Body:          &BlockBody{Attestations: []*SignedAttestation{att}},
	}

	data, err := block.MarshalSSZ()
	if err != nil {
		t.Fatalf("MarshalSSZ failed: %v", err)
	}

	decoded := new(Block)
	if err := decoded.UnmarshalSSZ(data); err != nil {
		t.Fatalf("UnmarshalSSZ failed: %v", err)
	}
	if len(decoded.Body.Attestations) != 1 {
		t.Fatalf("expected 1 attestation, got %d", len(decoded.Body.Attestations))
	}
	if decoded.Body.Attestations[0].ValidatorID != 3 {
		t.Fatalf("validator id mismatch: got %d", decoded.Body.Attestations[0].ValidatorID)
	}
	if decoded.ParentRoot != block.ParentRoot || decoded.StateRoot != block.StateRoot {
		t.Fatal("fixed-field roots changed across round trip")
	}
}

func TestSignedBlockSSZRoundTrip(t *testing.T) {
	block := &Block{
		Slot:          2,
		ProposerIndex: 0,
		ParentRoot:    ZeroHash,
		StateRoot:     ZeroHash,
		Body:          &BlockBody{Attestations: []*SignedAttestation{}},
	}
	blockRoot, err := block.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot failed: %v", err)
	}
	sig := signFixture(t, 2, 2, blockRoot)

	signed := &SignedBlock{Message: block, Signature: sig}

	data, err := signed.MarshalSSZ()
	if err != nil {
		t.Fatalf("MarshalSSZ failed: %v", err)
	}

	decoded := new(SignedBlock)
	if err := decoded.UnmarshalSSZ(data); err != nil {
		t.Fatalf("UnmarshalSSZ failed: %v", err)
	}
	if decoded.Message.Slot != signed.Message.Slot {
		t.Fatalf("slot mismatch: got %d, want %d", decoded.Message.Slot, signed.Message.Slot)
	}

	rootBefore, err := signed.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot failed: %v", err)
	}
	rootAfter, err := decoded.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot failed: %v", err)
	}
	if rootBefore != rootAfter {
		t.Fatal("hash tree root changed across round trip")
	}
}
