package types

import (
	"github.com/bomanaps/zeam/leansig"
	"github.com/bomanaps/zeam/ssz"
)

// AttestationData is the content a validator votes for: the slot the
// vote was cast at, and the head/target/source checkpoints. Invariant:
// source.slot <= target.slot <= slot.
type AttestationData struct {
	Slot   uint64
	Head   *Checkpoint
	Target *Checkpoint
	Source *Checkpoint
}

// MarshalSSZ encodes attestation data: slot inline, three checkpoints
// inline (fixed-size containers).
func (a *AttestationData) MarshalSSZ() ([]byte, error) {
	var e ssz.Encoder
	e.PutUint64(a.Slot)
	headBytes, err := a.Head.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	targetBytes, err := a.Target.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	sourceBytes, err := a.Source.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	e.PutBytes(headBytes)
	e.PutBytes(targetBytes)
	e.PutBytes(sourceBytes)
	return e.Bytes(), nil
}

// UnmarshalSSZ decodes attestation data.
func (a *AttestationData) UnmarshalSSZ(data []byte) error {
	const want = 8 + 3*checkpointSize
	if err := ssz.ExpectLength(data, want, "AttestationData"); err != nil {
		return err
	}
	d := ssz.NewDecoder(data, "AttestationData")
	slot, err := d.Uint64()
	if err != nil {
		return err
	}
	headBytes, err := d.Bytes(checkpointSize)
	if err != nil {
		return err
	}
	targetBytes, err := d.Bytes(checkpointSize)
	if err != nil {
		return err
	}
	sourceBytes, err := d.Bytes(checkpointSize)
	if err != nil {
		return err
	}
	head, target, source := new(Checkpoint), new(Checkpoint), new(Checkpoint)
	if err := head.UnmarshalSSZ(headBytes); err != nil {
		return err
	}
	if err := target.UnmarshalSSZ(targetBytes); err != nil {
		return err
	}
	if err := source.UnmarshalSSZ(sourceBytes); err != nil {
		return err
	}
	a.Slot, a.Head, a.Target, a.Source = slot, head, target, source
	return ssz.ExpectConsumed(data, d.Cursor(), "AttestationData")
}

// HashTreeRoot merkleizes the four fields of attestation data.
func (a *AttestationData) HashTreeRoot() ([32]byte, error) {
	headRoot, err := a.Head.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	targetRoot, err := a.Target.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	sourceRoot, err := a.Source.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	fields := []ssz.Root{
		ssz.HashTreeRootUint64(a.Slot),
		headRoot,
		targetRoot,
		sourceRoot,
	}
	return ssz.MerkleizeContainer(fields), nil
}

// SignedAttestation is a validator's signed vote: validator_id < the
// chain's num_validators, message is the attestation data, and the
// signature is verified against the validator's pubkey at
// epoch=message.slot.
type SignedAttestation struct {
	ValidatorID uint64
	Message     *AttestationData
	Signature   leansig.Signature
}

// MarshalSSZ encodes a signed attestation: validator_id inline, message
// offset-addressed (fixed-size but kept variable-style for symmetry with
// Signature), signature offset-addressed.
func (s *SignedAttestation) MarshalSSZ() ([]byte, error) {
	messageBytes, err := s.Message.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	sigBytes, err := s.Signature.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	var e ssz.Encoder
	e.PutUint64(s.ValidatorID)
	e.PutOffset(messageBytes)
	e.PutOffset(sigBytes)
	return e.Bytes(), nil
}

// UnmarshalSSZ decodes a signed attestation.
func (s *SignedAttestation) UnmarshalSSZ(data []byte) error {
	d := ssz.NewDecoder(data, "SignedAttestation")
	validatorID, err := d.Uint64()
	if err != nil {
		return err
	}
	messageOff, err := d.Offset()
	if err != nil {
		return err
	}
	sigOff, err := d.Offset()
	if err != nil {
		return err
	}
	parts, err := ssz.ResolveOffsets(data, []uint32{messageOff, sigOff, uint32(len(data))}, "SignedAttestation")
	if err != nil {
		return err
	}
	message := new(AttestationData)
	if err := message.UnmarshalSSZ(parts[0]); err != nil {
		return err
	}
	var sig leansig.Signature
	if err := sig.UnmarshalSSZ(parts[1]); err != nil {
		return err
	}
	s.ValidatorID = validatorID
	s.Message = message
	s.Signature = sig
	return nil
}

// HashTreeRoot merkleizes the signed attestation's three fields.
func (s *SignedAttestation) HashTreeRoot() ([32]byte, error) {
	messageRoot, err := s.Message.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	sigRoot, err := s.Signature.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	fields := []ssz.Root{
		ssz.HashTreeRootUint64(s.ValidatorID),
		messageRoot,
		sigRoot,
	}
	return ssz.MerkleizeContainer(fields), nil
}
