package types

import (
	"github.com/bomanaps/zeam/leansig"
	"github.com/bomanaps/zeam/ssz"
)

// BlockBody carries the block's payload: an ordered sequence of signed
// attestations, each independently verified before inclusion, bounded
// by VALIDATOR_REGISTRY_LIMIT.
type BlockBody struct {
	Attestations []*SignedAttestation
}

// MarshalSSZ encodes the body as a single offset-addressed list field.
func (b *BlockBody) MarshalSSZ() ([]byte, error) {
	encoded, err := encodeAttestationList(b.Attestations)
	if err != nil {
		return nil, err
	}
	var e ssz.Encoder
	e.PutOffset(encoded)
	return e.Bytes(), nil
}

// UnmarshalSSZ decodes a block body.
func (b *BlockBody) UnmarshalSSZ(data []byte) error {
	d := ssz.NewDecoder(data, "BlockBody")
	listOff, err := d.Offset()
	if err != nil {
		return err
	}
	parts, err := ssz.ResolveOffsets(data, []uint32{listOff, uint32(len(data))}, "BlockBody")
	if err != nil {
		return err
	}
	atts, err := decodeAttestationList(parts[0])
	if err != nil {
		return err
	}
	b.Attestations = atts
	return nil
}

// HashTreeRoot merkleizes the body as a single list field mixed with its
// length, bounded by VALIDATOR_REGISTRY_LIMIT.
func (b *BlockBody) HashTreeRoot() ([32]byte, error) {
	chunks := make([]ssz.Root, len(b.Attestations))
	for i, a := range b.Attestations {
		root, err := a.HashTreeRoot()
		if err != nil {
			return ssz.Root{}, err
		}
		chunks[i] = root
	}
	listRoot := ssz.HashTreeRootList(chunks, ValidatorRegistryLimit)
	return ssz.MerkleizeContainer([]ssz.Root{listRoot}), nil
}

// encodeAttestationList lays out a list of variable-size elements as a
// leading offset table (one 4-byte offset per element, counted from the
// start of the list's own bytes) followed by each element's encoding,
// so the element count is recoverable from the first offset alone.
func encodeAttestationList(atts []*SignedAttestation) ([]byte, error) {
	encoded := make([][]byte, len(atts))
	for i, a := range atts {
		b, err := a.MarshalSSZ()
		if err != nil {
			return nil, err
		}
		encoded[i] = b
	}
	base := len(atts) * ssz.OffsetSize
	out := make([]byte, base)
	cursor := base
	for i, b := range encoded {
		ssz.PutOffsetAt(out, i*ssz.OffsetSize, uint32(cursor))
		cursor += len(b)
	}
	for _, b := range encoded {
		out = append(out, b...)
	}
	return out, nil
}

func decodeAttestationList(data []byte) ([]*SignedAttestation, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < ssz.OffsetSize {
		return nil, &ssz.DecodeError{Kind: ssz.ErrKindShortBuffer, Context: "BlockBody.Attestations"}
	}
	first := ssz.GetOffsetAt(data, 0)
	if int(first)%ssz.OffsetSize != 0 || int(first) > len(data) {
		return nil, &ssz.DecodeError{Kind: ssz.ErrKindMalformedOffset, Context: "BlockBody.Attestations"}
	}
	n := int(first) / ssz.OffsetSize
	offsets := make([]uint32, n+1)
	for i := 0; i < n; i++ {
		offsets[i] = ssz.GetOffsetAt(data, i*ssz.OffsetSize)
	}
	offsets[n] = uint32(len(data))
	parts, err := ssz.ResolveOffsets(data, offsets, "BlockBody.Attestations")
	if err != nil {
		return nil, err
	}
	out := make([]*SignedAttestation, n)
	for i, part := range parts {
		sa := new(SignedAttestation)
		if err := sa.UnmarshalSSZ(part); err != nil {
			return nil, err
		}
		out[i] = sa
	}
	return out, nil
}

// Block is a complete, unsigned block. proposer_index must equal
// slot mod num_validators.
type Block struct {
	Slot          uint64
	ProposerIndex uint32
	ParentRoot    [32]byte
	StateRoot     [32]byte
	Body          *BlockBody
}

// MarshalSSZ encodes the block: fixed fields inline, body offset-addressed.
func (b *Block) MarshalSSZ() ([]byte, error) {
	bodyBytes, err := b.Body.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	var e ssz.Encoder
	e.PutUint64(b.Slot)
	e.PutUint32(b.ProposerIndex)
	e.PutBytes(b.ParentRoot[:])
	e.PutBytes(b.StateRoot[:])
	e.PutOffset(bodyBytes)
	return e.Bytes(), nil
}

// UnmarshalSSZ decodes a block.
func (b *Block) UnmarshalSSZ(data []byte) error {
	d := ssz.NewDecoder(data, "Block")
	slot, err := d.Uint64()
	if err != nil {
		return err
	}
	proposer, err := d.Uint32()
	if err != nil {
		return err
	}
	parentRoot, err := d.Bytes(32)
	if err != nil {
		return err
	}
	stateRoot, err := d.Bytes(32)
	if err != nil {
		return err
	}
	bodyOff, err := d.Offset()
	if err != nil {
		return err
	}
	parts, err := ssz.ResolveOffsets(data, []uint32{bodyOff, uint32(len(data))}, "Block")
	if err != nil {
		return err
	}
	body := new(BlockBody)
	if err := body.UnmarshalSSZ(parts[0]); err != nil {
		return err
	}
	b.Slot = slot
	b.ProposerIndex = proposer
	copy(b.ParentRoot[:], parentRoot)
	copy(b.StateRoot[:], stateRoot)
	b.Body = body
	return nil
}

// HashTreeRoot merkleizes the block's five fields.
func (b *Block) HashTreeRoot() ([32]byte, error) {
	bodyRoot, err := b.Body.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	fields := []ssz.Root{
		ssz.HashTreeRootUint64(b.Slot),
		ssz.HashTreeRootUint32(b.ProposerIndex),
		ssz.HashTreeRootBytes(b.ParentRoot[:]),
		ssz.HashTreeRootBytes(b.StateRoot[:]),
		bodyRoot,
	}
	return ssz.MerkleizeContainer(fields), nil
}

// Copy returns a value copy of the block; Body.Attestations is shared
// (attestations are immutable once included).
func (b *Block) Copy() *Block {
	out := *b
	return &out
}

// SignedBlock is the gossip/wire envelope for a block: the proposer's
// signature is verified against its pubkey at epoch=message.slot.
type SignedBlock struct {
	Message   *Block
	Signature leansig.Signature
}

// MarshalSSZ encodes a signed block as two offset-addressed fields.
func (s *SignedBlock) MarshalSSZ() ([]byte, error) {
	messageBytes, err := s.Message.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	sigBytes, err := s.Signature.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	var e ssz.Encoder
	e.PutOffset(messageBytes)
	e.PutOffset(sigBytes)
	return e.Bytes(), nil
}

// UnmarshalSSZ decodes a signed block.
func (s *SignedBlock) UnmarshalSSZ(data []byte) error {
	d := ssz.NewDecoder(data, "SignedBlock")
	messageOff, err := d.Offset()
	if err != nil {
		return err
	}
	sigOff, err := d.Offset()
	if err != nil {
		return err
	}
	parts, err := ssz.ResolveOffsets(data, []uint32{messageOff, sigOff, uint32(len(data))}, "SignedBlock")
	if err != nil {
		return err
	}
	message := new(Block)
	if err := message.UnmarshalSSZ(parts[0]); err != nil {
		return err
	}
	var sig leansig.Signature
	if err := sig.UnmarshalSSZ(parts[1]); err != nil {
		return err
	}
	s.Message = message
	s.Signature = sig
	return nil
}

// HashTreeRoot merkleizes the signed block's two fields.
func (s *SignedBlock) HashTreeRoot() ([32]byte, error) {
	messageRoot, err := s.Message.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	sigRoot, err := s.Signature.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	return ssz.MerkleizeContainer([]ssz.Root{messageRoot, sigRoot}), nil
}
