package types

import "github.com/bomanaps/zeam/ssz"

// BlockHeader is the metadata summary of a block, embedded in State as
// latest_block_header. body_root = tree_hash(body); state_root is
// temporarily zero while the header is being installed by
// process_block_header, then backfilled by the next process_slot.
type BlockHeader struct {
	Slot          uint64
	ProposerIndex uint32
	ParentRoot    [32]byte
	StateRoot     [32]byte
	BodyRoot      [32]byte
}

const blockHeaderSize = 8 + 4 + 32 + 32 + 32

// MarshalSSZ encodes the header; every field is fixed-size.
func (h *BlockHeader) MarshalSSZ() ([]byte, error) {
	var e ssz.Encoder
	e.PutUint64(h.Slot)
	e.PutUint32(h.ProposerIndex)
	e.PutBytes(h.ParentRoot[:])
	e.PutBytes(h.StateRoot[:])
	e.PutBytes(h.BodyRoot[:])
	return e.Bytes(), nil
}

// UnmarshalSSZ decodes a block header.
func (h *BlockHeader) UnmarshalSSZ(data []byte) error {
	if err := ssz.ExpectLength(data, blockHeaderSize, "BlockHeader"); err != nil {
		return err
	}
	d := ssz.NewDecoder(data, "BlockHeader")
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
	bodyRoot, err := d.Bytes(32)
	if err != nil {
		return err
	}
	h.Slot = slot
	h.ProposerIndex = proposer
	copy(h.ParentRoot[:], parentRoot)
	copy(h.StateRoot[:], stateRoot)
	copy(h.BodyRoot[:], bodyRoot)
	return ssz.ExpectConsumed(data, d.Cursor(), "BlockHeader")
}

// HashTreeRoot merkleizes the header's five fields.
func (h *BlockHeader) HashTreeRoot() ([32]byte, error) {
	fields := []ssz.Root{
		ssz.HashTreeRootUint64(h.Slot),
		ssz.HashTreeRootUint32(h.ProposerIndex),
		ssz.HashTreeRootBytes(h.ParentRoot[:]),
		ssz.HashTreeRootBytes(h.StateRoot[:]),
		ssz.HashTreeRootBytes(h.BodyRoot[:]),
	}
	return ssz.MerkleizeContainer(fields), nil
}

// Copy returns a shallow value copy of the header.
func (h *BlockHeader) Copy() *BlockHeader {
	out := *h
	return &out
}
