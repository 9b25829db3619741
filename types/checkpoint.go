package types

import "github.com/bomanaps/zeam/ssz"

// Checkpoint summarizes a block as a justification or finalization
// anchor. The genesis checkpoint has Root=zero, Slot=0.
type Checkpoint struct {
	Root [32]byte
	Slot uint64
}

const checkpointSize = 32 + 8

// MarshalSSZ encodes a checkpoint: root inline, slot inline.
func (c *Checkpoint) MarshalSSZ() ([]byte, error) {
	var e ssz.Encoder
	e.PutBytes(c.Root[:])
	e.PutUint64(c.Slot)
	return e.Bytes(), nil
}

// UnmarshalSSZ decodes a checkpoint.
func (c *Checkpoint) UnmarshalSSZ(data []byte) error {
	if err := ssz.ExpectLength(data, checkpointSize, "Checkpoint"); err != nil {
		return err
	}
	d := ssz.NewDecoder(data, "Checkpoint")
	root, err := d.Bytes(32)
	if err != nil {
		return err
	}
	slot, err := d.Uint64()
	if err != nil {
		return err
	}
	copy(c.Root[:], root)
	c.Slot = slot
	return ssz.ExpectConsumed(data, d.Cursor(), "Checkpoint")
}

// HashTreeRoot merkleizes the checkpoint's two fields.
func (c *Checkpoint) HashTreeRoot() ([32]byte, error) {
	rootChunk := ssz.HashTreeRootBytes(c.Root[:])
	slotChunk := ssz.HashTreeRootUint64(c.Slot)
	return ssz.MerkleizeContainer([]ssz.Root{rootChunk, slotChunk}), nil
}

// Equal reports whether two checkpoints name the same (root, slot) pair.
func (c *Checkpoint) Equal(other *Checkpoint) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Root == other.Root && c.Slot == other.Slot
}
