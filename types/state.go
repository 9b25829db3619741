package types

import "github.com/bomanaps/zeam/ssz"

// State is the consensus state object. It is created once at genesis
// and mutated only by the state-transition function; every post-state
// is stored by its own block's root.
//
// Invariants: len(HistoricalBlockHashes) == len(JustifiedSlots) ==
// Slot; for every root in JustificationsRoots there are exactly
// Config.NumValidators corresponding bits in JustificationsValidators,
// and roots appear in ascending byte order.
type State struct {
	Config                   *Config
	Slot                     uint64
	LatestBlockHeader        *BlockHeader
	LatestJustified          *Checkpoint
	LatestFinalized          *Checkpoint
	HistoricalBlockHashes    [][32]byte
	JustifiedSlots           ssz.Bitlist
	JustificationsRoots      [][32]byte
	JustificationsValidators ssz.Bitlist
}

// Copy returns a deep copy of the state, safe for the caller to mutate
// without affecting the original or any other post-state sharing its
// backing arrays.
func (s *State) Copy() *State {
	out := &State{Slot: s.Slot}

	if s.Config != nil {
		cfg := *s.Config
		out.Config = &cfg
	}
	if s.LatestBlockHeader != nil {
		out.LatestBlockHeader = s.LatestBlockHeader.Copy()
	}
	if s.LatestJustified != nil {
		cp := *s.LatestJustified
		out.LatestJustified = &cp
	}
	if s.LatestFinalized != nil {
		cp := *s.LatestFinalized
		out.LatestFinalized = &cp
	}
	if s.HistoricalBlockHashes != nil {
		out.HistoricalBlockHashes = make([][32]byte, len(s.HistoricalBlockHashes))
		copy(out.HistoricalBlockHashes, s.HistoricalBlockHashes)
	}
	if s.JustifiedSlots != nil {
		out.JustifiedSlots = s.JustifiedSlots.Clone()
	}
	if s.JustificationsRoots != nil {
		out.JustificationsRoots = make([][32]byte, len(s.JustificationsRoots))
		copy(out.JustificationsRoots, s.JustificationsRoots)
	}
	if s.JustificationsValidators != nil {
		out.JustificationsValidators = s.JustificationsValidators.Clone()
	}

	return out
}

// MarshalSSZ encodes the state: config, header and the two checkpoints
// are fixed-size and encoded inline; the four variable-length fields
// are offset-addressed.
func (s *State) MarshalSSZ() ([]byte, error) {
	cfgBytes, err := s.Config.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	headerBytes, err := s.LatestBlockHeader.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	justifiedBytes, err := s.LatestJustified.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	finalizedBytes, err := s.LatestFinalized.MarshalSSZ()
	if err != nil {
		return nil, err
	}

	var e ssz.Encoder
	e.PutBytes(cfgBytes)
	e.PutUint64(s.Slot)
	e.PutBytes(headerBytes)
	e.PutBytes(justifiedBytes)
	e.PutBytes(finalizedBytes)
	e.PutOffset(encodeRoots(s.HistoricalBlockHashes))
	e.PutOffset([]byte(s.JustifiedSlots))
	e.PutOffset(encodeRoots(s.JustificationsRoots))
	e.PutOffset([]byte(s.JustificationsValidators))
	return e.Bytes(), nil
}

// UnmarshalSSZ decodes a state previously produced by MarshalSSZ.
func (s *State) UnmarshalSSZ(data []byte) error {
	d := ssz.NewDecoder(data, "State")
	cfgBytes, err := d.Bytes(configSize)
	if err != nil {
		return err
	}
	slot, err := d.Uint64()
	if err != nil {
		return err
	}
	headerBytes, err := d.Bytes(blockHeaderSize)
	if err != nil {
		return err
	}
	justifiedBytes, err := d.Bytes(checkpointSize)
	if err != nil {
		return err
	}
	finalizedBytes, err := d.Bytes(checkpointSize)
	if err != nil {
		return err
	}
	offHistorical, err := d.Offset()
	if err != nil {
		return err
	}
	offJustifiedSlots, err := d.Offset()
	if err != nil {
		return err
	}
	offJustRoots, err := d.Offset()
	if err != nil {
		return err
	}
	offJustVals, err := d.Offset()
	if err != nil {
		return err
	}

	parts, err := ssz.ResolveOffsets(data, []uint32{
		offHistorical, offJustifiedSlots, offJustRoots, offJustVals, uint32(len(data)),
	}, "State")
	if err != nil {
		return err
	}

	cfg := new(Config)
	if err := cfg.UnmarshalSSZ(cfgBytes); err != nil {
		return err
	}
	header := new(BlockHeader)
	if err := header.UnmarshalSSZ(headerBytes); err != nil {
		return err
	}
	justified := new(Checkpoint)
	if err := justified.UnmarshalSSZ(justifiedBytes); err != nil {
		return err
	}
	finalized := new(Checkpoint)
	if err := finalized.UnmarshalSSZ(finalizedBytes); err != nil {
		return err
	}
	historical, err := decodeRoots(parts[0], "State.HistoricalBlockHashes")
	if err != nil {
		return err
	}
	justRoots, err := decodeRoots(parts[2], "State.JustificationsRoots")
	if err != nil {
		return err
	}

	s.Config = cfg
	s.Slot = slot
	s.LatestBlockHeader = header
	s.LatestJustified = justified
	s.LatestFinalized = finalized
	s.HistoricalBlockHashes = historical
	s.JustifiedSlots = ssz.Bitlist(parts[1])
	s.JustificationsRoots = justRoots
	s.JustificationsValidators = ssz.Bitlist(parts[3])
	return nil
}

// HashTreeRoot merkleizes the state's nine fields.
func (s *State) HashTreeRoot() ([32]byte, error) {
	cfgRoot, err := s.Config.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	headerRoot, err := s.LatestBlockHeader.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	justifiedRoot, err := s.LatestJustified.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}
	finalizedRoot, err := s.LatestFinalized.HashTreeRoot()
	if err != nil {
		return ssz.Root{}, err
	}

	historicalRoot := ssz.HashTreeRootList(rootSliceToChunks(s.HistoricalBlockHashes), HistoricalRootsLimit)
	justifiedSlotsRoot := ssz.HashTreeRootBitlist(ssz.ToBoolSlice(s.JustifiedSlots), HistoricalRootsLimit)
	justRootsRoot := ssz.HashTreeRootList(rootSliceToChunks(s.JustificationsRoots), HistoricalRootsLimit)
	justValsRoot := ssz.HashTreeRootBitlist(ssz.ToBoolSlice(s.JustificationsValidators), JustificationValsLimit)

	fields := []ssz.Root{
		cfgRoot, ssz.HashTreeRootUint64(s.Slot), headerRoot, justifiedRoot, finalizedRoot,
		historicalRoot, justifiedSlotsRoot, justRootsRoot, justValsRoot,
	}
	return ssz.MerkleizeContainer(fields), nil
}

func encodeRoots(roots [][32]byte) []byte {
	out := make([]byte, 0, 32*len(roots))
	for _, r := range roots {
		out = append(out, r[:]...)
	}
	return out
}

func decodeRoots(data []byte, context string) ([][32]byte, error) {
	elems, err := ssz.SplitList(data, 32, context)
	if err != nil {
		return nil, err
	}
	out := make([][32]byte, len(elems))
	for i, e := range elems {
		copy(out[i][:], e)
	}
	return out, nil
}

func rootSliceToChunks(roots [][32]byte) []ssz.Root {
	out := make([]ssz.Root, len(roots))
	for i, r := range roots {
		out[i] = r
	}
	return out
}
