package leansig

import "github.com/bomanaps/zeam/ssz"

// Generalized-XMSS preset constants (mainnet), per the protocol's field
// element sizing: RAND_LEN_FE=7 32-bit field elements (28 bytes of
// randomness) and HASH_LEN_FE=8 per-chunk hash digests.
const (
	RandLen    = 28
	HashLenFE  = 8
	LogLifetime = 32

	// MaxPathLen bounds the Merkle authentication path length; with
	// LOG_LIFETIME=32 no key's activation window needs a deeper tree.
	MaxPathLen = LogLifetime
)

// PublicKeySize is the fixed size of a serialized public key: a 32-byte
// Merkle root plus the activation window (two uint64s) and a reserved
// uint32.
const PublicKeySize = 32 + 8 + 8 + 4

// PublicKey identifies a one-time-key Merkle tree's root together with
// the epoch window over which its leaves are valid.
type PublicKey struct {
	Root             [32]byte
	ActivationEpoch  uint64
	NumActiveEpochs  uint64
}

// Bytes serializes the public key to its fixed 52-byte wire form.
func (pk PublicKey) Bytes() [PublicKeySize]byte {
	var out [PublicKeySize]byte
	copy(out[0:32], pk.Root[:])
	putUint64(out[32:40], pk.ActivationEpoch)
	putUint64(out[40:48], pk.NumActiveEpochs)
	return out
}

// ParsePublicKey decodes a 52-byte public key.
func ParsePublicKey(b []byte) (PublicKey, error) {
	if len(b) != PublicKeySize {
		return PublicKey{}, &ssz.DecodeError{Kind: ssz.ErrKindInvalidLength, Context: "leansig.PublicKey"}
	}
	var pk PublicKey
	copy(pk.Root[:], b[0:32])
	pk.ActivationEpoch = getUint64(b[32:40])
	pk.NumActiveEpochs = getUint64(b[40:48])
	return pk, nil
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// Signature is the composite container a validator attaches to a signed
// block or attestation: a variable-length Merkle authentication path, a
// randomness vector, and the per-chunk hash digests that open the
// one-time leaf key. Its tree-hash root uses this container layout, not
// a flat hash of the signature bytes.
type Signature struct {
	Path   [][32]byte
	Rho    [RandLen]byte
	Hashes [][32]byte
}

// MarshalSSZ encodes the signature: Rho inline, Path and Hashes as
// offset-addressed variable fields.
func (s *Signature) MarshalSSZ() ([]byte, error) {
	var e ssz.Encoder
	e.PutOffset(encodeRootList(s.Path))
	e.PutBytes(s.Rho[:])
	e.PutOffset(encodeRootList(s.Hashes))
	return e.Bytes(), nil
}

// UnmarshalSSZ decodes a signature previously produced by MarshalSSZ.
func (s *Signature) UnmarshalSSZ(data []byte) error {
	d := ssz.NewDecoder(data, "leansig.Signature")
	pathOff, err := d.Offset()
	if err != nil {
		return err
	}
	rho, err := d.Bytes(RandLen)
	if err != nil {
		return err
	}
	hashesOff, err := d.Offset()
	if err != nil {
		return err
	}
	parts, err := ssz.ResolveOffsets(data, []uint32{pathOff, hashesOff, uint32(len(data))}, "leansig.Signature")
	if err != nil {
		return err
	}
	path, err := decodeRootList(parts[0], "leansig.Signature.Path")
	if err != nil {
		return err
	}
	hashes, err := decodeRootList(parts[1], "leansig.Signature.Hashes")
	if err != nil {
		return err
	}
	copy(s.Rho[:], rho)
	s.Path = path
	s.Hashes = hashes
	return nil
}

// HashTreeRoot computes the container root: path list root, rho vector
// root, hashes list root, merkleized as three fields.
func (s *Signature) HashTreeRoot() ([32]byte, error) {
	pathRoot := ssz.HashTreeRootList(rootsToChunks(s.Path), MaxPathLen)
	rhoRoot := ssz.HashTreeRootBytes(s.Rho[:])
	hashesRoot := ssz.HashTreeRootList(rootsToChunks(s.Hashes), HashLenFE)
	return ssz.MerkleizeContainer([]ssz.Root{pathRoot, rhoRoot, hashesRoot}), nil
}

func rootsToChunks(roots [][32]byte) []ssz.Root {
	out := make([]ssz.Root, len(roots))
	for i, r := range roots {
		out[i] = r
	}
	return out
}

func encodeRootList(roots [][32]byte) []byte {
	out := make([]byte, 0, 32*len(roots))
	for _, r := range roots {
		out = append(out, r[:]...)
	}
	return out
}

func decodeRootList(data []byte, context string) ([][32]byte, error) {
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
