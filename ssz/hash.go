// Package ssz implements the Simple Serialize (SSZ) encoding and
// tree-hashing rules used by every protocol container: fixed vectors as
// balanced binary trees, variable-length lists and bitlists as
// merkleize(chunks, limit) with length mixed in, and containers as a
// balanced tree of their fields' roots.
package ssz

import (
	"crypto/sha256"
	"sync"
)

// Root is a 32-byte tree-hash root or chunk.
type Root = [32]byte

var zeroHashes [65]Root

func init() {
	for i := 1; i < len(zeroHashes); i++ {
		zeroHashes[i] = hash(zeroHashes[i-1], zeroHashes[i-1])
	}
}

// ZeroHashAtDepth returns the root of an all-zero subtree of the given depth.
func ZeroHashAtDepth(depth int) Root {
	if depth < 0 {
		return Root{}
	}
	if depth >= len(zeroHashes) {
		depth = len(zeroHashes) - 1
	}
	return zeroHashes[depth]
}

var hasherPool = sync.Pool{
	New: func() any { return sha256.New() },
}

func hash(a, b Root) Root {
	h := hasherPool.Get().(interface {
		Reset()
		Write([]byte) (int, error)
		Sum([]byte) []byte
	})
	defer hasherPool.Put(h)
	h.Reset()
	h.Write(a[:])
	h.Write(b[:])
	var out Root
	copy(out[:], h.Sum(nil))
	return out
}

// depthFor returns the ceil(log2(n)) needed to hold n leaves, minimum 0.
func depthFor(n uint64) int {
	depth := 0
	for (uint64(1) << depth) < n {
		depth++
	}
	return depth
}

// Merkleize computes the root of a balanced binary tree over chunks,
// padded with zero chunks up to the next power of two (or to limit, if
// given and nonzero). An empty chunk set with a nonzero limit returns the
// zero subtree of depth ceil(log2(limit)), matching the reference's
// treatment of empty lists/bitlists.
func Merkleize(chunks []Root, limit uint64) Root {
	count := uint64(len(chunks))
	if limit == 0 {
		limit = count
		if limit == 0 {
			return Root{}
		}
	}
	if count > limit {
		panic("ssz: chunk count exceeds limit")
	}
	depth := depthFor(limit)
	if len(chunks) == 0 {
		return ZeroHashAtDepth(depth)
	}

	layer := make([]Root, 1<<depth)
	copy(layer, chunks)
	for d := depth; d > 0; d-- {
		next := make([]Root, len(layer)/2)
		for i := range next {
			next[i] = hash(layer[2*i], layer[2*i+1])
		}
		layer = next
	}
	return layer[0]
}

// MixInLength mixes the element count into a merkleized root, as used by
// every variable-length list and bitlist.
func MixInLength(root Root, length uint64) Root {
	var lengthChunk Root
	putUint64(lengthChunk[:], length)
	return hash(root, lengthChunk)
}

// MerkleizeContainer merkleizes a fixed ordered set of field roots.
func MerkleizeContainer(fieldRoots []Root) Root {
	return Merkleize(fieldRoots, uint64(len(fieldRoots)))
}

func putUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}

// PackBytes packs a byte slice into 32-byte chunks, zero-padding the last.
func PackBytes(data []byte) []Root {
	if len(data) == 0 {
		return nil
	}
	n := (len(data) + 31) / 32
	chunks := make([]Root, n)
	for i := 0; i < n; i++ {
		start := i * 32
		end := start + 32
		if end > len(data) {
			end = len(data)
		}
		copy(chunks[i][:], data[start:end])
	}
	return chunks
}

// HashTreeRootUint64 returns the chunk for a little-endian uint64.
func HashTreeRootUint64(v uint64) Root {
	var r Root
	putUint64(r[:], v)
	return r
}

// HashTreeRootUint32 returns the chunk for a little-endian uint32.
func HashTreeRootUint32(v uint32) Root {
	var r Root
	r[0] = byte(v)
	r[1] = byte(v >> 8)
	r[2] = byte(v >> 16)
	r[3] = byte(v >> 24)
	return r
}

// HashTreeRootBool returns the chunk for a bool.
func HashTreeRootBool(v bool) Root {
	var r Root
	if v {
		r[0] = 1
	}
	return r
}

// HashTreeRootBytes merkleizes a fixed-size byte vector (e.g. a 32-byte
// root used directly as a field, or a larger fixed vector packed into
// chunks and merkleized as a balanced tree).
func HashTreeRootBytes(data []byte) Root {
	if len(data) <= 32 {
		var r Root
		copy(r[:], data)
		return r
	}
	chunks := PackBytes(data)
	return Merkleize(chunks, uint64(len(chunks)))
}

// HashTreeRootList merkleizes a variable-length list of element roots
// bounded by limit, mixing in the element count.
func HashTreeRootList(elems []Root, limit uint64) Root {
	root := Merkleize(elems, limit)
	return MixInLength(root, uint64(len(elems)))
}

// HashTreeRootBitlist merkleizes an SSZ bitlist (raw data bits, not the
// byte-packed-with-sentinel wire form) bounded by limit bits, mixing in
// the bit count.
func HashTreeRootBitlist(bits []bool, limit uint64) Root {
	packed := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			packed[i/8] |= 1 << uint(i%8)
		}
	}
	chunkLimit := (limit + 255) / 256
	chunks := PackBytes(packed)
	root := Merkleize(chunks, chunkLimit)
	return MixInLength(root, uint64(len(bits)))
}
