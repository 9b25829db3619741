// Package leansig implements the Generalized-XMSS signature contract:
// epoch-indexed key/sign/verify over a Merkle tree of one-time leaf
// keys. The concrete hash-chain construction inside each leaf is a
// local, pure-Go stand-in for the external primitive; callers depend
// only on the keypair_generate/sign/verify contract and the fact that
// a signature's tree-hash root uses the Path/Rho/Hashes container
// layout, never a flat byte hash.
package leansig

import (
	"crypto/sha256"
	"errors"
	"fmt"
)

// ErrEpochNotActive means the requested epoch falls outside the
// keypair's activation window.
var ErrEpochNotActive = errors.New("leansig: epoch outside activation window")

// ErrEpochReused means the keypair has already signed at or after the
// requested epoch; XMSS is stateful and a key must never sign twice at
// the same epoch.
var ErrEpochReused = errors.New("leansig: epoch already used")

// ErrVerificationFailed means the signature does not open to the
// claimed public key for the given epoch.
var ErrVerificationFailed = errors.New("leansig: verification failed")

// Keypair is a stateful signing key: a master seed from which every
// epoch's one-time leaf key is derived, plus the last epoch it has
// signed at.
type Keypair struct {
	originalSeed    uint64
	seed            [32]byte
	activationEpoch uint64
	numActiveEpochs uint64
	lastUsedEpoch   uint64
	everSigned      bool
	pub             PublicKey
}

// GenerateKeypair derives a new keypair from seed, activation_epoch and
// num_active_epochs, and computes its public key as the Merkle root of
// every leaf's one-time public value across the activation window.
func GenerateKeypair(seed uint64, activationEpoch, numActiveEpochs uint64) (*Keypair, error) {
	if numActiveEpochs == 0 {
		return nil, fmt.Errorf("leansig: numActiveEpochs must be positive")
	}
	var seedBytes [32]byte
	putUint64(seedBytes[:8], seed)
	seedBytes = sha256.Sum256(seedBytes[:])

	kp := &Keypair{
		originalSeed:    seed,
		seed:            seedBytes,
		activationEpoch: activationEpoch,
		numActiveEpochs: numActiveEpochs,
	}
	kp.pub = PublicKey{
		Root:            kp.merkleRoot(),
		ActivationEpoch: activationEpoch,
		NumActiveEpochs: numActiveEpochs,
	}
	return kp, nil
}

// PublicKey returns the keypair's public key.
func (kp *Keypair) PublicKey() PublicKey {
	return kp.pub
}

// leafSecret derives the one-time secret for a given epoch.
func (kp *Keypair) leafSecret(epoch uint64) [32]byte {
	var buf [40]byte
	copy(buf[:32], kp.seed[:])
	putUint64(buf[32:], epoch)
	return sha256.Sum256(buf[:])
}

// maxChainDigit is the top of each WOTS-style hash chain: chunk digests
// run from chainBase (digit 0) to chainTop (digit maxChainDigit), one
// hash-chain step per digit value derived from the message.
const maxChainDigit = 255

// leafPublic derives the one-time public value committing to the top of
// every HashLenFE hash chain of a leaf, mirroring a WOTS+-style public
// key: the public key commits to chain ends a signer can only reach by
// walking forward from a chain-base value it alone knows.
func (kp *Keypair) leafPublic(epoch uint64) [32]byte {
	secret := kp.leafSecret(epoch)
	var buf []byte
	for i := 0; i < HashLenFE; i++ {
		top := chainAt(chainBase(secret, epoch, uint32(i)), maxChainDigit)
		buf = append(buf, top[:]...)
	}
	return sha256.Sum256(buf)
}

// chainBase derives the digit-0 start of chunk i's hash chain.
func chainBase(secret [32]byte, epoch uint64, chunk uint32) [32]byte {
	var buf [44]byte
	copy(buf[:32], secret[:])
	putUint64(buf[32:40], epoch)
	buf[40] = byte(chunk)
	buf[41] = byte(chunk >> 8)
	buf[42] = byte(chunk >> 16)
	buf[43] = byte(chunk >> 24)
	return sha256.Sum256(buf[:])
}

// chainAt walks the hash chain forward steps times from x.
func chainAt(x [32]byte, steps int) [32]byte {
	for i := 0; i < steps; i++ {
		x = sha256.Sum256(x[:])
	}
	return x
}

// messageDigits derives one chain digit per chunk from the message and
// the signature's randomness, binding every revealed chunk value to the
// signed content: a signature produced for one message reveals chain
// positions that do not reconstruct another message's chain tops.
func messageDigits(rho [RandLen]byte, messageRoot [32]byte) [HashLenFE]byte {
	var buf [RandLen + 32]byte
	copy(buf[:RandLen], rho[:])
	copy(buf[RandLen:], messageRoot[:])
	digest := sha256.Sum256(buf[:])
	var digits [HashLenFE]byte
	copy(digits[:], digest[:HashLenFE])
	return digits
}

// merkleRoot computes the Merkle root over every leaf's one-time public
// value in [activationEpoch, activationEpoch+numActiveEpochs).
func (kp *Keypair) merkleRoot() [32]byte {
	leaves := make([][32]byte, kp.numActiveEpochs)
	for i := uint64(0); i < kp.numActiveEpochs; i++ {
		leaves[i] = kp.leafPublic(kp.activationEpoch + i)
	}
	return merkleizeLeaves(leaves)
}

// authPath computes the sibling hashes from a leaf up to the root.
func (kp *Keypair) authPath(leafIndex uint64) [][32]byte {
	leaves := make([][32]byte, kp.numActiveEpochs)
	for i := uint64(0); i < kp.numActiveEpochs; i++ {
		leaves[i] = kp.leafPublic(kp.activationEpoch + i)
	}
	return merklePath(leaves, leafIndex)
}

// Sign produces a signature for messageRoot at epoch, refusing to sign
// at an epoch at or before one already used (stateful reuse guard).
func (kp *Keypair) Sign(epoch uint32, messageRoot [32]byte) (Signature, error) {
	e := uint64(epoch)
	if e < kp.activationEpoch || e >= kp.activationEpoch+kp.numActiveEpochs {
		return Signature{}, ErrEpochNotActive
	}
	if kp.everSigned && e <= kp.lastUsedEpoch {
		return Signature{}, ErrEpochReused
	}

	secret := kp.leafSecret(e)

	var rhoInput [64]byte
	copy(rhoInput[:32], secret[:])
	copy(rhoInput[32:], messageRoot[:])
	rhoFull := sha256.Sum256(rhoInput[:])
	var rho [RandLen]byte
	copy(rho[:], rhoFull[:RandLen])

	digits := messageDigits(rho, messageRoot)
	var hashes [][32]byte
	for i := 0; i < HashLenFE; i++ {
		base := chainBase(secret, e, uint32(i))
		hashes = append(hashes, chainAt(base, int(digits[i])))
	}

	path := kp.authPath(e - kp.activationEpoch)

	kp.lastUsedEpoch = e
	kp.everSigned = true

	return Signature{Path: path, Rho: rho, Hashes: hashes}, nil
}

// Verify checks that sig opens pubkey's Merkle tree at leaf epoch. It
// does not depend on the signer's secret seed.
func Verify(pubkey PublicKey, epoch uint32, messageRoot [32]byte, sig Signature) error {
	e := uint64(epoch)
	if e < pubkey.ActivationEpoch || e >= pubkey.ActivationEpoch+pubkey.NumActiveEpochs {
		return ErrEpochNotActive
	}
	if len(sig.Hashes) != HashLenFE {
		return ErrVerificationFailed
	}
	digits := messageDigits(sig.Rho, messageRoot)

	var buf []byte
	for i, h := range sig.Hashes {
		top := chainAt(h, maxChainDigit-int(digits[i]))
		buf = append(buf, top[:]...)
	}
	leaf := sha256.Sum256(buf)

	leafIndex := e - pubkey.ActivationEpoch
	root := recomputeMerkleRoot(leaf, leafIndex, sig.Path)
	if root != pubkey.Root {
		return ErrVerificationFailed
	}
	return nil
}

func merkleizeLeaves(leaves [][32]byte) [32]byte {
	if len(leaves) == 0 {
		return [32]byte{}
	}
	layer := leaves
	for len(layer) > 1 {
		next := make([][32]byte, (len(layer)+1)/2)
		for i := range next {
			left := layer[2*i]
			var right [32]byte
			if 2*i+1 < len(layer) {
				right = layer[2*i+1]
			} else {
				right = left
			}
			next[i] = compress(left, right)
		}
		layer = next
	}
	return layer[0]
}

func merklePath(leaves [][32]byte, index uint64) [][32]byte {
	var path [][32]byte
	layer := leaves
	idx := index
	for len(layer) > 1 {
		var sibling [32]byte
		if idx%2 == 0 {
			if int(idx+1) < len(layer) {
				sibling = layer[idx+1]
			} else {
				sibling = layer[idx]
			}
		} else {
			sibling = layer[idx-1]
		}
		path = append(path, sibling)

		next := make([][32]byte, (len(layer)+1)/2)
		for i := range next {
			left := layer[2*i]
			var right [32]byte
			if 2*i+1 < len(layer) {
				right = layer[2*i+1]
			} else {
				right = left
			}
			next[i] = compress(left, right)
		}
		layer = next
		idx /= 2
	}
	return path
}

func recomputeMerkleRoot(leaf [32]byte, index uint64, path [][32]byte) [32]byte {
	cur := leaf
	idx := index
	for _, sibling := range path {
		if idx%2 == 0 {
			cur = compress(cur, sibling)
		} else {
			cur = compress(sibling, cur)
		}
		idx /= 2
	}
	return cur
}

func compress(a, b [32]byte) [32]byte {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return sha256.Sum256(buf[:])
}
