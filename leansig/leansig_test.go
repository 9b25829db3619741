package leansig

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
)

const testActivationEpoch = 0
const testNumActiveEpochs = 8

func TestKeyGeneration(t *testing.T) {
	kp, err := GenerateKeypair(42, testActivationEpoch, testNumActiveEpochs)
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	pub := kp.PublicKey()
	if pub.Root == [32]byte{} {
		t.Fatal("public key root should not be zero")
	}
	if pub.ActivationEpoch != testActivationEpoch || pub.NumActiveEpochs != testNumActiveEpochs {
		t.Fatalf("unexpected activation window: %+v", pub)
	}
}

func TestSignAndVerify(t *testing.T) {
	kp, err := GenerateKeypair(42, testActivationEpoch, testNumActiveEpochs)
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	msg := sha256.Sum256([]byte("test message for devnet-1 xmss"))

	sig, err := kp.Sign(0, msg)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if err := Verify(kp.PublicKey(), 0, msg, sig); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
}

func TestVerifyRejectsWrongEpoch(t *testing.T) {
	kp, err := GenerateKeypair(42, testActivationEpoch, testNumActiveEpochs)
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	msg := sha256.Sum256([]byte("epoch test message"))

	sig, err := kp.Sign(0, msg)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if err := Verify(kp.PublicKey(), 1, msg, sig); err == nil {
		t.Fatal("expected verification to fail at a different epoch, but it succeeded")
	}
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	kp, err := GenerateKeypair(42, testActivationEpoch, testNumActiveEpochs)
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	msg := sha256.Sum256([]byte("the real message"))
	other := sha256.Sum256([]byte("a different message"))

	sig, err := kp.Sign(0, msg)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if err := Verify(kp.PublicKey(), 0, msg, sig); err != nil {
		t.Fatalf("Verify of the signed message failed: %v", err)
	}
	if err := Verify(kp.PublicKey(), 0, other, sig); err == nil {
		t.Fatal("expected verification to fail for a different message, but it succeeded")
	}
}

func TestSignRejectsEpochReuse(t *testing.T) {
	kp, err := GenerateKeypair(42, testActivationEpoch, testNumActiveEpochs)
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	msg := sha256.Sum256([]byte("first message"))
	if _, err := kp.Sign(2, msg); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := kp.Sign(2, msg); err != ErrEpochReused {
		t.Fatalf("expected ErrEpochReused, got %v", err)
	}
	if _, err := kp.Sign(1, msg); err != ErrEpochReused {
		t.Fatalf("expected ErrEpochReused for earlier epoch, got %v", err)
	}
	if _, err := kp.Sign(3, msg); err != nil {
		t.Fatalf("expected signing at a later epoch to succeed, got %v", err)
	}
}

func TestSignRejectsOutOfWindowEpoch(t *testing.T) {
	kp, err := GenerateKeypair(42, testActivationEpoch, testNumActiveEpochs)
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	msg := sha256.Sum256([]byte("out of window"))
	if _, err := kp.Sign(testNumActiveEpochs, msg); err != ErrEpochNotActive {
		t.Fatalf("expected ErrEpochNotActive, got %v", err)
	}
}

func TestSignatureSSZRoundTrip(t *testing.T) {
	kp, err := GenerateKeypair(7, testActivationEpoch, testNumActiveEpochs)
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	msg := sha256.Sum256([]byte("ssz round trip"))
	sig, err := kp.Sign(0, msg)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	data, err := sig.MarshalSSZ()
	if err != nil {
		t.Fatalf("MarshalSSZ failed: %v", err)
	}

	decoded := new(Signature)
	if err := decoded.UnmarshalSSZ(data); err != nil {
		t.Fatalf("UnmarshalSSZ failed: %v", err)
	}
	if decoded.Rho != sig.Rho {
		t.Fatalf("rho mismatch after round trip")
	}
	if len(decoded.Hashes) != len(sig.Hashes) || len(decoded.Path) != len(sig.Path) {
		t.Fatalf("list lengths mismatch after round trip")
	}

	rootBefore, err := sig.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot failed: %v", err)
	}
	rootAfter, err := decoded.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot failed: %v", err)
	}
	if rootBefore != rootAfter {
		t.Fatalf("hash tree root changed after round trip")
	}
}

func TestKeystoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	skPath := filepath.Join(dir, "validator.key")

	kp, err := GenerateKeypair(99, testActivationEpoch, testNumActiveEpochs)
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	msg := sha256.Sum256([]byte("keystore message"))
	if _, err := kp.Sign(3, msg); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if err := SaveKeypair(kp, skPath); err != nil {
		t.Fatalf("SaveKeypair failed: %v", err)
	}

	loaded, err := LoadKeypair(skPath)
	if err != nil {
		t.Fatalf("LoadKeypair failed: %v", err)
	}
	if loaded.PublicKey() != kp.PublicKey() {
		t.Fatalf("public key mismatch after reload")
	}
	if _, err := loaded.Sign(3, msg); err != ErrEpochReused {
		t.Fatalf("expected reload to preserve epoch-reuse guard, got %v", err)
	}
	if _, err := loaded.Sign(4, msg); err != nil {
		t.Fatalf("expected signing at a fresh epoch after reload to succeed, got %v", err)
	}

	if _, err := os.Stat(skPath); err != nil {
		t.Fatalf("keystore file missing: %v", err)
	}
}
