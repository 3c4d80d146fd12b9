package keypair

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/mr-tron/base58"
)

const (
	PublicKeySize = ed25519.PublicKeySize
	SecretKeySize = ed25519.PrivateKeySize
	SeedSize      = ed25519.SeedSize
	SignatureSize = ed25519.SignatureSize
)

var (
	ErrInvalidSeed      = errors.New("invalid seed")
	ErrInvalidSecretKey = errors.New("invalid secret key")
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// PublicKey is the 32-byte public half of a key pair. Its text form is base58.
type PublicKey [PublicKeySize]byte

// ParsePublicKey decodes a base58 public key.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	b, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(b) != PublicKeySize {
		return pk, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPublicKey, PublicKeySize, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// String returns the base58 encoding of the key
func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// Bytes returns a copy of the key bytes
func (pk PublicKey) Bytes() []byte {
	return append([]byte(nil), pk[:]...)
}

// IsZero reports whether the key is all zeros (the system program id)
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

// Verify checks a detached signature over message against this key.
func (pk PublicKey) Verify(message, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pk[:]), message, sig)
}

// KeyPair is an ed25519 signing key. The secret key layout is seed||public,
// the same 64 bytes wallet tooling exports.
type KeyPair struct {
	secret ed25519.PrivateKey
	public PublicKey
}

// Generate creates a new random key pair. A nil reader uses crypto/rand.
func Generate(r io.Reader) (*KeyPair, error) {
	if r == nil {
		r = rand.Reader
	}
	_, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, fmt.Errorf("generate key pair: %w", err)
	}
	return fromPrivate(priv), nil
}

// FromSeed derives a key pair from a 32-byte seed.
func FromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSeed, SeedSize, len(seed))
	}
	return fromPrivate(ed25519.NewKeyFromSeed(seed)), nil
}

// FromSecretKey loads a 64-byte secret key. The trailing public half must
// match the one derived from the seed.
func FromSecretKey(secret []byte) (*KeyPair, error) {
	if len(secret) != SecretKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSecretKey, SecretKeySize, len(secret))
	}
	kp := fromPrivate(ed25519.NewKeyFromSeed(secret[:SeedSize]))
	if !bytes.Equal(kp.public[:], secret[SeedSize:]) {
		return nil, fmt.Errorf("%w: public key mismatch", ErrInvalidSecretKey)
	}
	return kp, nil
}

func fromPrivate(priv ed25519.PrivateKey) *KeyPair {
	kp := &KeyPair{secret: priv}
	copy(kp.public[:], priv[SeedSize:])
	return kp
}

// PublicKey returns the public identifier of the key pair
func (kp *KeyPair) PublicKey() PublicKey {
	return kp.public
}

// SecretKey returns a copy of the 64-byte secret key
func (kp *KeyPair) SecretKey() []byte {
	return append([]byte(nil), kp.secret...)
}

// Sign produces a detached signature over message. ed25519 signatures are
// deterministic for a fixed key and message.
func (kp *KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.secret, message)
}
