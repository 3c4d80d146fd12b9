package keypair

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Signature of "solana" under the key pair derived from a 32-byte zero seed.
var goldenSolanaSig = []byte{
	122, 185, 28, 163, 199, 156, 9, 53, 72, 103, 181, 207, 208, 54, 198, 95,
	213, 116, 249, 113, 212, 48, 99, 124, 12, 247, 172, 40, 71, 18, 156, 14,
	132, 73, 72, 6, 231, 139, 54, 28, 153, 210, 14, 4, 98, 160, 0, 12, 48,
	102, 1, 176, 139, 203, 151, 218, 172, 55, 110, 120, 124, 86, 239, 2,
}

func TestFromSeed(t *testing.T) {
	t.Run("signs deterministically", func(t *testing.T) {
		kp, err := FromSeed(make([]byte, SeedSize))
		require.NoError(t, err)

		sig := kp.Sign([]byte("solana"))
		assert.Equal(t, goldenSolanaSig, sig)
		assert.True(t, kp.PublicKey().Verify([]byte("solana"), sig))
	})

	t.Run("same seed same key", func(t *testing.T) {
		seed := bytes.Repeat([]byte{7}, SeedSize)
		a, err := FromSeed(seed)
		require.NoError(t, err)
		b, err := FromSeed(seed)
		require.NoError(t, err)
		assert.Equal(t, a.PublicKey(), b.PublicKey())
	})

	t.Run("rejects short seed", func(t *testing.T) {
		_, err := FromSeed([]byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrInvalidSeed)
	})
}

func TestFromSecretKey(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		kp, err := Generate(nil)
		require.NoError(t, err)

		loaded, err := FromSecretKey(kp.SecretKey())
		require.NoError(t, err)
		assert.Equal(t, kp.PublicKey(), loaded.PublicKey())
	})

	t.Run("rejects mismatched public half", func(t *testing.T) {
		kp, err := Generate(nil)
		require.NoError(t, err)

		secret := kp.SecretKey()
		secret[SecretKeySize-1] ^= 0xff
		_, err = FromSecretKey(secret)
		assert.ErrorIs(t, err, ErrInvalidSecretKey)
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := FromSecretKey(make([]byte, 10))
		assert.ErrorIs(t, err, ErrInvalidSecretKey)
	})
}

func TestPublicKey(t *testing.T) {
	t.Run("base58 round trip", func(t *testing.T) {
		kp, err := Generate(nil)
		require.NoError(t, err)

		pk, err := ParsePublicKey(kp.PublicKey().String())
		require.NoError(t, err)
		assert.Equal(t, kp.PublicKey(), pk)
	})

	t.Run("zero key", func(t *testing.T) {
		var pk PublicKey
		assert.True(t, pk.IsZero())
		assert.Equal(t, "11111111111111111111111111111111", pk.String())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := ParsePublicKey("0OIl")
		assert.ErrorIs(t, err, ErrInvalidPublicKey)

		_, err = ParsePublicKey("abc")
		assert.ErrorIs(t, err, ErrInvalidPublicKey)
	})

	t.Run("verify rejects tampered signature", func(t *testing.T) {
		kp, err := Generate(nil)
		require.NoError(t, err)

		sig := kp.Sign([]byte("hello"))
		sig[0] ^= 1
		assert.False(t, kp.PublicKey().Verify([]byte("hello"), sig))
		assert.False(t, kp.PublicKey().Verify([]byte("hello"), sig[:10]))
	})
}
